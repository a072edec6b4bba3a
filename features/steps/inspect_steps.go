//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appinspect "mediainspect/application/inspect"
	"mediainspect/cmd"
	"mediainspect/domain/mediainfo"
	"mediainspect/infrastructure/filesystem"
	"mediainspect/infrastructure/mediainfocli"
	"mediainspect/infrastructure/toolchain"

	"github.com/cucumber/godog"
)

type inspectContext struct {
	tempDir   string
	mediaPath string
	runner    *scriptedRunner
	output    bytes.Buffer
	err       error
}

var SharedInspectContext = &inspectContext{}

// scriptedRunner plays back canned mediainfo output instead of invoking the
// real executable
type scriptedRunner struct {
	version string
	report  string

	calls [][]string
}

func (r *scriptedRunner) Run(ctx context.Context, name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	return nil
}

func (r *scriptedRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	for _, arg := range args {
		if arg == "--Version" {
			return []byte(fmt.Sprintf("MediaInfo Command line,\nMediaInfoLib - v%s\n", r.version)), nil
		}
	}
	return []byte(r.report), nil
}

var _ toolchain.CommandRunner = (*scriptedRunner)(nil)

func InitializeInspectScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedInspectContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "inspect-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.mediaPath = ""
		testCtx.runner = &scriptedRunner{version: "24.01"}
		testCtx.output.Reset()
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		SharedInspectContext = &inspectContext{}
		return c, nil
	})

	ctx.Step(`^a media file reported as "([^"]*)" with duration "([^"]*)"$`, testCtx.aMediaFileReportedAs)
	ctx.Step(`^no media file at the given path$`, testCtx.noMediaFileAtTheGivenPath)
	ctx.Step(`^I inspect the file$`, testCtx.iInspectTheFile)
	ctx.Step(`^I inspect the file as "([^"]*)"$`, testCtx.iInspectTheFileAs)
	ctx.Step(`^the inspection should fail as not found$`, testCtx.theInspectionShouldFailAsNotFound)
	ctx.Step(`^the inspect output should contain "([^"]*)"$`, testCtx.theInspectOutputShouldContain)
	ctx.Step(`^mediainfo should be asked for "([^"]*)" output$`, testCtx.mediainfoShouldBeAskedForOutput)
}

func (s *inspectContext) aMediaFileReportedAs(format, duration string) error {
	s.mediaPath = filepath.Join(s.tempDir, "sample.mkv")
	if err := os.WriteFile(s.mediaPath, []byte("not a real container"), 0644); err != nil {
		return err
	}
	s.runner.report = fmt.Sprintf(`<?xml version="1.0"?>
<Mediainfo version="24.01">
<File>
<track type="General">
<Format>%s</Format>
<Duration>%s</Duration>
</track>
<track type="Video">
<ID>1</ID>
<Format>AVC</Format>
</track>
</File>
</Mediainfo>`, format, duration)
	return nil
}

func (s *inspectContext) noMediaFileAtTheGivenPath() error {
	s.mediaPath = filepath.Join(s.tempDir, "missing.mkv")
	return nil
}

func (s *inspectContext) inspect(format string) error {
	analyzer := mediainfocli.NewAnalyzer(mediainfocli.WithCommandRunner(s.runner))
	s.err = cmd.RunInspectWithDependencies(
		context.Background(),
		analyzer,
		filesystem.NewChecker(),
		nil,
		appinspect.Input{MediaPath: s.mediaPath, Format: format, Full: true},
		&s.output,
	)
	return nil
}

func (s *inspectContext) iInspectTheFile() error {
	return s.inspect("")
}

func (s *inspectContext) iInspectTheFileAs(format string) error {
	return s.inspect(format)
}

func (s *inspectContext) theInspectionShouldFailAsNotFound() error {
	if s.err == nil {
		return fmt.Errorf("expected inspection to fail")
	}
	var notFound *mediainfo.NotFoundError
	if !errors.As(s.err, &notFound) {
		return fmt.Errorf("expected a not-found failure, got %v", s.err)
	}
	return nil
}

func (s *inspectContext) theInspectOutputShouldContain(expected string) error {
	if s.err != nil {
		return fmt.Errorf("inspection failed: %w", s.err)
	}
	if !strings.Contains(s.output.String(), expected) {
		return fmt.Errorf("expected output containing %q, got:\n%s", expected, s.output.String())
	}
	return nil
}

func (s *inspectContext) mediainfoShouldBeAskedForOutput(format string) error {
	want := "--Output=" + format
	for _, call := range s.runner.calls {
		for _, arg := range call {
			if arg == want {
				return nil
			}
		}
	}
	return fmt.Errorf("no mediainfo invocation carried %s in %v", want, s.runner.calls)
}
