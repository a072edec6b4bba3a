package mediainfocli

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"mediainspect/domain/mediainfo"
	"mediainspect/infrastructure/toolchain"
)

// versionRegex matches the banner printed by `mediainfo --Version`
var versionRegex = regexp.MustCompile(`MediaInfoLib - v(\S+)`)

// Analyzer implements mediainfo.Analyzer by driving the mediainfo executable
type Analyzer struct {
	mediainfoPath string
	runner        toolchain.CommandRunner

	version []int // cached library version, nil until first use
}

// AnalyzerOption is a functional option for configuring Analyzer
type AnalyzerOption func(*Analyzer)

// WithMediaInfoPath sets a custom mediainfo executable path
func WithMediaInfoPath(path string) AnalyzerOption {
	return func(a *Analyzer) {
		a.mediainfoPath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner toolchain.CommandRunner) AnalyzerOption {
	return func(a *Analyzer) {
		a.runner = runner
	}
}

// NewAnalyzer creates a new MediaInfo-based analyzer
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		mediainfoPath: "mediainfo",
		runner:        &toolchain.ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// VerifyInstalled checks that mediainfo is available and reports a usable
// library version
func (a *Analyzer) VerifyInstalled(ctx context.Context) error {
	_, err := a.libraryVersion(ctx)
	return err
}

// libraryVersion runs `mediainfo --Version` and caches the parsed version.
// Not safe for concurrent first use, like the underlying library itself.
func (a *Analyzer) libraryVersion(ctx context.Context) ([]int, error) {
	if a.version != nil {
		return a.version, nil
	}

	out, err := a.runner.Output(ctx, a.mediainfoPath, "--Version")
	if err != nil {
		return nil, fmt.Errorf("mediainfo not found or not executable: %w", err)
	}

	matches := versionRegex.FindStringSubmatch(string(out))
	if matches == nil {
		return nil, fmt.Errorf("could not determine MediaInfo library version from %q", strings.TrimSpace(string(out)))
	}

	var version []int
	for _, part := range strings.Split(matches[1], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("could not determine MediaInfo library version from %q", matches[1])
		}
		version = append(version, n)
	}
	a.version = version
	return version, nil
}

// versionAtLeast compares the cached library version against major.minor
func versionAtLeast(version []int, major, minor int) bool {
	if len(version) == 0 {
		return false
	}
	if version[0] != major {
		return version[0] > major
	}
	if len(version) < 2 {
		return minor == 0
	}
	return version[1] >= minor
}

// buildArgs assembles the mediainfo command line for a request.
// The output format is appended by the caller.
func buildArgs(req *mediainfo.Request, version []int) []string {
	var args []string
	if req.Full {
		args = append(args, "--Full")
	}
	args = append(args, fmt.Sprintf("--ParseSpeed=%g", req.ParseSpeed))
	// Cover_Data is not extracted by default since library version 18.03
	if req.CoverData && versionAtLeast(version, 18, 3) {
		args = append(args, "--Cover_Data=base64")
	}
	if req.LegacyStreamDisplay {
		args = append(args, "--LegacyStreamDisplay=1")
	}

	extra := make([]string, 0, len(req.Options))
	for name := range req.Options {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		args = append(args, fmt.Sprintf("--%s=%s", name, req.Options[name]))
	}
	return args
}

// checkSource verifies that a local media path exists before invoking the
// tool, so that missing files surface as NotFoundError instead of a tool
// failure
func (a *Analyzer) checkSource(req *mediainfo.Request) error {
	if req.IsURL() {
		return nil
	}
	if _, err := os.Stat(req.MediaPath); err != nil {
		return &mediainfo.NotFoundError{Path: req.MediaPath}
	}
	return nil
}

// Analyze implements mediainfo.Analyzer
func (a *Analyzer) Analyze(ctx context.Context, req *mediainfo.Request) (*mediainfo.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := a.checkSource(req); err != nil {
		return nil, err
	}

	version, err := a.libraryVersion(ctx)
	if err != nil {
		return nil, err
	}

	// The XML output format was renamed to OLDXML in version 17.10
	xmlFormat := "XML"
	if versionAtLeast(version, 17, 10) {
		xmlFormat = "OLDXML"
	}

	args := buildArgs(req, version)
	args = append(args, "--Output="+xmlFormat, req.MediaPath)

	out, err := a.runner.Output(ctx, a.mediainfoPath, args...)
	if err != nil {
		return nil, fmt.Errorf("mediainfo failed on %s: %w", req.MediaPath, err)
	}

	return mediainfo.ParseReport(out)
}

// Inform implements mediainfo.Analyzer
func (a *Analyzer) Inform(ctx context.Context, req *mediainfo.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if err := a.checkSource(req); err != nil {
		return "", err
	}

	version, err := a.libraryVersion(ctx)
	if err != nil {
		return "", err
	}

	args := buildArgs(req, version)
	if req.Output != "" {
		args = append(args, "--Output="+req.Output)
	}
	args = append(args, req.MediaPath)

	out, err := a.runner.Output(ctx, a.mediainfoPath, args...)
	if err != nil {
		return "", fmt.Errorf("mediainfo failed on %s: %w", req.MediaPath, err)
	}
	return string(out), nil
}

// Ensure Analyzer implements mediainfo.Analyzer
var _ mediainfo.Analyzer = (*Analyzer)(nil)
