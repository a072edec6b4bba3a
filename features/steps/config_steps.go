//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediainspect/cmd"
	"mediainspect/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	output     bytes.Buffer
	err        error
}

var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config.yaml")
		testCtx.cfg = nil
		testCtx.output.Reset()
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		SharedConfigContext = &configContext{}
		return c, nil
	})

	ctx.Step(`^a config with version "([^"]*)" and a "([^"]*)" "([^"]*)" entry$`, testCtx.aConfigWithVersionAndEntry)
	ctx.Step(`^I add a bundle entry for "([^"]*)" "([^"]*)"$`, testCtx.iAddABundleEntry)
	ctx.Step(`^I remove the bundle entry for "([^"]*)" "([^"]*)"$`, testCtx.iRemoveTheBundleEntry)
	ctx.Step(`^I pin the library version "([^"]*)"$`, testCtx.iPinTheLibraryVersion)
	ctx.Step(`^I list the bundle entries$`, testCtx.iListTheBundleEntries)
	ctx.Step(`^the command should fail with "([^"]*)"$`, testCtx.theCommandShouldFailWith)
	ctx.Step(`^the saved config should have a bundle entry for "([^"]*)" "([^"]*)"$`, testCtx.theSavedConfigShouldHaveEntry)
	ctx.Step(`^the saved config should not have a bundle entry for "([^"]*)" "([^"]*)"$`, testCtx.theSavedConfigShouldNotHaveEntry)
	ctx.Step(`^the saved config should have version "([^"]*)"$`, testCtx.theSavedConfigShouldHaveVersion)
	ctx.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
}

func (s *configContext) aConfigWithVersionAndEntry(version, platform, arch string) error {
	s.cfg = &config.Config{}
	s.cfg.Bundled.Version = version
	s.cfg.Bundled.Entries = []config.BundleEntry{
		{Platform: platform, Arch: arch, Blake2b: "pinned-digest"},
	}
	return config.Save(s.cfg, s.configPath)
}

func (s *configContext) iAddABundleEntry(platform, arch string) error {
	s.err = cmd.RunConfigAddWithDependencies(s.cfg, s.configPath, "entry", platform, arch, "", &s.output)
	return nil
}

func (s *configContext) iRemoveTheBundleEntry(platform, arch string) error {
	s.err = cmd.RunConfigRemoveWithDependencies(s.cfg, s.configPath, "entry", platform, arch, &s.output)
	return nil
}

func (s *configContext) iPinTheLibraryVersion(version string) error {
	s.err = cmd.RunConfigSetVersionWithDependencies(s.cfg, s.configPath, version, &s.output)
	return nil
}

func (s *configContext) iListTheBundleEntries() error {
	s.err = cmd.RunConfigListWithDependencies(s.cfg, s.configPath, "entries", &s.output)
	return nil
}

func (s *configContext) theCommandShouldFailWith(expected string) error {
	if s.err == nil {
		return fmt.Errorf("expected command to fail with %q", expected)
	}
	if !strings.Contains(s.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got %q", expected, s.err.Error())
	}
	return nil
}

func (s *configContext) reload() (*config.Config, error) {
	if s.err != nil {
		return nil, fmt.Errorf("command failed: %w", s.err)
	}
	return config.Load(s.configPath)
}

func (s *configContext) theSavedConfigShouldHaveEntry(platform, arch string) error {
	cfg, err := s.reload()
	if err != nil {
		return err
	}
	for _, entry := range cfg.Bundled.Entries {
		if entry.Platform == platform && entry.Arch == arch {
			return nil
		}
	}
	return fmt.Errorf("bundle entry (%s, %s) not found in %v", platform, arch, cfg.Bundled.Entries)
}

func (s *configContext) theSavedConfigShouldNotHaveEntry(platform, arch string) error {
	cfg, err := s.reload()
	if err != nil {
		return err
	}
	for _, entry := range cfg.Bundled.Entries {
		if entry.Platform == platform && entry.Arch == arch {
			return fmt.Errorf("bundle entry (%s, %s) should have been removed", platform, arch)
		}
	}
	return nil
}

func (s *configContext) theSavedConfigShouldHaveVersion(version string) error {
	cfg, err := s.reload()
	if err != nil {
		return err
	}
	if cfg.Bundled.Version != version {
		return fmt.Errorf("expected version %q, got %q", version, cfg.Bundled.Version)
	}
	return nil
}

func (s *configContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(s.output.String(), expected) {
		return fmt.Errorf("expected output containing %q, got:\n%s", expected, s.output.String())
	}
	return nil
}
