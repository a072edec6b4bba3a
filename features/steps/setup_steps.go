//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediainspect/cmd"
	"mediainspect/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	setupCancelled  bool
	originalContent string
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	confirmResponses []bool
	inputIndex       int
	confirmIndex     int
}

func NewMockPrompter(inputs []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		confirmResponses: confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config", "config.yaml")
		testCtx.setupCancelled = false
		testCtx.originalContent = ""
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		SharedSetupContext = &setupContext{}
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, testCtx.noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, testCtx.aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with inputs:$`, testCtx.iRunTheSetupCommandWithInputs)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, testCtx.iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^a config file should exist$`, testCtx.aConfigFileShouldExist)
	ctx.Step(`^the config should have library_directory "([^"]*)"$`, testCtx.theConfigShouldHaveLibraryDirectory)
	ctx.Step(`^the config should have artifact_directory "([^"]*)"$`, testCtx.theConfigShouldHaveArtifactDirectory)
	ctx.Step(`^the config should have bundled version "([^"]*)"$`, testCtx.theConfigShouldHaveBundledVersion)
	ctx.Step(`^the config should have a bundle entry for "([^"]*)" "([^"]*)"$`, testCtx.theConfigShouldHaveABundleEntry)
	ctx.Step(`^the config should have deploy_environment "([^"]*)"$`, testCtx.theConfigShouldHaveDeployEnvironment)
	ctx.Step(`^the setup should be cancelled$`, testCtx.theSetupShouldBeCancelled)
	ctx.Step(`^the existing config should be unchanged$`, testCtx.theExistingConfigShouldBeUnchanged)
}

func (s *setupContext) noConfigFileExistsForSetup() error {
	configDir := filepath.Dir(s.configPath)
	return os.MkdirAll(configDir, 0755)
}

func (s *setupContext) aConfigFileAlreadyExistsForSetup() error {
	configDir := filepath.Dir(s.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	content := `paths:
  library_directory: "/original/lib"
  artifact_directory: "/original/dist"
bundled:
  version: "23.11"
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

func (s *setupContext) iRunTheSetupCommandWithInputs(table *godog.Table) error {
	inputs, confirms := parseInputTable(table)
	prompter := NewMockPrompter(inputs, confirms)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmation(confirmation string) error {
	confirm := strings.ToLower(confirmation) == "y"
	prompter := NewMockPrompter([]string{}, []bool{confirm})

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	if !confirm {
		s.setupCancelled = true
	}
	return nil
}

func parseInputTable(table *godog.Table) ([]string, []bool) {
	var inputs []string
	var confirms []bool

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		prompt := strings.ToLower(row.Cells[0].Value)
		value := row.Cells[1].Value

		// Check if this is a confirm prompt (starts with "Add")
		if strings.HasPrefix(prompt, "add") {
			confirms = append(confirms, strings.ToLower(value) == "y")
		} else {
			inputs = append(inputs, value)
		}
	}

	return inputs, confirms
}

func (s *setupContext) aConfigFileShouldExist() error {
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (s *setupContext) theConfigShouldHaveLibraryDirectory(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Paths.LibraryDirectory != expected {
		return fmt.Errorf("expected library_directory %q, got %q", expected, cfg.Paths.LibraryDirectory)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveArtifactDirectory(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Paths.ArtifactDirectory != expected {
		return fmt.Errorf("expected artifact_directory %q, got %q", expected, cfg.Paths.ArtifactDirectory)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveBundledVersion(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Bundled.Version != expected {
		return fmt.Errorf("expected bundled version %q, got %q", expected, cfg.Bundled.Version)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveABundleEntry(platform, arch string) error {
	cfg, err := s.loadConfig()
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

func (s *setupContext) theConfigShouldHaveDeployEnvironment(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Release.DeployEnvironment != expected {
		return fmt.Errorf("expected deploy_environment %q, got %q", expected, cfg.Release.DeployEnvironment)
	}
	return nil
}

func (s *setupContext) theSetupShouldBeCancelled() error {
	if !s.setupCancelled {
		return fmt.Errorf("expected setup to be cancelled")
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config content was changed")
	}
	return nil
}
