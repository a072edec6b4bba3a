package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"mediainspect/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up the library and artifact
directories, the MediaInfo tool, the bundled library version and the
release settings.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, "config/config.yaml")
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to mediainspect setup!")
	fmt.Println()

	cfg := &config.Config{}

	if err := promptPaths(prompter, cfg); err != nil {
		return err
	}
	if err := promptMediaInfo(prompter, cfg); err != nil {
		return err
	}
	if err := promptBundled(prompter, cfg); err != nil {
		return err
	}
	if err := promptRelease(prompter, cfg); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	library, err := prompter.Input("Where should library files be extracted?", "lib")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if library == "" {
		return fmt.Errorf("library directory is required")
	}
	cfg.Paths.LibraryDirectory = library

	artifacts, err := prompter.Input("Where should release artifacts go?", "dist")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if artifacts == "" {
		return fmt.Errorf("artifact directory is required")
	}
	cfg.Paths.ArtifactDirectory = artifacts

	return nil
}

func promptMediaInfo(prompter Prompter, cfg *config.Config) error {
	toolPath, err := prompter.Input("Path to the mediainfo executable? (blank to use PATH)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.MediaInfo.ToolPath = toolPath
	return nil
}

func promptBundled(prompter Prompter, cfg *config.Config) error {
	version, err := prompter.Input("Bundled MediaInfo library version?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if version == "" {
		return fmt.Errorf("library version is required")
	}
	cfg.Bundled.Version = version

	cfg.Bundled.Entries = []config.BundleEntry{}
	for {
		addEntry, err := prompter.Confirm("Add a platform bundle entry?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !addEntry {
			break
		}

		platform, err := prompter.Input("  Platform (linux/darwin/windows):", "")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		arch, err := prompter.Input("  Arch (x86_64/arm64/i386):", "")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if platform == "" || arch == "" {
			return fmt.Errorf("platform and arch are required")
		}
		// Checksums are pinned later by update-checksums
		cfg.Bundled.Entries = append(cfg.Bundled.Entries, config.BundleEntry{
			Platform: platform,
			Arch:     arch,
		})
	}

	return nil
}

func promptRelease(prompter Prompter, cfg *config.Config) error {
	indexURL, err := prompter.Input("Package index upload URL? (blank to disable publishing)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Release.IndexURL = indexURL
	if indexURL == "" {
		return nil
	}

	deployEnv, err := prompter.Input("Which environment may publish?", "deploy")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if deployEnv == "" {
		return fmt.Errorf("deploy environment is required")
	}
	cfg.Release.DeployEnvironment = deployEnv

	usernameEnv, err := prompter.Input("Environment variable holding the index username?", "INDEX_USERNAME")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	passwordEnv, err := prompter.Input("Environment variable holding the index password?", "INDEX_PASSWORD")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Release.UsernameEnv = usernameEnv
	cfg.Release.PasswordEnv = passwordEnv

	return nil
}
