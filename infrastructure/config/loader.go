package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Paths     PathsConfig     `yaml:"paths"`
	MediaInfo MediaInfoConfig `yaml:"mediainfo"`
	Bundled   BundledConfig   `yaml:"bundled"`
	QA        QAConfig        `yaml:"qa"`
	Release   ReleaseConfig   `yaml:"release"`
}

// PathsConfig contains directory paths used by the tool
type PathsConfig struct {
	// LibraryDirectory is where downloaded library files are extracted
	LibraryDirectory string `yaml:"library_directory"`

	// ArtifactDirectory is where release artifacts are built
	ArtifactDirectory string `yaml:"artifact_directory"`
}

// MediaInfoConfig contains media analysis settings
type MediaInfoConfig struct {
	// ToolPath overrides the mediainfo executable path
	ToolPath string `yaml:"tool_path"`

	// ParseSpeed is the default ParseSpeed (0 means the built-in default)
	ParseSpeed float64 `yaml:"parse_speed"`
}

// BundledConfig pins the bundled MediaInfo library version and the checksums
// of its per-platform archives
type BundledConfig struct {
	Version string        `yaml:"version"`
	Entries []BundleEntry `yaml:"entries"`
}

// BundleEntry pins one platform/arch archive checksum
type BundleEntry struct {
	Platform string `yaml:"platform"`
	Arch     string `yaml:"arch"`
	Blake2b  string `yaml:"blake2b"`
}

// QAConfig defines the QA environment matrix
type QAConfig struct {
	Environments []EnvironmentConfig `yaml:"environments"`
}

// EnvironmentConfig is one named QA environment
type EnvironmentConfig struct {
	Name  string       `yaml:"name"`
	Steps []StepConfig `yaml:"steps"`
}

// StepConfig is one external tool invocation
type StepConfig struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// ReleaseConfig contains release pipeline settings
type ReleaseConfig struct {
	// IndexURL is the package index upload endpoint
	IndexURL string `yaml:"index_url"`

	// DeployEnvironment is the only environment allowed to publish
	DeployEnvironment string `yaml:"deploy_environment"`

	// UsernameEnv and PasswordEnv name the environment variables holding
	// the index credentials
	UsernameEnv string `yaml:"username_env"`
	PasswordEnv string `yaml:"password_env"`
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
