package config

import (
	"errors"
	"fmt"
	"strings"

	"mediainspect/domain/bundle"
	"mediainspect/domain/release"
)

// Errors for config management
var (
	ErrEntryNotFound       = errors.New("bundle entry not found")
	ErrEnvironmentNotFound = errors.New("environment not found")
	ErrDuplicateEntry      = errors.New("bundle entry already exists")
)

// Manager provides lookup and update operations for config entries
type Manager struct {
	config     *Config
	configPath string
}

// NewManager creates a new config manager
func NewManager(cfg *Config, configPath string) *Manager {
	return &Manager{
		config:     cfg,
		configPath: configPath,
	}
}

// Config returns the managed configuration
func (m *Manager) Config() *Config {
	return m.config
}

// --- Bundle entries ---

// FindEntry returns the bundle entry for the given platform and arch
func (m *Manager) FindEntry(platform, arch string) (*BundleEntry, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	arch = strings.ToLower(strings.TrimSpace(arch))

	for i := range m.config.Bundled.Entries {
		entry := &m.config.Bundled.Entries[i]
		if entry.Platform == platform && entry.Arch == arch {
			return entry, nil
		}
	}
	return nil, fmt.Errorf("%w: (%s, %s)", ErrEntryNotFound, platform, arch)
}

// Descriptor builds the domain descriptor for the given platform and arch,
// using the pinned version and checksum
func (m *Manager) Descriptor(platform, arch string) (*bundle.Descriptor, error) {
	entry, err := m.FindEntry(platform, arch)
	if err != nil {
		return nil, err
	}
	return bundle.NewDescriptor(m.config.Bundled.Version, entry.Platform, entry.Arch, entry.Blake2b)
}

// Descriptors builds domain descriptors for every configured bundle entry
func (m *Manager) Descriptors() ([]*bundle.Descriptor, error) {
	descriptors := make([]*bundle.Descriptor, 0, len(m.config.Bundled.Entries))
	for _, entry := range m.config.Bundled.Entries {
		d, err := bundle.NewDescriptor(m.config.Bundled.Version, entry.Platform, entry.Arch, entry.Blake2b)
		if err != nil {
			return nil, fmt.Errorf("bundle entry (%s, %s): %w", entry.Platform, entry.Arch, err)
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

// AddEntry adds a new bundle entry and saves the config
func (m *Manager) AddEntry(platform, arch, checksum string) error {
	platform = strings.ToLower(strings.TrimSpace(platform))
	arch = strings.ToLower(strings.TrimSpace(arch))

	if _, err := bundle.NewDescriptor(m.config.Bundled.Version, platform, arch, checksum); err != nil {
		return err
	}
	if _, err := m.FindEntry(platform, arch); err == nil {
		return fmt.Errorf("%w: (%s, %s)", ErrDuplicateEntry, platform, arch)
	}

	m.config.Bundled.Entries = append(m.config.Bundled.Entries, BundleEntry{
		Platform: platform,
		Arch:     arch,
		Blake2b:  checksum,
	})
	return Save(m.config, m.configPath)
}

// RemoveEntry deletes a bundle entry and saves the config
func (m *Manager) RemoveEntry(platform, arch string) error {
	platform = strings.ToLower(strings.TrimSpace(platform))
	arch = strings.ToLower(strings.TrimSpace(arch))

	for i, entry := range m.config.Bundled.Entries {
		if entry.Platform == platform && entry.Arch == arch {
			m.config.Bundled.Entries = append(m.config.Bundled.Entries[:i], m.config.Bundled.Entries[i+1:]...)
			return Save(m.config, m.configPath)
		}
	}
	return fmt.Errorf("%w: (%s, %s)", ErrEntryNotFound, platform, arch)
}

// SetChecksum updates the pinned checksum of an entry and saves the config
func (m *Manager) SetChecksum(platform, arch, checksum string) error {
	entry, err := m.FindEntry(platform, arch)
	if err != nil {
		return err
	}
	entry.Blake2b = checksum
	return Save(m.config, m.configPath)
}

// SetVersion updates the pinned library version and saves the config
func (m *Manager) SetVersion(version string) error {
	if strings.TrimSpace(version) == "" {
		return fmt.Errorf("version is required")
	}
	m.config.Bundled.Version = version
	return Save(m.config, m.configPath)
}

// --- QA environments ---

// Environment returns the named QA environment as a domain value
func (m *Manager) Environment(name string) (release.Environment, error) {
	for _, env := range m.config.QA.Environments {
		if env.Name == name {
			return toEnvironment(env), nil
		}
	}
	return release.Environment{}, fmt.Errorf("%w: %q", ErrEnvironmentNotFound, name)
}

// Environments returns all configured QA environments as domain values
func (m *Manager) Environments() []release.Environment {
	envs := make([]release.Environment, 0, len(m.config.QA.Environments))
	for _, env := range m.config.QA.Environments {
		envs = append(envs, toEnvironment(env))
	}
	return envs
}

func toEnvironment(env EnvironmentConfig) release.Environment {
	steps := make([]release.Step, 0, len(env.Steps))
	for _, step := range env.Steps {
		steps = append(steps, release.Step{
			Name:    step.Name,
			Command: step.Command,
			Args:    step.Args,
		})
	}
	return release.Environment{Name: env.Name, Steps: steps}
}
