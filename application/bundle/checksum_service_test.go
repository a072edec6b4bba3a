package bundle

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"mediainspect/domain/bundle"
	"mediainspect/infrastructure/config"
)

type mockReleaseSource struct {
	version string
	err     error
}

func (m *mockReleaseSource) LatestVersion(ctx context.Context) (string, error) {
	return m.version, m.err
}

type mockDigester struct {
	digests map[string]string // "platform/arch" -> digest
	errs    map[string]error
}

func (m *mockDigester) Digest(ctx context.Context, desc *bundle.Descriptor) (string, error) {
	key := desc.Platform + "/" + desc.Arch
	if err := m.errs[key]; err != nil {
		return "", err
	}
	return m.digests[key], nil
}

func newTestManager(t *testing.T) *config.Manager {
	t.Helper()
	cfg := &config.Config{}
	cfg.Bundled.Version = "23.11"
	cfg.Bundled.Entries = []config.BundleEntry{
		{Platform: "linux", Arch: "x86_64", Blake2b: "old-linux"},
		{Platform: "darwin", Arch: "arm64", Blake2b: "old-darwin"},
	}
	return config.NewManager(cfg, filepath.Join(t.TempDir(), "config.yaml"))
}

func TestUpdateVersion(t *testing.T) {
	manager := newTestManager(t)
	var progress strings.Builder
	service := NewChecksumService(&mockReleaseSource{version: "24.01"}, &mockDigester{}, manager, &progress)

	version, changed, err := service.UpdateVersion(context.Background())
	if err != nil {
		t.Fatalf("UpdateVersion() unexpected error: %v", err)
	}
	if version != "24.01" || !changed {
		t.Errorf("UpdateVersion() = (%q, %v), want (24.01, true)", version, changed)
	}
	if manager.Config().Bundled.Version != "24.01" {
		t.Errorf("pinned version = %q", manager.Config().Bundled.Version)
	}
	if !strings.Contains(progress.String(), "23.11 -> 24.01") {
		t.Errorf("progress output missing version change: %q", progress.String())
	}
}

func TestUpdateVersionUnchanged(t *testing.T) {
	manager := newTestManager(t)
	service := NewChecksumService(&mockReleaseSource{version: "23.11"}, &mockDigester{}, manager, nil)

	version, changed, err := service.UpdateVersion(context.Background())
	if err != nil {
		t.Fatalf("UpdateVersion() unexpected error: %v", err)
	}
	if version != "23.11" || changed {
		t.Errorf("UpdateVersion() = (%q, %v), want (23.11, false)", version, changed)
	}
}

func TestUpdateVersionLookupFails(t *testing.T) {
	service := NewChecksumService(&mockReleaseSource{err: errors.New("rate limited")}, &mockDigester{}, newTestManager(t), nil)

	if _, _, err := service.UpdateVersion(context.Background()); err == nil {
		t.Fatal("UpdateVersion() expected error when the release lookup fails")
	}
}

func TestUpdateChecksums(t *testing.T) {
	manager := newTestManager(t)
	digester := &mockDigester{digests: map[string]string{
		"linux/x86_64": "new-linux",
		"darwin/arm64": "old-darwin",
	}}
	var progress strings.Builder
	service := NewChecksumService(&mockReleaseSource{}, digester, manager, &progress)

	if err := service.UpdateChecksums(context.Background()); err != nil {
		t.Fatalf("UpdateChecksums() unexpected error: %v", err)
	}

	entry, err := manager.FindEntry("linux", "x86_64")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Blake2b != "new-linux" {
		t.Errorf("linux checksum = %q, want new-linux", entry.Blake2b)
	}
	if !strings.Contains(progress.String(), "Updated (linux, x86_64)") {
		t.Errorf("progress output missing update: %q", progress.String())
	}
	if !strings.Contains(progress.String(), "Unchanged (darwin, arm64)") {
		t.Errorf("progress output missing unchanged entry: %q", progress.String())
	}
}

func TestUpdateChecksumsSkipsFailedEntry(t *testing.T) {
	manager := newTestManager(t)
	digester := &mockDigester{
		digests: map[string]string{"darwin/arm64": "new-darwin"},
		errs:    map[string]error{"linux/x86_64": errors.New("404 Not Found")},
	}
	var progress strings.Builder
	service := NewChecksumService(&mockReleaseSource{}, digester, manager, &progress)

	err := service.UpdateChecksums(context.Background())
	if err == nil || !strings.Contains(err.Error(), "404 Not Found") {
		t.Fatalf("UpdateChecksums() error = %v, want failure for the linux entry", err)
	}

	// The darwin entry still updates
	entry, lookupErr := manager.FindEntry("darwin", "arm64")
	if lookupErr != nil {
		t.Fatal(lookupErr)
	}
	if entry.Blake2b != "new-darwin" {
		t.Errorf("darwin checksum = %q, want new-darwin", entry.Blake2b)
	}
	if !strings.Contains(progress.String(), "FAILED (linux, x86_64)") {
		t.Errorf("progress output missing failure: %q", progress.String())
	}
}

func TestRefresh(t *testing.T) {
	manager := newTestManager(t)
	digester := &mockDigester{digests: map[string]string{
		"linux/x86_64": "new-linux",
		"darwin/arm64": "new-darwin",
	}}
	service := NewChecksumService(&mockReleaseSource{version: "24.01"}, digester, manager, nil)

	if err := service.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() unexpected error: %v", err)
	}
	if manager.Config().Bundled.Version != "24.01" {
		t.Errorf("pinned version = %q", manager.Config().Bundled.Version)
	}
}
