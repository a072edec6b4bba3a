package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"

	"mediainspect/domain/bundle"
	"mediainspect/infrastructure/config"
)

// Digester computes archive digests for configured bundle entries
type Digester interface {
	Digest(ctx context.Context, desc *bundle.Descriptor) (string, error)
}

// ChecksumService refreshes the pinned library version and checksums
type ChecksumService struct {
	releases bundle.ReleaseSource
	digester Digester
	manager  *config.Manager
	output   io.Writer
}

// NewChecksumService creates a new checksum service
func NewChecksumService(releases bundle.ReleaseSource, digester Digester, manager *config.Manager, output io.Writer) *ChecksumService {
	if output == nil {
		output = io.Discard
	}
	return &ChecksumService{
		releases: releases,
		digester: digester,
		manager:  manager,
		output:   output,
	}
}

// UpdateVersion pins the latest upstream library version in the config.
// It returns the new version and whether the pin changed.
func (s *ChecksumService) UpdateVersion(ctx context.Context) (string, bool, error) {
	latest, err := s.releases.LatestVersion(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to look up the latest release: %w", err)
	}

	current := s.manager.Config().Bundled.Version
	if latest == current {
		fmt.Fprintf(s.output, "Already at the latest version (%s)\n", current)
		return latest, false, nil
	}

	fmt.Fprintf(s.output, "Updating pinned version: %s -> %s\n", current, latest)
	if err := s.manager.SetVersion(latest); err != nil {
		return "", false, err
	}
	return latest, true, nil
}

// UpdateChecksums downloads every configured archive for the pinned version
// and repins its checksum. A failing entry is reported and skipped so one
// unavailable platform does not block the others.
func (s *ChecksumService) UpdateChecksums(ctx context.Context) error {
	descriptors, err := s.manager.Descriptors()
	if err != nil {
		return err
	}

	var errs []error
	for _, desc := range descriptors {
		digest, err := s.digester.Digest(ctx, desc)
		if err != nil {
			fmt.Fprintf(s.output, "FAILED (%s, %s): %v\n", desc.Platform, desc.Arch, err)
			errs = append(errs, fmt.Errorf("(%s, %s): %w", desc.Platform, desc.Arch, err))
			continue
		}
		if digest == desc.Checksum {
			fmt.Fprintf(s.output, "Unchanged (%s, %s)\n", desc.Platform, desc.Arch)
			continue
		}
		if err := s.manager.SetChecksum(desc.Platform, desc.Arch, digest); err != nil {
			return err
		}
		fmt.Fprintf(s.output, "Updated (%s, %s): %s\n", desc.Platform, desc.Arch, digest)
	}
	return errors.Join(errs...)
}

// Refresh pins the latest version and refreshes every checksum in one pass
func (s *ChecksumService) Refresh(ctx context.Context) error {
	if _, _, err := s.UpdateVersion(ctx); err != nil {
		return err
	}
	return s.UpdateChecksums(ctx)
}
