package release

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	appbundle "mediainspect/application/bundle"
	"mediainspect/domain/bundle"
	"mediainspect/domain/release"
	"mediainspect/infrastructure/config"
)

// Service orchestrates the complete release workflow
type Service struct {
	bundles   *appbundle.Service
	qa        *QAService
	builder   release.ArtifactBuilder
	publisher release.Publisher
	manager   *config.Manager
	output    io.Writer
}

// NewService creates a new release service
func NewService(
	bundles *appbundle.Service,
	qa *QAService,
	builder release.ArtifactBuilder,
	publisher release.Publisher,
	manager *config.Manager,
	output io.Writer,
) *Service {
	if output == nil {
		output = io.Discard
	}
	return &Service{
		bundles:   bundles,
		qa:        qa,
		builder:   builder,
		publisher: publisher,
		manager:   manager,
		output:    output,
	}
}

// Input contains all input parameters for the release command
type Input struct {
	Tag         string // Pushed version tag (empty for untagged builds)
	Environment string // Active environment name
	SkipQA      bool   // Skip the QA matrix (artifacts only)
	SkipPublish bool   // Build and gate, but never upload
}

// Result contains the results of a successful release run
type Result struct {
	Version   string
	Artifacts []release.Artifact
	Published bool
	Uploaded  int
	Skipped   int
}

// Run executes the release pipeline: run the QA matrix, build one artifact
// per configured platform, evaluate the publish gate and upload the artifacts
// when the gate allows it. A blocked gate is a successful non-publishing run.
func (s *Service) Run(ctx context.Context, input Input) (*Result, error) {
	startTime := time.Now()
	cfg := s.manager.Config()

	// Step 1: Resolve configured bundle descriptors
	fmt.Fprintf(s.output, "[1/5] Resolving bundle descriptors...\n")
	descriptors, err := s.manager.Descriptors()
	if err != nil {
		return nil, err
	}
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("no bundle entries configured")
	}
	fmt.Fprintf(s.output, "      Version %s, %d platforms\n\n", cfg.Bundled.Version, len(descriptors))

	// Step 2: Run the QA matrix
	fmt.Fprintf(s.output, "[2/5] Running QA environments...\n")
	if input.SkipQA {
		fmt.Fprintf(s.output, "      Skipped (--skip-qa)\n\n")
	} else {
		if err := s.qa.RunMatrix(ctx, s.manager.Environments()); err != nil {
			s.showRecoveryCommands(2, input)
			return nil, fmt.Errorf("QA failed: %w", err)
		}
		fmt.Fprintln(s.output)
	}

	// Step 3: Build one artifact per platform
	fmt.Fprintf(s.output, "[3/5] Building artifacts...\n")
	artifacts, err := s.buildArtifacts(ctx, descriptors, cfg.Paths.ArtifactDirectory)
	if err != nil {
		s.showRecoveryCommands(3, input)
		return nil, fmt.Errorf("artifact build failed: %w", err)
	}
	for _, artifact := range artifacts {
		fmt.Fprintf(s.output, "      Created: %s (%.1f KB)\n", artifact.Name, float64(artifact.Size)/1024)
	}
	fmt.Fprintln(s.output)

	result := &Result{
		Version:   cfg.Bundled.Version,
		Artifacts: artifacts,
	}

	// Step 4: Evaluate the publish gate
	fmt.Fprintf(s.output, "[4/5] Evaluating publish gate...\n")
	gate := release.Gate{
		Tag:               input.Tag,
		Version:           cfg.Bundled.Version,
		Environment:       input.Environment,
		DeployEnvironment: cfg.Release.DeployEnvironment,
	}
	if input.SkipPublish {
		fmt.Fprintf(s.output, "      Publication skipped (--skip-publish)\n\n")
		s.finish(startTime)
		return result, nil
	}
	if !gate.Allowed() {
		fmt.Fprintf(s.output, "      Publication blocked: %s\n\n", gate.Reason())
		s.finish(startTime)
		return result, nil
	}
	fmt.Fprintf(s.output, "      Tag %s on environment %q, publishing\n\n", gate.Tag, gate.Environment)

	// Step 5: Upload artifacts
	fmt.Fprintf(s.output, "[5/5] Publishing artifacts...\n")
	for _, artifact := range artifacts {
		status, err := s.publisher.Upload(ctx, artifact)
		if err != nil {
			s.showRecoveryCommands(5, input)
			return nil, fmt.Errorf("upload of %s failed: %w", artifact.Name, err)
		}
		switch status {
		case release.Skipped:
			fmt.Fprintf(s.output, "      Already on the index: %s\n", artifact.Name)
			result.Skipped++
		default:
			fmt.Fprintf(s.output, "      Uploaded: %s\n", artifact.Name)
			result.Uploaded++
		}
	}
	fmt.Fprintln(s.output)

	result.Published = true
	s.finish(startTime)
	return result, nil
}

// buildArtifacts downloads and verifies each platform bundle and packs it
// into a zip artifact under destDir
func (s *Service) buildArtifacts(ctx context.Context, descriptors []*bundle.Descriptor, destDir string) ([]release.Artifact, error) {
	artifacts := make([]release.Artifact, 0, len(descriptors))
	for _, desc := range descriptors {
		libDir, err := os.MkdirTemp("", "mediainspect-release-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create temporary directory: %w", err)
		}

		downloaded, err := s.bundles.Download(ctx, appbundle.DownloadInput{
			Descriptor: desc,
			DestDir:    libDir,
		})
		if err != nil {
			os.RemoveAll(libDir)
			return nil, err
		}

		files := make([]string, 0, len(downloaded.Created))
		for _, name := range downloaded.Created {
			files = append(files, filepath.Join(libDir, name))
		}

		name := ArtifactName(desc)
		artifact, err := s.builder.Build(ctx, name, files, destDir)
		os.RemoveAll(libDir)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

// ArtifactName returns the published file name for a platform bundle
func ArtifactName(desc *bundle.Descriptor) string {
	return fmt.Sprintf("mediainfo-bundle-%s-%s-%s.zip", desc.Version, desc.Platform, desc.Arch)
}

func (s *Service) showRecoveryCommands(failedStep int, input Input) {
	fmt.Fprintln(s.output)
	fmt.Fprintln(s.output, "To complete manually:")

	step := 1
	if failedStep <= 2 {
		fmt.Fprintf(s.output, "  %d. QA:       mediainspect qa\n", step)
		step++
	}
	if failedStep <= 3 {
		fmt.Fprintf(s.output, "  %d. Bundles:  mediainspect download-library --all\n", step)
		step++
	}
	if failedStep <= 5 {
		fmt.Fprintf(s.output, "  %d. Release:  mediainspect release --tag %s --skip-qa\n", step, input.Tag)
	}
	fmt.Fprintln(s.output)
}

func (s *Service) finish(startTime time.Time) {
	fmt.Fprintf(s.output, "Done! Completed in %s\n", formatDuration(time.Since(startTime)))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	sec := (d % time.Minute) / time.Second
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}
