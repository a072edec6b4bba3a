package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mediainspect/domain/release"
)

// Builder packs extracted library files into release artifacts
type Builder struct{}

// NewBuilder creates a new artifact builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build creates a zip artifact named name under destDir containing the given
// files (stored under their base names). Implements release.ArtifactBuilder.
func (b *Builder) Build(ctx context.Context, name string, files []string, destDir string) (release.Artifact, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return release.Artifact{}, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	path := filepath.Join(destDir, name)
	out, err := os.Create(path)
	if err != nil {
		return release.Artifact{}, fmt.Errorf("failed to create artifact %s: %w", path, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return release.Artifact{}, err
		}
		if err := addFile(zw, file); err != nil {
			zw.Close()
			return release.Artifact{}, err
		}
	}
	if err := zw.Close(); err != nil {
		return release.Artifact{}, fmt.Errorf("failed to finalize artifact %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return release.Artifact{}, fmt.Errorf("failed to stat artifact %s: %w", path, err)
	}
	return release.NewArtifact(path, info.Size()), nil
}

func addFile(zw *zip.Writer, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	defer f.Close()

	w, err := zw.Create(filepath.Base(file))
	if err != nil {
		return fmt.Errorf("failed to add %s to artifact: %w", file, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to add %s to artifact: %w", file, err)
	}
	return nil
}

// Ensure Builder implements release.ArtifactBuilder
var _ release.ArtifactBuilder = (*Builder)(nil)
