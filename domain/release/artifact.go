package release

import (
	"context"
	"path/filepath"
)

// Artifact is a built distribution file ready for publication
type Artifact struct {
	// Path is the local path of the artifact file
	Path string

	// Name is the file name under which the artifact is published
	Name string

	// Size is the artifact size in bytes
	Size int64
}

// NewArtifact creates an artifact from a local file path
func NewArtifact(path string, size int64) Artifact {
	return Artifact{
		Path: path,
		Name: filepath.Base(path),
		Size: size,
	}
}

// UploadStatus reports the outcome of publishing one artifact
type UploadStatus int

const (
	// Uploaded means the artifact was accepted by the index
	Uploaded UploadStatus = iota

	// Skipped means the index already holds an artifact with this name
	// (skip-existing semantics, not an error)
	Skipped
)

// ArtifactBuilder defines the interface for packing files into artifacts
type ArtifactBuilder interface {
	// Build creates an artifact named name under destDir from the given files
	Build(ctx context.Context, name string, files []string, destDir string) (Artifact, error)
}

// Publisher defines the interface for uploading artifacts to a package index
// This is a port that can be implemented by different infrastructure adapters
type Publisher interface {
	// Upload publishes a single artifact. An artifact that already exists on
	// the index is reported as Skipped. Uploads are independent per file;
	// there is no transactional guarantee across a batch.
	Upload(ctx context.Context, artifact Artifact) (UploadStatus, error)
}
