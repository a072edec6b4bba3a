package bundle

import "context"

// Downloader defines the interface for fetching upstream archives
// This is a port that can be implemented by different infrastructure adapters
type Downloader interface {
	// Download fetches the file at url into destPath and returns the BLAKE2b
	// hex digest of the downloaded bytes
	Download(ctx context.Context, url, destPath string) (string, error)
}

// Unpacker defines the interface for extracting archive members
type Unpacker interface {
	// Unpack extracts the mapped members (archive path -> target file name)
	// from the archive into destDir and returns the created file names
	Unpack(archivePath, destDir string, members map[string]string) ([]string, error)
}

// ReleaseSource defines the interface for discovering upstream versions
type ReleaseSource interface {
	// LatestVersion returns the version of the most recent upstream release
	LatestVersion(ctx context.Context) (string, error)
}
