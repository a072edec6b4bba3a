package bundle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mediainspect/domain/bundle"
)

// Cleaner abstracts removal of previously extracted library files
type Cleaner interface {
	Clean(folder string) ([]string, error)
}

// Service downloads, verifies and unpacks the native MediaInfo library
type Service struct {
	downloader bundle.Downloader
	unpacker   bundle.Unpacker
	cleaner    Cleaner
	baseURL    string
	output     io.Writer
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithBaseURL overrides the upstream download location
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}

// NewService creates a new bundle service
func NewService(downloader bundle.Downloader, unpacker bundle.Unpacker, cleaner Cleaner, output io.Writer, opts ...Option) *Service {
	if output == nil {
		output = io.Discard
	}
	s := &Service{
		downloader: downloader,
		unpacker:   unpacker,
		cleaner:    cleaner,
		baseURL:    bundle.BaseURL,
		output:     output,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// DownloadInput contains the input parameters for a library download
type DownloadInput struct {
	Descriptor *bundle.Descriptor
	DestDir    string // Folder receiving the library and license files
	SkipVerify bool   // Accept the archive without a pinned checksum
}

// DownloadResult contains the outcome of a library download
type DownloadResult struct {
	Digest  string   // BLAKE2b hex digest of the downloaded archive
	Created []string // Files written into DestDir
}

// Download fetches the library archive for the descriptor, verifies its
// digest against the pinned checksum and unpacks the library into DestDir.
// Files left over from a previous version are removed first.
func (s *Service) Download(ctx context.Context, input DownloadInput) (*DownloadResult, error) {
	desc := input.Descriptor
	if desc == nil {
		return nil, fmt.Errorf("bundle descriptor is required")
	}
	if input.DestDir == "" {
		return nil, fmt.Errorf("destination directory is required")
	}

	if err := os.MkdirAll(input.DestDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", input.DestDir, err)
	}

	removed, err := s.cleaner.Clean(input.DestDir)
	if err != nil {
		return nil, fmt.Errorf("failed to clean %s: %w", input.DestDir, err)
	}
	for _, name := range removed {
		fmt.Fprintf(s.output, "Removed old file: %s\n", name)
	}

	digest, archivePath, cleanup, err := s.fetch(ctx, desc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if input.SkipVerify {
		fmt.Fprintf(s.output, "Skipping checksum verification (digest %s)\n", digest)
	} else if err := desc.VerifyChecksum(digest); err != nil {
		return nil, err
	}

	created, err := s.unpacker.Unpack(archivePath, input.DestDir, desc.Members())
	if err != nil {
		return nil, err
	}
	for _, name := range created {
		fmt.Fprintf(s.output, "Extracted: %s\n", name)
	}

	return &DownloadResult{Digest: digest, Created: created}, nil
}

// Digest downloads the archive for the descriptor and returns its BLAKE2b
// digest without verifying or unpacking anything
func (s *Service) Digest(ctx context.Context, desc *bundle.Descriptor) (string, error) {
	digest, _, cleanup, err := s.fetch(ctx, desc)
	if err != nil {
		return "", err
	}
	cleanup()
	return digest, nil
}

// fetch downloads the archive into a temporary folder. The caller removes the
// folder through the returned cleanup function.
func (s *Service) fetch(ctx context.Context, desc *bundle.Descriptor) (digest, archivePath string, cleanup func(), err error) {
	tmpDir, err := os.MkdirTemp("", "mediainspect-bundle-*")
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	cleanup = func() { os.RemoveAll(tmpDir) }

	url := desc.URL(s.baseURL)
	fmt.Fprintf(s.output, "Downloading MediaInfo library from %s\n", url)

	archivePath = filepath.Join(tmpDir, desc.ArchiveName())
	digest, err = s.downloader.Download(ctx, url, archivePath)
	if err != nil {
		cleanup()
		return "", "", nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	return digest, archivePath, cleanup, nil
}
