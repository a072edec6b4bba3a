package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mediainspect/domain/bundle"
)

// Extractor unpacks MediaInfo library archives (zip for Linux and Windows,
// tar.bz2 for macOS) and cleans previously extracted files
type Extractor struct{}

// NewExtractor creates a new archive extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Unpack extracts the mapped members from the archive into destDir.
// Implements bundle.Unpacker.
func (e *Extractor) Unpack(archivePath, destDir string, members map[string]string) ([]string, error) {
	if _, err := os.Stat(archivePath); err != nil {
		return nil, fmt.Errorf("compressed file not found: %s", archivePath)
	}

	var extract func(string, string, map[string]string) (map[string]bool, error)
	switch {
	case strings.HasSuffix(archivePath, ".zip"):
		extract = e.unpackZip
	case strings.HasSuffix(archivePath, ".tar.bz2"):
		extract = e.unpackTarBz2
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
	}

	seen, err := extract(archivePath, destDir, members)
	if err != nil {
		return nil, err
	}

	// Report the flattened names actually written under destDir
	var created []string
	for member, target := range members {
		if !seen[member] {
			return nil, fmt.Errorf("archive %s is missing member %s", filepath.Base(archivePath), member)
		}
		created = append(created, filepath.Base(target))
	}
	sort.Strings(created)
	return created, nil
}

// writeMember writes one archive member to its target name under destDir.
// Target names are always flattened to their base name so that archive
// content cannot escape the destination folder.
func writeMember(destDir, target string, r io.Reader) error {
	path := filepath.Join(destDir, filepath.Base(target))
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("failed to extract %s: %w", target, err)
	}
	return nil
}

func (e *Extractor) unpackZip(archivePath, destDir string, members map[string]string) (map[string]bool, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer reader.Close()

	seen := make(map[string]bool)
	for _, file := range reader.File {
		target, wanted := members[file.Name]
		if !wanted {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read member %s: %w", file.Name, err)
		}
		err = writeMember(destDir, target, rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		seen[file.Name] = true
	}
	return seen, nil
}

func (e *Extractor) unpackTarBz2(archivePath, destDir string, members map[string]string) (map[string]bool, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer f.Close()

	seen := make(map[string]bool)
	tr := tar.NewReader(bzip2.NewReader(f))
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read archive %s: %w", archivePath, err)
		}
		target, wanted := members[header.Name]
		if !wanted || header.Typeflag != tar.TypeReg {
			continue
		}
		if err := writeMember(destDir, target, tr); err != nil {
			return nil, err
		}
		seen[header.Name] = true
	}
	return seen, nil
}

// Clean removes previously extracted files matching the bundle glob patterns
// from the folder and returns the removed file names
func (e *Extractor) Clean(folder string) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("folder does not exist: %s", folder)
	}

	var removed []string
	for _, pattern := range bundle.CleanPatterns {
		matches, err := filepath.Glob(filepath.Join(folder, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad clean pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if err := os.Remove(match); err != nil {
				return nil, fmt.Errorf("failed to remove %s: %w", match, err)
			}
			removed = append(removed, filepath.Base(match))
		}
	}
	sort.Strings(removed)
	return removed, nil
}

// Ensure Extractor implements bundle.Unpacker
var _ bundle.Unpacker = (*Extractor)(nil)
