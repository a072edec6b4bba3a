//go:build integration

package steps

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"mediainspect/cmd"
	"mediainspect/infrastructure/archive"
	"mediainspect/infrastructure/config"
	"mediainspect/infrastructure/mediaarea"

	"github.com/cucumber/godog"
	"golang.org/x/crypto/blake2b"
)

type downloadContext struct {
	tempDir    string
	configPath string
	libDir     string
	cfg        *config.Config
	server     *httptest.Server
	archives   map[string][]byte // request path -> body
	digest     string
	latest     string
	output     bytes.Buffer
	err        error
}

var SharedDownloadContext = &downloadContext{}

func InitializeDownloadScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedDownloadContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "download-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config.yaml")
		testCtx.libDir = filepath.Join(tempDir, "lib")
		testCtx.cfg = nil
		testCtx.archives = make(map[string][]byte)
		testCtx.digest = ""
		testCtx.latest = ""
		testCtx.output.Reset()
		testCtx.err = nil
		testCtx.server = httptest.NewServer(http.HandlerFunc(testCtx.serve))
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.server != nil {
			testCtx.server.Close()
		}
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		SharedDownloadContext = &downloadContext{}
		return c, nil
	})

	ctx.Step(`^an upstream archive for linux x86_64 version "([^"]*)"$`, testCtx.anUpstreamArchive)
	ctx.Step(`^the upstream latest release is "([^"]*)"$`, testCtx.theUpstreamLatestReleaseIs)
	ctx.Step(`^a config pinning the correct checksum$`, testCtx.aConfigPinningTheCorrectChecksum)
	ctx.Step(`^a config pinning the checksum "([^"]*)"$`, testCtx.aConfigPinningTheChecksum)
	ctx.Step(`^a config pinning version "([^"]*)" with checksum "([^"]*)"$`, testCtx.aConfigPinningVersionWithChecksum)
	ctx.Step(`^a library directory containing "([^"]*)"$`, testCtx.aLibraryDirectoryContaining)
	ctx.Step(`^I download the library bundle$`, testCtx.iDownloadTheLibraryBundle)
	ctx.Step(`^I print the archive checksums$`, testCtx.iPrintTheArchiveChecksums)
	ctx.Step(`^I clean the library directory$`, testCtx.iCleanTheLibraryDirectory)
	ctx.Step(`^I refresh the version and checksums$`, testCtx.iRefreshTheVersionAndChecksums)
	ctx.Step(`^I refresh only the version$`, testCtx.iRefreshOnlyTheVersion)
	ctx.Step(`^the library directory should contain "([^"]*)"$`, testCtx.theLibraryDirectoryShouldContain)
	ctx.Step(`^the library directory should not contain "([^"]*)"$`, testCtx.theLibraryDirectoryShouldNotContain)
	ctx.Step(`^the output should contain the archive digest$`, testCtx.theOutputShouldContainTheArchiveDigest)
	ctx.Step(`^the download should fail with a checksum mismatch$`, testCtx.theDownloadShouldFailWithAChecksumMismatch)
	ctx.Step(`^the saved config should pin version "([^"]*)" with the archive digest$`, testCtx.theSavedConfigShouldPinVersionWithDigest)
	ctx.Step(`^the saved config should pin version "([^"]*)" keeping the checksum "([^"]*)"$`, testCtx.theSavedConfigShouldPinVersionKeepingChecksum)
}

func (d *downloadContext) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/latest" {
		fmt.Fprintf(w, `{"name": %q}`, d.latest)
		return
	}
	body, ok := d.archives[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Write(body)
}

// anUpstreamArchive publishes a zip with the linux library members on the
// test server under the upstream path layout
func (d *downloadContext) anUpstreamArchive(version string) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for member, content := range map[string]string{
		"lib/libmediainfo.so.0.0.0": "fake shared library",
		"LICENSE":                   "fake license",
	} {
		f, err := zw.Create(member)
		if err != nil {
			return err
		}
		if _, err := f.Write([]byte(content)); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}

	path := fmt.Sprintf("/%s/MediaInfo_DLL_%s_Lambda_x86_64.zip", version, version)
	d.archives[path] = buf.Bytes()

	sum := blake2b.Sum512(buf.Bytes())
	d.digest = hex.EncodeToString(sum[:])
	return nil
}

func (d *downloadContext) theUpstreamLatestReleaseIs(version string) error {
	d.latest = version
	return d.anUpstreamArchive(version)
}

func (d *downloadContext) pinConfig(version, checksum string) error {
	d.cfg = &config.Config{}
	d.cfg.Paths.LibraryDirectory = d.libDir
	d.cfg.Bundled.Version = version
	d.cfg.Bundled.Entries = []config.BundleEntry{
		{Platform: "linux", Arch: "x86_64", Blake2b: checksum},
	}
	return config.Save(d.cfg, d.configPath)
}

func (d *downloadContext) aConfigPinningTheCorrectChecksum() error {
	return d.pinConfig(d.pinnedVersion(), d.digest)
}

func (d *downloadContext) aConfigPinningTheChecksum(checksum string) error {
	return d.pinConfig(d.pinnedVersion(), checksum)
}

func (d *downloadContext) aConfigPinningVersionWithChecksum(version, checksum string) error {
	return d.pinConfig(version, checksum)
}

// pinnedVersion recovers the version from the single published archive path
func (d *downloadContext) pinnedVersion() string {
	for path := range d.archives {
		return strings.Split(path, "/")[1]
	}
	return ""
}

// runDownload drives the download-library command against the test server
func (d *downloadContext) runDownload(printSums, clean bool) error {
	manager := config.NewManager(d.cfg, d.configPath)
	extractor := archive.NewExtractor()
	d.err = cmd.RunDownloadWithDependencies(
		context.Background(),
		mediaarea.NewClient(),
		extractor,
		extractor,
		manager,
		"linux", "x86_64",
		false,
		d.libDir,
		printSums,
		clean,
		false,
		false,
		d.server.URL,
		&d.output,
	)
	return nil
}

func (d *downloadContext) iDownloadTheLibraryBundle() error {
	if err := os.MkdirAll(d.libDir, 0755); err != nil {
		return err
	}
	return d.runDownload(false, false)
}

func (d *downloadContext) iPrintTheArchiveChecksums() error {
	return d.runDownload(true, false)
}

func (d *downloadContext) iCleanTheLibraryDirectory() error {
	return d.runDownload(false, true)
}

func (d *downloadContext) aLibraryDirectoryContaining(name string) error {
	if err := os.MkdirAll(d.libDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.libDir, name), []byte("stale library"), 0644)
}

// runChecksums drives the update-checksums command against the test server
func (d *downloadContext) runChecksums(onlyVersion bool) error {
	manager := config.NewManager(d.cfg, d.configPath)
	client := mediaarea.NewClient(mediaarea.WithReleaseURL(d.server.URL + "/latest"))
	extractor := archive.NewExtractor()
	d.err = cmd.RunChecksumsWithDependencies(
		context.Background(),
		client,
		client,
		extractor,
		extractor,
		manager,
		onlyVersion,
		false,
		false,
		d.server.URL,
		&d.output,
	)
	return nil
}

func (d *downloadContext) iRefreshTheVersionAndChecksums() error {
	return d.runChecksums(false)
}

func (d *downloadContext) iRefreshOnlyTheVersion() error {
	return d.runChecksums(true)
}

func (d *downloadContext) theLibraryDirectoryShouldContain(name string) error {
	if d.err != nil {
		return fmt.Errorf("download failed: %w", d.err)
	}
	if _, err := os.Stat(filepath.Join(d.libDir, name)); err != nil {
		return fmt.Errorf("%s not found in %s: %w", name, d.libDir, err)
	}
	return nil
}

func (d *downloadContext) theLibraryDirectoryShouldNotContain(name string) error {
	if d.err != nil {
		return fmt.Errorf("command failed: %w", d.err)
	}
	if _, err := os.Stat(filepath.Join(d.libDir, name)); err == nil {
		return fmt.Errorf("%s should not be present in %s", name, d.libDir)
	}
	return nil
}

func (d *downloadContext) theOutputShouldContainTheArchiveDigest() error {
	if d.err != nil {
		return fmt.Errorf("command failed: %w", d.err)
	}
	if !strings.Contains(d.output.String(), d.digest) {
		return fmt.Errorf("expected output containing digest %s, got:\n%s", d.digest, d.output.String())
	}
	return nil
}

func (d *downloadContext) theDownloadShouldFailWithAChecksumMismatch() error {
	if d.err == nil {
		return fmt.Errorf("expected the download to fail")
	}
	if !strings.Contains(d.err.Error(), "checksum mismatch") {
		return fmt.Errorf("expected a checksum mismatch, got %v", d.err)
	}
	return nil
}

func (d *downloadContext) theSavedConfigShouldPinVersionWithDigest(version string) error {
	if d.err != nil {
		return fmt.Errorf("refresh failed: %w", d.err)
	}
	cfg, err := config.Load(d.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Bundled.Version != version {
		return fmt.Errorf("expected version %q, got %q", version, cfg.Bundled.Version)
	}
	if len(cfg.Bundled.Entries) != 1 || cfg.Bundled.Entries[0].Blake2b != d.digest {
		return fmt.Errorf("expected pinned digest %s, got %v", d.digest, cfg.Bundled.Entries)
	}
	return nil
}

func (d *downloadContext) theSavedConfigShouldPinVersionKeepingChecksum(version, checksum string) error {
	if d.err != nil {
		return fmt.Errorf("refresh failed: %w", d.err)
	}
	cfg, err := config.Load(d.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Bundled.Version != version {
		return fmt.Errorf("expected version %q, got %q", version, cfg.Bundled.Version)
	}
	if len(cfg.Bundled.Entries) != 1 || cfg.Bundled.Entries[0].Blake2b != checksum {
		return fmt.Errorf("expected untouched checksum %q, got %v", checksum, cfg.Bundled.Entries)
	}
	return nil
}
