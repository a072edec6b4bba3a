package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	appbundle "mediainspect/application/bundle"
	"mediainspect/domain/bundle"
	"mediainspect/infrastructure/archive"
	"mediainspect/infrastructure/config"
	"mediainspect/infrastructure/mediaarea"

	"github.com/spf13/cobra"
)

var (
	downloadPlatform   string
	downloadArch       string
	downloadAll        bool
	downloadDest       string
	downloadPrintSums  bool
	downloadClean      bool
	downloadSkipVerify bool
	downloadQuiet      bool
	downloadBaseURL    string
	downloadTimeout    time.Duration
)

var downloadCmd = &cobra.Command{
	Use:   "download-library",
	Short: "Download and verify the bundled MediaInfo library",
	Long: `Download the upstream MediaInfo library archive for a platform, verify it
against the pinned BLAKE2b checksum and extract the shared library and its
license into the library directory.

The platform and architecture default to the current machine. Use --all to
fetch every configured platform bundle at once, --print-sums to print the
archive digests without unpacking, or --clean to remove previously
extracted files.

Examples:
  mediainspect download-library
  mediainspect download-library --platform windows --arch i386
  mediainspect download-library --all --dest ./lib
  mediainspect download-library --all --print-sums
  mediainspect download-library --clean`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringVarP(&downloadPlatform, "platform", "p", runtime.GOOS, "Target platform: linux, darwin or windows")
	downloadCmd.Flags().StringVarP(&downloadArch, "arch", "a", hostArch(), "Target architecture: x86_64, arm64 or i386")
	downloadCmd.Flags().BoolVarP(&downloadAll, "all", "A", false, "Download every configured platform bundle")
	downloadCmd.Flags().StringVarP(&downloadDest, "dest", "o", "", "Destination directory (defaults to the configured library directory)")
	downloadCmd.Flags().BoolVarP(&downloadPrintSums, "print-sums", "s", false, "Print the archive digests for pinning instead of unpacking")
	downloadCmd.Flags().BoolVarP(&downloadClean, "clean", "c", false, "Remove previously extracted library files and exit")
	downloadCmd.Flags().BoolVar(&downloadSkipVerify, "skip-verify", false, "Accept the archive without a pinned checksum")
	downloadCmd.Flags().BoolVarP(&downloadQuiet, "quiet", "q", false, "Suppress progress output")
	downloadCmd.MarkFlagsMutuallyExclusive("print-sums", "clean")
	downloadCmd.Flags().StringVar(&downloadBaseURL, "base-url", "", "Mirror to download from instead of mediaarea.net")
	downloadCmd.Flags().DurationVar(&downloadTimeout, "timeout", 5*time.Minute, "Timeout for the whole download")
}

// hostArch maps the Go architecture name to the upstream archive naming
func hostArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "386":
		return "i386"
	default:
		return runtime.GOARCH
	}
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'mediainspect setup' first")
	}

	dest := downloadDest
	if dest == "" {
		dest = cfg.Paths.LibraryDirectory
	}
	if dest == "" {
		return fmt.Errorf("no destination directory; set paths.library_directory or use --dest")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), downloadTimeout)
	defer cancel()

	manager := config.NewManager(cfg, cfgFile)
	extractor := archive.NewExtractor()
	return RunDownloadWithDependencies(
		ctx,
		mediaarea.NewClient(mediaarea.WithTimeout(downloadTimeout)),
		extractor,
		extractor,
		manager,
		downloadPlatform,
		downloadArch,
		downloadAll,
		dest,
		downloadPrintSums,
		downloadClean,
		downloadSkipVerify,
		downloadQuiet,
		downloadBaseURL,
		os.Stdout,
	)
}

// RunDownloadWithDependencies runs the download command with injected dependencies (for testing)
func RunDownloadWithDependencies(
	ctx context.Context,
	downloader bundle.Downloader,
	unpacker bundle.Unpacker,
	cleaner appbundle.Cleaner,
	manager *config.Manager,
	platform, arch string,
	all bool,
	dest string,
	printSums bool,
	clean bool,
	skipVerify bool,
	quiet bool,
	baseURL string,
	output io.Writer,
) error {
	progress := io.Writer(output)
	if quiet {
		progress = io.Discard
	}

	if clean {
		removed, err := cleaner.Clean(dest)
		if err != nil {
			return err
		}
		for _, name := range removed {
			fmt.Fprintf(progress, "Removed: %s\n", name)
		}
		fmt.Fprintf(output, "Removed %d file(s) from %s\n", len(removed), dest)
		return nil
	}

	var opts []appbundle.Option
	if baseURL != "" {
		opts = append(opts, appbundle.WithBaseURL(baseURL))
	}
	service := appbundle.NewService(downloader, unpacker, cleaner, progress, opts...)

	descriptors, err := resolveDescriptors(manager, platform, arch, all)
	if err != nil {
		return err
	}

	if printSums {
		for _, desc := range descriptors {
			digest, err := service.Digest(ctx, desc)
			if err != nil {
				return err
			}
			fmt.Fprintf(output, "%s  (%s, %s)\n", digest, desc.Platform, desc.Arch)
		}
		return nil
	}

	for _, desc := range descriptors {
		result, err := service.Download(ctx, appbundle.DownloadInput{
			Descriptor: desc,
			DestDir:    dest,
			SkipVerify: skipVerify,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "Library bundle (%s, %s) ready in %s (%d files)\n", desc.Platform, desc.Arch, dest, len(result.Created))
	}
	return nil
}

// resolveDescriptors picks the configured bundle descriptors to operate on
func resolveDescriptors(manager *config.Manager, platform, arch string, all bool) ([]*bundle.Descriptor, error) {
	if all {
		return manager.Descriptors()
	}
	desc, err := manager.Descriptor(platform, arch)
	if err != nil {
		return nil, err
	}
	return []*bundle.Descriptor{desc}, nil
}
