package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	appbundle "mediainspect/application/bundle"
	"mediainspect/domain/bundle"
	"mediainspect/infrastructure/archive"
	"mediainspect/infrastructure/config"
	"mediainspect/infrastructure/mediaarea"

	"github.com/spf13/cobra"
)

var (
	checksumsOnlyVersion   bool
	checksumsOnlyChecksums bool
	checksumsQuiet         bool
	checksumsBaseURL       string
	checksumsTimeout       time.Duration
)

var checksumsCmd = &cobra.Command{
	Use:   "update-checksums",
	Short: "Refresh the pinned library version and archive checksums",
	Long: `Look up the latest upstream MediaInfo release, pin its version in the
config and re-download every configured archive to refresh the pinned
BLAKE2b checksums.

A platform whose archive cannot be fetched is reported and skipped so the
remaining checksums still update.

Examples:
  mediainspect update-checksums
  mediainspect update-checksums --only-version
  mediainspect update-checksums --only-checksums`,
	RunE: runChecksums,
}

func init() {
	rootCmd.AddCommand(checksumsCmd)
	checksumsCmd.Flags().BoolVarP(&checksumsOnlyVersion, "only-version", "V", false, "Pin the latest version without refreshing checksums")
	checksumsCmd.Flags().BoolVarP(&checksumsOnlyChecksums, "only-checksums", "C", false, "Keep the pinned version; only refresh checksums")
	checksumsCmd.Flags().BoolVarP(&checksumsQuiet, "quiet", "q", false, "Suppress download progress output")
	checksumsCmd.Flags().StringVar(&checksumsBaseURL, "base-url", "", "Mirror to download from instead of mediaarea.net")
	checksumsCmd.Flags().DurationVar(&checksumsTimeout, "timeout", 15*time.Minute, "Timeout for the whole refresh")
	checksumsCmd.MarkFlagsMutuallyExclusive("only-version", "only-checksums")
}

func runChecksums(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'mediainspect setup' first")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), checksumsTimeout)
	defer cancel()

	manager := config.NewManager(cfg, cfgFile)
	client := mediaarea.NewClient(mediaarea.WithTimeout(checksumsTimeout))
	extractor := archive.NewExtractor()
	return RunChecksumsWithDependencies(ctx, client, client, extractor, extractor, manager, checksumsOnlyVersion, checksumsOnlyChecksums, checksumsQuiet, checksumsBaseURL, os.Stdout)
}

// RunChecksumsWithDependencies runs the update-checksums command with injected dependencies (for testing)
func RunChecksumsWithDependencies(
	ctx context.Context,
	downloader bundle.Downloader,
	releases bundle.ReleaseSource,
	unpacker bundle.Unpacker,
	cleaner appbundle.Cleaner,
	manager *config.Manager,
	onlyVersion bool,
	onlyChecksums bool,
	quiet bool,
	baseURL string,
	output io.Writer,
) error {
	progress := io.Writer(output)
	if quiet {
		progress = io.Discard
	}

	var opts []appbundle.Option
	if baseURL != "" {
		opts = append(opts, appbundle.WithBaseURL(baseURL))
	}
	bundles := appbundle.NewService(downloader, unpacker, cleaner, progress, opts...)
	service := appbundle.NewChecksumService(releases, bundles, manager, output)

	switch {
	case onlyVersion:
		_, _, err := service.UpdateVersion(ctx)
		return err
	case onlyChecksums:
		return service.UpdateChecksums(ctx)
	default:
		return service.Refresh(ctx)
	}
}
