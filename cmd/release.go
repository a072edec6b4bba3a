package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	appbundle "mediainspect/application/bundle"
	apprelease "mediainspect/application/release"
	"mediainspect/domain/bundle"
	"mediainspect/domain/release"
	"mediainspect/infrastructure/archive"
	"mediainspect/infrastructure/config"
	"mediainspect/infrastructure/mediaarea"
	"mediainspect/infrastructure/publish"
	"mediainspect/infrastructure/toolchain"

	"github.com/spf13/cobra"
)

var (
	releaseTag         string
	releaseEnvironment string
	releaseSkipQA      bool
	releaseSkipPublish bool
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Run the gated release pipeline",
	Long: `Run the release pipeline: QA matrix, one library bundle artifact per
configured platform, publish gate, upload.

Artifacts are only uploaded when the tag matches the pinned library version
(v<version>) and the active environment is the configured deploy
environment. Anything else is a normal, non-publishing build. Artifacts the
index already holds are skipped, so re-running a release is safe.

The tag and environment default to the MEDIAINSPECT_TAG and
MEDIAINSPECT_ENV environment variables; index credentials come from the
environment variables named in the config.

Examples:
  mediainspect release
  mediainspect release --tag v24.01 --environment deploy
  mediainspect release --skip-publish`,
	RunE: runRelease,
}

func init() {
	rootCmd.AddCommand(releaseCmd)
	releaseCmd.Flags().StringVar(&releaseTag, "tag", os.Getenv("MEDIAINSPECT_TAG"), "Version tag of this build (empty for untagged builds)")
	releaseCmd.Flags().StringVar(&releaseEnvironment, "environment", os.Getenv("MEDIAINSPECT_ENV"), "Active environment name")
	releaseCmd.Flags().BoolVar(&releaseSkipQA, "skip-qa", false, "Skip the QA matrix")
	releaseCmd.Flags().BoolVar(&releaseSkipPublish, "skip-publish", false, "Build and gate, but never upload")
}

func runRelease(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'mediainspect setup' first")
	}
	if cfg.Release.IndexURL == "" && !releaseSkipPublish {
		return fmt.Errorf("no package index configured; set release.index_url or use --skip-publish")
	}

	credentials := publish.Credentials{
		Username: os.Getenv(cfg.Release.UsernameEnv),
		Password: os.Getenv(cfg.Release.PasswordEnv),
	}

	manager := config.NewManager(cfg, cfgFile)
	extractor := archive.NewExtractor()
	return RunReleaseWithDependencies(
		cmd.Context(),
		mediaarea.NewClient(),
		extractor,
		&toolchain.ExecCommandRunner{},
		archive.NewBuilder(),
		publish.NewClient(cfg.Release.IndexURL, credentials),
		manager,
		apprelease.Input{
			Tag:         releaseTag,
			Environment: releaseEnvironment,
			SkipQA:      releaseSkipQA,
			SkipPublish: releaseSkipPublish,
		},
		os.Stdout,
	)
}

// RunReleaseWithDependencies runs the release command with injected dependencies (for testing)
func RunReleaseWithDependencies(
	ctx context.Context,
	downloader bundle.Downloader,
	extractor *archive.Extractor,
	stepRunner release.StepRunner,
	builder release.ArtifactBuilder,
	publisher release.Publisher,
	manager *config.Manager,
	input apprelease.Input,
	output io.Writer,
) error {
	bundles := appbundle.NewService(downloader, extractor, extractor, output)
	qa := apprelease.NewQAService(stepRunner, output)
	service := apprelease.NewService(bundles, qa, builder, publisher, manager, output)

	result, err := service.Run(ctx, input)
	if err != nil {
		return err
	}

	if result.Published {
		fmt.Fprintf(output, "Published %d artifact(s), %d already on the index\n", result.Uploaded, result.Skipped)
	} else {
		fmt.Fprintf(output, "Built %d artifact(s) for version %s (not published)\n", len(result.Artifacts), result.Version)
	}
	return nil
}
