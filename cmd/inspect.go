package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	appinspect "mediainspect/application/inspect"
	"mediainspect/domain/mediainfo"
	"mediainspect/infrastructure/coverart"
	"mediainspect/infrastructure/filesystem"
	"mediainspect/infrastructure/mediainfocli"

	"github.com/spf13/cobra"
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

var (
	inspectFormat     string
	inspectFull       bool
	inspectParseSpeed float64
	inspectCoverData  bool
	inspectLegacy     bool
	inspectOptions    map[string]string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <media file or URL>",
	Short: "Analyze a media file with MediaInfo",
	Long: `Analyze a media file (or URL) and print its track metadata.

The default output is a human-readable track summary. Use --format json for
parsed track data, --format cover for the cover image as base64 (falling
back to the first video frame when built with -tags=coverart), or pass any
raw MediaInfo output format (XML, HTML, EBUCore, or a %-delimited template)
to get the tool output verbatim.

Examples:
  mediainspect inspect movie.mkv
  mediainspect inspect movie.mkv --format json
  mediainspect inspect song.mp3 --format cover
  mediainspect inspect movie.mkv --format "%Duration%" --option Language=raw
  mediainspect inspect https://example.com/clip.mp4 --parse-speed 1`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "", "Output format: summary (default), json, cover, or a raw MediaInfo format")
	inspectCmd.Flags().BoolVar(&inspectFull, "full", true, "Include computer-readable values")
	inspectCmd.Flags().Float64VarP(&inspectParseSpeed, "parse-speed", "s", 0, "ParseSpeed between 0 and 1 (default from config)")
	inspectCmd.Flags().BoolVar(&inspectCoverData, "cover-data", false, "Request embedded cover art (base64)")
	inspectCmd.Flags().BoolVar(&inspectLegacy, "legacy-stream-display", false, "Report additional stream details")
	inspectCmd.Flags().StringToStringVar(&inspectOptions, "option", nil, "Extra MediaInfo option as name=value (repeatable)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	var analyzerOpts []mediainfocli.AnalyzerOption
	parseSpeed := inspectParseSpeed
	if cfg := GetConfig(); cfg != nil {
		if cfg.MediaInfo.ToolPath != "" {
			analyzerOpts = append(analyzerOpts, mediainfocli.WithMediaInfoPath(cfg.MediaInfo.ToolPath))
		}
		if parseSpeed == 0 {
			parseSpeed = cfg.MediaInfo.ParseSpeed
		}
	}
	analyzer := mediainfocli.NewAnalyzer(analyzerOpts...)

	ctx := cmd.Context()
	if err := analyzer.VerifyInstalled(ctx); err != nil {
		return err
	}

	input := appinspect.Input{
		MediaPath:           args[0],
		Format:              inspectFormat,
		Full:                inspectFull,
		ParseSpeed:          parseSpeed,
		CoverData:           inspectCoverData,
		LegacyStreamDisplay: inspectLegacy,
		Options:             inspectOptions,
	}
	return RunInspectWithDependencies(ctx, analyzer, filesystem.NewChecker(), coverart.NewFrameExtractor(), input, os.Stdout)
}

// RunInspectWithDependencies runs the inspect command with injected dependencies (for testing)
func RunInspectWithDependencies(
	ctx context.Context,
	analyzer mediainfo.Analyzer,
	fileChecker mediainfo.FileChecker,
	coverExtractor appinspect.CoverExtractor,
	input appinspect.Input,
	output io.Writer,
) error {
	service := appinspect.NewService(analyzer, fileChecker, output, appinspect.WithCoverExtractor(coverExtractor))

	result, err := service.Inspect(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprint(output, result)
	if len(result) > 0 && result[len(result)-1] != '\n' {
		fmt.Fprintln(output)
	}
	return nil
}
