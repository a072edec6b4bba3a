package cmd

import (
	"fmt"
	"os"

	"mediainspect/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mediainspect",
	Short: "Inspect media files and maintain the bundled MediaInfo library",
	Long: `mediainspect drives the MediaInfo tool to analyze media files and
maintains the native library bundle it ships with:

  - Inspect media files (track metadata, cover art, raw MediaInfo formats)
  - Download and verify the upstream MediaInfo library archives
  - Refresh the pinned library version and checksums
  - Run the QA environment matrix and the gated release pipeline

Example:
  mediainspect inspect movie.mkv --format json`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config file is optional for some commands (like help)
		// Commands that need config will check and error appropriately
		cfg = nil
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}
