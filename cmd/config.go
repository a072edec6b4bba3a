package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"mediainspect/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration entries",
	Long: `Manage the pinned bundle entries and QA environments in the configuration file.

Examples:
  mediainspect config list entries
  mediainspect config add entry --platform windows --arch i386
  mediainspect config remove entry windows i386
  mediainspect config set-version 24.01`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	// Add subcommands
	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configRemoveCmd)
	configCmd.AddCommand(configSetVersionCmd)
}

// --- ADD command ---

var (
	addPlatform string
	addArch     string
	addChecksum string
)

var configAddCmd = &cobra.Command{
	Use:   "add entry",
	Short: "Add a new bundle entry",
	Long: `Add a platform bundle entry to the configuration.

The checksum is optional; run 'mediainspect update-checksums' to pin it.

Examples:
  mediainspect config add entry --platform linux --arch arm64
  mediainspect config add entry --platform windows --arch i386 --blake2b <digest>`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigAdd,
}

func init() {
	configAddCmd.Flags().StringVar(&addPlatform, "platform", "", "Target platform (required)")
	configAddCmd.Flags().StringVar(&addArch, "arch", "", "Target architecture (required)")
	configAddCmd.Flags().StringVar(&addChecksum, "blake2b", "", "Pinned BLAKE2b digest of the archive")
	configAddCmd.MarkFlagRequired("platform")
	configAddCmd.MarkFlagRequired("arch")
}

func runConfigAdd(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("config file not found. Run 'mediainspect setup' first")
	}

	return RunConfigAddWithDependencies(cfg, cfgFile, args[0], addPlatform, addArch, addChecksum, DefaultOutput)
}

// RunConfigAddWithDependencies runs the add command with injected dependencies
func RunConfigAddWithDependencies(cfg *config.Config, configPath, entityType, platform, arch, checksum string, out OutputWriter) error {
	mgr := config.NewManager(cfg, configPath)

	switch entityType {
	case "entry":
		if err := mgr.AddEntry(platform, arch, checksum); err != nil {
			return err
		}
		fmt.Fprintf(out, "Added bundle entry (%s, %s)\n", platform, arch)

	default:
		return fmt.Errorf("unknown entity type %q. Use entry", entityType)
	}

	return nil
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list [entries|environments]",
	Short: "List config entries",
	Long: `List the pinned bundle entries or the QA environments.

Examples:
  mediainspect config list entries
  mediainspect config list environments`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigList,
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("config file not found. Run 'mediainspect setup' first")
	}

	return RunConfigListWithDependencies(cfg, cfgFile, args[0], DefaultOutput)
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(cfg *config.Config, configPath, entityType string, out OutputWriter) error {
	mgr := config.NewManager(cfg, configPath)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	switch entityType {
	case "entries":
		entries := cfg.Bundled.Entries
		if len(entries) == 0 {
			fmt.Fprintln(out, "No bundle entries configured.")
			return nil
		}
		fmt.Fprintf(out, "Version: %s\n", cfg.Bundled.Version)
		fmt.Fprintln(w, "PLATFORM\tARCH\tBLAKE2B")
		for _, e := range entries {
			checksum := e.Blake2b
			if checksum == "" {
				checksum = "(unpinned)"
			} else if len(checksum) > 16 {
				checksum = checksum[:16] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Platform, e.Arch, checksum)
		}

	case "environments":
		envs := mgr.Environments()
		if len(envs) == 0 {
			fmt.Fprintln(out, "No environments configured.")
			return nil
		}
		fmt.Fprintln(w, "NAME\tSTEPS")
		for _, env := range envs {
			fmt.Fprintf(w, "%s\t%d\n", env.Name, len(env.Steps))
		}

	default:
		return fmt.Errorf("unknown entity type %q. Use entries or environments", entityType)
	}

	return w.Flush()
}

// --- REMOVE command ---

var configRemoveCmd = &cobra.Command{
	Use:   "remove entry <platform> <arch>",
	Short: "Remove a bundle entry",
	Long: `Remove a platform bundle entry from the configuration.

Examples:
  mediainspect config remove entry windows i386`,
	Args: cobra.ExactArgs(3),
	RunE: runConfigRemove,
}

func runConfigRemove(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("config file not found. Run 'mediainspect setup' first")
	}

	return RunConfigRemoveWithDependencies(cfg, cfgFile, args[0], args[1], args[2], DefaultOutput)
}

// RunConfigRemoveWithDependencies runs the remove command with injected dependencies
func RunConfigRemoveWithDependencies(cfg *config.Config, configPath, entityType, platform, arch string, out OutputWriter) error {
	mgr := config.NewManager(cfg, configPath)

	switch entityType {
	case "entry":
		if err := mgr.RemoveEntry(platform, arch); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed bundle entry (%s, %s)\n", platform, arch)

	default:
		return fmt.Errorf("unknown entity type %q. Use entry", entityType)
	}

	return nil
}

// --- SET-VERSION command ---

var configSetVersionCmd = &cobra.Command{
	Use:   "set-version <version>",
	Short: "Pin the bundled library version",
	Long: `Pin the bundled MediaInfo library version without contacting upstream.

Run 'mediainspect update-checksums --only-checksums' afterwards to refresh
the archive checksums for the new version.

Examples:
  mediainspect config set-version 24.01`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetVersion,
}

func runConfigSetVersion(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("config file not found. Run 'mediainspect setup' first")
	}

	return RunConfigSetVersionWithDependencies(cfg, cfgFile, args[0], DefaultOutput)
}

// RunConfigSetVersionWithDependencies runs the set-version command with injected dependencies
func RunConfigSetVersionWithDependencies(cfg *config.Config, configPath, version string, out OutputWriter) error {
	mgr := config.NewManager(cfg, configPath)
	if err := mgr.SetVersion(version); err != nil {
		return err
	}
	fmt.Fprintf(out, "Pinned library version %s\n", version)
	return nil
}
