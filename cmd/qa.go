package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	apprelease "mediainspect/application/release"
	"mediainspect/domain/release"
	"mediainspect/infrastructure/config"
	"mediainspect/infrastructure/toolchain"

	"github.com/spf13/cobra"
)

var qaEnvironment string

var qaCmd = &cobra.Command{
	Use:   "qa",
	Short: "Run the QA environment matrix",
	Long: `Run the configured QA environments. Each environment is a named sequence
of external tool invocations; steps run in order and the first non-zero
exit fails the environment. A failing environment does not stop the
remaining ones.

Examples:
  mediainspect qa
  mediainspect qa --env lint`,
	RunE: runQA,
}

func init() {
	rootCmd.AddCommand(qaCmd)
	qaCmd.Flags().StringVar(&qaEnvironment, "env", "", "Run only the named environment")
}

func runQA(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'mediainspect setup' first")
	}

	manager := config.NewManager(cfg, cfgFile)
	return RunQAWithDependencies(cmd.Context(), &toolchain.ExecCommandRunner{}, manager, qaEnvironment, os.Stdout)
}

// RunQAWithDependencies runs the qa command with injected dependencies (for testing)
func RunQAWithDependencies(
	ctx context.Context,
	runner release.StepRunner,
	manager *config.Manager,
	environment string,
	output io.Writer,
) error {
	service := apprelease.NewQAService(runner, output)

	if environment != "" {
		env, err := manager.Environment(environment)
		if err != nil {
			return err
		}
		return service.RunEnvironment(ctx, env)
	}
	return service.RunMatrix(ctx, manager.Environments())
}
