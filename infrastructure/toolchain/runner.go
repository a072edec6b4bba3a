package toolchain

import (
	"context"
	"os"
	"os/exec"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command and returns any error
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}
