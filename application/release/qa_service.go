package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mediainspect/domain/release"
)

// QAService runs QA environments against the working tree
type QAService struct {
	runner release.StepRunner
	output io.Writer
}

// NewQAService creates a new QA service
func NewQAService(runner release.StepRunner, output io.Writer) *QAService {
	if output == nil {
		output = io.Discard
	}
	return &QAService{
		runner: runner,
		output: output,
	}
}

// RunEnvironment executes every step of one environment in order. The first
// failing step aborts the environment.
func (s *QAService) RunEnvironment(ctx context.Context, env release.Environment) error {
	if err := env.Validate(); err != nil {
		return err
	}

	fmt.Fprintf(s.output, "=== %s ===\n", env.Name)
	for i, step := range env.Steps {
		fmt.Fprintf(s.output, "[%d/%d] %s: %s %s\n", i+1, len(env.Steps), step.Name, step.Command, strings.Join(step.Args, " "))
		if err := s.runner.Run(ctx, step.Command, step.Args...); err != nil {
			fmt.Fprintf(s.output, "FAIL  %s\n", env.Name)
			return &release.StepError{
				Environment: env.Name,
				Step:        step.Name,
				Err:         err,
			}
		}
	}
	fmt.Fprintf(s.output, "PASS  %s\n", env.Name)
	return nil
}

// RunMatrix executes every environment. A failing environment does not stop
// the remaining ones; all failures are reported together.
func (s *QAService) RunMatrix(ctx context.Context, envs []release.Environment) error {
	if len(envs) == 0 {
		return fmt.Errorf("no environments configured")
	}

	var errs []error
	for _, env := range envs {
		if err := s.RunEnvironment(ctx, env); err != nil {
			errs = append(errs, err)
		}
		fmt.Fprintln(s.output)
	}

	if len(errs) > 0 {
		fmt.Fprintf(s.output, "%d of %d environments failed\n", len(errs), len(envs))
		return errors.Join(errs...)
	}
	fmt.Fprintf(s.output, "All %d environments passed\n", len(envs))
	return nil
}
