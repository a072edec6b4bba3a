package release

import (
	"context"
	"fmt"
)

// Step is a single external tool invocation inside an environment
type Step struct {
	// Name describes the step in progress output, for example "lint"
	Name string

	// Command is the executable to invoke
	Command string

	// Args are the command arguments
	Args []string
}

// Validate checks that the step can be executed
func (s Step) Validate() error {
	if s.Command == "" {
		return fmt.Errorf("step %q: command is required", s.Name)
	}
	return nil
}

// Environment is a named sequence of steps. Steps run strictly sequentially;
// the first non-zero exit fails the environment. Environments are independent
// of each other.
type Environment struct {
	Name  string
	Steps []Step
}

// Validate checks that the environment is runnable
func (e Environment) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("environment name is required")
	}
	if len(e.Steps) == 0 {
		return fmt.Errorf("environment %q has no steps", e.Name)
	}
	for _, step := range e.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("environment %q: %w", e.Name, err)
		}
	}
	return nil
}

// StepRunner defines the interface for executing environment steps
// This is a port that can be implemented by different infrastructure adapters
type StepRunner interface {
	// Run executes a command; a non-nil error means a non-zero exit
	Run(ctx context.Context, name string, args ...string) error
}

// StepError identifies which step of which environment failed
type StepError struct {
	Environment string
	Step        string
	Err         error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("environment %q: step %q failed: %v", e.Environment, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
