package adapter

import (
	"context"
	"os/exec"
)

// ExecRunner runs helper processes through os/exec. The context bounds the
// process lifetime; exceeding it kills the helper and surfaces the context
// error.
type ExecRunner struct{}

// NewExecRunner creates an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and returns its standard output. Standard error is
// attached to the returned *exec.ExitError on failure.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
