//go:generate mockgen -package runner -destination=./runner_mock.go . Runner

// Package runner abstracts external command execution behind a narrow
// interface so the engine can be tested with scripted outputs instead of
// real filesystem tools.
package runner

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/kballard/go-shellquote"

	"github.com/glorpus-work/aclshift/internal/logger"
)

// Runner executes an external command and returns its captured output.
// A non-nil error indicates the command could not be started or exited
// non-zero; stderr is returned alongside for diagnostics either way.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and waits for it to finish. There is no timeout
// beyond context cancellation; a hanging tool blocks the caller.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	logger.Debugf("exec: %s", shellquote.Join(append([]string{name}, args...)...))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
