// Package shell provides the process runner adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"slices"
	"strings"
	"time"

	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/zerr"
)

// waitDelay bounds how long Wait blocks on output pipes after the process group is killed.
const waitDelay = 5 * time.Second

// Runner implements ports.Runner using os/exec.
// Output is captured, not streamed, and only logged when something goes wrong.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Run executes the command without a shell and waits at most cmd.Timeout.
// A zero timeout means no limit beyond ctx.
func (r *Runner) Run(ctx context.Context, c domain.Command) ([]byte, error) {
	if len(c.Argv) == 0 {
		return nil, domain.ErrEmptyCommand
	}

	r.logger.Debug(RenderArgs(c.Argv))

	runCtx := ctx
	cancel := func() {}
	if c.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.Argv[0], c.Argv[1:]...) //nolint:gosec // argv is built from recipes
	cmd.Dir = c.Dir
	if c.Env != nil {
		cmd.Env = c.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	isolate(cmd)

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	cmdErr := &domain.CommandError{
		Argv:     slices.Clone(c.Argv),
		Dir:      c.Dir,
		ExitCode: -1,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Timeout:  c.Timeout,
	}

	switch {
	case ctx.Err() != nil:
		return nil, zerr.With(zerr.Wrap(ctx.Err(), "command interrupted"), "command", c.Argv[0])
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		cmdErr.TimedOut = true
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		} else {
			cmdErr.Cause = err
		}
	}

	r.logger.Debug("Running in directory " + c.Dir)
	r.logger.Debug("Command was: " + RenderArgs(c.Argv))
	return nil, cmdErr
}

// RenderArgs joins argv for display. An argument of the form key=value whose
// value is empty or contains whitespace is shown as key="value".
// The result is for logs only and is never executed.
func RenderArgs(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		parts[i] = renderArg(arg)
	}
	return strings.Join(parts, " ")
}

func renderArg(arg string) string {
	key, value, ok := strings.Cut(arg, "=")
	if !ok || len(strings.Fields(value)) == 1 {
		return arg
	}
	return key + `="` + value + `"`
}
