package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

// CommandError describes an external command that failed or timed out.
// It unwraps to ErrCommandFailed or ErrCommandTimedOut.
type CommandError struct {
	Argv     []string
	Dir      string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Timeout  time.Duration
	TimedOut bool
	// Cause is set when the process could not be started at all.
	Cause error
}

// Message describes the failure without the sentinel cause.
func (e *CommandError) Message() string {
	name := "command"
	if len(e.Argv) > 0 {
		name = filepath.Base(e.Argv[0])
	}
	if e.TimedOut {
		return fmt.Sprintf("%s did not finish within %s", name, e.Timeout)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s could not be started: %v", name, e.Cause)
	}
	return fmt.Sprintf("%s exited with status %d", name, e.ExitCode)
}

func (e *CommandError) Error() string {
	return e.Message() + ": " + e.Unwrap().Error()
}

func (e *CommandError) Unwrap() error {
	if e.TimedOut {
		return ErrCommandTimedOut
	}
	return ErrCommandFailed
}

// StageError attributes a failure to a component and stage.
type StageError struct {
	Component Component
	Stage     Stage
	Err       error
}

// Message describes the failing stage without its cause.
func (e *StageError) Message() string {
	return fmt.Sprintf("%s: %s stage failed", e.Component.Title(), e.Stage)
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return e.Message()
	}
	return e.Message() + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}
