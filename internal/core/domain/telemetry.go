package domain

import "strings"

// RunStatus is the lifecycle state of a toolchain build.
type RunStatus string

const (
	// RunStatusRunning indicates the build has started and not yet finished.
	RunStatusRunning RunStatus = "running"
	// RunStatusSucceeded indicates every component was built and installed.
	RunStatusSucceeded RunStatus = "succeeded"
	// RunStatusFailed indicates a stage failed and the run was aborted.
	RunStatusFailed RunStatus = "failed"
)

// IsTerminal checks if a status is a terminal state.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusSucceeded || s == RunStatusFailed
}

// NormalizeRunStatus converts a string to a RunStatus, defaulting to running if unknown.
func NormalizeRunStatus(s string) RunStatus {
	switch strings.ToLower(s) {
	case string(RunStatusSucceeded):
		return RunStatusSucceeded
	case string(RunStatusFailed):
		return RunStatusFailed
	default:
		return RunStatusRunning
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
