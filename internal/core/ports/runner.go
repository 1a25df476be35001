// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/xtc/internal/core/domain"
)

// Runner executes external commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	// Run executes cmd in cmd.Dir and waits at most cmd.Timeout.
	//
	// On success it returns the captured stdout unaltered. A non-zero exit or a
	// timeout is reported as a *domain.CommandError carrying the captured output.
	Run(ctx context.Context, cmd domain.Command) ([]byte, error)
}
