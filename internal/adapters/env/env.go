// Package env scopes changes to the process environment.
package env

import (
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Environment = (*Environment)(nil)

// Environment implements ports.Environment on the real process environment.
// Child processes started after PrependPath inherit the new PATH.
type Environment struct {
	mu sync.Mutex
}

// New creates a new Environment.
func New() *Environment {
	return &Environment{}
}

// PrependPath puts dir in front of PATH and returns a func that puts the
// previous value back, unsetting PATH if it was unset before.
func (e *Environment) PrependPath(dir string) (func(), error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, had := os.LookupEnv("PATH")
	next := dir
	if prev != "" {
		next = dir + string(filepath.ListSeparator) + prev
	}
	if err := os.Setenv("PATH", next); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to set PATH"), "dir", dir)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if had {
				_ = os.Setenv("PATH", prev)
				return
			}
			_ = os.Unsetenv("PATH")
		})
	}, nil
}
