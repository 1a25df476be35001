// Package sequencer builds a complete toolchain by running its components
// in dependency order.
package sequencer

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/xtc/internal/engine/recipe"
	"go.trai.ch/zerr"
)

// State is the last milestone a toolchain build reached.
type State string

const (
	// StateInit indicates nothing has been built yet.
	StateInit State = "init"
	// StateBinutilsBuilt indicates binutils is installed.
	StateBinutilsBuilt State = "binutils-built"
	// StateGCC1Built indicates the bootstrap compiler (or libgcc) is installed.
	StateGCC1Built State = "gcc1-built"
	// StateLLVMBuilt indicates Clang/LLVM and its driver links are installed.
	StateLLVMBuilt State = "llvm-built"
	// StateLibCBuilt indicates the target C library is installed.
	StateLibCBuilt State = "libc-built"
	// StateCompilerRTBuilt indicates the LLVM runtime library is installed.
	StateCompilerRTBuilt State = "compiler-rt-built"
	// StateGCC2Built indicates the final GCC is installed.
	StateGCC2Built State = "gcc2-built"
	// StateDone indicates the toolchain is complete.
	StateDone State = "done"
)

var reached = map[domain.Component]State{
	domain.ComponentBinutils:   StateBinutilsBuilt,
	domain.ComponentGCCStage1:  StateGCC1Built,
	domain.ComponentLLVM:       StateLLVMBuilt,
	domain.ComponentNewlib:     StateLibCBuilt,
	domain.ComponentNewlibNano: StateLibCBuilt,
	domain.ComponentAVRLibC:    StateLibCBuilt,
	domain.ComponentCompilerRT: StateCompilerRTBuilt,
	domain.ComponentGCCStage2:  StateGCC2Built,
}

// Step is one component build of a toolchain.
type Step struct {
	Component domain.Component
	// ScopedPath marks steps that run with the install tree's bin directory
	// first in PATH, so the freshly built cross tools are found.
	ScopedPath bool
	// Reaches is the state entered once the step succeeds.
	Reaches State
}

// Plan returns the ordered steps of a toolchain build.
func Plan(p domain.BuildParameters) []Step {
	comps := p.Components()
	steps := make([]Step, 0, len(comps))
	for _, c := range comps {
		steps = append(steps, Step{
			Component:  c,
			ScopedPath: c == domain.LibCComponent(p.LibC()) || c == domain.ComponentCompilerRT,
			Reaches:    reached[c],
		})
	}
	return steps
}

// Builder builds single components.
type Builder interface {
	Build(ctx context.Context, spec domain.ComponentSpec) error
	Query(ctx context.Context, component domain.Component, cmd domain.Command) (string, error)
}

// Sequencer drives one toolchain build through its states.
// Builds are strictly sequential and every failure is fatal.
type Sequencer struct {
	builder Builder
	fs      ports.FileSystem
	env     ports.Environment
	logger  ports.Logger

	mu    sync.RWMutex
	state State
}

// New creates a new Sequencer.
func New(builder Builder, fs ports.FileSystem, env ports.Environment, logger ports.Logger) *Sequencer {
	return &Sequencer{
		builder: builder,
		fs:      fs,
		env:     env,
		logger:  logger,
		state:   StateInit,
	}
}

// State reports the last state reached by the current or most recent run.
func (s *Sequencer) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Sequencer) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Run prepares the build tree and builds every component of p.
func (s *Sequencer) Run(ctx context.Context, p domain.BuildParameters) error {
	s.setState(StateInit)
	s.logger.Info("Build of " + p.Triplet + " started at " + time.Now().Format(time.DateTime))

	if err := s.fs.Prepare(p.Layout.BuildDir, p.ComponentDirs(), p.Clean); err != nil {
		return err
	}
	if err := s.fs.Prepare(p.Layout.InstallDir, nil, false); err != nil {
		return err
	}

	steps := Plan(p)
	for i := 0; i < len(steps); {
		if !steps[i].ScopedPath {
			if err := s.step(ctx, p, steps[i]); err != nil {
				return err
			}
			i++
			continue
		}

		j := i
		for j < len(steps) && steps[j].ScopedPath {
			j++
		}
		if err := s.scoped(ctx, p, steps[i:j]); err != nil {
			return err
		}
		i = j
	}

	s.setState(StateDone)
	s.logger.Info("Build of " + p.Triplet + " finished at " + time.Now().Format(time.DateTime))
	return nil
}

// scoped runs steps with the install bin directory prepended to PATH.
// PATH is restored on every exit path.
func (s *Sequencer) scoped(ctx context.Context, p domain.BuildParameters, steps []Step) error {
	restore, err := s.env.PrependPath(p.Layout.BinDir())
	if err != nil {
		return err
	}
	defer restore()

	for _, step := range steps {
		if err := s.step(ctx, p, step); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequencer) step(ctx context.Context, p domain.BuildParameters, step Step) error {
	if err := ctx.Err(); err != nil {
		return zerr.With(zerr.Wrap(err, "build interrupted"), "state", string(s.State()))
	}

	spec, err := s.spec(ctx, p, step.Component)
	if err == nil {
		err = s.builder.Build(ctx, spec)
	}
	if err != nil {
		s.logger.Debug("Build of " + p.Triplet + " stopped in state " + string(s.State()))
		return zerr.With(zerr.Wrap(err, "toolchain build failed"), "triplet", p.Triplet)
	}

	s.setState(step.Reaches)
	return nil
}

// spec renders the build request of c, running the helper queries that
// avr-libc and compiler-rt need first.
func (s *Sequencer) spec(ctx context.Context, p domain.BuildParameters, c domain.Component) (domain.ComponentSpec, error) {
	return render(p, c, func(cmd domain.Command) (string, error) {
		return s.builder.Query(ctx, c, cmd)
	})
}

// Preview renders the build request of c without running anything. Query
// output is shown as a $(command) placeholder.
func Preview(p domain.BuildParameters, c domain.Component) domain.ComponentSpec {
	spec, _ := render(p, c, func(cmd domain.Command) (string, error) {
		return "$(" + strings.Join(cmd.Argv, " ") + ")", nil
	})
	return spec
}

func render(p domain.BuildParameters, c domain.Component, query func(domain.Command) (string, error)) (domain.ComponentSpec, error) {
	switch c {
	case domain.ComponentBinutils:
		return recipe.Binutils(p), nil
	case domain.ComponentGCCStage1:
		return recipe.GCCStage1(p), nil
	case domain.ComponentGCCStage2:
		return recipe.GCCStage2(p), nil
	case domain.ComponentLLVM:
		return recipe.LLVM(p), nil
	case domain.ComponentAVRLibC:
		guess, err := query(recipe.ConfigGuess(p))
		if err != nil {
			return domain.ComponentSpec{}, err
		}
		return recipe.AVRLibC(p, guess), nil
	case domain.ComponentCompilerRT:
		dir, err := query(recipe.ResourceDir(p))
		if err != nil {
			return domain.ComponentSpec{}, err
		}
		return recipe.CompilerRT(p, dir), nil
	case domain.ComponentNewlib, domain.ComponentNewlibNano:
		if !p.LibC().IsNewlib() {
			return domain.ComponentSpec{}, zerr.With(
				zerr.Wrap(domain.ErrUnsupportedLibC, "newlib requested for another C library"),
				"libc", string(p.LibC()),
			)
		}
		return recipe.Newlib(p), nil
	default:
		return domain.ComponentSpec{}, zerr.With(zerr.New("no recipe for component"), "component", string(c))
	}
}
