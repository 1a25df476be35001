// Package driver runs the stages of a single component build.
package driver

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/zerr"
)

// nanoArchives are duplicated as lib<name>_nano.a by the newlib-nano hook.
var nanoArchives = []string{"c", "m", "g", "gloss"}

// Driver configures, builds and installs one component at a time.
type Driver struct {
	runner    ports.Runner
	fs        ports.FileSystem
	telemetry ports.Telemetry
	logger    ports.Logger
}

// New creates a new Driver.
func New(runner ports.Runner, fs ports.FileSystem, telemetry ports.Telemetry, logger ports.Logger) *Driver {
	return &Driver{
		runner:    runner,
		fs:        fs,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Build runs configure, then build and install (make) or a single
// build-install (ninja), then the post-install hooks. The first failing
// stage aborts the component with a *domain.StageError.
func (d *Driver) Build(ctx context.Context, spec domain.ComponentSpec) error {
	title := spec.Component.Title()

	d.logger.Info("Configuring " + title)
	if err := d.stage(ctx, spec.Component, domain.StageConfigure, domain.Command{
		Argv:    spec.Configure,
		Dir:     spec.BuildDir,
		Timeout: spec.Timeouts.Config,
	}); err != nil {
		return err
	}

	jobs := []string{"-j", strconv.Itoa(max(spec.Jobs, 1))}

	switch spec.Tool {
	case domain.ToolNinja:
		d.logger.Info("Building and installing " + title)
		if err := d.stage(ctx, spec.Component, domain.StageBuildInstall, domain.Command{
			Argv:    append(append([]string{"ninja"}, jobs...), "install"),
			Dir:     spec.BuildDir,
			Timeout: spec.Timeouts.BuildInstall,
		}); err != nil {
			return err
		}
	default:
		d.logger.Info("Building " + title)
		if err := d.stage(ctx, spec.Component, domain.StageBuild, domain.Command{
			Argv:    append(append([]string{"make"}, jobs...), Goals("all", spec.Subtargets)...),
			Dir:     spec.BuildDir,
			Timeout: spec.Timeouts.Build,
		}); err != nil {
			return err
		}

		d.logger.Info("Installing " + title)
		if err := d.stage(ctx, spec.Component, domain.StageInstall, domain.Command{
			Argv:    append(append([]string{"make"}, jobs...), Goals("install", spec.Subtargets)...),
			Dir:     spec.BuildDir,
			Timeout: spec.Timeouts.Install,
		}); err != nil {
			return err
		}
	}

	for _, hook := range spec.Hooks {
		if err := d.hook(ctx, spec, hook); err != nil {
			return &domain.StageError{
				Component: spec.Component,
				Stage:     domain.StagePostInstall,
				Err:       errors.Join(domain.ErrPostInstallHook, err),
			}
		}
	}

	d.logger.Info(title + " complete")
	return nil
}

// Query runs a helper command on behalf of component and returns its output
// with trailing whitespace removed.
func (d *Driver) Query(ctx context.Context, component domain.Component, cmd domain.Command) (string, error) {
	out, err := d.run(ctx, component, domain.StageQuery, cmd)
	if err != nil {
		return "", &domain.StageError{Component: component, Stage: domain.StageQuery, Err: err}
	}
	return strings.TrimRight(string(out), " \t\r\n"), nil
}

// Goals expands make goals for the given sub-targets: "all" becomes
// all-<t> for every t, or stays "all" when there are none.
func Goals(goal string, subtargets []string) []string {
	if len(subtargets) == 0 {
		return []string{goal}
	}
	goals := make([]string, len(subtargets))
	for i, t := range subtargets {
		goals[i] = goal + "-" + t
	}
	return goals
}

func (d *Driver) stage(ctx context.Context, c domain.Component, stage domain.Stage, cmd domain.Command) error {
	if _, err := d.run(ctx, c, stage, cmd); err != nil {
		return &domain.StageError{Component: c, Stage: stage, Err: err}
	}
	return nil
}

func (d *Driver) run(ctx context.Context, c domain.Component, stage domain.Stage, cmd domain.Command) ([]byte, error) {
	ctx, vertex := d.telemetry.Record(ctx, string(c)+":"+string(stage))
	vertex.Log(domain.LogLevelDebug, "$ "+strings.Join(cmd.Argv, " "))

	out, err := d.runner.Run(ctx, cmd)
	if err != nil {
		var cmdErr *domain.CommandError
		if errors.As(err, &cmdErr) {
			_, _ = vertex.Stdout().Write(cmdErr.Stdout)
			_, _ = vertex.Stderr().Write(cmdErr.Stderr)
			vertex.Log(domain.LogLevelError, cmdErr.Message())
		}
		vertex.Complete(err)
		return nil, err
	}

	_, _ = vertex.Stdout().Write(out)
	vertex.Complete(nil)
	return out, nil
}

func (d *Driver) hook(ctx context.Context, spec domain.ComponentSpec, hook domain.Hook) error {
	_, vertex := d.telemetry.Record(ctx, string(spec.Component)+":"+string(hook))

	var err error
	switch hook {
	case domain.HookNanoArchives:
		err = d.nanoArchives(spec)
	case domain.HookClangLinks:
		err = d.clangLinks(spec)
	default:
		err = zerr.With(zerr.New("unknown post-install hook"), "hook", string(hook))
	}

	vertex.Complete(err)
	return err
}

// nanoArchives installs the nano flavour of each newlib archive and its
// newlib.h next to the regular ones.
func (d *Driver) nanoArchives(spec domain.ComponentSpec) error {
	target := filepath.Join(spec.InstallDir, spec.Triplet)
	lib := filepath.Join(target, "lib")
	for _, name := range nanoArchives {
		src := filepath.Join(lib, "lib"+name+".a")
		dst := filepath.Join(lib, "lib"+name+"_nano.a")
		if err := d.fs.CopyFile(src, dst); err != nil {
			return err
		}
	}

	include := filepath.Join(target, "include")
	nanoInclude := filepath.Join(include, "newlib-nano")
	if err := d.fs.Prepare(nanoInclude, nil, false); err != nil {
		return err
	}
	return d.fs.CopyFile(filepath.Join(include, "newlib.h"), filepath.Join(nanoInclude, "newlib.h"))
}

// clangLinks adds <triplet>-clang and <triplet>-clang++ next to clang.
// Platforms without directory-relative links only get a warning.
func (d *Driver) clangLinks(spec domain.ComponentSpec) error {
	bin := filepath.Join(spec.InstallDir, "bin")
	for _, name := range []string{"clang", "clang++"} {
		err := d.fs.RelativeSymlink(bin, name, spec.Triplet+"-"+name)
		if errors.Is(err, domain.ErrSymlinkUnsupported) {
			d.logger.Warn("cannot create " + spec.Triplet + "-" + name + " link: " + err.Error())
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
