// Package app implements the application layer for xtc.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/xtc/internal/adapters/publish"
	"go.trai.ch/xtc/internal/adapters/shell"
	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/xtc/internal/engine/batch"
	"go.trai.ch/xtc/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// Toolchain builds one resolved toolchain.
type Toolchain interface {
	Run(ctx context.Context, p domain.BuildParameters) error
}

// App represents the main application logic.
type App struct {
	toolchain Toolchain
	batch     *batch.Driver
	catalog   ports.CatalogLoader
	store     ports.HistoryStore
	hasher    ports.Hasher
	archiver  ports.Archiver
	publisher ports.Publisher
	fs        ports.FileSystem
	logger    ports.Logger

	out   io.Writer
	now   func() time.Time
	newID func() string
}

// New creates a new App instance.
func New(
	toolchain Toolchain,
	batchDriver *batch.Driver,
	catalog ports.CatalogLoader,
	store ports.HistoryStore,
	hasher ports.Hasher,
	archiver ports.Archiver,
	publisher ports.Publisher,
	fs ports.FileSystem,
	log ports.Logger,
) *App {
	return &App{
		toolchain: toolchain,
		batch:     batchDriver,
		catalog:   catalog,
		store:     store,
		hasher:    hasher,
		archiver:  archiver,
		publisher: publisher,
		fs:        fs,
		logger:    log,
		out:       os.Stdout,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithOutput redirects listings and dry-run plans to w.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// PackageOptions controls what happens to a finished install tree.
type PackageOptions struct {
	// Archive is the compression format name; empty skips packaging.
	Archive string
	// Publish is an s3://bucket/prefix destination; it implies an xz archive
	// when Archive is empty.
	Publish string
}

func (o PackageOptions) format() (domain.ArchiveFormat, error) {
	if o.Publish != "" {
		if _, _, err := publish.ParseDestination(o.Publish); err != nil {
			return "", err
		}
	}

	switch {
	case o.Archive != "":
		f, err := domain.ParseArchiveFormat(o.Archive)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "invalid archive format"), "format", o.Archive)
		}
		return f, nil
	case o.Publish != "":
		return domain.ArchiveXZ, nil
	default:
		return "", nil
	}
}

// BuildOptions configures a single toolchain build.
type BuildOptions struct {
	Resolve   resolver.Options
	Overrides domain.Overrides
	Package   PackageOptions
	Verbose   bool
	DryRun    bool
}

// Build resolves triplet and builds its toolchain, or prints the plan on a dry run.
// Except on a dry run the log file is attached first, so rejected requests are logged too.
func (a *App) Build(ctx context.Context, triplet string, opts BuildOptions) error {
	a.logger.SetVerbose(opts.Verbose)

	if !opts.DryRun {
		closeLog, err := a.attachLog(resolver.LogDir(opts.Resolve), "build-"+domain.ShortName(triplet))
		if err != nil {
			return err
		}
		defer closeLog()
	}

	format, err := opts.Package.format()
	if err != nil {
		a.logger.Debug("Rejected build request for " + triplet + ": " + err.Error())
		return err
	}

	p, err := resolver.Resolve(triplet, opts.Overrides, opts.Resolve)
	if err != nil {
		a.logger.Debug("Rejected build request for " + triplet + ": " + err.Error())
		return err
	}

	if opts.DryRun {
		return a.printPlan(p)
	}
	return a.build(ctx, "", p, format, opts.Package.Publish)
}

// BatchOptions configures a batch run over a build catalog.
type BatchOptions struct {
	// Catalog is a YAML catalog file; empty selects the built-in catalog.
	Catalog  string
	Only     []string
	Root     string
	LogDir   string
	Timeouts domain.Timeouts
	Jobs     int
	Package  PackageOptions
	Verbose  bool
}

// Batch builds every selected catalog entry in order.
func (a *App) Batch(ctx context.Context, opts BatchOptions) error {
	a.logger.SetVerbose(opts.Verbose)

	closeLog, err := a.attachLog(resolver.LogDir(resolver.Options{Root: opts.Root, LogDir: opts.LogDir}), "batch")
	if err != nil {
		return err
	}
	defer closeLog()

	format, err := opts.Package.format()
	if err != nil {
		return err
	}

	entries, err := a.catalog.Load(opts.Catalog)
	if err != nil {
		return zerr.Wrap(err, "failed to load build catalog")
	}
	entries, err = batch.Select(entries, opts.Only)
	if err != nil {
		return err
	}

	return a.batch.Run(ctx, entries, batch.Options{
		Root:     opts.Root,
		LogDir:   opts.LogDir,
		Timeouts: opts.Timeouts,
		Jobs:     opts.Jobs,
	}, func(ctx context.Context, label string, p domain.BuildParameters) error {
		return a.build(ctx, label, p, format, opts.Package.Publish)
	})
}

func (a *App) attachLog(dir, prefix string) (func(), error) {
	if err := a.fs.Prepare(dir, nil, false); err != nil {
		return nil, zerr.Wrap(err, "cannot create log directory")
	}
	path, err := a.logger.Attach(dir, prefix)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Logging to " + path)
	return func() {
		if err := a.logger.Close(); err != nil {
			a.logger.Warn("failed to close log file: " + err.Error())
		}
	}, nil
}

// build runs one toolchain and records its outcome in the history.
func (a *App) build(ctx context.Context, label string, p domain.BuildParameters, format domain.ArchiveFormat, dest string) error {
	record := domain.RunRecord{
		ID:         a.newID(),
		Label:      label,
		Triplet:    p.Triplet,
		Family:     p.Family,
		LibC:       p.LibC(),
		InstallDir: p.Layout.InstallDir,
		Status:     domain.RunStatusRunning,
		Started:    a.now(),
	}

	fingerprint, err := a.hasher.Fingerprint(p)
	if err != nil {
		a.logger.Warn("cannot fingerprint build: " + err.Error())
	}
	record.Fingerprint = fingerprint
	a.record(record)

	err = a.toolchain.Run(ctx, p)

	if err == nil && format != "" {
		var artifact domain.Artifact
		artifact, err = a.archiver.Archive(ctx, p.Layout.InstallDir, p.Layout.Root, filepath.Base(p.Layout.InstallDir), format)
		if err == nil {
			a.logger.Info("Packaged " + artifact.Path)
			record.Archive = artifact.Path
			record.Checksum = artifact.Checksum
			if dest != "" {
				var url string
				url, err = a.publisher.Publish(ctx, artifact, dest)
				if err == nil {
					a.logger.Info("Published " + url)
				}
			}
		}
	}

	record.Finished = a.now()
	if err != nil {
		record.Status = domain.RunStatusFailed
		record.Error = err.Error()
		var stageErr *domain.StageError
		if errors.As(err, &stageErr) {
			record.FailedComponent = stageErr.Component
			record.FailedStage = stageErr.Stage
		}
		a.reportFailure(err)
	} else {
		record.Status = domain.RunStatusSucceeded
		a.logger.Info(fmt.Sprintf("Toolchain for %s installed in %s (%s)",
			p.Triplet, p.Layout.InstallDir, record.Duration().Round(time.Second)))
	}
	a.record(record)

	return err
}

func (a *App) record(r domain.RunRecord) {
	if err := a.store.Put(r); err != nil {
		a.logger.Warn("failed to record run history: " + err.Error())
	}
}

// reportFailure logs what is needed to reproduce a failed command by hand.
func (a *App) reportFailure(err error) {
	var cmdErr *domain.CommandError
	if !errors.As(err, &cmdErr) {
		return
	}

	a.logger.Info("Running in directory " + cmdErr.Dir)
	a.logger.Info("Command was: " + shell.RenderArgs(cmdErr.Argv))
	if len(cmdErr.Stdout) > 0 {
		a.logger.Info("Standard output:\n" + string(cmdErr.Stdout))
	}
	if len(cmdErr.Stderr) > 0 {
		a.logger.Info("Standard error:\n" + string(cmdErr.Stderr))
	}
}
