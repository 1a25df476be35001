// Package batch builds a series of toolchain versions from a catalog of
// source revisions.
package batch

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/xtc/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// CheckoutTimeout bounds each git checkout.
const CheckoutTimeout = 30 * time.Second

// Options are shared by every toolchain of a batch run.
type Options struct {
	Root     string
	LogDir   string
	Timeouts domain.Timeouts
	Jobs     int
}

// BuildFunc builds one resolved toolchain of the catalog entry labelled label.
type BuildFunc func(ctx context.Context, label string, p domain.BuildParameters) error

// Driver checks out catalog revisions and builds each entry in turn.
type Driver struct {
	runner ports.Runner
	logger ports.Logger
}

// New creates a new Driver.
func New(runner ports.Runner, logger ports.Logger) *Driver {
	return &Driver{
		runner: runner,
		logger: logger,
	}
}

// Run processes entries strictly in order. Each triplet of an entry gets a
// clean build in directories suffixed with the entry label. The first
// failure stops the batch.
func (d *Driver) Run(ctx context.Context, entries []domain.CatalogEntry, opts Options, build BuildFunc) error {
	if len(entries) == 0 {
		return domain.ErrEmptyCatalog
	}

	for _, entry := range entries {
		d.logger.Info("Building " + entry.Label)

		if err := d.checkout(ctx, opts.Root, entry); err != nil {
			return err
		}

		for _, triplet := range entry.Triplets {
			p, err := resolver.Resolve(triplet, domain.Overrides{}, resolver.Options{
				Family:     entry.Family,
				Root:       opts.Root,
				BuildDir:   "build-" + DirLabel(triplet) + "-" + entry.Label,
				InstallDir: "install-" + DirLabel(triplet) + "-" + entry.Label,
				LogDir:     opts.LogDir,
				Timeouts:   opts.Timeouts,
				Jobs:       opts.Jobs,
				Clean:      true,
			})
			if err != nil {
				return zerr.With(err, "label", entry.Label)
			}

			if err := build(ctx, entry.Label, p); err != nil {
				return zerr.With(zerr.Wrap(err, "batch build failed"), "label", entry.Label)
			}
		}
	}
	return nil
}

func (d *Driver) checkout(ctx context.Context, root string, entry domain.CatalogEntry) error {
	layout := domain.Layout{Root: root}
	for _, repo := range entry.SortedRepos() {
		rev := entry.Revisions[repo]
		d.logger.Info("Checking out " + repo + " at " + rev)

		_, err := d.runner.Run(ctx, domain.Command{
			Argv:    []string{"git", "checkout", rev},
			Dir:     layout.RepoDir(repo),
			Timeout: CheckoutTimeout,
		})
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			err = zerr.With(errors.Join(domain.ErrCheckoutFailed, err), "repo", repo)
			return zerr.With(err, "revision", rev)
		}
	}
	return nil
}

// DirLabel is the short directory label of a triplet in batch runs,
// e.g. rv32 for riscv32-unknown-elf.
func DirLabel(triplet string) string {
	short, _, _ := strings.Cut(triplet, "-")
	return strings.Replace(short, "riscv", "rv", 1)
}

// Select keeps the entries whose label is listed in only, in catalog order.
// An empty filter keeps everything.
func Select(entries []domain.CatalogEntry, only []string) ([]domain.CatalogEntry, error) {
	if len(only) == 0 {
		return entries, nil
	}
	for _, label := range only {
		if !slices.ContainsFunc(entries, func(e domain.CatalogEntry) bool { return e.Label == label }) {
			return nil, zerr.With(zerr.Wrap(domain.ErrUnknownCatalogEntry, "cannot select entry"), "label", label)
		}
	}
	return slices.DeleteFunc(slices.Clone(entries), func(e domain.CatalogEntry) bool {
		return !slices.Contains(only, e.Label)
	}), nil
}
