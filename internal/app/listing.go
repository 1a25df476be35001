package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.trai.ch/xtc/internal/adapters/shell"
	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/engine/driver"
	"go.trai.ch/xtc/internal/engine/resolver"
	"go.trai.ch/xtc/internal/engine/sequencer"
	"go.trai.ch/xtc/internal/ui/style"
	"go.trai.ch/zerr"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return style.Header.PaddingRight(1)
			}
			return lipgloss.NewStyle().PaddingRight(1)
		})
}

func (a *App) println(s string) error {
	_, err := fmt.Fprintln(a.out, s)
	return err
}

// Targets lists the target catalog.
func (a *App) Targets() error {
	t := newTable("TRIPLET", "LIBC", "ARCH", "ABI", "CPU", "MODE", "FLOAT", "ENDIAN", "LLVM", "CFLAGS")
	for _, p := range domain.Targets() {
		llvm := p.LLVMArch
		if p.Experimental {
			llvm += "*"
		}
		t.Row(p.Triplet, string(p.LibC), p.Arch, p.ABI, p.CPU, p.Mode, p.Float, p.Endian, llvm, resolver.TargetCFlags(p))
	}
	if err := a.println(t.String()); err != nil {
		return err
	}
	return a.println(style.Muted.Render("* experimental LLVM target"))
}

// History lists the most recent runs, newest first.
func (a *App) History(limit int) error {
	records, err := a.store.List(limit)
	if err != nil {
		return zerr.Wrap(err, "failed to read run history")
	}
	if len(records) == 0 {
		return a.println(style.Muted.Render("No runs recorded yet."))
	}

	t := newTable("ID", "STARTED", "TRIPLET", "LABEL", "FAMILY", "STATUS", "DURATION", "FAILED AT")
	for _, r := range records {
		failedAt := ""
		if r.FailedComponent != "" {
			failedAt = string(r.FailedComponent) + ":" + string(r.FailedStage)
		}
		t.Row(
			shortID(r.ID),
			r.Started.Local().Format(time.DateTime),
			r.Triplet,
			r.Label,
			string(r.Family),
			renderStatus(r.Status),
			duration(r),
			failedAt,
		)
	}
	return a.println(t.String())
}

// ShowRun prints every recorded detail of one run.
func (a *App) ShowRun(id string) error {
	r, err := a.lookup(id)
	if err != nil {
		return err
	}

	fields := [][2]string{
		{"ID", r.ID},
		{"Status", renderStatus(r.Status)},
		{"Triplet", r.Triplet},
		{"Label", r.Label},
		{"Family", string(r.Family)},
		{"C library", string(r.LibC)},
		{"Fingerprint", r.Fingerprint},
		{"Install dir", r.InstallDir},
		{"Started", r.Started.Local().Format(time.DateTime)},
		{"Duration", duration(*r)},
		{"Failed component", string(r.FailedComponent)},
		{"Failed stage", string(r.FailedStage)},
		{"Error", r.Error},
		{"Archive", r.Archive},
		{"Checksum", r.Checksum},
	}

	var b strings.Builder
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		b.WriteString(style.Header.Render(fmt.Sprintf("%-17s", f[0])))
		b.WriteString(f[1])
		b.WriteString("\n")
	}
	_, err = fmt.Fprint(a.out, b.String())
	return err
}

// lookup finds a run by full ID or by an unambiguous ID prefix as shown by History.
func (a *App) lookup(id string) (*domain.RunRecord, error) {
	r, err := a.store.Get(id)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read run history")
	}
	if r != nil {
		return r, nil
	}

	records, err := a.store.List(0)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read run history")
	}
	var match *domain.RunRecord
	for i := range records {
		if !strings.HasPrefix(records[i].ID, id) {
			continue
		}
		if match != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrRunNotFound, "ambiguous run id"), "id", id)
		}
		match = &records[i]
	}
	if match == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrRunNotFound, "no such run"), "id", id)
	}
	return match, nil
}

// printPlan shows the steps and configure commands of a build without running them.
func (a *App) printPlan(p domain.BuildParameters) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s, %s)\n", style.Header.Render("Plan for"), p.Triplet, p.Family, p.LibC())
	fmt.Fprintf(&b, "  build:   %s\n  install: %s\n  jobs:    %d\n", p.Layout.BuildDir, p.Layout.InstallDir, p.Jobs)

	for i, step := range sequencer.Plan(p) {
		spec := sequencer.Preview(p, step.Component)
		scope := ""
		if step.ScopedPath {
			scope = style.Muted.Render(" [PATH=" + p.Layout.BinDir() + ":$PATH]")
		}
		fmt.Fprintf(&b, "\n%s %s%s\n", style.Header.Render(strconv.Itoa(i+1)+"."), step.Component.Title(), scope)
		fmt.Fprintf(&b, "  %s %s\n", style.Arrow, shell.RenderArgs(spec.Configure))
		fmt.Fprintf(&b, "  %s %s\n", style.Arrow, buildLine(spec))
	}

	_, err := fmt.Fprint(a.out, b.String())
	return err
}

func buildLine(spec domain.ComponentSpec) string {
	jobs := "-j " + strconv.Itoa(spec.Jobs)
	if spec.Tool == domain.ToolNinja {
		return "ninja " + jobs + " install"
	}
	return "make " + jobs + " " + strings.Join(driver.Goals("all", spec.Subtargets), " ") +
		" && make " + jobs + " " + strings.Join(driver.Goals("install", spec.Subtargets), " ")
}

func renderStatus(s domain.RunStatus) string {
	switch s {
	case domain.RunStatusSucceeded:
		return style.OK.Render(style.Check + " " + string(s))
	case domain.RunStatusFailed:
		return style.Failed.Render(style.Cross + " " + string(s))
	default:
		return style.Muted.Render(style.Dot + " " + string(s))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// duration is the wall time of a finished run, or "-" while it is still going.
func duration(r domain.RunRecord) string {
	if !r.Status.IsTerminal() {
		return "-"
	}
	return r.Duration().Round(time.Second).String()
}
