// Package resolver turns a target triplet and user overrides into the
// immutable parameters of one toolchain build.
package resolver

import (
	"cmp"
	"runtime"
	"strings"

	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/zerr"
)

// compatFlags are appended to every C library compile because recent GCC
// releases turn these diagnostics into errors that older newlib trips over.
const compatFlags = "-Wno-int-conversion -Wno-implicit-function-declaration"

// DefaultLogDir holds the log files when no log directory is given.
const DefaultLogDir = "logs"

// Options are the invocation-wide settings that do not come from the target catalog.
// Zero values select defaults.
type Options struct {
	Family     domain.CompilerFamily
	Root       string
	BuildDir   string
	InstallDir string
	LogDir     string
	Timeouts   domain.Timeouts
	Jobs       int
	Clean      bool
}

// Resolve looks triplet up in the target catalog and merges the overrides.
func Resolve(triplet string, overrides domain.Overrides, opts Options) (domain.BuildParameters, error) {
	profile, ok := domain.LookupTarget(triplet)
	if !ok {
		return domain.BuildParameters{}, zerr.With(zerr.Wrap(domain.ErrUnknownTarget, "cannot resolve target"), "triplet", triplet)
	}
	profile = overrides.Apply(profile)

	if _, err := domain.ParseLibC(string(profile.LibC)); err != nil {
		return domain.BuildParameters{}, zerr.With(zerr.Wrap(err, "cannot resolve target"), "libc", string(profile.LibC))
	}

	family := opts.Family
	if family == "" {
		family = domain.FamilyGNU
	}
	if _, err := domain.ParseCompilerFamily(string(family)); err != nil {
		return domain.BuildParameters{}, zerr.With(zerr.Wrap(err, "cannot resolve target"), "family", string(family))
	}

	short := profile.ShortName()
	buildDir := opts.BuildDir
	if buildDir == "" {
		buildDir = "build-" + short
	}
	installDir := opts.InstallDir
	if installDir == "" {
		installDir = "install-" + short
	}
	logDir := cmp.Or(opts.LogDir, DefaultLogDir)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	return domain.BuildParameters{
		Triplet:  triplet,
		Profile:  profile,
		Family:   family,
		Layout:   domain.NewLayout(opts.Root, buildDir, installDir, logDir),
		Timeouts: withDefaults(opts.Timeouts),
		Jobs:     jobs,
		Clean:    opts.Clean,
	}, nil
}

// LogDir is the absolute log directory selected by opts.
func LogDir(opts Options) string {
	return domain.ResolvePath(opts.Root, cmp.Or(opts.LogDir, DefaultLogDir))
}

func withDefaults(t domain.Timeouts) domain.Timeouts {
	def := domain.DefaultTimeouts()
	if t.Config <= 0 {
		t.Config = def.Config
	}
	if t.Build <= 0 {
		t.Build = def.Build
	}
	if t.Install <= 0 {
		t.Install = def.Install
	}
	if t.BuildInstall <= 0 {
		t.BuildInstall = def.BuildInstall
	}
	return t
}

// TargetCFlags assembles the compile flags for target-side libraries:
// the catalog flags, one -m<opt>=<value> per set arch/abi/cpu/endian field,
// -m<mode>, -mfloat-abi=<float>, then the compatibility warnings.
func TargetCFlags(p domain.TargetProfile) string {
	var parts []string
	if p.TargetCFlags != "" {
		parts = append(parts, p.TargetCFlags)
	}

	for _, opt := range []struct{ name, value string }{
		{"arch", p.Arch},
		{"abi", p.ABI},
		{"cpu", p.CPU},
		{"endian", p.Endian},
	} {
		if opt.value != "" {
			parts = append(parts, "-m"+opt.name+"="+opt.value)
		}
	}

	// Mode and float only exist on ARM-like targets in the catalog.
	if p.Mode != "" {
		parts = append(parts, "-m"+p.Mode)
	}
	if p.Float != "" {
		parts = append(parts, "-mfloat-abi="+p.Float)
	}

	return strings.Join(append(parts, compatFlags), " ")
}
