package recipe

import (
	"path/filepath"

	"go.trai.ch/xtc/internal/core/domain"
)

// rule renders zero or more configure arguments from the build parameters.
type rule func(p domain.BuildParameters) []string

// template is an ordered list of rules; rendering concatenates their output.
type template []rule

func (t template) render(p domain.BuildParameters) []string {
	var args []string
	for _, r := range t {
		args = append(args, r(p)...)
	}
	return args
}

// lit emits fixed arguments.
func lit(args ...string) rule {
	return func(domain.BuildParameters) []string {
		return args
	}
}

// opt emits prefix+value, or nothing when value is empty.
func opt(prefix string, value func(domain.BuildParameters) string) rule {
	return func(p domain.BuildParameters) []string {
		v := value(p)
		if v == "" {
			return nil
		}
		return []string{prefix + v}
	}
}

// when applies the nested template only if cond holds.
func when(cond func(domain.BuildParameters) bool, t template) rule {
	return func(p domain.BuildParameters) []string {
		if !cond(p) {
			return nil
		}
		return t.render(p)
	}
}

func triplet(p domain.BuildParameters) string    { return p.Triplet }
func installDir(p domain.BuildParameters) string { return p.Layout.InstallDir }
func usesLLVM(p domain.BuildParameters) bool     { return p.UsesLLVM() }

func inInstall(elem ...string) func(domain.BuildParameters) string {
	return func(p domain.BuildParameters) string {
		return filepath.Join(append([]string{p.Layout.InstallDir}, elem...)...)
	}
}

func inTarget(elem ...string) func(domain.BuildParameters) string {
	return func(p domain.BuildParameters) string {
		return filepath.Join(append([]string{p.Layout.TargetDir(p.Triplet)}, elem...)...)
	}
}

// gnuPrefix places a GNU package under the install tree with a target sysroot.
var gnuPrefix = template{
	opt("--target=", triplet),
	opt("--prefix=", installDir),
	opt("--sysconfdir=", inInstall("etc")),
	opt("--localstatedir=", inInstall("var")),
	opt("--with-sysroot=", inTarget("sysroot")),
}

// profileFlags passes each set profile field on as --with-<field>.
var profileFlags = template{
	opt("--with-arch=", func(p domain.BuildParameters) string { return p.Profile.Arch }),
	opt("--with-abi=", func(p domain.BuildParameters) string { return p.Profile.ABI }),
	opt("--with-cpu=", func(p domain.BuildParameters) string { return p.Profile.CPU }),
	opt("--with-mode=", func(p domain.BuildParameters) string { return p.Profile.Mode }),
	opt("--with-float=", func(p domain.BuildParameters) string { return p.Profile.Float }),
	opt("--with-endian=", func(p domain.BuildParameters) string { return p.Profile.Endian }),
	opt("--with-isa-spec=", func(p domain.BuildParameters) string { return p.Profile.ISASpec }),
}

// noDocs disables every documentation generator the GNU trees know about.
var noDocs = lit(
	"--disable-gtk-doc",
	"--disable-gtk-doc-html",
	"--disable-doc",
	"--disable-docs",
	"--disable-documentation",
)

// gccCommon is shared by both GCC stages.
var gccCommon = template{
	lit(
		"--with-xmlto=no",
		"--with-fop=no",
		"--disable-__cxa_atexit",
		"--with-gnu-ld",
		"--disable-libssp",
		"--disable-multilib",
		"--enable-target-optspace",
		"--disable-libsanitizer",
		"--disable-tls",
		"--disable-libmudflap",
		"--disable-threads",
		"--disable-libquadmath",
		"--disable-libgomp",
		"--without-isl",
		"--without-cloog",
		"--disable-decimal-float",
	),
}

// gccTail follows the language selection in both GCC stages.
var gccTail = lit(
	"--with-newlib",
	"--disable-largefile",
	"--enable-plugins",
	"--disable-nls",
	"--enable-checking=yes",
)

// newlibFlags configures newlib for small embedded targets.
var newlibFlags = lit(
	"--disable-newlib-fvwrite-in-streamio",
	"--disable-newlib-fseek-optimization",
	"--enable-newlib-nano-malloc",
	"--disable-newlib-unbuf-stream-opt",
	"--enable-target-optspace",
	"--enable-newlib-reent-small",
	"--disable-newlib-wide-orient",
	"--disable-newlib-io-float",
	"--enable-newlib-nano-formatted-io",
	"--enable-lite-exit",
	"--disable-newlib-supplied-syscalls",
)

// clangForTarget makes the libc build use the freshly linked clang driver.
var clangForTarget = when(usesLLVM, template{
	opt("CC_FOR_TARGET=", clangName),
	opt("GCC_FOR_TARGET=", clangName),
	opt("LD_FOR_TARGET=", clangName),
})

func clangName(p domain.BuildParameters) string {
	return p.Triplet + "-clang"
}
