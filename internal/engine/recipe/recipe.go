// Package recipe renders the build request of every toolchain component from
// declarative configure templates.
package recipe

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/engine/resolver"
)

// BinutilsSubtargets are built from the combined binutils-gdb tree.
var BinutilsSubtargets = []string{"binutils", "ld", "gas", "gdb"}

// libgccSubtarget is all of GCC stage 1 an LLVM toolchain needs.
const libgccSubtarget = "target-libgcc"

func configureScript(repo string) rule {
	return func(p domain.BuildParameters) []string {
		return []string{filepath.Join(p.Layout.RepoDir(repo), "configure")}
	}
}

var binutilsTemplate = template{
	configureScript(domain.RepoBinutils),
	gnuPrefix.rule(),
	noDocs,
	lit(
		"--with-fop=no",
		"--disable-multilib",
		"--enable-plugins",
		"--enable-poison-system-directories",
		"--disable-tls",
		"--disable-sim",
	),
	profileFlags.rule(),
}

var gccStage1Template = template{
	configureScript(domain.RepoGCC),
	gnuPrefix.rule(),
	lit("--disable-shared", "--disable-static"),
	noDocs,
	gccCommon.rule(),
	lit("--enable-languages=c", "--without-headers"),
	gccTail,
	profileFlags.rule(),
}

var gccStage2Template = template{
	configureScript(domain.RepoGCC),
	opt("--with-build-time-tools=", inTarget("bin")),
	gnuPrefix.rule(),
	lit("--disable-shared", "--enable-static"),
	noDocs,
	gccCommon.rule(),
	lit("--enable-languages=c,c++"),
	gccTail,
	profileFlags.rule(),
}

var newlibTemplate = template{
	configureScript(domain.RepoNewlib),
	gnuPrefix.rule(),
	newlibFlags,
	clangForTarget,
	func(p domain.BuildParameters) []string {
		return []string{"CFLAGS_FOR_TARGET=" + resolver.TargetCFlags(p.Profile)}
	},
}

var llvmTemplate = template{
	lit(
		"cmake",
		"-DCMAKE_BUILD_TYPE=Release",
		"-DCMAKE_CROSSCOMPILING=True",
		"-DLLVM_ENABLE_PROJECTS=clang",
		"-DLLVM_OPTIMIZED_TABLEGEN=ON",
		"-DLLVM_ENABLE_ASSERTIONS=ON",
		"-DBUILD_SHARED_LIBS=ON",
	),
	opt("-DCMAKE_INSTALL_PREFIX=", installDir),
	func(p domain.BuildParameters) []string {
		if p.Profile.LLVMArch == "" {
			return nil
		}
		if p.Profile.Experimental {
			return []string{"-DLLVM_EXPERIMENTAL_TARGETS_TO_BUILD=" + p.Profile.LLVMArch}
		}
		return []string{"-DLLVM_TARGETS_TO_BUILD=" + p.Profile.LLVMArch}
	},
	opt("-DLLVM_BINUTILS_INCDIR=", func(p domain.BuildParameters) string {
		return filepath.Join(p.Layout.RepoDir(domain.RepoBinutils), "include")
	}),
	opt("-DLLVM_DEFAULT_TARGET_TRIPLE=", triplet),
	lit("-G", "Ninja"),
	opt("", func(p domain.BuildParameters) string { return p.Layout.LLVMSource("llvm") }),
}

// rule turns a template into a rule so templates can nest.
func (t template) rule() rule {
	return t.render
}

func newSpec(p domain.BuildParameters, c domain.Component, source string, configure []string) domain.ComponentSpec {
	tool := domain.ToolMake
	if c == domain.ComponentLLVM || c == domain.ComponentCompilerRT {
		tool = domain.ToolNinja
	}
	return domain.ComponentSpec{
		Component:  c,
		Triplet:    p.Triplet,
		SourceDir:  source,
		BuildDir:   p.Layout.ComponentDir(c),
		InstallDir: p.Layout.InstallDir,
		Configure:  configure,
		Tool:       tool,
		Jobs:       p.Jobs,
		Timeouts:   p.Timeouts,
	}
}

// Binutils builds binutils, ld, gas and gdb.
func Binutils(p domain.BuildParameters) domain.ComponentSpec {
	spec := newSpec(p, domain.ComponentBinutils, p.Layout.RepoDir(domain.RepoBinutils), binutilsTemplate.render(p))
	spec.Subtargets = slices.Clone(BinutilsSubtargets)
	return spec
}

// GCCStage1 builds a C-only bootstrap compiler without target headers.
// For LLVM toolchains only libgcc is built.
func GCCStage1(p domain.BuildParameters) domain.ComponentSpec {
	spec := newSpec(p, domain.ComponentGCCStage1, p.Layout.RepoDir(domain.RepoGCC), gccStage1Template.render(p))
	if p.UsesLLVM() {
		spec.Subtargets = []string{libgccSubtarget}
	}
	return spec
}

// GCCStage2 builds the final C and C++ compiler against the installed C library.
func GCCStage2(p domain.BuildParameters) domain.ComponentSpec {
	return newSpec(p, domain.ComponentGCCStage2, p.Layout.RepoDir(domain.RepoGCC), gccStage2Template.render(p))
}

// LLVM builds Clang/LLVM with Ninja and links the triplet-prefixed drivers afterwards.
func LLVM(p domain.BuildParameters) domain.ComponentSpec {
	spec := newSpec(p, domain.ComponentLLVM, p.Layout.LLVMSource("llvm"), llvmTemplate.render(p))
	spec.Hooks = []domain.Hook{domain.HookClangLinks}
	return spec
}

// Newlib builds newlib, or newlib-nano when the profile selects it.
func Newlib(p domain.BuildParameters) domain.ComponentSpec {
	c := domain.ComponentNewlib
	if p.LibC() == domain.LibCNewlibNano {
		c = domain.ComponentNewlibNano
	}
	spec := newSpec(p, c, p.Layout.RepoDir(domain.RepoNewlib), newlibTemplate.render(p))
	if c == domain.ComponentNewlibNano {
		spec.Hooks = []domain.Hook{domain.HookNanoArchives}
	}
	return spec
}

// AVRLibC builds avr-libc for the build machine reported by config.guess.
func AVRLibC(p domain.BuildParameters, buildMachine string) domain.ComponentSpec {
	t := template{
		configureScript(domain.RepoAVRLibC),
		opt("--prefix=", installDir),
		lit("--build="+buildMachine, "--host=avr"),
	}
	return newSpec(p, domain.ComponentAVRLibC, p.Layout.RepoDir(domain.RepoAVRLibC), t.render(p))
}

// CompilerRT builds the bare-metal compiler runtime into clang's resource directory.
func CompilerRT(p domain.BuildParameters, resourceDir string) domain.ComponentSpec {
	bin := p.Layout.BinDir()
	cflags := resolver.TargetCFlags(p.Profile)
	t := template{
		lit(
			"cmake",
			"-DCMAKE_INSTALL_PREFIX="+strings.TrimSpace(resourceDir),
			"-DCMAKE_C_COMPILER="+filepath.Join(bin, "clang"),
			"-DCMAKE_CXX_COMPILER="+filepath.Join(bin, "clang"),
			"-DCMAKE_AR="+filepath.Join(bin, "llvm-ar"),
			"-DCMAKE_NM="+filepath.Join(bin, "llvm-nm"),
			"-DCMAKE_RANLIB="+filepath.Join(bin, "llvm-ranlib"),
		),
		opt("-DCMAKE_C_COMPILER_TARGET=", triplet),
		opt("-DCMAKE_CXX_COMPILER_TARGET=", triplet),
		opt("-DCMAKE_ASM_COMPILER_TARGET=", triplet),
		lit(
			"-DCMAKE_C_FLAGS="+cflags,
			"-DCMAKE_CXX_FLAGS="+cflags,
			"-DCMAKE_ASM_FLAGS="+cflags,
			"-DCOMPILER_RT_BAREMETAL_BUILD=ON",
			"-DCOMPILER_RT_DEFAULT_TARGET_ONLY=ON",
			"-DLLVM_CONFIG_PATH="+filepath.Join(p.Layout.ComponentDir(domain.ComponentLLVM), "bin", "llvm-config"),
			"-G", "Ninja",
			p.Layout.LLVMSource("compiler-rt"),
		),
	}
	return newSpec(p, domain.ComponentCompilerRT, p.Layout.LLVMSource("compiler-rt"), t.render(p))
}

// ConfigGuess asks avr-libc's config.guess for the build machine triple.
// The output needs trailing whitespace removed.
func ConfigGuess(p domain.BuildParameters) domain.Command {
	return domain.Command{
		Argv:    []string{filepath.Join(p.Layout.RepoDir(domain.RepoAVRLibC), "config.guess")},
		Dir:     p.Layout.ComponentDir(domain.ComponentAVRLibC),
		Timeout: p.Timeouts.Config,
	}
}

// ResourceDir asks the installed clang where its runtime libraries belong.
func ResourceDir(p domain.BuildParameters) domain.Command {
	return domain.Command{
		Argv:    []string{filepath.Join(p.Layout.BinDir(), "clang"), "-print-resource-dir"},
		Dir:     p.Layout.ComponentDir(domain.ComponentCompilerRT),
		Timeout: p.Timeouts.Config,
	}
}
