package domain

import (
	"path/filepath"
	"time"
)

// Timeouts bounds the wall-clock duration of each kind of stage.
type Timeouts struct {
	Config       time.Duration `json:"config"`
	Build        time.Duration `json:"build"`
	Install      time.Duration `json:"install"`
	BuildInstall time.Duration `json:"build_install"`
}

// DefaultTimeouts suit a reasonably modern x86 workstation.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Config:       120 * time.Second,
		Build:        3600 * time.Second,
		Install:      120 * time.Second,
		BuildInstall: 3600 * time.Second,
	}
}

// Layout is the on-disk arrangement of sources, build trees and install trees.
//
//	<root>/gnu/{binutils-gdb,gcc}
//	<root>/llvm/llvm-project
//	<root>/libs/{newlib,avr-libc}
//	<root>/build-<label>, <root>/install-<label>
type Layout struct {
	Root       string `json:"root"`
	BuildDir   string `json:"build_dir"`
	InstallDir string `json:"install_dir"`
	LogDir     string `json:"log_dir"`
}

// NewLayout resolves dirs relative to root; absolute dirs are kept as given.
func NewLayout(root, buildDir, installDir, logDir string) Layout {
	return Layout{
		Root:       filepath.Clean(root),
		BuildDir:   ResolvePath(root, buildDir),
		InstallDir: ResolvePath(root, installDir),
		LogDir:     ResolvePath(root, logDir),
	}
}

// ResolvePath joins p onto root unless p is already absolute.
func ResolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// RepoDir is the checkout directory of a source repository.
func (l Layout) RepoDir(repo string) string {
	switch repo {
	case RepoBinutils, RepoGCC:
		return filepath.Join(l.Root, "gnu", repo)
	case RepoLLVM:
		return filepath.Join(l.Root, "llvm", repo)
	default:
		return filepath.Join(l.Root, "libs", repo)
	}
}

// LLVMSource is a project directory inside the llvm-project checkout.
func (l Layout) LLVMSource(project string) string {
	return filepath.Join(l.RepoDir(RepoLLVM), project)
}

// ComponentDir is the build directory of one component.
func (l Layout) ComponentDir(c Component) string {
	return filepath.Join(l.BuildDir, string(c))
}

// BinDir is the install tree's binary directory.
func (l Layout) BinDir() string {
	return filepath.Join(l.InstallDir, "bin")
}

// TargetDir is <install>/<triplet>.
func (l Layout) TargetDir(triplet string) string {
	return filepath.Join(l.InstallDir, triplet)
}

// BuildParameters is the resolved configuration of one toolchain build.
// It is created once by the resolver and never mutated afterward.
type BuildParameters struct {
	Triplet  string         `json:"triplet"`
	Profile  TargetProfile  `json:"profile"`
	Family   CompilerFamily `json:"family"`
	Layout   Layout         `json:"layout"`
	Timeouts Timeouts       `json:"timeouts"`
	Jobs     int            `json:"jobs"`
	Clean    bool           `json:"clean"`
}

// LibC is the C library kind selected for this build.
func (p BuildParameters) LibC() LibC {
	return p.Profile.LibC
}

// UsesLLVM reports whether Clang/LLVM is the end-user compiler.
func (p BuildParameters) UsesLLVM() bool {
	return p.Family == FamilyLLVM
}

// NeedsGCCStage2 reports whether a full GCC is rebuilt against the C library.
// Neither avr-libc nor LLVM builds need it.
func (p BuildParameters) NeedsGCCStage2() bool {
	return !p.UsesLLVM() && p.LibC() != LibCAVR
}

// Components lists the components of this build in build order.
// The same list defines the build directory tree.
func (p BuildParameters) Components() []Component {
	comps := []Component{ComponentBinutils, ComponentGCCStage1}
	if p.UsesLLVM() {
		comps = append(comps, ComponentLLVM)
	}
	comps = append(comps, LibCComponent(p.LibC()))
	if p.UsesLLVM() {
		comps = append(comps, ComponentCompilerRT)
	}
	if p.NeedsGCCStage2() {
		comps = append(comps, ComponentGCCStage2)
	}
	return comps
}

// ComponentDirs returns the build directory of every component, in build order.
func (p BuildParameters) ComponentDirs() []string {
	comps := p.Components()
	dirs := make([]string, 0, len(comps))
	for _, c := range comps {
		dirs = append(dirs, p.Layout.ComponentDir(c))
	}
	return dirs
}
