package domain

import "time"

// Component names a toolchain component and its build directory.
type Component string

const (
	ComponentBinutils   Component = "binutils"
	ComponentGCCStage1  Component = "gcc-stage-1"
	ComponentGCCStage2  Component = "gcc-stage-2"
	ComponentLLVM       Component = "llvm"
	ComponentCompilerRT Component = "compiler-rt"
	ComponentNewlib     Component = "newlib"
	ComponentNewlibNano Component = "newlib-nano"
	ComponentAVRLibC    Component = "avr-libc"
)

var componentTitles = map[Component]string{
	ComponentBinutils:   "Binutils",
	ComponentGCCStage1:  "GCC Stage 1",
	ComponentGCCStage2:  "GCC Stage 2",
	ComponentLLVM:       "Clang/LLVM",
	ComponentCompilerRT: "compiler-rt",
	ComponentNewlib:     "Newlib",
	ComponentNewlibNano: "Newlib nano",
	ComponentAVRLibC:    "AVR LibC",
}

// Title is the human readable component name used in progress messages.
func (c Component) Title() string {
	if t, ok := componentTitles[c]; ok {
		return t
	}
	return string(c)
}

// LibCComponent maps a C library kind to the component that builds it.
func LibCComponent(l LibC) Component {
	switch l {
	case LibCNewlibNano:
		return ComponentNewlibNano
	case LibCAVR:
		return ComponentAVRLibC
	default:
		return ComponentNewlib
	}
}

// Stage is one step of a component build.
type Stage string

const (
	StageConfigure    Stage = "configure"
	StageBuild        Stage = "build"
	StageInstall      Stage = "install"
	StageBuildInstall Stage = "build-install"
	StagePostInstall  Stage = "post-install"
	// StageQuery covers helper commands whose output feeds a configure step.
	StageQuery Stage = "query"
)

// BuildTool is the program driving the build and install stages.
type BuildTool string

const (
	ToolMake  BuildTool = "make"
	ToolNinja BuildTool = "ninja"
)

// Hook is a post-install step run after a successful install.
type Hook string

const (
	// HookNanoArchives duplicates the newlib archives and header under nano names.
	HookNanoArchives Hook = "nano-archives"
	// HookClangLinks creates <triplet>-clang and <triplet>-clang++ in the install bin dir.
	HookClangLinks Hook = "clang-links"
)

// Command is a fully resolved external invocation. Argv is passed to the
// process as-is, without shell interpretation.
type Command struct {
	Argv    []string
	Dir     string
	Timeout time.Duration
	Env     []string
}

// ComponentSpec is a single component build request.
type ComponentSpec struct {
	Component  Component
	Triplet    string
	SourceDir  string
	BuildDir   string
	InstallDir string
	Configure  []string
	Subtargets []string
	Tool       BuildTool
	Jobs       int
	Timeouts   Timeouts
	Hooks      []Hook
}
