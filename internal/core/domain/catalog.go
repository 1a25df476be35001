package domain

import (
	"slices"
	"strings"
)

const (
	sizeCFlags = "-DPREFER_SIZE_OVER_SPEED=1 -Os"
	armCFlags  = "-DHAVE_GNU_LD -DPREFER_SIZE_OVER_SPEED=1 -Os"
	mipsCFlags = `-DPREFER_SIZE_OVER_SPEED=1 -Os -D__GLIBC_USE\(...\)=0`
)

var targetCatalog = map[string]TargetProfile{
	"riscv32-unknown-elf": {
		Arch:         "rv32imc",
		ABI:          "ilp32",
		ISASpec:      "2.2",
		LLVMArch:     "RISCV",
		LibC:         LibCNewlib,
		TargetCFlags: sizeCFlags,
	},
	"riscv64-unknown-elf": {
		Arch:         "rv64imc",
		ABI:          "lp64",
		LLVMArch:     "RISCV",
		LibC:         LibCNewlib,
		TargetCFlags: sizeCFlags,
	},
	"arm-none-eabi": {
		CPU:          "cortex-m4",
		Mode:         "thumb",
		Float:        "soft",
		LLVMArch:     "ARM",
		LibC:         LibCNewlib,
		TargetCFlags: armCFlags,
	},
	"arc-elf32": {
		CPU:          "em",
		Endian:       "little",
		LLVMArch:     "ARC",
		LibC:         LibCNewlib,
		TargetCFlags: sizeCFlags,
	},
	"avr": {
		LLVMArch:     "AVR",
		LibC:         LibCAVR,
		Experimental: true,
		TargetCFlags: sizeCFlags,
	},
	"mips-elf": {
		Arch:         "mips32r2",
		ABI:          "32",
		LLVMArch:     "Mips",
		LibC:         LibCNewlib,
		TargetCFlags: mipsCFlags,
	},
}

// LookupTarget returns the default profile for a triplet.
func LookupTarget(triplet string) (TargetProfile, bool) {
	p, ok := targetCatalog[triplet]
	if !ok {
		return TargetProfile{}, false
	}
	p.Triplet = triplet
	return p, true
}

// Targets returns every catalog profile ordered by triplet.
func Targets() []TargetProfile {
	out := make([]TargetProfile, 0, len(targetCatalog))
	for triplet := range targetCatalog {
		p, _ := LookupTarget(triplet)
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b TargetProfile) int {
		return strings.Compare(a.Triplet, b.Triplet)
	})
	return out
}

// Source repositories known to the batch catalog.
const (
	RepoBinutils = "binutils-gdb"
	RepoGCC      = "gcc"
	RepoNewlib   = "newlib"
	RepoAVRLibC  = "avr-libc"
	RepoLLVM     = "llvm-project"
)

// CatalogEntry is one toolchain version of a batch run.
type CatalogEntry struct {
	Label     string            `yaml:"label" json:"label"`
	Revisions map[string]string `yaml:"revisions" json:"revisions"`
	Triplets  []string          `yaml:"triplets" json:"triplets"`
	Family    CompilerFamily    `yaml:"family,omitempty" json:"family,omitempty"`
}

// SortedRepos returns the entry's repositories in checkout order.
func (e CatalogEntry) SortedRepos() []string {
	order := []string{RepoBinutils, RepoGCC, RepoNewlib, RepoAVRLibC, RepoLLVM}
	repos := make([]string, 0, len(e.Revisions))
	for _, r := range order {
		if _, ok := e.Revisions[r]; ok {
			repos = append(repos, r)
		}
	}
	var extra []string
	for r := range e.Revisions {
		if !slices.Contains(order, r) {
			extra = append(extra, r)
		}
	}
	slices.Sort(extra)
	return append(repos, extra...)
}

func gccEntry(label, gcc, binutils, newlib string) CatalogEntry {
	return CatalogEntry{
		Label: label,
		Revisions: map[string]string{
			RepoGCC:      gcc,
			RepoBinutils: binutils,
			RepoNewlib:   newlib,
		},
		Triplets: []string{"riscv32-unknown-elf"},
		Family:   FamilyGNU,
	}
}

// DefaultBatchCatalog returns the built-in list of GCC releases built by `xtc batch`.
func DefaultBatchCatalog() []CatalogEntry {
	return []CatalogEntry{
		gccEntry("gcc_10.0.0", "a9d06ea05ab", "ed7e9d0bda", "edb1be4cc"),
		gccEntry("gcc_9.2", "gcc-9_2_0-release", "binutils-2_32", "newlib-3.1.0"),
		gccEntry("gcc_9.1", "gcc-9_1_0-release", "binutils-2_32", "newlib-3.1.0"),
		gccEntry("gcc_8.3", "gcc-8_3_0-release", "binutils-2_32", "newlib-3.1.0"),
		gccEntry("gcc_8.2", "gcc-8_2_0-release", "binutils-2_31_1", "newlib-3.0.0"),
		gccEntry("gcc_8.1", "gcc-8_1_0-release", "binutils-2_30", "newlib-3.0.0"),
		gccEntry("gcc_7.5", "08e3e5fc33b", "binutils-2_33_1", "newlib-3.1.0"),
		gccEntry("gcc_7.4", "gcc-7_4_0-release", "binutils-2_31_1", "newlib-3.0.0"),
		gccEntry("gcc_7.3", "gcc-7_3_0-release", "binutils-2_29_1.1", "newlib-3.0.0"),
		gccEntry("gcc_7.2", "gcc-7_2_0-release", "binutils-2_29", "newlib-3.0.0"),
		gccEntry("gcc_7.1", "gcc-7_1_0-release", "binutils-2_28", "newlib-3.0.0"),
	}
}
