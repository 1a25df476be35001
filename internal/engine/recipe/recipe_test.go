package recipe_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/engine/recipe"
	"go.trai.ch/xtc/internal/engine/resolver"
)

func resolve(t *testing.T, triplet string, family domain.CompilerFamily, overrides domain.Overrides) domain.BuildParameters {
	t.Helper()
	p, err := resolver.Resolve(triplet, overrides, resolver.Options{
		Family:     family,
		Root:       "/src",
		InstallDir: "/opt/xtc",
		Jobs:       4,
	})
	require.NoError(t, err)
	return p
}

// specs builds every component of p the way the sequencer would.
func specs(p domain.BuildParameters) []domain.ComponentSpec {
	var out []domain.ComponentSpec
	for _, c := range p.Components() {
		switch c {
		case domain.ComponentBinutils:
			out = append(out, recipe.Binutils(p))
		case domain.ComponentGCCStage1:
			out = append(out, recipe.GCCStage1(p))
		case domain.ComponentGCCStage2:
			out = append(out, recipe.GCCStage2(p))
		case domain.ComponentLLVM:
			out = append(out, recipe.LLVM(p))
		case domain.ComponentNewlib, domain.ComponentNewlibNano:
			out = append(out, recipe.Newlib(p))
		case domain.ComponentAVRLibC:
			out = append(out, recipe.AVRLibC(p, "x86_64-pc-linux-gnu"))
		case domain.ComponentCompilerRT:
			out = append(out, recipe.CompilerRT(p, "/opt/xtc/lib/clang/17\n"))
		}
	}
	return out
}

func describe(spec domain.ComponentSpec) []byte {
	hooks := make([]string, 0, len(spec.Hooks))
	for _, h := range spec.Hooks {
		hooks = append(hooks, string(h))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "component: %s\n", spec.Component)
	fmt.Fprintf(&b, "source: %s\n", spec.SourceDir)
	fmt.Fprintf(&b, "build: %s\n", spec.BuildDir)
	fmt.Fprintf(&b, "tool: %s\n", spec.Tool)
	fmt.Fprintf(&b, "subtargets: %s\n", strings.Join(spec.Subtargets, " "))
	fmt.Fprintf(&b, "hooks: %s\n", strings.Join(hooks, " "))
	b.WriteString("configure:\n")
	for _, arg := range spec.Configure {
		fmt.Fprintf(&b, "  %s\n", arg)
	}
	return []byte(b.String())
}

func TestRecipes(t *testing.T) {
	t.Parallel()

	nano := domain.LibCNewlibNano

	tests := []struct {
		name      string
		triplet   string
		family    domain.CompilerFamily
		overrides domain.Overrides
		want      []domain.Component
	}{
		{
			name:    "riscv32_gnu",
			triplet: "riscv32-unknown-elf",
			family:  domain.FamilyGNU,
			want: []domain.Component{
				domain.ComponentBinutils,
				domain.ComponentGCCStage1,
				domain.ComponentNewlib,
				domain.ComponentGCCStage2,
			},
		},
		{
			name:    "riscv32_llvm",
			triplet: "riscv32-unknown-elf",
			family:  domain.FamilyLLVM,
			want: []domain.Component{
				domain.ComponentBinutils,
				domain.ComponentGCCStage1,
				domain.ComponentLLVM,
				domain.ComponentNewlib,
				domain.ComponentCompilerRT,
			},
		},
		{
			name:      "arm_nano_gnu",
			triplet:   "arm-none-eabi",
			family:    domain.FamilyGNU,
			overrides: domain.Overrides{LibC: &nano},
			want: []domain.Component{
				domain.ComponentBinutils,
				domain.ComponentGCCStage1,
				domain.ComponentNewlibNano,
				domain.ComponentGCCStage2,
			},
		},
		{
			name:    "avr_gnu",
			triplet: "avr",
			family:  domain.FamilyGNU,
			want: []domain.Component{
				domain.ComponentBinutils,
				domain.ComponentGCCStage1,
				domain.ComponentAVRLibC,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := resolve(t, tt.triplet, tt.family, tt.overrides)
			got := specs(p)

			comps := make([]domain.Component, 0, len(got))
			for _, s := range got {
				comps = append(comps, s.Component)
			}
			require.Equal(t, tt.want, comps)

			g := goldie.New(t)
			for _, s := range got {
				assert.Equal(t, 4, s.Jobs)
				assert.Equal(t, "/opt/xtc", s.InstallDir)
				assert.Equal(t, tt.triplet, s.Triplet)
				g.Assert(t, tt.name+"_"+string(s.Component), describe(s))
			}
		})
	}
}

func TestBinutils_SubtargetsAreOwned(t *testing.T) {
	p := resolve(t, "riscv32-unknown-elf", domain.FamilyGNU, domain.Overrides{})

	spec := recipe.Binutils(p)
	spec.Subtargets[0] = "gprofng"
	spec.Subtargets = append(spec.Subtargets[:1], "sim")

	assert.Equal(t, []string{"binutils", "ld", "gas", "gdb"}, recipe.BinutilsSubtargets)
	assert.Equal(t, recipe.BinutilsSubtargets, recipe.Binutils(p).Subtargets)
}

func TestGCCStage1_ConfigureIsFamilyIndependent(t *testing.T) {
	t.Parallel()

	gnu := recipe.GCCStage1(resolve(t, "riscv64-unknown-elf", domain.FamilyGNU, domain.Overrides{}))
	llvm := recipe.GCCStage1(resolve(t, "riscv64-unknown-elf", domain.FamilyLLVM, domain.Overrides{}))

	assert.Equal(t, gnu.Configure, llvm.Configure)
	assert.Empty(t, gnu.Subtargets)
	assert.Equal(t, []string{"target-libgcc"}, llvm.Subtargets)
}

func TestProfileFlags_EmptyFieldsAreOmitted(t *testing.T) {
	t.Parallel()

	empty := ""
	p := resolve(t, "riscv32-unknown-elf", domain.FamilyGNU, domain.Overrides{ABI: &empty, ISASpec: &empty})

	args := recipe.Binutils(p).Configure
	assert.Contains(t, args, "--with-arch=rv32imc")
	for _, arg := range args {
		assert.NotContains(t, arg, "--with-abi")
		assert.NotContains(t, arg, "--with-isa-spec")
	}
}

func TestLLVM_TargetsToBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		triplet string
		want    string
	}{
		{"arm-none-eabi", "-DLLVM_TARGETS_TO_BUILD=ARM"},
		{"avr", "-DLLVM_EXPERIMENTAL_TARGETS_TO_BUILD=AVR"},
		{"mips-elf", "-DLLVM_TARGETS_TO_BUILD=Mips"},
	}

	for _, tt := range tests {
		t.Run(tt.triplet, func(t *testing.T) {
			t.Parallel()

			spec := recipe.LLVM(resolve(t, tt.triplet, domain.FamilyLLVM, domain.Overrides{}))
			assert.Contains(t, spec.Configure, tt.want)
			assert.Equal(t, domain.ToolNinja, spec.Tool)
		})
	}
}

func TestQueries(t *testing.T) {
	t.Parallel()

	p := resolve(t, "avr", domain.FamilyLLVM, domain.Overrides{})

	guess := recipe.ConfigGuess(p)
	assert.Equal(t, []string{"/src/libs/avr-libc/config.guess"}, guess.Argv)
	assert.Equal(t, "/src/build-avr/avr-libc", guess.Dir)
	assert.Equal(t, p.Timeouts.Config, guess.Timeout)

	res := recipe.ResourceDir(p)
	assert.Equal(t, []string{"/opt/xtc/bin/clang", "-print-resource-dir"}, res.Argv)
	assert.Equal(t, "/src/build-avr/compiler-rt", res.Dir)
}
