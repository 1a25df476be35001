package resolver_test

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/engine/resolver"
)

func ptr[T any](v T) *T { return &v }

func TestResolve_RISCV32Defaults(t *testing.T) {
	params, err := resolver.Resolve("riscv32-unknown-elf", domain.Overrides{}, resolver.Options{Root: "/src"})
	require.NoError(t, err)

	assert.Equal(t, "riscv32-unknown-elf", params.Triplet)
	assert.Equal(t, "rv32imc", params.Profile.Arch)
	assert.Equal(t, "ilp32", params.Profile.ABI)
	assert.Equal(t, "2.2", params.Profile.ISASpec)
	assert.Empty(t, params.Profile.CPU)
	assert.Equal(t, domain.LibCNewlib, params.LibC())
	assert.Equal(t, domain.FamilyGNU, params.Family)
	assert.Equal(t, runtime.NumCPU(), params.Jobs)
	assert.Equal(t, domain.DefaultTimeouts(), params.Timeouts)
	assert.Equal(t, domain.Layout{
		Root:       "/src",
		BuildDir:   "/src/build-riscv32",
		InstallDir: "/src/install-riscv32",
		LogDir:     "/src/logs",
	}, params.Layout)
}

func TestResolve_AVR(t *testing.T) {
	params, err := resolver.Resolve("avr", domain.Overrides{}, resolver.Options{Root: "/src"})
	require.NoError(t, err)
	assert.Equal(t, domain.LibCAVR, params.LibC())
	assert.True(t, params.Profile.Experimental)
	assert.Equal(t, "AVR", params.Profile.LLVMArch)
	assert.False(t, params.NeedsGCCStage2())
}

func TestResolve_UnknownTarget(t *testing.T) {
	_, err := resolver.Resolve("m68k-elf", domain.Overrides{}, resolver.Options{})
	require.ErrorIs(t, err, domain.ErrUnknownTarget)
}

func TestResolve_Deterministic(t *testing.T) {
	overrides := domain.Overrides{CPU: ptr("sifive-e31"), LibC: ptr(domain.LibCNewlibNano)}
	opts := resolver.Options{Root: "/src", Jobs: 8, Family: domain.FamilyLLVM}

	for _, p := range domain.Targets() {
		a, err := resolver.Resolve(p.Triplet, overrides, opts)
		require.NoError(t, err)
		b, err := resolver.Resolve(p.Triplet, overrides, opts)
		require.NoError(t, err)
		assert.Equal(t, a, b, p.Triplet)
	}
}

func TestResolve_OverridesWin(t *testing.T) {
	for _, p := range domain.Targets() {
		t.Run(p.Triplet, func(t *testing.T) {
			overrides := domain.Overrides{
				Arch:         ptr("a"),
				ABI:          ptr("b"),
				CPU:          ptr("c"),
				ISASpec:      ptr("d"),
				Mode:         ptr("e"),
				Float:        ptr("f"),
				Endian:       ptr("g"),
				LLVMArch:     ptr("h"),
				TargetCFlags: ptr("-O1"),
				Experimental: ptr(false),
				LibC:         ptr(domain.LibCNewlibNano),
			}
			params, err := resolver.Resolve(p.Triplet, overrides, resolver.Options{})
			require.NoError(t, err)

			got := params.Profile
			assert.Equal(t, domain.TargetProfile{
				Triplet:      p.Triplet,
				Arch:         "a",
				ABI:          "b",
				CPU:          "c",
				ISASpec:      "d",
				Mode:         "e",
				Float:        "f",
				Endian:       "g",
				LibC:         domain.LibCNewlibNano,
				LLVMArch:     "h",
				TargetCFlags: "-O1",
			}, got)
		})
	}
}

func TestResolve_EmptyOverrideClearsDefault(t *testing.T) {
	params, err := resolver.Resolve("riscv32-unknown-elf", domain.Overrides{ISASpec: ptr("")}, resolver.Options{})
	require.NoError(t, err)
	assert.Empty(t, params.Profile.ISASpec)
}

func TestResolve_InvalidLibC(t *testing.T) {
	_, err := resolver.Resolve("avr", domain.Overrides{LibC: ptr(domain.LibC("glibc"))}, resolver.Options{})
	require.ErrorIs(t, err, domain.ErrUnsupportedLibC)
}

func TestResolve_Options(t *testing.T) {
	root := t.TempDir()
	params, err := resolver.Resolve("arm-none-eabi", domain.Overrides{}, resolver.Options{
		Family:     domain.FamilyLLVM,
		Root:       root,
		BuildDir:   "/abs/build",
		InstallDir: "inst",
		LogDir:     "l",
		Timeouts:   domain.Timeouts{Config: time.Second},
		Jobs:       3,
		Clean:      true,
	})
	require.NoError(t, err)

	assert.True(t, params.UsesLLVM())
	assert.True(t, params.Clean)
	assert.Equal(t, 3, params.Jobs)
	assert.Equal(t, "/abs/build", params.Layout.BuildDir)
	assert.Equal(t, filepath.Join(root, "inst"), params.Layout.InstallDir)
	assert.Equal(t, filepath.Join(root, "l"), params.Layout.LogDir)
	assert.Equal(t, time.Second, params.Timeouts.Config)
	assert.Equal(t, domain.DefaultTimeouts().Build, params.Timeouts.Build)
}

func TestTargetCFlags(t *testing.T) {
	tests := []struct {
		triplet string
		want    string
	}{
		{
			triplet: "riscv32-unknown-elf",
			want:    "-DPREFER_SIZE_OVER_SPEED=1 -Os -march=rv32imc -mabi=ilp32 -Wno-int-conversion -Wno-implicit-function-declaration",
		},
		{
			triplet: "arm-none-eabi",
			want:    "-DHAVE_GNU_LD -DPREFER_SIZE_OVER_SPEED=1 -Os -mcpu=cortex-m4 -mthumb -mfloat-abi=soft -Wno-int-conversion -Wno-implicit-function-declaration",
		},
		{
			triplet: "arc-elf32",
			want:    "-DPREFER_SIZE_OVER_SPEED=1 -Os -mcpu=em -mendian=little -Wno-int-conversion -Wno-implicit-function-declaration",
		},
		{
			triplet: "avr",
			want:    "-DPREFER_SIZE_OVER_SPEED=1 -Os -Wno-int-conversion -Wno-implicit-function-declaration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.triplet, func(t *testing.T) {
			p, ok := domain.LookupTarget(tt.triplet)
			require.True(t, ok)
			assert.Equal(t, tt.want, resolver.TargetCFlags(p))
		})
	}
}

func TestTargetCFlags_Empty(t *testing.T) {
	assert.Equal(t, "-Wno-int-conversion -Wno-implicit-function-declaration", resolver.TargetCFlags(domain.TargetProfile{}))
}
