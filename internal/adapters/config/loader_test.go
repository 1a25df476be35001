package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xtc/internal/adapters/config"
	"go.trai.ch/xtc/internal/core/domain"
)

func TestCatalogLoader_DefaultCatalog(t *testing.T) {
	entries, err := config.NewCatalogLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBatchCatalog(), entries)
}

func TestCatalogLoader_LoadFile(t *testing.T) {
	content := `
version: "1"
entries:
  - label: gcc-13
    triplets: [riscv32-unknown-elf]
    revisions:
      binutils-gdb: binutils-2_41
      gcc: releases/gcc-13.2.0
      newlib: newlib-4.3.0
  - label: clang-17
    family: llvm
    triplets: [riscv32-unknown-elf, avr]
    revisions:
      llvm-project: llvmorg-17.0.6
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	entries, err := config.NewCatalogLoader().Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, domain.CatalogEntry{
		Label:    "gcc-13",
		Triplets: []string{"riscv32-unknown-elf"},
		Family:   domain.FamilyGNU,
		Revisions: map[string]string{
			domain.RepoBinutils: "binutils-2_41",
			domain.RepoGCC:      "releases/gcc-13.2.0",
			domain.RepoNewlib:   "newlib-4.3.0",
		},
	}, entries[0])
	assert.Equal(t, "clang-17", entries[1].Label)
	assert.Equal(t, domain.FamilyLLVM, entries[1].Family)
	assert.Equal(t, []string{"riscv32-unknown-elf", "avr"}, entries[1].Triplets)
}

func TestCatalogLoader_MissingFile(t *testing.T) {
	_, err := config.NewCatalogLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{
			name:    "malformed yaml",
			content: "entries: [",
		},
		{
			name:    "no entries",
			content: "version: \"1\"\n",
			target:  domain.ErrEmptyCatalog,
		},
		{
			name: "missing label",
			content: `
entries:
  - triplets: [avr]
    revisions: {gcc: x}
`,
		},
		{
			name: "duplicate label",
			content: `
entries:
  - {label: a, triplets: [avr], revisions: {gcc: x}}
  - {label: a, triplets: [avr], revisions: {gcc: y}}
`,
		},
		{
			name: "unknown triplet",
			content: `
entries:
  - {label: a, triplets: [m68k-elf], revisions: {gcc: x}}
`,
			target: domain.ErrUnknownTarget,
		},
		{
			name: "unknown family",
			content: `
entries:
  - {label: a, family: msvc, triplets: [avr], revisions: {gcc: x}}
`,
			target: domain.ErrUnsupportedFamily,
		},
		{
			name: "no revisions",
			content: `
entries:
  - {label: a, triplets: [avr]}
`,
		},
		{
			name: "no triplets",
			content: `
entries:
  - {label: a, revisions: {gcc: x}}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.content))
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}
