package config

// CatalogFile is the structure of a batch catalog YAML file.
//
//	version: "1"
//	entries:
//	  - label: gcc-13
//	    triplets: [riscv32-unknown-elf]
//	    revisions:
//	      binutils-gdb: binutils-2_41
//	      gcc: releases/gcc-13.2.0
//	      newlib: newlib-4.3.0
type CatalogFile struct {
	Version string     `yaml:"version"`
	Entries []EntryDTO `yaml:"entries"`
}

// EntryDTO is one catalog entry as written in the file.
type EntryDTO struct {
	Label     string            `yaml:"label"`
	Family    string            `yaml:"family"`
	Triplets  []string          `yaml:"triplets"`
	Revisions map[string]string `yaml:"revisions"`
}
