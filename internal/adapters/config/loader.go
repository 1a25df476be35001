// Package config provides settings and batch catalog loading for xtc.
package config

import (
	"os"

	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.CatalogLoader = (*FileCatalogLoader)(nil)

// FileCatalogLoader implements ports.CatalogLoader using YAML files.
type FileCatalogLoader struct{}

// NewCatalogLoader creates a new FileCatalogLoader.
func NewCatalogLoader() *FileCatalogLoader {
	return &FileCatalogLoader{}
}

// Load reads the catalog at path, or returns the built-in catalog when path is empty.
func (l *FileCatalogLoader) Load(path string) ([]domain.CatalogEntry, error) {
	if path == "" {
		return domain.DefaultBatchCatalog(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read catalog file"), "path", path)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) ([]domain.CatalogEntry, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse catalog file")
	}
	if len(file.Entries) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	labels := make(map[string]bool, len(file.Entries))
	entries := make([]domain.CatalogEntry, 0, len(file.Entries))

	for i, dto := range file.Entries {
		if dto.Label == "" {
			return nil, zerr.With(zerr.New("catalog entry has no label"), "index", i)
		}
		if labels[dto.Label] {
			return nil, zerr.With(zerr.New("duplicate catalog label"), "label", dto.Label)
		}
		labels[dto.Label] = true

		entry, err := toEntry(dto)
		if err != nil {
			return nil, zerr.With(err, "label", dto.Label)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func toEntry(dto EntryDTO) (domain.CatalogEntry, error) {
	family, err := domain.ParseCompilerFamily(dto.Family)
	if err != nil {
		return domain.CatalogEntry{}, zerr.With(zerr.Wrap(err, "invalid catalog entry"), "family", dto.Family)
	}
	if len(dto.Triplets) == 0 {
		return domain.CatalogEntry{}, zerr.New("catalog entry lists no triplets")
	}
	for _, triplet := range dto.Triplets {
		if _, ok := domain.LookupTarget(triplet); !ok {
			return domain.CatalogEntry{}, zerr.With(zerr.Wrap(domain.ErrUnknownTarget, "invalid catalog entry"), "triplet", triplet)
		}
	}
	if len(dto.Revisions) == 0 {
		return domain.CatalogEntry{}, zerr.New("catalog entry pins no revisions")
	}

	return domain.CatalogEntry{
		Label:     dto.Label,
		Revisions: dto.Revisions,
		Triplets:  dto.Triplets,
		Family:    family,
	}, nil
}
