package ports

import "go.trai.ch/xtc/internal/core/domain"

// CatalogLoader loads batch build catalogs.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type CatalogLoader interface {
	// Load reads the catalog at path. An empty path yields the built-in catalog.
	Load(path string) ([]domain.CatalogEntry, error)
}
