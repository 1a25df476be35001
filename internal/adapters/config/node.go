package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xtc/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the catalog loader Graft node.
	NodeID graft.ID = "adapter.catalog_loader"
	// SettingsNodeID is the unique identifier for the settings Graft node.
	SettingsNodeID graft.ID = "adapter.settings"
)

func init() {
	graft.Register(graft.Node[ports.CatalogLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CatalogLoader, error) {
			return NewCatalogLoader(), nil
		},
	})

	graft.Register(graft.Node[*Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Settings, error) {
			return NewSettings(), nil
		},
	})
}
