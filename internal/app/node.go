package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xtc/internal/adapters/archive"            //nolint:depguard // Wired in app layer
	"go.trai.ch/xtc/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/xtc/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/xtc/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/xtc/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/xtc/internal/adapters/publish"            //nolint:depguard // Wired in app layer
	"go.trai.ch/xtc/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/xtc/internal/engine/batch"
	"go.trai.ch/xtc/internal/engine/sequencer"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			sequencer.NodeID,
			batch.NodeID,
			config.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			fs.FileSystemNodeID,
			archive.NodeID,
			publish.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.SettingsNodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:       app,
				Logger:    log,
				Settings:  settings,
				Telemetry: telemetry,
			}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	seq, err := graft.Dep[*sequencer.Sequencer](ctx)
	if err != nil {
		return nil, err
	}

	batchDriver, err := graft.Dep[*batch.Driver](ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := graft.Dep[ports.CatalogLoader](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.HistoryStore](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	archiver, err := graft.Dep[ports.Archiver](ctx)
	if err != nil {
		return nil, err
	}

	publisher, err := graft.Dep[ports.Publisher](ctx)
	if err != nil {
		return nil, err
	}

	fileSystem, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(seq, batchDriver, catalog, store, hasher, archiver, publisher, fileSystem, log), nil
}
