package sequencer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xtc/internal/adapters/env"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xtc/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xtc/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/xtc/internal/engine/driver"
)

// NodeID is the unique identifier for the sequencer Graft node.
const NodeID graft.ID = "engine.sequencer"

func init() {
	graft.Register(graft.Node[*Sequencer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			driver.NodeID,
			fs.FileSystemNodeID,
			env.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Sequencer, error) {
			builder, err := graft.Dep[*driver.Driver](ctx)
			if err != nil {
				return nil, err
			}

			fileSystem, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			environment, err := graft.Dep[ports.Environment](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(builder, fileSystem, environment, log), nil
		},
	})
}
