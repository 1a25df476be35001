package driver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xtc/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xtc/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xtc/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xtc/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xtc/internal/core/ports"
)

// NodeID is the unique identifier for the component driver Graft node.
const NodeID graft.ID = "engine.driver"

func init() {
	graft.Register(graft.Node[*Driver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			fs.FileSystemNodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Driver, error) {
			runner, err := graft.Dep[ports.Runner](ctx)
			if err != nil {
				return nil, err
			}

			fileSystem, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(runner, fileSystem, telemetry, log), nil
		},
	})
}
