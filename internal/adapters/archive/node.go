package archive

import (
	"context"
	"io"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/xtc/internal/adapters/fs"
	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/xtc/internal/ui/output"
)

// NodeID is the unique identifier for the archiver Graft node.
const NodeID graft.ID = "adapter.archiver"

func init() {
	graft.Register(graft.Node[ports.Archiver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID},
		Run: func(ctx context.Context) (ports.Archiver, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			var progress io.Writer
			if output.IsTerminal(os.Stderr) {
				progress = os.Stderr
			}
			return NewArchiver(walker, progress), nil
		},
	})
}
