package publish

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xtc/internal/adapters/config"
	"go.trai.ch/xtc/internal/core/ports"
)

// NodeID is the unique identifier for the publisher Graft node.
const NodeID graft.ID = "adapter.publisher"

func init() {
	graft.Register(graft.Node[ports.Publisher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.Publisher, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewPublisher(func() Credentials {
				s3 := settings.S3()
				return Credentials{
					Endpoint:  s3.Endpoint,
					Region:    s3.Region,
					AccessKey: s3.AccessKey,
					SecretKey: s3.SecretKey,
				}
			}), nil
		},
	})
}
