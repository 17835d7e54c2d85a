package table

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/flock/internal/adapters/config"
	"go.trai.ch/flock/internal/core/ports"
)

// NodeID is the unique identifier for the attribute table Graft node.
const NodeID graft.ID = "adapter.table"

func init() {
	graft.Register(graft.Node[ports.TableSource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.TableSource, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewSource(settings.TablePath), nil
		},
	})
}
