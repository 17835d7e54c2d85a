package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/flock/internal/adapters/config"
	"go.trai.ch/flock/internal/core/ports"
)

// NodeID is the unique identifier for the snapshot store Graft node.
const NodeID graft.ID = "adapter.snapshot_store"

func init() {
	graft.Register(graft.Node[ports.SnapshotStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.SnapshotStore, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(settings.StoreDir), nil
		},
	})
}
