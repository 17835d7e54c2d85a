package sheet

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/flock/internal/core/ports"
)

// NodeID is the unique identifier for the sheet store Graft node.
const NodeID graft.ID = "adapter.sheet"

func init() {
	graft.Register(graft.Node[ports.SheetStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SheetStore, error) {
			return NewStore(), nil
		},
	})
}
