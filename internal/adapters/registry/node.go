package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/folio/internal/core/ports"
)

// NodeID is the unique identifier for the registry Graft node.
const NodeID graft.ID = "adapter.registry"

func init() {
	graft.Register(graft.Node[ports.Registry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Registry, error) {
			return New(), nil
		},
	})
}
