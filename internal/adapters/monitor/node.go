package monitor

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/folio/internal/adapters/fs"
	"go.trai.ch/folio/internal/core/ports"
)

// NodeID is the unique identifier for the monitor Graft node.
const NodeID graft.ID = "adapter.monitor"

func init() {
	graft.Register(graft.Node[ports.Monitor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID, fs.HasherNodeID},
		Run: func(ctx context.Context) (ports.Monitor, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[*fs.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return New(walker, hasher), nil
		},
	})
}
