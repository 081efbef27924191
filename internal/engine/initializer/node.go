package initializer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/folio/internal/adapters/config"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/folio/internal/adapters/logger"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/folio/internal/adapters/monitor" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/folio/internal/core/ports"
)

// NodeID is the unique identifier for the initializer Graft node.
const NodeID graft.ID = "engine.initializer"

func init() {
	graft.Register(graft.Node[*Initializer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, monitor.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Initializer, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			mon, err := graft.Dep[ports.Monitor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(loader, mon, log), nil
		},
	})
}
