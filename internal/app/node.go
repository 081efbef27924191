package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/folio/internal/adapters/compiler"           //nolint:depguard // Wired in app layer
	"go.trai.ch/folio/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/folio/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/folio/internal/adapters/monitor"            //nolint:depguard // Wired in app layer
	"go.trai.ch/folio/internal/adapters/registry"           //nolint:depguard // Wired in app layer
	"go.trai.ch/folio/internal/adapters/render"             //nolint:depguard // Wired in app layer
	"go.trai.ch/folio/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/folio/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/folio/internal/core/ports"
	"go.trai.ch/folio/internal/engine/initializer"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			initializer.NodeID,
			monitor.NodeID,
			registry.NodeID,
			compiler.NodeID,
			render.NodeID,
			progrock.NodeID,
			logger.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	ini, err := graft.Dep[*initializer.Initializer](ctx)
	if err != nil {
		return nil, err
	}

	mon, err := graft.Dep[ports.Monitor](ctx)
	if err != nil {
		return nil, err
	}

	reg, err := graft.Dep[ports.Registry](ctx)
	if err != nil {
		return nil, err
	}

	comp, err := graft.Dep[ports.Compiler](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
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

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, ini, mon, reg, comp, renderer, telemetry, log, w), nil
}
