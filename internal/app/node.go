package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/flock/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/flock/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/flock/internal/adapters/sheet"     //nolint:depguard // Wired in app layer
	"go.trai.ch/flock/internal/adapters/table"     //nolint:depguard // Wired in app layer
	"go.trai.ch/flock/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/flock/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/flock/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds what the command line needs from the graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			sheet.NodeID,
			table.NodeID,
			cas.NodeID,
			watcher.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	sheets, err := graft.Dep[ports.SheetStore](ctx)
	if err != nil {
		return nil, err
	}
	tables, err := graft.Dep[ports.TableSource](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.SnapshotStore](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return New(sheets, tables, store, w, tracer, log), nil
}
