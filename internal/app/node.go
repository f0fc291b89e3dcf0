package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pathwatch/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/pathwatch/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/pathwatch/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/pathwatch/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/pathwatch/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/pathwatch/internal/core/ports"
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
			logger.NodeID,
			watcher.WatcherNodeID,
			fs.ProberNodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
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

	prober, err := graft.Dep[ports.FileProber](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, w, prober, tracer), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:          a,
		Logger:       log,
		ConfigLoader: loader,
	}, nil
}
