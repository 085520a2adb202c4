package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bonsai/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bonsai/internal/adapters/loader"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bonsai/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bonsai/internal/adapters/nuget"              //nolint:depguard // Wired in app layer
	"go.trai.ch/bonsai/internal/adapters/settings"           //nolint:depguard // Wired in app layer
	"go.trai.ch/bonsai/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/bonsai/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/bonsai/internal/engine/environment"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			settings.NodeID,
			config.NodeID,
			nuget.NodeID,
			environment.NodeID,
			loader.NodeID,
			loader.SearchPathNodeID,
			shell.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	s, err := graft.Dep[*settings.Settings](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.ConfigStore](ctx)
	if err != nil {
		return nil, err
	}

	manager, err := graft.Dep[*nuget.Manager](ctx)
	if err != nil {
		return nil, err
	}

	selector, err := graft.Dep[*environment.Selector](ctx)
	if err != nil {
		return nil, err
	}

	moduleLoader, err := graft.Dep[*loader.Loader](ctx)
	if err != nil {
		return nil, err
	}

	searchPath, err := graft.Dep[*loader.SearchPath](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[*logger.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(s, store, manager, selector, moduleLoader, searchPath, executor, telemetry, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[*logger.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Telemetry: telemetry,
	}, nil
}
