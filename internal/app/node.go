package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bounds/internal/adapters/cargo"    //nolint:depguard // Wired in app layer
	"go.trai.ch/bounds/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/bounds/internal/adapters/cratesio" //nolint:depguard // Wired in app layer
	"go.trai.ch/bounds/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/bounds/internal/adapters/shell"    //nolint:depguard // Wired in app layer
	"go.trai.ch/bounds/internal/core/ports"
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
			cargo.ManifestNodeID,
			cargo.GuardNodeID,
			shell.NodeID,
			logger.NodeID,
			cratesio.NodeID,
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
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	manifest, err := graft.Dep[ports.Manifest](ctx)
	if err != nil {
		return nil, err
	}

	guard, err := graft.Dep[ports.ManifestGuard](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.ProcessRunner](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	registries, err := graft.Dep[*cratesio.Factory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, manifest, guard, runner, log, registries), nil
}
