package cratesio

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bounds/internal/adapters/logger"
	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/bounds/internal/core/ports"
)

// NodeID is the unique identifier for the registry factory Graft node.
const NodeID graft.ID = "adapter.registry"

// Factory builds a registry client once the configuration is known.
type Factory struct {
	logger ports.Logger
}

// New creates a Client for cfg.
func (f *Factory) New(cfg domain.RegistryConfig) ports.Registry {
	return NewClient(cfg, f.logger)
}

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Factory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Factory{logger: log}, nil
		},
	})
}
