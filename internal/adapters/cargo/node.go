package cargo

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bounds/internal/adapters/logger"
	"go.trai.ch/bounds/internal/core/ports"
)

const (
	// ManifestNodeID is the unique identifier for the manifest Graft node.
	ManifestNodeID graft.ID = "adapter.manifest"
	// GuardNodeID is the unique identifier for the manifest guard Graft node.
	GuardNodeID graft.ID = "adapter.manifest_guard"
)

// projectDir is the directory bounds operates on; the CLI runs inside the crate.
const projectDir = "."

func init() {
	graft.Register(graft.Node[ports.Manifest]{
		ID:        ManifestNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Manifest, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewManifest(projectDir, log), nil
		},
	})

	graft.Register(graft.Node[ports.ManifestGuard]{
		ID:        GuardNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestGuard, error) {
			return NewGuard(projectDir), nil
		},
	})
}
