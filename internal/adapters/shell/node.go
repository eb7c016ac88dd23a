package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bounds/internal/core/ports"
)

// NodeID is the unique identifier for the process runner Graft node.
const NodeID graft.ID = "adapter.runner"

func init() {
	graft.Register(graft.Node[ports.ProcessRunner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.ProcessRunner, error) {
			return NewRunner(""), nil
		},
	})
}
