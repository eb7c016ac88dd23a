package ports

import (
	"context"
	"time"
)

// Renderer presents probe progress while a run is in flight.
// The final compatibility report is printed separately.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes any buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called before a dependency's versions are probed.
	OnPlanEmit(dependency string, versions []string)

	// OnProbeStart is called when a probe begins.
	OnProbeStart(spanID, parentID, name string, startTime time.Time)

	// OnProbeLog is called with raw oracle output (may contain partial lines).
	OnProbeLog(spanID string, data []byte)

	// OnProbeComplete is called when a probe finishes; err is nil for OK.
	OnProbeComplete(spanID string, endTime time.Time, err error)
}
