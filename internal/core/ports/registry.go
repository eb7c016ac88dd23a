package ports

import (
	"context"

	"go.trai.ch/bounds/internal/core/domain"
)

// Registry lists published versions of a crate.
//
//go:generate mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type Registry interface {
	// ListVersions returns the published, non-prerelease versions of the crate, ascending.
	// Yanked versions are excluded unless the registry was configured to include them.
	ListVersions(ctx context.Context, name string) ([]domain.Version, error)
}
