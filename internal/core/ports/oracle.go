package ports

import (
	"context"

	"go.trai.ch/bounds/internal/core/domain"
)

// Oracle decides whether the consuming project works with a dependency pinned to a version.
//
//go:generate mockgen -source=oracle.go -destination=mocks/mock_oracle.go -package=mocks
type Oracle interface {
	// Probe pins spec to version, runs command and classifies the result.
	// An empty command selects the default type-check command.
	//
	// The error is non-nil only for failures that must abort the run,
	// such as the command not being launchable.
	Probe(ctx context.Context, spec domain.DependencySpec, version domain.Version, command string) (domain.ProbeOutcome, error)
}
