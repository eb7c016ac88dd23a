package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// loadedUniverse is one dependency's version universe, or the reason it has none.
type loadedUniverse struct {
	spec     domain.DependencySpec
	universe *domain.VersionUniverse
	err      error
}

// selectDependencies reads the manifest and keeps only dep when it is set.
func (a *App) selectDependencies(dep string) ([]domain.DependencySpec, error) {
	specs, err := a.manifest.ReadDependencies()
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, domain.ErrNoDependencies
	}
	if dep == "" {
		return specs, nil
	}

	for _, s := range specs {
		if s.Name == dep {
			return []domain.DependencySpec{s}, nil
		}
	}
	return nil, domain.Tag(domain.ErrDependencyNotFound, "dependency", dep)
}

// loadUniverses fetches the published versions of every selected dependency
// concurrently and builds their universes in manifest order.
//
// A crate the registry does not know and a requirement no version satisfies
// are recorded per dependency. Any other registry failure aborts the run.
func (a *App) loadUniverses(ctx context.Context, cfg *domain.Config, dep string) ([]loadedUniverse, error) {
	specs, err := a.selectDependencies(dep)
	if err != nil {
		return nil, err
	}

	registry := a.registry
	if registry == nil {
		registry = a.registries.New(cfg.Registry)
	}

	published := make([][]domain.Version, len(specs))
	missing := make([]error, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchLimit)
	for i, spec := range specs {
		g.Go(func() error {
			versions, err := registry.ListVersions(gctx, spec.CrateName())
			if errors.Is(err, domain.ErrCrateNotFound) {
				missing[i] = err
				return nil
			}
			if err != nil {
				return zerr.With(err, "dependency", spec.Name)
			}
			published[i] = versions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]loadedUniverse, len(specs))
	for i, spec := range specs {
		out[i].spec = spec
		if missing[i] != nil {
			a.logger.Warn(fmt.Sprintf("%s: crate %s not found in registry", spec.Name, spec.CrateName()))
			out[i].err = missing[i]
			continue
		}

		u, err := domain.NewVersionUniverse(spec, published[i])
		if err != nil {
			a.logger.Warn(fmt.Sprintf("%s: no published version matches %s", spec.Name, spec.Requirement))
			out[i].err = err
			continue
		}
		out[i].universe = u
	}
	return out, nil
}
