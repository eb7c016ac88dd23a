// Package sweep probes a dependency's declared range exhaustively at chosen versions.
package sweep

import (
	"context"

	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/bounds/internal/core/ports"
)

// Options selects which versions of each epoch bucket are probed.
type Options struct {
	// Minor also probes the first release of every minor series.
	Minor bool
	// Patch probes every version. It implies Minor.
	Patch bool
	// Command is the oracle command; empty selects the type-check command.
	Command string
}

// Sweeper runs the exhaustive tester and the sanity sweep.
type Sweeper struct {
	oracle ports.Oracle
	tracer ports.Tracer
}

// New creates a Sweeper.
func New(oracle ports.Oracle, tracer ports.Tracer) *Sweeper {
	return &Sweeper{oracle: oracle, tracer: tracer}
}

// Plan splits the universe into versions to probe and versions to skip, both ascending.
// Without Minor or Patch only the lowest and highest version of each bucket are probed.
func Plan(buckets []domain.EpochBucket, opts Options) (probe, skip []domain.Version) {
	for _, b := range buckets {
		var lastSeries [2]uint64
		for i, v := range b.Versions {
			edge := i == 0 || i == len(b.Versions)-1
			newSeries := i == 0 || v.Series() != lastSeries
			lastSeries = v.Series()

			if edge || opts.Patch || (opts.Minor && newSeries) {
				probe = append(probe, v)
				continue
			}
			skip = append(skip, v)
		}
	}
	return probe, skip
}

// TestAll probes the planned versions of u in ascending order.
// Only fatal oracle errors abort the sweep.
func (s *Sweeper) TestAll(ctx context.Context, u *domain.VersionUniverse, opts Options) (domain.DependencyOutcomes, error) {
	spec := u.Spec()
	probe, skip := Plan(u.Epochs(), opts)

	group := domain.DependencyOutcomes{Spec: spec, Skipped: skip}

	s.tracer.EmitPlan(ctx, spec.Name, versionStrings(probe))

	for _, v := range probe {
		outcome, err := s.oracle.Probe(ctx, spec, v, opts.Command)
		if err != nil {
			return group, err
		}
		group.Outcomes = append(group.Outcomes, outcome)
	}

	return group, nil
}

// Sanity probes the first release of every (major, minor) series inside
// [floor, ceiling] with the type-check command.
func (s *Sweeper) Sanity(
	ctx context.Context,
	spec domain.DependencySpec,
	versions []domain.Version,
	floor, ceiling domain.Version,
) ([]domain.ProbeOutcome, error) {
	targets := SeriesHeads(versions, floor, ceiling)

	s.tracer.EmitPlan(ctx, spec.Name, versionStrings(targets))

	outcomes := make([]domain.ProbeOutcome, 0, len(targets))
	for _, v := range targets {
		outcome, err := s.oracle.Probe(ctx, spec, v, "")
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// SeriesHeads returns the first version of each (major, minor) series within
// [floor, ceiling]. The series containing floor starts at floor itself.
func SeriesHeads(versions []domain.Version, floor, ceiling domain.Version) []domain.Version {
	var heads []domain.Version
	var last [2]uint64
	for _, v := range domain.SortVersions(versions) {
		if v.Compare(floor) < 0 || v.Compare(ceiling) > 0 {
			continue
		}
		if len(heads) > 0 && v.Series() == last {
			continue
		}
		heads = append(heads, v)
		last = v.Series()
	}
	return heads
}

func versionStrings(versions []domain.Version) []string {
	out := make([]string, len(versions))
	for i, v := range versions {
		out[i] = v.String()
	}
	return out
}
