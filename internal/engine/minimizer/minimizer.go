// Package minimizer searches each epoch bucket for the lowest version the
// consuming project still compiles against.
package minimizer

import (
	"context"

	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/bounds/internal/core/ports"
)

// Minimizer binary-searches epoch buckets for their lowest verified-OK version.
//
// The search assumes that within a bucket, once a version works every later
// version works too. The sanity sweep exists to catch violations.
type Minimizer struct {
	oracle ports.Oracle
	tracer ports.Tracer
}

// New creates a Minimizer.
func New(oracle ports.Oracle, tracer ports.Tracer) *Minimizer {
	return &Minimizer{oracle: oracle, tracer: tracer}
}

// Minimize searches every bucket independently with the type-check command.
// An unresolvable bucket does not stop the others; only fatal oracle errors do.
func (m *Minimizer) Minimize(
	ctx context.Context,
	spec domain.DependencySpec,
	buckets []domain.EpochBucket,
) (domain.BoundResult, error) {
	result := domain.BoundResult{Spec: spec}

	for _, b := range buckets {
		if len(b.Versions) == 0 {
			continue
		}

		names := make([]string, len(b.Versions))
		for i, v := range b.Versions {
			names[i] = v.String()
		}
		m.tracer.EmitPlan(ctx, spec.Name, names)

		br, err := m.minimizeBucket(ctx, spec, b)
		result.Buckets = append(result.Buckets, br)
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

func (m *Minimizer) minimizeBucket(
	ctx context.Context,
	spec domain.DependencySpec,
	b domain.EpochBucket,
) (domain.BucketResult, error) {
	versions := b.Versions
	br := domain.BucketResult{Epoch: b.Epoch, Ceiling: b.Highest()}

	probe := func(v domain.Version) (bool, error) {
		outcome, err := m.oracle.Probe(ctx, spec, v, "")
		if err != nil {
			return false, err
		}
		br.Probes = append(br.Probes, outcome)
		return outcome.Status == domain.StatusOK, nil
	}

	// The lowest candidate working ends the search at once.
	ok, err := probe(b.Lowest())
	if err != nil || ok {
		if ok {
			br.Floor = b.Lowest()
		}
		return br, err
	}

	if len(versions) == 1 {
		return domain.NewUnresolvableBucket(b.Epoch, b.Highest(), br.Probes), nil
	}

	// Anchor: the top of the bucket must work for the search invariant to hold.
	ok, err = probe(b.Highest())
	if err != nil {
		return br, err
	}
	if !ok {
		return domain.NewUnresolvableBucket(b.Epoch, b.Highest(), br.Probes), nil
	}

	// versions[lo] is known not OK, versions[hi] is known OK.
	lo, hi := 0, len(versions)-1
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		ok, err := probe(versions[mid])
		if err != nil {
			return br, err
		}
		br.SearchProbes++
		if ok {
			hi = mid
		} else {
			lo = mid
		}
	}

	br.Floor = versions[hi]
	return br, nil
}
