package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// EpochBucket holds the candidate versions of one epoch, lowest first.
type EpochBucket struct {
	Epoch    Epoch
	Versions []Version
}

// Lowest returns the first version of the bucket.
func (b EpochBucket) Lowest() Version {
	if len(b.Versions) == 0 {
		return Version{}
	}
	return b.Versions[0]
}

// Highest returns the last version of the bucket.
func (b EpochBucket) Highest() Version {
	if len(b.Versions) == 0 {
		return Version{}
	}
	return b.Versions[len(b.Versions)-1]
}

// VersionUniverse is the ordered set of published versions of a dependency that
// satisfy its declared requirement, partitioned into epoch buckets.
type VersionUniverse struct {
	spec      DependencySpec
	published []Version
	buckets   []EpochBucket
}

// NewVersionUniverse builds the universe for spec from the registry's published versions.
// It fails with ErrEmptyUniverse when no published version satisfies the requirement.
func NewVersionUniverse(spec DependencySpec, published []Version) (*VersionUniverse, error) {
	sorted := SortVersions(published)

	inRange := make([]Version, 0, len(sorted))
	for _, v := range sorted {
		if spec.Requirement.Satisfies(v) {
			inRange = append(inRange, v)
		}
	}

	if len(inRange) == 0 {
		return nil, zerr.With(Tag(ErrEmptyUniverse, "dependency", spec.Name), "requirement", spec.Requirement.String())
	}

	return &VersionUniverse{
		spec:      spec,
		published: sorted,
		buckets:   partition(inRange),
	}, nil
}

// Spec returns the dependency the universe was built for.
func (u *VersionUniverse) Spec() DependencySpec {
	return u.spec
}

// Epochs returns the epoch buckets in ascending order.
func (u *VersionUniverse) Epochs() []EpochBucket {
	out := make([]EpochBucket, len(u.buckets))
	for i, b := range u.buckets {
		out[i] = EpochBucket{Epoch: b.Epoch, Versions: slices.Clone(b.Versions)}
	}
	return out
}

// Versions returns every in-range version, ascending.
func (u *VersionUniverse) Versions() []Version {
	var out []Version
	for _, b := range u.buckets {
		out = append(out, b.Versions...)
	}
	return out
}

// Published returns every known published version, including those outside the requirement.
func (u *VersionUniverse) Published() []Version {
	return slices.Clone(u.published)
}

// FloorCandidates extends each declared bucket downwards to every published
// version of the same epoch, capped at the bucket's declared maximum.
func (u *VersionUniverse) FloorCandidates() []EpochBucket {
	out := make([]EpochBucket, 0, len(u.buckets))
	for _, b := range u.buckets {
		ceiling := b.Highest()
		var versions []Version
		for _, v := range u.published {
			if v.Epoch() == b.Epoch && v.Compare(ceiling) <= 0 {
				versions = append(versions, v)
			}
		}
		out = append(out, EpochBucket{Epoch: b.Epoch, Versions: versions})
	}
	return out
}

func partition(sorted []Version) []EpochBucket {
	var buckets []EpochBucket
	for _, v := range sorted {
		e := v.Epoch()
		if n := len(buckets); n > 0 && buckets[n-1].Epoch == e {
			buckets[n-1].Versions = append(buckets[n-1].Versions, v)
			continue
		}
		buckets = append(buckets, EpochBucket{Epoch: e, Versions: []Version{v}})
	}
	return buckets
}
