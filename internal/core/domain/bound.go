package domain

import "go.trai.ch/zerr"

// BucketResult is the outcome of minimizing one epoch bucket.
type BucketResult struct {
	Epoch Epoch

	// Floor is the lowest verified-OK version. Zero when unresolvable.
	Floor Version

	// Ceiling is the highest declared version of the bucket. It is never raised.
	Ceiling Version

	// Err is set to ErrBucketUnresolvable when the bucket's anchor (its top
	// version) did not probe OK.
	Err error

	// Probes lists the probes made for the bucket, in the order they ran.
	Probes []ProbeOutcome

	// SearchProbes counts the midpoint probes of the binary search,
	// excluding the lowest-version and anchor probes.
	SearchProbes int
}

// NewUnresolvableBucket returns the result of a bucket whose anchor did not pass.
func NewUnresolvableBucket(epoch Epoch, ceiling Version, probes []ProbeOutcome) BucketResult {
	err := zerr.With(Tag(ErrBucketUnresolvable, "epoch", epoch.String()), "anchor", ceiling.String())
	return BucketResult{Epoch: epoch, Ceiling: ceiling, Err: err, Probes: probes}
}

// Unresolvable reports whether no floor could be established for the bucket.
func (b BucketResult) Unresolvable() bool {
	return b.Err != nil
}

// BoundResult is the minimized range of one dependency.
type BoundResult struct {
	Spec    DependencySpec
	Buckets []BucketResult

	// Sanity holds the minor-release sweep over the minimized range, if one ran.
	Sanity        []ProbeOutcome
	SanityChecked bool
}

// Floor returns the lowest floor across resolvable buckets.
func (r BoundResult) Floor() (Version, bool) {
	for _, b := range r.Buckets {
		if !b.Unresolvable() {
			return b.Floor, true
		}
	}
	return Version{}, false
}

// Ceiling returns the highest declared version across all buckets.
func (r BoundResult) Ceiling() Version {
	var ceiling Version
	for _, b := range r.Buckets {
		if b.Ceiling.Compare(ceiling) > 0 {
			ceiling = b.Ceiling
		}
	}
	return ceiling
}

// Range returns ">=floor, <=ceiling", or the zero Requirement when every bucket is unresolvable.
func (r BoundResult) Range() Requirement {
	floor, ok := r.Floor()
	if !ok {
		return Requirement{}
	}
	return NewInclusiveRange(floor, r.Ceiling())
}

// Unresolvable returns the buckets whose anchor probe failed.
func (r BoundResult) Unresolvable() []BucketResult {
	var out []BucketResult
	for _, b := range r.Buckets {
		if b.Unresolvable() {
			out = append(out, b)
		}
	}
	return out
}

// SanityFailures counts sanity probes that did not pass.
func (r BoundResult) SanityFailures() int {
	n := 0
	for _, o := range r.Sanity {
		if o.Status.Failing() {
			n++
		}
	}
	return n
}

// Unsafe reports whether the sanity sweep contradicted the binary search.
func (r BoundResult) Unsafe() bool {
	return r.SanityFailures() > 0
}

// Probes returns every probe made for the dependency, ascending by version.
func (r BoundResult) Probes() []ProbeOutcome {
	var all []ProbeOutcome
	for _, b := range r.Buckets {
		all = append(all, b.Probes...)
	}
	all = append(all, r.Sanity...)
	return SortOutcomes(all)
}
