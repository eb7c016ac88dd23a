package domain

import (
	"slices"
	"time"

	"go.trai.ch/zerr"
)

// Status classifies a single probe.
type Status int

const (
	// StatusOK means the oracle command succeeded.
	StatusOK Status = iota
	// StatusFailed means the oracle command ran and reported an incompatibility.
	StatusFailed
	// StatusError means the version could not be exercised at all, e.g. the
	// consuming graph refused the pin.
	StatusError
)

// String returns the report tag for s.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusFailed:
		return "FAILED"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Failing reports whether s counts against the run.
func (s Status) Failing() bool {
	return s != StatusOK
}

// ProbeOutcome is the result of checking one dependency at one pinned version.
type ProbeOutcome struct {
	Dependency string
	Version    Version
	Status     Status

	// Reason is the diagnostic line that explains an ERROR, if any.
	Reason string

	Duration time.Duration
}

// Err returns the error a failing outcome stands for: ErrProbeFailed for
// FAILED and ErrGraphConflict for ERROR. It is nil for OK.
func (o ProbeOutcome) Err() error {
	var err error
	switch o.Status {
	case StatusOK:
		return nil
	case StatusFailed:
		err = Tag(ErrProbeFailed, "dependency", o.Dependency)
	default:
		err = Tag(ErrGraphConflict, "dependency", o.Dependency)
		if o.Reason != "" {
			err = zerr.With(err, "reason", o.Reason)
		}
	}
	return zerr.With(err, "version", o.Version.String())
}

// SortOutcomes orders outcomes by version ascending. The input is left untouched.
func SortOutcomes(outcomes []ProbeOutcome) []ProbeOutcome {
	out := slices.Clone(outcomes)
	slices.SortStableFunc(out, func(a, b ProbeOutcome) int {
		return a.Version.Compare(b.Version)
	})
	return out
}
