package domain

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// Op is a comparison operator inside a version requirement.
type Op string

const (
	// OpCaret allows changes that do not modify the left-most non-zero component.
	OpCaret Op = "^"
	// OpTilde allows patch-level changes (or minor-level when only the major is given).
	OpTilde Op = "~"
	// OpExact pins a version, or a whole series when components are omitted.
	OpExact Op = "="
	// OpGreater is a strict lower bound.
	OpGreater Op = ">"
	// OpGreaterEq is an inclusive lower bound.
	OpGreaterEq Op = ">="
	// OpLess is a strict upper bound.
	OpLess Op = "<"
	// OpLessEq is an inclusive upper bound.
	OpLessEq Op = "<="
	// OpAny matches every version ("*").
	OpAny Op = "*"
)

var comparatorRegex = regexp.MustCompile(
	`^(\^|~|=|>=|<=|>|<)?\s*v?(\*|\d+)(?:\.(\*|\d+))?(?:\.(\*|\d+))?(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?$`,
)

type comparator struct {
	op       Op
	bare     bool
	major    uint64
	minor    uint64
	patch    uint64
	hasMinor bool
	hasPatch bool
}

// Bound is the interval a requirement admits.
// A zero Lower or Upper means the interval is open on that side.
type Bound struct {
	Lower          Version
	LowerInclusive bool
	Upper          Version
	UpperInclusive bool
}

// Requirement is a declared version range in Cargo syntax, e.g. "^0.22.10" or ">=1.0.0, <5".
type Requirement struct {
	raw         string
	comparators []comparator
	bound       Bound
	constraint  *semver.Constraints
}

// ParseRequirement parses a comma-separated list of Cargo comparators.
// Bare versions such as "1.2" are caret requirements.
func ParseRequirement(raw string) (Requirement, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Requirement{}, Tag(ErrInvalidRequirement, "requirement", raw)
	}

	parts := strings.Split(trimmed, ",")
	comparators := make([]comparator, 0, len(parts))
	for _, part := range parts {
		c, err := parseComparator(strings.TrimSpace(part))
		if err != nil {
			return Requirement{}, zerr.With(err, "requirement", raw)
		}
		comparators = append(comparators, c)
	}

	return newRequirement(trimmed, comparators)
}

// MustParseRequirement is like ParseRequirement but panics on error.
func MustParseRequirement(raw string) Requirement {
	r, err := ParseRequirement(raw)
	if err != nil {
		panic(err)
	}
	return r
}

// NewInclusiveRange builds the requirement ">=lo, <=hi".
func NewInclusiveRange(lo, hi Version) Requirement {
	return MustParseRequirement(">=" + lo.String() + ", <=" + hi.String())
}

func newRequirement(raw string, comparators []comparator) (Requirement, error) {
	b := Bound{}
	for i, c := range comparators {
		if i == 0 {
			b = c.bound()
			continue
		}
		b = b.intersect(c.bound())
	}

	constraint, err := semver.NewConstraint(b.constraintString())
	if err != nil {
		return Requirement{}, zerr.With(Tag(ErrInvalidRequirement, "requirement", raw), "reason", err.Error())
	}

	return Requirement{
		raw:         raw,
		comparators: comparators,
		bound:       b,
		constraint:  constraint,
	}, nil
}

func parseComparator(s string) (comparator, error) {
	m := comparatorRegex.FindStringSubmatch(s)
	if m == nil {
		return comparator{}, Tag(ErrInvalidRequirement, "comparator", s)
	}

	c := comparator{op: Op(m[1])}
	if c.op == "" {
		c.op = OpCaret
		c.bare = true
	}

	if m[2] == "*" {
		if !c.bare {
			return comparator{}, Tag(ErrInvalidRequirement, "comparator", s)
		}
		c.op = OpAny
		return c, nil
	}

	var err error
	if c.major, err = strconv.ParseUint(m[2], 10, 64); err != nil {
		return comparator{}, zerr.With(Tag(ErrInvalidRequirement, "comparator", s), "reason", err.Error())
	}

	wildcard := false
	if m[3] != "" {
		if m[3] == "*" {
			wildcard = true
		} else {
			c.hasMinor = true
			if c.minor, err = strconv.ParseUint(m[3], 10, 64); err != nil {
				return comparator{}, zerr.With(Tag(ErrInvalidRequirement, "comparator", s), "reason", err.Error())
			}
		}
	}
	if m[4] != "" {
		if m[4] == "*" || wildcard {
			wildcard = true
		} else {
			c.hasPatch = true
			if c.patch, err = strconv.ParseUint(m[4], 10, 64); err != nil {
				return comparator{}, zerr.With(Tag(ErrInvalidRequirement, "comparator", s), "reason", err.Error())
			}
		}
	}

	// "1.*" and "1.2.*" select a whole series, like "=1" and "=1.2".
	if wildcard && c.bare {
		c.op = OpExact
	}

	return c, nil
}

// bound desugars a single comparator into an interval using Cargo semantics.
//
//nolint:cyclop // one case per operator
func (c comparator) bound() Bound {
	full := NewVersion(c.major, c.minor, c.patch)
	nextMajor := NewVersion(c.major+1, 0, 0)
	nextMinor := NewVersion(c.major, c.minor+1, 0)

	switch c.op {
	case OpAny:
		return Bound{}
	case OpCaret:
		return Bound{Lower: full, LowerInclusive: true, Upper: c.caretUpper()}
	case OpTilde:
		if c.hasMinor {
			return Bound{Lower: full, LowerInclusive: true, Upper: nextMinor}
		}
		return Bound{Lower: full, LowerInclusive: true, Upper: nextMajor}
	case OpExact:
		switch {
		case c.hasPatch:
			return Bound{Lower: full, LowerInclusive: true, Upper: full, UpperInclusive: true}
		case c.hasMinor:
			return Bound{Lower: full, LowerInclusive: true, Upper: nextMinor}
		default:
			return Bound{Lower: full, LowerInclusive: true, Upper: nextMajor}
		}
	case OpGreater:
		switch {
		case c.hasPatch:
			return Bound{Lower: full}
		case c.hasMinor:
			return Bound{Lower: nextMinor, LowerInclusive: true}
		default:
			return Bound{Lower: nextMajor, LowerInclusive: true}
		}
	case OpGreaterEq:
		return Bound{Lower: full, LowerInclusive: true}
	case OpLess:
		return Bound{Upper: full}
	case OpLessEq:
		switch {
		case c.hasPatch:
			return Bound{Upper: full, UpperInclusive: true}
		case c.hasMinor:
			return Bound{Upper: nextMinor}
		default:
			return Bound{Upper: nextMajor}
		}
	}
	return Bound{}
}

// caretUpper is the first release that changes the left-most non-zero component.
func (c comparator) caretUpper() Version {
	switch {
	case c.major > 0 || !c.hasMinor:
		return NewVersion(c.major+1, 0, 0)
	case c.minor > 0 || !c.hasPatch:
		return NewVersion(0, c.minor+1, 0)
	default:
		return NewVersion(0, 0, c.patch+1)
	}
}

func (b Bound) intersect(o Bound) Bound {
	out := b
	if !o.Lower.IsZero() {
		switch cmp := o.Lower.Compare(b.Lower); {
		case b.Lower.IsZero() || cmp > 0:
			out.Lower, out.LowerInclusive = o.Lower, o.LowerInclusive
		case cmp == 0:
			out.LowerInclusive = b.LowerInclusive && o.LowerInclusive
		}
	}
	if !o.Upper.IsZero() {
		switch cmp := o.Upper.Compare(b.Upper); {
		case b.Upper.IsZero() || cmp < 0:
			out.Upper, out.UpperInclusive = o.Upper, o.UpperInclusive
		case cmp == 0:
			out.UpperInclusive = b.UpperInclusive && o.UpperInclusive
		}
	}
	return out
}

func (b Bound) constraintString() string {
	var parts []string
	if !b.Lower.IsZero() {
		op := ">"
		if b.LowerInclusive {
			op = ">="
		}
		parts = append(parts, op+b.Lower.String())
	}
	if !b.Upper.IsZero() {
		op := "<"
		if b.UpperInclusive {
			op = "<="
		}
		parts = append(parts, op+b.Upper.String())
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, ", ")
}

// String returns the requirement as declared.
func (r Requirement) String() string {
	return r.raw
}

// IsZero reports whether r is the zero Requirement.
func (r Requirement) IsZero() bool {
	return r.constraint == nil
}

// Bounds returns the interval r admits.
func (r Requirement) Bounds() Bound {
	return r.bound
}

// Satisfies reports whether v lies inside the requirement.
func (r Requirement) Satisfies(v Version) bool {
	if r.constraint == nil || v.v == nil {
		return false
	}
	return r.constraint.Check(v.v)
}

// WithFloor returns a requirement admitting the same upper edge with floor as the new lower bound.
// A lone caret requirement stays a caret requirement when floor shares its epoch.
func (r Requirement) WithFloor(floor Version) Requirement {
	b := r.bound
	if b.LowerInclusive && b.Lower.Equal(floor) {
		return r
	}

	if len(r.comparators) == 1 && r.comparators[0].op == OpCaret {
		c := comparator{op: OpCaret, major: floor.Major(), minor: floor.Minor(), patch: floor.Patch(), hasMinor: true, hasPatch: true}
		if c.caretUpper().Equal(b.Upper) {
			raw := floor.String()
			if !r.comparators[0].bare {
				raw = "^" + raw
			}
			return MustParseRequirement(raw)
		}
	}

	raw := ">=" + floor.String()
	if !b.Upper.IsZero() {
		if b.UpperInclusive {
			raw += ", <=" + b.Upper.String()
		} else {
			raw += ", <" + b.Upper.String()
		}
	}
	return MustParseRequirement(raw)
}
