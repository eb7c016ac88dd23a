package domain

import (
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// Version is a published release of a dependency.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3.
type Version struct {
	v *semver.Version
}

// ParseVersion parses a strict semantic version such as "0.22.10".
func ParseVersion(raw string) (Version, error) {
	v, err := semver.StrictNewVersion(raw)
	if err != nil {
		return Version{}, zerr.With(Tag(ErrInvalidVersion, "version", raw), "reason", err.Error())
	}
	return Version{v: v}, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// NewVersion builds a release version from its numeric components.
func NewVersion(major, minor, patch uint64) Version {
	return Version{v: semver.New(major, minor, patch, "", "")}
}

// IsZero reports whether v is the zero Version.
func (v Version) IsZero() bool {
	return v.v == nil
}

// Major returns the major component.
func (v Version) Major() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Major()
}

// Minor returns the minor component.
func (v Version) Minor() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Minor()
}

// Patch returns the patch component.
func (v Version) Patch() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Patch()
}

// IsPrerelease reports whether v carries a pre-release tag.
func (v Version) IsPrerelease() bool {
	return v.v != nil && v.v.Prerelease() != ""
}

// Epoch returns the compatibility epoch v belongs to.
func (v Version) Epoch() Epoch {
	if v.Major() > 0 {
		return Epoch{Major: v.Major()}
	}
	return Epoch{Minor: v.Minor()}
}

// Series returns the (major, minor) pair used when sweeping minor releases.
func (v Version) Series() [2]uint64 {
	return [2]uint64{v.Major(), v.Minor()}
}

// Compare returns -1, 0 or 1 when v is lower than, equal to or greater than o.
// The zero Version sorts before everything else.
func (v Version) Compare(o Version) int {
	switch {
	case v.v == nil && o.v == nil:
		return 0
	case v.v == nil:
		return -1
	case o.v == nil:
		return 1
	}
	return v.v.Compare(o.v)
}

// Equal reports whether v and o denote the same release.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// String returns the canonical form, e.g. "1.2.3".
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// SortVersions sorts versions ascending and removes duplicates.
func SortVersions(versions []Version) []Version {
	out := slices.Clone(versions)
	slices.SortFunc(out, Version.Compare)
	return slices.CompactFunc(out, Version.Equal)
}

// Epoch is a major-version grouping within which releases are assumed compatible.
// Releases 1.x.y and above group by Major; 0.y.z releases group by Minor.
type Epoch struct {
	Major uint64
	Minor uint64
}

// Compare orders epochs ascending.
func (e Epoch) Compare(o Epoch) int {
	switch {
	case e.Major != o.Major:
		if e.Major < o.Major {
			return -1
		}
		return 1
	case e.Minor != o.Minor:
		if e.Minor < o.Minor {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// String renders the epoch the way a caret requirement would name it: "4" or "0.22".
func (e Epoch) String() string {
	if e.Major > 0 {
		return fmt.Sprintf("%d", e.Major)
	}
	return fmt.Sprintf("0.%d", e.Minor)
}
