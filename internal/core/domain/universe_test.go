package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bounds/internal/core/domain"
)

func versions(raw ...string) []domain.Version {
	out := make([]domain.Version, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.MustParseVersion(r))
	}
	return out
}

func strs(vs []domain.Version) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.String())
	}
	return out
}

func spec(name, req string) domain.DependencySpec {
	return domain.DependencySpec{Name: name, Requirement: domain.MustParseRequirement(req)}
}

func TestNewVersionUniverse_Epochs(t *testing.T) {
	t.Parallel()

	published := versions("0.9.0", "1.0.0", "2.0.0", "3.0.0", "4.2.0", "4.0.0", "4.1.0", "5.0.0")
	u, err := domain.NewVersionUniverse(spec("owo-colors", ">=1.0.0, <5"), published)
	require.NoError(t, err)

	epochs := u.Epochs()
	require.Len(t, epochs, 4)
	assert.Equal(t, "1", epochs[0].Epoch.String())
	assert.Equal(t, []string{"1.0.0"}, strs(epochs[0].Versions))
	assert.Equal(t, "4", epochs[3].Epoch.String())
	assert.Equal(t, []string{"4.0.0", "4.1.0", "4.2.0"}, strs(epochs[3].Versions))
	assert.Equal(t, "4.0.0", epochs[3].Lowest().String())
	assert.Equal(t, "4.2.0", epochs[3].Highest().String())

	assert.Equal(t, []string{"1.0.0", "2.0.0", "3.0.0", "4.0.0", "4.1.0", "4.2.0"}, strs(u.Versions()))
	assert.Len(t, u.Published(), 8)
}

func TestNewVersionUniverse_ZeroMajorEpochs(t *testing.T) {
	t.Parallel()

	published := versions("0.21.0", "0.22.0", "0.22.10", "0.22.24", "0.23.0")
	u, err := domain.NewVersionUniverse(spec("toml_edit", "^0.22.10"), published)
	require.NoError(t, err)

	epochs := u.Epochs()
	require.Len(t, epochs, 1)
	assert.Equal(t, "0.22", epochs[0].Epoch.String())
	assert.Equal(t, []string{"0.22.10", "0.22.24"}, strs(epochs[0].Versions))
}

func TestNewVersionUniverse_Deterministic(t *testing.T) {
	t.Parallel()

	published := versions("0.19.4", "0.9.0", "0.15.0", "0.10.2", "0.9.3", "0.19.0")
	s := spec("rand", ">=0.9, <=0.19")

	a, err := domain.NewVersionUniverse(s, published)
	require.NoError(t, err)
	b, err := domain.NewVersionUniverse(s, published)
	require.NoError(t, err)

	assert.Equal(t, a.Epochs(), b.Epochs())
	assert.Equal(t, a.Epochs(), a.Epochs())
}

func TestNewVersionUniverse_Empty(t *testing.T) {
	t.Parallel()

	_, err := domain.NewVersionUniverse(spec("serde", "^2"), versions("1.0.0", "1.0.200"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyUniverse)
	assert.Equal(t, domain.ErrEmptyUniverse.Error(), err.Error())
}

func TestVersionUniverse_EpochsAreCopies(t *testing.T) {
	t.Parallel()

	u, err := domain.NewVersionUniverse(spec("x", "^1"), versions("1.0.0", "1.1.0"))
	require.NoError(t, err)

	e := u.Epochs()
	e[0].Versions[0] = domain.MustParseVersion("9.9.9")

	assert.Equal(t, "1.0.0", u.Epochs()[0].Lowest().String())
}

func TestVersionUniverse_FloorCandidates(t *testing.T) {
	t.Parallel()

	published := versions("0.22.0", "0.22.5", "0.22.10", "0.22.24", "0.23.0", "1.0.0", "1.4.0", "1.5.0", "2.0.0")
	u, err := domain.NewVersionUniverse(spec("x", ">=0.22.10, <1.5"), published)
	require.NoError(t, err)

	got := u.FloorCandidates()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"0.22.0", "0.22.5", "0.22.10", "0.22.24"}, strs(got[0].Versions))
	assert.Equal(t, []string{"0.23.0"}, strs(got[1].Versions))
	assert.Equal(t, []string{"1.0.0", "1.4.0"}, strs(got[2].Versions))
}

func TestDependencySpec(t *testing.T) {
	t.Parallel()

	s := domain.DependencySpec{Name: "toml", Package: "toml_edit", Requirement: domain.MustParseRequirement("0.22")}
	assert.Equal(t, "toml_edit", s.CrateName())
	assert.Equal(t, "serde", spec("serde", "1").CrateName())

	same := domain.DependencySpec{Name: "toml", Package: "toml_edit", Requirement: domain.MustParseRequirement("0.22")}
	assert.True(t, s.Equal(same))
	assert.False(t, s.Equal(spec("toml", "0.22")))
}
