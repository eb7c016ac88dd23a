package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bounds/internal/core/domain"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	v, err := domain.ParseVersion("0.22.10")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v.Major())
	assert.Equal(t, uint64(22), v.Minor())
	assert.Equal(t, uint64(10), v.Patch())
	assert.False(t, v.IsPrerelease())

	pre := domain.MustParseVersion("1.0.0-beta.1")
	assert.True(t, pre.IsPrerelease())

	_, err = domain.ParseVersion("1.2")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidVersion)
}

func TestVersion_Epoch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		epoch   string
	}{
		{"4.2.0", "4"},
		{"1.0.0", "1"},
		{"0.22.10", "0.22"},
		{"0.1.0", "0.1"},
		{"0.0.7", "0.0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.epoch, domain.MustParseVersion(tt.version).Epoch().String(), tt.version)
	}

	assert.Equal(t, domain.MustParseVersion("0.22.1").Epoch(), domain.MustParseVersion("0.22.24").Epoch())
	assert.NotEqual(t, domain.MustParseVersion("0.22.1").Epoch(), domain.MustParseVersion("0.23.0").Epoch())
	assert.Equal(t, -1, domain.MustParseVersion("0.22.1").Epoch().Compare(domain.MustParseVersion("1.0.0").Epoch()))
}

func TestSortVersions(t *testing.T) {
	t.Parallel()

	in := []domain.Version{
		domain.MustParseVersion("1.10.0"),
		domain.MustParseVersion("1.2.0"),
		domain.MustParseVersion("0.9.1"),
		domain.MustParseVersion("1.2.0"),
	}

	got := domain.SortVersions(in)

	require.Len(t, got, 3)
	assert.Equal(t, "0.9.1", got[0].String())
	assert.Equal(t, "1.2.0", got[1].String())
	assert.Equal(t, "1.10.0", got[2].String())
	assert.Equal(t, "1.10.0", in[0].String(), "input must not be reordered")
}

func TestVersion_TextRoundTrip(t *testing.T) {
	t.Parallel()

	var v domain.Version
	require.NoError(t, v.UnmarshalText([]byte("3.1.4")))

	text, err := v.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "3.1.4", string(text))

	require.Error(t, v.UnmarshalText([]byte("not-a-version")))
}
