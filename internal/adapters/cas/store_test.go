package cas_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bounds/internal/adapters/cas"
)

type document struct {
	Crate    string   `json:"crate"`
	Versions []string `json:"versions"`
}

func TestStore_PutAndGet(t *testing.T) {
	store := cas.NewStore(filepath.Join(t.TempDir(), "registry"))
	key := cas.Key("https://index.crates.io", "rand")

	want := document{Crate: "rand", Versions: []string{"0.8.0", "0.8.5"}}
	require.NoError(t, store.Put(key, want))

	var got document
	ok, err := store.Get(key, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	key := cas.Key("rand")

	require.NoError(t, cas.NewStore(dir).Put(key, document{Crate: "rand"}))

	var got document
	ok, err := cas.NewStore(dir).Get(key, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "rand", got.Crate)
}

func TestStore_Overwrite(t *testing.T) {
	store := cas.NewStore(t.TempDir())
	key := cas.Key("rand")

	require.NoError(t, store.Put(key, document{Versions: []string{"0.8.0"}}))
	require.NoError(t, store.Put(key, document{Versions: []string{"0.8.0", "0.8.5"}}))

	var got document
	_, err := store.Get(key, &got)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.8.0", "0.8.5"}, got.Versions)
}

func TestStore_Missing(t *testing.T) {
	store := cas.NewStore(t.TempDir())

	var got document
	ok, err := store.Get(cas.Key("missing"), &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Corrupted(t *testing.T) {
	store := cas.NewStore(t.TempDir())
	key := cas.Key("rand")

	require.NoError(t, os.WriteFile(store.Path(key), []byte("{not json"), 0o600))

	var got document
	ok, err := store.Get(key, &got)
	require.ErrorContains(t, err, "failed to decode cached document")
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, cas.Key("a", "b"), cas.Key("a", "b"))
	assert.NotEqual(t, cas.Key("a", "b"), cas.Key("ab"))
	assert.NotEqual(t, cas.Key("https://index.crates.io", "rand"), cas.Key("https://mirror.example", "rand"))
	assert.Len(t, cas.Key("rand"), 16)
}
