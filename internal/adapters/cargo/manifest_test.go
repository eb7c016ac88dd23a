package cargo_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bounds/internal/adapters/cargo"
	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/bounds/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const fixture = `[package]
name = "consumer"
version = "0.1.0"

[dependencies]
toml_edit = "^0.22.10" # parser
serde = { version = "1.0.100", features = ["derive"] }
local = { path = "../local" }
shared = { workspace = true }
rand_core = { package = "rand", version = "0.8" }
log.version = "0.4.14"
log.features = ["std"]

[dependencies.owo-colors]
version = ">=1.0.0, <5"
optional = true

[dev-dependencies]
serde = "1.0.150"

[[bin]]
name = "consumer"
path = "src/main.rs"
`

func setupProject(t *testing.T, manifest string) (string, *cargo.Manifest) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ManifestFileName), []byte(manifest), 0o600))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	return dir, cargo.NewManifest(dir, log)
}

func readManifest(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, domain.ManifestFileName))
	require.NoError(t, err)
	return string(data)
}

func TestReadDependencies(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ManifestFileName), []byte(fixture), 0o600))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn("skipping local: no registry version requirement")
	log.EXPECT().Warn("skipping shared: no registry version requirement")

	specs, err := cargo.NewManifest(dir, log).ReadDependencies()
	require.NoError(t, err)

	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"toml_edit", "serde", "rand_core", "log", "owo-colors"}, names)

	assert.Equal(t, "^0.22.10", specs[0].Requirement.String())
	assert.Equal(t, []string{"derive"}, specs[1].Features)
	assert.Equal(t, "rand", specs[2].CrateName())
	assert.Equal(t, "^0.4.14", specs[3].Requirement.String())
	assert.Equal(t, []string{"std"}, specs[3].Features)
	assert.Equal(t, ">=1.0.0, <5", specs[4].Requirement.String())
}

func TestReadDependencies_Errors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     error
	}{
		{
			name:     "invalid requirement",
			manifest: "[dependencies]\nserde = \"not a version\"\n",
			want:     domain.ErrInvalidRequirement,
		},
		{
			name:     "invalid dotted requirement",
			manifest: "[dependencies]\nserde.version = \"banana\"\n",
			want:     domain.ErrInvalidRequirement,
		},
		{
			name:     "unexpected entry type",
			manifest: "[dependencies]\nserde = 1\n",
			want:     domain.ErrManifestParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, m := setupProject(t, tt.manifest)

			_, err := m.ReadDependencies()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadDependencies_InvalidTOML(t *testing.T) {
	_, m := setupProject(t, "[dependencies\nserde = 1")

	_, err := m.ReadDependencies()
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrManifestParseFailed.Error())
}

func TestReadDependencies_MissingManifest(t *testing.T) {
	m := cargo.NewManifest(t.TempDir(), nil)

	_, err := m.ReadDependencies()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrManifestNotFound)
}

func TestReadDependencies_NoDependencies(t *testing.T) {
	_, m := setupProject(t, "[package]\nname = \"empty\"\n")

	specs, err := m.ReadDependencies()
	require.NoError(t, err)
	assert.Empty(t, specs)
}

func TestPin_Forms(t *testing.T) {
	tests := []struct {
		name    string
		dep     string
		version string
		want    string
	}{
		{
			name:    "string entry becomes inline table",
			dep:     "toml_edit",
			version: "0.22.10",
			want:    `toml_edit = { version = "=0.22.10" } # parser`,
		},
		{
			name:    "inline table keeps its other keys",
			dep:     "serde",
			version: "1.0.200",
			want:    `serde = { version = "=1.0.200", features = ["derive"] }`,
		},
		{
			name:    "renamed package",
			dep:     "rand_core",
			version: "0.8.5",
			want:    `rand_core = { package = "rand", version = "=0.8.5" }`,
		},
		{
			name:    "dotted keys",
			dep:     "log",
			version: "0.4.20",
			want:    "log.version = \"=0.4.20\"\nlog.features = [\"std\"]",
		},
		{
			name:    "dependency table",
			dep:     "owo-colors",
			version: "4.0.0",
			want:    "[dependencies.owo-colors]\nversion = \"=4.0.0\"\noptional = true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, m := setupProject(t, fixture)

			require.NoError(t, m.Pin(tt.dep, domain.MustParseVersion(tt.version)))
			assert.Contains(t, readManifest(t, dir), tt.want)

			require.NoError(t, m.Unpin(tt.dep))
			assert.Equal(t, fixture, readManifest(t, dir))
		})
	}
}

func TestPin_UnpinIsIdempotentForReadDependencies(t *testing.T) {
	_, m := setupProject(t, fixture)

	before, err := m.ReadDependencies()
	require.NoError(t, err)

	for _, spec := range before {
		require.NoError(t, m.Pin(spec.Name, domain.MustParseVersion("1.0.200")))

		pinned, err := m.ReadDependencies()
		require.NoError(t, err)
		for _, p := range pinned {
			if p.Name == spec.Name {
				assert.Equal(t, "=1.0.200", p.Requirement.String())
			}
		}

		require.NoError(t, m.Unpin(spec.Name))
	}

	after, err := m.ReadDependencies()
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.True(t, before[i].Equal(after[i]), "spec %s changed", before[i].Name)
	}
}

func TestPin_ConflictWithDevDependencies(t *testing.T) {
	dir, m := setupProject(t, fixture)

	err := m.Pin("serde", domain.MustParseVersion("1.0.120"))
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrGraphConflict)
	assert.ErrorContains(t, err, "[dev-dependencies] requires serde 1.0.150")
	assert.Equal(t, fixture, readManifest(t, dir), "a refused pin must not touch the manifest")
}

func TestPin_Errors(t *testing.T) {
	tests := []struct {
		name string
		dep  string
		want error
	}{
		{name: "unknown dependency", dep: "tokio", want: domain.ErrDependencyNotFound},
		{name: "path dependency", dep: "local", want: domain.ErrUnsupportedEntry},
		{name: "workspace dependency", dep: "shared", want: domain.ErrUnsupportedEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, m := setupProject(t, fixture)

			err := m.Pin(tt.dep, domain.MustParseVersion("1.0.0"))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUnpin_RestoresLockFile(t *testing.T) {
	dir, m := setupProject(t, fixture)
	lockPath := filepath.Join(dir, domain.LockFileName)
	require.NoError(t, os.WriteFile(lockPath, []byte("# original lock\n"), 0o600))

	require.NoError(t, m.Pin("toml_edit", domain.MustParseVersion("0.22.24")))
	require.NoError(t, os.WriteFile(lockPath, []byte("# resolved by cargo\n"), 0o600))
	require.NoError(t, m.Unpin("toml_edit"))

	data, err := os.ReadFile(lockPath)
	require.NoError(t, err)
	assert.Equal(t, "# original lock\n", string(data))
}

func TestUnpin_RemovesCreatedLockFile(t *testing.T) {
	dir, m := setupProject(t, fixture)
	lockPath := filepath.Join(dir, domain.LockFileName)

	require.NoError(t, m.Pin("toml_edit", domain.MustParseVersion("0.22.24")))
	require.NoError(t, os.WriteFile(lockPath, []byte("# resolved by cargo\n"), 0o600))
	require.NoError(t, m.Unpin("toml_edit"))

	assert.NoFileExists(t, lockPath)
}

func TestUnpin_NotPinned(t *testing.T) {
	dir, m := setupProject(t, fixture)

	require.NoError(t, m.Unpin("serde"))
	assert.Equal(t, fixture, readManifest(t, dir))
}

func TestPin_Twice_UnpinRestoresOriginal(t *testing.T) {
	dir, m := setupProject(t, fixture)

	require.NoError(t, m.Pin("toml_edit", domain.MustParseVersion("0.22.10")))
	require.NoError(t, m.Pin("toml_edit", domain.MustParseVersion("0.22.24")))
	assert.Contains(t, readManifest(t, dir), `toml_edit = { version = "=0.22.24" } # parser`)

	require.NoError(t, m.Unpin("toml_edit"))
	assert.Equal(t, fixture, readManifest(t, dir))
}

func TestWriteBound(t *testing.T) {
	tests := []struct {
		name string
		dep  string
		req  string
		want string
	}{
		{
			name: "string entry stays a string",
			dep:  "toml_edit",
			req:  "^0.22.12",
			want: `toml_edit = "^0.22.12" # parser`,
		},
		{
			name: "inline table",
			dep:  "serde",
			req:  ">=1.0.104, <2.0.0",
			want: `serde = { version = ">=1.0.104, <2.0.0", features = ["derive"] }`,
		},
		{
			name: "dotted keys",
			dep:  "log",
			req:  "^0.4.17",
			want: `log.version = "^0.4.17"`,
		},
		{
			name: "dependency table",
			dep:  "owo-colors",
			req:  ">=3.0.0, <5",
			want: "version = \">=3.0.0, <5\"\noptional = true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, m := setupProject(t, fixture)

			require.NoError(t, m.WriteBound(tt.dep, domain.MustParseRequirement(tt.req)))
			assert.Contains(t, readManifest(t, dir), tt.want)

			specs, err := m.ReadDependencies()
			require.NoError(t, err)
			for _, s := range specs {
				if s.Name == tt.dep {
					assert.Equal(t, tt.req, s.Requirement.String())
				}
			}
		})
	}
}

func TestWriteBound_PreservesFileMode(t *testing.T) {
	dir, m := setupProject(t, fixture)
	path := filepath.Join(dir, domain.ManifestFileName)
	require.NoError(t, os.Chmod(path, 0o640))

	require.NoError(t, m.WriteBound("toml_edit", domain.MustParseRequirement("^0.22.12")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}
