// Package cargo reads and edits the consuming project's Cargo.toml.
package cargo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"go.trai.ch/bounds/internal/adapters/fs"
	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/bounds/internal/core/ports"
	"go.trai.ch/zerr"
)

const dependenciesTable = "dependencies"

// otherTables are the tables that share the crate graph with [dependencies].
var otherTables = []string{"dev-dependencies", "build-dependencies"}

// Manifest implements ports.Manifest for the Cargo.toml in a directory.
type Manifest struct {
	path     string
	lockPath string
	logger   ports.Logger

	mu   sync.Mutex
	pins map[string]pinSnapshot
}

// pinSnapshot is the project state before a pin was applied.
type pinSnapshot struct {
	manifest []byte
	lock     []byte
	hasLock  bool
}

// NewManifest creates a Manifest for the project in dir.
func NewManifest(dir string, logger ports.Logger) *Manifest {
	return &Manifest{
		path:     filepath.Join(dir, domain.ManifestFileName),
		lockPath: filepath.Join(dir, domain.LockFileName),
		logger:   logger,
		pins:     make(map[string]pinSnapshot),
	}
}

// Path returns the manifest location.
func (m *Manifest) Path() string {
	return m.path
}

// ReadDependencies returns the [dependencies] entries in manifest order.
// Entries without a registry version (workspace inheritance, path or git only)
// are skipped with a warning.
func (m *Manifest) ReadDependencies() ([]domain.DependencySpec, error) {
	data, err := m.read()
	if err != nil {
		return nil, err
	}

	doc, order, err := m.decode(data)
	if err != nil {
		return nil, err
	}

	table, _ := doc[dependenciesTable].(map[string]any)
	specs := make([]domain.DependencySpec, 0, len(table))
	for _, name := range order[dependenciesTable] {
		spec, ok, err := parseEntry(name, table[name])
		if err != nil {
			return nil, zerr.With(err, "path", m.path)
		}
		if !ok {
			m.logger.Warn(fmt.Sprintf("skipping %s: no registry version requirement", name))
			continue
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

// Pin rewrites the dependency's requirement to "=version".
// The manifest and lock file are snapshotted first and restored by Unpin.
func (m *Manifest) Pin(name string, version domain.Version) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.read()
	if err != nil {
		return err
	}

	doc, _, err := m.decode(data)
	if err != nil {
		return err
	}
	if err := checkConflicts(doc, name, version); err != nil {
		return err
	}

	edited, err := setRequirement(data, name, "="+version.String(), true)
	if err != nil {
		return zerr.With(err, "dependency", name)
	}

	if _, pinned := m.pins[name]; !pinned {
		snap := pinSnapshot{manifest: data}
		// #nosec G304 -- lock path is derived from the project directory
		lock, err := os.ReadFile(m.lockPath)
		switch {
		case err == nil:
			snap.lock, snap.hasLock = lock, true
		case !errors.Is(err, os.ErrNotExist):
			return zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", m.lockPath)
		}
		m.pins[name] = snap
	}

	return m.write(m.path, edited)
}

// Unpin restores the manifest and lock file captured by Pin.
// Unpinning a dependency that is not pinned is a no-op.
func (m *Manifest) Unpin(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.pins[name]
	if !ok {
		return nil
	}

	if err := m.write(m.path, snap.manifest); err != nil {
		return err
	}

	if snap.hasLock {
		if err := m.write(m.lockPath, snap.lock); err != nil {
			return err
		}
	} else if err := os.Remove(m.lockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", m.lockPath)
	}

	delete(m.pins, name)
	return nil
}

// WriteBound replaces the dependency's requirement with req, keeping the
// entry's form and any trailing comment.
func (m *Manifest) WriteBound(name string, req domain.Requirement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.read()
	if err != nil {
		return err
	}

	edited, err := setRequirement(data, name, req.String(), false)
	if err != nil {
		return zerr.With(err, "dependency", name)
	}

	return m.write(m.path, edited)
}

func (m *Manifest) read() ([]byte, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.Tag(domain.ErrManifestNotFound, "path", m.path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", m.path)
	}
	return data, nil
}

// decode parses the manifest and returns, per table, its keys in document order.
// Dotted keys such as serde.version = "1" place serde at its first line.
func (m *Manifest) decode(data []byte) (map[string]any, map[string][]string, error) {
	var doc map[string]any
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", m.path)
	}

	order := make(map[string][]string)
	seen := make(map[string]bool)
	for _, key := range md.Keys() {
		if len(key) < 2 {
			continue
		}
		id := key[0] + "\x00" + key[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		order[key[0]] = append(order[key[0]], key[1])
	}

	return doc, order, nil
}

func (m *Manifest) write(path string, data []byte) error {
	if err := fs.WriteFileAtomic(path, data, fs.PermOf(path, domain.FilePerm)); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", path)
	}
	return nil
}

// parseEntry converts one [dependencies] value. ok is false for entries
// that carry no registry requirement.
func parseEntry(name string, raw any) (spec domain.DependencySpec, ok bool, err error) {
	spec.Name = name

	var version string
	switch v := raw.(type) {
	case string:
		version = v
	case map[string]any:
		if inherited, _ := v["workspace"].(bool); inherited {
			return spec, false, nil
		}
		s, hasVersion := v["version"].(string)
		if !hasVersion {
			return spec, false, nil
		}
		version = s
		spec.Package, _ = v["package"].(string)
		if features, ok := v["features"].([]any); ok {
			for _, f := range features {
				if s, ok := f.(string); ok {
					spec.Features = append(spec.Features, s)
				}
			}
		}
	default:
		return spec, false, zerr.With(domain.Tag(domain.ErrManifestParseFailed, "dependency", name),
			"reason", fmt.Sprintf("unexpected entry type %T", raw))
	}

	req, err := domain.ParseRequirement(version)
	if err != nil {
		return spec, false, zerr.With(err, "dependency", name)
	}
	spec.Requirement = req

	return spec, true, nil
}

// checkConflicts reports whether another table declares the same crate with
// a requirement that rules version out.
func checkConflicts(doc map[string]any, name string, version domain.Version) error {
	deps, _ := doc[dependenciesTable].(map[string]any)
	raw, declared := deps[name]
	if !declared {
		return domain.Tag(domain.ErrDependencyNotFound, "dependency", name)
	}
	target, ok, err := parseEntry(name, raw)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Tag(domain.ErrUnsupportedEntry, "dependency", name)
	}

	for _, tableName := range otherTables {
		table, _ := doc[tableName].(map[string]any)
		for key, raw := range table {
			other, ok, err := parseEntry(key, raw)
			if err != nil || !ok || other.CrateName() != target.CrateName() {
				continue
			}
			if !other.Requirement.Satisfies(version) {
				return errors.Join(
					domain.ErrGraphConflict,
					fmt.Errorf("[%s] requires %s %s", tableName, other.CrateName(), other.Requirement),
				)
			}
		}
	}

	return nil
}
