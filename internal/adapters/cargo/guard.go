package cargo

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"go.trai.ch/bounds/internal/adapters/fs"
	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/zerr"
)

// Guard implements ports.ManifestGuard.
//
// It holds Cargo.toml.bounds.lock for the duration of a run so two runs never
// pin the same project concurrently. Restoration after SIGKILL is not possible.
type Guard struct {
	manifestPath string
	lockFilePath string

	mu        sync.Mutex
	lock      *flock.Flock
	snapshots []fileSnapshot
}

type fileSnapshot struct {
	path    string
	data    []byte
	existed bool
	perm    os.FileMode
}

// NewGuard creates a Guard for the project in dir.
func NewGuard(dir string) *Guard {
	manifest := filepath.Join(dir, domain.ManifestFileName)
	return &Guard{
		manifestPath: manifest,
		lockFilePath: filepath.Join(dir, domain.LockFileName),
	}
}

// Acquire takes the run lock without blocking and snapshots the manifest and lock file.
func (g *Guard) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lock != nil {
		return nil
	}

	if _, err := os.Stat(g.manifestPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Tag(domain.ErrManifestNotFound, "path", g.manifestPath)
		}
		return zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", g.manifestPath)
	}

	lockPath := g.manifestPath + domain.GuardFileSuffix
	lock := flock.New(lockPath)
	acquired, err := lock.TryLock()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", lockPath)
	}
	if !acquired {
		return domain.Tag(domain.ErrManifestLocked, "path", lockPath)
	}

	snapshots := make([]fileSnapshot, 0, 2)
	for _, path := range []string{g.manifestPath, g.lockFilePath} {
		snap, err := takeSnapshot(path)
		if err != nil {
			_ = lock.Unlock()
			return err
		}
		snapshots = append(snapshots, snap)
	}

	g.lock = lock
	g.snapshots = snapshots
	return nil
}

// Release restores the snapshot and drops the run lock. Releasing twice is a no-op.
func (g *Guard) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lock == nil {
		return nil
	}

	restoreErr := g.restore()

	var unlockErr error
	if err := g.lock.Unlock(); err != nil {
		unlockErr = zerr.Wrap(err, "failed to release manifest lock")
	}
	_ = os.Remove(g.lock.Path())

	g.lock = nil
	g.snapshots = nil
	return errors.Join(restoreErr, unlockErr)
}

// restore rewrites the files captured by Acquire. Files that did not exist
// at that time are removed. It must be called with mu held.
func (g *Guard) restore() error {
	var errs []error
	for _, snap := range g.snapshots {
		if snap.existed {
			if err := fs.WriteFileAtomic(snap.path, snap.data, snap.perm); err != nil {
				errs = append(errs, zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", snap.path))
			}
			continue
		}
		if err := os.Remove(snap.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", snap.path))
		}
	}
	return errors.Join(errs...)
}

func takeSnapshot(path string) (fileSnapshot, error) {
	// #nosec G304 -- path is derived from the project directory
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return fileSnapshot{path: path, data: data, existed: true, perm: fs.PermOf(path, domain.FilePerm)}, nil
	case errors.Is(err, os.ErrNotExist):
		return fileSnapshot{path: path}, nil
	default:
		return fileSnapshot{}, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}
}
