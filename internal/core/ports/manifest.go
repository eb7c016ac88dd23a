// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/bounds/internal/core/domain"

// Manifest reads and edits the consuming project's Cargo.toml.
//
//go:generate mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type Manifest interface {
	// ReadDependencies returns the [dependencies] entries in manifest order.
	ReadDependencies() ([]domain.DependencySpec, error)

	// Pin rewrites the dependency's requirement to "=version".
	//
	// It returns an error matching domain.ErrGraphConflict when the manifest itself
	// refuses the pin, e.g. because another table declares the same crate with a
	// requirement the version does not satisfy.
	Pin(name string, version domain.Version) error

	// Unpin restores the dependency's entry to its declared text.
	Unpin(name string) error

	// WriteBound persists a new requirement for the dependency.
	WriteBound(name string, req domain.Requirement) error
}

// ManifestGuard owns the project's manifest and lock file for the duration of a run.
type ManifestGuard interface {
	// Acquire takes the run lock and snapshots Cargo.toml and Cargo.lock.
	Acquire() error

	// Release restores the snapshot and drops the run lock.
	Release() error
}
