package domain

import (
	"path/filepath"
	"time"
)

const (
	// BoundsDirName is the name of the internal working directory.
	BoundsDirName = ".bounds"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// RegistryDirName is the name of the registry cache directory.
	RegistryDirName = "registry"

	// ConfigFileName is the name of the optional configuration file.
	ConfigFileName = "bounds.yaml"

	// ManifestFileName is the name of the consuming project's manifest.
	ManifestFileName = "Cargo.toml"

	// LockFileName is the name of the consuming project's resolved dependency state.
	LockFileName = "Cargo.lock"

	// GuardFileSuffix is appended to the manifest path to build the run lock path.
	GuardFileSuffix = ".bounds.lock"

	// DefaultCheckCommand is the type-check-only oracle.
	DefaultCheckCommand = "cargo check --all-features"

	// DefaultIndexURL is the crates.io sparse index.
	DefaultIndexURL = "https://index.crates.io"

	// DefaultRateLimit is the minimum interval between registry requests.
	DefaultRateLimit = time.Second

	// DefaultCacheTTL is how long a cached registry response stays fresh.
	DefaultCacheTTL = time.Hour

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultConflictPatterns are cargo diagnostics that mean the pin itself could not be applied.
var DefaultConflictPatterns = []string{
	`failed to select a version for`,
	`candidate versions found which didn't match`,
	`no matching package named`,
	`is yanked`,
	`links to the native library`,
	`perhaps a crate was updated and forgotten to be re-vendored`,
}

// DefaultRegistryCachePath returns the default path for the registry cache.
// It joins .bounds, cache, and registry.
func DefaultRegistryCachePath() string {
	return filepath.Join(BoundsDirName, CacheDirName, RegistryDirName)
}
