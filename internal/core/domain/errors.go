package domain

import (
	"go.trai.ch/zerr"
)

var (
	// ErrEmptyUniverse is returned when no published version satisfies a declared requirement.
	ErrEmptyUniverse = zerr.New("no published version matches the declared range")
	// ErrProbeFailed is recorded when the oracle ran and reported an incompatibility.
	ErrProbeFailed = zerr.New("version failed the compatibility check")
	// ErrGraphConflict is recorded when the consuming project refuses the requested pin.
	ErrGraphConflict = zerr.New("dependency graph refused the pinned version")
	// ErrOracleSpawnFailed is returned when the check command cannot be launched at all.
	ErrOracleSpawnFailed = zerr.New("failed to launch check command")
	// ErrBucketUnresolvable is recorded when the top version of an epoch bucket does not pass.
	ErrBucketUnresolvable = zerr.New("bucket unresolvable: top version does not pass")
	// ErrBoundsFailed is returned when a test run finds failing versions inside declared bounds.
	ErrBoundsFailed = zerr.New("dependency bounds contain failing versions")

	// ErrInvalidVersion is returned when a version string is not valid semver.
	ErrInvalidVersion = zerr.New("invalid version")
	// ErrInvalidRequirement is returned when a version requirement cannot be parsed.
	ErrInvalidRequirement = zerr.New("invalid version requirement")
	// ErrDependencyNotFound is returned when a requested dependency is not in the manifest.
	ErrDependencyNotFound = zerr.New("dependency not found")
	// ErrNoDependencies is returned when the manifest declares no dependencies.
	ErrNoDependencies = zerr.New("no dependencies")

	// ErrManifestNotFound is returned when no Cargo.toml exists in the working directory.
	ErrManifestNotFound = zerr.New("could not find Cargo.toml")
	// ErrManifestReadFailed is returned when the manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest")
	// ErrManifestParseFailed is returned when the manifest is not valid TOML.
	ErrManifestParseFailed = zerr.New("failed to parse manifest")
	// ErrManifestWriteFailed is returned when the manifest cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write manifest")
	// ErrManifestLocked is returned when another run already owns the manifest.
	ErrManifestLocked = zerr.New("manifest is locked by another bounds run")
	// ErrUnsupportedEntry is returned when a dependency entry has no version to pin.
	ErrUnsupportedEntry = zerr.New("dependency entry has no version requirement")

	// ErrRegistryRequestFailed is returned when the registry cannot be queried.
	ErrRegistryRequestFailed = zerr.New("failed to query registry")
	// ErrRegistryParseFailed is returned when a registry response cannot be parsed.
	ErrRegistryParseFailed = zerr.New("failed to parse registry response")
	// ErrCrateNotFound is returned when the registry does not know a crate.
	ErrCrateNotFound = zerr.New("crate not found in registry")
	// ErrRegistryCacheWriteFailed is returned when a registry response cannot be cached.
	ErrRegistryCacheWriteFailed = zerr.New("failed to write registry cache")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")
	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")
	// ErrInvalidConflictPattern is returned when a configured conflict pattern is not a valid regexp.
	ErrInvalidConflictPattern = zerr.New("invalid conflict pattern")
)

// Tag attaches key and value to a sentinel error. The result still matches the
// sentinel with errors.Is and prints the sentinel's message.
func Tag(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}
