// Package build holds build-time information.
package build

// Version information. They default to placeholders and are overwritten by
// linker flags in release builds.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
