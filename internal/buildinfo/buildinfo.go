// Package buildinfo carries release metadata stamped in at link time.
package buildinfo

// Set with -ldflags "-X github.com/aidanlsb/setlist/internal/buildinfo.Version=..."
// by the release build. Empty in local builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
