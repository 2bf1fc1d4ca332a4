package version

import "fmt"

var (
	// Version is the nupack release version, overridden via ldflags at build time.
	Version = "1.0.0"
	// Commit is the short git SHA of the build, "none" for local builds.
	Commit = "none"
	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Short returns only the release version string.
func Short() string {
	return Version
}

// Full returns the release version together with commit and build time.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Version, Commit, BuildTime)
}
