// Package version provides build-time version information.
package version

import "fmt"

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// String returns the version with the short commit when it is known,
// e.g. "0.1.0 (3f2a9c1)".
func String() string {
	if GitCommit == "" || GitCommit == "unknown" {
		return Version
	}
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", Version, commit)
}

// About is the multi-line text of the About dialog and the tools' -version
// flag.
func About(appName string) string {
	return fmt.Sprintf("%s v%s\n\nBuilt: %s\nCommit: %s", appName, Version, BuildTime, GitCommit)
}
