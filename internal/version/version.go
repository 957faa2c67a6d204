// Package version holds the build version of the docusign CLI.
package version

import "fmt"

var (
	// Version is set at build time with -ldflags "-X ...version.Version=v1.2.3".
	Version = "0.1.0-dev"

	// GitCommit is set at build time.
	GitCommit = ""
)

// String returns the version with the commit when known.
func String() string {
	if GitCommit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}
