// Package version holds build information set through -ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/xmldocmd/internal/version.Version=v1.2.0"
package version

import "fmt"

// Version is the release version.
var Version = "unknown"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the build information for --version.
func String() string {
	return fmt.Sprintf("xmldocmd %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
