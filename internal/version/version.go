// Package version holds build information injected at link time.
package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/modplan/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/modplan/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/modplan/internal/version.Date={{.Date}}
)

// String returns a one-line summary of the build
func String() string {
	return fmt.Sprintf("modplan %s (%s, %s)", Version, Commit, Date)
}
