// Package version exposes build metadata for the gitglow binary.
package version

// Overridden at build time via -ldflags:
//
//	-X github.com/glowstack/gitglow/pkg/version.Version=v1.2.3
var (
	// Version is the semantic version of the build.
	Version = "0.1.0-dev"

	// Commit is the VCS revision the binary was built from.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns a single-line version description.
func String() string {
	return Version + " (commit " + Commit + ", built " + Date + ")"
}
