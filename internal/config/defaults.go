package config

import "github.com/glowstack/gitglow/pkg/scanner"

// Default values applied by the loader when neither the config file nor the
// environment provides a setting.
const (
	// DefaultCacheTTL is the fetch cache entry lifetime.
	DefaultCacheTTL = "1h"

	// DefaultGitHubRateRPS is the hosting API request rate per second.
	DefaultGitHubRateRPS = 1.0

	// DefaultTopAuthors is the contributor ranking cut-off.
	DefaultTopAuthors = 10

	// DefaultComplexityThreshold marks functions as high-complexity above it.
	DefaultComplexityThreshold = 10

	// DefaultTopFunctions is the most-complex-functions list length.
	DefaultTopFunctions = 20

	// DefaultMaxGraphNodes caps the dependency network chart node count.
	DefaultMaxGraphNodes = 50

	// DefaultLargestFiles is the largest-files list length.
	DefaultLargestFiles = 15

	// DefaultClassifySentiment enables message sentiment scoring.
	DefaultClassifySentiment = true

	// DefaultLogLevel is the minimum log severity name.
	DefaultLogLevel = "info"
)

// DefaultScanExtensions are the source file extensions included in a scan.
func DefaultScanExtensions() []string {
	return []string{".py"}
}

// DefaultIgnoreDirs are directory names excluded from source scans.
// This is configuration, not behavior: callers may replace the set entirely.
func DefaultIgnoreDirs() []string {
	return scanner.DefaultIgnoreDirs()
}
