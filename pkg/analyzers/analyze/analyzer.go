// Package analyze defines the analyzer contracts, the registry, the output
// formats, and the report envelope shared by every gitglow analyzer.
package analyze

import (
	"io"
	"strings"

	"github.com/glowstack/gitglow/pkg/githubapi"
	"github.com/glowstack/gitglow/pkg/gitmine"
	"github.com/glowstack/gitglow/pkg/scanner"
)

// Report is a map of string keys to arbitrary values representing analysis
// output. It survives a JSON round-trip, which the report archive relies on.
type Report = map[string]any

// Analyzer is the common base interface for all analyzers.
type Analyzer interface {
	Name() string
	Flag() string
	Description() string

	ListConfigurationOptions() []ConfigurationOption
	Configure(facts map[string]any) error
}

// HistoryAnalyzer consumes mined commits one at a time and reports at the
// end of the walk.
type HistoryAnalyzer interface {
	Analyzer

	Initialize(repo *gitmine.Repository) error
	Consume(commit *gitmine.CommitRecord) error
	Finalize() (Report, error)

	// Serialize writes a finalized report in the requested format.
	Serialize(report Report, format string, writer io.Writer) error
}

// StaticAnalyzer analyzes a scanned source tree.
type StaticAnalyzer interface {
	Analyzer

	Analyze(tree *scanner.Tree) (Report, error)
	Serialize(report Report, format string, writer io.Writer) error
}

// MetaAnalyzer analyzes fetched hosting metadata.
type MetaAnalyzer interface {
	Analyzer

	Analyze(data *githubapi.RepositoryData) (Report, error)
	Serialize(report Report, format string, writer io.Writer) error
}

// Base carries the identity boilerplate analyzers embed. Flag is the ID part
// after the slash.
type Base struct {
	ID      string
	Brief   string
	Options []ConfigurationOption
}

// Name returns the registry ID.
func (b *Base) Name() string {
	return b.ID
}

// Flag returns the CLI token for the analyzer.
func (b *Base) Flag() string {
	if idx := strings.IndexByte(b.ID, '/'); idx >= 0 {
		return b.ID[idx+1:]
	}

	return b.ID
}

// Description returns the one-line analyzer description.
func (b *Base) Description() string {
	return b.Brief
}

// ListConfigurationOptions returns the configurable options.
func (b *Base) ListConfigurationOptions() []ConfigurationOption {
	return b.Options
}

// Configure accepts facts; analyzers with options shadow this.
func (b *Base) Configure(_ map[string]any) error {
	return nil
}
