// Package analyzers wires every built-in analyzer into one registry.
// Importing it also hooks each analyzer's dashboard sections into the
// plot-section registry.
package analyzers

import (
	"github.com/glowstack/gitglow/pkg/analyzers/activity"
	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/analyzers/classify"
	"github.com/glowstack/gitglow/pkg/analyzers/complexity"
	"github.com/glowstack/gitglow/pkg/analyzers/contributors"
	"github.com/glowstack/gitglow/pkg/analyzers/depgraph"
	"github.com/glowstack/gitglow/pkg/analyzers/issues"
	"github.com/glowstack/gitglow/pkg/analyzers/releases"
	"github.com/glowstack/gitglow/pkg/analyzers/sizes"
)

// DefaultRegistry returns the registry of every built-in analyzer:
// history first, then static, then meta.
func DefaultRegistry() (*analyze.Registry, error) {
	registry := analyze.NewRegistry()

	registrations := []analyze.Registration{
		registration(classify.NewHistoryAnalyzer),
		registration(activity.NewHistoryAnalyzer),
		registration(contributors.NewHistoryAnalyzer),
		registration(releases.NewHistoryAnalyzer),
		registration(depgraph.NewStaticAnalyzer),
		registration(complexity.NewStaticAnalyzer),
		registration(sizes.NewStaticAnalyzer),
		registration(issues.NewMetaAnalyzer),
	}

	for _, reg := range registrations {
		if err := registry.Register(reg); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// registration derives a registry entry from an analyzer constructor.
func registration[T analyze.Analyzer](construct func() T) analyze.Registration {
	probe := construct()

	return analyze.Registration{
		ID:          probe.Name(),
		Description: probe.Description(),
		New:         func() analyze.Analyzer { return construct() },
	}
}
