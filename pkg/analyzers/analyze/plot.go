package analyze

import (
	"github.com/glowstack/gitglow/pkg/analyzers/common/plotpage"
)

// SectionRendererFunc generates dashboard sections from a raw report for a
// specific analyzer.
type SectionRendererFunc func(report Report) ([]plotpage.Section, error)

// plotSectionRenderers maps analyzer IDs to their section generators.
var plotSectionRenderers = make(map[string]SectionRendererFunc) //nolint:gochecknoglobals // package-level registration

// RegisterPlotSections registers a section renderer for an analyzer ID. Each
// analyzer package calls this from an init in its plot.go.
func RegisterPlotSections(analyzerID string, fn SectionRendererFunc) {
	plotSectionRenderers[analyzerID] = fn
}

// PlotSectionsFor returns the registered section renderer for an analyzer
// ID, or nil.
func PlotSectionsFor(analyzerID string) SectionRendererFunc {
	return plotSectionRenderers[analyzerID]
}
