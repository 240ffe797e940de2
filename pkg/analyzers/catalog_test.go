package analyzers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/pkg/analyzers"
	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
)

func TestDefaultRegistryOrder(t *testing.T) {
	t.Parallel()

	registry, err := analyzers.DefaultRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"history/classify",
		"history/activity",
		"history/contributors",
		"history/releases",
		"static/depgraph",
		"static/complexity",
		"static/sizes",
		"meta/issues",
	}, registry.IDs())
}

func TestDefaultRegistryConstructsFreshAnalyzers(t *testing.T) {
	t.Parallel()

	registry, err := analyzers.DefaultRegistry()
	require.NoError(t, err)

	reg, ok := registry.Get("history/classify")
	require.True(t, ok)
	assert.NotEmpty(t, reg.Description)

	first := reg.New()
	second := reg.New()

	assert.Equal(t, "history/classify", first.Name())
	assert.NotSame(t, first, second)
}

func TestDefaultRegistryEveryAnalyzerHasPlotSections(t *testing.T) {
	t.Parallel()

	registry, err := analyzers.DefaultRegistry()
	require.NoError(t, err)

	for _, id := range registry.IDs() {
		assert.NotNil(t, analyze.PlotSectionsFor(id), id)
	}
}

func TestDefaultRegistrySelectByKind(t *testing.T) {
	t.Parallel()

	registry, err := analyzers.DefaultRegistry()
	require.NoError(t, err)

	static, err := registry.Select([]string{"static/*"})
	require.NoError(t, err)
	require.Len(t, static, 3)

	for _, reg := range static {
		assert.Equal(t, analyze.KindStatic, analyze.KindOf(reg.ID))
	}
}
