package plotpage_test

import (
	"testing"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/pkg/analyzers/common/plotpage"
)

func TestBuildBarChart(t *testing.T) {
	t.Parallel()

	labels := []string{"feat", "fix", "docs"}
	series := []plotpage.BarSeries{
		{Name: "Commits", Data: []plotpage.SeriesData{10, 20, 5}, Color: "#E85A4F"},
		{Name: "Merges", Data: []plotpage.SeriesData{1, 2, 0}},
	}

	chart := plotpage.BuildBarChart(plotpage.DefaultChartOpts(), labels, series, "Count")
	require.NotNil(t, chart)
	require.Len(t, chart.MultiSeries, 2)
	require.Equal(t, "Commits", chart.MultiSeries[0].Name)
	require.Equal(t, "Merges", chart.MultiSeries[1].Name)
}

func TestBuildBarChartNilOpts(t *testing.T) {
	t.Parallel()

	chart := plotpage.BuildBarChart(nil, []string{"a"}, []plotpage.BarSeries{
		{Name: "Data", Data: []plotpage.SeriesData{1}},
	}, "Count")
	require.NotNil(t, chart)
	require.Len(t, chart.MultiSeries, 1)
}

func TestBuildHorizontalBarChart(t *testing.T) {
	t.Parallel()

	chart := plotpage.BuildHorizontalBarChart(nil, []string{"pkg/a.py", "pkg/b.py"}, []plotpage.BarSeries{
		{Name: "Degree", Data: []plotpage.SeriesData{0.9, 0.4}},
	}, "Centrality")
	require.NotNil(t, chart)
	require.Len(t, chart.MultiSeries, 1)
	require.Equal(t, "Degree", chart.MultiSeries[0].Name)
}

func TestBuildLineChart(t *testing.T) {
	t.Parallel()

	series := []plotpage.LineSeries{
		{
			Name:        "Insertions",
			Data:        []plotpage.SeriesData{10, 25, 14},
			Color:       "#41B3A3",
			AreaOpacity: 0.3,
			Smooth:      true,
		},
		{Name: "Deletions", Data: []plotpage.SeriesData{3, 8, 2}, Stack: "churn"},
	}

	chart := plotpage.BuildLineChart(nil, []string{"2024-01", "2024-02", "2024-03"}, series, "Lines")
	require.NotNil(t, chart)
	require.Len(t, chart.MultiSeries, 2)
	require.Equal(t, "Insertions", chart.MultiSeries[0].Name)
}

func TestBuildPieChart(t *testing.T) {
	t.Parallel()

	slices := []plotpage.PieSlice{
		{Name: "feat", Value: 12, Color: "#E85A4F"},
		{Name: "fix", Value: 7},
		{Name: "other", Value: 3},
	}

	chart := plotpage.BuildPieChart(nil, "Categories", slices)
	require.NotNil(t, chart)
	require.Len(t, chart.MultiSeries, 1)

	data, ok := chart.MultiSeries[0].Data.([]opts.PieData)
	require.True(t, ok)
	require.Len(t, data, 3)
	require.Equal(t, "feat", data[0].Name)
}

func TestBuildScatterChart(t *testing.T) {
	t.Parallel()

	points := []plotpage.ScatterPoint{
		{Value: []any{3, 5, "pkg/a.py"}, SymbolSize: 15},
		{Value: []any{1, 0, "pkg/b.py"}, SymbolSize: 10},
	}

	chart := plotpage.BuildScatterChart(nil, "Files", "Fan-in", "Fan-out", points, "#E27D60")
	require.NotNil(t, chart)
	require.Len(t, chart.MultiSeries, 1)
	require.Equal(t, "Files", chart.MultiSeries[0].Name)
}

func TestBuildHeatMapChart(t *testing.T) {
	t.Parallel()

	cells := []plotpage.HeatCell{
		{X: 0, Y: 1, Value: 4},
		{X: 2, Y: 0, Value: 9},
	}

	chart := plotpage.BuildHeatMapChart(nil, "Punchcard",
		[]string{"0", "1", "2"}, []string{"Mon", "Tue"}, cells, 9)
	require.NotNil(t, chart)
	require.Len(t, chart.MultiSeries, 1)
}

func TestBuildGraphChart(t *testing.T) {
	t.Parallel()

	nodes := []plotpage.GraphNode{
		{Name: "pkg/a.py", Value: 2, SymbolSize: 20, Category: 0},
		{Name: "pkg/b.py", Value: 1, SymbolSize: 12, Category: 1},
	}
	links := []plotpage.GraphLink{{Source: "pkg/a.py", Target: "pkg/b.py"}}

	chart := plotpage.BuildGraphChart(nil, "Imports", nodes, links, []string{"hub", "leaf"})
	require.NotNil(t, chart)
	require.Len(t, chart.MultiSeries, 1)
	require.Equal(t, "Imports", chart.MultiSeries[0].Name)
}

func TestBuildWordCloudChart(t *testing.T) {
	t.Parallel()

	words := []plotpage.WordCount{
		{Word: "login", Count: 14},
		{Word: "parser", Count: 9},
	}

	chart := plotpage.BuildWordCloudChart(nil, "Top Words", words)
	require.NotNil(t, chart)
	require.Len(t, chart.MultiSeries, 1)
}

func TestBuildTreeMapChart(t *testing.T) {
	t.Parallel()

	nodes := []opts.TreeMapNode{
		{Name: "pkg", Value: 500, Children: []opts.TreeMapNode{
			{Name: "a.py", Value: 300},
			{Name: "b.py", Value: 200},
		}},
	}

	chart := plotpage.BuildTreeMapChart(nil, "Sizes", nodes)
	require.NotNil(t, chart)
	require.Len(t, chart.MultiSeries, 1)
}

func TestBuildEmptyChart(t *testing.T) {
	t.Parallel()

	chart := plotpage.BuildEmptyChart(nil, "Release Cadence")
	require.NotNil(t, chart)
	require.Empty(t, chart.MultiSeries)
}
