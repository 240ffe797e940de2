package depgraph

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/analyzers/common/plotpage"
)

const (
	coupledBarLimit = 15
	baseSymbolSize  = 10
	maxSymbolSize   = 40
	rootCategory    = "root"
)

//nolint:gochecknoinits // dashboard section registration.
func init() {
	analyze.RegisterPlotSections(AnalyzerID, GenerateSections)
}

// GenerateSections builds the depgraph dashboard: headline stats, the
// import network, coupling and centrality rankings, and unresolved imports.
func GenerateSections(report analyze.Report) ([]plotpage.Section, error) {
	metrics, err := analyze.DecodeReport[Metrics](report)
	if err != nil {
		return nil, err
	}

	co := plotpage.DefaultChartOpts()
	palette := plotpage.GetChartPalette(plotpage.ThemeLight)

	return []plotpage.Section{
		{
			Title: "Graph at a Glance",
			Chart: statsGrid(metrics),
		},
		{
			Title:    "Import Network",
			Subtitle: fmt.Sprintf("Force layout of the %d most connected files, arrows point at the imported file.", chartNodeLimit(metrics)),
			Chart:    plotpage.WrapChart(networkGraph(co, metrics)),
			Hint: plotpage.Hint{
				Title: "How to interpret:",
				Items: []string{
					"<strong>Node size</strong> grows with the number of import relationships",
					"<strong>Colors</strong> group files by their top-level directory",
					"<strong>Dense clusters</strong> = tightly coupled subsystems",
				},
			},
		},
		{
			Title:    "Most Coupled Files",
			Subtitle: fmt.Sprintf("Top %d files by combined inbound and outbound imports.", coupledBarLimit),
			Chart:    plotpage.WrapChart(coupledBar(co, palette, metrics)),
		},
		{
			Title:    "Central Files",
			Subtitle: "Degree centrality, the share of other files each file connects to.",
			Chart:    plotpage.WrapChart(centralityBar(co, palette, metrics)),
		},
		{
			Title:    "Unresolved Imports",
			Subtitle: unresolvedSubtitle(metrics),
			Chart:    unresolvedTable(metrics),
		},
	}, nil
}

// chartNodeLimit is the configured network cap; reports written before the
// cap existed fall back to the default.
func chartNodeLimit(metrics Metrics) int {
	if metrics.MaxGraphNodes > 0 {
		return metrics.MaxGraphNodes
	}

	return DefaultMaxGraphNodes
}

func statsGrid(metrics Metrics) plotpage.Renderable {
	return plotpage.NewGrid(4,
		plotpage.NewStat("Files", strconv.Itoa(metrics.Stats.NodeCount)),
		plotpage.NewStat("Import edges", strconv.Itoa(metrics.Stats.EdgeCount)),
		plotpage.NewStat("Density", fmt.Sprintf("%.4f", metrics.Stats.Density)),
		plotpage.NewStat("Avg degree", fmt.Sprintf("%.2f", metrics.Stats.AverageDegree)),
	)
}

// rankedByDegree returns node paths sorted by degree descending, insertion
// order breaking ties.
func rankedByDegree(metrics Metrics, degrees map[string]int) []string {
	ranked := make([]string, len(metrics.Nodes))
	copy(ranked, metrics.Nodes)

	sort.SliceStable(ranked, func(i, j int) bool {
		return degrees[ranked[i]] > degrees[ranked[j]]
	})

	return ranked
}

func nodeDegrees(metrics Metrics) map[string]int {
	degrees := make(map[string]int, len(metrics.Nodes))
	for _, edge := range metrics.Edges {
		degrees[edge.Source]++
		degrees[edge.Target]++
	}

	return degrees
}

// topDirectory buckets a path by its first segment so network colors follow
// the package layout.
func topDirectory(path string) string {
	if idx := strings.IndexByte(path, '/'); idx >= 0 {
		return path[:idx]
	}

	return rootCategory
}

func networkGraph(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if metrics.Stats.NodeCount == 0 {
		return plotpage.BuildEmptyChart(co, "Import Network")
	}

	degrees := nodeDegrees(metrics)

	ranked := rankedByDegree(metrics, degrees)
	if limit := chartNodeLimit(metrics); len(ranked) > limit {
		ranked = ranked[:limit]
	}

	included := make(map[string]bool, len(ranked))
	for _, path := range ranked {
		included[path] = true
	}

	var categories []string

	categoryIndex := make(map[string]int)

	nodes := make([]plotpage.GraphNode, 0, len(ranked))

	for _, path := range ranked {
		dir := topDirectory(path)

		idx, found := categoryIndex[dir]
		if !found {
			idx = len(categories)
			categoryIndex[dir] = idx
			categories = append(categories, dir)
		}

		size := baseSymbolSize + degrees[path]*2
		if size > maxSymbolSize {
			size = maxSymbolSize
		}

		nodes = append(nodes, plotpage.GraphNode{
			Name:       path,
			Value:      float32(degrees[path]),
			SymbolSize: size,
			Category:   idx,
		})
	}

	links := make([]plotpage.GraphLink, 0, len(metrics.Edges))

	for _, edge := range metrics.Edges {
		if included[edge.Source] && included[edge.Target] {
			links = append(links, plotpage.GraphLink{Source: edge.Source, Target: edge.Target})
		}
	}

	return plotpage.BuildGraphChart(co, "Imports", nodes, links, categories)
}

func coupledBar(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	degrees := nodeDegrees(metrics)

	ranked := rankedByDegree(metrics, degrees)

	coupled := make([]string, 0, coupledBarLimit)

	for _, path := range ranked {
		if degrees[path] == 0 {
			break
		}

		coupled = append(coupled, path)
		if len(coupled) == coupledBarLimit {
			break
		}
	}

	if len(coupled) == 0 {
		return plotpage.BuildEmptyChart(co, "Most Coupled Files")
	}

	// Horizontal bars draw the first label at the bottom, so feed the
	// ranking in ascending order to put the most coupled file on top.
	labels := make([]string, 0, len(coupled))
	values := make([]plotpage.SeriesData, 0, len(coupled))

	for i := len(coupled) - 1; i >= 0; i-- {
		labels = append(labels, coupled[i])
		values = append(values, degrees[coupled[i]])
	}

	return plotpage.BuildHorizontalBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Degree", Data: values, Color: palette.Primary[0]}}, "Imports")
}

func centralityBar(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	if len(metrics.Stats.TopCentrality) == 0 {
		return plotpage.BuildEmptyChart(co, "Central Files")
	}

	labels := make([]string, 0, len(metrics.Stats.TopCentrality))
	values := make([]plotpage.SeriesData, 0, len(metrics.Stats.TopCentrality))

	for _, entry := range metrics.Stats.TopCentrality {
		labels = append(labels, entry.File)
		values = append(values, math.Round(entry.Centrality*1000)/1000)
	}

	return plotpage.BuildBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Centrality", Data: values, Color: palette.Primary[2]}}, "Centrality")
}

func unresolvedSubtitle(metrics Metrics) string {
	if metrics.UnresolvedCount == 0 {
		return "Every import matched a scanned file."
	}

	return fmt.Sprintf("%d import statements matched no scanned file, usually packages outside the tree.",
		metrics.UnresolvedCount)
}

func unresolvedTable(metrics Metrics) plotpage.Renderable {
	tbl := plotpage.NewTable([]string{"Import", "Importing files"})

	rows := metrics.Unresolved
	if len(rows) > unresolvedTableLimit {
		rows = rows[:unresolvedTableLimit]
	}

	for _, imp := range rows {
		tbl.AddRow(imp.Name, strconv.Itoa(imp.Count))
	}

	return tbl
}
