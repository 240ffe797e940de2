package complexity

import (
	"fmt"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/analyzers/common/plotpage"
)

const scatterSymbolSize = 10

//nolint:gochecknoinits // dashboard section registration.
func init() {
	analyze.RegisterPlotSections(AnalyzerID, GenerateSections)
}

// GenerateSections builds the complexity dashboard: rank distribution,
// the most complex functions, and complexity against function length.
func GenerateSections(report analyze.Report) ([]plotpage.Section, error) {
	metrics, err := analyze.DecodeReport[Metrics](report)
	if err != nil {
		return nil, err
	}

	co := plotpage.DefaultChartOpts()
	palette := plotpage.GetChartPalette(plotpage.ThemeLight)

	return []plotpage.Section{
		{
			Title:    "Complexity Ranks",
			Subtitle: "Functions per cyclomatic complexity rank.",
			Chart:    plotpage.WrapChart(rankPie(co, palette, metrics)),
			Hint: plotpage.Hint{
				Title: "How to interpret:",
				Items: []string{
					"<strong>A-B</strong> (1-10) = simple, easy to test",
					"<strong>C-D</strong> (11-30) = getting tangled",
					"<strong>E-F</strong> (31+) = refactor candidates",
				},
			},
		},
		{
			Title:    "Most Complex Functions",
			Subtitle: "The functions with the highest cyclomatic complexity.",
			Chart:    plotpage.WrapChart(topFunctionsBar(co, palette, metrics)),
		},
		{
			Title:    "Complexity vs Length",
			Subtitle: "Each point is one of the most complex functions: lines across, complexity up.",
			Chart:    plotpage.WrapChart(lengthScatter(co, palette, metrics)),
		},
	}, nil
}

// rankColor maps a rank letter onto the good-to-bad end of the palette.
func rankColor(palette plotpage.ChartPalette, rank string) string {
	switch rank {
	case "A":
		return palette.Semantic.Good
	case "B":
		return palette.Primary[6]
	case "C":
		return palette.Primary[9]
	case "D":
		return palette.Semantic.Warning
	case "E":
		return palette.Primary[2]
	default:
		return palette.Semantic.Bad
	}
}

func rankPie(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	if metrics.TotalFunctions == 0 {
		return plotpage.BuildEmptyChart(co, "Complexity Ranks")
	}

	slices := make([]plotpage.PieSlice, 0, len(rankOrder))

	for _, rank := range rankOrder {
		count := metrics.RankHistogram[rank]
		if count == 0 {
			continue
		}

		slices = append(slices, plotpage.PieSlice{
			Name:  rank,
			Value: count,
			Color: rankColor(palette, rank),
		})
	}

	return plotpage.BuildPieChart(co, "Ranks", slices)
}

func topFunctionsBar(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	ranked := metrics.TopFunctions
	if len(ranked) == 0 {
		return plotpage.BuildEmptyChart(co, "Most Complex Functions")
	}

	// Fed ascending so the most complex function renders on top.
	labels := make([]string, 0, len(ranked))
	values := make([]plotpage.SeriesData, 0, len(ranked))

	for i := len(ranked) - 1; i >= 0; i-- {
		labels = append(labels, fmt.Sprintf("%s (%s)", ranked[i].Name, ranked[i].File))
		values = append(values, ranked[i].Complexity)
	}

	return plotpage.BuildHorizontalBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Complexity", Data: values, Color: palette.Semantic.Bad}},
		"Complexity")
}

func lengthScatter(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	if metrics.TotalFunctions == 0 {
		return plotpage.BuildEmptyChart(co, "Complexity vs Length")
	}

	points := make([]plotpage.ScatterPoint, 0, len(metrics.TopFunctions))
	for _, fn := range metrics.TopFunctions {
		points = append(points, plotpage.ScatterPoint{
			Value:      []any{fn.Length, fn.Complexity, fn.Name},
			SymbolSize: scatterSymbolSize,
		})
	}

	return plotpage.BuildScatterChart(co, "Functions", "Lines", "Complexity", points,
		palette.Primary[1])
}
