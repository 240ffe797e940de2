package contributors

import (
	"strconv"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/analyzers/common/plotpage"
)

// topAuthorsLimit caps the per-author ranking charts.
const topAuthorsLimit = 10

//nolint:gochecknoinits // dashboard section registration.
func init() {
	analyze.RegisterPlotSections(AnalyzerID, GenerateSections)
}

// GenerateSections builds the contributors dashboard: headline stats,
// author rankings, share, and arrival trend.
func GenerateSections(report analyze.Report) ([]plotpage.Section, error) {
	metrics, err := analyze.DecodeReport[Metrics](report)
	if err != nil {
		return nil, err
	}

	co := plotpage.DefaultChartOpts()
	palette := plotpage.GetChartPalette(plotpage.ThemeLight)

	return []plotpage.Section{
		{
			Title: "Contributors at a Glance",
			Chart: statsGrid(metrics),
		},
		{
			Title:    "Top Authors",
			Subtitle: "Commit volume of the most active contributors.",
			Chart:    plotpage.WrapChart(topAuthorsBar(co, palette, metrics)),
		},
		{
			Title:    "Author Share",
			Subtitle: "How commit volume splits across the team.",
			Chart:    plotpage.WrapChart(sharePie(co, metrics)),
			Hint: plotpage.Hint{
				Title: "How to interpret:",
				Items: []string{
					"<strong>One dominant slice</strong> = bus-factor risk",
					"<strong>Many even slices</strong> = healthy shared ownership",
				},
			},
		},
		{
			Title:    "Lines Added",
			Subtitle: "Insertions attributed to each top author.",
			Chart:    plotpage.WrapChart(linesAddedBar(co, palette, metrics)),
		},
		{
			Title:    "Active Days",
			Subtitle: "Distinct days with at least one commit, per top author.",
			Chart:    plotpage.WrapChart(activeDaysBar(co, palette, metrics)),
		},
		{
			Title:    "New Contributors",
			Subtitle: "First-time contributors arriving each month.",
			Chart:    plotpage.WrapChart(newContributorsLine(co, metrics)),
		},
	}, nil
}

func statsGrid(metrics Metrics) plotpage.Renderable {
	topName := "n/a"
	topShare := "n/a"

	if len(metrics.TopShare) > 0 {
		topName = metrics.TopShare[0].Name
		topShare = strconv.FormatFloat(metrics.TopShare[0].Share, 'f', 1, 64) + "%"
	}

	return plotpage.NewGrid(4,
		plotpage.NewStat("Contributors", strconv.Itoa(metrics.TotalContributors)),
		plotpage.NewStat("Commits", strconv.Itoa(metrics.TotalCommits)),
		plotpage.NewStat("Top author", topName),
		plotpage.NewStat("Top share", topShare),
	)
}

// topContributors returns the ranked head of the contributor list.
func topContributors(metrics Metrics) []Contributor {
	if len(metrics.Contributors) > topAuthorsLimit {
		return metrics.Contributors[:topAuthorsLimit]
	}

	return metrics.Contributors
}

// rankedBar renders a ranked per-author horizontal bar, largest on top.
func rankedBar(co *plotpage.ChartOpts, title, seriesName, color string,
	ranked []Contributor, value func(Contributor) int,
) plotpage.Renderable {
	if len(ranked) == 0 {
		return plotpage.BuildEmptyChart(co, title)
	}

	labels := make([]string, 0, len(ranked))
	values := make([]plotpage.SeriesData, 0, len(ranked))

	for i := len(ranked) - 1; i >= 0; i-- {
		labels = append(labels, ranked[i].Name)
		values = append(values, value(ranked[i]))
	}

	return plotpage.BuildHorizontalBarChart(co, labels,
		[]plotpage.BarSeries{{Name: seriesName, Data: values, Color: color}}, seriesName)
}

func topAuthorsBar(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	return rankedBar(co, "Top Authors", "Commits", palette.Primary[0],
		topContributors(metrics), func(c Contributor) int { return c.Commits })
}

func linesAddedBar(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	return rankedBar(co, "Lines Added", "Lines", palette.Semantic.Good,
		topContributors(metrics), func(c Contributor) int { return c.LinesAdded })
}

func activeDaysBar(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	return rankedBar(co, "Active Days", "Days", palette.Primary[5],
		topContributors(metrics), func(c Contributor) int { return c.ActiveDays })
}

func sharePie(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if len(metrics.TopShare) == 0 {
		return plotpage.BuildEmptyChart(co, "Author Share")
	}

	slices := make([]plotpage.PieSlice, 0, len(metrics.TopShare)+1)
	for _, share := range metrics.TopShare {
		slices = append(slices, plotpage.PieSlice{Name: share.Name, Value: share.Share})
	}

	if metrics.OthersShare > 0 {
		slices = append(slices, plotpage.PieSlice{Name: "others", Value: metrics.OthersShare})
	}

	return plotpage.BuildPieChart(co, "Share", slices)
}

func newContributorsLine(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if len(metrics.NewByMonth) == 0 {
		return plotpage.BuildEmptyChart(co, "New Contributors")
	}

	labels := make([]string, 0, len(metrics.NewByMonth))
	values := make([]plotpage.SeriesData, 0, len(metrics.NewByMonth))

	for _, point := range metrics.NewByMonth {
		labels = append(labels, point.Month)
		values = append(values, point.Count)
	}

	return plotpage.BuildLineChart(co, labels,
		[]plotpage.LineSeries{{Name: "New contributors", Data: values, Smooth: true}}, "Contributors")
}
