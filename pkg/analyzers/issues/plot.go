package issues

import (
	"math"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/analyzers/common/plotpage"
)

//nolint:gochecknoinits // dashboard section registration.
func init() {
	analyze.RegisterPlotSections(AnalyzerID, GenerateSections)
}

// GenerateSections builds the issues dashboard: headline stats, state split,
// monthly flow, close-time buckets, labels, PR sizes, and lifecycle stats.
func GenerateSections(report analyze.Report) ([]plotpage.Section, error) {
	metrics, err := analyze.DecodeReport[Metrics](report)
	if err != nil {
		return nil, err
	}

	co := plotpage.DefaultChartOpts()
	palette := plotpage.GetChartPalette(plotpage.ThemeLight)

	return []plotpage.Section{
		{
			Title: "Repository at a Glance",
			Chart: statsGrid(metrics),
		},
		{
			Title:    "Open vs Closed",
			Subtitle: "State split across issues and pull requests.",
			Chart:    plotpage.WrapChart(statePie(co, palette, metrics)),
		},
		{
			Title:    "Issues per Month",
			Subtitle: "Issues opened and closed each month.",
			Chart:    plotpage.WrapChart(flowLine(co, palette, metrics)),
		},
		{
			Title:    "Close Time",
			Subtitle: "How long closed issues stayed open.",
			Chart:    plotpage.WrapChart(closeBucketBar(co, palette, metrics)),
			Hint: plotpage.Hint{
				Title: "How to interpret:",
				Items: []string{
					"<strong>Left-heavy</strong> = issues close quickly",
					"<strong>90+ days</strong> = a backlog that lingers",
				},
			},
		},
		{
			Title:    "Top Labels",
			Subtitle: "The most used labels across issues and pull requests.",
			Chart:    plotpage.WrapChart(labelsBar(co, palette, metrics)),
		},
		{
			Title:    "Pull Request Sizes",
			Subtitle: "PRs bucketed by total churn; unknown means no diff stats were fetched.",
			Chart:    plotpage.WrapChart(sizePie(co, palette, metrics)),
		},
		{
			Title:    "Lifecycle in Hours",
			Subtitle: "Close-time statistics for issues next to pull requests.",
			Chart:    plotpage.WrapChart(lifecycleBar(co, palette, metrics)),
		},
	}, nil
}

func statsGrid(metrics Metrics) plotpage.Renderable {
	return plotpage.NewGrid(4,
		plotpage.NewStat("Stars", humanize.Comma(int64(metrics.Repo.Stars))),
		plotpage.NewStat("Forks", humanize.Comma(int64(metrics.Repo.Forks))),
		plotpage.NewStat("Watchers", humanize.Comma(int64(metrics.Repo.Watchers))),
		plotpage.NewStat("Open issues", humanize.Comma(int64(metrics.IssuesOpen))),
	)
}

func statePie(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	type slice struct {
		name  string
		count int
		color string
	}

	candidates := []slice{
		{"Open issues", metrics.IssuesOpen, palette.Semantic.Warning},
		{"Closed issues", metrics.IssuesClosed, palette.Semantic.Good},
		{"Open PRs", metrics.PRsOpen, palette.Primary[3]},
		{"Closed PRs", metrics.PRsClosed, palette.Primary[1]},
	}

	slices := make([]plotpage.PieSlice, 0, len(candidates))

	for _, candidate := range candidates {
		if candidate.count == 0 {
			continue
		}

		slices = append(slices, plotpage.PieSlice{
			Name:  candidate.name,
			Value: candidate.count,
			Color: candidate.color,
		})
	}

	if len(slices) == 0 {
		return plotpage.BuildEmptyChart(co, "Open vs Closed")
	}

	return plotpage.BuildPieChart(co, "State", slices)
}

func flowLine(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	labels := monthLabels(metrics)
	if len(labels) == 0 {
		return plotpage.BuildEmptyChart(co, "Issues per Month")
	}

	return plotpage.BuildLineChart(co, labels, []plotpage.LineSeries{
		{Name: "Opened", Data: monthValues(labels, metrics.OpenedByMonth),
			Color: palette.Semantic.Warning, Smooth: true},
		{Name: "Closed", Data: monthValues(labels, metrics.ClosedByMonth),
			Color: palette.Semantic.Good, Smooth: true},
	}, "Issues")
}

// monthLabels merges both month series into one sorted axis.
func monthLabels(metrics Metrics) []string {
	seen := make(map[string]struct{})

	for _, point := range metrics.OpenedByMonth {
		seen[point.Month] = struct{}{}
	}

	for _, point := range metrics.ClosedByMonth {
		seen[point.Month] = struct{}{}
	}

	labels := make([]string, 0, len(seen))
	for month := range seen {
		labels = append(labels, month)
	}

	sort.Strings(labels)

	return labels
}

func monthValues(labels []string, series []MonthCount) []plotpage.SeriesData {
	counts := make(map[string]int, len(series))
	for _, point := range series {
		counts[point.Month] = point.Count
	}

	values := make([]plotpage.SeriesData, 0, len(labels))
	for _, month := range labels {
		values = append(values, counts[month])
	}

	return values
}

func closeBucketBar(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	if metrics.IssueCloseTime.Count == 0 || len(metrics.CloseBuckets) == 0 {
		return plotpage.BuildEmptyChart(co, "Close Time")
	}

	labels := make([]string, 0, len(metrics.CloseBuckets))
	values := make([]plotpage.SeriesData, 0, len(metrics.CloseBuckets))

	for _, bucket := range metrics.CloseBuckets {
		labels = append(labels, bucket.Bucket)
		values = append(values, bucket.Count)
	}

	return plotpage.BuildBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Issues", Data: values, Color: palette.Primary[2]}}, "Issues")
}

func labelsBar(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	ranked := metrics.Labels
	if len(ranked) == 0 {
		return plotpage.BuildEmptyChart(co, "Top Labels")
	}

	// Fed ascending so the most used label renders on top.
	labels := make([]string, 0, len(ranked))
	values := make([]plotpage.SeriesData, 0, len(ranked))

	for i := len(ranked) - 1; i >= 0; i-- {
		labels = append(labels, ranked[i].Label)
		values = append(values, ranked[i].Count)
	}

	return plotpage.BuildHorizontalBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Count", Data: values, Color: palette.Primary[0]}}, "Count")
}

func sizePie(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	colors := map[string]string{
		"small":   palette.Semantic.Good,
		"medium":  palette.Primary[9],
		"large":   palette.Semantic.Bad,
		"unknown": palette.Primary[4],
	}

	slices := make([]plotpage.PieSlice, 0, len(sizeBuckets))

	for _, bucket := range sizeBuckets {
		count := metrics.PRSizes[bucket]
		if count == 0 {
			continue
		}

		slices = append(slices, plotpage.PieSlice{
			Name:  bucket,
			Value: count,
			Color: colors[bucket],
		})
	}

	if len(slices) == 0 {
		return plotpage.BuildEmptyChart(co, "Pull Request Sizes")
	}

	return plotpage.BuildPieChart(co, "PRs", slices)
}

func lifecycleBar(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	if metrics.IssueCloseTime.Count == 0 && metrics.PRLifecycle.Count == 0 {
		return plotpage.BuildEmptyChart(co, "Lifecycle in Hours")
	}

	labels := []string{"Mean", "Median", "Min", "Max"}

	return plotpage.BuildBarChart(co, labels, []plotpage.BarSeries{
		{Name: "Issues", Data: durationValues(metrics.IssueCloseTime), Color: palette.Primary[0]},
		{Name: "Pull requests", Data: durationValues(metrics.PRLifecycle), Color: palette.Primary[1]},
	}, "Hours")
}

func durationValues(stats DurationStats) []plotpage.SeriesData {
	round := func(hours float64) plotpage.SeriesData {
		return math.Round(hours*10) / 10
	}

	return []plotpage.SeriesData{
		round(stats.MeanHours),
		round(stats.MedianHours),
		round(stats.MinHours),
		round(stats.MaxHours),
	}
}
