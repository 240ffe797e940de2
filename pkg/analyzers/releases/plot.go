package releases

import (
	"math"
	"sort"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/analyzers/common/plotpage"
)

const timelineSymbolSize = 12

//nolint:gochecknoinits // dashboard section registration.
func init() {
	analyze.RegisterPlotSections(AnalyzerID, GenerateSections)
}

// GenerateSections builds the releases dashboard: yearly cadence, gaps
// between releases, and the tag timeline.
func GenerateSections(report analyze.Report) ([]plotpage.Section, error) {
	metrics, err := analyze.DecodeReport[Metrics](report)
	if err != nil {
		return nil, err
	}

	co := plotpage.DefaultChartOpts()
	palette := plotpage.GetChartPalette(plotpage.ThemeLight)

	return []plotpage.Section{
		{
			Title:    "Releases per Year",
			Subtitle: "Tags cut per calendar year.",
			Chart:    plotpage.WrapChart(perYearBar(co, metrics)),
		},
		{
			Title:    "Days Between Releases",
			Subtitle: "Gap from each release to the one before it.",
			Chart:    plotpage.WrapChart(gapsLine(co, metrics)),
			Hint: plotpage.Hint{
				Title: "How to interpret:",
				Items: []string{
					"<strong>Flat and low</strong> = steady release cadence",
					"<strong>Spikes</strong> = stalled periods before a release",
				},
			},
		},
		{
			Title:    "Tag Timeline",
			Subtitle: "Every release in order, positioned by date.",
			Chart:    plotpage.WrapChart(timelineScatter(co, palette, metrics)),
		},
	}, nil
}

func perYearBar(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if len(metrics.PerYear) == 0 {
		return plotpage.BuildEmptyChart(co, "Releases per Year")
	}

	labels := make([]string, 0, len(metrics.PerYear))
	for year := range metrics.PerYear {
		labels = append(labels, year)
	}

	sort.Strings(labels)

	values := make([]plotpage.SeriesData, 0, len(labels))
	for _, year := range labels {
		values = append(values, metrics.PerYear[year])
	}

	return plotpage.BuildBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Releases", Data: values}}, "Releases")
}

func gapsLine(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if len(metrics.DaysBetween) == 0 {
		return plotpage.BuildEmptyChart(co, "Days Between Releases")
	}

	// Each gap is labeled by the release that closed it.
	labels := make([]string, 0, len(metrics.DaysBetween))
	values := make([]plotpage.SeriesData, 0, len(metrics.DaysBetween))

	for idx, gap := range metrics.DaysBetween {
		if idx+1 >= len(metrics.Timeline) {
			break
		}

		labels = append(labels, metrics.Timeline[idx+1].Name)
		values = append(values, math.Round(gap*10)/10)
	}

	return plotpage.BuildLineChart(co, labels,
		[]plotpage.LineSeries{{Name: "Days", Data: values, Smooth: true}}, "Days")
}

func timelineScatter(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	if len(metrics.Timeline) == 0 {
		return plotpage.BuildEmptyChart(co, "Tag Timeline")
	}

	points := make([]plotpage.ScatterPoint, 0, len(metrics.Timeline))
	for idx, release := range metrics.Timeline {
		points = append(points, plotpage.ScatterPoint{
			Value:      []any{release.When.Format("2006-01-02"), idx + 1, release.Name},
			SymbolSize: timelineSymbolSize,
		})
	}

	return plotpage.BuildScatterChart(co, "Releases", "Date", "Release #", points, palette.Primary[0])
}
