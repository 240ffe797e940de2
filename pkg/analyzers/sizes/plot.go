package sizes

import (
	"github.com/dustin/go-humanize"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/analyzers/common/plotpage"
)

const (
	extensionBarLimit = 12
	directoryBarLimit = 12
)

//nolint:gochecknoinits // dashboard section registration.
func init() {
	analyze.RegisterPlotSections(AnalyzerID, GenerateSections)
}

// GenerateSections builds the sizes dashboard: headline stats, language
// share, per-extension and per-directory volume, and the largest files.
func GenerateSections(report analyze.Report) ([]plotpage.Section, error) {
	metrics, err := analyze.DecodeReport[Metrics](report)
	if err != nil {
		return nil, err
	}

	co := plotpage.DefaultChartOpts()
	palette := plotpage.GetChartPalette(plotpage.ThemeLight)

	return []plotpage.Section{
		{
			Title: "Sizes at a Glance",
			Chart: statsGrid(metrics),
		},
		{
			Title:    "Language Share",
			Subtitle: "Lines of text per detected language.",
			Chart:    plotpage.WrapChart(languagePie(co, metrics)),
		},
		{
			Title:    "Lines by Extension",
			Subtitle: "Line volume per file extension.",
			Chart:    plotpage.WrapChart(extensionBar(co, palette, metrics)),
		},
		{
			Title:    "Largest Files",
			Subtitle: "The biggest files in the tree by size on disk.",
			Chart:    plotpage.WrapChart(largestFilesBar(co, palette, metrics)),
		},
		{
			Title:    "Lines by Directory",
			Subtitle: "Line volume per top-level directory.",
			Chart:    plotpage.WrapChart(directoryBar(co, palette, metrics)),
		},
	}, nil
}

func statsGrid(metrics Metrics) plotpage.Renderable {
	return plotpage.NewGrid(4,
		plotpage.NewStat("Files", humanize.Comma(int64(metrics.TotalFiles))),
		plotpage.NewStat("Lines", humanize.Comma(int64(metrics.TotalLines))),
		plotpage.NewStat("Code lines", humanize.Comma(int64(metrics.CodeLines))),
		plotpage.NewStat("On disk", humanize.Bytes(uint64(metrics.TotalBytes))),
	)
}

func languagePie(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	slices := make([]plotpage.PieSlice, 0, len(metrics.Languages))

	for _, lang := range metrics.Languages {
		if lang.Lines == 0 {
			continue
		}

		slices = append(slices, plotpage.PieSlice{Name: lang.Language, Value: lang.Lines})
	}

	if len(slices) == 0 {
		return plotpage.BuildEmptyChart(co, "Language Share")
	}

	return plotpage.BuildPieChart(co, "Lines", slices)
}

func extensionBar(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	ranked := metrics.Extensions
	if len(ranked) == 0 {
		return plotpage.BuildEmptyChart(co, "Lines by Extension")
	}

	if len(ranked) > extensionBarLimit {
		ranked = ranked[:extensionBarLimit]
	}

	labels := make([]string, 0, len(ranked))
	values := make([]plotpage.SeriesData, 0, len(ranked))

	for _, ext := range ranked {
		labels = append(labels, ext.Extension)
		values = append(values, ext.Lines)
	}

	return plotpage.BuildBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Lines", Data: values, Color: palette.Primary[2]}}, "Lines")
}

func largestFilesBar(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	ranked := metrics.LargestFiles
	if len(ranked) == 0 {
		return plotpage.BuildEmptyChart(co, "Largest Files")
	}

	// Fed ascending so the largest file renders on top.
	labels := make([]string, 0, len(ranked))
	values := make([]plotpage.SeriesData, 0, len(ranked))

	for i := len(ranked) - 1; i >= 0; i-- {
		labels = append(labels, ranked[i].Path)
		values = append(values, ranked[i].Bytes)
	}

	return plotpage.BuildHorizontalBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Bytes", Data: values, Color: palette.Primary[4]}}, "Bytes")
}

func directoryBar(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	ranked := metrics.Directories
	if len(ranked) == 0 {
		return plotpage.BuildEmptyChart(co, "Lines by Directory")
	}

	if len(ranked) > directoryBarLimit {
		ranked = ranked[:directoryBarLimit]
	}

	// Fed ascending so the largest directory renders on top.
	labels := make([]string, 0, len(ranked))
	values := make([]plotpage.SeriesData, 0, len(ranked))

	for i := len(ranked) - 1; i >= 0; i-- {
		labels = append(labels, ranked[i].Directory)
		values = append(values, ranked[i].Lines)
	}

	return plotpage.BuildHorizontalBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Lines", Data: values, Color: palette.Primary[8]}}, "Lines")
}
