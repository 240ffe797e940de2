package activity

import (
	"fmt"
	"strconv"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/analyzers/common/plotpage"
)

//nolint:gochecknoinits // dashboard section registration.
func init() {
	analyze.RegisterPlotSections(AnalyzerID, GenerateSections)
}

// GenerateSections builds the activity dashboard: headline stats plus the
// calendar breakdowns of commit history.
func GenerateSections(report analyze.Report) ([]plotpage.Section, error) {
	metrics, err := analyze.DecodeReport[Metrics](report)
	if err != nil {
		return nil, err
	}

	co := plotpage.DefaultChartOpts()
	palette := plotpage.GetChartPalette(plotpage.ThemeLight)

	return []plotpage.Section{
		{
			Title: "Activity at a Glance",
			Chart: statsGrid(metrics),
		},
		{
			Title:    "Commits by Year",
			Subtitle: "Commit volume per calendar year.",
			Chart:    plotpage.WrapChart(yearBar(co, metrics)),
		},
		{
			Title:    "Commits by Month",
			Subtitle: "Monthly volume over the whole history, zoomable.",
			Chart:    plotpage.WrapChart(monthLine(co, metrics)),
		},
		{
			Title:    "Cumulative Commits",
			Subtitle: "Running total of commits month over month.",
			Chart:    plotpage.WrapChart(cumulativeArea(co, metrics)),
		},
		{
			Title:    "Commits by Hour",
			Subtitle: "When in the day commits land, committer local time.",
			Chart:    plotpage.WrapChart(hourBar(co, metrics)),
		},
		{
			Title:    "Commits by Weekday",
			Subtitle: "Weekly rhythm of the project.",
			Chart:    plotpage.WrapChart(weekdayBar(co, metrics)),
		},
		{
			Title:    "Commit Heatmap",
			Subtitle: "Weekday and hour combined.",
			Chart:    plotpage.WrapChart(weekdayHourHeatmap(co, metrics)),
			Hint: plotpage.Hint{
				Title: "How to interpret:",
				Items: []string{
					"<strong>Weekday rows</strong> against hour-of-day columns",
					"<strong>Hot cells off working hours</strong> = automation or a distributed team",
				},
			},
		},
		{
			Title:    "Monthly Churn",
			Subtitle: "Lines added and removed per month.",
			Chart:    plotpage.WrapChart(churnBars(co, palette, metrics)),
		},
		{
			Title:    "Message Lengths",
			Subtitle: "Commit message length distribution in characters.",
			Chart:    plotpage.WrapChart(lengthHistogram(co, metrics)),
		},
	}, nil
}

func statsGrid(metrics Metrics) plotpage.Renderable {
	span := "n/a"
	if metrics.FirstCommit != nil && metrics.LastCommit != nil {
		span = fmt.Sprintf("%s → %s",
			metrics.FirstCommit.Format("2006-01-02"), metrics.LastCommit.Format("2006-01-02"))
	}

	busiest := "n/a"
	if metrics.TotalCommits > 0 {
		busiest = fmt.Sprintf("%s %02d:00", metrics.BusiestDay, metrics.BusiestHour)
	}

	return plotpage.NewGrid(4,
		plotpage.NewStat("Commits", strconv.Itoa(metrics.TotalCommits)),
		plotpage.NewStat("Active months", strconv.Itoa(len(metrics.PerMonth))),
		plotpage.NewStat("Span", span),
		plotpage.NewStat("Busiest", busiest),
	)
}

func yearBar(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if len(metrics.PerYear) == 0 {
		return plotpage.BuildEmptyChart(co, "Commits by Year")
	}

	labels := sortedKeys(metrics.PerYear)

	values := make([]plotpage.SeriesData, 0, len(labels))
	for _, year := range labels {
		values = append(values, metrics.PerYear[year])
	}

	return plotpage.BuildBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Commits", Data: values}}, "Commits")
}

func monthLine(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if len(metrics.PerMonth) == 0 {
		return plotpage.BuildEmptyChart(co, "Commits by Month")
	}

	labels := sortedKeys(metrics.PerMonth)

	values := make([]plotpage.SeriesData, 0, len(labels))
	for _, month := range labels {
		values = append(values, metrics.PerMonth[month])
	}

	return plotpage.BuildLineChart(co, labels,
		[]plotpage.LineSeries{{Name: "Commits", Data: values, Smooth: true}}, "Commits")
}

func cumulativeArea(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if len(metrics.CumulativeByMonth) == 0 {
		return plotpage.BuildEmptyChart(co, "Cumulative Commits")
	}

	labels := make([]string, 0, len(metrics.CumulativeByMonth))
	values := make([]plotpage.SeriesData, 0, len(metrics.CumulativeByMonth))

	for _, point := range metrics.CumulativeByMonth {
		labels = append(labels, point.Month)
		values = append(values, point.Commits)
	}

	series := []plotpage.LineSeries{{
		Name:        "Total commits",
		Data:        values,
		AreaOpacity: 0.35,
		Smooth:      true,
	}}

	return plotpage.BuildLineChart(co, labels, series, "Commits")
}

func hourBar(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if metrics.TotalCommits == 0 {
		return plotpage.BuildEmptyChart(co, "Commits by Hour")
	}

	labels := make([]string, hoursPerDay)
	values := make([]plotpage.SeriesData, hoursPerDay)

	for hour := range hoursPerDay {
		labels[hour] = fmt.Sprintf("%02d", hour)
		values[hour] = metrics.PerHour[hour]
	}

	return plotpage.BuildBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Commits", Data: values}}, "Commits")
}

func weekdayBar(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if metrics.TotalCommits == 0 {
		return plotpage.BuildEmptyChart(co, "Commits by Weekday")
	}

	labels := WeekdayLabels()

	values := make([]plotpage.SeriesData, len(labels))
	for idx, label := range labels {
		values[idx] = metrics.PerWeekday[label]
	}

	return plotpage.BuildBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Commits", Data: values}}, "Commits")
}

func weekdayHourHeatmap(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if metrics.TotalCommits == 0 {
		return plotpage.BuildEmptyChart(co, "Commit Heatmap")
	}

	hours := make([]string, hoursPerDay)
	for hour := range hoursPerDay {
		hours[hour] = fmt.Sprintf("%02d", hour)
	}

	maxCount := 0

	cells := make([]plotpage.HeatCell, 0, daysPerWeek*hoursPerDay)

	for day := range daysPerWeek {
		for hour := range hoursPerDay {
			count := metrics.WeekdayHour[day][hour]
			if count > maxCount {
				maxCount = count
			}

			cells = append(cells, plotpage.HeatCell{X: hour, Y: day, Value: count})
		}
	}

	return plotpage.BuildHeatMapChart(co, "Commits", hours, WeekdayLabels(), cells, float32(maxCount))
}

func churnBars(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	if len(metrics.ChurnByMonth) == 0 {
		return plotpage.BuildEmptyChart(co, "Monthly Churn")
	}

	labels := make([]string, 0, len(metrics.ChurnByMonth))
	insertions := make([]plotpage.SeriesData, 0, len(metrics.ChurnByMonth))
	deletions := make([]plotpage.SeriesData, 0, len(metrics.ChurnByMonth))

	for _, point := range metrics.ChurnByMonth {
		labels = append(labels, point.Month)
		insertions = append(insertions, point.Insertions)
		deletions = append(deletions, point.Deletions)
	}

	series := []plotpage.BarSeries{
		{Name: "Insertions", Data: insertions, Color: palette.Semantic.Good},
		{Name: "Deletions", Data: deletions, Color: palette.Semantic.Bad},
	}

	return plotpage.BuildBarChart(co, labels, series, "Lines")
}

func lengthHistogram(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if metrics.TotalCommits == 0 {
		return plotpage.BuildEmptyChart(co, "Message Lengths")
	}

	labels := make([]string, 0, len(metrics.MessageLengths))
	values := make([]plotpage.SeriesData, 0, len(metrics.MessageLengths))

	for _, bin := range metrics.MessageLengths {
		labels = append(labels, bin.Label)
		values = append(values, bin.Count)
	}

	return plotpage.BuildBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Messages", Data: values}}, "Messages")
}
