package classify

import (
	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/analyzers/common/plotpage"
)

//nolint:gochecknoinits // dashboard section registration.
func init() {
	analyze.RegisterPlotSections(AnalyzerID, GenerateSections)
}

// GenerateSections builds the classify dashboard: category distribution,
// percentages, top words, convention patterns, and sentiment.
func GenerateSections(report analyze.Report) ([]plotpage.Section, error) {
	metrics, err := analyze.DecodeReport[Metrics](report)
	if err != nil {
		return nil, err
	}

	co := plotpage.DefaultChartOpts()
	palette := plotpage.GetChartPalette(plotpage.ThemeLight)

	return []plotpage.Section{
		{
			Title:    "Change Categories",
			Subtitle: "Distribution of commits across inferred change categories.",
			Chart:    plotpage.WrapChart(categoryPie(co, metrics)),
			Hint: plotpage.Hint{
				Title: "How to interpret:",
				Items: []string{
					"<strong>feat heavy</strong> = active feature development",
					"<strong>fix heavy</strong> = stabilization or firefighting",
					"<strong>other heavy</strong> = messages too free-form to classify",
				},
			},
		},
		{
			Title:    "Category Shares",
			Subtitle: "Percentage of commits per category.",
			Chart:    plotpage.WrapChart(percentagesBar(co, metrics)),
		},
		{
			Title:    "Top Words",
			Subtitle: "Most frequent words across commit messages, stopwords removed.",
			Chart:    plotpage.WrapChart(topWordsCloud(co, metrics)),
		},
		{
			Title:    "Message Patterns",
			Subtitle: "Commit message conventions, each message counted once.",
			Chart:    plotpage.WrapChart(patternsBar(co, metrics)),
			Hint: plotpage.Hint{
				Title: "How to interpret:",
				Items: []string{
					"<strong>Conventional</strong> = structured prefixes like feat: or fix(scope)",
					"<strong>Imperative / Past tense</strong> = capitalized opening verbs",
					"<strong>With issue</strong> = references a #123-style issue",
				},
			},
		},
		{
			Title:    "Message Sentiment",
			Subtitle: "VADER compound score buckets over all messages.",
			Chart:    plotpage.WrapChart(sentimentBar(co, palette, metrics)),
		},
	}, nil
}

// categoryOrder returns the categories present in the report, table order
// first, "other" last.
func categoryOrder(metrics Metrics) []Category {
	order := make([]Category, 0, len(metrics.TypeDistribution))

	for _, entry := range Table {
		if _, found := metrics.TypeDistribution[entry.Category]; found {
			order = append(order, entry.Category)
		}
	}

	if _, found := metrics.TypeDistribution[CategoryOther]; found {
		order = append(order, CategoryOther)
	}

	return order
}

func categoryPie(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	order := categoryOrder(metrics)
	if len(order) == 0 {
		return plotpage.BuildEmptyChart(co, "Change Categories")
	}

	slices := make([]plotpage.PieSlice, 0, len(order))
	for _, category := range order {
		slices = append(slices, plotpage.PieSlice{
			Name:  string(category),
			Value: metrics.TypeDistribution[category],
		})
	}

	return plotpage.BuildPieChart(co, "Categories", slices)
}

func percentagesBar(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	order := categoryOrder(metrics)
	if len(order) == 0 {
		return plotpage.BuildEmptyChart(co, "Category Shares")
	}

	labels := make([]string, 0, len(order))
	values := make([]plotpage.SeriesData, 0, len(order))

	for _, category := range order {
		labels = append(labels, string(category))
		values = append(values, metrics.TypePercentages[category])
	}

	return plotpage.BuildBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Share", Data: values}}, "Percent")
}

func topWordsCloud(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if len(metrics.TopWords) == 0 {
		return plotpage.BuildEmptyChart(co, "Top Words")
	}

	words := make([]plotpage.WordCount, 0, len(metrics.TopWords))
	for _, word := range metrics.TopWords {
		words = append(words, plotpage.WordCount{Word: word.Word, Count: word.Count})
	}

	return plotpage.BuildWordCloudChart(co, "Words", words)
}

func patternsBar(co *plotpage.ChartOpts, metrics Metrics) plotpage.Renderable {
	if metrics.TotalCommits == 0 {
		return plotpage.BuildEmptyChart(co, "Message Patterns")
	}

	labels := []string{"conventional", "imperative", "past tense", "with issue", "merge", "other"}
	values := []plotpage.SeriesData{
		metrics.Patterns.Conventional,
		metrics.Patterns.Imperative,
		metrics.Patterns.PastTense,
		metrics.Patterns.WithIssue,
		metrics.Patterns.Merge,
		metrics.Patterns.Other,
	}

	return plotpage.BuildBarChart(co, labels,
		[]plotpage.BarSeries{{Name: "Messages", Data: values}}, "Messages")
}

func sentimentBar(co *plotpage.ChartOpts, palette plotpage.ChartPalette, metrics Metrics) plotpage.Renderable {
	if metrics.Sentiment == nil || metrics.TotalCommits == 0 {
		return plotpage.BuildEmptyChart(co, "Message Sentiment")
	}

	labels := []string{"positive", "neutral", "negative"}
	series := []plotpage.BarSeries{
		{
			Name: "Messages",
			Data: []plotpage.SeriesData{
				metrics.Sentiment.Positive,
				metrics.Sentiment.Neutral,
				metrics.Sentiment.Negative,
			},
			Color: palette.Semantic.Good,
		},
	}

	return plotpage.BuildBarChart(co, labels, series, "Messages")
}
