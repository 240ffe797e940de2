package activity

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/gitmine"
)

// AnalyzerID is the registry identity of the activity analyzer.
const AnalyzerID = "history/activity"

// HistoryAnalyzer buckets every consumed commit into calendar dimensions.
type HistoryAnalyzer struct {
	analyze.Base

	tally *Tally
}

// NewHistoryAnalyzer creates an activity analyzer.
func NewHistoryAnalyzer() *HistoryAnalyzer {
	return &HistoryAnalyzer{
		Base: analyze.Base{
			ID:    AnalyzerID,
			Brief: "Buckets commit history by year, month, hour, weekday, and message length.",
		},
		tally: NewTally(),
	}
}

// Initialize prepares the analyzer for a history walk.
func (a *HistoryAnalyzer) Initialize(_ *gitmine.Repository) error {
	a.tally = NewTally()

	return nil
}

// Consume buckets one commit.
func (a *HistoryAnalyzer) Consume(commit *gitmine.CommitRecord) error {
	a.tally.Add(commit)

	return nil
}

// Finalize shapes the accumulated buckets into the report.
func (a *HistoryAnalyzer) Finalize() (analyze.Report, error) {
	return analyze.EncodeReport(a.tally.Result())
}

// Serialize writes a finalized report in the requested format.
func (a *HistoryAnalyzer) Serialize(report analyze.Report, format string, writer io.Writer) error {
	if analyze.NormalizeFormat(format) == analyze.FormatText {
		return a.serializeText(report, writer)
	}

	return analyze.SerializeValue(report, format, writer)
}

func (a *HistoryAnalyzer) serializeText(report analyze.Report, writer io.Writer) error {
	metrics, err := analyze.DecodeReport[Metrics](report)
	if err != nil {
		return err
	}

	heading := color.New(color.FgRed, color.Bold)

	if _, err := heading.Fprintln(writer, "Commit Activity"); err != nil {
		return fmt.Errorf("write heading: %w", err)
	}

	fmt.Fprintf(writer, "Commits: %d\n", metrics.TotalCommits)

	if metrics.TotalCommits == 0 {
		return nil
	}

	fmt.Fprintf(writer, "Span: %s to %s\n",
		metrics.FirstCommit.Format("2006-01-02"), metrics.LastCommit.Format("2006-01-02"))
	fmt.Fprintf(writer, "Busiest: %s, %02d:00\n\n", metrics.BusiestDay, metrics.BusiestHour)

	years := table.NewWriter()
	years.SetOutputMirror(writer)
	years.SetStyle(table.StyleLight)
	years.AppendHeader(table.Row{"Year", "Commits"})

	for _, year := range sortedKeys(metrics.PerYear) {
		years.AppendRow(table.Row{year, metrics.PerYear[year]})
	}

	years.Render()

	fmt.Fprintln(writer)

	weekdays := table.NewWriter()
	weekdays.SetOutputMirror(writer)
	weekdays.SetStyle(table.StyleLight)
	weekdays.AppendHeader(table.Row{"Weekday", "Commits"})

	for _, label := range weekdayLabels {
		weekdays.AppendRow(table.Row{label, metrics.PerWeekday[label]})
	}

	weekdays.Render()

	return nil
}
