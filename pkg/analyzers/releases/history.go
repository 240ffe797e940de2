package releases

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/gitmine"
)

// AnalyzerID is the registry identity of the releases analyzer.
const AnalyzerID = "history/releases"

// timelineTableLimit caps the text rendering of the tag timeline.
const timelineTableLimit = 15

// HistoryAnalyzer reports on tags and branches. All data comes from refs at
// Initialize; the commit walk itself is ignored.
type HistoryAnalyzer struct {
	analyze.Base

	tags     []gitmine.TagRef
	branches []gitmine.BranchRef
}

// NewHistoryAnalyzer creates a releases analyzer.
func NewHistoryAnalyzer() *HistoryAnalyzer {
	return &HistoryAnalyzer{
		Base: analyze.Base{
			ID:    AnalyzerID,
			Brief: "Summarizes release cadence from tags and the branch structure.",
		},
	}
}

// Initialize loads the repository refs. A nil repository leaves the
// analyzer empty.
func (a *HistoryAnalyzer) Initialize(repo *gitmine.Repository) error {
	a.tags = nil
	a.branches = nil

	if repo == nil {
		return nil
	}

	tags, err := repo.Tags()
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}

	branches, err := repo.Branches()
	if err != nil {
		return fmt.Errorf("load branches: %w", err)
	}

	a.tags = tags
	a.branches = branches

	return nil
}

// Consume ignores commits; the analyzer only reads refs.
func (a *HistoryAnalyzer) Consume(_ *gitmine.CommitRecord) error {
	return nil
}

// Finalize summarizes the refs into the report.
func (a *HistoryAnalyzer) Finalize() (analyze.Report, error) {
	return analyze.EncodeReport(Summarize(a.tags, a.branches, time.Now()))
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

	if _, err := heading.Fprintln(writer, "Releases"); err != nil {
		return fmt.Errorf("write heading: %w", err)
	}

	fmt.Fprintf(writer, "Tags: %d  Branches: %d\n", metrics.TagCount, metrics.BranchCount)

	if metrics.TagCount == 0 {
		return nil
	}

	fmt.Fprintf(writer, "Latest: %s (%.0f days ago)\n", metrics.LatestTag, metrics.DaysSinceLast)

	if len(metrics.DaysBetween) > 0 {
		fmt.Fprintf(writer, "Gap between releases: mean %.1f days, median %.1f days\n",
			metrics.MeanDaysBetween, metrics.MedianDaysBetween)
	}

	fmt.Fprintln(writer)

	timeline := table.NewWriter()
	timeline.SetOutputMirror(writer)
	timeline.SetStyle(table.StyleLight)
	timeline.AppendHeader(table.Row{"Tag", "Date"})

	rows := metrics.Timeline
	if len(rows) > timelineTableLimit {
		// The newest tags are the interesting end of a long timeline.
		rows = rows[len(rows)-timelineTableLimit:]
	}

	for _, release := range rows {
		timeline.AppendRow(table.Row{release.Name, release.When.Format("2006-01-02")})
	}

	timeline.Render()

	return nil
}
