package issues

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/githubapi"
)

// AnalyzerID is the registry identity of the issues analyzer.
const AnalyzerID = "meta/issues"

// labelTableLimit caps the text rendering of the label histogram.
const labelTableLimit = 10

// MetaAnalyzer summarizes fetched issue and pull-request metadata.
type MetaAnalyzer struct {
	analyze.Base
}

// NewMetaAnalyzer creates an issues analyzer.
func NewMetaAnalyzer() *MetaAnalyzer {
	return &MetaAnalyzer{
		Base: analyze.Base{
			ID:    AnalyzerID,
			Brief: "Summarizes issue and pull-request lifecycle from fetched GitHub metadata.",
		},
	}
}

// Analyze shapes the report from fetched repository data.
func (a *MetaAnalyzer) Analyze(data *githubapi.RepositoryData) (analyze.Report, error) {
	if data == nil {
		data = &githubapi.RepositoryData{}
	}

	return analyze.EncodeReport(Summarize(data))
}

// Serialize writes a finalized report in the requested format.
func (a *MetaAnalyzer) Serialize(report analyze.Report, format string, writer io.Writer) error {
	if analyze.NormalizeFormat(format) == analyze.FormatText {
		return a.serializeText(report, writer)
	}

	return analyze.SerializeValue(report, format, writer)
}

func (a *MetaAnalyzer) serializeText(report analyze.Report, writer io.Writer) error {
	metrics, err := analyze.DecodeReport[Metrics](report)
	if err != nil {
		return err
	}

	heading := color.New(color.FgRed, color.Bold)

	if _, err := heading.Fprintln(writer, "Issues & Pull Requests"); err != nil {
		return fmt.Errorf("write heading: %w", err)
	}

	if metrics.Repo.FullName != "" {
		fmt.Fprintf(writer, "%s  Stars: %d  Forks: %d  Watchers: %d\n",
			metrics.Repo.FullName, metrics.Repo.Stars,
			metrics.Repo.Forks, metrics.Repo.Watchers)
	}

	fmt.Fprintf(writer, "Issues: %d open / %d closed  PRs: %d open / %d closed\n",
		metrics.IssuesOpen, metrics.IssuesClosed, metrics.PRsOpen, metrics.PRsClosed)

	if metrics.IssueCloseTime.Count > 0 {
		fmt.Fprintf(writer, "Issue close time: mean %.1f h, median %.1f h\n",
			metrics.IssueCloseTime.MeanHours, metrics.IssueCloseTime.MedianHours)
	}

	if metrics.PRLifecycle.Count > 0 {
		fmt.Fprintf(writer, "PR lifecycle: mean %.1f h, median %.1f h\n",
			metrics.PRLifecycle.MeanHours, metrics.PRLifecycle.MedianHours)
	}

	if len(metrics.Labels) == 0 {
		return nil
	}

	fmt.Fprintln(writer)

	labels := table.NewWriter()
	labels.SetOutputMirror(writer)
	labels.SetStyle(table.StyleLight)
	labels.AppendHeader(table.Row{"Label", "Count"})

	rows := metrics.Labels
	if len(rows) > labelTableLimit {
		rows = rows[:labelTableLimit]
	}

	for _, label := range rows {
		labels.AppendRow(table.Row{label.Label, label.Count})
	}

	labels.Render()

	return nil
}
