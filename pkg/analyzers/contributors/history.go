package contributors

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/gitmine"
)

// AnalyzerID is the registry identity of the contributors analyzer.
const AnalyzerID = "history/contributors"

const (
	// ConfigTopN is the configuration key for the share list size.
	ConfigTopN = "Contributors.TopN"

	// DefaultTopN bounds the share list out of the box.
	DefaultTopN = 10
)

// HistoryAnalyzer aggregates per-author statistics during the walk.
type HistoryAnalyzer struct {
	analyze.Base

	// TopN bounds the top-share list.
	TopN int

	ledger *Ledger
}

// NewHistoryAnalyzer creates a contributors analyzer with defaults applied.
func NewHistoryAnalyzer() *HistoryAnalyzer {
	return &HistoryAnalyzer{
		Base: analyze.Base{
			ID:    AnalyzerID,
			Brief: "Aggregates per-author commit volume, churn, and activity spans.",
			Options: []analyze.ConfigurationOption{
				{
					Name:        ConfigTopN,
					Description: "How many top contributors the share list covers.",
					Flag:        "top-n",
					Type:        analyze.IntConfigurationOption,
					Default:     DefaultTopN,
				},
			},
		},
		TopN:   DefaultTopN,
		ledger: NewLedger(),
	}
}

// Configure sets up the analyzer with the provided facts.
func (a *HistoryAnalyzer) Configure(facts map[string]any) error {
	a.TopN = analyze.FactInt(facts, ConfigTopN, a.TopN)

	return nil
}

// Initialize prepares the analyzer for a history walk.
func (a *HistoryAnalyzer) Initialize(_ *gitmine.Repository) error {
	a.ledger = NewLedger()

	return nil
}

// Consume folds one commit into its author's aggregate.
func (a *HistoryAnalyzer) Consume(commit *gitmine.CommitRecord) error {
	a.ledger.Add(commit)

	return nil
}

// Finalize ranks the ledger into the report.
func (a *HistoryAnalyzer) Finalize() (analyze.Report, error) {
	return analyze.EncodeReport(a.ledger.Result(a.TopN))
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

	if _, err := heading.Fprintln(writer, "Contributors"); err != nil {
		return fmt.Errorf("write heading: %w", err)
	}

	fmt.Fprintf(writer, "Contributors: %d  Commits: %d\n\n",
		metrics.TotalContributors, metrics.TotalCommits)

	if len(metrics.Contributors) == 0 {
		return nil
	}

	ranked := table.NewWriter()
	ranked.SetOutputMirror(writer)
	ranked.SetStyle(table.StyleLight)
	ranked.AppendHeader(table.Row{"Author", "Commits", "Added", "Deleted", "Active days"})

	rows := metrics.Contributors
	if len(rows) > DefaultTopN {
		rows = rows[:DefaultTopN]
	}

	for _, contributor := range rows {
		ranked.AppendRow(table.Row{
			contributor.Name,
			contributor.Commits,
			contributor.LinesAdded,
			contributor.LinesDeleted,
			contributor.ActiveDays,
		})
	}

	ranked.Render()

	return nil
}
