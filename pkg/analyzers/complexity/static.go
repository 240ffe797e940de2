package complexity

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/scanner"
)

// AnalyzerID is the registry identity of the complexity analyzer.
const AnalyzerID = "static/complexity"

const (
	// ConfigThreshold is the configuration key for the hot-spot cutoff.
	ConfigThreshold = "Complexity.Threshold"

	// ConfigTopFunctions is the configuration key for the ranking length.
	ConfigTopFunctions = "Complexity.TopFunctions"

	// DefaultThreshold marks functions that need a second look.
	DefaultThreshold = 10

	// DefaultTopFunctions is the most-complex ranking length in the report.
	DefaultTopFunctions = 20
)

// textTableLimit caps the text rendering of the most complex functions.
const textTableLimit = 10

// StaticAnalyzer measures cyclomatic complexity over a scanned tree.
type StaticAnalyzer struct {
	analyze.Base

	// Threshold is the strictly-above cutoff for hot spots.
	Threshold int

	// TopFunctions caps the most-complex ranking in the report.
	TopFunctions int
}

// NewStaticAnalyzer creates a complexity analyzer with defaults applied.
func NewStaticAnalyzer() *StaticAnalyzer {
	return &StaticAnalyzer{
		Base: analyze.Base{
			ID:    AnalyzerID,
			Brief: "Measures per-function cyclomatic complexity and ranks the hot spots.",
			Options: []analyze.ConfigurationOption{
				{
					Name:        ConfigThreshold,
					Description: "Functions with complexity strictly above this count as hot spots.",
					Flag:        "threshold",
					Type:        analyze.IntConfigurationOption,
					Default:     DefaultThreshold,
				},
				{
					Name:        ConfigTopFunctions,
					Description: "How many of the most complex functions the report keeps.",
					Flag:        "top-functions",
					Type:        analyze.IntConfigurationOption,
					Default:     DefaultTopFunctions,
				},
			},
		},
		Threshold:    DefaultThreshold,
		TopFunctions: DefaultTopFunctions,
	}
}

// Configure sets up the analyzer with the provided facts.
func (a *StaticAnalyzer) Configure(facts map[string]any) error {
	a.Threshold = analyze.FactInt(facts, ConfigThreshold, a.Threshold)
	a.TopFunctions = analyze.FactInt(facts, ConfigTopFunctions, a.TopFunctions)

	return nil
}

// Analyze surveys the tree and shapes the report.
func (a *StaticAnalyzer) Analyze(tree *scanner.Tree) (analyze.Report, error) {
	records, analyzed := Survey(context.Background(), tree)

	return analyze.EncodeReport(Summarize(records, analyzed, a.Threshold, a.TopFunctions))
}

// Serialize writes a finalized report in the requested format.
func (a *StaticAnalyzer) Serialize(report analyze.Report, format string, writer io.Writer) error {
	if analyze.NormalizeFormat(format) == analyze.FormatText {
		return a.serializeText(report, writer)
	}

	return analyze.SerializeValue(report, format, writer)
}

func (a *StaticAnalyzer) serializeText(report analyze.Report, writer io.Writer) error {
	metrics, err := analyze.DecodeReport[Metrics](report)
	if err != nil {
		return err
	}

	heading := color.New(color.FgRed, color.Bold)

	if _, err := heading.Fprintln(writer, "Cyclomatic Complexity"); err != nil {
		return fmt.Errorf("write heading: %w", err)
	}

	fmt.Fprintf(writer, "Files: %d  Functions: %d  Average: %.2f  Max: %d\n",
		metrics.FilesAnalyzed, metrics.TotalFunctions,
		metrics.AverageComplexity, metrics.MaxComplexity)
	fmt.Fprintf(writer, "Above threshold (>%d): %d\n\n",
		metrics.Threshold, metrics.AboveThreshold)

	if metrics.TotalFunctions == 0 {
		return nil
	}

	ranks := table.NewWriter()
	ranks.SetOutputMirror(writer)
	ranks.SetStyle(table.StyleLight)
	ranks.AppendHeader(table.Row{"Rank", "Functions"})

	for _, rank := range rankOrder {
		ranks.AppendRow(table.Row{rank, metrics.RankHistogram[rank]})
	}

	ranks.Render()

	if len(metrics.TopFunctions) == 0 {
		return nil
	}

	rows := metrics.TopFunctions
	if len(rows) > textTableLimit {
		rows = rows[:textTableLimit]
	}

	top := table.NewWriter()
	top.SetOutputMirror(writer)
	top.SetStyle(table.StyleLight)
	top.AppendHeader(table.Row{"Function", "File", "Line", "Complexity", "Rank"})

	for _, fn := range rows {
		top.AppendRow(table.Row{fn.Name, fn.File, fn.Line, fn.Complexity, fn.Rank})
	}

	top.Render()

	return nil
}
