package sizes

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/scanner"
)

// AnalyzerID is the registry identity of the sizes analyzer.
const AnalyzerID = "static/sizes"

const (
	// ConfigLargestFiles is the configuration key for the ranking length.
	ConfigLargestFiles = "Sizes.LargestFiles"

	// DefaultLargestFiles is the largest-files ranking length in the report.
	DefaultLargestFiles = 15
)

// languageTableLimit caps the text rendering of the language histogram.
const languageTableLimit = 10

// StaticAnalyzer measures line and byte statistics over a scanned tree.
type StaticAnalyzer struct {
	analyze.Base

	// LargestFiles caps the largest-files ranking in the report.
	LargestFiles int
}

// NewStaticAnalyzer creates a sizes analyzer with defaults applied.
func NewStaticAnalyzer() *StaticAnalyzer {
	return &StaticAnalyzer{
		Base: analyze.Base{
			ID:    AnalyzerID,
			Brief: "Counts code, comment, and blank lines with language and size breakdowns.",
			Options: []analyze.ConfigurationOption{
				{
					Name:        ConfigLargestFiles,
					Description: "How many of the largest files the report keeps.",
					Flag:        "largest-files",
					Type:        analyze.IntConfigurationOption,
					Default:     DefaultLargestFiles,
				},
			},
		},
		LargestFiles: DefaultLargestFiles,
	}
}

// Configure sets up the analyzer with the provided facts.
func (a *StaticAnalyzer) Configure(facts map[string]any) error {
	a.LargestFiles = analyze.FactInt(facts, ConfigLargestFiles, a.LargestFiles)

	return nil
}

// Analyze measures the tree and shapes the report.
func (a *StaticAnalyzer) Analyze(tree *scanner.Tree) (analyze.Report, error) {
	return analyze.EncodeReport(Measure(context.Background(), tree, a.LargestFiles))
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

	if _, err := heading.Fprintln(writer, "Source Sizes"); err != nil {
		return fmt.Errorf("write heading: %w", err)
	}

	fmt.Fprintf(writer, "Files: %s  Lines: %s (code %s, comment %s, blank %s)\n",
		humanize.Comma(int64(metrics.TotalFiles)),
		humanize.Comma(int64(metrics.TotalLines)),
		humanize.Comma(int64(metrics.CodeLines)),
		humanize.Comma(int64(metrics.CommentLines)),
		humanize.Comma(int64(metrics.BlankLines)))
	fmt.Fprintf(writer, "Bytes: %s total  %s average  %s max\n\n",
		humanize.Bytes(uint64(metrics.TotalBytes)),
		humanize.Bytes(uint64(math.Round(metrics.AverageBytes))),
		humanize.Bytes(uint64(metrics.MaxBytes)))

	if metrics.TotalFiles == 0 {
		return nil
	}

	languages := table.NewWriter()
	languages.SetOutputMirror(writer)
	languages.SetStyle(table.StyleLight)
	languages.AppendHeader(table.Row{"Language", "Files", "Lines"})

	rows := metrics.Languages
	if len(rows) > languageTableLimit {
		rows = rows[:languageTableLimit]
	}

	for _, lang := range rows {
		languages.AppendRow(table.Row{lang.Language, lang.Files,
			humanize.Comma(int64(lang.Lines))})
	}

	languages.Render()

	if len(metrics.LargestFiles) == 0 {
		return nil
	}

	largest := table.NewWriter()
	largest.SetOutputMirror(writer)
	largest.SetStyle(table.StyleLight)
	largest.AppendHeader(table.Row{"File", "Size", "Lines"})

	for _, file := range metrics.LargestFiles {
		largest.AppendRow(table.Row{file.Path, humanize.Bytes(uint64(file.Bytes)),
			humanize.Comma(int64(file.Lines))})
	}

	largest.Render()

	return nil
}
