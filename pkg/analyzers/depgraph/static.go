package depgraph

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/scanner"
)

// AnalyzerID is the registry identity of the depgraph analyzer.
const AnalyzerID = "static/depgraph"

const (
	// ConfigMaxGraphNodes is the configuration key for the network chart cap.
	ConfigMaxGraphNodes = "Depgraph.MaxGraphNodes"

	// DefaultMaxGraphNodes keeps the network chart legible on large trees.
	DefaultMaxGraphNodes = 50
)

// unresolvedTableLimit caps the text rendering of unresolved imports.
const unresolvedTableLimit = 20

// Metrics is the full depgraph report. MaxGraphNodes rides along so the
// dashboard renders the network with the cap the run was configured with.
type Metrics struct {
	Nodes           []string           `json:"nodes"`
	Edges           []Edge             `json:"edges"`
	Stats           Stats              `json:"stats"`
	Unresolved      []UnresolvedImport `json:"unresolved"`
	UnresolvedCount int                `json:"unresolved_count"`
	MaxGraphNodes   int                `json:"max_graph_nodes"`
}

// StaticAnalyzer builds the import graph over a scanned tree.
type StaticAnalyzer struct {
	analyze.Base

	// MaxGraphNodes caps the dependency network chart node count.
	MaxGraphNodes int
}

// NewStaticAnalyzer creates a depgraph analyzer with defaults applied.
func NewStaticAnalyzer() *StaticAnalyzer {
	return &StaticAnalyzer{
		Base: analyze.Base{
			ID:    AnalyzerID,
			Brief: "Builds the file-to-file import graph and its density and centrality statistics.",
			Options: []analyze.ConfigurationOption{
				{
					Name:        ConfigMaxGraphNodes,
					Description: "How many of the most connected files the network chart draws.",
					Flag:        "max-graph-nodes",
					Type:        analyze.IntConfigurationOption,
					Default:     DefaultMaxGraphNodes,
				},
			},
		},
		MaxGraphNodes: DefaultMaxGraphNodes,
	}
}

// Configure sets up the analyzer with the provided facts.
func (a *StaticAnalyzer) Configure(facts map[string]any) error {
	a.MaxGraphNodes = analyze.FactInt(facts, ConfigMaxGraphNodes, a.MaxGraphNodes)

	return nil
}

// Analyze builds the graph and shapes the report.
func (a *StaticAnalyzer) Analyze(tree *scanner.Tree) (analyze.Report, error) {
	graph, unresolved := BuildGraph(context.Background(), tree)

	total := 0
	for _, imp := range unresolved {
		total += imp.Count
	}

	return analyze.EncodeReport(Metrics{
		Nodes:           graph.Nodes(),
		Edges:           graph.Edges(),
		Stats:           graph.Stats(),
		Unresolved:      unresolved,
		UnresolvedCount: total,
		MaxGraphNodes:   a.MaxGraphNodes,
	})
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

	if _, err := heading.Fprintln(writer, "Import Graph"); err != nil {
		return fmt.Errorf("write heading: %w", err)
	}

	fmt.Fprintf(writer, "Files: %d  Edges: %d  Density: %.4f  Avg degree: %.2f\n\n",
		metrics.Stats.NodeCount, metrics.Stats.EdgeCount,
		metrics.Stats.Density, metrics.Stats.AverageDegree)

	if len(metrics.Stats.TopCentrality) > 0 {
		central := table.NewWriter()
		central.SetOutputMirror(writer)
		central.SetStyle(table.StyleLight)
		central.AppendHeader(table.Row{"File", "Degree", "Centrality"})

		for _, entry := range metrics.Stats.TopCentrality {
			central.AppendRow(table.Row{entry.File, entry.Degree,
				fmt.Sprintf("%.3f", entry.Centrality)})
		}

		central.Render()
	}

	if len(metrics.Unresolved) > 0 {
		fmt.Fprintf(writer, "\nUnresolved imports: %d\n", metrics.UnresolvedCount)

		rows := metrics.Unresolved
		if len(rows) > unresolvedTableLimit {
			rows = rows[:unresolvedTableLimit]
		}

		unresolvedTable := table.NewWriter()
		unresolvedTable.SetOutputMirror(writer)
		unresolvedTable.SetStyle(table.StyleLight)
		unresolvedTable.AppendHeader(table.Row{"Import", "Files"})

		for _, imp := range rows {
			unresolvedTable.AppendRow(table.Row{imp.Name, imp.Count})
		}

		unresolvedTable.Render()
	}

	return nil
}
