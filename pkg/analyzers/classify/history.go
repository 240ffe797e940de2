package classify

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/gitmine"
)

// AnalyzerID is the registry identity of the classify analyzer.
const AnalyzerID = "history/classify"

const (
	// ConfigSentiment is the configuration key toggling VADER scoring.
	ConfigSentiment = "Classify.Sentiment"

	// DefaultSentiment enables sentiment scoring out of the box.
	DefaultSentiment = true
)

// Metrics is the full classify report: the batch classification plus the
// convention patterns, referenced issues, and optional sentiment.
type Metrics struct {
	ClassificationResult

	Patterns         PatternCounts     `json:"patterns"`
	ReferencedIssues []int             `json:"referenced_issues"`
	Sentiment        *SentimentSummary `json:"sentiment,omitempty"`
}

// HistoryAnalyzer accumulates commit messages during the walk and classifies
// the whole batch at Finalize.
type HistoryAnalyzer struct {
	analyze.Base

	// Sentiment toggles VADER scoring over the batch.
	Sentiment bool

	messages []string
}

// NewHistoryAnalyzer creates a classify analyzer with defaults applied.
func NewHistoryAnalyzer() *HistoryAnalyzer {
	return &HistoryAnalyzer{
		Base: analyze.Base{
			ID:    AnalyzerID,
			Brief: "Classifies commit messages into change categories and aggregates message statistics.",
			Options: []analyze.ConfigurationOption{
				{
					Name:        ConfigSentiment,
					Description: "Score batch sentiment over commit messages.",
					Flag:        "sentiment",
					Type:        analyze.BoolConfigurationOption,
					Default:     DefaultSentiment,
				},
			},
		},
		Sentiment: DefaultSentiment,
	}
}

// Configure sets up the analyzer with the provided facts.
func (a *HistoryAnalyzer) Configure(facts map[string]any) error {
	a.Sentiment = analyze.FactBool(facts, ConfigSentiment, a.Sentiment)

	return nil
}

// Initialize prepares the analyzer for a history walk.
func (a *HistoryAnalyzer) Initialize(_ *gitmine.Repository) error {
	a.messages = a.messages[:0]

	return nil
}

// Consume records one commit's message.
func (a *HistoryAnalyzer) Consume(commit *gitmine.CommitRecord) error {
	a.messages = append(a.messages, commit.Message)

	return nil
}

// Finalize classifies the accumulated batch and builds the report.
func (a *HistoryAnalyzer) Finalize() (analyze.Report, error) {
	metrics := Metrics{
		ClassificationResult: AnalyzeMessages(a.messages),
		Patterns:             MessagePatterns(a.messages),
		ReferencedIssues:     ReferencedIssues(a.messages),
	}

	if a.Sentiment {
		sentiment := MessageSentiment(a.messages)
		metrics.Sentiment = &sentiment
	}

	return analyze.EncodeReport(metrics)
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

	if _, err := heading.Fprintln(writer, "Commit Classification"); err != nil {
		return fmt.Errorf("write heading: %w", err)
	}

	fmt.Fprintf(writer, "Commits: %d  Avg message length: %.1f\n\n",
		metrics.TotalCommits, metrics.AverageMessageLength)

	categories := table.NewWriter()
	categories.SetOutputMirror(writer)
	categories.SetStyle(table.StyleLight)
	categories.AppendHeader(table.Row{"Category", "Commits", "Share"})

	for _, entry := range Table {
		count, found := metrics.TypeDistribution[entry.Category]
		if !found {
			continue
		}

		categories.AppendRow(table.Row{entry.Category, count,
			fmt.Sprintf("%.1f%%", metrics.TypePercentages[entry.Category])})
	}

	if count, found := metrics.TypeDistribution[CategoryOther]; found {
		categories.AppendRow(table.Row{CategoryOther, count,
			fmt.Sprintf("%.1f%%", metrics.TypePercentages[CategoryOther])})
	}

	categories.Render()

	if len(metrics.TopWords) > 0 {
		fmt.Fprintln(writer)

		words := table.NewWriter()
		words.SetOutputMirror(writer)
		words.SetStyle(table.StyleLight)
		words.AppendHeader(table.Row{"Word", "Count"})

		for _, word := range metrics.TopWords {
			words.AppendRow(table.Row{word.Word, word.Count})
		}

		words.Render()
	}

	if metrics.Sentiment != nil {
		fmt.Fprintf(writer, "\nSentiment: %d positive, %d negative, %d neutral (mean compound %.3f)\n",
			metrics.Sentiment.Positive, metrics.Sentiment.Negative,
			metrics.Sentiment.Neutral, metrics.Sentiment.MeanCompound)
	}

	return nil
}
