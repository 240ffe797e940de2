package contributors_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/analyzers/contributors"
)

func finalizeFixture(t *testing.T) analyze.Report {
	t.Helper()

	analyzer := contributors.NewHistoryAnalyzer()
	require.NoError(t, analyzer.Initialize(nil))

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, analyzer.Consume(commitBy("Ada", "ada@example.com", base, 10, 2, 1)))
	require.NoError(t, analyzer.Consume(commitBy("Ada", "ada@example.com", base.AddDate(0, 0, 1), 4, 1, 2)))
	require.NoError(t, analyzer.Consume(commitBy("Bob", "bob@example.com", base.AddDate(0, 1, 0), 7, 3, 1)))

	report, err := analyzer.Finalize()
	require.NoError(t, err)

	return report
}

func TestHistoryAnalyzerIdentity(t *testing.T) {
	t.Parallel()

	analyzer := contributors.NewHistoryAnalyzer()

	assert.Equal(t, "history/contributors", analyzer.Name())
	assert.Equal(t, "contributors", analyzer.Flag())

	options := analyzer.ListConfigurationOptions()
	require.Len(t, options, 1)
	assert.Equal(t, contributors.ConfigTopN, options[0].Name)
	assert.Equal(t, contributors.DefaultTopN, options[0].Default)
}

func TestHistoryAnalyzerConfigure(t *testing.T) {
	t.Parallel()

	analyzer := contributors.NewHistoryAnalyzer()
	require.NoError(t, analyzer.Configure(map[string]any{contributors.ConfigTopN: 3}))

	assert.Equal(t, 3, analyzer.TopN)
}

func TestHistoryAnalyzerFinalize(t *testing.T) {
	t.Parallel()

	report := finalizeFixture(t)

	metrics, err := analyze.DecodeReport[contributors.Metrics](report)
	require.NoError(t, err)

	assert.Equal(t, 3, metrics.TotalCommits)
	assert.Equal(t, 2, metrics.TotalContributors)
	require.Len(t, metrics.Contributors, 2)
	assert.Equal(t, "Ada", metrics.Contributors[0].Name)
	assert.Equal(t, 2, metrics.Contributors[0].Commits)

	require.Len(t, metrics.TopShare, 2)
	assert.InDelta(t, 66.7, metrics.TopShare[0].Share, 1e-9)
	assert.InDelta(t, 33.3, metrics.TopShare[1].Share, 1e-9)
}

func TestHistoryAnalyzerInitializeResetsState(t *testing.T) {
	t.Parallel()

	analyzer := contributors.NewHistoryAnalyzer()
	require.NoError(t, analyzer.Initialize(nil))
	require.NoError(t, analyzer.Consume(commitBy("Ada", "ada@example.com", time.Now(), 1, 1, 1)))

	require.NoError(t, analyzer.Initialize(nil))

	report, err := analyzer.Finalize()
	require.NoError(t, err)

	metrics, err := analyze.DecodeReport[contributors.Metrics](report)
	require.NoError(t, err)
	assert.Zero(t, metrics.TotalContributors)
}

func TestHistoryAnalyzerSerializeJSON(t *testing.T) {
	t.Parallel()

	report := finalizeFixture(t)

	var buf bytes.Buffer
	require.NoError(t, contributors.NewHistoryAnalyzer().Serialize(report, analyze.FormatJSON, &buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.InDelta(t, 2.0, decoded["total_contributors"], 1e-9)
}

func TestHistoryAnalyzerSerializeText(t *testing.T) {
	t.Parallel()

	report := finalizeFixture(t)

	var buf bytes.Buffer
	require.NoError(t, contributors.NewHistoryAnalyzer().Serialize(report, analyze.FormatText, &buf))

	out := buf.String()
	assert.Contains(t, out, "Contributors")
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "Active days")
}

func TestHistoryAnalyzerSerializeUnsupportedFormat(t *testing.T) {
	t.Parallel()

	report := finalizeFixture(t)

	var buf bytes.Buffer
	err := contributors.NewHistoryAnalyzer().Serialize(report, "csv", &buf)

	require.ErrorIs(t, err, analyze.ErrUnsupportedFormat)
}

func TestGenerateSections(t *testing.T) {
	t.Parallel()

	report := finalizeFixture(t)

	sections, err := contributors.GenerateSections(report)
	require.NoError(t, err)
	require.Len(t, sections, 6)

	titles := make([]string, 0, len(sections))
	for _, section := range sections {
		titles = append(titles, section.Title)
		assert.NotNil(t, section.Chart, "section %q has no chart", section.Title)
	}

	assert.Equal(t, []string{
		"Contributors at a Glance",
		"Top Authors",
		"Author Share",
		"Lines Added",
		"Active Days",
		"New Contributors",
	}, titles)
}

func TestGenerateSectionsEmptyReport(t *testing.T) {
	t.Parallel()

	report, err := analyze.EncodeReport(contributors.Metrics{})
	require.NoError(t, err)

	sections, err := contributors.GenerateSections(report)
	require.NoError(t, err)
	assert.Len(t, sections, 6)
}

func TestPlotSectionsRegistered(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, analyze.PlotSectionsFor("history/contributors"))
}
