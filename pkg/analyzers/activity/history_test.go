package activity_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/pkg/analyzers/activity"
	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
)

func finalizeFixture(t *testing.T) analyze.Report {
	t.Helper()

	analyzer := activity.NewHistoryAnalyzer()
	require.NoError(t, analyzer.Initialize(nil))

	require.NoError(t, analyzer.Consume(commitAt(time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC), "fix: patch leak", 12, 4)))
	require.NoError(t, analyzer.Consume(commitAt(time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), "feat: shiny", 200, 10)))

	report, err := analyzer.Finalize()
	require.NoError(t, err)

	return report
}

func TestHistoryAnalyzerIdentity(t *testing.T) {
	t.Parallel()

	analyzer := activity.NewHistoryAnalyzer()

	assert.Equal(t, "history/activity", analyzer.Name())
	assert.Equal(t, "activity", analyzer.Flag())
	assert.NotEmpty(t, analyzer.Description())
	assert.Empty(t, analyzer.ListConfigurationOptions())
}

func TestHistoryAnalyzerFinalize(t *testing.T) {
	t.Parallel()

	report := finalizeFixture(t)

	metrics, err := analyze.DecodeReport[activity.Metrics](report)
	require.NoError(t, err)

	assert.Equal(t, 2, metrics.TotalCommits)
	assert.Equal(t, map[string]int{"2024-03": 1, "2024-04": 1}, metrics.PerMonth)
	assert.Equal(t, []activity.MonthChurn{
		{Month: "2024-03", Insertions: 12, Deletions: 4},
		{Month: "2024-04", Insertions: 200, Deletions: 10},
	}, metrics.ChurnByMonth)
}

func TestHistoryAnalyzerInitializeResetsState(t *testing.T) {
	t.Parallel()

	analyzer := activity.NewHistoryAnalyzer()
	require.NoError(t, analyzer.Initialize(nil))
	require.NoError(t, analyzer.Consume(commitAt(time.Now(), "stale", 0, 0)))

	require.NoError(t, analyzer.Initialize(nil))

	report, err := analyzer.Finalize()
	require.NoError(t, err)

	metrics, err := analyze.DecodeReport[activity.Metrics](report)
	require.NoError(t, err)
	assert.Zero(t, metrics.TotalCommits)
}

func TestHistoryAnalyzerSerializeJSON(t *testing.T) {
	t.Parallel()

	report := finalizeFixture(t)

	var buf bytes.Buffer
	require.NoError(t, activity.NewHistoryAnalyzer().Serialize(report, analyze.FormatJSON, &buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.InDelta(t, 2.0, decoded["total_commits"], 1e-9)
}

func TestHistoryAnalyzerSerializeText(t *testing.T) {
	t.Parallel()

	report := finalizeFixture(t)

	var buf bytes.Buffer
	require.NoError(t, activity.NewHistoryAnalyzer().Serialize(report, analyze.FormatText, &buf))

	out := buf.String()
	assert.Contains(t, out, "Commit Activity")
	assert.Contains(t, out, "2024")
	assert.Contains(t, out, "Monday")
}

func TestHistoryAnalyzerSerializeUnsupportedFormat(t *testing.T) {
	t.Parallel()

	report := finalizeFixture(t)

	var buf bytes.Buffer
	err := activity.NewHistoryAnalyzer().Serialize(report, "csv", &buf)

	require.ErrorIs(t, err, analyze.ErrUnsupportedFormat)
}

func TestGenerateSections(t *testing.T) {
	t.Parallel()

	report := finalizeFixture(t)

	sections, err := activity.GenerateSections(report)
	require.NoError(t, err)
	require.Len(t, sections, 9)

	titles := make([]string, 0, len(sections))
	for _, section := range sections {
		titles = append(titles, section.Title)
		assert.NotNil(t, section.Chart, "section %q has no chart", section.Title)
	}

	assert.Equal(t, []string{
		"Activity at a Glance",
		"Commits by Year",
		"Commits by Month",
		"Cumulative Commits",
		"Commits by Hour",
		"Commits by Weekday",
		"Commit Heatmap",
		"Monthly Churn",
		"Message Lengths",
	}, titles)
}

func TestGenerateSectionsEmptyReport(t *testing.T) {
	t.Parallel()

	report, err := analyze.EncodeReport(activity.Metrics{})
	require.NoError(t, err)

	sections, err := activity.GenerateSections(report)
	require.NoError(t, err)
	assert.Len(t, sections, 9)
}

func TestPlotSectionsRegistered(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, analyze.PlotSectionsFor("history/activity"))
}
