package sizes_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/analyzers/sizes"
	"github.com/glowstack/gitglow/pkg/scanner"
)

func analyzeFixture(t *testing.T) analyze.Report {
	t.Helper()

	tree := scanFixture(t, map[string]string{
		"README.md":   "# Title\n\nSome words.\n",
		"app/main.py": "import os\n\n# entry\nprint('hi')\n",
	})

	report, err := sizes.NewStaticAnalyzer().Analyze(tree)
	require.NoError(t, err)

	return report
}

func TestStaticAnalyzerIdentity(t *testing.T) {
	t.Parallel()

	analyzer := sizes.NewStaticAnalyzer()

	assert.Equal(t, "static/sizes", analyzer.Name())
	assert.Equal(t, "sizes", analyzer.Flag())
	assert.NotEmpty(t, analyzer.Description())

	options := analyzer.ListConfigurationOptions()
	require.Len(t, options, 1)
	assert.Equal(t, sizes.ConfigLargestFiles, options[0].Name)
	assert.Equal(t, sizes.DefaultLargestFiles, options[0].Default)
}

func TestStaticAnalyzerConfigureLargestFiles(t *testing.T) {
	t.Parallel()

	analyzer := sizes.NewStaticAnalyzer()
	require.NoError(t, analyzer.Configure(map[string]any{sizes.ConfigLargestFiles: 1}))
	assert.Equal(t, 1, analyzer.LargestFiles)

	tree := scanFixture(t, map[string]string{
		"README.md":   "# Title\n\nSome words.\n",
		"app/main.py": "import os\n\n# entry\nprint('hi')\n",
	})

	report, err := analyzer.Analyze(tree)
	require.NoError(t, err)

	metrics, err := analyze.DecodeReport[sizes.Metrics](report)
	require.NoError(t, err)

	assert.Equal(t, 2, metrics.TotalFiles)
	require.Len(t, metrics.LargestFiles, 1)
	assert.Equal(t, "app/main.py", metrics.LargestFiles[0].Path)
}

func TestStaticAnalyzerAnalyze(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t)

	metrics, err := analyze.DecodeReport[sizes.Metrics](report)
	require.NoError(t, err)

	assert.Equal(t, 2, metrics.TotalFiles)
	assert.Equal(t, 7, metrics.TotalLines)
	assert.Equal(t, int64(31), metrics.MaxBytes)

	require.NotEmpty(t, metrics.Languages)
	assert.Equal(t, "Python", metrics.Languages[0].Language)
}

func TestStaticAnalyzerSerializeJSON(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t)

	var buf bytes.Buffer
	require.NoError(t, sizes.NewStaticAnalyzer().Serialize(report, "json", &buf))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))

	assert.InDelta(t, 2.0, payload["total_files"], 1e-9)
	assert.InDelta(t, 7.0, payload["total_lines"], 1e-9)
}

func TestStaticAnalyzerSerializeText(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t)

	var buf bytes.Buffer
	require.NoError(t, sizes.NewStaticAnalyzer().Serialize(report, "text", &buf))

	output := buf.String()
	assert.Contains(t, output, "Source Sizes")
	assert.Contains(t, output, "Python")
	assert.Contains(t, output, "app/main.py")
}

func TestStaticAnalyzerSerializeUnsupported(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := sizes.NewStaticAnalyzer().Serialize(analyzeFixture(t), "csv", &buf)

	require.ErrorIs(t, err, analyze.ErrUnsupportedFormat)
}

func TestGenerateSections(t *testing.T) {
	t.Parallel()

	sections, err := sizes.GenerateSections(analyzeFixture(t))
	require.NoError(t, err)
	require.Len(t, sections, 5)

	titles := make([]string, 0, len(sections))
	for _, section := range sections {
		titles = append(titles, section.Title)
		assert.NotNil(t, section.Chart, section.Title)
	}

	assert.Equal(t, []string{
		"Sizes at a Glance",
		"Language Share",
		"Lines by Extension",
		"Largest Files",
		"Lines by Directory",
	}, titles)
}

func TestGenerateSectionsEmptyReport(t *testing.T) {
	t.Parallel()

	report, err := sizes.NewStaticAnalyzer().Analyze(&scanner.Tree{Root: t.TempDir()})
	require.NoError(t, err)

	sections, err := sizes.GenerateSections(report)
	require.NoError(t, err)
	assert.Len(t, sections, 5)
}

func TestPlotSectionsRegistered(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, analyze.PlotSectionsFor(sizes.AnalyzerID))
}
