package analyze_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
)

func TestBaseIdentity(t *testing.T) {
	t.Parallel()

	base := &analyze.Base{ID: "history/classify", Brief: "Classifies commit messages."}

	assert.Equal(t, "history/classify", base.Name())
	assert.Equal(t, "classify", base.Flag())
	assert.Equal(t, "Classifies commit messages.", base.Description())
	assert.Empty(t, base.ListConfigurationOptions())
	require.NoError(t, base.Configure(map[string]any{"anything": 1}))
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, analyze.KindHistory, analyze.KindOf("history/activity"))
	assert.Equal(t, analyze.KindStatic, analyze.KindOf("static/depgraph"))
	assert.Equal(t, analyze.KindMeta, analyze.KindOf("meta/issues"))
}

func newTestRegistry(t *testing.T) *analyze.Registry {
	t.Helper()

	registry := analyze.NewRegistry()

	for _, id := range []string{
		"history/classify",
		"history/activity",
		"static/depgraph",
		"meta/issues",
	} {
		require.NoError(t, registry.Register(analyze.Registration{
			ID:  id,
			New: func() analyze.Analyzer { return &analyze.Base{ID: id} },
		}))
	}

	return registry
}

func selectedIDs(t *testing.T, registry *analyze.Registry, patterns []string) []string {
	t.Helper()

	regs, err := registry.Select(patterns)
	require.NoError(t, err)

	ids := make([]string, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.ID)
	}

	return ids
}

func TestRegistrySelect(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)

	all := []string{"history/classify", "history/activity", "static/depgraph", "meta/issues"}

	assert.Equal(t, all, selectedIDs(t, registry, nil), "empty selection means everything")
	assert.Equal(t, all, selectedIDs(t, registry, []string{"*"}))

	assert.Equal(t,
		[]string{"history/classify", "history/activity"},
		selectedIDs(t, registry, []string{"history/*"}))

	assert.Equal(t,
		[]string{"static/depgraph"},
		selectedIDs(t, registry, []string{"static/depgraph"}))

	assert.Equal(t,
		[]string{"history/activity"},
		selectedIDs(t, registry, []string{"activity"}), "bare flag shorthand")

	assert.Equal(t,
		[]string{"history/classify", "meta/issues"},
		selectedIDs(t, registry, []string{"issues", "classify"}),
		"order follows registration, not selection")
}

func TestRegistrySelectUnknownPatternFails(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)

	_, err := registry.Select([]string{"history/*", "nope/*"})
	require.ErrorIs(t, err, analyze.ErrUnknownAnalyzer)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()

	registry := analyze.NewRegistry()

	reg := analyze.Registration{ID: "history/classify", New: func() analyze.Analyzer { return nil }}
	require.NoError(t, registry.Register(reg))
	require.ErrorIs(t, registry.Register(reg), analyze.ErrDuplicateAnalyzer)
}

func TestNormalizeAndValidateFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, analyze.FormatBinary, analyze.NormalizeFormat("Binary"))
	assert.Equal(t, analyze.FormatJSON, analyze.NormalizeFormat(" JSON "))

	format, err := analyze.ValidateFormat("bin", analyze.UniversalFormats())
	require.NoError(t, err)
	assert.Equal(t, analyze.FormatBinary, format)

	_, err = analyze.ValidateFormat("xml", analyze.UniversalFormats())
	require.ErrorIs(t, err, analyze.ErrUnsupportedFormat)
}

func TestSerializeValueFormats(t *testing.T) {
	t.Parallel()

	value := map[string]int{"total": 7}

	var jsonBuf bytes.Buffer
	require.NoError(t, analyze.SerializeValue(value, analyze.FormatJSON, &jsonBuf))
	assert.JSONEq(t, `{"total": 7}`, jsonBuf.String())

	var yamlBuf bytes.Buffer
	require.NoError(t, analyze.SerializeValue(value, analyze.FormatYAML, &yamlBuf))
	assert.Contains(t, yamlBuf.String(), "total: 7")

	var binBuf bytes.Buffer
	require.NoError(t, analyze.SerializeValue(value, "binary", &binBuf))
	assert.True(t, strings.HasPrefix(binBuf.String(), analyze.EnvelopeMagic))

	err := analyze.SerializeValue(value, "csv", &jsonBuf)
	require.ErrorIs(t, err, analyze.ErrUnsupportedFormat)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, analyze.EncodeEnvelope(map[string]string{"a": "1"}, &buf))
	require.NoError(t, analyze.EncodeEnvelope(map[string]string{"b": "2"}, &buf))

	payloads, err := analyze.DecodeEnvelopes(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, payloads, 2)
	assert.JSONEq(t, `{"a": "1"}`, string(payloads[0]))
	assert.JSONEq(t, `{"b": "2"}`, string(payloads[1]))
}

func TestDecodeEnvelopeRejectsCorruptStreams(t *testing.T) {
	t.Parallel()

	_, err := analyze.DecodeEnvelopes([]byte("XXXX\x02\x00\x00\x00{}"))
	require.ErrorIs(t, err, analyze.ErrInvalidEnvelope)

	_, err = analyze.DecodeEnvelopes([]byte(analyze.EnvelopeMagic + "\xff\x00\x00\x00{}"))
	require.ErrorIs(t, err, analyze.ErrInvalidEnvelope, "declared length exceeds stream")

	_, err = analyze.DecodeEnvelopes([]byte("GG"))
	require.ErrorIs(t, err, analyze.ErrInvalidEnvelope)
}

func TestReportArchiveRoundTrip(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	stored := []analyze.StoredReport{
		{ID: "history/classify", CreatedAt: created, Report: analyze.Report{"total_commits": 4}},
		{ID: "static/depgraph", CreatedAt: created, Report: analyze.Report{"node_count": 2}},
	}

	var buf bytes.Buffer
	require.NoError(t, analyze.WriteReportArchive(&buf, stored))

	loaded, err := analyze.ReadReportArchive(&buf)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "history/classify", loaded[0].ID)
	assert.True(t, created.Equal(loaded[0].CreatedAt))
	assert.InEpsilon(t, 4.0, loaded[0].Report["total_commits"], 1e-9, "numbers decode as float64")
	assert.Equal(t, "static/depgraph", loaded[1].ID)
}

func TestEncodeDecodeReport(t *testing.T) {
	t.Parallel()

	type metrics struct {
		Total      int                `json:"total"`
		Categories map[string]float64 `json:"categories"`
	}

	report, err := analyze.EncodeReport(metrics{Total: 4, Categories: map[string]float64{"feat": 25.0}})
	require.NoError(t, err)
	assert.InEpsilon(t, 4.0, report["total"], 1e-9)

	decoded, err := analyze.DecodeReport[metrics](report)
	require.NoError(t, err)
	assert.Equal(t, 4, decoded.Total)
	assert.InEpsilon(t, 25.0, decoded.Categories["feat"], 1e-9)
}

func TestFactHelpers(t *testing.T) {
	t.Parallel()

	facts := map[string]any{
		"int":      3,
		"float":    2.5,
		"intfloat": float64(8),
		"bool":     true,
		"string":   "warm",
	}

	assert.Equal(t, 3, analyze.FactInt(facts, "int", 0))
	assert.Equal(t, 8, analyze.FactInt(facts, "intfloat", 0))
	assert.Equal(t, 9, analyze.FactInt(facts, "missing", 9))
	assert.InEpsilon(t, 2.5, analyze.FactFloat(facts, "float", 0), 1e-9)
	assert.InEpsilon(t, 3.0, analyze.FactFloat(facts, "int", 0), 1e-9)
	assert.True(t, analyze.FactBool(facts, "bool", false))
	assert.False(t, analyze.FactBool(facts, "missing", false))
	assert.Equal(t, "warm", analyze.FactString(facts, "string", ""))
	assert.Equal(t, "fallback", analyze.FactString(facts, "missing", "fallback"))
}

func TestConfigurationOptionFormatDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "10", analyze.ConfigurationOption{
		Type: analyze.IntConfigurationOption, Default: 10,
	}.FormatDefault())

	assert.Equal(t, `"main"`, analyze.ConfigurationOption{
		Type: analyze.StringConfigurationOption, Default: "main",
	}.FormatDefault())

	assert.Equal(t, `".py,.pyi"`, analyze.ConfigurationOption{
		Type: analyze.StringsConfigurationOption, Default: []string{".py", ".pyi"},
	}.FormatDefault())
}
