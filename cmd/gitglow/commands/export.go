package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/glowstack/gitglow/pkg/analyzers/analyze"
	"github.com/glowstack/gitglow/pkg/export"
)

const (
	exportDirPerm      = 0o750
	exportCSVName      = "metrics.csv"
	exportMarkdownName = "summary.md"
	exportSummaryTitle = "gitglow summary"
)

// writeExports emits per-analyzer JSON files plus a flat CSV and a Markdown
// summary of the scalar report fields.
func writeExports(exportDir string, session *runSession) error {
	mkErr := os.MkdirAll(exportDir, exportDirPerm)
	if mkErr != nil {
		return fmt.Errorf("create export dir: %w", mkErr)
	}

	for _, id := range session.order {
		report, ok := session.reports[id]
		if !ok {
			continue
		}

		path := filepath.Join(exportDir, safeAnalyzerID(id)+".json")

		writeErr := export.WriteJSON(path, report)
		if writeErr != nil {
			return writeErr
		}
	}

	csvErr := export.WriteCSV(
		filepath.Join(exportDir, exportCSVName),
		[]string{"analyzer", "metric", "value"},
		scalarRows(session),
	)
	if csvErr != nil {
		return csvErr
	}

	return export.WriteMarkdown(
		filepath.Join(exportDir, exportMarkdownName),
		exportSummaryTitle,
		summarySections(session),
	)
}

// scalarRows flattens the top-level scalar fields of every report into
// analyzer/metric/value rows.
func scalarRows(session *runSession) [][]string {
	rows := make([][]string, 0)

	for _, id := range session.order {
		report, ok := session.reports[id]
		if !ok {
			continue
		}

		for _, pair := range reportScalars(report) {
			rows = append(rows, []string{id, pair[0], pair[1]})
		}
	}

	return rows
}

// summarySections builds one Markdown table per report from the same
// scalar fields the CSV carries.
func summarySections(session *runSession) []export.MarkdownSection {
	sections := make([]export.MarkdownSection, 0, len(session.order))

	for _, id := range session.order {
		report, ok := session.reports[id]
		if !ok {
			continue
		}

		pairs := reportScalars(report)
		if len(pairs) == 0 {
			continue
		}

		rows := make([][]string, 0, len(pairs))
		for _, pair := range pairs {
			rows = append(rows, []string{pair[0], pair[1]})
		}

		sections = append(sections, export.MarkdownSection{
			Heading: id,
			Header:  []string{"Metric", "Value"},
			Rows:    rows,
		})
	}

	return sections
}

// reportScalars extracts the flat top-level report fields as sorted
// key/value pairs. Nested structures stay in the JSON exports.
func reportScalars(report analyze.Report) [][2]string {
	keys := make([]string, 0, len(report))
	for key := range report {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([][2]string, 0, len(keys))

	for _, key := range keys {
		value, ok := scalarValue(report[key])
		if !ok {
			continue
		}

		pairs = append(pairs, [2]string{key, value})
	}

	return pairs
}

// scalarValue renders flat report values. Reports survive a JSON
// round-trip, so numbers usually arrive as float64.
func scalarValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
