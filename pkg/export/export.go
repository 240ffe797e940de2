// Package export writes analyzer reports to plain files for spreadsheets
// and docs: JSON, CSV, and Markdown.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// WriteJSON writes value as indented JSON.
func WriteJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// WriteCSV writes a header row followed by rows.
func WriteCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	writer := csv.NewWriter(file)

	writeErr := writer.Write(header)
	for _, row := range rows {
		if writeErr != nil {
			break
		}

		writeErr = writer.Write(row)
	}

	writer.Flush()

	if writeErr == nil {
		writeErr = writer.Error()
	}

	if closeErr := file.Close(); writeErr == nil {
		writeErr = closeErr
	}

	if writeErr != nil {
		return fmt.Errorf("write %s: %w", path, writeErr)
	}

	return nil
}

// MarkdownSection is one heading with free text, a table, or both.
type MarkdownSection struct {
	Heading string
	Lines   []string
	Header  []string
	Rows    [][]string
}

// WriteMarkdown writes a titled document of sections.
func WriteMarkdown(path, title string, sections []MarkdownSection) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", title)

	for _, section := range sections {
		fmt.Fprintf(&b, "\n## %s\n", section.Heading)

		if len(section.Lines) > 0 {
			b.WriteString("\n")

			for _, line := range section.Lines {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}

		if len(section.Header) > 0 {
			b.WriteString("\n")
			writeMarkdownTable(&b, section.Header, section.Rows)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func writeMarkdownTable(b *strings.Builder, header []string, rows [][]string) {
	writeMarkdownRow(b, header)

	separators := make([]string, len(header))
	for i := range separators {
		separators[i] = "---"
	}

	writeMarkdownRow(b, separators)

	for _, row := range rows {
		writeMarkdownRow(b, row)
	}
}

func writeMarkdownRow(b *strings.Builder, cells []string) {
	b.WriteString("|")

	for _, cell := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(cell, "|", "\\|"))
		b.WriteString(" |")
	}

	b.WriteString("\n")
}
