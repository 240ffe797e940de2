package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

const maxGridColumns = 4

// StatTone colors the trend line of a stat.
type StatTone string

// Stat trend tones.
const (
	ToneNeutral StatTone = "neutral"
	ToneGood    StatTone = "good"
	ToneBad     StatTone = "bad"
)

// Stat renders a single metric display.
type Stat struct {
	Label string
	Value string
	Trend string
	Tone  StatTone
}

// NewStat creates a stat display.
func NewStat(label, value string) *Stat {
	return &Stat{Label: label, Value: value, Tone: ToneNeutral}
}

// WithTrend sets the trend line under the value.
func (s *Stat) WithTrend(trend string, tone StatTone) *Stat {
	s.Trend = trend
	s.Tone = tone

	return s
}

// Render writes the stat HTML.
func (s *Stat) Render(w io.Writer) error {
	trendClass := "text-[#8E8D8A]"

	switch s.Tone {
	case ToneGood:
		trendClass = "text-[#41B3A3] dark:text-[#85DCB8]"
	case ToneBad:
		trendClass = "text-[#B5443B] dark:text-[#F0776D]"
	case ToneNeutral:
	}

	html := mustRenderTemplate("stat.html", statData{
		Label:      s.Label,
		Value:      s.Value,
		Trend:      s.Trend,
		TrendClass: trendClass,
	})

	_, err := w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing stat: %w", err)
	}

	return nil
}

// Grid renders a responsive grid layout of components.
type Grid struct {
	Columns int
	Gap     string
	Items   []Renderable
}

// NewGrid creates a grid layout clamped to at most four columns.
func NewGrid(columns int, items ...Renderable) *Grid {
	if columns < 1 {
		columns = 1
	}

	if columns > maxGridColumns {
		columns = maxGridColumns
	}

	return &Grid{Columns: columns, Gap: "gap-4", Items: items}
}

// Render writes the grid HTML.
func (g *Grid) Render(w io.Writer) error {
	colClass := map[int]string{
		1: "grid-cols-1",
		2: "grid-cols-1 md:grid-cols-2",
		3: "grid-cols-1 md:grid-cols-2 lg:grid-cols-3",
		4: "grid-cols-1 md:grid-cols-2 lg:grid-cols-4",
	}[g.Columns]

	items := make([]template.HTML, len(g.Items))

	for i, item := range g.Items {
		if item == nil {
			continue
		}

		var buf bytes.Buffer

		err := item.Render(&buf)
		if err != nil {
			return fmt.Errorf("rendering grid item %d: %w", i, err)
		}

		items[i] = template.HTML(buf.String())
	}

	html := mustRenderTemplate("grid.html", gridData{
		ColClass: colClass,
		Gap:      g.Gap,
		Items:    items,
	})

	_, err := w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing grid: %w", err)
	}

	return nil
}

// Table renders an HTML table. Cell strings may carry raw HTML.
type Table struct {
	Headers []string
	Rows    [][]string
	Striped bool
}

// NewTable creates a striped table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{Headers: headers, Striped: true}
}

// AddRow appends a row to the table.
func (t *Table) AddRow(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)

	return t
}

// Render writes the table HTML.
func (t *Table) Render(w io.Writer) error {
	htmlRows := make([][]template.HTML, len(t.Rows))

	for i, row := range t.Rows {
		htmlRows[i] = make([]template.HTML, len(row))
		for j, cell := range row {
			htmlRows[i][j] = template.HTML(cell)
		}
	}

	html := mustRenderTemplate("table.html", tableData{
		Headers: t.Headers,
		Rows:    htmlRows,
		Striped: t.Striped,
	})

	_, err := w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	return nil
}
