package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/goreport/internal/analysis"
)

// Table is a titled grid of cells. The first column holds row labels and is
// left-aligned; all other columns are right-aligned.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// TableWriter prints tables to a console stream.
type TableWriter struct {
	w         io.Writer
	styled    bool
	precision int
}

// NewTableWriter creates a TableWriter. Styled adds a bold title and should
// only be set when w is a terminal.
func NewTableWriter(w io.Writer, styled bool, precision int) *TableWriter {
	return &TableWriter{w: w, styled: styled, precision: precision}
}

// Write prints t followed by a blank line.
func (tw *TableWriter) Write(t *Table) error {
	widths := columnWidths(t)

	var b strings.Builder
	title := t.Title + ":"
	if tw.styled {
		title = color.Bold.Sprint(title)
	}
	b.WriteString(title)
	b.WriteByte('\n')

	writeRow(&b, t.Header, widths)
	for _, row := range t.Rows {
		writeRow(&b, row, widths)
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(tw.w, b.String()); err != nil {
		return fmt.Errorf("failed to print %s: %w", strings.ToLower(t.Title), err)
	}
	return nil
}

func columnWidths(t *Table) []int {
	widths := make([]int, len(t.Header))
	measure := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Header)
	for _, row := range t.Rows {
		measure(row)
	}
	return widths
}

func writeRow(b *strings.Builder, row []string, widths []int) {
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i == 0 {
			b.WriteString(runewidth.FillRight(cell, width))
			continue
		}
		b.WriteString("  ")
		b.WriteString(runewidth.FillLeft(cell, width))
	}
	b.WriteByte('\n')
}

// FormatFloat formats v with a fixed number of decimals. NaN prints as NaN.
func FormatFloat(v float64, precision int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// SummaryTable lays out summaries with one column per field and one row per
// statistic.
func (tw *TableWriter) SummaryTable(title string, summaries []analysis.Summary) *Table {
	t := &Table{Title: title, Header: []string{""}}
	for _, s := range summaries {
		t.Header = append(t.Header, s.Field)
	}

	for r, stat := range analysis.SummaryRows {
		row := []string{stat}
		for _, s := range summaries {
			row = append(row, FormatFloat(s.Values()[r], tw.precision))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// MatrixTable lays out a correlation matrix.
func (tw *TableWriter) MatrixTable(title string, m *analysis.Matrix) *Table {
	t := &Table{Title: title, Header: append([]string{""}, m.Fields...)}
	for i, name := range m.Fields {
		row := []string{name}
		for j := range m.Fields {
			row = append(row, FormatFloat(m.At(i, j), tw.precision))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// GroupTable lays out group means with one row per group.
func (tw *TableWriter) GroupTable(title string, g *analysis.GroupTable) *Table {
	t := &Table{Title: title, Header: append([]string{g.Key}, g.Fields...)}
	for _, gr := range g.Rows {
		row := []string{gr.Key}
		for _, v := range gr.Means {
			row = append(row, FormatFloat(v, tw.precision))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
