package core

// table.go defines the in-memory worksheet model shared by the readers,
// the cleaning rules, the merger, and the workbook writer.
//
// A Table is a header row plus data rows of plain strings. Cell values never
// carry spreadsheet escaping: columns whose values must survive as text in
// the output (IDs, dates) are marked via MarkTextColumn and the writer
// expresses the marker as a text number format instead of a leading
// apostrophe.

import "strings"

// Table holds one worksheet worth of data.
type Table struct {
	Headers []string
	Rows    [][]string

	// textCols marks columns (by header) whose cells the writer must emit
	// as text so the spreadsheet does not coerce them back to numbers.
	textCols map[string]bool
}

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// NewTable builds a Table from a header row and data rows. Headers are
// normalized and short rows are padded so every row has one cell per column.
func NewTable(headers []string, rows [][]string) *Table {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	padded := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) >= len(normalized) {
			padded[i] = row[:len(normalized)]
			continue
		}
		p := make([]string, len(normalized))
		copy(p, row)
		padded[i] = p
	}

	return &Table{
		Headers:  normalized,
		Rows:     padded,
		textCols: make(map[string]bool),
	}
}

// NormalizeHeader trims a column name and collapses embedded newlines to
// single spaces, matching how exported sheets wrap long captions.
func NormalizeHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(headers []string) HeaderIndex {
	idx := make(HeaderIndex, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(NormalizeHeader(h))] = i
	}
	return idx
}

// Col returns the position of the named column, matched case-insensitively.
func (t *Table) Col(name string) (int, bool) {
	name = strings.ToLower(NormalizeHeader(name))
	for i, h := range t.Headers {
		if strings.ToLower(h) == name {
			return i, true
		}
	}
	return 0, false
}

// EnsureColumn returns the position of the named column, appending it
// (and padding every row) if it does not exist yet.
func (t *Table) EnsureColumn(name string) int {
	if i, ok := t.Col(name); ok {
		return i
	}
	t.Headers = append(t.Headers, NormalizeHeader(name))
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	return len(t.Headers) - 1
}

// FilterRows keeps only the rows for which keep returns true, preserving
// order. Returns the number of rows removed.
func (t *Table) FilterRows(keep func(row []string) bool) int {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	removed := len(t.Rows) - len(kept)
	t.Rows = kept
	return removed
}

// MarkTextColumn records that the named column must be written as text cells.
func (t *Table) MarkTextColumn(name string) {
	if t.textCols == nil {
		t.textCols = make(map[string]bool)
	}
	t.textCols[strings.ToLower(NormalizeHeader(name))] = true
}

// IsTextColumn reports whether the named column is marked for text output.
func (t *Table) IsTextColumn(name string) bool {
	return t.textCols[strings.ToLower(NormalizeHeader(name))]
}

// TextColumns returns the headers of all marked columns in table order.
func (t *Table) TextColumns() []string {
	var cols []string
	for _, h := range t.Headers {
		if t.IsTextColumn(h) {
			cols = append(cols, h)
		}
	}
	return cols
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}
