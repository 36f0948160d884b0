package core

// clean.go implements the record-cleaning pipeline.
//
// The pipeline is a fixed, ordered sequence of column-scoped rules. Each
// rule is a no-op when its named column is absent, and rules that have an
// observable effect append a human-readable entry to the change log. Cell
// level failures (unparseable dates, odd numerics) degrade to pass-through
// values, so a malformed cell never aborts a file.

import (
	"fmt"
	"strings"

	"github.com/opstools/qrcleaner/internal/schema"
)

// CleanStats summarizes what the pipeline did to one table.
type CleanStats struct {
	RowsIn                 int
	RowsOut                int
	BlankMobileRemoved     int
	DuplicateMobileRemoved int
	ClearedColumns         []string
}

// Clean runs the full pipeline over the table in place and returns the
// change log plus summary counters. sourceFile, when non-empty, tags every
// row with the originating file name for multi-file batches.
func Clean(t *Table, sourceFile string) ([]string, CleanStats) {
	var logs []string
	stats := CleanStats{RowsIn: t.RowCount()}

	normalizeHeaders(t)
	removeBlankMobileRows(t, &logs, &stats)
	dedupeMobileRows(t, &logs, &stats)
	normalizeMobileNumbers(t, &logs)
	normalizeDateColumns(t)
	normalizeAadhaarColumns(t)
	normalizeAccountColumn(t)
	cleanAddressColumns(t)
	cleanNameColumns(t)
	applyEntityPrecedence(t)
	overrideBranchColumn(t, &logs)
	tagSourceFile(t, sourceFile)
	scrubUnwantedColumns(t, &logs, &stats)

	stats.RowsOut = t.RowCount()
	return logs, stats
}

// normalizeHeaders strips and de-wraps every column name before any rule
// runs, so presence checks see canonical names.
func normalizeHeaders(t *Table) {
	for i, h := range t.Headers {
		t.Headers[i] = NormalizeHeader(h)
	}
}

// removeBlankMobileRows drops every row whose phone cell is empty or
// whitespace-only.
func removeBlankMobileRows(t *Table, logs *[]string, stats *CleanStats) {
	col, ok := t.Col(schema.MobileColumn)
	if !ok {
		return
	}
	removed := t.FilterRows(func(row []string) bool {
		return strings.TrimSpace(row[col]) != ""
	})
	stats.BlankMobileRemoved = removed
	*logs = append(*logs, fmt.Sprintf("Removed %d rows with blank Mobile No", removed))
}

// dedupeMobileRows drops rows with a repeated phone value, keeping the
// first occurrence in table order. Values are compared as-is, before any
// phone normalization.
func dedupeMobileRows(t *Table, logs *[]string, stats *CleanStats) {
	col, ok := t.Col(schema.MobileColumn)
	if !ok {
		return
	}
	seen := make(map[string]bool, t.RowCount())
	removed := t.FilterRows(func(row []string) bool {
		if seen[row[col]] {
			return false
		}
		seen[row[col]] = true
		return true
	})
	stats.DuplicateMobileRemoved = removed
	*logs = append(*logs, fmt.Sprintf("Removed %d duplicate row(s) by Mobile No (kept first occurrence)", removed))
}

// normalizeMobileNumbers strips separators from every phone value and drops
// the "91" country prefix from 12-digit numbers.
func normalizeMobileNumbers(t *Table, logs *[]string) {
	col, ok := t.Col(schema.MobileColumn)
	if !ok {
		return
	}
	for _, row := range t.Rows {
		row[col] = NormalizePhone(row[col])
	}
	*logs = append(*logs, "Cleaned 12-digit mobile numbers by removing '91' prefix where applicable")
}

// normalizeDateColumns renders every date column as dd-mm-yyyy text and
// marks it for text output so the writer keeps the rendering literal.
func normalizeDateColumns(t *Table) {
	for _, name := range schema.DateColumns {
		col, ok := t.Col(name)
		if !ok {
			continue
		}
		for _, row := range t.Rows {
			row[col] = NormalizeDateCell(row[col])
		}
		t.MarkTextColumn(name)
	}
}

// normalizeAadhaarColumns strips coercion artifacts from Aadhaar numbers
// under either header spelling and marks the columns for text output.
func normalizeAadhaarColumns(t *Table) {
	for _, name := range schema.AadhaarColumns {
		col, ok := t.Col(name)
		if !ok {
			continue
		}
		for _, row := range t.Rows {
			row[col] = NormalizeIDCell(row[col])
		}
		t.MarkTextColumn(name)
	}
}

// normalizeAccountColumn does the same for account numbers, additionally
// dropping any apostrophe marker carried in from the source sheet.
func normalizeAccountColumn(t *Table) {
	col, ok := t.Col(schema.AccountNoColumn)
	if !ok {
		return
	}
	for _, row := range t.Rows {
		row[col] = NormalizeIDCell(strings.TrimLeft(row[col], "'"))
	}
	t.MarkTextColumn(schema.AccountNoColumn)
}

// addressPunct and namePunct are the character classes replaced by a single
// space in address and name fields. Runs are not collapsed afterwards.
const (
	addressPunct = ",.#&):("
	namePunct    = `/\|()&#,.;'`
)

// replaceWithSpaces maps every rune of class in s to one space.
func replaceWithSpaces(s, class string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(class, r) {
			return ' '
		}
		return r
	}, s)
}

// cleanAddressColumns replaces address punctuation with spaces, trims, and
// clears placeholder strings, then copies Address Line 1 into a blank
// Address Line 2 row-wise.
func cleanAddressColumns(t *Table) {
	for _, name := range []string{schema.AddressLine1Column, schema.AddressLine2Column} {
		col, ok := t.Col(name)
		if !ok {
			continue
		}
		for _, row := range t.Rows {
			row[col] = clearPlaceholder(strings.TrimSpace(replaceWithSpaces(row[col], addressPunct)))
		}
	}

	line1, ok1 := t.Col(schema.AddressLine1Column)
	line2, ok2 := t.Col(schema.AddressLine2Column)
	if !ok1 || !ok2 {
		return
	}
	for _, row := range t.Rows {
		if strings.TrimSpace(row[line2]) == "" && strings.TrimSpace(row[line1]) != "" {
			row[line2] = row[line1]
		}
	}
}

// cleanNameColumns applies the name punctuation class to every name field.
func cleanNameColumns(t *Table) {
	for _, name := range schema.NameColumns {
		col, ok := t.Col(name)
		if !ok {
			continue
		}
		for _, row := range t.Rows {
			row[col] = clearPlaceholder(strings.TrimSpace(replaceWithSpaces(row[col], namePunct)))
		}
	}
}

// applyEntityPrecedence clears the personal name fields on rows that carry
// an entity name. An entity record suppresses individual names.
func applyEntityPrecedence(t *Table) {
	entity, ok := t.Col(schema.EntityColumn)
	if !ok {
		return
	}
	var personCols []int
	for _, name := range schema.PersonNameColumns {
		if col, found := t.Col(name); found {
			personCols = append(personCols, col)
		}
	}
	if len(personCols) == 0 {
		return
	}
	for _, row := range t.Rows {
		if strings.TrimSpace(row[entity]) == "" {
			continue
		}
		for _, col := range personCols {
			row[col] = ""
		}
	}
}

// overrideBranchColumn overwrites every branch value with the fixed literal.
func overrideBranchColumn(t *Table, logs *[]string) {
	col, ok := t.Col(schema.BranchColumn)
	if !ok {
		return
	}
	for _, row := range t.Rows {
		row[col] = schema.BranchReplacement
	}
	*logs = append(*logs, fmt.Sprintf("Replaced all values in '%s' with '%s'", schema.BranchColumn, schema.BranchReplacement))
}

// tagSourceFile stamps the originating file name on every row. Only active
// in multi-file batches; the scrub rule below clears the values again and
// the header survives as a marker of the merge.
func tagSourceFile(t *Table, sourceFile string) {
	if sourceFile == "" {
		return
	}
	col := t.EnsureColumn(schema.SourceFileColumn)
	for _, row := range t.Rows {
		row[col] = sourceFile
	}
}

// scrubColumnKey canonicalizes a column name for scrub-list matching:
// case-insensitive and space-insensitive.
func scrubColumnKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}

// scrubUnwantedColumns clears every value of the fixed sensitive-column
// list while preserving headers and column positions. One log entry per
// matched column.
func scrubUnwantedColumns(t *Table, logs *[]string, stats *CleanStats) {
	for _, target := range schema.ScrubColumns {
		key := scrubColumnKey(target)
		for col, header := range t.Headers {
			if scrubColumnKey(header) != key {
				continue
			}
			for _, row := range t.Rows {
				row[col] = ""
			}
			stats.ClearedColumns = append(stats.ClearedColumns, header)
			*logs = append(*logs, fmt.Sprintf("Cleared all data from column: %s", header))
		}
	}
}
