package core

// merge.go concatenates per-file cleaned tables into one table.

import (
	"fmt"
	"strings"

	"github.com/opstools/qrcleaner/internal/schema"
)

// MergeTables concatenates tables in upload order. Column order follows the
// first table, with columns unseen so far appended as they appear; rows
// keep their relative order within and across files and missing cells are
// empty. Text-output marks are carried over from every input.
func MergeTables(tables []*Table) *Table {
	merged := NewTable(nil, nil)
	if len(tables) == 0 {
		return merged
	}

	for _, t := range tables {
		for _, h := range t.Headers {
			merged.EnsureColumn(h)
		}
		for _, h := range t.TextColumns() {
			merged.MarkTextColumn(h)
		}
	}

	for _, t := range tables {
		cols := make([]int, len(t.Headers))
		for i, h := range t.Headers {
			cols[i], _ = merged.Col(h)
		}
		for _, row := range t.Rows {
			out := make([]string, len(merged.Headers))
			for i, v := range row {
				out[cols[i]] = v
			}
			merged.Rows = append(merged.Rows, out)
		}
	}

	return merged
}

// DedupeMergedMobiles performs the cross-file phone deduplication pass:
// rows sharing a phone value keep only the first occurrence in concatenated
// order, so a later file's duplicate of an earlier file's number is
// dropped. Appends the merged-deduplication summary entry to logs and
// returns the number of rows removed. No-op without a phone column.
func DedupeMergedMobiles(t *Table, logs *[]string) int {
	col, ok := t.Col(schema.MobileColumn)
	if !ok {
		return 0
	}
	seen := make(map[string]bool, t.RowCount())
	removed := t.FilterRows(func(row []string) bool {
		if seen[row[col]] {
			return false
		}
		seen[row[col]] = true
		return true
	})
	*logs = append(*logs, fmt.Sprintf("(Merged) Removed %d duplicate row(s) by Mobile No (kept first occurrence)", removed))
	return removed
}

// PrefixLogs prefixes every change-log entry with its source file name,
// matching the merged-log convention "[file.xlsx] entry".
func PrefixLogs(fileName string, logs []string) []string {
	prefixed := make([]string, len(logs))
	for i, entry := range logs {
		prefixed[i] = fmt.Sprintf("[%s] %s", fileName, entry)
	}
	return prefixed
}

// SplitLogPrefix splits a merged change-log entry back into its source file
// and message parts. Entries without a prefix return an empty file name.
func SplitLogPrefix(entry string) (file, message string) {
	if strings.HasPrefix(entry, "[") {
		if end := strings.Index(entry, "] "); end > 0 {
			return entry[1:end], entry[end+2:]
		}
	}
	return "", entry
}
