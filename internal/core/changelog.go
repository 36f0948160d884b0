package core

// changelog.go exports a job's change log for download.

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteLogCSV writes the change log as a two-column CSV: the source file
// (empty for single-file jobs and batch-level entries) and the message.
func WriteLogCSV(logs []string, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source_file", "message"}); err != nil {
		return fmt.Errorf("write log header: %w", err)
	}
	for _, entry := range logs {
		file, message := SplitLogPrefix(entry)
		if err := cw.Write([]string{file, message}); err != nil {
			return fmt.Errorf("write log row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
