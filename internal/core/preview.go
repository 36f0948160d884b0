package core

import (
	"context"
	"fmt"
	"time"
)

// PreviewSummary contains the summary counts for a cleaning preview.
type PreviewSummary struct {
	RowsIn                 int      `json:"rowsIn"`
	RowsOut                int      `json:"rowsOut"`
	BlankMobileRemoved     int      `json:"blankMobileRemoved"`
	DuplicateMobileRemoved int      `json:"duplicateMobileRemoved"`
	ClearedColumns         []string `json:"clearedColumns"`
}

// PreviewResponse is the complete response from a cleaning preview.
type PreviewResponse struct {
	FileName         string         `json:"fileName"`
	Summary          PreviewSummary `json:"summary"`
	Headers          []string       `json:"headers"`
	SampleRows       [][]string     `json:"sampleRows"`
	Truncated        bool           `json:"truncated"`
	Log              []string       `json:"log"`
	ProcessingTimeMs int64          `json:"processingTimeMs"`
}

// Sample limits
const (
	DefaultPreviewRows = 50
	MaxPreviewRows     = 200
)

// PreviewClean performs a read-only dry run of the cleaning pipeline on a
// single file. Nothing is written to disk; the caller gets the would-be
// output headers, a row sample, and the change log.
func (s *Service) PreviewClean(ctx context.Context, file UploadedFile, limit int) (*PreviewResponse, error) {
	startTime := time.Now()

	if !SupportedFileType(file.Name) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, file.Name)
	}
	if len(file.Data) == 0 {
		return nil, fmt.Errorf("empty file: %s", file.Name)
	}
	if int64(len(file.Data)) > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("file %s exceeds %dMB limit", file.Name, s.cfg.MaxFileSize/(1024*1024))
	}

	if limit <= 0 {
		limit = DefaultPreviewRows
	}
	if limit > MaxPreviewRows {
		limit = MaxPreviewRows
	}

	t, err := ReadTable(file.Name, file.Data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Name, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logs, stats := Clean(t, "")

	sample := t.Rows
	truncated := false
	if len(sample) > limit {
		sample = sample[:limit]
		truncated = true
	}

	return &PreviewResponse{
		FileName: file.Name,
		Summary: PreviewSummary{
			RowsIn:                 stats.RowsIn,
			RowsOut:                stats.RowsOut,
			BlankMobileRemoved:     stats.BlankMobileRemoved,
			DuplicateMobileRemoved: stats.DuplicateMobileRemoved,
			ClearedColumns:         stats.ClearedColumns,
		},
		Headers:          t.Headers,
		SampleRows:       sample,
		Truncated:        truncated,
		Log:              logs,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	}, nil
}
