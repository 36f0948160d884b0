package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// processJob runs a cleaning job from raw uploads to a finished workbook.
// It owns the job lifecycle: progress updates, the result, listener
// shutdown, and scheduling removal from the job map.
func (s *Service) processJob(ctx context.Context, job *activeJob, files []UploadedFile) {
	startTime := time.Now()

	defer func() {
		job.Cancel() // Release the timeout context
		job.closeListeners()
		close(job.Done)
		// Keep the job visible for the retention window so results and
		// change logs stay fetchable after completion.
		s.cleanupJob(job.ID, s.cfg.RetentionTTL)
	}()

	var (
		tables    []*Table
		logs      []string
		reports   []FileReport
		bytesDone int64
	)

	for i, uf := range files {
		if ctx.Err() != nil {
			s.finishInterrupted(ctx, job, startTime)
			return
		}

		job.Progress.Phase = PhaseReading
		job.Progress.CurrentFile = uf.Name
		job.notifyProgress()

		t, err := ReadTable(uf.Name, uf.Data)
		if err != nil {
			s.failJob(job, startTime, fmt.Sprintf("read %s: %v", uf.Name, err))
			return
		}

		job.Progress.Phase = PhaseCleaning
		job.notifyProgress()

		// Merged batches stamp each row with its origin file; single
		// files carry no origin column.
		sourceFile := ""
		if job.Mode == ModeMerge {
			sourceFile = uf.Name
		}
		fileLogs, stats := Clean(t, sourceFile)
		if job.Mode == ModeMerge {
			fileLogs = PrefixLogs(uf.Name, fileLogs)
		}

		logs = append(logs, fileLogs...)
		reports = append(reports, FileReport{
			FileName:               uf.Name,
			RowsIn:                 stats.RowsIn,
			RowsOut:                stats.RowsOut,
			BlankMobileRemoved:     stats.BlankMobileRemoved,
			DuplicateMobileRemoved: stats.DuplicateMobileRemoved,
			ClearedColumns:         stats.ClearedColumns,
		})
		tables = append(tables, t)

		bytesDone += int64(len(uf.Data))
		job.Progress.FilesDone = i + 1
		job.Progress.BytesRead = bytesDone
		job.Progress.RowsIn += stats.RowsIn
		job.Progress.RowsOut += stats.RowsOut
		job.notifyProgress()
	}

	final := tables[0]
	sheetName := SheetNameSingle
	outputName := OutputNameSingle
	mergedRemoved := 0

	if job.Mode == ModeMerge {
		job.Progress.Phase = PhaseMerging
		job.notifyProgress()

		final = MergeTables(tables)
		mergedRemoved = DedupeMergedMobiles(final, &logs)
		sheetName = SheetNameMerged
		outputName = OutputNameMerged
	}

	if ctx.Err() != nil {
		s.finishInterrupted(ctx, job, startTime)
		return
	}

	job.Progress.Phase = PhaseWriting
	job.Progress.RowsOut = final.RowCount()
	job.notifyProgress()

	outPath, err := s.OutputPath(job.ID)
	if err != nil {
		s.failJob(job, startTime, fmt.Sprintf("resolve output path: %v", err))
		return
	}

	f, err := os.Create(outPath)
	if err != nil {
		s.failJob(job, startTime, fmt.Sprintf("create output: %v", err))
		return
	}
	if err := WriteTable(final, sheetName, f); err != nil {
		f.Close()
		os.Remove(outPath)
		s.failJob(job, startTime, fmt.Sprintf("write workbook: %v", err))
		return
	}
	if err := f.Close(); err != nil {
		os.Remove(outPath)
		s.failJob(job, startTime, fmt.Sprintf("close output: %v", err))
		return
	}

	job.Result = &JobResult{
		JobID:                   job.ID,
		Mode:                    job.Mode,
		SheetName:               sheetName,
		OutputName:              outputName,
		OutputPath:              outPath,
		Files:                   reports,
		TotalRows:               final.RowCount(),
		Log:                     logs,
		Duration:                time.Since(startTime),
		MergedDuplicatesRemoved: mergedRemoved,
	}

	job.Progress.Phase = PhaseComplete
	job.Progress.CurrentFile = ""
	job.notifyProgress()

	slog.Info("cleaning job complete",
		"job_id", job.ID,
		"mode", job.Mode,
		"files", len(files),
		"rows_out", final.RowCount(),
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
}

// failJob records a terminal failure and notifies listeners.
func (s *Service) failJob(job *activeJob, startTime time.Time, msg string) {
	job.Progress.Phase = PhaseFailed
	job.Progress.Error = msg
	job.notifyProgress()

	job.Result = &JobResult{
		JobID:    job.ID,
		Mode:     job.Mode,
		Error:    msg,
		Duration: time.Since(startTime),
	}

	slog.Error("cleaning job failed",
		"job_id", job.ID,
		"mode", job.Mode,
		"error", msg,
	)
}

// finishInterrupted records a cancellation or timeout, whichever the
// context reports.
func (s *Service) finishInterrupted(ctx context.Context, job *activeJob, startTime time.Time) {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		job.Progress.Phase = PhaseFailed
		job.Progress.Error = "job timed out: context deadline exceeded"
	} else {
		job.Progress.Phase = PhaseCancelled
		job.Progress.Error = "job cancelled"
	}
	job.notifyProgress()

	job.Result = &JobResult{
		JobID:    job.ID,
		Mode:     job.Mode,
		Error:    job.Progress.Error,
		Duration: time.Since(startTime),
	}

	slog.Warn("cleaning job interrupted",
		"job_id", job.ID,
		"mode", job.Mode,
		"reason", job.Progress.Error,
	)
}
