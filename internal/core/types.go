package core

import "time"

// JobMode selects which cleaning flow a job runs.
type JobMode string

const (
	// ModeSingle cleans exactly one file into Cleaned_Single.xlsx.
	ModeSingle JobMode = "single"
	// ModeMerge cleans each file, concatenates them, and deduplicates
	// phone numbers across files into Cleaned_Merged.xlsx.
	ModeMerge JobMode = "merge"
)

// JobPhase indicates the current stage of job processing.
type JobPhase string

const (
	PhaseStarting  JobPhase = "starting"
	PhaseReading   JobPhase = "reading"
	PhaseCleaning  JobPhase = "cleaning"
	PhaseMerging   JobPhase = "merging"
	PhaseWriting   JobPhase = "writing"
	PhaseComplete  JobPhase = "complete"
	PhaseFailed    JobPhase = "failed"
	PhaseCancelled JobPhase = "cancelled"
)

// Terminal reports whether the phase is a final state.
func (p JobPhase) Terminal() bool {
	return p == PhaseComplete || p == PhaseFailed || p == PhaseCancelled
}

// UploadedFile is one uploaded spreadsheet, fully buffered.
type UploadedFile struct {
	Name string
	Data []byte
}

// JobProgress represents the current state of a cleaning job.
type JobProgress struct {
	JobID       string   `json:"job_id"`
	Mode        JobMode  `json:"mode"`
	Phase       JobPhase `json:"phase"`
	CurrentFile string   `json:"current_file,omitempty"`
	FilesDone   int      `json:"files_done"`
	FilesTotal  int      `json:"files_total"`
	RowsIn      int      `json:"rows_in"`
	RowsOut     int      `json:"rows_out"`
	Error       string   `json:"error,omitempty"` // Non-empty if Phase is PhaseFailed
	// Byte counters cover the buffered input so progress is meaningful
	// before row counts are known.
	BytesRead  int64 `json:"bytes_read"`
	BytesTotal int64 `json:"bytes_total"`
}

// Percent returns the progress as a percentage (0-100).
// Uses file-based progress when the batch size is known, otherwise falls
// back to byte-based.
func (p JobProgress) Percent() int {
	if p.Phase == PhaseComplete {
		return 100
	}
	if p.FilesTotal > 0 {
		return (p.FilesDone * 100) / p.FilesTotal
	}
	if p.BytesTotal > 0 {
		return int((p.BytesRead * 100) / p.BytesTotal)
	}
	return 0
}

// FileReport summarizes the pipeline's effect on a single input file.
type FileReport struct {
	FileName               string   `json:"file_name"`
	RowsIn                 int      `json:"rows_in"`
	RowsOut                int      `json:"rows_out"`
	BlankMobileRemoved     int      `json:"blank_mobile_removed"`
	DuplicateMobileRemoved int      `json:"duplicate_mobile_removed"`
	ClearedColumns         []string `json:"cleared_columns,omitempty"`
}

// JobResult contains the final result of a cleaning job.
type JobResult struct {
	JobID      string
	Mode       JobMode
	SheetName  string
	OutputName string // Download file name, eg. Cleaned_Single.xlsx
	OutputPath string // Absolute path of the written workbook
	Files      []FileReport
	TotalRows  int // Data rows in the output workbook
	Log        []string
	Duration   time.Duration
	Error      string // Non-empty if the job failed

	// MergedDuplicatesRemoved counts rows dropped by the cross-file
	// deduplication pass. Zero in single mode.
	MergedDuplicatesRemoved int
}
