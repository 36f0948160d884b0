package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/opstools/qrcleaner/internal/core"
)

// handleJobProgress streams job progress via Server-Sent Events.
// Supports resumption via lastEventId query parameter for reconnection.
func (s *Server) handleJobProgress(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	// Support resumption from last event ID
	// The event ID is the progress percentage, allowing clients to skip
	// already-received events after reconnection
	lastEventIDStr := r.URL.Query().Get("lastEventId")
	var lastEventID int
	if lastEventIDStr != "" {
		lastEventID, _ = strconv.Atoi(lastEventIDStr)
	}

	progressCh, err := s.service.SubscribeProgress(jobID)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, r, errors.New("streaming not supported"), http.StatusInternalServerError)
		return
	}

	for {
		select {
		case progress, ok := <-progressCh:
			if !ok {
				// Channel closed - job finished
				fmt.Fprintf(w, "event: complete\ndata: {}\n\n")
				flusher.Flush()
				return
			}

			currentPercent := progress.Percent()

			// Skip events that were already sent (for resumption)
			if lastEventIDStr != "" && currentPercent <= lastEventID && !progress.Phase.Terminal() {
				continue
			}

			data, _ := json.Marshal(progress)
			fmt.Fprintf(w, "id: %d\nevent: progress\ndata: %s\n\n", currentPercent, data)
			flusher.Flush()

			if progress.Phase.Terminal() {
				fmt.Fprintf(w, "event: complete\ndata: {}\n\n")
				flusher.Flush()
				return
			}

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}

// JobResultResponse wraps the job result for JSON encoding.
type JobResultResponse struct {
	JobID                   string            `json:"job_id"`
	Mode                    core.JobMode      `json:"mode"`
	SheetName               string            `json:"sheet_name,omitempty"`
	OutputName              string            `json:"output_name,omitempty"`
	Files                   []core.FileReport `json:"files,omitempty"`
	TotalRows               int               `json:"total_rows"`
	MergedDuplicatesRemoved int               `json:"merged_duplicates_removed"`
	Log                     []string          `json:"log,omitempty"`
	Duration                string            `json:"duration"`
	Error                   string            `json:"error,omitempty"`
	DownloadURL             string            `json:"download_url,omitempty"`
	LogURL                  string            `json:"log_url,omitempty"`
}

// toResponse converts a JobResult to a JSON-friendly format.
func toResponse(result *core.JobResult) JobResultResponse {
	resp := JobResultResponse{
		JobID:                   result.JobID,
		Mode:                    result.Mode,
		SheetName:               result.SheetName,
		OutputName:              result.OutputName,
		Files:                   result.Files,
		TotalRows:               result.TotalRows,
		MergedDuplicatesRemoved: result.MergedDuplicatesRemoved,
		Log:                     result.Log,
		Duration:                result.Duration.String(),
		Error:                   result.Error,
	}
	if result.Error == "" {
		resp.DownloadURL = "/api/jobs/" + result.JobID + "/download"
		resp.LogURL = "/api/jobs/" + result.JobID + "/log.csv"
	}
	return resp
}

// handleJobResult returns the final result of a job.
// Blocks until the job completes if still in progress.
func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	result, err := s.service.GetJobResult(jobID)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, toResponse(result))
}

// handleJobCancel cancels an in-progress job.
func (s *Server) handleJobCancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	if err := s.service.CancelJob(jobID); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"cancelled"}`))
}

// handleJobDownload serves the finished workbook for a job.
func (s *Server) handleJobDownload(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	result, err := s.service.GetJobResult(jobID)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	if result.Error != "" {
		s.respondError(w, r, errors.New(result.Error), http.StatusConflict)
		return
	}

	f, err := os.Open(result.OutputPath)
	if err != nil {
		// The retention janitor may have removed it already
		s.respondError(w, r, fmt.Errorf("job not found: output for %s expired", jobID), http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.OutputName))
	http.ServeContent(w, r, result.OutputName, info.ModTime(), f)
}

// handleJobLog exports a job's change log as a CSV file.
func (s *Server) handleJobLog(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	result, err := s.service.GetJobResult(jobID)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("change_log_%s.csv", timestamp)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := core.WriteLogCSV(result.Log, w); err != nil {
		// Headers are already sent, nothing useful to return to the client
		slog.Error("change log export failed", "job_id", jobID, "error", err)
	}
}
