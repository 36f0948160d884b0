package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/opstools/qrcleaner/internal/core"
)

// handleCleanSingle starts a cleaning job over exactly one uploaded file.
func (s *Server) handleCleanSingle(w http.ResponseWriter, r *http.Request) {
	s.startCleanJob(w, r, core.ModeSingle)
}

// handleCleanMerge starts a cleaning job that merges all uploaded files into
// one workbook with cross-file phone deduplication.
func (s *Server) handleCleanMerge(w http.ResponseWriter, r *http.Request) {
	s.startCleanJob(w, r, core.ModeMerge)
}

// startCleanJob parses the multipart upload, buffers the files, and hands
// them to the service. Responds with the job ID for progress polling.
func (s *Server) startCleanJob(w http.ResponseWriter, r *http.Request, mode core.JobMode) {
	files, err := s.collectUploadedFiles(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	jobID, err := s.service.StartCleanJob(ctx, mode, files)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, core.ErrTooManyJobs) {
			w.Header().Set("Retry-After", "30")
			status = http.StatusTooManyRequests
		}
		s.respondError(w, r, err, status)
		return
	}

	writeJSON(w, map[string]string{"job_id": jobID})
}

// handlePreview runs the cleaning pipeline on one file without writing
// anything, returning the would-be summary, sample rows, and change log.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	files, err := s.collectUploadedFiles(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if len(files) != 1 {
		s.respondError(w, r, fmt.Errorf("preview accepts exactly one file, got %d", len(files)), http.StatusBadRequest)
		return
	}

	limit := parseIntParam(r, "rows", 0)
	resp, err := s.service.PreviewClean(r.Context(), files[0], limit)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, resp)
}

// collectUploadedFiles reads every uploaded spreadsheet from the multipart
// form into memory. Accepts a repeated "files" field or a single "file"
// field.
func (s *Server) collectUploadedFiles(w http.ResponseWriter, r *http.Request) ([]core.UploadedFile, error) {
	maxBytes := s.cfg.Upload.MaxFileSize * int64(s.cfg.Upload.MaxFiles)
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	// 32MB in memory, the remainder spills to temp files
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, fmt.Errorf("parse upload form: %w", err)
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		return nil, errors.New("no files uploaded")
	}

	files := make([]core.UploadedFile, 0, len(headers))
	for _, h := range headers {
		if h.Size > s.cfg.Upload.MaxFileSize {
			return nil, fmt.Errorf("file %s exceeds %dMB limit", h.Filename, s.cfg.Upload.MaxFileSize/(1024*1024))
		}
		data, err := readFormFile(h)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", h.Filename, err)
		}
		files = append(files, core.UploadedFile{Name: h.Filename, Data: data})
	}
	return files, nil
}

// readFormFile buffers one multipart file part.
func readFormFile(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
