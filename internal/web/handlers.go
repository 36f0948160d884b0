package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/opstools/qrcleaner/internal/core"
	"github.com/opstools/qrcleaner/internal/web/templates"
)

// handleHome renders the upload page.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	params := templates.HomeParams{
		MaxFileSizeMB: s.cfg.Upload.MaxFileSize / (1024 * 1024),
		MaxFiles:      s.cfg.Upload.MaxFiles,
	}
	templates.Home(params).Render(r.Context(), w)
}

// handleTemplate streams an empty workbook with the expected column headers.
// Date and ID columns are pre-formatted as text so pasted values survive.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="Clean_Template.xlsx"`)

	if err := core.WriteTemplate(w); err != nil {
		// Headers are already sent, nothing useful to return to the client
		slog.Error("template download failed", "error", err)
	}
}

// handleQueueStatus returns the current state of the job limiter.
// Used for monitoring and to check if the system can accept more jobs.
func (s *Server) handleQueueStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.LimiterStatus())
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
