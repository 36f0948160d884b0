package core

// janitor.go provides background cleanup of finished output workbooks.
//
// Every job writes its workbook under the configured output directory and
// keeps it there for the retention window so the download link on the
// result page stays valid. The janitor periodically removes workbooks
// whose retention has lapsed.
//
// The janitor is designed to be long-running and context-aware for
// graceful shutdown. It logs progress and errors but does not fail the
// application if an individual sweep fails.

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StartRetentionJanitor starts a background goroutine that periodically
// deletes expired output workbooks. It runs immediately on start, then
// every SweepInterval. The janitor stops when the context is cancelled.
func (s *Service) StartRetentionJanitor(ctx context.Context) {
	slog.Info("retention janitor started",
		"output_dir", s.cfg.OutputDir,
		"retention_ttl", s.cfg.RetentionTTL,
		"sweep_interval", s.cfg.SweepInterval,
	)

	// Run immediately on startup
	s.sweepExpiredOutputs()

	// Then run periodically
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention janitor stopped")
			return
		case <-ticker.C:
			s.sweepExpiredOutputs()
		}
	}
}

// sweepExpiredOutputs performs one sweep over the output directory.
func (s *Service) sweepExpiredOutputs() {
	start := time.Now()
	cutoff := start.Add(-s.cfg.RetentionTTL)

	entries, err := os.ReadDir(s.cfg.OutputDir)
	if err != nil {
		slog.Error("output sweep failed", "error", err)
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xlsx") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.cfg.OutputDir, entry.Name())
		if err := os.Remove(path); err != nil {
			slog.Error("remove expired output failed", "path", path, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		slog.Info("removed expired outputs",
			"files_removed", removed,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
