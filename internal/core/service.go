package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Defaults for ServiceConfig zero values.
const (
	DefaultJobTimeout    = 10 * time.Minute
	DefaultMaxFileSize   = 100 * 1024 * 1024
	DefaultMaxFiles      = 20
	DefaultRetentionTTL  = time.Hour
	DefaultSweepInterval = 10 * time.Minute
)

// ServiceConfig carries the tunables for a Service. Zero values fall back
// to the package defaults.
type ServiceConfig struct {
	OutputDir     string        // Directory for finished workbooks
	MaxConcurrent int           // Parallel job limit
	MaxWaitTime   time.Duration // How long StartCleanJob waits for a slot
	JobTimeout    time.Duration // Per-job processing deadline
	MaxFileSize   int64         // Per-file upload limit in bytes
	MaxFiles      int           // Per-batch file count limit
	RetentionTTL  time.Duration // How long finished outputs are kept
	SweepInterval time.Duration // How often the janitor scans OutputDir
}

// Service provides the core business logic for spreadsheet cleaning jobs.
type Service struct {
	cfg     ServiceConfig
	limiter *JobLimiter

	mu   sync.RWMutex
	jobs map[string]*activeJob
}

type activeJob struct {
	ID         string
	Mode       JobMode
	Cancel     context.CancelFunc
	Progress   JobProgress
	Result     *JobResult
	Done       chan struct{}
	Listeners  []chan JobProgress
	ListenerMu sync.Mutex
}

// NewService creates a Service and ensures the output directory exists.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.OutputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		cfg.OutputDir = filepath.Join(wd, "outputs")
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultJobTimeout
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = DefaultMaxFiles
	}
	if cfg.RetentionTTL <= 0 {
		cfg.RetentionTTL = DefaultRetentionTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return &Service{
		cfg:     cfg,
		limiter: NewJobLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		jobs:    make(map[string]*activeJob),
	}, nil
}

// StartCleanJob begins an asynchronous cleaning job over the uploaded
// files. Returns the job ID immediately; use SubscribeProgress for updates
// and GetJobResult for the outcome.
//
// Returns ErrTooManyJobs if the concurrent job limit is reached and no
// slot becomes available within the wait period.
func (s *Service) StartCleanJob(ctx context.Context, mode JobMode, files []UploadedFile) (string, error) {
	if err := s.validateBatch(mode, files); err != nil {
		return "", err
	}

	// Acquire a job slot (blocks until available or timeout)
	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}

	jobID := uuid.New().String()

	jobCtx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)

	var bytesTotal int64
	for _, f := range files {
		bytesTotal += int64(len(f.Data))
	}

	job := &activeJob{
		ID:     jobID,
		Mode:   mode,
		Cancel: cancel,
		Progress: JobProgress{
			JobID:      jobID,
			Mode:       mode,
			Phase:      PhaseStarting,
			FilesTotal: len(files),
			BytesTotal: bytesTotal,
		},
		Done:      make(chan struct{}),
		Listeners: make([]chan JobProgress, 0),
	}

	s.mu.Lock()
	s.jobs[jobID] = job
	s.mu.Unlock()

	slog.Info("cleaning job accepted",
		"job_id", jobID,
		"mode", mode,
		"files", len(files),
		"bytes", bytesTotal,
		"client_ip", ClientIPFromContext(ctx),
		"user_agent", UserAgentFromContext(ctx),
	)

	// Process in background with panic recovery to ensure limiter release
	go func() {
		defer s.limiter.Release()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in cleaning job",
					"job_id", jobID,
					"mode", mode,
					"panic", r,
				)
				job.Progress.Phase = PhaseFailed
				job.Progress.Error = fmt.Sprintf("internal error: %v", r)
				job.notifyProgress()
				job.closeListeners()
				close(job.Done)
				s.cleanupJob(jobID, s.cfg.RetentionTTL)
			}
		}()
		s.processJob(jobCtx, job, files)
	}()

	return jobID, nil
}

// validateBatch rejects malformed batches before a job slot is taken.
func (s *Service) validateBatch(mode JobMode, files []UploadedFile) error {
	if mode != ModeSingle && mode != ModeMerge {
		return fmt.Errorf("unknown job mode: %s", mode)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files uploaded")
	}
	if mode == ModeSingle && len(files) != 1 {
		return fmt.Errorf("single mode accepts exactly one file, got %d", len(files))
	}
	if len(files) > s.cfg.MaxFiles {
		return fmt.Errorf("too many files: got %d, limit is %d", len(files), s.cfg.MaxFiles)
	}
	for _, f := range files {
		if !SupportedFileType(f.Name) {
			return fmt.Errorf("%w: %s", ErrUnsupportedFileType, f.Name)
		}
		if len(f.Data) == 0 {
			return fmt.Errorf("empty file: %s", f.Name)
		}
		if int64(len(f.Data)) > s.cfg.MaxFileSize {
			return fmt.Errorf("file %s exceeds %dMB limit", f.Name, s.cfg.MaxFileSize/(1024*1024))
		}
	}
	return nil
}

// SubscribeProgress returns a channel that receives progress updates.
// The channel is closed when the job completes.
func (s *Service) SubscribeProgress(jobID string) (<-chan JobProgress, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	ch := make(chan JobProgress, 10)

	job.ListenerMu.Lock()
	job.Listeners = append(job.Listeners, ch)
	// Send current progress immediately
	select {
	case ch <- job.Progress:
	default:
	}
	job.ListenerMu.Unlock()

	return ch, nil
}

// CancelJob cancels an in-progress job.
func (s *Service) CancelJob(jobID string) error {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job not found: %s", jobID)
	}

	job.Cancel()
	return nil
}

// GetJobResult returns the result of a completed job.
// Blocks until the job completes if still in progress.
func (s *Service) GetJobResult(jobID string) (*JobResult, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	<-job.Done

	return job.Result, nil
}

// GetJobProgress returns the current progress without blocking.
func (s *Service) GetJobProgress(jobID string) (JobProgress, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()

	if !ok {
		return JobProgress{}, fmt.Errorf("job not found: %s", jobID)
	}

	return job.Progress, nil
}

// LimiterStatus returns the job limiter state for the queue endpoint.
func (s *Service) LimiterStatus() JobLimiterStatus {
	return s.limiter.Status()
}

// OutputPath resolves a job ID to its output workbook path. The ID must be
// a well-formed UUID so a crafted ID can never escape the output
// directory.
func (s *Service) OutputPath(jobID string) (string, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return "", fmt.Errorf("job not found: %s", jobID)
	}
	return filepath.Join(s.cfg.OutputDir, jobID+".xlsx"), nil
}

// Shutdown waits for active jobs to drain or the context to expire.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// notifyProgress sends progress updates to all listeners.
func (job *activeJob) notifyProgress() {
	job.ListenerMu.Lock()
	defer job.ListenerMu.Unlock()

	for _, ch := range job.Listeners {
		select {
		case ch <- job.Progress:
		default:
			// Listener is slow, skip this update
		}
	}
}

// closeListeners closes all listener channels.
func (job *activeJob) closeListeners() {
	job.ListenerMu.Lock()
	defer job.ListenerMu.Unlock()

	for _, ch := range job.Listeners {
		close(ch)
	}
	job.Listeners = nil
}

// cleanupJob removes the job from tracking after a delay.
func (s *Service) cleanupJob(jobID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.jobs, jobID)
		s.mu.Unlock()
	})
}
