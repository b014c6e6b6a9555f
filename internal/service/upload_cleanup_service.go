package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/pkg/jobs"
)

const jobTypeDeleteUpload = "delete_upload"

type uploadRemover interface {
	Delete(name string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type cleanupMetrics interface {
	ObserveUploadsDeleted(mode string, count int)
}

// UploadCleanupConfig tunes upload removal.
type UploadCleanupConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
	Retention  time.Duration
}

// UploadCleanupService removes parsed uploads in the background and sweeps stale leftovers.
type UploadCleanupService struct {
	storage uploadRemover
	queue   *jobs.Queue
	metrics cleanupMetrics
	logger  *zap.Logger
	cfg     UploadCleanupConfig
}

// NewUploadCleanupService wires the deletion queue. Metrics may be nil.
func NewUploadCleanupService(storage uploadRemover, metrics cleanupMetrics, cfg UploadCleanupConfig, logger *zap.Logger) *UploadCleanupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Retention <= 0 {
		cfg.Retention = time.Hour
	}
	s := &UploadCleanupService{
		storage: storage,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
	s.queue = jobs.NewQueue("upload-cleanup", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the deletion workers.
func (s *UploadCleanupService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains pending deletions and stops the workers.
func (s *UploadCleanupService) Stop() {
	s.queue.Stop()
}

// Pending reports how many deletions are waiting for a worker.
func (s *UploadCleanupService) Pending() int {
	return s.queue.Pending()
}

// Schedule queues removal of a stored upload. When the queue cannot take the
// job the file is removed inline.
func (s *UploadCleanupService) Schedule(name string) {
	if name == "" {
		return
	}
	err := s.queue.TryEnqueue(jobs.Job{Type: jobTypeDeleteUpload, Payload: name})
	if err == nil {
		return
	}
	if !errors.Is(err, jobs.ErrQueueFull) && !errors.Is(err, jobs.ErrQueueClosed) {
		s.logger.Warn("enqueue upload cleanup", zap.String("upload", name), zap.Error(err))
	}
	if err := s.storage.Delete(name); err != nil {
		s.logger.Error("delete upload inline", zap.String("upload", name), zap.Error(err))
		return
	}
	s.observe("inline", 1)
}

// Sweep removes uploads older than the retention period.
func (s *UploadCleanupService) Sweep() ([]string, error) {
	deleted, err := s.storage.CleanupOlderThan(s.cfg.Retention)
	if err != nil {
		return nil, err
	}
	if len(deleted) > 0 {
		s.logger.Info("stale uploads removed", zap.Int("count", len(deleted)), zap.Strings("uploads", deleted))
	}
	s.observe("sweep", len(deleted))
	return deleted, nil
}

// RunSweeper sweeps on every tick until ctx is cancelled.
func (s *UploadCleanupService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(); err != nil {
				s.logger.Error("sweep uploads", zap.Error(err))
			}
		}
	}
}

func (s *UploadCleanupService) handle(_ context.Context, job jobs.Job) error {
	name, ok := job.Payload.(string)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}
	if err := s.storage.Delete(name); err != nil {
		return err
	}
	s.logger.Debug("upload removed", zap.String("upload", name), zap.String("job_id", job.ID))
	s.observe("queue", 1)
	return nil
}

func (s *UploadCleanupService) observe(mode string, count int) {
	if s.metrics != nil {
		s.metrics.ObserveUploadsDeleted(mode, count)
	}
}
