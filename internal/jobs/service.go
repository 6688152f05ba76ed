package jobs

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/fortuna/augur/internal/store"
)

// Service coordinates job persistence, execution, and status reporting.
// One worker goroutine drains the queue; claims go through the database so
// multiple instances never run the same job.
type Service struct {
	repo   *Repository
	runner *Runner

	historyLimit int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewService constructs a Service. Call Start to launch the worker.
func NewService(db *store.Database, runner *Runner, logger *log.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	if logger == nil {
		logger = log.New(log.Writer(), "[jobs] ", log.LstdFlags)
	}

	return &Service{
		repo:         NewRepository(db),
		runner:       runner,
		historyLimit: 10,
		ctx:          ctx,
		cancel:       cancel,
		logger:       logger,
	}
}

// Start launches the background worker loop.
func (s *Service) Start() {
	if err := s.repo.ResetStuckJobs(s.ctx); err != nil {
		s.logger.Printf("failed to reset jobs: %v", err)
	}

	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops the worker and waits for the current job to finish.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Enqueue creates a new job from the provided request.
func (s *Service) Enqueue(ctx context.Context, req Request) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	job := &Job{
		JobType:       req.Type,
		Status:        JobStatusQueued,
		StatusMessage: sql.NullString{String: "Queued", Valid: true},
	}
	if req.Model != "" {
		job.Model = sql.NullString{String: req.Model, Valid: true}
	}
	if req.Season != "" {
		job.Season = sql.NullString{String: req.Season, Valid: true}
	}
	if len(req.Seasons) > 0 {
		job.Seasons = req.Seasons
	}
	if req.TrainFraction > 0 {
		job.TrainFraction = sql.NullFloat64{Float64: req.TrainFraction, Valid: true}
	}

	switch req.Type {
	case JobTypeIngest:
		job.ProgressTotal = len(req.Seasons)
		if job.ProgressTotal == 0 {
			job.ProgressTotal = 1
		}
	default:
		job.ProgressTotal = 1
	}

	return s.repo.CreateJob(ctx, job)
}

// GetJob returns one job by ID, or nil when it does not exist.
func (s *Service) GetJob(ctx context.Context, jobID string) (*Job, error) {
	return s.repo.GetJob(ctx, jobID)
}

// GetStatus returns the currently running job plus recent history.
func (s *Service) GetStatus(ctx context.Context) (*StatusSummary, error) {
	active, err := s.repo.GetActiveJob(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.ListRecentJobs(ctx, s.historyLimit)
	if err != nil {
		return nil, err
	}

	return &StatusSummary{
		ActiveJob: active,
		History:   history,
	}, nil
}

func (s *Service) worker() {
	defer s.wg.Done()

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
			job, err := s.repo.MarkNextJobRunning(s.ctx)
			if err != nil {
				s.logger.Printf("claim job error: %v", err)
				time.Sleep(time.Second)
				continue
			}
			if job == nil {
				select {
				case <-s.ctx.Done():
					return
				case <-ticker.C:
					continue
				}
			}

			s.executeJob(job)
		}
	}
}

func (s *Service) executeJob(job *Job) {
	progress := func(current, total int, message string) {
		if err := s.repo.UpdateProgress(s.ctx, job.JobID, current, total, message); err != nil {
			s.logger.Printf("progress update for %s: %v", job.JobID, err)
		}
	}

	result, err := s.runner.Run(s.ctx, job, progress)
	if err != nil {
		s.logger.Printf("job %s failed: %v", job.JobID, err)
		_ = s.repo.UpdateStatus(s.ctx, job.JobID, JobStatusFailed, "Job failed", err)
		return
	}

	if result != nil && result.Metrics != nil {
		m := result.Metrics
		if err := s.repo.RecordMetrics(s.ctx, job.JobID, m.Accuracy, m.LogLoss, m.TrainGames, m.TestGames); err != nil {
			s.logger.Printf("recording metrics for %s: %v", job.JobID, err)
		}
	}

	_ = s.repo.UpdateStatus(s.ctx, job.JobID, JobStatusCompleted, "Job completed", nil)
}
