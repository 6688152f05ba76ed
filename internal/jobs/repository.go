package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fortuna/augur/internal/store"
)

// Repository handles persistence for prediction jobs.
type Repository struct {
	db *store.Database
}

// NewRepository constructs a Repository.
func NewRepository(db *store.Database) *Repository {
	return &Repository{db: db}
}

const jobColumns = `job_id, job_type, model, season, seasons, train_fraction,
	status, status_message, progress_current, progress_total,
	accuracy, log_loss, train_games, test_games,
	last_error, created_at, updated_at, started_at, completed_at`

// CreateJob inserts a new job row and returns the stored record.
func (r *Repository) CreateJob(ctx context.Context, job *Job) (*Job, error) {
	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO prediction_jobs (
			job_id, job_type, model, season, seasons, train_fraction,
			status, status_message, progress_current, progress_total
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING %s
	`, jobColumns)

	row := r.db.DB().QueryRowContext(ctx, query,
		job.JobID, job.JobType, job.Model, job.Season, job.Seasons, job.TrainFraction,
		job.Status, job.StatusMessage, job.ProgressCurrent, job.ProgressTotal,
	)

	return scanJob(row)
}

// GetJob returns one job by ID, or nil when it does not exist.
func (r *Repository) GetJob(ctx context.Context, jobID string) (*Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM prediction_jobs WHERE job_id = $1`, jobColumns)

	job, err := scanJob(r.db.DB().QueryRowContext(ctx, query, jobID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// UpdateStatus updates status, message and optional error.
func (r *Repository) UpdateStatus(ctx context.Context, jobID string, status JobStatus, message string, lastErr error) error {
	query := `
		UPDATE prediction_jobs
		SET status = $2::varchar,
			status_message = $3,
			last_error = $4,
			updated_at = NOW(),
			completed_at = CASE WHEN $2::varchar IN ('completed','failed','cancelled') THEN NOW() ELSE completed_at END
		WHERE job_id = $1
	`

	var errText sql.NullString
	if lastErr != nil {
		errText = sql.NullString{String: lastErr.Error(), Valid: true}
	}

	if _, err := r.db.DB().ExecContext(ctx, query, jobID, string(status), message, errText); err != nil {
		return fmt.Errorf("update job status: %w", err)
	}

	return nil
}

// UpdateProgress updates the progress counters and optional message.
func (r *Repository) UpdateProgress(ctx context.Context, jobID string, current, total int, message string) error {
	query := `
		UPDATE prediction_jobs
		SET progress_current = $2,
			progress_total = $3,
			status_message = $4,
			updated_at = NOW()
		WHERE job_id = $1
	`

	if _, err := r.db.DB().ExecContext(ctx, query, jobID, current, total, message); err != nil {
		return fmt.Errorf("update job progress: %w", err)
	}

	return nil
}

// RecordMetrics stores a backtest's holdout metrics on the job row.
func (r *Repository) RecordMetrics(ctx context.Context, jobID string, accuracy, logLoss float64, trainGames, testGames int) error {
	query := `
		UPDATE prediction_jobs
		SET accuracy = $2,
			log_loss = $3,
			train_games = $4,
			test_games = $5,
			updated_at = NOW()
		WHERE job_id = $1
	`

	if _, err := r.db.DB().ExecContext(ctx, query, jobID, accuracy, logLoss, trainGames, testGames); err != nil {
		return fmt.Errorf("record job metrics: %w", err)
	}

	return nil
}

// ResetStuckJobs moves running jobs back to queued (used during service restarts).
func (r *Repository) ResetStuckJobs(ctx context.Context) error {
	_, err := r.db.DB().ExecContext(ctx, `
		UPDATE prediction_jobs
		SET status = 'queued',
			status_message = 'Reset after service restart',
			updated_at = NOW()
		WHERE status = 'running'
	`)
	if err != nil {
		return fmt.Errorf("reset stuck jobs: %w", err)
	}
	return nil
}

// MarkNextJobRunning atomically claims the next queued job.
func (r *Repository) MarkNextJobRunning(ctx context.Context) (*Job, error) {
	query := `
		WITH next_job AS (
			SELECT job_id
			FROM prediction_jobs
			WHERE status = 'queued'
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE prediction_jobs
		SET status = 'running',
			status_message = 'Starting job...',
			started_at = COALESCE(started_at, NOW()),
			updated_at = NOW()
		FROM next_job
		WHERE prediction_jobs.job_id = next_job.job_id
		RETURNING prediction_jobs.job_id, prediction_jobs.job_type, prediction_jobs.model,
			prediction_jobs.season, prediction_jobs.seasons, prediction_jobs.train_fraction,
			prediction_jobs.status, prediction_jobs.status_message,
			prediction_jobs.progress_current, prediction_jobs.progress_total,
			prediction_jobs.accuracy, prediction_jobs.log_loss,
			prediction_jobs.train_games, prediction_jobs.test_games,
			prediction_jobs.last_error, prediction_jobs.created_at, prediction_jobs.updated_at,
			prediction_jobs.started_at, prediction_jobs.completed_at
	`

	row := r.db.DB().QueryRowContext(ctx, query)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// GetActiveJob returns the currently running job, if any.
func (r *Repository) GetActiveJob(ctx context.Context) (*Job, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM prediction_jobs
		WHERE status = 'running'
		ORDER BY started_at DESC
		LIMIT 1
	`, jobColumns)

	row := r.db.DB().QueryRowContext(ctx, query)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active job: %w", err)
	}
	return job, nil
}

// ListRecentJobs returns the most recently created jobs.
func (r *Repository) ListRecentJobs(ctx context.Context, limit int) ([]*Job, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM prediction_jobs
		ORDER BY created_at DESC
		LIMIT $1
	`, jobColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent jobs: %w", err)
	}
	defer rows.Close()

	var jobList []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobList = append(jobList, job)
	}

	return jobList, rows.Err()
}

func scanJob(scanner interface {
	Scan(dest ...interface{}) error
}) (*Job, error) {
	job := &Job{}
	err := scanner.Scan(
		&job.JobID,
		&job.JobType,
		&job.Model,
		&job.Season,
		&job.Seasons,
		&job.TrainFraction,
		&job.Status,
		&job.StatusMessage,
		&job.ProgressCurrent,
		&job.ProgressTotal,
		&job.Accuracy,
		&job.LogLoss,
		&job.TrainGames,
		&job.TestGames,
		&job.LastError,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.StartedAt,
		&job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return job, nil
}
