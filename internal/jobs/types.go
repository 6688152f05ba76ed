package jobs

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// JobType enumerates the supported job variants.
type JobType string

const (
	// JobTypeIngest backfills one or more seasons of completed games.
	JobTypeIngest JobType = "ingest"
	// JobTypeTrain fits a model on a stored season and activates it.
	JobTypeTrain JobType = "train"
	// JobTypeBacktest evaluates a model on a chronological holdout.
	JobTypeBacktest JobType = "backtest"
)

// JobStatus represents the lifecycle state for a job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job models the database representation of a prediction job.
type Job struct {
	JobID           string
	JobType         JobType
	Model           sql.NullString
	Season          sql.NullString
	Seasons         pq.StringArray
	TrainFraction   sql.NullFloat64
	Status          JobStatus
	StatusMessage   sql.NullString
	ProgressCurrent int
	ProgressTotal   int
	Accuracy        sql.NullFloat64
	LogLoss         sql.NullFloat64
	TrainGames      sql.NullInt32
	TestGames       sql.NullInt32
	LastError       sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
	StartedAt       sql.NullTime
	CompletedAt     sql.NullTime
}

// Copy returns a shallow copy to prevent external mutation.
func (j *Job) Copy() *Job {
	if j == nil {
		return nil
	}
	cpy := *j
	return &cpy
}

// Request represents a job submission.
type Request struct {
	Type          JobType  `json:"type"`
	Model         string   `json:"model,omitempty"`
	Season        string   `json:"season,omitempty"`
	Seasons       []string `json:"seasons,omitempty"`
	TrainFraction float64  `json:"train_fraction,omitempty"`
}

// Validate checks the request carries the fields its type needs.
func (r Request) Validate() error {
	switch r.Type {
	case JobTypeIngest:
		if len(r.Seasons) == 0 && r.Season == "" {
			return fmt.Errorf("ingest job requires at least one season")
		}
	case JobTypeTrain:
		if r.Model == "" || r.Season == "" {
			return fmt.Errorf("train job requires model and season")
		}
	case JobTypeBacktest:
		if r.Model == "" || r.Season == "" {
			return fmt.Errorf("backtest job requires model and season")
		}
		if r.TrainFraction < 0 || r.TrainFraction >= 1 {
			return fmt.Errorf("train_fraction must be in [0, 1)")
		}
	default:
		return fmt.Errorf("unknown job type %q", r.Type)
	}
	return nil
}

// StatusSummary is the running job plus recent history.
type StatusSummary struct {
	ActiveJob *Job
	History   []*Job
}
