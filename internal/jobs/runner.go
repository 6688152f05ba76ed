package jobs

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/fortuna/augur/internal/ingest/bdl"
	"github.com/fortuna/augur/internal/ingest/bref"
	"github.com/fortuna/augur/internal/predict"
	"github.com/fortuna/augur/internal/service"
)

// ProgressFunc receives progress callbacks while a job runs.
type ProgressFunc func(current, total int, message string)

// Result carries what a finished job produced.
type Result struct {
	GamesIngested int
	Examples      int
	Metrics       *predict.Metrics
}

// Runner executes one job at a time against the model service and the
// ingestion sources.
type Runner struct {
	models      *service.ModelService
	primary     *bdl.Ingester
	fallback    *bref.Ingester
	ingestTeams bool
}

// NewRunner wires a runner. fallback may be nil to disable the scrape path.
func NewRunner(models *service.ModelService, primary *bdl.Ingester, fallback *bref.Ingester) *Runner {
	return &Runner{
		models:      models,
		primary:     primary,
		fallback:    fallback,
		ingestTeams: true,
	}
}

// Run executes the job and returns its result.
func (r *Runner) Run(ctx context.Context, job *Job, progress ProgressFunc) (*Result, error) {
	switch job.JobType {
	case JobTypeIngest:
		return r.runIngest(ctx, job, progress)
	case JobTypeTrain:
		return r.runTrain(ctx, job, progress)
	case JobTypeBacktest:
		return r.runBacktest(ctx, job, progress)
	default:
		return nil, fmt.Errorf("unknown job type %s", job.JobType)
	}
}

func (r *Runner) runIngest(ctx context.Context, job *Job, progress ProgressFunc) (*Result, error) {
	seasons := job.Seasons
	if len(seasons) == 0 && job.Season.Valid {
		seasons = []string{job.Season.String}
	}

	if r.ingestTeams {
		progress(0, len(seasons), "Ingesting teams")
		if _, err := r.primary.IngestTeams(ctx); err != nil {
			return nil, fmt.Errorf("ingesting teams: %w", err)
		}
	}

	result := &Result{}
	for idx, seasonStr := range seasons {
		season, err := strconv.Atoi(seasonStr)
		if err != nil {
			return result, fmt.Errorf("bad season %q: %w", seasonStr, err)
		}
		progress(idx, len(seasons), fmt.Sprintf("Ingesting season %d", season))

		n, err := r.primary.IngestSeason(ctx, season)
		if err != nil && r.fallback != nil {
			log.Printf("[jobs] Primary source failed for season %d, trying fallback: %v", season, err)
			// Fallback pages are keyed by the season's closing year
			n, err = r.fallback.IngestSeason(ctx, season+1)
		}
		if err != nil {
			return result, fmt.Errorf("ingesting season %d: %w", season, err)
		}
		result.GamesIngested += n
	}

	progress(len(seasons), len(seasons), "Ingest complete")
	return result, nil
}

func (r *Runner) runTrain(ctx context.Context, job *Job, progress ProgressFunc) (*Result, error) {
	progress(0, 1, fmt.Sprintf("Training %s on season %s", job.Model.String, job.Season.String))

	n, err := r.models.Train(ctx, job.Model.String, job.Season.String)
	if err != nil {
		return nil, err
	}

	progress(1, 1, fmt.Sprintf("Trained on %d examples", n))
	return &Result{Examples: n}, nil
}

func (r *Runner) runBacktest(ctx context.Context, job *Job, progress ProgressFunc) (*Result, error) {
	fraction := predict.DefaultTrainFraction
	if job.TrainFraction.Valid && job.TrainFraction.Float64 > 0 {
		fraction = job.TrainFraction.Float64
	}

	progress(0, 1, fmt.Sprintf("Backtesting %s on season %s", job.Model.String, job.Season.String))

	metrics, err := r.models.Evaluate(ctx, job.Model.String, job.Season.String, fraction)
	if err != nil {
		return nil, err
	}

	progress(1, 1, fmt.Sprintf("Holdout accuracy %.3f over %d games", metrics.Accuracy, metrics.TestGames))
	return &Result{Metrics: metrics}, nil
}
