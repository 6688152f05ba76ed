package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/augur/internal/feature"
	"github.com/fortuna/augur/internal/predict"
)

// ErrDataUnavailable indicates an upstream collaborator failed while loading
// a team's data. The pipeline never retries; the caller decides whether to.
var ErrDataUnavailable = errors.New("game data unavailable")

// GameHistoryProvider supplies a team's completed games strictly before a
// date, newest first. Implementations own authentication, pagination and
// transient-failure retries.
type GameHistoryProvider interface {
	TeamHistory(ctx context.Context, teamAbbr string, before time.Time, limit int) ([]feature.GameRecord, error)
}

// ScheduleProvider supplies a team's upcoming games.
type ScheduleProvider interface {
	UpcomingGames(ctx context.Context, teamAbbr string, limit int) ([]Matchup, error)
}

// Matchup is one scheduled (home, visitor, date) pairing.
type Matchup struct {
	HomeTeam    string    `json:"home_team"`
	VisitorTeam string    `json:"visitor_team"`
	GameDate    time.Time `json:"game_date"`
}

// historyFetchLimit is how many completed games to pull per team; comfortably
// more than any window size in use so the tail selection has slack.
const historyFetchLimit = 20

// PredictionService runs the matchup pipeline: history, rolling form, derived
// metrics, feature vector, classifier, confidence band. It holds no mutable
// state across calls beyond the trained model, so matchups can be predicted
// concurrently.
type PredictionService struct {
	history    GameHistoryProvider
	schedule   ScheduleProvider
	predictor  predict.Predictor
	windowSize int
}

// NewPredictionService wires the pipeline. schedule may be nil when only
// direct matchup calls are needed.
func NewPredictionService(history GameHistoryProvider, schedule ScheduleProvider, predictor predict.Predictor, windowSize int) *PredictionService {
	if windowSize <= 0 {
		windowSize = feature.DefaultWindowSize
	}
	return &PredictionService{
		history:    history,
		schedule:   schedule,
		predictor:  predictor,
		windowSize: windowSize,
	}
}

// PredictMatchup predicts a single game. The result carries both teams'
// window stats and the derived metrics so callers can display them.
func (s *PredictionService) PredictMatchup(ctx context.Context, homeAbbr, visitorAbbr string, gameDate time.Time) (*predict.Result, error) {
	homeGames, err := s.history.TeamHistory(ctx, homeAbbr, gameDate, historyFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s history: %v", ErrDataUnavailable, homeAbbr, err)
	}
	visitorGames, err := s.history.TeamHistory(ctx, visitorAbbr, gameDate, historyFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s history: %v", ErrDataUnavailable, visitorAbbr, err)
	}

	homeForm, err := feature.ComputeWindowStats(homeAbbr, homeGames, gameDate, s.windowSize)
	if err != nil {
		return nil, err
	}
	visitorForm, err := feature.ComputeWindowStats(visitorAbbr, visitorGames, gameDate, s.windowSize)
	if err != nil {
		return nil, err
	}

	homeNet := feature.WindowNetRating(homeGames, gameDate, s.windowSize)
	visitorNet := feature.WindowNetRating(visitorGames, gameDate, s.windowSize)
	restDiff := feature.RestDifferential(gameDate,
		feature.LastGameDate(homeGames, gameDate),
		feature.LastGameDate(visitorGames, gameDate))
	travel := feature.TravelDistance(visitorAbbr, homeAbbr)

	vector, err := s.buildVector(homeForm, visitorForm, feature.ExtendedMetrics{
		NetRatingDiff:    homeNet - visitorNet,
		RestDifferential: restDiff,
		TravelMiles:      travel,
	})
	if err != nil {
		return nil, err
	}

	prob, err := s.predictor.PredictProb(vector)
	if err != nil {
		return nil, fmt.Errorf("predicting %s vs %s: %w", homeAbbr, visitorAbbr, err)
	}

	result := predict.NewResult(prob)
	result.HomeTeam = homeAbbr
	result.VisitorTeam = visitorAbbr
	result.GameDate = gameDate
	result.HomeForm = homeForm
	result.VisitorForm = visitorForm
	result.HomeNetRating = homeNet
	result.VisitorNetRating = visitorNet
	result.RestDifferential = restDiff
	result.TravelMiles = travel
	result.Schema = vector.Schema
	return &result, nil
}

// PredictUpcoming predicts every scheduled game within the horizon. Each
// matchup is independent; one team's missing history skips that game (with
// the failure recorded on the entry) rather than aborting the batch.
func (s *PredictionService) PredictUpcoming(ctx context.Context, teamAbbr string, limit int) ([]UpcomingPrediction, error) {
	if s.schedule == nil {
		return nil, fmt.Errorf("%w: no schedule provider configured", ErrDataUnavailable)
	}

	matchups, err := s.schedule.UpcomingGames(ctx, teamAbbr, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s schedule: %v", ErrDataUnavailable, teamAbbr, err)
	}

	predictions := make([]UpcomingPrediction, 0, len(matchups))
	for _, m := range matchups {
		entry := UpcomingPrediction{Matchup: m}
		result, err := s.PredictMatchup(ctx, m.HomeTeam, m.VisitorTeam, m.GameDate)
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.Result = result
		}
		predictions = append(predictions, entry)
	}
	return predictions, nil
}

// PredictBatch predicts a caller-supplied set of matchups with the same
// per-game independence as PredictUpcoming.
func (s *PredictionService) PredictBatch(ctx context.Context, matchups []Matchup) []UpcomingPrediction {
	predictions := make([]UpcomingPrediction, 0, len(matchups))
	for _, m := range matchups {
		entry := UpcomingPrediction{Matchup: m}
		result, err := s.PredictMatchup(ctx, m.HomeTeam, m.VisitorTeam, m.GameDate)
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.Result = result
		}
		predictions = append(predictions, entry)
	}
	return predictions
}

// UpcomingPrediction pairs a scheduled matchup with its prediction, or the
// reason it could not be made.
type UpcomingPrediction struct {
	Matchup Matchup         `json:"matchup"`
	Result  *predict.Result `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (s *PredictionService) buildVector(home, visitor feature.TeamWindowStats, ext feature.ExtendedMetrics) (feature.MatchupVector, error) {
	switch s.predictor.Schema() {
	case feature.SchemaBasic:
		return feature.BuildBasicVector(home, visitor), nil
	case feature.SchemaExtended:
		return feature.BuildExtendedVector(home, visitor, ext), nil
	}
	return feature.MatchupVector{}, fmt.Errorf("%w: predictor bound to unknown schema %q", feature.ErrSchemaMismatch, s.predictor.Schema())
}
