package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fortuna/augur/internal/feature"
	"github.com/fortuna/augur/internal/predict"
)

type fakeHistory struct {
	games map[string][]feature.GameRecord
	fail  map[string]bool
}

func (f *fakeHistory) TeamHistory(_ context.Context, teamAbbr string, before time.Time, limit int) ([]feature.GameRecord, error) {
	if f.fail[teamAbbr] {
		return nil, fmt.Errorf("upstream 503")
	}
	return f.games[teamAbbr], nil
}

type fakeSchedule struct {
	matchups []Matchup
}

func (f *fakeSchedule) UpcomingGames(_ context.Context, teamAbbr string, limit int) ([]Matchup, error) {
	return f.matchups, nil
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func teamGames(start time.Time, n, pts, allowed int, winEvery int) []feature.GameRecord {
	games := make([]feature.GameRecord, 0, n)
	for i := 0; i < n; i++ {
		games = append(games, feature.GameRecord{
			Date:              start.AddDate(0, 0, i*2),
			PointsScored:      pts,
			PointsAllowed:     allowed,
			Won:               winEvery > 0 && i%winEvery == 0,
			FieldGoalAttempts: 88,
			FreeThrowAttempts: 25,
			OffensiveRebounds: 10,
			Turnovers:         14,
		})
	}
	return games
}

func newTestService(history GameHistoryProvider, schedule ScheduleProvider) *PredictionService {
	return NewPredictionService(history, schedule, predict.NewStrength(), feature.DefaultWindowSize)
}

func TestPredictMatchup_FullPipeline(t *testing.T) {
	start := day(2025, 1, 1)
	history := &fakeHistory{games: map[string][]feature.GameRecord{
		"BOS": teamGames(start, 8, 118, 104, 1), // wins everything
		"CHA": teamGames(start, 8, 101, 115, 0), // loses everything
	}}

	svc := newTestService(history, nil)

	result, err := svc.PredictMatchup(context.Background(), "BOS", "CHA", day(2025, 2, 1))
	if err != nil {
		t.Fatalf("PredictMatchup failed: %v", err)
	}

	if result.PredictedWinner != predict.WinnerHome {
		t.Errorf("Expected strong home team to be favored, got %s at %v", result.PredictedWinner, result.HomeWinProbability)
	}
	if result.HomeWinProbability+result.VisitorWinProbability != 1.0 {
		t.Errorf("Probabilities must sum to 1, got %v + %v", result.HomeWinProbability, result.VisitorWinProbability)
	}
	if result.HomeForm.Games != feature.DefaultWindowSize {
		t.Errorf("Expected a full window, got %d games", result.HomeForm.Games)
	}
	if result.HomeForm.WinRate != 1.0 || result.VisitorForm.WinRate != 0.0 {
		t.Errorf("Window stats wrong: home %v, visitor %v", result.HomeForm.WinRate, result.VisitorForm.WinRate)
	}
	// CHA travels to BOS: roughly 720 miles.
	if result.TravelMiles < 500 || result.TravelMiles > 1000 {
		t.Errorf("Implausible CHA->BOS travel: %v miles", result.TravelMiles)
	}
}

func TestPredictMatchup_ProviderFailure(t *testing.T) {
	start := day(2025, 1, 1)
	history := &fakeHistory{
		games: map[string][]feature.GameRecord{"BOS": teamGames(start, 8, 110, 105, 2)},
		fail:  map[string]bool{"CHA": true},
	}

	svc := newTestService(history, nil)

	_, err := svc.PredictMatchup(context.Background(), "BOS", "CHA", day(2025, 2, 1))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("Expected ErrDataUnavailable, got %v", err)
	}
	// The failed matchup must report which team's data was missing.
	if !strings.Contains(err.Error(), "CHA") {
		t.Errorf("Error should name the failing team: %v", err)
	}
}

func TestPredictMatchup_InsufficientHistoryNamesTeam(t *testing.T) {
	start := day(2025, 1, 1)
	history := &fakeHistory{games: map[string][]feature.GameRecord{
		"BOS": teamGames(start, 8, 110, 105, 2),
		"CHA": nil, // no games at all
	}}

	svc := newTestService(history, nil)

	_, err := svc.PredictMatchup(context.Background(), "BOS", "CHA", day(2025, 2, 1))
	if !errors.Is(err, feature.ErrInsufficientHistory) {
		t.Fatalf("Expected ErrInsufficientHistory, got %v", err)
	}

	var herr *feature.HistoryError
	if !errors.As(err, &herr) || herr.Team != "CHA" {
		t.Errorf("Error should identify CHA as the side with no data: %v", err)
	}
}

func TestPredictMatchup_DegradedWindow(t *testing.T) {
	start := day(2025, 1, 20)
	history := &fakeHistory{games: map[string][]feature.GameRecord{
		"BOS": teamGames(start, 2, 112, 106, 1),
		"CHA": teamGames(start, 2, 104, 110, 0),
	}}

	svc := newTestService(history, nil)

	result, err := svc.PredictMatchup(context.Background(), "BOS", "CHA", day(2025, 2, 1))
	if err != nil {
		t.Fatalf("Two prior games should degrade, not fail: %v", err)
	}
	if result.HomeForm.Games != 2 {
		t.Errorf("Result should expose the thin sample, got %d games", result.HomeForm.Games)
	}
}

func TestPredictUpcoming_SkipsBadMatchups(t *testing.T) {
	start := day(2025, 1, 1)
	history := &fakeHistory{games: map[string][]feature.GameRecord{
		"BOS": teamGames(start, 8, 112, 106, 2),
		"NYK": teamGames(start, 8, 108, 108, 2),
		// MIA intentionally absent.
	}}
	schedule := &fakeSchedule{matchups: []Matchup{
		{HomeTeam: "BOS", VisitorTeam: "NYK", GameDate: day(2025, 2, 3)},
		{HomeTeam: "MIA", VisitorTeam: "BOS", GameDate: day(2025, 2, 5)},
	}}

	svc := newTestService(history, schedule)

	predictions, err := svc.PredictUpcoming(context.Background(), "BOS", 10)
	if err != nil {
		t.Fatalf("PredictUpcoming failed: %v", err)
	}
	if len(predictions) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(predictions))
	}

	if predictions[0].Result == nil || predictions[0].Error != "" {
		t.Errorf("First matchup should predict cleanly: %+v", predictions[0])
	}
	if predictions[1].Result != nil || predictions[1].Error == "" {
		t.Errorf("Second matchup should carry the failure, not abort the batch: %+v", predictions[1])
	}
}
