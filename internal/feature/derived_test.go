package feature

import (
	"math"
	"testing"
	"time"
)

func TestEstimatePossessions(t *testing.T) {
	g := GameRecord{
		FieldGoalAttempts: 88,
		FreeThrowAttempts: 25,
		OffensiveRebounds: 10,
		Turnovers:         14,
	}

	// 88 + 0.44*25 - 10 + 14 = 103
	got := EstimatePossessions(g)
	if !almostEqual(got, 103.0) {
		t.Errorf("Expected 103 possessions, got %v", got)
	}
}

func TestGameNetRating(t *testing.T) {
	g := GameRecord{
		PointsScored:      110,
		PointsAllowed:     100,
		FieldGoalAttempts: 86,
		FreeThrowAttempts: 25,
		OffensiveRebounds: 10,
		Turnovers:         13,
	}

	// possessions = 86 + 11 - 10 + 13 = 100, so +10 per 100.
	rating, ok := GameNetRating(g)
	if !ok {
		t.Fatal("Expected usable rating")
	}
	if !almostEqual(rating, 10.0) {
		t.Errorf("Expected net rating 10.0, got %v", rating)
	}
}

func TestGameNetRating_ZeroPossessions(t *testing.T) {
	g := GameRecord{PointsScored: 100, PointsAllowed: 90}

	if _, ok := GameNetRating(g); ok {
		t.Error("Expected zero-possession game to be unusable")
	}
}

func TestWindowNetRating_SkipsBadGames(t *testing.T) {
	asOf := day(2025, 1, 10)
	games := []GameRecord{
		{
			Date: day(2025, 1, 2), PointsScored: 110, PointsAllowed: 100,
			FieldGoalAttempts: 86, FreeThrowAttempts: 25, OffensiveRebounds: 10, Turnovers: 13,
		},
		// No box-score fields: possessions <= 0, must be excluded rather
		// than producing Inf.
		{Date: day(2025, 1, 4), PointsScored: 120, PointsAllowed: 80},
	}

	rating := WindowNetRating(games, asOf, 5)
	if math.IsInf(rating, 0) || math.IsNaN(rating) {
		t.Fatalf("Non-finite rating: %v", rating)
	}
	if !almostEqual(rating, 10.0) {
		t.Errorf("Expected 10.0 from the one valid game, got %v", rating)
	}
}

func TestWindowNetRating_AveragesOverWindow(t *testing.T) {
	asOf := day(2025, 1, 10)
	// Both games work out to exactly 100 possessions, so the per-game
	// ratings are 10.0 and 5.0 and the window average is 7.5.
	games := []GameRecord{
		{
			Date: day(2025, 1, 2), PointsScored: 110, PointsAllowed: 100,
			FieldGoalAttempts: 86, FreeThrowAttempts: 25, OffensiveRebounds: 10, Turnovers: 13,
		},
		{
			Date: day(2025, 1, 5), PointsScored: 105, PointsAllowed: 100,
			FieldGoalAttempts: 88, FreeThrowAttempts: 25, OffensiveRebounds: 10, Turnovers: 11,
		},
	}

	if rating := WindowNetRating(games, asOf, 5); !almostEqual(rating, 7.5) {
		t.Errorf("Expected 7.5 average across the window, got %v", rating)
	}
}

func TestWindowNetRating_SymmetricTeamsCancel(t *testing.T) {
	asOf := day(2025, 1, 10)
	shared := []GameRecord{
		{
			Date: day(2025, 1, 3), PointsScored: 105, PointsAllowed: 101,
			FieldGoalAttempts: 90, FreeThrowAttempts: 20, OffensiveRebounds: 12, Turnovers: 15,
		},
		{
			Date: day(2025, 1, 6), PointsScored: 99, PointsAllowed: 104,
			FieldGoalAttempts: 84, FreeThrowAttempts: 30, OffensiveRebounds: 9, Turnovers: 11,
		},
	}

	diff := WindowNetRating(shared, asOf, 5) - WindowNetRating(shared, asOf, 5)
	if !almostEqual(diff, 0) {
		t.Errorf("Identical histories must produce zero net-rating difference, got %v", diff)
	}
}

func TestRestDifferential(t *testing.T) {
	asOf := day(2025, 2, 10)

	tests := []struct {
		name        string
		homeLast    int // days before asOf
		visitorLast int
		want        int
	}{
		{"equal rest", 2, 2, 0},
		{"home rested, visitor back-to-back", 3, 1, 2},
		{"home back-to-back", 1, 4, -3},
	}

	for _, tt := range tests {
		got := RestDifferential(asOf, asOf.AddDate(0, 0, -tt.homeLast), asOf.AddDate(0, 0, -tt.visitorLast))
		if got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}

	// Unknown last game contributes zero rather than a huge advantage.
	if got := RestDifferential(asOf, asOf.AddDate(0, 0, -2), zeroTime()); got != 1 {
		t.Errorf("Expected unknown visitor rest to contribute 0, got differential %d", got)
	}
}

func zeroTime() (t time.Time) { return }

func TestEstimatePointsAllowed(t *testing.T) {
	if got := EstimatePointsAllowed(110, true); got != 103 {
		t.Errorf("Win: expected 103, got %d", got)
	}
	if got := EstimatePointsAllowed(110, false); got != 117 {
		t.Errorf("Loss: expected 117, got %d", got)
	}
}
