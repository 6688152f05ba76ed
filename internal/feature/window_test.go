package feature

import (
	"errors"
	"math"
	"testing"
	"time"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeWindowStats_FiveGameScenario(t *testing.T) {
	points := []int{110, 102, 98, 120, 115}
	wins := []bool{true, false, false, true, true}

	var games []GameRecord
	for i := range points {
		games = append(games, GameRecord{
			Date:          day(2025, 1, i+1),
			PointsScored:  points[i],
			PointsAllowed: 108,
			Won:           wins[i],
		})
	}

	stats, err := ComputeWindowStats("BOS", games, day(2025, 1, 10), 5)
	if err != nil {
		t.Fatalf("ComputeWindowStats failed: %v", err)
	}

	if !almostEqual(stats.AvgPointsScored, 109.0) {
		t.Errorf("Expected avg points 109.0, got %v", stats.AvgPointsScored)
	}
	if !almostEqual(stats.WinRate, 0.6) {
		t.Errorf("Expected win rate 0.6, got %v", stats.WinRate)
	}
	if stats.Games != 5 {
		t.Errorf("Expected 5 games in window, got %d", stats.Games)
	}
}

func TestComputeWindowStats_ExcludesReferenceDate(t *testing.T) {
	asOf := day(2025, 2, 10)

	games := []GameRecord{
		{Date: day(2025, 2, 6), PointsScored: 100, Won: true},
		{Date: day(2025, 2, 8), PointsScored: 100, Won: true},
		// The game being predicted: its own result must never leak into
		// its features.
		{Date: asOf, PointsScored: 200, Won: false},
		{Date: day(2025, 2, 12), PointsScored: 200, Won: false},
	}

	stats, err := ComputeWindowStats("LAL", games, asOf, 5)
	if err != nil {
		t.Fatalf("ComputeWindowStats failed: %v", err)
	}

	if stats.Games != 2 {
		t.Fatalf("Expected 2 qualifying games, got %d", stats.Games)
	}
	if !almostEqual(stats.AvgPointsScored, 100.0) {
		t.Errorf("Reference-date or future game leaked into window: avg %v", stats.AvgPointsScored)
	}
	if !almostEqual(stats.WinRate, 1.0) {
		t.Errorf("Expected win rate 1.0, got %v", stats.WinRate)
	}
}

func TestComputeWindowStats_TakesTailOfLongHistory(t *testing.T) {
	var games []GameRecord
	for i := 0; i < 20; i++ {
		games = append(games, GameRecord{
			Date:         day(2025, 1, 1).AddDate(0, 0, i),
			PointsScored: 90 + i, // last 5 score 105..109
			Won:          i >= 15,
		})
	}

	stats, err := ComputeWindowStats("DEN", games, day(2025, 2, 1), 5)
	if err != nil {
		t.Fatalf("ComputeWindowStats failed: %v", err)
	}

	if !almostEqual(stats.AvgPointsScored, 107.0) {
		t.Errorf("Expected tail average 107.0, got %v", stats.AvgPointsScored)
	}
	if !almostEqual(stats.WinRate, 1.0) {
		t.Errorf("Expected tail win rate 1.0, got %v", stats.WinRate)
	}
}

func TestComputeWindowStats_UnorderedInput(t *testing.T) {
	games := []GameRecord{
		{Date: day(2025, 1, 5), PointsScored: 120, Won: true},
		{Date: day(2025, 1, 1), PointsScored: 100, Won: false},
		{Date: day(2025, 1, 3), PointsScored: 110, Won: true},
	}

	stats, err := ComputeWindowStats("MIA", games, day(2025, 1, 4), 2)
	if err != nil {
		t.Fatalf("ComputeWindowStats failed: %v", err)
	}

	// Window should be Jan 1 + Jan 3 regardless of input order.
	if !almostEqual(stats.AvgPointsScored, 105.0) {
		t.Errorf("Expected avg 105.0 from the two games before asOf, got %v", stats.AvgPointsScored)
	}
}

func TestComputeWindowStats_InsufficientHistory(t *testing.T) {
	games := []GameRecord{
		{Date: day(2025, 3, 1), PointsScored: 100, Won: true},
	}

	_, err := ComputeWindowStats("OKC", games, day(2025, 2, 1), 5)
	if err == nil {
		t.Fatal("Expected error for zero qualifying games")
	}
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("Expected ErrInsufficientHistory, got %v", err)
	}

	var herr *HistoryError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected *HistoryError, got %T", err)
	}
	if herr.Team != "OKC" {
		t.Errorf("Error should name the team, got %q", herr.Team)
	}
}

func TestComputeWindowStats_RangeInvariants(t *testing.T) {
	games := []GameRecord{
		{Date: day(2025, 1, 1), PointsScored: 0, PointsAllowed: 0, Won: false},
		{Date: day(2025, 1, 2), PointsScored: 150, PointsAllowed: 80, Won: true},
		{Date: day(2025, 1, 3), PointsScored: 95, PointsAllowed: 112, Won: false},
	}

	for w := 1; w <= 6; w++ {
		stats, err := ComputeWindowStats("NYK", games, day(2025, 1, 10), w)
		if err != nil {
			t.Fatalf("window %d: %v", w, err)
		}
		if stats.WinRate < 0 || stats.WinRate > 1 {
			t.Errorf("window %d: win rate %v out of [0,1]", w, stats.WinRate)
		}
		if stats.AvgPointsScored < 0 || stats.AvgPointsAllowed < 0 {
			t.Errorf("window %d: negative average", w)
		}
	}
}

func TestLastGameDate(t *testing.T) {
	games := []GameRecord{
		{Date: day(2025, 1, 2)},
		{Date: day(2025, 1, 9)},
		{Date: day(2025, 1, 15)},
	}

	last := LastGameDate(games, day(2025, 1, 10))
	if !last.Equal(day(2025, 1, 9)) {
		t.Errorf("Expected Jan 9, got %v", last)
	}

	if !LastGameDate(games, day(2025, 1, 1)).IsZero() {
		t.Error("Expected zero time when no game precedes asOf")
	}
}
