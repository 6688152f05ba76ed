package feature

import (
	"sort"
	"time"
)

// DefaultWindowSize is the number of trailing games used for team form.
// 3 games is very recent but volatile, 10 is a longer trend, 20 approaches a
// season average; 5 balances momentum against noise.
const DefaultWindowSize = 5

// ComputeWindowStats computes trailing-window form for one team: the mean
// points scored, mean points allowed and win rate over the most recent
// windowSize games with a date strictly before asOf. The game being predicted
// is never part of its own window - including it would leak the outcome into
// the features.
//
// If fewer than windowSize games qualify the stats are computed over what
// exists and Games reports the actual count. Zero qualifying games returns a
// HistoryError wrapping ErrInsufficientHistory.
func ComputeWindowStats(team string, games []GameRecord, asOf time.Time, windowSize int) (TeamWindowStats, error) {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	window := selectWindow(games, asOf, windowSize)
	if len(window) == 0 {
		return TeamWindowStats{}, &HistoryError{Team: team, AsOf: asOf}
	}

	var pointsFor, pointsAgainst float64
	wins := 0
	for _, g := range window {
		pointsFor += float64(g.PointsScored)
		pointsAgainst += float64(g.PointsAllowed)
		if g.Won {
			wins++
		}
	}

	n := float64(len(window))
	return TeamWindowStats{
		Team:             team,
		Games:            len(window),
		AvgPointsScored:  pointsFor / n,
		AvgPointsAllowed: pointsAgainst / n,
		WinRate:          float64(wins) / n,
	}, nil
}

// selectWindow returns the last windowSize records dated strictly before asOf,
// in ascending date order.
func selectWindow(games []GameRecord, asOf time.Time, windowSize int) []GameRecord {
	eligible := make([]GameRecord, 0, len(games))
	for _, g := range games {
		if g.Date.Before(asOf) {
			eligible = append(eligible, g)
		}
	}

	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].Date.Before(eligible[j].Date)
	})

	if len(eligible) > windowSize {
		eligible = eligible[len(eligible)-windowSize:]
	}
	return eligible
}

// LastGameDate returns the date of the most recent game strictly before asOf,
// or a zero time when none exists.
func LastGameDate(games []GameRecord, asOf time.Time) time.Time {
	var last time.Time
	for _, g := range games {
		if g.Date.Before(asOf) && g.Date.After(last) {
			last = g.Date
		}
	}
	return last
}
