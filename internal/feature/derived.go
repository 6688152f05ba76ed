package feature

import "time"

// winMargin is the league-average margin used to estimate an opponent's score
// when a feed reports only the team's points and the result.
const winMargin = 7

// EstimatePossessions approximates offensive possessions from box-score
// fields using the standard formula FGA + 0.44*FTA - OREB + TOV. This is an
// approximation, not ground truth - use real possession counts when a source
// reports them.
func EstimatePossessions(g GameRecord) float64 {
	return float64(g.FieldGoalAttempts) + 0.44*float64(g.FreeThrowAttempts) -
		float64(g.OffensiveRebounds) + float64(g.Turnovers)
}

// GameNetRating returns a single game's net rating: point differential per
// 100 possessions. The second return is false when possessions come out
// non-positive, in which case the game carries no usable rating.
func GameNetRating(g GameRecord) (float64, bool) {
	poss := EstimatePossessions(g)
	if poss <= 0 {
		return 0, false
	}
	return float64(g.PointsScored-g.PointsAllowed) / poss * 100, true
}

// WindowNetRating averages net rating over the same trailing window as
// ComputeWindowStats. Games whose possession estimate is non-positive are
// excluded from the average rather than propagating a non-finite value.
// Returns 0 when no game in the window has a usable rating.
func WindowNetRating(games []GameRecord, asOf time.Time, windowSize int) float64 {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	window := selectWindow(games, asOf, windowSize)

	var total float64
	valid := 0
	for _, g := range window {
		rating, ok := GameNetRating(g)
		if !ok {
			continue
		}
		total += rating
		valid++
	}

	if valid == 0 {
		return 0
	}
	return total / float64(valid)
}

// RestDifferential returns home rest days minus visitor rest days as of the
// game date. Positive values favor the home team. A side whose last game was
// the previous day is on a back-to-back (0 full rest days). A zero last-game
// date means the side's rest is unknown and contributes 0.
func RestDifferential(asOf, homeLast, visitorLast time.Time) int {
	return restDays(asOf, homeLast) - restDays(asOf, visitorLast)
}

func restDays(asOf, last time.Time) int {
	if last.IsZero() || !last.Before(asOf) {
		return 0
	}
	// Days between games minus one: playing yesterday is zero rest.
	days := int(asOf.Sub(last).Hours()/24) - 1
	if days < 0 {
		days = 0
	}
	return days
}

// EstimatePointsAllowed approximates an opponent's score from a team's own
// points and the result, using the league-average margin. Only for sources
// that report bare win/loss lines; records built this way must be flagged
// Estimated.
func EstimatePointsAllowed(pointsScored int, won bool) int {
	if won {
		return pointsScored - winMargin
	}
	return pointsScored + winMargin
}
