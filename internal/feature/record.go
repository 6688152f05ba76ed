package feature

import (
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientHistory indicates a team has no qualifying games before the
// reference date. Recoverable - callers decide whether to skip the matchup or
// substitute league-average defaults.
var ErrInsufficientHistory = errors.New("insufficient game history")

// HistoryError wraps ErrInsufficientHistory with the team it applies to, so a
// failed matchup prediction can report which side's data was missing.
type HistoryError struct {
	Team string
	AsOf time.Time
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("insufficient game history for %s before %s", e.Team, e.AsOf.Format("2006-01-02"))
}

func (e *HistoryError) Unwrap() error {
	return ErrInsufficientHistory
}

// GameRecord is one completed game from a single team's perspective.
// Records are immutable once built; a team's records are ordered by date with
// at most one game per date.
type GameRecord struct {
	Date              time.Time `json:"date"`
	PointsScored      int       `json:"points_scored"`
	PointsAllowed     int       `json:"points_allowed"`
	Won               bool      `json:"won"`
	Home              bool      `json:"home"`
	FieldGoalAttempts int       `json:"field_goal_attempts"`
	FreeThrowAttempts int       `json:"free_throw_attempts"`
	OffensiveRebounds int       `json:"offensive_rebounds"`
	Turnovers         int       `json:"turnovers"`

	// Estimated marks records whose points allowed came from the margin
	// estimate rather than a reported score.
	Estimated bool `json:"estimated,omitempty"`
}

// TeamWindowStats is a team's trailing-window form, computed on demand and
// never stored. Games reports how many records actually fed the window - a
// value below the requested window size means early-season degraded form.
type TeamWindowStats struct {
	Team             string  `json:"team"`
	Games            int     `json:"games"`
	AvgPointsScored  float64 `json:"avg_points_scored"`
	AvgPointsAllowed float64 `json:"avg_points_allowed"`
	WinRate          float64 `json:"win_rate"`
}
