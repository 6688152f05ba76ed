package store

import (
	"database/sql"
	"time"
)

// Team represents an NBA franchise.
type Team struct {
	TeamID       int             `json:"team_id" db:"team_id"`
	ExternalID   string          `json:"external_id" db:"external_id"`
	Abbreviation string          `json:"abbreviation" db:"abbreviation"`
	FullName     string          `json:"full_name" db:"full_name"`
	ShortName    string          `json:"short_name" db:"short_name"`
	City         sql.NullString  `json:"city,omitempty" db:"city"`
	Conference   sql.NullString  `json:"conference,omitempty" db:"conference"`
	Division     sql.NullString  `json:"division,omitempty" db:"division"`
	Latitude     sql.NullFloat64 `json:"latitude,omitempty" db:"latitude"`
	Longitude    sql.NullFloat64 `json:"longitude,omitempty" db:"longitude"`
	IsActive     bool            `json:"is_active" db:"is_active"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Game represents one NBA game.
type Game struct {
	GameID        int            `json:"game_id" db:"game_id"`
	ExternalID    string         `json:"external_id" db:"external_id"`
	Season        string         `json:"season" db:"season"`
	GameDate      time.Time      `json:"game_date" db:"game_date"`
	HomeTeamID    int            `json:"home_team_id" db:"home_team_id"`
	VisitorTeamID int            `json:"visitor_team_id" db:"visitor_team_id"`
	HomeScore     sql.NullInt32  `json:"home_score,omitempty" db:"home_score"`
	VisitorScore  sql.NullInt32  `json:"visitor_score,omitempty" db:"visitor_score"`
	Status        string         `json:"status" db:"status"`
	Venue         sql.NullString `json:"venue,omitempty" db:"venue"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// Game statuses as stored in the games table.
const (
	GameStatusScheduled = "scheduled"
	GameStatusFinal     = "final"
)

// TeamGameStats represents one team's box-score line for a single game, the
// raw material for possession estimates and net rating.
type TeamGameStats struct {
	ID                  int           `json:"id" db:"id"`
	GameID              int           `json:"game_id" db:"game_id"`
	TeamID              int           `json:"team_id" db:"team_id"`
	IsHome              bool          `json:"is_home" db:"is_home"`
	Points              int           `json:"points" db:"points"`
	FieldGoalsAttempted int           `json:"field_goals_attempted" db:"field_goals_attempted"`
	FreeThrowsAttempted int           `json:"free_throws_attempted" db:"free_throws_attempted"`
	OffensiveRebounds   int           `json:"offensive_rebounds" db:"offensive_rebounds"`
	Turnovers           int           `json:"turnovers" db:"turnovers"`
	PlusMinus           sql.NullInt32 `json:"plus_minus,omitempty" db:"plus_minus"`
	CreatedAt           time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at" db:"updated_at"`
}

// TeamGameLog is a game joined with the team's perspective of it: the row a
// rolling-window computation consumes.
type TeamGameLog struct {
	GameID              int       `json:"game_id"`
	GameDate            time.Time `json:"game_date"`
	IsHome              bool      `json:"is_home"`
	PointsScored        int       `json:"points_scored"`
	PointsAllowed       int       `json:"points_allowed"`
	Won                 bool      `json:"won"`
	FieldGoalsAttempted int       `json:"field_goals_attempted"`
	FreeThrowsAttempted int       `json:"free_throws_attempted"`
	OffensiveRebounds   int       `json:"offensive_rebounds"`
	Turnovers           int       `json:"turnovers"`
}

// UpcomingGame is one scheduled matchup from a team's perspective.
type UpcomingGame struct {
	GameDate time.Time `json:"game_date"`
	Opponent string    `json:"opponent"`
	IsHome   bool      `json:"is_home"`
}
