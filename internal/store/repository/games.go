package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fortuna/augur/internal/store"
)

// GameRepository handles game data access
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `game_id, external_id, season, game_date, home_team_id,
		visitor_team_id, home_score, visitor_score, status, venue,
		created_at, updated_at`

func scanGame(row interface{ Scan(...interface{}) error }) (*store.Game, error) {
	game := &store.Game{}
	err := row.Scan(
		&game.GameID, &game.ExternalID, &game.Season, &game.GameDate,
		&game.HomeTeamID, &game.VisitorTeamID, &game.HomeScore, &game.VisitorScore,
		&game.Status, &game.Venue, &game.CreatedAt, &game.UpdatedAt,
	)
	return game, err
}

// GetByExternalID finds a game by its provider ID
func (r *GameRepository) GetByExternalID(ctx context.Context, externalID string) (*store.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM games
		WHERE external_id = $1
	`, gameColumns)

	game, err := scanGame(r.db.DB().QueryRowContext(ctx, query, externalID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("game not found: %s", externalID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying game: %w", err)
	}

	return game, nil
}

// GetByDateAndTeams finds a game by calendar date and participants,
// regardless of which source ingested it. Returns nil when no game matches.
func (r *GameRepository) GetByDateAndTeams(ctx context.Context, date time.Time, homeTeamID, visitorTeamID int) (*store.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM games
		WHERE game_date::date = $1::date AND home_team_id = $2 AND visitor_team_id = $3
	`, gameColumns)

	game, err := scanGame(r.db.DB().QueryRowContext(ctx, query, date, homeTeamID, visitorTeamID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying game by date and teams: %w", err)
	}

	return game, nil
}

// GetFinalBySeason returns a season's completed games in chronological order
func (r *GameRepository) GetFinalBySeason(ctx context.Context, season string) ([]*store.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM games
		WHERE season = $1 AND status = $2
		ORDER BY game_date, game_id
	`, gameColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, season, store.GameStatusFinal)
	if err != nil {
		return nil, fmt.Errorf("querying season games: %w", err)
	}
	defer rows.Close()

	return r.scanGames(rows)
}

// GetScheduled returns scheduled games between two dates
func (r *GameRepository) GetScheduled(ctx context.Context, from, to time.Time) ([]*store.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM games
		WHERE status = $1 AND game_date >= $2 AND game_date < $3
		ORDER BY game_date, game_id
	`, gameColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, store.GameStatusScheduled, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying scheduled games: %w", err)
	}
	defer rows.Close()

	return r.scanGames(rows)
}

// GetTeamGameLog returns a team's completed games strictly before a date,
// newest first, from that team's perspective, joined with its box-score line
// when one was ingested. The strict inequality keeps the game being predicted
// out of its own history.
func (r *GameRepository) GetTeamGameLog(ctx context.Context, teamID int, before time.Time, limit int) ([]*store.TeamGameLog, error) {
	query := `
		SELECT g.game_id, g.game_date,
			(g.home_team_id = $1) AS is_home,
			CASE WHEN g.home_team_id = $1 THEN g.home_score ELSE g.visitor_score END AS points_scored,
			CASE WHEN g.home_team_id = $1 THEN g.visitor_score ELSE g.home_score END AS points_allowed,
			COALESCE(s.field_goals_attempted, 0),
			COALESCE(s.free_throws_attempted, 0),
			COALESCE(s.offensive_rebounds, 0),
			COALESCE(s.turnovers, 0)
		FROM games g
		LEFT JOIN team_game_stats s ON s.game_id = g.game_id AND s.team_id = $1
		WHERE (g.home_team_id = $1 OR g.visitor_team_id = $1)
			AND g.status = $2
			AND g.game_date < $3
			AND g.home_score IS NOT NULL AND g.visitor_score IS NOT NULL
		ORDER BY g.game_date DESC
		LIMIT $4
	`

	rows, err := r.db.DB().QueryContext(ctx, query, teamID, store.GameStatusFinal, before, limit)
	if err != nil {
		return nil, fmt.Errorf("querying team game log: %w", err)
	}
	defer rows.Close()

	var logs []*store.TeamGameLog
	for rows.Next() {
		entry := &store.TeamGameLog{}
		err := rows.Scan(
			&entry.GameID, &entry.GameDate, &entry.IsHome,
			&entry.PointsScored, &entry.PointsAllowed,
			&entry.FieldGoalsAttempted, &entry.FreeThrowsAttempted,
			&entry.OffensiveRebounds, &entry.Turnovers,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning game log entry: %w", err)
		}
		entry.Won = entry.PointsScored > entry.PointsAllowed
		logs = append(logs, entry)
	}

	return logs, rows.Err()
}

// Upsert inserts or updates a game keyed by external ID and returns its
// database ID
func (r *GameRepository) Upsert(ctx context.Context, game *store.Game) (int, error) {
	query := `
		INSERT INTO games (external_id, season, game_date, home_team_id,
			visitor_team_id, home_score, visitor_score, status, venue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (external_id) DO UPDATE SET
			home_score = EXCLUDED.home_score,
			visitor_score = EXCLUDED.visitor_score,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING game_id
	`

	var gameID int
	err := r.db.DB().QueryRowContext(ctx, query,
		game.ExternalID, game.Season, game.GameDate, game.HomeTeamID,
		game.VisitorTeamID, game.HomeScore, game.VisitorScore, game.Status, game.Venue,
	).Scan(&gameID)
	if err != nil {
		return 0, fmt.Errorf("upserting game %s: %w", game.ExternalID, err)
	}
	return gameID, nil
}

// UpsertTeamGameStats inserts or updates one team's box-score line for a game
func (r *GameRepository) UpsertTeamGameStats(ctx context.Context, stats *store.TeamGameStats) error {
	query := `
		INSERT INTO team_game_stats (game_id, team_id, is_home, points,
			field_goals_attempted, free_throws_attempted, offensive_rebounds,
			turnovers, plus_minus)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (game_id, team_id) DO UPDATE SET
			points = EXCLUDED.points,
			field_goals_attempted = EXCLUDED.field_goals_attempted,
			free_throws_attempted = EXCLUDED.free_throws_attempted,
			offensive_rebounds = EXCLUDED.offensive_rebounds,
			turnovers = EXCLUDED.turnovers,
			plus_minus = EXCLUDED.plus_minus,
			updated_at = NOW()
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		stats.GameID, stats.TeamID, stats.IsHome, stats.Points,
		stats.FieldGoalsAttempted, stats.FreeThrowsAttempted,
		stats.OffensiveRebounds, stats.Turnovers, stats.PlusMinus,
	)
	if err != nil {
		return fmt.Errorf("upserting team game stats: %w", err)
	}
	return nil
}

func (r *GameRepository) scanGames(rows *sql.Rows) ([]*store.Game, error) {
	var games []*store.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
