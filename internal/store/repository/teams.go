package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fortuna/augur/internal/store"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `team_id, external_id, abbreviation, full_name, short_name,
		city, conference, division, latitude, longitude, is_active,
		created_at, updated_at`

func scanTeam(row interface{ Scan(...interface{}) error }) (*store.Team, error) {
	team := &store.Team{}
	err := row.Scan(
		&team.TeamID, &team.ExternalID, &team.Abbreviation,
		&team.FullName, &team.ShortName, &team.City,
		&team.Conference, &team.Division, &team.Latitude, &team.Longitude,
		&team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)
	return team, err
}

// GetAll returns all active NBA teams
func (r *TeamRepository) GetAll(ctx context.Context) ([]*store.Team, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM teams
		WHERE is_active = true
		ORDER BY abbreviation
	`, teamColumns)

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []*store.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// GetByID finds a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, teamID int) (*store.Team, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM teams
		WHERE team_id = $1
	`, teamColumns)

	team, err := scanTeam(r.db.DB().QueryRowContext(ctx, query, teamID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("team not found: %d", teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return team, nil
}

// GetByAbbreviation finds a team by abbreviation (e.g., "LAL", "BOS")
func (r *TeamRepository) GetByAbbreviation(ctx context.Context, abbr string) (*store.Team, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM teams
		WHERE abbreviation = $1
	`, teamColumns)

	team, err := scanTeam(r.db.DB().QueryRowContext(ctx, query, strings.ToUpper(abbr)))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("team not found: %s", abbr)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return team, nil
}

// GetByExternalID finds a team by its provider ID
func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID string) (*store.Team, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM teams
		WHERE external_id = $1
	`, teamColumns)

	team, err := scanTeam(r.db.DB().QueryRowContext(ctx, query, externalID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("team not found with external ID: %s", externalID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return team, nil
}

// SearchByName finds teams whose full or short name contains the fragment,
// case-insensitively. Lets callers resolve "lakers" or "Trail Blazers".
func (r *TeamRepository) SearchByName(ctx context.Context, fragment string) ([]*store.Team, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM teams
		WHERE is_active = true
			AND (full_name ILIKE '%%' || $1 || '%%' OR short_name ILIKE '%%' || $1 || '%%')
		ORDER BY abbreviation
	`, teamColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, fragment)
	if err != nil {
		return nil, fmt.Errorf("searching teams: %w", err)
	}
	defer rows.Close()

	var teams []*store.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// Upsert inserts or updates a team keyed by external ID
func (r *TeamRepository) Upsert(ctx context.Context, team *store.Team) error {
	query := `
		INSERT INTO teams (external_id, abbreviation, full_name, short_name,
			city, conference, division, latitude, longitude, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
		ON CONFLICT (external_id) DO UPDATE SET
			abbreviation = EXCLUDED.abbreviation,
			full_name = EXCLUDED.full_name,
			short_name = EXCLUDED.short_name,
			city = EXCLUDED.city,
			conference = EXCLUDED.conference,
			division = EXCLUDED.division,
			updated_at = NOW()
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		team.ExternalID, team.Abbreviation, team.FullName, team.ShortName,
		team.City, team.Conference, team.Division, team.Latitude, team.Longitude,
	)
	if err != nil {
		return fmt.Errorf("upserting team %s: %w", team.Abbreviation, err)
	}
	return nil
}
