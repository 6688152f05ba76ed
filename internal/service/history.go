package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fortuna/augur/internal/feature"
	"github.com/fortuna/augur/internal/store"
	"github.com/fortuna/augur/internal/store/repository"
)

// teamSource is the slice of TeamRepository the history store needs.
type teamSource interface {
	GetAll(ctx context.Context) ([]*store.Team, error)
}

// HistoryStore adapts the Postgres repositories to the pipeline's provider
// interfaces. Team abbreviations are resolved once and cached for the life of
// the store; franchises don't move mid-season. Safe for concurrent use by the
// REST handlers, the scheduler, and the jobs worker.
type HistoryStore struct {
	teams teamSource
	games *repository.GameRepository

	mu     sync.RWMutex
	byAbbr map[string]*store.Team
	byID   map[int]*store.Team
}

// NewHistoryStore builds the adapter over an open database.
func NewHistoryStore(db *store.Database) *HistoryStore {
	return &HistoryStore{
		teams: repository.NewTeamRepository(db),
		games: repository.NewGameRepository(db),
	}
}

// TeamHistory implements GameHistoryProvider.
func (h *HistoryStore) TeamHistory(ctx context.Context, teamAbbr string, before time.Time, limit int) ([]feature.GameRecord, error) {
	team, err := h.resolve(ctx, teamAbbr)
	if err != nil {
		return nil, err
	}

	logs, err := h.games.GetTeamGameLog(ctx, team.TeamID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching game log for %s: %w", teamAbbr, err)
	}
	return RecordsFromLogs(logs), nil
}

// UpcomingGames implements ScheduleProvider from stored scheduled games.
func (h *HistoryStore) UpcomingGames(ctx context.Context, teamAbbr string, limit int) ([]Matchup, error) {
	team, err := h.resolve(ctx, teamAbbr)
	if err != nil {
		return nil, err
	}

	from := time.Now().Truncate(24 * time.Hour)
	games, err := h.games.GetScheduled(ctx, from, from.AddDate(0, 0, 30))
	if err != nil {
		return nil, fmt.Errorf("fetching schedule for %s: %w", teamAbbr, err)
	}

	var matchups []Matchup
	for _, g := range games {
		if g.HomeTeamID != team.TeamID && g.VisitorTeamID != team.TeamID {
			continue
		}
		home, err := h.teamByID(ctx, g.HomeTeamID)
		if err != nil {
			return nil, err
		}
		visitor, err := h.teamByID(ctx, g.VisitorTeamID)
		if err != nil {
			return nil, err
		}
		matchups = append(matchups, Matchup{
			HomeTeam:    home.Abbreviation,
			VisitorTeam: visitor.Abbreviation,
			GameDate:    g.GameDate,
		})
		if len(matchups) == limit {
			break
		}
	}
	return matchups, nil
}

// UpcomingView reorients matchups into one team's schedule rows.
func UpcomingView(teamAbbr string, matchups []Matchup) []store.UpcomingGame {
	games := make([]store.UpcomingGame, 0, len(matchups))
	for _, m := range matchups {
		g := store.UpcomingGame{GameDate: m.GameDate, Opponent: m.VisitorTeam, IsHome: true}
		if m.HomeTeam != teamAbbr {
			g.Opponent = m.HomeTeam
			g.IsHome = false
		}
		games = append(games, g)
	}
	return games
}

// ScheduledBetween returns every stored scheduled matchup in a date range,
// for slate-wide batch prediction.
func (h *HistoryStore) ScheduledBetween(ctx context.Context, from, to time.Time) ([]Matchup, error) {
	games, err := h.games.GetScheduled(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching scheduled games: %w", err)
	}

	matchups := make([]Matchup, 0, len(games))
	for _, g := range games {
		home, err := h.teamByID(ctx, g.HomeTeamID)
		if err != nil {
			return nil, err
		}
		visitor, err := h.teamByID(ctx, g.VisitorTeamID)
		if err != nil {
			return nil, err
		}
		matchups = append(matchups, Matchup{
			HomeTeam:    home.Abbreviation,
			VisitorTeam: visitor.Abbreviation,
			GameDate:    g.GameDate,
		})
	}
	return matchups, nil
}

// TeamID resolves an abbreviation to its database ID.
func (h *HistoryStore) TeamID(ctx context.Context, teamAbbr string) (int, error) {
	team, err := h.resolve(ctx, teamAbbr)
	if err != nil {
		return 0, err
	}
	return team.TeamID, nil
}

// AbbrFor resolves a database ID to an abbreviation.
func (h *HistoryStore) AbbrFor(ctx context.Context, teamID int) (string, bool) {
	team, err := h.teamByID(ctx, teamID)
	if err != nil {
		return "", false
	}
	return team.Abbreviation, true
}

func (h *HistoryStore) resolve(ctx context.Context, abbr string) (*store.Team, error) {
	if err := h.loadTeams(ctx); err != nil {
		return nil, err
	}
	h.mu.RLock()
	team, ok := h.byAbbr[abbr]
	h.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown team: %s", abbr)
	}
	return team, nil
}

func (h *HistoryStore) teamByID(ctx context.Context, teamID int) (*store.Team, error) {
	if err := h.loadTeams(ctx); err != nil {
		return nil, err
	}
	h.mu.RLock()
	team, ok := h.byID[teamID]
	h.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown team ID: %d", teamID)
	}
	return team, nil
}

func (h *HistoryStore) loadTeams(ctx context.Context) error {
	h.mu.RLock()
	loaded := h.byAbbr != nil
	h.mu.RUnlock()
	if loaded {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byAbbr != nil {
		return nil
	}

	teams, err := h.teams.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("loading teams: %w", err)
	}

	// Fill local maps first so no other goroutine can ever observe a
	// partially populated cache.
	byAbbr := make(map[string]*store.Team, len(teams))
	byID := make(map[int]*store.Team, len(teams))
	for _, t := range teams {
		byAbbr[t.Abbreviation] = t
		byID[t.TeamID] = t
	}
	h.byAbbr = byAbbr
	h.byID = byID
	return nil
}

// Games exposes the underlying game repository for dataset building.
func (h *HistoryStore) Games() *repository.GameRepository { return h.games }
