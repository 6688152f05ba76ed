package bdl

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/augur/internal/feature"
	"github.com/fortuna/augur/internal/store"
	"github.com/fortuna/augur/internal/store/repository"
)

// DefaultMaxPages bounds the pagination walk for one season. A full NBA
// regular season is ~1230 games, 13 pages at 100 per page.
const DefaultMaxPages = 20

// Ingester pulls teams and completed games from balldontlie into the store.
type Ingester struct {
	client   *Client
	teamRepo *repository.TeamRepository
	gameRepo *repository.GameRepository

	teamIDs map[string]int // external_id -> team_id
}

// NewIngester creates a balldontlie ingester using the default API base.
func NewIngester(db *store.Database, apiKey string) *Ingester {
	return NewIngesterWithBaseURL(db, "", apiKey)
}

// NewIngesterWithBaseURL creates an ingester overriding the API base URL.
func NewIngesterWithBaseURL(db *store.Database, baseURL, apiKey string) *Ingester {
	if apiKey == "" {
		log.Printf("[bdl-ingester] Warning: no API key set, requests will be rejected")
	}
	return &Ingester{
		client:   New(baseURL, apiKey),
		teamRepo: repository.NewTeamRepository(db),
		gameRepo: repository.NewGameRepository(db),
		teamIDs:  make(map[string]int),
	}
}

// IngestTeams fetches the team list and upserts every franchise. Arena
// coordinates come from the static location table so travel distances work
// without a separate geo source.
func (i *Ingester) IngestTeams(ctx context.Context) (int, error) {
	teams, err := i.client.FetchTeams(ctx)
	if err != nil {
		return 0, err
	}

	upserted := 0
	for _, t := range teams {
		// The API lists defunct franchises with empty conferences.
		if strings.TrimSpace(t.Conference) == "" {
			continue
		}

		row := &store.Team{
			ExternalID:   strconv.Itoa(t.ID),
			Abbreviation: t.Abbreviation,
			FullName:     t.FullName,
			ShortName:    t.Name,
			City:         sql.NullString{String: t.City, Valid: t.City != ""},
			Conference:   sql.NullString{String: t.Conference, Valid: true},
			Division:     sql.NullString{String: t.Division, Valid: t.Division != ""},
		}
		applyLocation(row, t.Abbreviation)

		if err := i.teamRepo.Upsert(ctx, row); err != nil {
			return upserted, err
		}
		upserted++
	}

	log.Printf("[bdl-ingester] ✓ Upserted %d teams", upserted)
	return upserted, nil
}

// IngestSeason fetches a season's games and upserts the completed ones.
// Returns the number of games stored.
func (i *Ingester) IngestSeason(ctx context.Context, season int) (int, error) {
	if err := i.loadTeamIDs(ctx); err != nil {
		return 0, err
	}

	games, err := i.client.FetchSeasonGames(ctx, season, DefaultMaxPages)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, g := range games {
		// Scheduled rows come from the schedule source; storing them here
		// too would duplicate the slate under a second external ID.
		if g.Status != "Final" {
			continue
		}
		row, err := i.toStoreGame(g)
		if err != nil {
			log.Printf("[bdl-ingester] Skipping game %d: %v", g.ID, err)
			continue
		}
		if _, err := i.gameRepo.Upsert(ctx, row); err != nil {
			return stored, err
		}
		stored++
	}

	log.Printf("[bdl-ingester] ✓ Season %d: stored %d of %d fetched games", season, stored, len(games))
	return stored, nil
}

// applyLocation fills a team row's arena coordinates from the static table.
// Teams without an entry keep NULL coordinates.
func applyLocation(row *store.Team, abbr string) {
	loc, ok := feature.TeamLocations[abbr]
	if !ok {
		return
	}
	row.Latitude = sql.NullFloat64{Float64: loc.Lat, Valid: true}
	row.Longitude = sql.NullFloat64{Float64: loc.Lon, Valid: true}
}

func (i *Ingester) toStoreGame(g Game) (*store.Game, error) {
	homeID, ok := i.teamIDs[strconv.Itoa(g.HomeTeam.ID)]
	if !ok {
		return nil, fmt.Errorf("unknown home team %s", g.HomeTeam.Abbreviation)
	}
	visitorID, ok := i.teamIDs[strconv.Itoa(g.VisitorTeam.ID)]
	if !ok {
		return nil, fmt.Errorf("unknown visitor team %s", g.VisitorTeam.Abbreviation)
	}

	gameDate, err := parseGameDate(g.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", g.Date, err)
	}

	row := &store.Game{
		ExternalID:    "bdl:" + strconv.Itoa(g.ID),
		Season:        strconv.Itoa(g.Season),
		GameDate:      gameDate,
		HomeTeamID:    homeID,
		VisitorTeamID: visitorID,
		Status:        store.GameStatusScheduled,
	}
	if g.Status == "Final" {
		row.Status = store.GameStatusFinal
		row.HomeScore = sql.NullInt32{Int32: int32(g.HomeTeamScore), Valid: true}
		row.VisitorScore = sql.NullInt32{Int32: int32(g.VisitorTeamScore), Valid: true}
	}
	return row, nil
}

func (i *Ingester) loadTeamIDs(ctx context.Context) error {
	if len(i.teamIDs) > 0 {
		return nil
	}
	teams, err := i.teamRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("loading team ids: %w", err)
	}
	for _, t := range teams {
		i.teamIDs[t.ExternalID] = t.TeamID
	}
	if len(i.teamIDs) == 0 {
		return fmt.Errorf("no teams in store, run IngestTeams first")
	}
	return nil
}

func parseGameDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
