package bref

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/fortuna/augur/internal/store"
	"github.com/fortuna/augur/internal/store/repository"
)

// SeasonMonths in schedule order. The season opens in October and the
// playoffs run into June.
var SeasonMonths = []string{
	"october", "november", "december", "january",
	"february", "march", "april", "may", "june",
}

// Ingester scrapes completed games from Basketball-Reference as a fallback
// when the primary API is unavailable. Teams are matched by full name.
type Ingester struct {
	client   *Client
	teamRepo *repository.TeamRepository
	gameRepo *repository.GameRepository

	teamsByName map[string]*store.Team
}

// NewIngester creates a fallback ingester against the live site.
func NewIngester(db *store.Database) *Ingester {
	return NewIngesterWithBaseURL(db, "")
}

// NewIngesterWithBaseURL creates an ingester overriding the site base URL.
func NewIngesterWithBaseURL(db *store.Database, baseURL string) *Ingester {
	return &Ingester{
		client:      New(baseURL),
		teamRepo:    repository.NewTeamRepository(db),
		gameRepo:    repository.NewGameRepository(db),
		teamsByName: make(map[string]*store.Team),
	}
}

// IngestSeason scrapes every month page of a season and upserts the
// completed games. endYear is the season's closing year.
func (i *Ingester) IngestSeason(ctx context.Context, endYear int) (int, error) {
	stored := 0
	for _, month := range SeasonMonths {
		n, err := i.IngestMonth(ctx, endYear, month)
		if err != nil {
			// Months outside the season's span 404; move on
			log.Printf("[bref-ingester] %s %d: %v", month, endYear, err)
			continue
		}
		stored += n
	}
	log.Printf("[bref-ingester] ✓ Season %d: stored %d games", endYear, stored)
	return stored, nil
}

// IngestMonth scrapes one month page and upserts its completed games.
func (i *Ingester) IngestMonth(ctx context.Context, endYear int, month string) (int, error) {
	if err := i.loadTeams(ctx); err != nil {
		return 0, err
	}

	doc, err := i.client.FetchMonthPage(ctx, endYear, month)
	if err != nil {
		return 0, err
	}
	games, err := ParseMonthGames(doc)
	if err != nil {
		return 0, err
	}

	season := fmt.Sprintf("%d", endYear-1)
	stored := 0
	for _, g := range games {
		if !g.Completed {
			continue
		}
		row, err := i.toStoreGame(g, season)
		if err != nil {
			log.Printf("[bref-ingester] Skipping %s at %s: %v", g.VisitorName, g.HomeName, err)
			continue
		}
		// The primary source may already have this game under its own ID
		existing, err := i.gameRepo.GetByDateAndTeams(ctx, row.GameDate, row.HomeTeamID, row.VisitorTeamID)
		if err != nil {
			return stored, err
		}
		if existing != nil && existing.Status == store.GameStatusFinal {
			continue
		}
		if existing != nil {
			row.ExternalID = existing.ExternalID
		}
		if _, err := i.gameRepo.Upsert(ctx, row); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}

func (i *Ingester) toStoreGame(g GameRow, season string) (*store.Game, error) {
	home, ok := i.teamsByName[strings.ToLower(g.HomeName)]
	if !ok {
		return nil, fmt.Errorf("unknown team %q", g.HomeName)
	}
	visitor, ok := i.teamsByName[strings.ToLower(g.VisitorName)]
	if !ok {
		return nil, fmt.Errorf("unknown team %q", g.VisitorName)
	}

	externalID := fmt.Sprintf("bref:%s:%s", g.Date.Format("20060102"), home.Abbreviation)
	return &store.Game{
		ExternalID:    externalID,
		Season:        season,
		GameDate:      g.Date,
		HomeTeamID:    home.TeamID,
		VisitorTeamID: visitor.TeamID,
		HomeScore:     sql.NullInt32{Int32: int32(g.HomeScore), Valid: true},
		VisitorScore:  sql.NullInt32{Int32: int32(g.VisitorScore), Valid: true},
		Status:        store.GameStatusFinal,
	}, nil
}

func (i *Ingester) loadTeams(ctx context.Context) error {
	if len(i.teamsByName) > 0 {
		return nil
	}
	teams, err := i.teamRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("loading teams: %w", err)
	}
	for _, t := range teams {
		i.teamsByName[strings.ToLower(t.FullName)] = t
	}
	if len(i.teamsByName) == 0 {
		return fmt.Errorf("no teams in store, seed or ingest teams first")
	}
	return nil
}
