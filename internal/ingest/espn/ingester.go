package espn

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fortuna/augur/internal/store"
	"github.com/fortuna/augur/internal/store/repository"
)

// Ingester pulls the upcoming slate and completed box scores from ESPN into
// the database. Game rows from the primary source carry scores; the rows
// written here carry the schedule and the box-score lines the possession
// estimate needs.
type Ingester struct {
	client   *Client
	gameRepo *repository.GameRepository
	teamRepo *repository.TeamRepository

	teamIDs map[string]int // canonical abbreviation -> team_id
}

// NewIngester creates an ESPN ingester using the default API base.
func NewIngester(db *store.Database) *Ingester {
	return NewIngesterWithBaseURL(db, "")
}

// NewIngesterWithBaseURL creates an ingester overriding the ESPN base URL.
func NewIngesterWithBaseURL(db *store.Database, baseURL string) *Ingester {
	var client *Client
	if strings.TrimSpace(baseURL) != "" {
		client = New(baseURL)
	} else {
		client = NewClient()
	}

	return &Ingester{
		client:   client,
		gameRepo: repository.NewGameRepository(db),
		teamRepo: repository.NewTeamRepository(db),
		teamIDs:  make(map[string]int),
	}
}

// IngestSchedule fetches the scoreboard for each of the next days and
// upserts the scheduled games. season labels the rows, e.g. "2024".
func (i *Ingester) IngestSchedule(ctx context.Context, season string, from time.Time, days int) (int, error) {
	if err := i.loadTeamIDs(ctx); err != nil {
		return 0, err
	}

	stored := 0
	for d := 0; d < days; d++ {
		date := from.AddDate(0, 0, d)
		scoreboard, err := i.client.FetchScoreboard(ctx, BasketballNBA, date)
		if err != nil {
			return stored, fmt.Errorf("fetching scoreboard for %s: %w", date.Format("2006-01-02"), err)
		}

		games, err := ParseScoreboardGames(scoreboard)
		if err != nil {
			return stored, fmt.Errorf("parsing scoreboard: %w", err)
		}

		for _, g := range games {
			if g.Completed {
				continue
			}
			row, err := i.toScheduledGame(g, season)
			if err != nil {
				log.Printf("[espn-ingester] Skipping game %s: %v", g.ExternalID, err)
				continue
			}
			if _, err := i.gameRepo.Upsert(ctx, row); err != nil {
				return stored, err
			}
			stored++
		}
	}

	// The scoreboard only publishes a few days out; when it has nothing
	// for the horizon, the per-team schedule endpoint still does.
	if stored == 0 {
		log.Printf("[espn-ingester] Scoreboard slate empty, walking team schedules")
		for abbr := range TeamIDs {
			n, err := i.IngestTeamSchedule(ctx, season, abbr, from, days)
			if err != nil {
				log.Printf("[espn-ingester] %s schedule: %v", abbr, err)
				continue
			}
			stored += n
		}
	}

	log.Printf("[espn-ingester] ✓ Stored %d scheduled games over %d days", stored, days)
	return stored, nil
}

// IngestTeamSchedule fetches one team's remaining schedule and upserts the
// games inside the horizon. Rows already stored for the same date and teams
// are left alone, so scoreboard entries keep their external IDs.
func (i *Ingester) IngestTeamSchedule(ctx context.Context, season, teamAbbr string, from time.Time, days int) (int, error) {
	if err := i.loadTeamIDs(ctx); err != nil {
		return 0, err
	}
	espnID, ok := TeamIDs[teamAbbr]
	if !ok {
		return 0, fmt.Errorf("no schedule endpoint id for team %s", teamAbbr)
	}

	data, err := i.client.FetchTeamSchedule(ctx, BasketballNBA, espnID)
	if err != nil {
		return 0, fmt.Errorf("fetching %s schedule: %w", teamAbbr, err)
	}
	games, err := ParseTeamSchedule(data, teamAbbr, from)
	if err != nil {
		return 0, fmt.Errorf("parsing %s schedule: %w", teamAbbr, err)
	}

	horizon := from.AddDate(0, 0, days)
	stored := 0
	for _, sg := range games {
		if sg.GameDate.After(horizon) {
			continue
		}

		home, visitor := scheduleSides(sg, teamAbbr)
		homeID, ok := i.teamIDs[home]
		if !ok {
			log.Printf("[espn-ingester] Skipping %s at %s: unknown team %s", visitor, home, home)
			continue
		}
		visitorID, ok := i.teamIDs[visitor]
		if !ok {
			log.Printf("[espn-ingester] Skipping %s at %s: unknown team %s", visitor, home, visitor)
			continue
		}

		existing, err := i.gameRepo.GetByDateAndTeams(ctx, sg.GameDate, homeID, visitorID)
		if err != nil {
			return stored, err
		}
		if existing != nil {
			continue
		}

		row := &store.Game{
			ExternalID:    fmt.Sprintf("espn:sched:%s:%s", sg.GameDate.Format("20060102"), home),
			Season:        season,
			GameDate:      sg.GameDate,
			HomeTeamID:    homeID,
			VisitorTeamID: visitorID,
			Status:        store.GameStatusScheduled,
		}
		if _, err := i.gameRepo.Upsert(ctx, row); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}

// scheduleSides orients one schedule entry into home and visitor
// abbreviations from the owning team's perspective.
func scheduleSides(g ScheduleGame, teamAbbr string) (home, visitor string) {
	if g.IsHome {
		return teamAbbr, g.Opponent
	}
	return g.Opponent, teamAbbr
}

// IngestBoxScores fetches summaries for a date's completed games and upserts
// both teams' box-score totals against the stored game row.
func (i *Ingester) IngestBoxScores(ctx context.Context, date time.Time) (int, error) {
	if err := i.loadTeamIDs(ctx); err != nil {
		return 0, err
	}

	scoreboard, err := i.client.FetchScoreboard(ctx, BasketballNBA, date)
	if err != nil {
		return 0, fmt.Errorf("fetching scoreboard: %w", err)
	}
	games, err := ParseScoreboardGames(scoreboard)
	if err != nil {
		return 0, fmt.Errorf("parsing scoreboard: %w", err)
	}

	stored := 0
	for _, g := range games {
		if !g.Completed {
			continue
		}
		if err := i.ingestGameBoxScore(ctx, g); err != nil {
			log.Printf("[espn-ingester] Box score for %s vs %s: %v", g.HomeAbbr, g.VisitorAbbr, err)
			continue
		}
		stored++
	}

	log.Printf("[espn-ingester] ✓ Stored box scores for %d games on %s", stored, date.Format("2006-01-02"))
	return stored, nil
}

func (i *Ingester) ingestGameBoxScore(ctx context.Context, g ScoreboardGame) error {
	homeID, ok := i.teamIDs[g.HomeAbbr]
	if !ok {
		return fmt.Errorf("unknown team %s", g.HomeAbbr)
	}
	visitorID, ok := i.teamIDs[g.VisitorAbbr]
	if !ok {
		return fmt.Errorf("unknown team %s", g.VisitorAbbr)
	}

	stored, err := i.gameRepo.GetByDateAndTeams(ctx, g.GameDate, homeID, visitorID)
	if err != nil {
		return err
	}
	if stored == nil {
		// Schedule rows written here stay scheduled; the final row with
		// scores comes from the primary source. If neither exists yet,
		// write one so the box lines have a game to hang off.
		row, err := i.toScheduledGame(g, seasonLabel(g.GameDate))
		if err != nil {
			return err
		}
		row.Status = store.GameStatusFinal
		row.HomeScore = sql.NullInt32{Int32: int32(g.HomeScore), Valid: true}
		row.VisitorScore = sql.NullInt32{Int32: int32(g.VisitorScore), Valid: true}
		gameID, err := i.gameRepo.Upsert(ctx, row)
		if err != nil {
			return err
		}
		stored = row
		stored.GameID = gameID
	}

	summary, err := i.client.FetchGameSummary(ctx, BasketballNBA, g.ExternalID)
	if err != nil {
		return fmt.Errorf("fetching summary: %w", err)
	}
	totals, err := ParseTeamTotals(summary)
	if err != nil {
		return err
	}

	for _, t := range totals {
		teamID, ok := i.teamIDs[t.Abbreviation]
		if !ok {
			return fmt.Errorf("unknown team %s in summary", t.Abbreviation)
		}
		line := &store.TeamGameStats{
			GameID:              stored.GameID,
			TeamID:              teamID,
			IsHome:              teamID == stored.HomeTeamID,
			Points:              t.Points,
			FieldGoalsAttempted: t.FieldGoalsAttempted,
			FreeThrowsAttempted: t.FreeThrowsAttempted,
			OffensiveRebounds:   t.OffensiveRebounds,
			Turnovers:           t.Turnovers,
		}
		if err := i.gameRepo.UpsertTeamGameStats(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (i *Ingester) toScheduledGame(g ScoreboardGame, season string) (*store.Game, error) {
	homeID, ok := i.teamIDs[g.HomeAbbr]
	if !ok {
		return nil, fmt.Errorf("unknown home team %s", g.HomeAbbr)
	}
	visitorID, ok := i.teamIDs[g.VisitorAbbr]
	if !ok {
		return nil, fmt.Errorf("unknown visitor team %s", g.VisitorAbbr)
	}
	return &store.Game{
		ExternalID:    "espn:" + g.ExternalID,
		Season:        season,
		GameDate:      g.GameDate,
		HomeTeamID:    homeID,
		VisitorTeamID: visitorID,
		Status:        store.GameStatusScheduled,
	}, nil
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
		i.teamIDs[t.Abbreviation] = t.TeamID
	}
	if len(i.teamIDs) == 0 {
		return fmt.Errorf("no teams in store, seed or ingest teams first")
	}
	return nil
}

// seasonLabel maps a game date to its NBA season start year. Seasons roll
// over in October.
func seasonLabel(date time.Time) string {
	year := date.Year()
	if date.Month() < time.October {
		year--
	}
	return fmt.Sprintf("%d", year)
}
