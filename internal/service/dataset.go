package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fortuna/augur/internal/feature"
	"github.com/fortuna/augur/internal/predict"
	"github.com/fortuna/augur/internal/store"
)

// gameSource is the slice of GameRepository the dataset builder needs.
type gameSource interface {
	GetFinalBySeason(ctx context.Context, season string) ([]*store.Game, error)
	GetTeamGameLog(ctx context.Context, teamID int, before time.Time, limit int) ([]*store.TeamGameLog, error)
}

// DatasetBuilder replays stored seasons into labeled training examples.
type DatasetBuilder struct {
	games      gameSource
	schema     feature.Schema
	windowSize int
}

// NewDatasetBuilder creates a builder producing vectors in the given schema.
func NewDatasetBuilder(games gameSource, schema feature.Schema, windowSize int) *DatasetBuilder {
	if windowSize <= 0 {
		windowSize = feature.DefaultWindowSize
	}
	return &DatasetBuilder{games: games, schema: schema, windowSize: windowSize}
}

// Build walks a season's completed games in date order and emits one labeled
// example per game whose both sides have prior history. Every feature is
// computed strictly before the game's own date, so no game's result ever
// reaches its own features - the look-ahead leak that inflates accuracy
// numbers when features and labels share a date.
func (b *DatasetBuilder) Build(ctx context.Context, season string, locate func(teamID int) (abbr string, ok bool)) ([]predict.Example, error) {
	games, err := b.games.GetFinalBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("loading season %s: %w", season, err)
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].GameDate.Before(games[j].GameDate)
	})

	var examples []predict.Example
	skipped := 0
	for _, game := range games {
		if !game.HomeScore.Valid || !game.VisitorScore.Valid {
			continue
		}

		ex, err := b.exampleFor(ctx, game, locate)
		if err != nil {
			if errors.Is(err, feature.ErrInsufficientHistory) {
				// Early-season games with no prior form carry no signal.
				skipped++
				continue
			}
			return nil, err
		}
		examples = append(examples, ex)
	}

	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: season %s yielded no usable games (%d skipped for missing history)",
			predict.ErrInsufficientTrainingData, season, skipped)
	}
	return examples, nil
}

func (b *DatasetBuilder) exampleFor(ctx context.Context, game *store.Game, locate func(int) (string, bool)) (predict.Example, error) {
	homeLogs, err := b.games.GetTeamGameLog(ctx, game.HomeTeamID, game.GameDate, historyFetchLimit)
	if err != nil {
		return predict.Example{}, fmt.Errorf("loading home log for game %s: %w", game.ExternalID, err)
	}
	visitorLogs, err := b.games.GetTeamGameLog(ctx, game.VisitorTeamID, game.GameDate, historyFetchLimit)
	if err != nil {
		return predict.Example{}, fmt.Errorf("loading visitor log for game %s: %w", game.ExternalID, err)
	}

	homeGames := RecordsFromLogs(homeLogs)
	visitorGames := RecordsFromLogs(visitorLogs)

	homeAbbr, _ := locate(game.HomeTeamID)
	visitorAbbr, _ := locate(game.VisitorTeamID)

	homeForm, err := feature.ComputeWindowStats(homeAbbr, homeGames, game.GameDate, b.windowSize)
	if err != nil {
		return predict.Example{}, err
	}
	visitorForm, err := feature.ComputeWindowStats(visitorAbbr, visitorGames, game.GameDate, b.windowSize)
	if err != nil {
		return predict.Example{}, err
	}

	var vector feature.MatchupVector
	if b.schema == feature.SchemaExtended {
		homeNet := feature.WindowNetRating(homeGames, game.GameDate, b.windowSize)
		visitorNet := feature.WindowNetRating(visitorGames, game.GameDate, b.windowSize)
		vector = feature.BuildExtendedVector(homeForm, visitorForm, feature.ExtendedMetrics{
			NetRatingDiff: homeNet - visitorNet,
			RestDifferential: feature.RestDifferential(game.GameDate,
				feature.LastGameDate(homeGames, game.GameDate),
				feature.LastGameDate(visitorGames, game.GameDate)),
			TravelMiles: feature.TravelDistance(visitorAbbr, homeAbbr),
		})
	} else {
		vector = feature.BuildBasicVector(homeForm, visitorForm)
	}

	return predict.Example{
		Vector:  vector,
		HomeWin: game.HomeScore.Int32 > game.VisitorScore.Int32,
		Date:    game.GameDate,
	}, nil
}

// RecordsFromLogs converts store rows into pipeline game records.
func RecordsFromLogs(logs []*store.TeamGameLog) []feature.GameRecord {
	records := make([]feature.GameRecord, 0, len(logs))
	for _, l := range logs {
		records = append(records, feature.GameRecord{
			Date:              l.GameDate,
			PointsScored:      l.PointsScored,
			PointsAllowed:     l.PointsAllowed,
			Won:               l.Won,
			Home:              l.IsHome,
			FieldGoalAttempts: l.FieldGoalsAttempted,
			FreeThrowAttempts: l.FreeThrowsAttempted,
			OffensiveRebounds: l.OffensiveRebounds,
			Turnovers:         l.Turnovers,
		})
	}
	return records
}
