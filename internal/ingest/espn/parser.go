package espn

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// ParseScoreboardGames extracts games from a scoreboard response. Events
// that cannot be parsed are logged and skipped rather than failing the
// whole batch.
func ParseScoreboardGames(scoreboardData map[string]interface{}) ([]ScoreboardGame, error) {
	events := extractArray(scoreboardData, "events")
	if len(events) == 0 {
		// No games on this date, normal in the offseason
		return []ScoreboardGame{}, nil
	}

	var games []ScoreboardGame
	for _, eventInterface := range events {
		event, ok := eventInterface.(map[string]interface{})
		if !ok {
			continue
		}
		game, err := parseScoreboardEvent(event)
		if err != nil {
			log.Printf("[espn-parser] Skipping game %s: %v", extractString(event, "id"), err)
			continue
		}
		games = append(games, game)
	}

	return games, nil
}

func parseScoreboardEvent(event map[string]interface{}) (ScoreboardGame, error) {
	game := ScoreboardGame{
		ExternalID: extractString(event, "id"),
	}
	if game.ExternalID == "" {
		return game, fmt.Errorf("event has no id")
	}

	gameDate, err := parseEventDate(extractString(event, "date"))
	if err != nil {
		return game, err
	}
	game.GameDate = gameDate

	status := extractMap(event, "status")
	statusType := extractMap(status, "type")
	if completed, ok := statusType["completed"].(bool); ok {
		game.Completed = completed
	}

	competitions := extractArray(event, "competitions")
	if len(competitions) == 0 {
		return game, fmt.Errorf("no competitions")
	}
	comp, ok := competitions[0].(map[string]interface{})
	if !ok {
		return game, fmt.Errorf("malformed competition")
	}

	for _, competitorInterface := range extractArray(comp, "competitors") {
		competitor, ok := competitorInterface.(map[string]interface{})
		if !ok {
			continue
		}
		team := extractMap(competitor, "team")
		abbr := CanonicalAbbr(extractString(team, "abbreviation"))
		score := parseInt(competitor["score"])

		if extractString(competitor, "homeAway") == "home" {
			game.HomeAbbr = abbr
			game.HomeScore = score
		} else {
			game.VisitorAbbr = abbr
			game.VisitorScore = score
		}
	}
	if game.HomeAbbr == "" || game.VisitorAbbr == "" {
		return game, fmt.Errorf("missing competitor teams")
	}

	return game, nil
}

// ParseTeamSchedule extracts upcoming games from a team schedule response.
// teamAbbr is the canonical abbreviation of the team the schedule belongs
// to; only games after the now cutoff are returned.
func ParseTeamSchedule(scheduleData map[string]interface{}, teamAbbr string, now time.Time) ([]ScheduleGame, error) {
	events := extractArray(scheduleData, "events")

	var games []ScheduleGame
	for _, eventInterface := range events {
		event, ok := eventInterface.(map[string]interface{})
		if !ok {
			continue
		}

		gameDate, err := parseEventDate(extractString(event, "date"))
		if err != nil || !gameDate.After(now) {
			continue
		}

		competitions := extractArray(event, "competitions")
		if len(competitions) == 0 {
			continue
		}
		comp, ok := competitions[0].(map[string]interface{})
		if !ok {
			continue
		}

		var home, visitor string
		for _, competitorInterface := range extractArray(comp, "competitors") {
			competitor, ok := competitorInterface.(map[string]interface{})
			if !ok {
				continue
			}
			abbr := CanonicalAbbr(extractString(extractMap(competitor, "team"), "abbreviation"))
			if extractString(competitor, "homeAway") == "home" {
				home = abbr
			} else {
				visitor = abbr
			}
		}
		if home == "" || visitor == "" {
			continue
		}

		isHome := home == teamAbbr
		opponent := home
		if isHome {
			opponent = visitor
		}
		games = append(games, ScheduleGame{
			GameDate: gameDate,
			Opponent: opponent,
			IsHome:   isHome,
		})
	}

	return games, nil
}

// ParseTeamTotals extracts both teams' box-score totals from a game summary.
func ParseTeamTotals(summaryData map[string]interface{}) ([]TeamTotals, error) {
	boxscore := extractMap(summaryData, "boxscore")
	teams := extractArray(boxscore, "teams")
	if len(teams) < 2 {
		return nil, fmt.Errorf("summary has no boxscore teams")
	}

	var totals []TeamTotals
	for _, teamInterface := range teams {
		teamData, ok := teamInterface.(map[string]interface{})
		if !ok {
			continue
		}
		team := extractMap(teamData, "team")
		t := TeamTotals{
			Abbreviation: CanonicalAbbr(extractString(team, "abbreviation")),
		}

		statistics := extractArray(teamData, "statistics")
		getStat := func(names ...string) string {
			for _, statInterface := range statistics {
				statObj, ok := statInterface.(map[string]interface{})
				if !ok {
					continue
				}
				statName := extractString(statObj, "name")
				statLabel := extractString(statObj, "label")
				for _, searchName := range names {
					if statName == searchName || statLabel == searchName {
						return extractString(statObj, "displayValue")
					}
				}
			}
			return ""
		}

		// Shot lines come as "made-attempted", e.g. "49-88"
		t.FieldGoalsAttempted = parseShotAttempts(getStat("fieldGoalsMade-fieldGoalsAttempted", "FG"))
		t.FreeThrowsAttempted = parseShotAttempts(getStat("freeThrowsMade-freeThrowsAttempted", "FT"))
		if v, err := strconv.Atoi(getStat("offensiveRebounds", "OR", "OREB")); err == nil {
			t.OffensiveRebounds = v
		}
		if v, err := strconv.Atoi(getStat("turnovers", "TO")); err == nil {
			t.Turnovers = v
		}
		if v, err := strconv.Atoi(getStat("points", "PTS")); err == nil {
			t.Points = v
		}

		totals = append(totals, t)
	}

	if len(totals) < 2 {
		return nil, fmt.Errorf("parsed %d team totals, want 2", len(totals))
	}
	return totals, nil
}

func parseEventDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("no date field")
	}
	gameTime, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		// ESPN sometimes omits seconds: "2025-11-15T01:00Z"
		gameTime, err = time.Parse("2006-01-02T15:04Z", dateStr)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", dateStr, err)
	}
	return gameTime, nil
}

func parseShotAttempts(shotStr string) int {
	parts := strings.Split(shotStr, "-")
	if len(parts) != 2 {
		return 0
	}
	attempted, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
	return attempted
}

func extractString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

func extractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mapVal, ok := v.(map[string]interface{}); ok {
			return mapVal
		}
	}
	return map[string]interface{}{}
}

func extractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if arrVal, ok := v.([]interface{}); ok {
			return arrVal
		}
	}
	return []interface{}{}
}

func parseInt(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(val)
		return i
	case int:
		return val
	}
	return 0
}
