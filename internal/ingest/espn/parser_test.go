package espn

import (
	"encoding/json"
	"testing"
	"time"
)

const scoreboardJSON = `{
	"events": [
		{
			"id": "401585601",
			"date": "2024-01-15T20:00Z",
			"status": {"type": {"completed": true, "state": "post"}},
			"competitions": [{
				"competitors": [
					{"homeAway": "home", "score": "118", "team": {"abbreviation": "GS"}},
					{"homeAway": "away", "score": "104", "team": {"abbreviation": "BOS"}}
				]
			}]
		},
		{
			"id": "401585602",
			"date": "2024-01-16T00:30:00Z",
			"status": {"type": {"completed": false, "state": "pre"}},
			"competitions": [{
				"competitors": [
					{"homeAway": "home", "score": "0", "team": {"abbreviation": "UTAH"}},
					{"homeAway": "away", "score": "0", "team": {"abbreviation": "LAL"}}
				]
			}]
		}
	]
}`

func TestParseScoreboardGames(t *testing.T) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(scoreboardJSON), &data); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	games, err := ParseScoreboardGames(data)
	if err != nil {
		t.Fatalf("ParseScoreboardGames: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}

	final := games[0]
	if final.ExternalID != "401585601" {
		t.Errorf("external id = %s", final.ExternalID)
	}
	if !final.Completed {
		t.Error("first game should be completed")
	}
	if final.HomeAbbr != "GSW" {
		t.Errorf("home abbr = %s, want canonical GSW", final.HomeAbbr)
	}
	if final.VisitorAbbr != "BOS" {
		t.Errorf("visitor abbr = %s", final.VisitorAbbr)
	}
	if final.HomeScore != 118 || final.VisitorScore != 104 {
		t.Errorf("score = %d-%d, want 118-104", final.HomeScore, final.VisitorScore)
	}

	upcoming := games[1]
	if upcoming.Completed {
		t.Error("second game should not be completed")
	}
	if upcoming.HomeAbbr != "UTA" {
		t.Errorf("home abbr = %s, want canonical UTA", upcoming.HomeAbbr)
	}
}

func TestParseScoreboardGamesEmpty(t *testing.T) {
	games, err := ParseScoreboardGames(map[string]interface{}{})
	if err != nil {
		t.Fatalf("ParseScoreboardGames: %v", err)
	}
	if len(games) != 0 {
		t.Errorf("got %d games, want 0", len(games))
	}
}

const scheduleJSON = `{
	"events": [
		{
			"date": "2024-01-10T00:00Z",
			"competitions": [{
				"competitors": [
					{"homeAway": "home", "team": {"abbreviation": "BOS"}},
					{"homeAway": "away", "team": {"abbreviation": "MIA"}}
				]
			}]
		},
		{
			"date": "2024-01-20T00:00Z",
			"competitions": [{
				"competitors": [
					{"homeAway": "home", "team": {"abbreviation": "BOS"}},
					{"homeAway": "away", "team": {"abbreviation": "NY"}}
				]
			}]
		},
		{
			"date": "2024-01-22T00:00Z",
			"competitions": [{
				"competitors": [
					{"homeAway": "home", "team": {"abbreviation": "CHI"}},
					{"homeAway": "away", "team": {"abbreviation": "BOS"}}
				]
			}]
		}
	]
}`

func TestParseTeamSchedule(t *testing.T) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(scheduleJSON), &data); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	games, err := ParseTeamSchedule(data, "BOS", now)
	if err != nil {
		t.Fatalf("ParseTeamSchedule: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d upcoming games, want 2 (past game filtered)", len(games))
	}

	if !games[0].IsHome || games[0].Opponent != "NYK" {
		t.Errorf("first game = home %v vs %s, want home game vs NYK", games[0].IsHome, games[0].Opponent)
	}
	if games[1].IsHome || games[1].Opponent != "CHI" {
		t.Errorf("second game = home %v vs %s, want road game at CHI", games[1].IsHome, games[1].Opponent)
	}
}

const summaryJSON = `{
	"boxscore": {
		"teams": [
			{
				"team": {"abbreviation": "BOS"},
				"statistics": [
					{"name": "fieldGoalsMade-fieldGoalsAttempted", "displayValue": "42-88"},
					{"name": "freeThrowsMade-freeThrowsAttempted", "displayValue": "15-18"},
					{"name": "offensiveRebounds", "displayValue": "11"},
					{"name": "turnovers", "displayValue": "13"},
					{"name": "points", "displayValue": "112"}
				]
			},
			{
				"team": {"abbreviation": "MIA"},
				"statistics": [
					{"label": "FG", "displayValue": "39-90"},
					{"label": "FT", "displayValue": "20-24"},
					{"label": "OREB", "displayValue": "9"},
					{"label": "TO", "displayValue": "16"},
					{"label": "PTS", "displayValue": "104"}
				]
			}
		]
	}
}`

func TestParseTeamTotals(t *testing.T) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(summaryJSON), &data); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	totals, err := ParseTeamTotals(data)
	if err != nil {
		t.Fatalf("ParseTeamTotals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("got %d team totals, want 2", len(totals))
	}

	bos := totals[0]
	if bos.Abbreviation != "BOS" {
		t.Fatalf("first team = %s", bos.Abbreviation)
	}
	if bos.FieldGoalsAttempted != 88 || bos.FreeThrowsAttempted != 18 {
		t.Errorf("BOS attempts = %d FGA, %d FTA", bos.FieldGoalsAttempted, bos.FreeThrowsAttempted)
	}
	if bos.OffensiveRebounds != 11 || bos.Turnovers != 13 || bos.Points != 112 {
		t.Errorf("BOS totals = %+v", bos)
	}

	// The second team's fixture uses display labels instead of stat names
	mia := totals[1]
	if mia.FieldGoalsAttempted != 90 || mia.Points != 104 {
		t.Errorf("MIA totals = %+v", mia)
	}
}

func TestCanonicalAbbr(t *testing.T) {
	cases := map[string]string{
		"GS":   "GSW",
		"SA":   "SAS",
		"NO":   "NOP",
		"NY":   "NYK",
		"UTAH": "UTA",
		"WSH":  "WAS",
		"BOS":  "BOS",
		"LAL":  "LAL",
	}
	for espnAbbr, want := range cases {
		if got := CanonicalAbbr(espnAbbr); got != want {
			t.Errorf("CanonicalAbbr(%s) = %s, want %s", espnAbbr, got, want)
		}
	}
}
