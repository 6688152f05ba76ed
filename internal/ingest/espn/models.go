package espn

import "time"

// ScoreboardGame is one event parsed from a scoreboard response.
type ScoreboardGame struct {
	ExternalID   string
	GameDate     time.Time
	HomeAbbr     string
	VisitorAbbr  string
	Completed    bool
	HomeScore    int
	VisitorScore int
}

// ScheduleGame is one event parsed from a team schedule response.
type ScheduleGame struct {
	GameDate time.Time
	Opponent string
	IsHome   bool
}

// TeamTotals is one team's box-score totals from a game summary.
type TeamTotals struct {
	Abbreviation        string
	Points              int
	FieldGoalsAttempted int
	FreeThrowsAttempted int
	OffensiveRebounds   int
	Turnovers           int
}

// TeamIDs maps canonical abbreviations to ESPN numeric team IDs for the
// team-schedule endpoint.
var TeamIDs = map[string]string{
	"ATL": "01", "BOS": "02", "BKN": "17", "CHA": "30", "CHI": "04",
	"CLE": "05", "DAL": "06", "DEN": "07", "DET": "08", "GSW": "09",
	"HOU": "10", "IND": "11", "LAC": "12", "LAL": "13", "MEM": "29",
	"MIA": "14", "MIL": "15", "MIN": "16", "NOP": "03", "NYK": "18",
	"OKC": "25", "ORL": "19", "PHI": "20", "PHX": "21", "POR": "22",
	"SAC": "23", "SAS": "24", "TOR": "28", "UTA": "26", "WAS": "27",
}

// ESPN abbreviates a handful of teams differently from the rest of the
// pipeline. Everything not listed here passes through unchanged.
var abbrOverrides = map[string]string{
	"GS":   "GSW",
	"SA":   "SAS",
	"NO":   "NOP",
	"NY":   "NYK",
	"UTAH": "UTA",
	"WSH":  "WAS",
}

// CanonicalAbbr converts an ESPN team abbreviation to the canonical form
// used everywhere else.
func CanonicalAbbr(espnAbbr string) string {
	if canonical, ok := abbrOverrides[espnAbbr]; ok {
		return canonical
	}
	return espnAbbr
}
