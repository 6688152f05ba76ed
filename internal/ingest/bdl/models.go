package bdl

// Team is the balldontlie team payload.
type Team struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	FullName     string `json:"full_name"`
	Name         string `json:"name"`
}

// Game is the balldontlie game payload. Date is an ISO date (YYYY-MM-DD for
// historical seasons, RFC3339 for some newer rows).
type Game struct {
	ID               int    `json:"id"`
	Date             string `json:"date"`
	Season           int    `json:"season"`
	Status           string `json:"status"`
	Period           int    `json:"period"`
	Postseason       bool   `json:"postseason"`
	HomeTeamScore    int    `json:"home_team_score"`
	VisitorTeamScore int    `json:"visitor_team_score"`
	HomeTeam         Team   `json:"home_team"`
	VisitorTeam      Team   `json:"visitor_team"`
}

type teamsResponse struct {
	Data []Team `json:"data"`
}

type gamesResponse struct {
	Data []Game `json:"data"`
	Meta struct {
		NextCursor int `json:"next_cursor"`
		PerPage    int `json:"per_page"`
	} `json:"meta"`
}
