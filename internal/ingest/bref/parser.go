package bref

import (
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// GameRow is one row of a schedule page. Rows without scores are future
// games and carry Completed=false.
type GameRow struct {
	Date         time.Time
	HomeName     string
	VisitorName  string
	HomeScore    int
	VisitorScore int
	Completed    bool
}

// ParseMonthGames extracts the games from a month schedule page. The page
// lists one game per row in the #schedule table, teams by full name.
func ParseMonthGames(doc *goquery.Document) ([]GameRow, error) {
	var games []GameRow

	doc.Find("table#schedule tbody tr").Each(func(i int, row *goquery.Selection) {
		// Mid-table header repeats carry the "thead" class
		if row.HasClass("thead") {
			return
		}

		dateText := strings.TrimSpace(row.Find(`th[data-stat="date_game"]`).Text())
		date, err := time.Parse("Mon, Jan 2, 2006", dateText)
		if err != nil {
			return
		}

		game := GameRow{
			Date:        date,
			VisitorName: strings.TrimSpace(row.Find(`td[data-stat="visitor_team_name"]`).Text()),
			HomeName:    strings.TrimSpace(row.Find(`td[data-stat="home_team_name"]`).Text()),
		}
		if game.VisitorName == "" || game.HomeName == "" {
			return
		}

		visitorPts := strings.TrimSpace(row.Find(`td[data-stat="visitor_pts"]`).Text())
		homePts := strings.TrimSpace(row.Find(`td[data-stat="home_pts"]`).Text())
		if visitorPts != "" && homePts != "" {
			v, errV := strconv.Atoi(visitorPts)
			h, errH := strconv.Atoi(homePts)
			if errV == nil && errH == nil {
				game.VisitorScore = v
				game.HomeScore = h
				game.Completed = true
			}
		}

		games = append(games, game)
	})

	return games, nil
}
