package bref

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const monthPageHTML = `<html><body>
<table id="schedule">
<tbody>
<tr>
  <th data-stat="date_game"><a href="#">Fri, Jan 12, 2024</a></th>
  <td data-stat="visitor_team_name"><a href="#">Miami Heat</a></td>
  <td data-stat="visitor_pts">104</td>
  <td data-stat="home_team_name"><a href="#">Boston Celtics</a></td>
  <td data-stat="home_pts">112</td>
</tr>
<tr class="thead">
  <th data-stat="date_game">Date</th>
</tr>
<tr>
  <th data-stat="date_game"><a href="#">Sat, Jan 13, 2024</a></th>
  <td data-stat="visitor_team_name"><a href="#">Los Angeles Lakers</a></td>
  <td data-stat="visitor_pts"></td>
  <td data-stat="home_team_name"><a href="#">Denver Nuggets</a></td>
  <td data-stat="home_pts"></td>
</tr>
</tbody>
</table>
</body></html>`

func TestParseMonthGames(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(monthPageHTML))
	if err != nil {
		t.Fatalf("building document: %v", err)
	}

	games, err := ParseMonthGames(doc)
	if err != nil {
		t.Fatalf("ParseMonthGames: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2 (header row skipped)", len(games))
	}

	final := games[0]
	if !final.Completed {
		t.Error("first game should be completed")
	}
	if final.HomeName != "Boston Celtics" || final.VisitorName != "Miami Heat" {
		t.Errorf("teams = %s vs %s", final.HomeName, final.VisitorName)
	}
	if final.HomeScore != 112 || final.VisitorScore != 104 {
		t.Errorf("score = %d-%d, want 112-104", final.HomeScore, final.VisitorScore)
	}
	wantDate := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	if !final.Date.Equal(wantDate) {
		t.Errorf("date = %v, want %v", final.Date, wantDate)
	}

	future := games[1]
	if future.Completed {
		t.Error("scoreless game should not be completed")
	}
	if future.HomeName != "Denver Nuggets" {
		t.Errorf("future home = %s", future.HomeName)
	}
}
