package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortuna/augur/internal/store"
)

type fakeTeamSource struct {
	calls int32
	teams []*store.Team
}

func (f *fakeTeamSource) GetAll(_ context.Context) ([]*store.Team, error) {
	atomic.AddInt32(&f.calls, 1)
	// Widen the load window so concurrent callers pile up on it.
	time.Sleep(5 * time.Millisecond)
	return f.teams, nil
}

func thirtyTeams() []*store.Team {
	teams := make([]*store.Team, 0, 30)
	for i := 1; i <= 30; i++ {
		teams = append(teams, &store.Team{
			TeamID:       i,
			Abbreviation: fmt.Sprintf("T%02d", i),
		})
	}
	return teams
}

func TestHistoryStore_ConcurrentTeamLookups(t *testing.T) {
	src := &fakeTeamSource{teams: thirtyTeams()}
	h := &HistoryStore{teams: src}

	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make(chan error, 200)

	for i := 0; i < 100; i++ {
		teamID := i%30 + 1
		abbr := fmt.Sprintf("T%02d", teamID)

		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := h.TeamID(ctx, abbr)
			if err != nil {
				errs <- err
				return
			}
			if id != teamID {
				errs <- fmt.Errorf("resolved %s to %d, want %d", abbr, id, teamID)
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			got, ok := h.AbbrFor(ctx, teamID)
			if !ok {
				errs <- fmt.Errorf("team %d not found", teamID)
				return
			}
			if got != abbr {
				errs <- fmt.Errorf("resolved %d to %s, want %s", teamID, got, abbr)
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	if n := atomic.LoadInt32(&src.calls); n != 1 {
		t.Errorf("Expected a single team load, got %d", n)
	}
}

func TestUpcomingView(t *testing.T) {
	d1 := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	matchups := []Matchup{
		{HomeTeam: "BOS", VisitorTeam: "MIA", GameDate: d1},
		{HomeTeam: "NYK", VisitorTeam: "BOS", GameDate: d2},
	}

	games := UpcomingView("BOS", matchups)
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	if games[0].Opponent != "MIA" || !games[0].IsHome || !games[0].GameDate.Equal(d1) {
		t.Errorf("home game = %+v", games[0])
	}
	if games[1].Opponent != "NYK" || games[1].IsHome || !games[1].GameDate.Equal(d2) {
		t.Errorf("road game = %+v", games[1])
	}
}
