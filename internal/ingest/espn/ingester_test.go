package espn

import "testing"

func TestScheduleSides(t *testing.T) {
	home, visitor := scheduleSides(ScheduleGame{Opponent: "MIA", IsHome: true}, "BOS")
	if home != "BOS" || visitor != "MIA" {
		t.Errorf("home game sides = %s vs %s, want BOS vs MIA", home, visitor)
	}

	home, visitor = scheduleSides(ScheduleGame{Opponent: "MIA", IsHome: false}, "BOS")
	if home != "MIA" || visitor != "BOS" {
		t.Errorf("road game sides = %s vs %s, want MIA vs BOS", home, visitor)
	}
}
