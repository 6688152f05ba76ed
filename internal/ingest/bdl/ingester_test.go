package bdl

import (
	"math"
	"testing"

	"github.com/fortuna/augur/internal/store"
)

func TestApplyLocation(t *testing.T) {
	row := &store.Team{Abbreviation: "BOS"}
	applyLocation(row, "BOS")

	if !row.Latitude.Valid || !row.Longitude.Valid {
		t.Fatal("Expected coordinates to be set for a known team")
	}
	if math.Abs(row.Latitude.Float64-42.3661) > 1e-4 {
		t.Errorf("Wrong latitude for BOS: %v", row.Latitude.Float64)
	}
	if math.Abs(row.Longitude.Float64-(-71.0621)) > 1e-4 {
		t.Errorf("Wrong longitude for BOS: %v", row.Longitude.Float64)
	}
}

func TestApplyLocation_UnknownTeam(t *testing.T) {
	row := &store.Team{Abbreviation: "XXX"}
	applyLocation(row, "XXX")

	if row.Latitude.Valid || row.Longitude.Valid {
		t.Error("Unknown teams must keep NULL coordinates")
	}
}
