package feature

import (
	"errors"
	"testing"
)

func TestBuildBasicVector_Order(t *testing.T) {
	home := TeamWindowStats{AvgPointsScored: 115.2, AvgPointsAllowed: 108.4, WinRate: 0.6}
	visitor := TeamWindowStats{AvgPointsScored: 112.8, AvgPointsAllowed: 110.1, WinRate: 0.4}

	v := BuildBasicVector(home, visitor)

	if v.Schema != SchemaBasic {
		t.Errorf("Expected schema %s, got %s", SchemaBasic, v.Schema)
	}
	want := []float64{115.2, 108.4, 0.6, 112.8, 110.1, 0.4}
	if len(v.Values) != len(want) {
		t.Fatalf("Expected %d values, got %d", len(want), len(v.Values))
	}
	for i := range want {
		if !almostEqual(v.Values[i], want[i]) {
			t.Errorf("Value %d: expected %v, got %v", i, want[i], v.Values[i])
		}
	}
	if err := v.Validate(); err != nil {
		t.Errorf("Valid vector failed validation: %v", err)
	}
}

func TestBuildExtendedVector(t *testing.T) {
	v := BuildExtendedVector(TeamWindowStats{}, TeamWindowStats{}, ExtendedMetrics{
		NetRatingDiff:    4.2,
		RestDifferential: -1,
		TravelMiles:      2600,
	})

	if v.Schema != SchemaExtended {
		t.Errorf("Expected schema %s, got %s", SchemaExtended, v.Schema)
	}
	if len(v.Values) != 9 {
		t.Fatalf("Expected 9 values, got %d", len(v.Values))
	}
	if !almostEqual(v.Values[6], 4.2) || !almostEqual(v.Values[7], -1) || !almostEqual(v.Values[8], 2600) {
		t.Errorf("Extended features out of order: %v", v.Values[6:])
	}
	if err := v.Validate(); err != nil {
		t.Errorf("Valid vector failed validation: %v", err)
	}
}

func TestValidate_SchemaMismatch(t *testing.T) {
	bad := MatchupVector{Schema: SchemaBasic, Values: []float64{1, 2, 3}}
	if err := bad.Validate(); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Expected ErrSchemaMismatch, got %v", err)
	}

	unknown := MatchupVector{Schema: "matchup/v99", Values: []float64{1}}
	if err := unknown.Validate(); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Expected ErrSchemaMismatch for unknown schema, got %v", err)
	}
}
