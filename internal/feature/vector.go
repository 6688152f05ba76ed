package feature

import (
	"errors"
	"fmt"
)

// ErrSchemaMismatch indicates a feature vector whose shape disagrees with
// what the bound model expects. Fatal for the call - it means a caller bug,
// never something to read past silently.
var ErrSchemaMismatch = errors.New("feature vector schema mismatch")

// Schema identifies a feature-vector layout. A trained model is only valid
// for the schema it trained on; changing feature count or order is a breaking
// change that requires retraining.
type Schema string

const (
	// SchemaBasic is the v1 six-feature layout: home then visitor
	// {avg points scored, avg points allowed, win rate}.
	SchemaBasic Schema = "matchup/v1"

	// SchemaExtended is the v2 nine-feature layout: the basic six plus
	// net-rating differential, rest differential and travel distance.
	SchemaExtended Schema = "matchup/v2"
)

// Width returns the number of features a schema carries, or 0 for an unknown
// schema.
func (s Schema) Width() int {
	switch s {
	case SchemaBasic:
		return 6
	case SchemaExtended:
		return 9
	}
	return 0
}

// MatchupVector is an ordered, fixed-length numeric vector describing one
// (home, visitor) pairing at one point in time.
type MatchupVector struct {
	Schema Schema    `json:"schema"`
	Values []float64 `json:"values"`
}

// Validate checks that the vector's length matches its schema.
func (v MatchupVector) Validate() error {
	want := v.Schema.Width()
	if want == 0 {
		return fmt.Errorf("%w: unknown schema %q", ErrSchemaMismatch, v.Schema)
	}
	if len(v.Values) != want {
		return fmt.Errorf("%w: schema %s expects %d features, got %d", ErrSchemaMismatch, v.Schema, want, len(v.Values))
	}
	return nil
}

// ExtendedMetrics carries the matchup-level features beyond raw team form.
type ExtendedMetrics struct {
	NetRatingDiff    float64 `json:"net_rating_diff"`
	RestDifferential int     `json:"rest_differential"`
	TravelMiles      float64 `json:"travel_miles"`
}

// BuildBasicVector assembles the v1 vector. Field order is fixed by the
// trained model and must not change.
func BuildBasicVector(home, visitor TeamWindowStats) MatchupVector {
	return MatchupVector{
		Schema: SchemaBasic,
		Values: []float64{
			home.AvgPointsScored,
			home.AvgPointsAllowed,
			home.WinRate,
			visitor.AvgPointsScored,
			visitor.AvgPointsAllowed,
			visitor.WinRate,
		},
	}
}

// BuildExtendedVector assembles the v2 vector: basic form plus net-rating
// differential, rest differential and the visitor's travel distance.
func BuildExtendedVector(home, visitor TeamWindowStats, ext ExtendedMetrics) MatchupVector {
	basic := BuildBasicVector(home, visitor)
	return MatchupVector{
		Schema: SchemaExtended,
		Values: append(basic.Values,
			ext.NetRatingDiff,
			float64(ext.RestDifferential),
			ext.TravelMiles,
		),
	}
}
