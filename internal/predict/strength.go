package predict

import "github.com/fortuna/augur/internal/feature"

// Home-court advantage is worth roughly 3-4 points in the NBA.
const homeCourtBump = 3.5

// Strength clamps wider than the learned models: a weighted formula should
// never claim more than 80% for any side.
const (
	strengthFloor   = 0.20
	strengthCeiling = 0.80
)

// Strength is a deterministic weighted-strength predictor. It needs no
// training, which makes it the fallback when too little history exists to fit
// a learned model, and a stable baseline to compare learned models against.
// Works only on the extended schema, since it weighs net rating, rest and
// travel directly.
type Strength struct{}

// NewStrength creates the formula predictor.
func NewStrength() *Strength { return &Strength{} }

// Schema returns the vector schema the predictor expects.
func (s *Strength) Schema() feature.Schema { return feature.SchemaExtended }

// Train is a no-op; the formula has no fitted state.
func (s *Strength) Train(examples []Example) error { return nil }

// PredictProb scores both sides with a weighted sum of form, net rating, rest
// and travel fatigue, then normalizes to a home probability.
func (s *Strength) PredictProb(v feature.MatchupVector) (float64, error) {
	if err := checkVector(v, feature.SchemaExtended); err != nil {
		return 0, err
	}

	homePts, homeOpp, homeWinRate := v.Values[0], v.Values[1], v.Values[2]
	visPts, visOpp, visWinRate := v.Values[3], v.Values[4], v.Values[5]
	netDiff, restDiff, travelMiles := v.Values[6], v.Values[7], v.Values[8]

	home := netDiff*2.0 +
		homePts*0.3 +
		(120-homeOpp)*0.2 +
		homeWinRate*100*0.3 +
		restDiff*2.0 +
		homeCourtBump

	visitor := visPts*0.3 +
		(120-visOpp)*0.2 +
		visWinRate*100*0.3 +
		feature.TravelFatigue(travelMiles)

	total := home + visitor
	p := 0.5
	if total > 0 {
		p = home / total
	}

	if p < strengthFloor {
		p = strengthFloor
	}
	if p > strengthCeiling {
		p = strengthCeiling
	}
	return p, nil
}
