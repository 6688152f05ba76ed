package predict

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/fortuna/augur/internal/feature"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// separableExamples builds a training set where strong home form always wins
// and weak home form always loses.
func separableExamples(n int) []Example {
	examples := make([]Example, 0, n)
	base := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		date := base.AddDate(0, 0, i)
		homeWin := i%2 == 0

		strong := feature.TeamWindowStats{AvgPointsScored: 118 + float64(i%4), AvgPointsAllowed: 104, WinRate: 0.8}
		weak := feature.TeamWindowStats{AvgPointsScored: 102 + float64(i%4), AvgPointsAllowed: 115, WinRate: 0.2}

		var v feature.MatchupVector
		if homeWin {
			v = feature.BuildBasicVector(strong, weak)
		} else {
			v = feature.BuildBasicVector(weak, strong)
		}

		examples = append(examples, Example{Vector: v, HomeWin: homeWin, Date: date})
	}
	return examples
}

func TestLogistic_SeparableRoundTrip(t *testing.T) {
	examples := separableExamples(40)

	m := NewLogistic(feature.SchemaBasic)
	if err := m.Train(examples); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	for i, ex := range examples {
		prob, err := m.PredictProb(ex.Vector)
		if err != nil {
			t.Fatalf("PredictProb failed: %v", err)
		}
		if prob <= 0 || prob >= 1 {
			t.Fatalf("Probability %v outside (0,1)", prob)
		}
		if (prob > 0.5) != ex.HomeWin {
			t.Errorf("Example %d: clearly separable case on wrong side of 0.5 (prob %v, home win %v)", i, prob, ex.HomeWin)
		}
	}
}

func TestForest_SeparableRoundTrip(t *testing.T) {
	examples := separableExamples(40)

	m := NewForest(feature.SchemaBasic, 7)
	if err := m.Train(examples); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	for i, ex := range examples {
		prob, err := m.PredictProb(ex.Vector)
		if err != nil {
			t.Fatalf("PredictProb failed: %v", err)
		}
		if (prob > 0.5) != ex.HomeWin {
			t.Errorf("Example %d: wrong side of 0.5 (prob %v, home win %v)", i, prob, ex.HomeWin)
		}
	}
}

func TestTrain_EmptyDataset(t *testing.T) {
	for _, m := range []Predictor{NewLogistic(feature.SchemaBasic), NewForest(feature.SchemaBasic, 1)} {
		err := m.Train(nil)
		if !errors.Is(err, ErrInsufficientTrainingData) {
			t.Errorf("%T: expected ErrInsufficientTrainingData, got %v", m, err)
		}
	}
}

func TestPredict_SchemaMismatch(t *testing.T) {
	m := NewLogistic(feature.SchemaBasic)
	if err := m.Train(separableExamples(20)); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	// Wrong length for the declared schema.
	_, err := m.PredictProb(feature.MatchupVector{Schema: feature.SchemaBasic, Values: []float64{1, 2, 3}})
	if !errors.Is(err, feature.ErrSchemaMismatch) {
		t.Errorf("Expected ErrSchemaMismatch for short vector, got %v", err)
	}

	// Wrong schema entirely.
	_, err = m.PredictProb(feature.BuildExtendedVector(feature.TeamWindowStats{}, feature.TeamWindowStats{}, feature.ExtendedMetrics{}))
	if !errors.Is(err, feature.ErrSchemaMismatch) {
		t.Errorf("Expected ErrSchemaMismatch for wrong schema, got %v", err)
	}
}

func TestPredict_Untrained(t *testing.T) {
	m := NewForest(feature.SchemaBasic, 1)
	if _, err := m.PredictProb(feature.BuildBasicVector(feature.TeamWindowStats{}, feature.TeamWindowStats{})); err == nil {
		t.Error("Expected error from untrained model")
	}
}

func TestStrength_IdenticalTeamsReduceToHomeCourt(t *testing.T) {
	form := feature.TeamWindowStats{AvgPointsScored: 110, AvgPointsAllowed: 110, WinRate: 0.5}

	// Same form both sides, zero net-rating difference, equal rest, no
	// travel: only the home-court bump should separate the teams.
	v := feature.BuildExtendedVector(form, form, feature.ExtendedMetrics{})

	s := NewStrength()
	prob, err := s.PredictProb(v)
	if err != nil {
		t.Fatalf("PredictProb failed: %v", err)
	}

	if prob <= 0.5 {
		t.Errorf("Home court should give a slight edge, got %v", prob)
	}
	if prob > 0.56 {
		t.Errorf("Identical teams should be near a toss-up, got %v", prob)
	}
}

func TestStrength_TravelHurtsVisitor(t *testing.T) {
	form := feature.TeamWindowStats{AvgPointsScored: 110, AvgPointsAllowed: 110, WinRate: 0.5}

	s := NewStrength()
	near, err := s.PredictProb(feature.BuildExtendedVector(form, form, feature.ExtendedMetrics{TravelMiles: 100}))
	if err != nil {
		t.Fatalf("PredictProb failed: %v", err)
	}
	far, err := s.PredictProb(feature.BuildExtendedVector(form, form, feature.ExtendedMetrics{TravelMiles: 2600}))
	if err != nil {
		t.Fatalf("PredictProb failed: %v", err)
	}

	if far <= near {
		t.Errorf("Coast-to-coast travel should raise home probability: near %v, far %v", near, far)
	}
}
