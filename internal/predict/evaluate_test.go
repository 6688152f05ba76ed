package predict

import (
	"errors"
	"testing"
)

func TestChronoSplit_OrderedHoldout(t *testing.T) {
	examples := separableExamples(40)

	// Feed in reverse to prove the split sorts first.
	reversed := make([]Example, len(examples))
	for i, ex := range examples {
		reversed[len(examples)-1-i] = ex
	}

	train, test, err := ChronoSplit(reversed, 0.75)
	if err != nil {
		t.Fatalf("ChronoSplit failed: %v", err)
	}

	if len(train) != 30 || len(test) != 10 {
		t.Fatalf("Expected 30/10 split, got %d/%d", len(train), len(test))
	}

	latestTrain := train[0].Date
	for _, ex := range train {
		if ex.Date.After(latestTrain) {
			latestTrain = ex.Date
		}
	}
	for _, ex := range test {
		if ex.Date.Before(latestTrain) {
			t.Fatalf("Held-out game on %s predates training game on %s", ex.Date, latestTrain)
		}
	}
}

func TestChronoSplit_TooFewExamples(t *testing.T) {
	_, _, err := ChronoSplit(separableExamples(1), 0.75)
	if !errors.Is(err, ErrInsufficientTrainingData) {
		t.Errorf("Expected ErrInsufficientTrainingData, got %v", err)
	}
}

func TestEvaluate_SeparableAccuracy(t *testing.T) {
	examples := separableExamples(80)

	m, err := Evaluate(NewLogistic(examples[0].Vector.Schema), examples, 0.75)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if m.TrainGames != 60 || m.TestGames != 20 {
		t.Errorf("Expected 60/20 split, got %d/%d", m.TrainGames, m.TestGames)
	}
	// Cleanly separable data should score near-perfect even out of sample.
	if m.Accuracy < 0.9 {
		t.Errorf("Expected high held-out accuracy on separable data, got %v", m.Accuracy)
	}
	if m.LogLoss < 0 {
		t.Errorf("Log loss cannot be negative, got %v", m.LogLoss)
	}
}
