package predict

import "testing"

func TestClassifyConfidence_Boundaries(t *testing.T) {
	tests := []struct {
		prob float64
		want Confidence
	}{
		{0.50, ConfidenceTossUp},
		{0.55, ConfidenceTossUp}, // exactly 0.55 is still a toss-up for the favorite side
		{0.551, ConfidenceMedium},
		{0.60, ConfidenceMedium},
		{0.601, ConfidenceHigh},
		{0.70, ConfidenceHigh},
		{0.701, ConfidenceVeryHigh},
		{0.99, ConfidenceVeryHigh},
	}

	for _, tt := range tests {
		if got := ClassifyConfidence(tt.prob); got != tt.want {
			t.Errorf("home prob %v: expected %s, got %s", tt.prob, tt.want, got)
		}
	}
}

func TestClassifyConfidence_UsesFavorite(t *testing.T) {
	// A home probability of 0.25 means the visitor is at 0.75.
	if got := ClassifyConfidence(0.25); got != ConfidenceVeryHigh {
		t.Errorf("Expected VERY_HIGH for 75%% visitor favorite, got %s", got)
	}
	if got := ClassifyConfidence(0.42); got != ConfidenceMedium {
		t.Errorf("Expected MEDIUM for 58%% visitor favorite, got %s", got)
	}
}

func TestNewResult(t *testing.T) {
	r := NewResult(0.64)

	if r.PredictedWinner != WinnerHome {
		t.Errorf("Expected HOME winner, got %s", r.PredictedWinner)
	}
	if !almostEqual(r.VisitorWinProbability, 0.36) {
		t.Errorf("Expected visitor probability 0.36, got %v", r.VisitorWinProbability)
	}
	if r.Confidence != ConfidenceHigh {
		t.Errorf("Expected HIGH confidence, got %s", r.Confidence)
	}

	if NewResult(0.3).PredictedWinner != WinnerVisitor {
		t.Error("Expected VISITOR winner for 0.3")
	}
}
