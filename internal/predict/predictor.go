// Package predict provides interchangeable binary classifiers for matchup
// outcomes. Every model satisfies the same Train/PredictProb contract, so the
// pipeline never depends on a specific algorithm's internals.
package predict

import (
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/augur/internal/feature"
)

// ErrInsufficientTrainingData indicates an empty or too-small training set.
// Fatal for training, irrelevant to prediction.
var ErrInsufficientTrainingData = errors.New("insufficient training data")

// Example is one labeled historical matchup.
type Example struct {
	Vector  feature.MatchupVector `json:"vector"`
	HomeWin bool                  `json:"home_win"`
	Date    time.Time             `json:"date"`
}

// Predictor is a binary probabilistic classifier over matchup vectors.
// PredictProb returns the home team's win probability in (0,1).
type Predictor interface {
	Train(examples []Example) error
	PredictProb(v feature.MatchupVector) (float64, error)
	Schema() feature.Schema
}

// minTrainingExamples is the floor below which a fitted model is noise.
const minTrainingExamples = 10

// probFloor / probCeiling keep model output inside the open interval so the
// complementary visitor probability is also valid.
const (
	probFloor   = 0.01
	probCeiling = 0.99
)

func clampProb(p float64) float64 {
	if p < probFloor {
		return probFloor
	}
	if p > probCeiling {
		return probCeiling
	}
	return p
}

// checkTrainingSet validates a training set against a schema before fitting.
func checkTrainingSet(examples []Example, schema feature.Schema) error {
	if len(examples) == 0 {
		return ErrInsufficientTrainingData
	}
	if len(examples) < minTrainingExamples {
		return fmt.Errorf("%w: %d examples, need at least %d", ErrInsufficientTrainingData, len(examples), minTrainingExamples)
	}
	for i, ex := range examples {
		if ex.Vector.Schema != schema {
			return fmt.Errorf("%w: example %d has schema %s, model expects %s",
				feature.ErrSchemaMismatch, i, ex.Vector.Schema, schema)
		}
		if err := ex.Vector.Validate(); err != nil {
			return fmt.Errorf("example %d: %w", i, err)
		}
	}
	return nil
}

// checkVector validates a prediction input against the trained schema.
func checkVector(v feature.MatchupVector, schema feature.Schema) error {
	if v.Schema != schema {
		return fmt.Errorf("%w: vector schema %s, model expects %s", feature.ErrSchemaMismatch, v.Schema, schema)
	}
	return v.Validate()
}
