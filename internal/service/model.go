package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fortuna/augur/internal/feature"
	"github.com/fortuna/augur/internal/predict"
)

// Model names accepted by Train and Evaluate.
const (
	ModelLogistic = "logistic"
	ModelForest   = "forest"
	ModelStrength = "strength"
)

// ModelInfo describes the currently active predictor.
type ModelInfo struct {
	Model     string         `json:"model"`
	Schema    feature.Schema `json:"schema"`
	TrainedAt time.Time      `json:"trained_at,omitempty"`
	TrainedOn int            `json:"trained_on"`
	Season    string         `json:"season,omitempty"`
}

// ModelService owns the active predictor and retrains it from stored
// seasons. Until a model is trained it serves the formula-based strength
// predictor, which needs no training data.
type ModelService struct {
	store      *HistoryStore
	windowSize int

	mu      sync.RWMutex
	current predict.Predictor
	info    ModelInfo
}

// NewModelService creates the service with the untrained fallback active.
func NewModelService(store *HistoryStore, windowSize int) *ModelService {
	return &ModelService{
		store:      store,
		windowSize: windowSize,
		current:    predict.NewStrength(),
		info: ModelInfo{
			Model:  ModelStrength,
			Schema: feature.SchemaExtended,
		},
	}
}

// Current returns the active predictor.
func (m *ModelService) Current() predict.Predictor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Info returns metadata about the active predictor.
func (m *ModelService) Info() ModelInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.info
}

// Train builds a season dataset and fits a new predictor, swapping it in
// as the active model on success. Returns the number of training examples.
func (m *ModelService) Train(ctx context.Context, modelName, season string) (int, error) {
	predictor, err := m.newPredictor(modelName)
	if err != nil {
		return 0, err
	}

	examples, err := m.buildExamples(ctx, predictor.Schema(), season)
	if err != nil {
		return 0, err
	}

	if err := predictor.Train(examples); err != nil {
		return 0, fmt.Errorf("training %s on season %s: %w", modelName, season, err)
	}

	m.mu.Lock()
	m.current = predictor
	m.info = ModelInfo{
		Model:     modelName,
		Schema:    predictor.Schema(),
		TrainedAt: time.Now(),
		TrainedOn: len(examples),
		Season:    season,
	}
	m.mu.Unlock()

	return len(examples), nil
}

// Evaluate backtests a model on a stored season with a chronological
// train/holdout split. The active model is left untouched.
func (m *ModelService) Evaluate(ctx context.Context, modelName, season string, trainFraction float64) (*predict.Metrics, error) {
	predictor, err := m.newPredictor(modelName)
	if err != nil {
		return nil, err
	}

	examples, err := m.buildExamples(ctx, predictor.Schema(), season)
	if err != nil {
		return nil, err
	}

	metrics, err := predict.Evaluate(predictor, examples, trainFraction)
	if err != nil {
		return nil, fmt.Errorf("evaluating %s on season %s: %w", modelName, season, err)
	}
	return &metrics, nil
}

func (m *ModelService) buildExamples(ctx context.Context, schema feature.Schema, season string) ([]predict.Example, error) {
	builder := NewDatasetBuilder(m.store.Games(), schema, m.windowSize)
	return builder.Build(ctx, season, func(teamID int) (string, bool) {
		return m.store.AbbrFor(ctx, teamID)
	})
}

func (m *ModelService) newPredictor(modelName string) (predict.Predictor, error) {
	switch modelName {
	case ModelLogistic:
		return predict.NewLogistic(feature.SchemaBasic), nil
	case ModelForest:
		return predict.NewForest(feature.SchemaBasic, time.Now().UnixNano()), nil
	case ModelStrength:
		return predict.NewStrength(), nil
	default:
		return nil, fmt.Errorf("unknown model %q (want %s, %s or %s)",
			modelName, ModelLogistic, ModelForest, ModelStrength)
	}
}
