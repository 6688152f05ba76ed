package predict

import (
	"fmt"
	"math"
	"sort"
)

// DefaultTrainFraction sends the first three quarters of a season to
// training and holds out the rest.
const DefaultTrainFraction = 0.75

// Metrics summarizes held-out performance.
type Metrics struct {
	TrainGames  int     `json:"train_games"`
	TestGames   int     `json:"test_games"`
	Correct     int     `json:"correct"`
	Accuracy    float64 `json:"accuracy"`
	LogLoss     float64 `json:"log_loss"`
	HomeWinRate float64 `json:"home_win_rate"`
}

// ChronoSplit orders examples by date and splits early-vs-late. Evaluation
// must hold out games played after everything the model trained on - a random
// shuffle leaks future form into training, which is how near-100% accuracy
// figures get fabricated. No shuffled split is offered.
func ChronoSplit(examples []Example, trainFraction float64) (train, test []Example, err error) {
	if len(examples) < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 examples to split, have %d", ErrInsufficientTrainingData, len(examples))
	}
	if trainFraction <= 0 || trainFraction >= 1 {
		trainFraction = DefaultTrainFraction
	}

	ordered := make([]Example, len(examples))
	copy(ordered, examples)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	idx := int(float64(len(ordered)) * trainFraction)
	if idx == 0 {
		idx = 1
	}
	if idx == len(ordered) {
		idx = len(ordered) - 1
	}

	return ordered[:idx], ordered[idx:], nil
}

// Evaluate trains the predictor on the chronological head of the examples and
// scores it on the tail.
func Evaluate(p Predictor, examples []Example, trainFraction float64) (Metrics, error) {
	train, test, err := ChronoSplit(examples, trainFraction)
	if err != nil {
		return Metrics{}, err
	}

	if err := p.Train(train); err != nil {
		return Metrics{}, fmt.Errorf("training: %w", err)
	}

	m := Metrics{TrainGames: len(train), TestGames: len(test)}

	var logLoss float64
	homeWins := 0
	for _, ex := range test {
		prob, err := p.PredictProb(ex.Vector)
		if err != nil {
			return Metrics{}, fmt.Errorf("predicting held-out game on %s: %w", ex.Date.Format("2006-01-02"), err)
		}

		if (prob >= 0.5) == ex.HomeWin {
			m.Correct++
		}
		if ex.HomeWin {
			homeWins++
			logLoss -= math.Log(prob)
		} else {
			logLoss -= math.Log(1 - prob)
		}
	}

	n := float64(len(test))
	m.Accuracy = float64(m.Correct) / n
	m.LogLoss = logLoss / n
	m.HomeWinRate = float64(homeWins) / n
	return m, nil
}
