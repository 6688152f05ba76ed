package predict

import (
	"errors"
	"math"

	"github.com/fortuna/augur/internal/feature"
)

const (
	logisticIters = 400
	logisticLR    = 0.15
)

// Logistic is a logistic-regression classifier fit by gradient descent on
// log-loss. Features are standardized to zero mean and unit variance before
// fitting, since raw point averages and win rates live on very different
// scales.
type Logistic struct {
	schema  feature.Schema
	weights []float64 // bias at index 0
	means   []float64
	stddevs []float64
	trained bool
}

// NewLogistic creates an untrained logistic model bound to a vector schema.
func NewLogistic(schema feature.Schema) *Logistic {
	return &Logistic{schema: schema}
}

// Schema returns the vector schema the model is bound to.
func (m *Logistic) Schema() feature.Schema { return m.schema }

// Train fits the model on labeled matchups.
func (m *Logistic) Train(examples []Example) error {
	if err := checkTrainingSet(examples, m.schema); err != nil {
		return err
	}

	width := m.schema.Width()
	m.means, m.stddevs = fitScaler(examples, width)

	w := make([]float64, width+1)
	for iter := 0; iter < logisticIters; iter++ {
		for _, ex := range examples {
			x := m.scaled(ex.Vector.Values)
			p := sigmoid(w[0] + dot(w[1:], x))

			y := 0.0
			if ex.HomeWin {
				y = 1.0
			}

			// gradient of -[y*log(p)+(1-y)*log(1-p)] = (p-y)*x
			g := logisticLR * (p - y) / float64(len(examples))
			w[0] -= g
			for k, xv := range x {
				w[k+1] -= g * xv
			}
		}
	}

	m.weights = w
	m.trained = true
	return nil
}

// PredictProb returns the home team's win probability.
func (m *Logistic) PredictProb(v feature.MatchupVector) (float64, error) {
	if !m.trained {
		return 0, errors.New("logistic model not trained")
	}
	if err := checkVector(v, m.schema); err != nil {
		return 0, err
	}

	x := m.scaled(v.Values)
	return clampProb(sigmoid(m.weights[0] + dot(m.weights[1:], x))), nil
}

func (m *Logistic) scaled(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - m.means[i]) / m.stddevs[i]
	}
	return out
}

// fitScaler computes per-feature means and standard deviations. Constant
// features get a stddev of 1 so they pass through as zeros.
func fitScaler(examples []Example, width int) (means, stddevs []float64) {
	means = make([]float64, width)
	stddevs = make([]float64, width)
	n := float64(len(examples))

	for _, ex := range examples {
		for i, v := range ex.Vector.Values {
			means[i] += v
		}
	}
	for i := range means {
		means[i] /= n
	}

	for _, ex := range examples {
		for i, v := range ex.Vector.Values {
			d := v - means[i]
			stddevs[i] += d * d
		}
	}
	for i := range stddevs {
		stddevs[i] = math.Sqrt(stddevs[i] / n)
		if stddevs[i] == 0 {
			stddevs[i] = 1
		}
	}
	return means, stddevs
}

func sigmoid(z float64) float64 {
	if z > 20 {
		return 1.0
	}
	if z < -20 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
