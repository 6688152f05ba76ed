package predict

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/fortuna/augur/internal/feature"
)

const (
	defaultTrees    = 100
	defaultMaxDepth = 10
	minLeafSize     = 2
)

// Forest is a random forest of CART trees: each tree fits a bootstrap sample
// with a random feature subset considered at every split, and the forest's
// probability is the mean of the trees' leaf probabilities.
type Forest struct {
	schema   feature.Schema
	trees    []*treeNode
	numTrees int
	maxDepth int
	rng      *rand.Rand
	trained  bool
}

type treeNode struct {
	// Leaf when left is nil.
	prob    float64
	featIdx int
	thresh  float64
	left    *treeNode
	right   *treeNode
}

// NewForest creates an untrained forest bound to a vector schema, seeded for
// reproducible fits.
func NewForest(schema feature.Schema, seed int64) *Forest {
	return &Forest{
		schema:   schema,
		numTrees: defaultTrees,
		maxDepth: defaultMaxDepth,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Schema returns the vector schema the model is bound to.
func (f *Forest) Schema() feature.Schema { return f.schema }

// Train fits the forest on labeled matchups.
func (f *Forest) Train(examples []Example) error {
	if err := checkTrainingSet(examples, f.schema); err != nil {
		return err
	}

	f.trees = make([]*treeNode, 0, f.numTrees)
	for i := 0; i < f.numTrees; i++ {
		sample := f.bootstrap(examples)
		f.trees = append(f.trees, f.grow(sample, 0))
	}
	f.trained = true
	return nil
}

// PredictProb returns the home team's win probability.
func (f *Forest) PredictProb(v feature.MatchupVector) (float64, error) {
	if !f.trained {
		return 0, errors.New("forest model not trained")
	}
	if err := checkVector(v, f.schema); err != nil {
		return 0, err
	}

	var total float64
	for _, tree := range f.trees {
		total += tree.predict(v.Values)
	}
	return clampProb(total / float64(len(f.trees))), nil
}

func (n *treeNode) predict(values []float64) float64 {
	for n.left != nil {
		if values[n.featIdx] <= n.thresh {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.prob
}

func (f *Forest) bootstrap(examples []Example) []Example {
	sample := make([]Example, len(examples))
	for i := range sample {
		sample[i] = examples[f.rng.Intn(len(examples))]
	}
	return sample
}

// grow recursively builds a tree with gini-impurity splits.
func (f *Forest) grow(examples []Example, depth int) *treeNode {
	wins := 0
	for _, ex := range examples {
		if ex.HomeWin {
			wins++
		}
	}
	prob := float64(wins) / float64(len(examples))

	if depth >= f.maxDepth || len(examples) < 2*minLeafSize || wins == 0 || wins == len(examples) {
		return &treeNode{prob: prob}
	}

	featIdx, thresh, ok := f.bestSplit(examples)
	if !ok {
		return &treeNode{prob: prob}
	}

	var left, right []Example
	for _, ex := range examples {
		if ex.Vector.Values[featIdx] <= thresh {
			left = append(left, ex)
		} else {
			right = append(right, ex)
		}
	}
	if len(left) < minLeafSize || len(right) < minLeafSize {
		return &treeNode{prob: prob}
	}

	return &treeNode{
		featIdx: featIdx,
		thresh:  thresh,
		left:    f.grow(left, depth+1),
		right:   f.grow(right, depth+1),
	}
}

// bestSplit searches a random sqrt-sized feature subset for the threshold
// minimizing weighted gini impurity.
func (f *Forest) bestSplit(examples []Example) (featIdx int, thresh float64, ok bool) {
	width := f.schema.Width()
	tryFeats := int(math.Ceil(math.Sqrt(float64(width))))

	perm := f.rng.Perm(width)[:tryFeats]

	bestGini := math.Inf(1)
	for _, fi := range perm {
		values := make([]float64, 0, len(examples))
		for _, ex := range examples {
			values = append(values, ex.Vector.Values[fi])
		}
		sort.Float64s(values)

		for i := 1; i < len(values); i++ {
			if values[i] == values[i-1] {
				continue
			}
			t := (values[i] + values[i-1]) / 2
			g := splitGini(examples, fi, t)
			if g < bestGini {
				bestGini = g
				featIdx = fi
				thresh = t
				ok = true
			}
		}
	}
	return featIdx, thresh, ok
}

func splitGini(examples []Example, featIdx int, thresh float64) float64 {
	var leftN, leftWins, rightN, rightWins float64
	for _, ex := range examples {
		win := 0.0
		if ex.HomeWin {
			win = 1.0
		}
		if ex.Vector.Values[featIdx] <= thresh {
			leftN++
			leftWins += win
		} else {
			rightN++
			rightWins += win
		}
	}

	total := leftN + rightN
	return leftN/total*gini(leftWins, leftN) + rightN/total*gini(rightWins, rightN)
}

func gini(wins, n float64) float64 {
	if n == 0 {
		return 0
	}
	p := wins / n
	return 2 * p * (1 - p)
}
