// Package forest implements a seeded random forest classifier: bootstrap sampled CART trees
// split on Gini impurity, predicting the class with the highest averaged leaf probability.
package forest

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	ErrFeatureCount = errors.New("unexpected number of features")
	ErrNonFinite    = errors.New("feature value is not finite")
	ErrNoData       = errors.New("no training rows")
)

type Params struct {
	Trees int
	// MaxFeatures considered per split, 0 means sqrt(features)
	MaxFeatures     int
	MinSamplesSplit int
	// MaxDepth 0 means unlimited
	MaxDepth int
	Seed     int64
}

func DefaultParams(seed int64) Params {
	return Params{
		Trees:           100,
		MinSamplesSplit: 2,
		Seed:            seed,
	}
}

type Forest struct {
	Classes  int    `json:"classes"`
	Features int    `json:"features"`
	Trees    []Tree `json:"trees"`
}

// Fit trains a forest on x with class labels y in [0, classes)
func Fit(x [][]float64, y []int, p Params) (*Forest, error) {
	if len(x) == 0 {
		return nil, ErrNoData
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("x has %d rows but y has %d", len(x), len(y))
	}
	if p.Trees <= 0 {
		return nil, fmt.Errorf("trees must be positive, got %d", p.Trees)
	}
	features := len(x[0])
	classes := 0
	for i, label := range y {
		if label < 0 {
			return nil, fmt.Errorf("row %d has negative class %d", i, label)
		}
		if len(x[i]) != features {
			return nil, fmt.Errorf("%w: row %d has %d, expected %d", ErrFeatureCount, i, len(x[i]), features)
		}
		if label+1 > classes {
			classes = label + 1
		}
	}

	mtry := p.MaxFeatures
	if mtry <= 0 || mtry > features {
		mtry = int(math.Max(1, math.Floor(math.Sqrt(float64(features)))))
	}
	minSplit := p.MinSamplesSplit
	if minSplit < 2 {
		minSplit = 2
	}

	rng := rand.New(rand.NewSource(p.Seed))
	f := &Forest{Classes: classes, Features: features, Trees: make([]Tree, p.Trees)}
	for t := range f.Trees {
		b := &builder{
			x:        x,
			y:        y,
			classes:  classes,
			mtry:     mtry,
			minSplit: minSplit,
			maxDepth: p.MaxDepth,
			rng:      rand.New(rand.NewSource(rng.Int63())),
		}
		f.Trees[t] = b.build(b.bootstrap(len(x)))
	}
	return f, nil
}

// PredictProba averages the leaf class distributions of every tree
func (f *Forest) PredictProba(row []float64) ([]float64, error) {
	if len(row) != f.Features {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrFeatureCount, len(row), f.Features)
	}
	for i, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: index %d", ErrNonFinite, i)
		}
	}
	if len(f.Trees) == 0 {
		return nil, errors.New("forest has no trees")
	}
	proba := make([]float64, f.Classes)
	for _, tree := range f.Trees {
		dist, err := tree.leaf(row)
		if err != nil {
			return nil, err
		}
		for c, p := range dist {
			proba[c] += p
		}
	}
	for c := range proba {
		proba[c] /= float64(len(f.Trees))
	}
	return proba, nil
}

// Predict returns the most probable class, the lowest class wins ties
func (f *Forest) Predict(row []float64) (int, error) {
	proba, err := f.PredictProba(row)
	if err != nil {
		return 0, err
	}
	best := 0
	for c, p := range proba {
		if p > proba[best] {
			best = c
		}
	}
	return best, nil
}

func (f *Forest) PredictBatch(x [][]float64) ([]int, error) {
	out := make([]int, len(x))
	for i, row := range x {
		class, err := f.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = class
	}
	return out, nil
}
