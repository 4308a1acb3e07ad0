package forest

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separable builds two features where the class is decided by the first one only
func separable(n int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]int, n)
	for i := range x {
		class := i % 4
		x[i] = []float64{float64(class)*10 + rng.Float64(), rng.Float64() * 100}
		y[i] = class
	}
	return x, y
}

func TestFitPredictsSeparableData(t *testing.T) {
	x, y := separable(200, 1)
	f, err := Fit(x, y, Params{Trees: 40, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, 4, f.Classes)
	assert.Equal(t, 2, f.Features)
	assert.Len(t, f.Trees, 40)

	testX, testY := separable(80, 2)
	pred, err := f.PredictBatch(testX)
	require.NoError(t, err)

	correct := 0
	for i := range pred {
		if pred[i] == testY[i] {
			correct++
		}
	}
	assert.GreaterOrEqual(t, float64(correct)/float64(len(pred)), 0.9)
}

func TestFitIsDeterministicForSeed(t *testing.T) {
	x, y := separable(120, 3)
	a, err := Fit(x, y, Params{Trees: 10, Seed: 7})
	require.NoError(t, err)
	b, err := Fit(x, y, Params{Trees: 10, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFitErrors(t *testing.T) {
	tests := []struct {
		name string
		x    [][]float64
		y    []int
		p    Params
	}{
		{name: "no rows", x: nil, y: nil, p: DefaultParams(7)},
		{name: "label count mismatch", x: [][]float64{{1}, {2}}, y: []int{0}, p: DefaultParams(7)},
		{name: "no trees", x: [][]float64{{1}}, y: []int{0}, p: Params{Seed: 7}},
		{name: "ragged rows", x: [][]float64{{1, 2}, {3}}, y: []int{0, 1}, p: DefaultParams(7)},
		{name: "negative label", x: [][]float64{{1}, {2}}, y: []int{0, -1}, p: DefaultParams(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.x, tt.y, tt.p)
			assert.Error(t, err)
		})
	}
}

func TestPredictRejectsBadRows(t *testing.T) {
	x, y := separable(40, 4)
	f, err := Fit(x, y, Params{Trees: 3, Seed: 7})
	require.NoError(t, err)

	_, err = f.Predict([]float64{1})
	assert.ErrorIs(t, err, ErrFeatureCount)

	_, err = f.Predict([]float64{math.NaN(), 1})
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = f.Predict([]float64{1, math.Inf(1)})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestPureDataYieldsSingleLeaf(t *testing.T) {
	f, err := Fit([][]float64{{1}, {2}, {3}}, []int{2, 2, 2}, Params{Trees: 2, Seed: 7})
	require.NoError(t, err)
	for _, tree := range f.Trees {
		require.Len(t, tree.Nodes, 1)
	}
	class, err := f.Predict([]float64{100})
	require.NoError(t, err)
	assert.Equal(t, 2, class)
}

func TestMaxDepthBoundsTrees(t *testing.T) {
	x, y := separable(100, 5)
	f, err := Fit(x, y, Params{Trees: 5, MaxDepth: 1, Seed: 7})
	require.NoError(t, err)
	for _, tree := range f.Trees {
		// root and two leaves at most
		assert.LessOrEqual(t, len(tree.Nodes), 3)
	}
}

func TestJSONRoundTripPredictsIdentically(t *testing.T) {
	x, y := separable(150, 6)
	f, err := Fit(x, y, Params{Trees: 15, Seed: 7})
	require.NoError(t, err)

	data, err := json.Marshal(f)
	require.NoError(t, err)
	var decoded Forest
	require.NoError(t, json.Unmarshal(data, &decoded))

	probe, _ := separable(50, 8)
	want, err := f.PredictBatch(probe)
	require.NoError(t, err)
	got, err := decoded.PredictBatch(probe)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLeafRejectsMalformedTree(t *testing.T) {
	_, err := Tree{}.leaf([]float64{1})
	assert.Error(t, err)

	loop := Tree{Nodes: []Node{{Feature: 0, Threshold: 0, Left: 0, Right: 0}}}
	_, err = loop.leaf([]float64{1})
	assert.Error(t, err)

	outOfRange := Tree{Nodes: []Node{{Feature: 3, Left: 1, Right: 1}, {Left: leafNode, Right: leafNode, Dist: []float64{1}}}}
	_, err = outOfRange.leaf([]float64{1})
	assert.Error(t, err)
}
