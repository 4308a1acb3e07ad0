package dataset

import (
	"fmt"
	"math"
	"math/rand"
)

// Scaler standardizes features to zero mean and unit variance
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler computes per column mean and population standard deviation.
// Constant columns get a std of 1 so they transform to 0.
func FitScaler(x [][]float64) (*Scaler, error) {
	if len(x) == 0 {
		return nil, ErrEmptyTable
	}
	width := len(x[0])
	s := &Scaler{Mean: make([]float64, width), Std: make([]float64, width)}
	n := float64(len(x))
	for _, row := range x {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= n
	}
	for _, row := range x {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return s, nil
}

// TransformRow returns a standardized copy of row
func (s *Scaler) TransformRow(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(row))
	}
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out, nil
}

func (s *Scaler) Transform(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled, err := s.TransformRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}

// Split is a train/test partition of a feature matrix and its labels
type Split struct {
	XTrain [][]float64
	XTest  [][]float64
	YTrain []int
	YTest  []int
}

// TrainTestSplit shuffles rows with the seed and holds out ceil(n*testRatio) of them
func TrainTestSplit(x [][]float64, y []int, testRatio float64, seed int64) (Split, error) {
	if len(x) != len(y) {
		return Split{}, fmt.Errorf("x has %d rows but y has %d", len(x), len(y))
	}
	if testRatio <= 0 || testRatio >= 1 {
		return Split{}, fmt.Errorf("test ratio must be in (0, 1), got %v", testRatio)
	}
	n := len(x)
	nTest := int(math.Ceil(float64(n) * testRatio))
	if nTest == 0 || nTest >= n {
		return Split{}, fmt.Errorf("cannot split %d rows with test ratio %v", n, testRatio)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	split := Split{
		XTest:  make([][]float64, 0, nTest),
		YTest:  make([]int, 0, nTest),
		XTrain: make([][]float64, 0, n-nTest),
		YTrain: make([]int, 0, n-nTest),
	}
	for k, i := range perm {
		if k < nTest {
			split.XTest = append(split.XTest, x[i])
			split.YTest = append(split.YTest, y[i])
			continue
		}
		split.XTrain = append(split.XTrain, x[i])
		split.YTrain = append(split.YTrain, y[i])
	}
	return split, nil
}

// Accuracy is the fraction of predictions equal to the truth
func Accuracy(yTrue, yPred []int) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("got %d predictions for %d labels", len(yPred), len(yTrue))
	}
	if len(yTrue) == 0 {
		return 0, ErrEmptyTable
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}
