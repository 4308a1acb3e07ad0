package loader

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context, modelID string) (Predictor, error) {
	args := m.Called(ctx, modelID)
	p, _ := args.Get(0).(Predictor)
	return p, args.Error(1)
}

type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(features []float64) (int, error) {
	args := m.Called(features)
	return args.Int(0), args.Error(1)
}
