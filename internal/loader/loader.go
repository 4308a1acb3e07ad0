package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Meesho/BharatMLStack/price-range/internal/artifact"
	"github.com/Meesho/BharatMLStack/price-range/internal/objectstore"
	"github.com/Meesho/BharatMLStack/price-range/pkg/api"
	"github.com/Meesho/BharatMLStack/price-range/pkg/metric"
	"github.com/rs/zerolog/log"
)

// Predictor maps a feature vector in declared field order to a class index
type Predictor interface {
	Predict(features []float64) (int, error)
}

type Loader interface {
	Load(ctx context.Context, modelID string) (Predictor, error)
}

// StorageLoader fetches the artifact from the models bucket on every call
type StorageLoader struct {
	gateway objectstore.Gateway
}

func NewStorageLoader(gateway objectstore.Gateway) *StorageLoader {
	return &StorageLoader{gateway: gateway}
}

// Load fails with an internal server error for any fetch or decode problem
func (l *StorageLoader) Load(ctx context.Context, modelID string) (Predictor, error) {
	start := time.Now()
	model, err := l.load(ctx, modelID)
	metric.Timing(metric.ModelLoadLatency, time.Since(start), metric.BuildTag(
		metric.NewTag(metric.TagModelId, modelID),
		metric.StatusTag(err),
	))
	if err != nil {
		log.Error().Err(err).Msgf("Failed to load model %s", modelID)
		return nil, api.NewInternalServerError(err.Error())
	}
	return model, nil
}

func (l *StorageLoader) load(ctx context.Context, modelID string) (*artifact.Model, error) {
	key := artifact.ModelKey(modelID)
	data, err := l.gateway.Get(ctx, objectstore.BucketModels, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch model %s: %w", key, err)
	}
	model, err := artifact.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", key, err)
	}
	return model, nil
}

// MemoryLoader serves predictors registered up front, used for local runs and tests
type MemoryLoader struct {
	mu     sync.RWMutex
	models map[string]Predictor
}

func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{models: make(map[string]Predictor)}
}

func (l *MemoryLoader) Register(modelID string, p Predictor) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.models[modelID] = p
}

func (l *MemoryLoader) Load(_ context.Context, modelID string) (Predictor, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.models[modelID]
	if !ok {
		return nil, api.NewInternalServerError(fmt.Sprintf("model %s is not registered", modelID))
	}
	return p, nil
}

// PredictorFunc adapts a plain function to Predictor
type PredictorFunc func(features []float64) (int, error)

func (f PredictorFunc) Predict(features []float64) (int, error) {
	return f(features)
}
