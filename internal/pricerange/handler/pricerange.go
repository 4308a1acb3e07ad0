package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/Meesho/BharatMLStack/price-range/internal/artifact"
	"github.com/Meesho/BharatMLStack/price-range/internal/loader"
	"github.com/Meesho/BharatMLStack/price-range/internal/objectstore"
	"github.com/Meesho/BharatMLStack/price-range/pkg/api"
	"github.com/Meesho/BharatMLStack/price-range/pkg/metric"
	"github.com/rs/zerolog/log"
)

type PriceRange interface {
	Predict(ctx context.Context, request PredictRequest) (*PredictResponse, error)
	ListModels(ctx context.Context) (*ModelsResponse, error)
	GetMetrics(ctx context.Context, modelID string) (*MetricsResponse, error)
}

type V1 struct {
	loader  loader.Loader
	gateway objectstore.Gateway
}

func NewPriceRangeHandler(modelLoader loader.Loader, gateway objectstore.Gateway) PriceRange {
	return &V1{loader: modelLoader, gateway: gateway}
}

// Predict loads the requested model and scores the record once
func (h *V1) Predict(ctx context.Context, request PredictRequest) (*PredictResponse, error) {
	if request.ClockSpeed <= 0 {
		return nil, api.NewBadRequestError("clock_speed must be a positive value")
	}
	predictor, err := h.loader.Load(ctx, request.ModelID)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		return nil, api.NewInternalServerError(err.Error())
	}

	class, err := predictor.Predict(request.Vector())
	if err != nil {
		log.Warn().Err(err).Msgf("Prediction failed for model %s", request.ModelID)
		return nil, api.NewBadRequestError(err.Error())
	}
	label := Label(class)
	metric.Incr(metric.PredictionCount, metric.BuildTag(
		metric.NewTag(metric.TagModelId, request.ModelID),
		metric.NewTag(metric.TagPriceRange, label),
	))
	return &PredictResponse{PriceRange: label, ModelUsed: request.ModelID}, nil
}

func (h *V1) ListModels(ctx context.Context) (*ModelsResponse, error) {
	keys, err := h.gateway.List(ctx, objectstore.BucketModels)
	if err != nil {
		if errors.Is(err, objectstore.ErrBucketNotFound) {
			return &ModelsResponse{Models: []string{}}, nil
		}
		return nil, api.NewInternalServerError(err.Error())
	}
	models := make([]string, 0, len(keys))
	for _, key := range keys {
		if id, ok := artifact.ModelIDFromKey(key); ok {
			models = append(models, id)
		}
	}
	return &ModelsResponse{Models: models}, nil
}

func (h *V1) GetMetrics(ctx context.Context, modelID string) (*MetricsResponse, error) {
	data, err := h.gateway.Get(ctx, objectstore.BucketModelMetrics, artifact.MetricsKey(modelID))
	if err != nil {
		if errors.Is(err, objectstore.ErrObjectNotFound) || errors.Is(err, objectstore.ErrBucketNotFound) {
			return nil, api.NewNotFoundError(fmt.Sprintf("no metrics for model %s", modelID))
		}
		return nil, api.NewInternalServerError(err.Error())
	}
	metrics, err := artifact.DecodeMetrics(data)
	if err != nil {
		return nil, api.NewInternalServerError(err.Error())
	}
	return &MetricsResponse{ModelID: modelID, Metrics: metrics}, nil
}
