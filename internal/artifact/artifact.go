// Package artifact defines how trained models and their metrics are named and serialized
// in the object store.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Meesho/BharatMLStack/price-range/internal/dataset"
	"github.com/Meesho/BharatMLStack/price-range/internal/forest"
	"github.com/Meesho/BharatMLStack/price-range/pkg/compression"
)

const (
	// FormatVersion is bumped whenever the envelope layout changes
	FormatVersion = 1

	ModelIDLayout  = "20060102150405"
	DefaultModelID = "default_model_id"

	ModelContentType   = "application/octet-stream"
	MetricsContentType = "application/json"

	modelSuffix   = ".model"
	metricsPrefix = "metrics_"
	metricsSuffix = ".json"
)

var ErrInvalidModel = errors.New("invalid model artifact")

// NewModelID formats t with second granularity, two runs within the same second collide
func NewModelID(t time.Time) string {
	return t.Format(ModelIDLayout)
}

// ModelKey is the object key of a model inside the models bucket
func ModelKey(modelID string) string {
	return modelID + modelSuffix
}

// MetricsKey is the object key of a metrics document inside the model-metrics bucket
func MetricsKey(modelID string) string {
	return metricsPrefix + modelID + metricsSuffix
}

// ModelIDFromKey reverses ModelKey, ok is false for keys that are not model artifacts
func ModelIDFromKey(key string) (string, bool) {
	if !strings.HasSuffix(key, modelSuffix) || strings.Contains(key, "/") {
		return "", false
	}
	id := strings.TrimSuffix(key, modelSuffix)
	return id, id != ""
}

// Model bundles everything needed to turn a raw feature vector into a class
type Model struct {
	Version      int             `json:"version"`
	ModelID      string          `json:"model_id"`
	FeatureNames []string        `json:"feature_names"`
	Scaler       *dataset.Scaler `json:"scaler"`
	Forest       *forest.Forest  `json:"forest"`
}

func (m *Model) Validate() error {
	if m.Forest == nil {
		return fmt.Errorf("%w: missing forest", ErrInvalidModel)
	}
	if m.Scaler == nil {
		return fmt.Errorf("%w: missing scaler", ErrInvalidModel)
	}
	if len(m.Scaler.Mean) != m.Forest.Features || len(m.Scaler.Std) != m.Forest.Features {
		return fmt.Errorf("%w: scaler has %d features, forest expects %d", ErrInvalidModel,
			len(m.Scaler.Mean), m.Forest.Features)
	}
	if len(m.FeatureNames) != 0 && len(m.FeatureNames) != m.Forest.Features {
		return fmt.Errorf("%w: %d feature names for %d features", ErrInvalidModel,
			len(m.FeatureNames), m.Forest.Features)
	}
	return nil
}

// Predict standardizes a raw feature vector and returns the predicted class
func (m *Model) Predict(features []float64) (int, error) {
	if len(features) != m.Forest.Features {
		return 0, fmt.Errorf("%w: got %d, expected %d", forest.ErrFeatureCount, len(features), m.Forest.Features)
	}
	scaled, err := m.Scaler.TransformRow(features)
	if err != nil {
		return 0, err
	}
	return m.Forest.Predict(scaled)
}

// Encode serializes the model as zstd compressed JSON
func Encode(m *Model) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model %s: %w", m.ModelID, err)
	}
	return compression.Encode(compression.TypeZSTD, data)
}

// Decode accepts both compressed and plain JSON artifacts
func Decode(data []byte) (*Model, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty artifact", ErrInvalidModel)
	}
	raw, err := compression.Decode(compression.Detect(data), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	var m Model
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if m.Version > FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidModel, m.Version)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Metrics is the evaluation document stored next to every model
type Metrics struct {
	Accuracy  float64   `json:"accuracy"`
	ModelID   string    `json:"model_id,omitempty"`
	TrainRows int       `json:"train_rows,omitempty"`
	TestRows  int       `json:"test_rows,omitempty"`
	TrainedAt time.Time `json:"trained_at,omitempty"`
}

func EncodeMetrics(m Metrics) ([]byte, error) {
	return json.Marshal(m)
}

func DecodeMetrics(data []byte) (Metrics, error) {
	var m Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return Metrics{}, fmt.Errorf("invalid metrics document: %w", err)
	}
	return m, nil
}
