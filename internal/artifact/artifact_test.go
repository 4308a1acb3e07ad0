package artifact

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Meesho/BharatMLStack/price-range/internal/dataset"
	"github.com/Meesho/BharatMLStack/price-range/internal/forest"
	"github.com/Meesho/BharatMLStack/price-range/pkg/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedModel(t *testing.T) *Model {
	t.Helper()
	x := [][]float64{
		{500, 1}, {600, 2}, {700, 1}, {800, 2},
		{2500, 1}, {2600, 2}, {2700, 1}, {2800, 2},
	}
	y := []int{0, 0, 0, 0, 1, 1, 1, 1}
	scaler, err := dataset.FitScaler(x)
	require.NoError(t, err)
	scaled, err := scaler.Transform(x)
	require.NoError(t, err)
	f, err := forest.Fit(scaled, y, forest.Params{Trees: 25, Seed: 7})
	require.NoError(t, err)
	return &Model{
		Version:      FormatVersion,
		ModelID:      "20230914101500",
		FeatureNames: []string{"battery_power", "blue"},
		Scaler:       scaler,
		Forest:       f,
	}
}

func TestKeys(t *testing.T) {
	id := NewModelID(time.Date(2023, 9, 14, 10, 15, 0, 0, time.Local))
	assert.Equal(t, "20230914101500", id)
	assert.Equal(t, "20230914101500.model", ModelKey(id))
	assert.Equal(t, "metrics_20230914101500.json", MetricsKey(id))
}

func TestModelIDFromKey(t *testing.T) {
	tests := []struct {
		key  string
		id   string
		isOk bool
	}{
		{key: "20230914101500.model", id: "20230914101500", isOk: true},
		{key: "default_model_id.model", id: "default_model_id", isOk: true},
		{key: ".model", isOk: false},
		{key: "notes.txt", isOk: false},
		{key: "old/20230914101500.model", isOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			id, ok := ModelIDFromKey(tt.key)
			assert.Equal(t, tt.isOk, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestEncodeDecodePredictsIdentically(t *testing.T) {
	m := trainedModel(t)
	data, err := Encode(m)
	require.NoError(t, err)
	assert.Equal(t, compression.TypeZSTD, compression.Detect(data))

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, m.ModelID, decoded.ModelID)
	assert.Equal(t, m.FeatureNames, decoded.FeatureNames)

	for _, row := range [][]float64{{450, 1}, {1500, 2}, {3000, 1}, {2200, 0}} {
		want, err := m.Predict(row)
		require.NoError(t, err)
		got, err := decoded.Predict(row)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPredictUsesScaler(t *testing.T) {
	m := trainedModel(t)
	low, err := m.Predict([]float64{550, 1})
	require.NoError(t, err)
	high, err := m.Predict([]float64{2750, 2})
	require.NoError(t, err)
	assert.Equal(t, 0, low)
	assert.Equal(t, 1, high)
}

func TestPredictFeatureCount(t *testing.T) {
	m := trainedModel(t)
	_, err := m.Predict([]float64{1})
	assert.ErrorIs(t, err, forest.ErrFeatureCount)
}

func TestDecodePlainJSON(t *testing.T) {
	m := trainedModel(t)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, m.ModelID, decoded.ModelID)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	tests := map[string][]byte{
		"empty":       nil,
		"not json":    []byte("definitely not a model"),
		"no forest":   []byte(`{"version":1,"scaler":{"mean":[0],"std":[1]}}`),
		"new version": []byte(`{"version":99}`),
		"bad zstd":    {0x28, 0xb5, 0x2f, 0xfd, 0x00, 0x01},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(data)
			assert.ErrorIs(t, err, ErrInvalidModel)
		})
	}
}

func TestEncodeRejectsMismatchedScaler(t *testing.T) {
	m := trainedModel(t)
	m.Scaler = &dataset.Scaler{Mean: []float64{0}, Std: []float64{1}}
	_, err := Encode(m)
	assert.ErrorIs(t, err, ErrInvalidModel)
}

func TestMetricsDocument(t *testing.T) {
	data, err := EncodeMetrics(Metrics{Accuracy: 0.91, ModelID: "20230914101500", TrainRows: 80, TestRows: 20})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, 0.91, raw["accuracy"])

	m, err := DecodeMetrics([]byte(`{"accuracy": 0.5}`))
	require.NoError(t, err)
	assert.Equal(t, 0.5, m.Accuracy)

	_, err = DecodeMetrics([]byte("{"))
	assert.Error(t, err)
}
