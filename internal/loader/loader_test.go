package loader

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Meesho/BharatMLStack/price-range/internal/artifact"
	"github.com/Meesho/BharatMLStack/price-range/internal/dataset"
	"github.com/Meesho/BharatMLStack/price-range/internal/forest"
	"github.com/Meesho/BharatMLStack/price-range/internal/objectstore"
	"github.com/Meesho/BharatMLStack/price-range/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedModel(t *testing.T, store objectstore.Gateway, modelID string) *artifact.Model {
	t.Helper()
	x := [][]float64{{0}, {1}, {2}, {3}, {10}, {11}, {12}, {13}}
	y := []int{0, 0, 0, 0, 3, 3, 3, 3}
	scaler, err := dataset.FitScaler(x)
	require.NoError(t, err)
	scaled, err := scaler.Transform(x)
	require.NoError(t, err)
	f, err := forest.Fit(scaled, y, forest.Params{Trees: 10, Seed: 7})
	require.NoError(t, err)

	m := &artifact.Model{Version: artifact.FormatVersion, ModelID: modelID, Scaler: scaler, Forest: f}
	data, err := artifact.Encode(m)
	require.NoError(t, err)
	require.NoError(t, store.EnsureBucket(context.Background(), objectstore.BucketModels))
	require.NoError(t, store.Put(context.Background(), objectstore.BucketModels, artifact.ModelKey(modelID), data, artifact.ModelContentType))
	return m
}

func TestStorageLoaderLoadsStoredModel(t *testing.T) {
	store := objectstore.NewMemoryStore()
	want := storedModel(t, store, "20230914101500")

	p, err := NewStorageLoader(store).Load(context.Background(), "20230914101500")
	require.NoError(t, err)

	for _, row := range [][]float64{{1.5}, {12.5}, {6}} {
		expected, err := want.Predict(row)
		require.NoError(t, err)
		got, err := p.Predict(row)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}
}

func TestStorageLoaderMissingModel(t *testing.T) {
	store := objectstore.NewMemoryStore()
	require.NoError(t, store.EnsureBucket(context.Background(), objectstore.BucketModels))

	_, err := NewStorageLoader(store).Load(context.Background(), "absent")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, api.StatusCode(err))
	assert.Contains(t, err.Error(), "absent.model")
}

func TestStorageLoaderCorruptModel(t *testing.T) {
	gateway := &objectstore.MockGateway{}
	gateway.On("Get", mock.Anything, objectstore.BucketModels, "broken.model").Return([]byte("garbage"), nil)

	_, err := NewStorageLoader(gateway).Load(context.Background(), "broken")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, api.StatusCode(err))
	gateway.AssertExpectations(t)
}

func TestStorageLoaderBackendError(t *testing.T) {
	gateway := &objectstore.MockGateway{}
	gateway.On("Get", mock.Anything, objectstore.BucketModels, "m1.model").Return(nil, errors.New("connection refused"))

	_, err := NewStorageLoader(gateway).Load(context.Background(), "m1")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, api.StatusCode(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMemoryLoader(t *testing.T) {
	l := NewMemoryLoader()
	l.Register("fixed", PredictorFunc(func([]float64) (int, error) { return 2, nil }))

	p, err := l.Load(context.Background(), "fixed")
	require.NoError(t, err)
	class, err := p.Predict(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, class)

	_, err = l.Load(context.Background(), "other")
	assert.Equal(t, http.StatusInternalServerError, api.StatusCode(err))
}
