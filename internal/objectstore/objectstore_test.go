package objectstore

import (
	"context"
	"errors"
	"testing"

	"github.com/Meesho/BharatMLStack/price-range/internal/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("operations on a missing bucket fail", func(t *testing.T) {
		_, err := store.Get(ctx, BucketModels, "model")
		assert.ErrorIs(t, err, ErrBucketNotFound)
		assert.ErrorIs(t, store.Put(ctx, BucketModels, "model", []byte("x"), "application/octet-stream"), ErrBucketNotFound)
		_, err = store.List(ctx, BucketModels)
		assert.ErrorIs(t, err, ErrBucketNotFound)
	})

	t.Run("put get and list", func(t *testing.T) {
		require.NoError(t, store.EnsureBucket(ctx, BucketRawData))
		require.NoError(t, store.EnsureBucket(ctx, BucketRawData))
		require.NoError(t, store.Put(ctx, BucketRawData, "2023-05-01/train_chunk_1.csv", []byte("b"), "text/csv"))
		require.NoError(t, store.Put(ctx, BucketRawData, "2023-01-01/train_chunk_0.csv", []byte("a"), "text/csv"))

		data, err := store.Get(ctx, BucketRawData, "2023-01-01/train_chunk_0.csv")
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), data)

		keys, err := store.List(ctx, BucketRawData)
		require.NoError(t, err)
		assert.Equal(t, []string{"2023-01-01/train_chunk_0.csv", "2023-05-01/train_chunk_1.csv"}, keys)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, BucketRawData, "nope")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("stored bytes are isolated from caller", func(t *testing.T) {
		payload := []byte("abc")
		require.NoError(t, store.Put(ctx, BucketRawData, "k", payload, "text/plain"))
		payload[0] = 'z'
		data, err := store.Get(ctx, BucketRawData, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), data)
	})
}

func TestWithMetricsPassesThrough(t *testing.T) {
	ctx := context.Background()
	backend := &MockGateway{}
	backendErr := errors.New("connection refused")
	backend.On("Get", mock.Anything, BucketModels, "m.model").Return([]byte("bytes"), nil)
	backend.On("List", mock.Anything, BucketRawData).Return(nil, backendErr)
	backend.On("Put", mock.Anything, BucketModels, "k", []byte("v"), "text/plain").Return(nil)
	backend.On("EnsureBucket", mock.Anything, BucketModels).Return(nil)

	gateway := WithMetrics(backend)

	data, err := gateway.Get(ctx, BucketModels, "m.model")
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)

	_, err = gateway.List(ctx, BucketRawData)
	assert.Same(t, backendErr, err)

	assert.NoError(t, gateway.Put(ctx, BucketModels, "k", []byte("v"), "text/plain"))
	assert.NoError(t, gateway.EnsureBucket(ctx, BucketModels))
	backend.AssertExpectations(t)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000", endpointURL("localhost:9000", false))
	assert.Equal(t, "https://minio.internal", endpointURL("minio.internal", true))
	assert.Equal(t, "http://minio:9000", endpointURL("http://minio:9000", true))
}

func TestNewS3ClientValidation(t *testing.T) {
	_, err := NewS3Client(context.Background(), S3Config{SecretAccessKey: "s", Region: "us-east-1"})
	assert.EqualError(t, err, "access key ID cannot be empty")
	_, err = NewS3Client(context.Background(), S3Config{AccessKeyID: "a", Region: "us-east-1"})
	assert.EqualError(t, err, "secret access key cannot be empty")
	_, err = NewS3Client(context.Background(), S3Config{AccessKeyID: "a", SecretAccessKey: "s"})
	assert.EqualError(t, err, "region cannot be empty")
}

func TestNewGateway(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		gateway, err := NewGateway(context.Background(), configs.Configs{ObjectStoreType: configs.ObjectStoreMemory})
		require.NoError(t, err)
		require.NoError(t, gateway.EnsureBucket(context.Background(), BucketModels))
	})

	t.Run("minio", func(t *testing.T) {
		gateway, err := NewGateway(context.Background(), configs.Configs{
			ObjectStoreType: configs.ObjectStoreS3,
			MinioEndpoint:   "localhost:9000",
			MinioAccessKey:  "minio",
			MinioSecretKey:  "minio123",
			MinioRegion:     "us-east-1",
		})
		require.NoError(t, err)
		assert.NotNil(t, gateway)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewGateway(context.Background(), configs.Configs{ObjectStoreType: "ftp"})
		assert.EqualError(t, err, "unsupported object store type: ftp")
	})
}
