package objectstore

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	args := m.Called(ctx, bucket, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockGateway) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	args := m.Called(ctx, bucket, key, data, contentType)
	return args.Error(0)
}

func (m *MockGateway) List(ctx context.Context, bucket string) ([]string, error) {
	args := m.Called(ctx, bucket)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

func (m *MockGateway) EnsureBucket(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}
