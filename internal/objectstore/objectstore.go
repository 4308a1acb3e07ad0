package objectstore

import (
	"context"
	"errors"
)

// Buckets used by the price range registry
const (
	BucketRawData      = "rawdata"
	BucketModels       = "models"
	BucketModelMetrics = "model-metrics"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrBucketNotFound = errors.New("bucket not found")
)

// Gateway is a thin accessor over a flat bucket/key blob store. Backend errors are returned
// wrapped and are never retried.
type Gateway interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	// List returns every key in the bucket, recursively, in lexical order
	List(ctx context.Context, bucket string) ([]string, error)
	EnsureBucket(ctx context.Context, bucket string) error
}
