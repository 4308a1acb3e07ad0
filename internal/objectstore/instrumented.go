package objectstore

import (
	"context"
	"time"

	"github.com/Meesho/BharatMLStack/price-range/pkg/metric"
	"github.com/rs/zerolog/log"
)

const (
	opGet          = "get"
	opPut          = "put"
	opList         = "list"
	opEnsureBucket = "ensure_bucket"
)

type instrumented struct {
	next Gateway
}

// WithMetrics decorates a Gateway with per operation call metrics and debug logs
func WithMetrics(next Gateway) Gateway {
	return &instrumented{next: next}
}

func (i *instrumented) record(op, bucket string, start time.Time, err error) {
	tags := metric.BuildTag(
		metric.NewTag(metric.TagOperation, op),
		metric.NewTag(metric.TagBucket, bucket),
		metric.StatusTag(err),
	)
	metric.Incr(metric.ObjectStoreCallCount, tags)
	metric.Timing(metric.ObjectStoreCallLatency, time.Since(start), tags)
	if err != nil {
		log.Debug().Err(err).Msgf("object store %s on bucket %s failed", op, bucket)
	}
}

func (i *instrumented) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	start := time.Now()
	data, err := i.next.Get(ctx, bucket, key)
	i.record(opGet, bucket, start, err)
	return data, err
}

func (i *instrumented) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	start := time.Now()
	err := i.next.Put(ctx, bucket, key, data, contentType)
	i.record(opPut, bucket, start, err)
	return err
}

func (i *instrumented) List(ctx context.Context, bucket string) ([]string, error) {
	start := time.Now()
	keys, err := i.next.List(ctx, bucket)
	i.record(opList, bucket, start, err)
	return keys, err
}

func (i *instrumented) EnsureBucket(ctx context.Context, bucket string) error {
	start := time.Now()
	err := i.next.EnsureBucket(ctx, bucket)
	i.record(opEnsureBucket, bucket, start, err)
	return err
}
