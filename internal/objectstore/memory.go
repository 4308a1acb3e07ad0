package objectstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps buckets in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	objects, ok := m.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	data, ok := objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, key)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryStore) Put(_ context.Context, bucket, key string, data []byte, _ string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	objects, ok := m.buckets[bucket]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	objects[key] = stored
	return nil
}

func (m *MemoryStore) List(_ context.Context, bucket string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	objects, ok := m.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	keys := make([]string, 0, len(objects))
	for key := range objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryStore) EnsureBucket(_ context.Context, bucket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucket]; !ok {
		m.buckets[bucket] = make(map[string][]byte)
	}
	return nil
}
