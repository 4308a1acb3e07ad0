package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSClient stores buckets in Google Cloud Storage
type GCSClient struct {
	client    *storage.Client
	projectID string
}

// NewGCSClient creates a GCS client. Application Default Credentials are used unless a
// credentials file is given.
func NewGCSClient(ctx context.Context, projectID, credentialsFile string) (*GCSClient, error) {
	opts := make([]option.ClientOption, 0, 1)
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSClient{
		client:    client,
		projectID: projectID,
	}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

func (g *GCSClient) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	rc, err := g.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s/%s: %v", ErrObjectNotFound, bucket, key, err)
		}
		if errors.Is(err, storage.ErrBucketNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", ErrBucketNotFound, bucket, err)
		}
		return nil, fmt.Errorf("failed to create object reader %s/%s: %w", bucket, key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

func (g *GCSClient) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	w := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object %s/%s: %w", bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to upload object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (g *GCSClient) List(ctx context.Context, bucket string) ([]string, error) {
	keys := make([]string, 0)
	it := g.client.Bucket(bucket).Objects(ctx, &storage.Query{})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			if errors.Is(err, storage.ErrBucketNotExist) {
				return nil, fmt.Errorf("%w: %s: %v", ErrBucketNotFound, bucket, err)
			}
			return nil, fmt.Errorf("error listing objects in %s: %w", bucket, err)
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		keys = append(keys, attrs.Name)
	}
	sort.Strings(keys)
	return keys, nil
}

func (g *GCSClient) EnsureBucket(ctx context.Context, bucket string) error {
	handle := g.client.Bucket(bucket)
	_, err := handle.Attrs(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("failed to access bucket %s: %w", bucket, err)
	}
	if g.projectID == "" {
		return fmt.Errorf("cannot create bucket %s: GCS project id is not set", bucket)
	}
	if err := handle.Create(ctx, g.projectID, nil); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	log.Info().Msgf("Bucket '%s' created successfully", bucket)
	return nil
}
