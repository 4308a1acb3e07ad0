package objectstore

import (
	"context"
	"fmt"

	"github.com/Meesho/BharatMLStack/price-range/internal/configs"
	"github.com/rs/zerolog/log"
)

// NewGateway builds the backend selected by OBJECT_STORE_TYPE
func NewGateway(ctx context.Context, cfg configs.Configs) (Gateway, error) {
	var (
		gateway Gateway
		err     error
	)
	switch cfg.ObjectStoreType {
	case configs.ObjectStoreS3, "":
		gateway, err = NewS3Client(ctx, S3Config{
			AccessKeyID:     cfg.MinioAccessKey,
			SecretAccessKey: cfg.MinioSecretKey,
			Region:          cfg.MinioRegion,
			Endpoint:        cfg.MinioEndpoint,
			Secure:          cfg.MinioSecure,
		})
	case configs.ObjectStoreGCS:
		gateway, err = NewGCSClient(ctx, cfg.GcsProjectID, cfg.GcsCredentialsFile)
	case configs.ObjectStoreMemory:
		log.Warn().Msg("Using in-memory object store, data is lost on exit")
		gateway = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported object store type: %s", cfg.ObjectStoreType)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Msgf("Object store gateway initialized with type %s", cfg.ObjectStoreType)
	return WithMetrics(gateway), nil
}
