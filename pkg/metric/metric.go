package metric

import (
	"sync"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/Meesho/BharatMLStack/price-range/internal/configs"
	"github.com/rs/zerolog/log"
)

const (
	ApiRequestCount           = "api_request_count"
	ApiRequestLatency         = "api_request_latency"
	ExternalApiRequestCount   = "external_api_request_count"
	ExternalApiRequestLatency = "external_api_request_latency"
	ObjectStoreCallCount      = "object_store_call_count"
	ObjectStoreCallLatency    = "object_store_call_latency"
	PredictionCount           = "prediction_count"
	ModelLoadLatency          = "model_load_latency"
	IngestionChunkCount       = "ingestion_chunk_count"
	TrainingAccuracy          = "training_accuracy"
	TrainingRows              = "training_rows"
)

var (
	// it is safe to use one client from multiple goroutines simultaneously
	statsDClient statsd.ClientInterface = &statsd.NoOpClient{}
	// by default full sampling
	samplingRate = 1.0
	appName      = ""
	initialized  = false
	once         sync.Once
)

// Init initializes the metrics client
func Init(config configs.Configs) {
	if initialized {
		log.Debug().Msgf("Metrics already initialized!")
		return
	}
	once.Do(func() {
		samplingRate = config.AppMetricSamplingRate
		appName = config.AppName
		globalTags := getGlobalTags(config)

		client, err := statsd.New(
			config.TelegrafAddress,
			statsd.WithTags(globalTags),
		)
		if err != nil {
			log.Error().Err(err).Msg("StatsD client initialization failed, metrics disabled")
			return
		}
		statsDClient = client
		log.Info().Msgf("Metrics client initialized with telegraf address - %s, global tags - %v, and "+
			"sampling rate - %f", config.TelegrafAddress, globalTags, samplingRate)
		initialized = true
	})
}

func getGlobalTags(config configs.Configs) []string {
	env := config.AppEnv
	if len(env) == 0 {
		log.Warn().Msg("APP_ENV is not set")
	}
	service := config.AppName
	if len(service) == 0 {
		log.Warn().Msg("APP_NAME is not set")
	}
	return []string{
		TagAsString(TagEnv, env),
		TagAsString(TagService, service),
	}
}

// Timing sends timing information
func Timing(name string, value time.Duration, tags []string) {
	tags = append(tags, TagAsString(TagService, appName))
	err := statsDClient.Timing(name, value, tags, samplingRate)
	if err != nil {
		log.Warn().AnErr("Error occurred while doing statsd timing", err)
	}
}

// Count Increases metric counter by value
func Count(name string, value int64, tags []string) {
	tags = append(tags, TagAsString(TagService, appName))
	err := statsDClient.Count(name, value, tags, samplingRate)
	if err != nil {
		log.Warn().AnErr("Error occurred while doing statsd count", err)
	}
}

// Incr Increases metric counter by 1
func Incr(name string, tags []string) {
	Count(name, 1, tags)
}

func Gauge(name string, value float64, tags []string) {
	tags = append(tags, TagAsString(TagService, appName))
	err := statsDClient.Gauge(name, value, tags, samplingRate)
	if err != nil {
		log.Warn().AnErr("Error occurred while doing statsd gauge", err)
	}
}
