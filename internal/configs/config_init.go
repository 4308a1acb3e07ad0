package configs

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/viper"
)

const (
	EnvFile        = "ENV_FILE"
	defaultEnvFile = ".env"

	ObjectStoreS3     = "s3"
	ObjectStoreGCS    = "gcs"
	ObjectStoreMemory = "memory"

	DefaultSourceUrl = "https://raw.githubusercontent.com/kayfilipp/MobilePriceClassification/main/data/train.csv"
)

// InitConfig loads the environment file (ENV_FILE, default .env) when present and lets process
// environment variables override it. The returned Configs is meant to be built once in main and
// passed down explicitly.
func InitConfig() Configs {
	v := viper.New()
	setDefaults(v)

	envFile := os.Getenv(EnvFile)
	if envFile == "" {
		envFile = defaultEnvFile
	}
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			log.Printf("Env file %s not found, using environment variables only", envFile)
		} else {
			log.Fatalf("Failed to read env file %s: %v", envFile, err)
		}
	}

	bindEnvVars(v)

	var cfg Configs
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to unmarshal config: %v", err)
	}
	log.Println("Configuration loaded")
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "price-range")
	v.SetDefault("app_env", "local")
	v.SetDefault("app_log_level", "INFO")
	v.SetDefault("app_metric_sampling_rate", 1.0)
	v.SetDefault("app_port", 8000)
	v.SetDefault("telegraf_address", "localhost:8125")

	v.SetDefault("object_store_type", ObjectStoreS3)
	v.SetDefault("minio_secure", false)
	v.SetDefault("minio_region", "us-east-1")

	v.SetDefault("ingest_source_url", DefaultSourceUrl)
	v.SetDefault("ingest_chunk_size", 100)
	v.SetDefault("ingest_year", 2023)
	v.SetDefault("ingest_timeout_ms", 60000)

	v.SetDefault("train_seed", 7)
	v.SetDefault("train_test_ratio", 0.2)
	v.SetDefault("train_trees", 100)
	v.SetDefault("train_exclude_dates", "2023-09-14")
}

func bindEnvVars(v *viper.Viper) {
	// Application config
	v.BindEnv("app_name", "APP_NAME")
	v.BindEnv("app_env", "APP_ENV")
	v.BindEnv("app_log_level", "APP_LOG_LEVEL")
	v.BindEnv("app_metric_sampling_rate", "APP_METRIC_SAMPLING_RATE")
	v.BindEnv("app_port", "APP_PORT")
	v.BindEnv("telegraf_address", "TELEGRAF_ADDRESS")

	// Object store config
	v.BindEnv("object_store_type", "OBJECT_STORE_TYPE")
	v.BindEnv("minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("minio_secure", "MINIO_SECURE")
	v.BindEnv("minio_region", "MINIO_REGION")
	v.BindEnv("gcs_project_id", "GCS_PROJECT_ID")
	v.BindEnv("gcs_credentials_file", "GCS_CREDENTIALS_FILE")

	// Ingestion config
	v.BindEnv("ingest_source_url", "INGEST_SOURCE_URL")
	v.BindEnv("ingest_chunk_size", "INGEST_CHUNK_SIZE")
	v.BindEnv("ingest_year", "INGEST_YEAR")
	v.BindEnv("ingest_local_path", "INGEST_LOCAL_PATH")
	v.BindEnv("ingest_timeout_ms", "INGEST_TIMEOUT_MS")

	// Training config
	v.BindEnv("train_seed", "TRAIN_SEED")
	v.BindEnv("train_test_ratio", "TRAIN_TEST_RATIO")
	v.BindEnv("train_trees", "TRAIN_TREES")
	v.BindEnv("train_exclude_dates", "TRAIN_EXCLUDE_DATES")
	v.BindEnv("train_local_dir", "TRAIN_LOCAL_DIR")
}
