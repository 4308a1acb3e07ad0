package configs

import "strings"

type Configs struct {
	// App configuration
	AppName               string  `mapstructure:"app_name"`
	AppEnv                string  `mapstructure:"app_env"`
	AppLogLevel           string  `mapstructure:"app_log_level"`
	AppMetricSamplingRate float64 `mapstructure:"app_metric_sampling_rate"`
	AppPort               int     `mapstructure:"app_port"`
	TelegrafAddress       string  `mapstructure:"telegraf_address"`

	// Object store configuration
	ObjectStoreType    string `mapstructure:"object_store_type"`
	MinioEndpoint      string `mapstructure:"minio_endpoint"`
	MinioAccessKey     string `mapstructure:"minio_access_key"`
	MinioSecretKey     string `mapstructure:"minio_secret_key"`
	MinioSecure        bool   `mapstructure:"minio_secure"`
	MinioRegion        string `mapstructure:"minio_region"`
	GcsProjectID       string `mapstructure:"gcs_project_id"`
	GcsCredentialsFile string `mapstructure:"gcs_credentials_file"`

	// Ingestion configuration
	IngestSourceUrl string `mapstructure:"ingest_source_url"`
	IngestChunkSize int    `mapstructure:"ingest_chunk_size"`
	IngestYear      int    `mapstructure:"ingest_year"`
	IngestLocalPath string `mapstructure:"ingest_local_path"`
	IngestTimeoutMs int    `mapstructure:"ingest_timeout_ms"`

	// Training configuration
	TrainSeed         int64   `mapstructure:"train_seed"`
	TrainTestRatio    float64 `mapstructure:"train_test_ratio"`
	TrainTrees        int     `mapstructure:"train_trees"`
	TrainExcludeDates string  `mapstructure:"train_exclude_dates"`
	TrainLocalDir     string  `mapstructure:"train_local_dir"`
}

// ExcludedDates splits the comma separated TRAIN_EXCLUDE_DATES value.
func (c Configs) ExcludedDates() []string {
	dates := make([]string, 0)
	for _, d := range strings.Split(c.TrainExcludeDates, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			dates = append(dates, d)
		}
	}
	return dates
}
