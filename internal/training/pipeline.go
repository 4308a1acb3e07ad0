package training

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Meesho/BharatMLStack/price-range/internal/artifact"
	"github.com/Meesho/BharatMLStack/price-range/internal/dataset"
	"github.com/Meesho/BharatMLStack/price-range/internal/forest"
	"github.com/Meesho/BharatMLStack/price-range/internal/objectstore"
	"github.com/Meesho/BharatMLStack/price-range/pkg/metric"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSeed      = 7
	DefaultTestRatio = 0.2
	DefaultTrees     = 100
)

var ErrNoPartitions = errors.New("no raw data partitions left after exclusions")

type Options struct {
	ExcludeDates []string
	Seed         int64
	TestRatio    float64
	Trees        int
	// LocalDir keeps a copy of the artifact as <LocalDir>/<model_id>.model when set
	LocalDir string
}

type Result struct {
	ModelID    string   `json:"model_id"`
	Accuracy   float64  `json:"accuracy"`
	TrainRows  int      `json:"train_rows"`
	TestRows   int      `json:"test_rows"`
	ModelKey   string   `json:"model_key"`
	MetricsKey string   `json:"metrics_key"`
	Partitions []string `json:"partitions"`
}

type Pipeline struct {
	gateway objectstore.Gateway
	now     func() time.Time
}

func NewPipeline(gateway objectstore.Gateway) *Pipeline {
	return &Pipeline{gateway: gateway, now: time.Now}
}

// Run merges the raw partitions, fits a scaled random forest, scores it on a held out split and
// publishes the model and its metrics under one model id
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	opts = withDefaults(opts)

	table, partitions, err := p.fetchAndMerge(ctx, opts.ExcludeDates)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch raw data partitions")
		return nil, err
	}
	log.Info().Msgf("Merged %d partitions into %d rows", len(partitions), len(table.Rows))

	table.FillMissingWithMean()
	x, y, features, err := table.SplitTarget(dataset.TargetColumn)
	if err != nil {
		return nil, err
	}

	scaler, err := dataset.FitScaler(x)
	if err != nil {
		return nil, err
	}
	scaled, err := scaler.Transform(x)
	if err != nil {
		return nil, err
	}

	split, err := dataset.TrainTestSplit(scaled, y, opts.TestRatio, opts.Seed)
	if err != nil {
		return nil, err
	}

	params := forest.DefaultParams(opts.Seed)
	params.Trees = opts.Trees
	f, err := forest.Fit(split.XTrain, split.YTrain, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fit forest: %w", err)
	}
	pred, err := f.PredictBatch(split.XTest)
	if err != nil {
		return nil, err
	}
	accuracy, err := dataset.Accuracy(split.YTest, pred)
	if err != nil {
		return nil, err
	}
	log.Info().Msgf("Random Forest Accuracy: %f", accuracy)

	trainedAt := p.now()
	modelID := artifact.NewModelID(trainedAt)
	model := &artifact.Model{
		Version:      artifact.FormatVersion,
		ModelID:      modelID,
		FeatureNames: features,
		Scaler:       scaler,
		Forest:       f,
	}
	result := &Result{
		ModelID:    modelID,
		Accuracy:   accuracy,
		TrainRows:  len(split.XTrain),
		TestRows:   len(split.XTest),
		ModelKey:   artifact.ModelKey(modelID),
		MetricsKey: artifact.MetricsKey(modelID),
		Partitions: partitions,
	}
	if err := p.publish(ctx, model, result, trainedAt, opts.LocalDir); err != nil {
		log.Error().Err(err).Msgf("Failed to publish model %s", modelID)
		return nil, err
	}

	tags := metric.BuildTag(metric.NewTag(metric.TagModelId, modelID))
	metric.Gauge(metric.TrainingAccuracy, accuracy, tags)
	metric.Gauge(metric.TrainingRows, float64(len(table.Rows)), tags)
	return result, nil
}

func withDefaults(opts Options) Options {
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	if opts.TestRatio <= 0 {
		opts.TestRatio = DefaultTestRatio
	}
	if opts.Trees <= 0 {
		opts.Trees = DefaultTrees
	}
	return opts
}

// fetchAndMerge reads every rawdata key whose date segment is not excluded, in lexical key order
func (p *Pipeline) fetchAndMerge(ctx context.Context, excludeDates []string) (*dataset.Table, []string, error) {
	excluded := make(map[string]struct{}, len(excludeDates))
	for _, d := range excludeDates {
		excluded[d] = struct{}{}
	}

	keys, err := p.gateway.List(ctx, objectstore.BucketRawData)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list %s: %w", objectstore.BucketRawData, err)
	}

	tables := make([]*dataset.Table, 0, len(keys))
	partitions := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, skip := excluded[DateOf(key)]; skip {
			log.Debug().Msgf("Skipping excluded partition %s", key)
			continue
		}
		data, err := p.gateway.Get(ctx, objectstore.BucketRawData, key)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch %s: %w", key, err)
		}
		table, err := dataset.ParseCSV(data)
		if err != nil {
			return nil, nil, fmt.Errorf("partition %s: %w", key, err)
		}
		tables = append(tables, table)
		partitions = append(partitions, key)
	}
	if len(tables) == 0 {
		return nil, nil, ErrNoPartitions
	}
	merged, err := dataset.Concat(tables...)
	if err != nil {
		return nil, nil, err
	}
	return merged, partitions, nil
}

// DateOf returns the first path segment of a rawdata key
func DateOf(key string) string {
	date, _, _ := strings.Cut(key, "/")
	return date
}

func (p *Pipeline) publish(ctx context.Context, model *artifact.Model, result *Result, trainedAt time.Time, localDir string) error {
	data, err := artifact.Encode(model)
	if err != nil {
		return err
	}
	metricsDoc, err := artifact.EncodeMetrics(artifact.Metrics{
		Accuracy:  result.Accuracy,
		ModelID:   result.ModelID,
		TrainRows: result.TrainRows,
		TestRows:  result.TestRows,
		TrainedAt: trainedAt,
	})
	if err != nil {
		return err
	}

	if localDir != "" {
		path := filepath.Join(localDir, result.ModelKey)
		if err := os.MkdirAll(localDir, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write local copy %s: %w", path, err)
		}
		log.Info().Msgf("Saved local copy of model to %s", path)
	}

	for _, bucket := range []string{objectstore.BucketModels, objectstore.BucketModelMetrics} {
		if err := p.gateway.EnsureBucket(ctx, bucket); err != nil {
			return fmt.Errorf("failed to ensure bucket %s: %w", bucket, err)
		}
	}
	if err := p.gateway.Put(ctx, objectstore.BucketModels, result.ModelKey, data, artifact.ModelContentType); err != nil {
		return fmt.Errorf("failed to upload model %s: %w", result.ModelKey, err)
	}
	log.Info().Msgf("Model uploaded as %s/%s", objectstore.BucketModels, result.ModelKey)
	if err := p.gateway.Put(ctx, objectstore.BucketModelMetrics, result.MetricsKey, metricsDoc, artifact.MetricsContentType); err != nil {
		return fmt.Errorf("failed to upload metrics %s: %w", result.MetricsKey, err)
	}
	log.Info().Msgf("Metrics uploaded as %s/%s", objectstore.BucketModelMetrics, result.MetricsKey)
	return nil
}
