// train fits a price range classifier on the rawdata partitions and publishes it with its metrics.
//
// Usage:
//
//	train [--exclude-dates=2023-09-14] [--seed=7] [--test-ratio=0.2] [--trees=100] [--local-dir=<dir>]
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Meesho/BharatMLStack/price-range/internal/configs"
	"github.com/Meesho/BharatMLStack/price-range/internal/objectstore"
	"github.com/Meesho/BharatMLStack/price-range/internal/training"
	"github.com/Meesho/BharatMLStack/price-range/pkg/logger"
	"github.com/Meesho/BharatMLStack/price-range/pkg/metric"
	"github.com/spf13/cobra"
)

var (
	appConfig configs.Configs

	trainFlags struct {
		excludeDates []string
		seed         int64
		testRatio    float64
		trees        int
		localDir     string
	}
)

var rootCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a random forest on raw partitions and upload it to the models bucket",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	RunE:         runTrain,
}

func init() {
	appConfig = configs.InitConfig()

	f := rootCmd.Flags()
	f.StringSliceVar(&trainFlags.excludeDates, "exclude-dates", appConfig.ExcludedDates(), "Partition dates left out of training")
	f.Int64Var(&trainFlags.seed, "seed", appConfig.TrainSeed, "Seed for the split and the forest")
	f.Float64Var(&trainFlags.testRatio, "test-ratio", appConfig.TrainTestRatio, "Share of rows held out for scoring")
	f.IntVar(&trainFlags.trees, "trees", appConfig.TrainTrees, "Number of trees")
	f.StringVar(&trainFlags.localDir, "local-dir", appConfig.TrainLocalDir, "Keep a copy of the model in this directory")
}

func runTrain(cmd *cobra.Command, _ []string) error {
	logger.Init(appConfig)
	metric.Init(appConfig)

	gateway, err := objectstore.NewGateway(cmd.Context(), appConfig)
	if err != nil {
		return fmt.Errorf("object store: %w", err)
	}

	result, err := training.NewPipeline(gateway).Run(cmd.Context(), training.Options{
		ExcludeDates: trainFlags.excludeDates,
		Seed:         trainFlags.seed,
		TestRatio:    trainFlags.testRatio,
		Trees:        trainFlags.trees,
		LocalDir:     trainFlags.localDir,
	})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
