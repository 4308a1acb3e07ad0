// ingest downloads the mobile price dataset and stores it as dated partitions in the rawdata bucket.
//
// Usage:
//
//	ingest [--url=<csv url>] [--chunk-size=100] [--year=2023] [--local-path=<file>]
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Meesho/BharatMLStack/price-range/internal/configs"
	"github.com/Meesho/BharatMLStack/price-range/internal/ingestion"
	"github.com/Meesho/BharatMLStack/price-range/internal/objectstore"
	"github.com/Meesho/BharatMLStack/price-range/pkg/httpclient"
	"github.com/Meesho/BharatMLStack/price-range/pkg/logger"
	"github.com/Meesho/BharatMLStack/price-range/pkg/metric"
	"github.com/spf13/cobra"
)

var (
	appConfig configs.Configs

	ingestFlags struct {
		url       string
		chunkSize int
		year      int
		localPath string
	}
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Split the raw dataset into dated partitions in the rawdata bucket",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	RunE:         runIngest,
}

func init() {
	appConfig = configs.InitConfig()

	f := rootCmd.Flags()
	f.StringVar(&ingestFlags.url, "url", appConfig.IngestSourceUrl, "URL of the source CSV")
	f.IntVar(&ingestFlags.chunkSize, "chunk-size", appConfig.IngestChunkSize, "Rows per partition")
	f.IntVar(&ingestFlags.year, "year", appConfig.IngestYear, "Year partition dates are drawn from")
	f.StringVar(&ingestFlags.localPath, "local-path", appConfig.IngestLocalPath, "Keep a copy of the download at this path")
}

func runIngest(cmd *cobra.Command, _ []string) error {
	logger.Init(appConfig)
	metric.Init(appConfig)

	gateway, err := objectstore.NewGateway(cmd.Context(), appConfig)
	if err != nil {
		return fmt.Errorf("object store: %w", err)
	}
	client := httpclient.New(httpclient.Config{Service: "dataset_source", TimeoutInMs: appConfig.IngestTimeoutMs})

	report, err := ingestion.NewIngestor(gateway, client, nil).Run(cmd.Context(), ingestion.Options{
		SourceURL: ingestFlags.url,
		ChunkSize: ingestFlags.chunkSize,
		Year:      ingestFlags.year,
		LocalPath: ingestFlags.localPath,
	})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
