package ingestion

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/Meesho/BharatMLStack/price-range/internal/objectstore"
	"github.com/Meesho/BharatMLStack/price-range/pkg/metric"
	"github.com/rs/zerolog/log"
)

const (
	DefaultChunkSize = 100
	DateLayout       = "2006-01-02"
	csvContentType   = "text/csv"
)

var ErrNoRows = errors.New("source has a header but no rows")

// Downloader fetches the raw dataset
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

type Options struct {
	SourceURL string
	ChunkSize int
	Year      int
	// LocalPath keeps a copy of the downloaded file when set
	LocalPath string
}

type Report struct {
	TotalRows      int      `json:"total_rows"`
	ChunksUploaded int      `json:"chunks_uploaded"`
	ChunksFailed   int      `json:"chunks_failed"`
	Keys           []string `json:"keys"`
}

type Ingestor struct {
	gateway    objectstore.Gateway
	downloader Downloader
	rng        *rand.Rand
}

func NewIngestor(gateway objectstore.Gateway, downloader Downloader, rng *rand.Rand) *Ingestor {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Ingestor{gateway: gateway, downloader: downloader, rng: rng}
}

// Run downloads the source CSV and stores it in the rawdata bucket as chunks of at most
// ChunkSize rows under <date>/train_chunk_<i>.csv. A failed chunk upload is logged and skipped.
func (i *Ingestor) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}

	data, err := i.downloader.Download(ctx, opts.SourceURL)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to download the file from %s", opts.SourceURL)
		return nil, err
	}
	log.Info().Msgf("Successfully downloaded %d bytes from %s", len(data), opts.SourceURL)

	if opts.LocalPath != "" {
		if err := saveLocalCopy(opts.LocalPath, data); err != nil {
			log.Error().Err(err).Msgf("Failed to save local copy to %s", opts.LocalPath)
			return nil, err
		}
		log.Info().Msgf("Saved local copy to %s", opts.LocalPath)
	}

	header, rows, err := readRecords(data)
	if err != nil {
		return nil, err
	}
	log.Info().Msgf("Total records downloaded: %d", len(rows))

	if err := i.gateway.EnsureBucket(ctx, objectstore.BucketRawData); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket %s: %w", objectstore.BucketRawData, err)
	}

	report := &Report{TotalRows: len(rows), Keys: make([]string, 0)}
	for idx, chunk := range Chunk(rows, opts.ChunkSize) {
		key := ChunkKey(RandomDate(i.rng, opts.Year), idx)
		body, err := encodeChunk(header, chunk)
		if err == nil {
			err = i.gateway.Put(ctx, objectstore.BucketRawData, key, body, csvContentType)
		}
		metric.Incr(metric.IngestionChunkCount, metric.BuildTag(metric.StatusTag(err)))
		if err != nil {
			log.Error().Err(err).Msgf("Failed to store chunk %d as %s", idx, key)
			report.ChunksFailed++
			continue
		}
		log.Info().Msgf("Chunk %d stored as %s", idx, key)
		report.ChunksUploaded++
		report.Keys = append(report.Keys, key)
	}
	return report, nil
}

// Chunk splits rows into consecutive groups of size, the last one may be shorter
func Chunk(rows [][]string, size int) [][][]string {
	chunks := make([][][]string, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

func ChunkKey(date time.Time, idx int) string {
	return fmt.Sprintf("%s/train_chunk_%d.csv", date.Format(DateLayout), idx)
}

// RandomDate picks a uniformly random day of year
func RandomDate(rng *rand.Rand, year int) time.Time {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := start.AddDate(1, 0, 0).Sub(start).Hours() / 24
	return start.AddDate(0, 0, rng.Intn(int(days)))
}

func readRecords(data []byte) ([]string, [][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, errors.New("source is empty")
	}
	if len(records) == 1 {
		return nil, nil, ErrNoRows
	}
	return records[0], records[1:], nil
}

func encodeChunk(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to encode chunk: %w", err)
	}
	return buf.Bytes(), nil
}

func saveLocalCopy(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
