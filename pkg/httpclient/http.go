package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/Meesho/BharatMLStack/price-range/pkg/metric"
	"github.com/rs/zerolog/log"
)

var (
	defaultTimeoutInMs      = 60000
	defaultDialTimeout      = 30000 // in milliseconds
	defaultKeepAliveTimeout = 30000 // in milliseconds
	defaultIdleConnTimeout  = 90000 // in milliseconds
)

type Config struct {
	// Service names the remote side in metric tags
	Service     string
	TimeoutInMs int
}

type HTTPClient struct {
	CoreClient *http.Client
	service    string
}

type pathPattern struct {
	regex       *regexp.Regexp
	replacement string
}

var patterns = []pathPattern{
	{
		regex:       regexp.MustCompile(`/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`),
		replacement: "/{uuid}",
	},
	{
		regex:       regexp.MustCompile(`/[0-9a-fA-F]{40}`),
		replacement: "/{sha}",
	},
	{
		regex:       regexp.MustCompile(`/\d+`),
		replacement: "/{id}",
	},
}

func New(config Config) *HTTPClient {
	if config.TimeoutInMs <= 0 {
		config.TimeoutInMs = defaultTimeoutInMs
	}
	return &HTTPClient{
		CoreClient: getHTTPClient(config),
		service:    config.Service,
	}
}

func getHTTPClient(config Config) *http.Client {
	log.Debug().Msgf("Creating http client with config: %+v", config)
	transporter := http.DefaultTransport.(*http.Transport).Clone()
	transporter.DialContext = (&net.Dialer{
		Timeout:   time.Duration(defaultDialTimeout) * time.Millisecond,
		KeepAlive: time.Duration(defaultKeepAliveTimeout) * time.Millisecond,
	}).DialContext
	transporter.IdleConnTimeout = time.Duration(defaultIdleConnTimeout) * time.Millisecond
	return &http.Client{
		Transport: transporter,
		Timeout:   time.Duration(config.TimeoutInMs) * time.Millisecond,
	}
}

// Do is a wrapper around http.Client.Do and capable to generate metric for external http service
func (h *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	resp, err := h.CoreClient.Do(req)
	if resp == nil {
		if os.IsTimeout(err) {
			log.Error().Err(err).Msg("Request timed out")
			h.emitMetrics(req, startTime, http.StatusGatewayTimeout)
			return nil, err
		}
		//keeping this 0 as status code as we are not able to get the status code from error
		h.emitMetrics(req, startTime, 0)
		return nil, err
	}
	h.emitMetrics(req, startTime, resp.StatusCode)
	return resp, err
}

// Download performs a GET and returns the body, any non 2xx status is an error
func (h *HTTPClient) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url %s: %w", url, err)
	}
	resp, err := h.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to download %s: unexpected status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	return body, nil
}

func (h *HTTPClient) emitMetrics(req *http.Request, startTime time.Time, statusCode int) {
	tags := metric.BuildTag(
		metric.NewTag(metric.TagExternalService, h.service),
		metric.NewTag(metric.TagPath, getNormalizedPath(req.URL.Path)),
		metric.NewTag(metric.TagExternalServiceMethod, req.Method),
		metric.NewTag(metric.TagExternalServiceStatusCode, strconv.Itoa(statusCode)),
	)
	metric.Timing(metric.ExternalApiRequestLatency, time.Since(startTime), tags)
	metric.Incr(metric.ExternalApiRequestCount, tags)
}

func getNormalizedPath(path string) string {
	normalizedPath := path
	for _, pattern := range patterns {
		normalizedPath = pattern.regex.ReplaceAllString(normalizedPath, pattern.replacement)
	}
	return normalizedPath
}
