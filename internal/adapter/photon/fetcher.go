package photon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/photon-geocode-service/internal/observability"
)

// maxErrorBody caps how much of a non-2xx body ends up in the error message.
const maxErrorBody = 512

// HTTPFetcher implements Fetcher with net/http.
type HTTPFetcher struct {
	httpClient *http.Client
	userAgent  string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewHTTPFetcher creates a fetcher whose requests time out after timeout.
func NewHTTPFetcher(timeout time.Duration, userAgent string, metrics *observability.Metrics, logger *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		metrics:   metrics,
		logger:    logger,
	}
}

// Fetch issues a GET and returns the body of a 2xx response.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.metrics.PhotonResponses.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("photon request: %w", err)
	}
	defer resp.Body.Close()

	f.metrics.PhotonResponses.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		f.logger.Debug("photon returned non-2xx status", "status", resp.StatusCode, "url", rawURL)
		return nil, fmt.Errorf("photon API error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
