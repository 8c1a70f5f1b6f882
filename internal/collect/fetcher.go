// Package collect gathers content entries from RSS feeds and PhantomBuster
// agent outputs.
package collect

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ldnews/internal/config"
	"ldnews/pkg/utils"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 * 1024 * 1024

// Fetcher performs collection HTTP requests with config-driven retry logic.
type Fetcher struct {
	client      *http.Client
	retryPolicy *config.RetryPolicy
}

// NewFetcher creates a fetcher with a default retry policy.
func NewFetcher() *Fetcher {
	return NewFetcherWithPolicy(&config.RetryPolicy{
		MaxAttempts:       3,
		InitialDelayMs:    500,
		MaxDelayMs:        30000,
		BackoffMultiplier: 2.0,
		TimeoutSec:        30,
	})
}

// NewFetcherWithPolicy creates a fetcher with a custom retry policy.
func NewFetcherWithPolicy(retryPolicy *config.RetryPolicy) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: retryPolicy.GetTimeout(),
		},
		retryPolicy: retryPolicy,
	}
}

// FetchWithMetrics performs a GET and returns (body, statusCode, duration, error).
// Headers are merged over the collection defaults.
func (f *Fetcher) FetchWithMetrics(url string, headers map[string]string) (string, int, time.Duration, error) {
	var lastErr error

	var lastStatusCode int

	totalDuration := time.Duration(0)

	for attempt := 1; attempt <= f.retryPolicy.MaxAttempts; attempt++ {
		startTime := time.Now()

		req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)

			continue
		}

		req.Header = utils.BuildHeaders(headers)

		resp, err := f.client.Do(req)
		duration := time.Since(startTime)
		totalDuration += duration

		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, f.retryPolicy.MaxAttempts, err)

			f.backoff(attempt)

			continue
		}

		lastStatusCode = resp.StatusCode

		if resp.StatusCode != http.StatusOK {
			// Drain and close before the next attempt
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()

			lastErr = fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)

			if isRetryableStatus(resp.StatusCode) {
				f.backoff(attempt)

				continue
			}

			return "", lastStatusCode, totalDuration, lastErr
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		_ = resp.Body.Close()

		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)

			continue
		}

		return string(body), resp.StatusCode, totalDuration, nil
	}

	return "", lastStatusCode, totalDuration, lastErr
}

// Fetch performs a GET and returns the response body.
func (f *Fetcher) Fetch(url string, headers map[string]string) (string, error) {
	body, _, _, err := f.FetchWithMetrics(url, headers)

	return body, err
}

func (f *Fetcher) backoff(attempt int) {
	if attempt >= f.retryPolicy.MaxAttempts {
		return
	}

	delay := f.retryPolicy.GetRetryDelay(attempt)
	if delay > 0 {
		time.Sleep(delay)
	}
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	// Retry on temporary failures
	switch statusCode {
	case http.StatusServiceUnavailable: // 503
		return true
	case http.StatusGatewayTimeout: // 504
		return true
	case http.StatusTooManyRequests: // 429
		return true
	case http.StatusRequestTimeout: // 408
		return true
	}

	return false
}
