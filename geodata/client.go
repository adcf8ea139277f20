package geodata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

func init() {
	RateLimit(4, 2)
}

// RateLimiter throttles outgoing tile requests.
// Replace the package variable to use a custom limiter.
var RateLimiter rateLimiter

// RateLimit sets the global rate limiter used by all fetches.
// burst is the number of requests allowed without throttling,
// nPerSec the sustained request rate after that.
func RateLimit(burst, nPerSec int) {
	stopLastLimiter()
	if burst < 1 {
		burst = 1
	}
	limiter := make(rateLimit, burst-1)
	ticker := time.NewTicker(time.Second / time.Duration(nPerSec))
	stopLastLimiter = ticker.Stop
	RateLimiter = limiter
	for range burst - 1 {
		limiter <- struct{}{}
	}
	go func() {
		for range ticker.C {
			limiter <- struct{}{}
		}
	}()
}

var stopLastLimiter func() = func() {}

type rateLimiter interface {
	Ready() <-chan struct{}
}

type rateLimit chan struct{}

func (limit rateLimit) Ready() <-chan struct{} {
	return limit
}

// FetchFunc retrieves the body at url. The default implementation is a
// rate-limited HTTP GET; tests substitute their own.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

func httpFetch(ctx context.Context, url string) ([]byte, error) {
	select {
	case _, ok := <-RateLimiter.Ready():
		if !ok {
			return nil, errors.New("rate limiter stopped")
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	slog.Debug("tile fetch", "url", url)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geodata.httpFetch: client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geodata.httpFetch: returned http %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("geodata.httpFetch: read body: %w", err)
	}
	return body, nil
}

// maxFetchAttempts bounds retries for a single tile before giving up.
const maxFetchAttempts = 3

// fetchRetry runs fetch up to maxFetchAttempts times with a short pause
// between attempts, returning a FetchError once the budget is spent.
func fetchRetry(ctx context.Context, fetch FetchFunc, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		body, err := fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Debug("tile fetch failed", "url", url, "attempt", attempt, "error", err)
		select {
		case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, &FetchError{URL: url, Attempts: maxFetchAttempts, Err: lastErr}
}
