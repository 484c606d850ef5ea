package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"sync/atomic"
	"time"

	"filament-sync/core/metrics"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	breakerFailures = 3
	breakerTimeout  = time.Minute
	maxBodyBytes    = 32 << 20
)

// Fetcher walks the paginated catalog collection.
// Consecutive requests of a Fetcher are spaced by the configured page delay.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker[*Page]
	delay     time.Duration
	timeout   time.Duration
	maxPages  int
	userAgent string
	logger    *zap.Logger
	metrics   *metrics.Recorder
}

// NewFetcher creates a fetcher. rec may be nil.
func NewFetcher(cfg Config, logger *zap.Logger, rec *metrics.Recorder) *Fetcher {
	limit := rate.Inf
	if d := cfg.PageDelay(); d > 0 {
		limit = rate.Every(d)
	}

	f := &Fetcher{
		client:    &http.Client{},
		limiter:   rate.NewLimiter(limit, 1),
		delay:     cfg.PageDelay(),
		timeout:   cfg.RequestTimeout(),
		maxPages:  cfg.MaxPages,
		userAgent: cfg.UserAgent,
		logger:    logger,
		metrics:   rec,
	}

	f.breaker = gobreaker.NewCircuitBreaker[*Page](gobreaker.Settings{
		Name:    "catalog",
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Catalog circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return f
}

// WithHTTPClient replaces the HTTP client used for page requests.
func (f *Fetcher) WithHTTPClient(c *http.Client) *Fetcher {
	f.client = c
	return f
}

// Walk is a single, non-restartable traversal of the cursor chain.
type Walk struct {
	fetcher   *Fetcher
	start     string
	consumed  atomic.Bool
	truncated atomic.Bool
	fetched   atomic.Int64
}

// Walk prepares a traversal starting at startURL.
func (f *Fetcher) Walk(startURL string) *Walk {
	return &Walk{fetcher: f, start: startURL}
}

// Pages is shorthand for f.Walk(startURL).Pages(ctx).
func (f *Fetcher) Pages(ctx context.Context, startURL string) iter.Seq2[*Page, error] {
	return f.Walk(startURL).Pages(ctx)
}

// Truncated reports whether the walk stopped at the page ceiling or on a
// repeated cursor instead of reaching the last page.
func (w *Walk) Truncated() bool {
	return w.truncated.Load()
}

// Fetched returns the number of pages fetched so far.
func (w *Walk) Fetched() int {
	return int(w.fetched.Load())
}

// Pages returns the lazy page sequence. It stops after the first error.
// Each request after the first waits the page delay counted from the end of
// the previous response. Cancellation is observed while waiting; a request
// that has started runs to completion or timeout.
func (w *Walk) Pages(ctx context.Context) iter.Seq2[*Page, error] {
	return func(yield func(*Page, error) bool) {
		if !w.consumed.CompareAndSwap(false, true) {
			yield(nil, ErrWalkConsumed)
			return
		}

		f := w.fetcher
		seen := make(map[string]struct{})
		url := w.start
		var done time.Time

		for index := 1; ; index++ {
			if index > f.maxPages {
				w.truncated.Store(true)
				f.logger.Warn("Catalog walk stopped at page ceiling",
					zap.Int("max_pages", f.maxPages),
					zap.String("next", url),
				)
				return
			}
			if _, dup := seen[url]; dup {
				w.truncated.Store(true)
				f.logger.Warn("Catalog cursor cycle detected", zap.String("url", url), zap.Int("page", index))
				return
			}
			seen[url] = struct{}{}

			if err := f.pause(ctx, done); err != nil {
				yield(nil, fmt.Errorf("wait before page %d: %w", index, err))
				return
			}
			if err := f.limiter.Wait(ctx); err != nil {
				yield(nil, fmt.Errorf("wait before page %d: %w", index, err))
				return
			}

			page, err := f.fetchPage(ctx, url, index)
			if err != nil {
				yield(nil, err)
				return
			}
			done = time.Now()
			w.fetched.Add(1)

			if !yield(page, nil) {
				return
			}
			if page.Next == nil || *page.Next == "" {
				return
			}
			url = *page.Next
		}
	}
}

// pause blocks until the page delay has passed since done. A zero done
// (first page) does not wait. The limiter still bounds request starts.
func (f *Fetcher) pause(ctx context.Context, done time.Time) error {
	if done.IsZero() || f.delay <= 0 {
		return nil
	}
	wait := time.Until(done.Add(f.delay))
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (f *Fetcher) fetchPage(ctx context.Context, url string, index int) (*Page, error) {
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	var status int
	page, err := f.breaker.Execute(func() (*Page, error) {
		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if f.userAgent != "" {
			req.Header.Set("User-Agent", f.userAgent)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}

		var dto pageDTO
		if err := json.Unmarshal(body, &dto); err != nil {
			return nil, fmt.Errorf("decode page: %w", err)
		}

		return &Page{
			Index:    index,
			URL:      url,
			Count:    dto.Count,
			Next:     dto.Next,
			Previous: dto.Previous,
			Results:  dto.Results,
		}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = 0
		}
		return nil, &FetchError{URL: url, Page: index, Status: status, Err: err}
	}

	f.metrics.PageFetched()
	f.logger.Debug("Fetched catalog page",
		zap.Int("page", index),
		zap.String("url", url),
		zap.Int("records", len(page.Results)),
	)
	return page, nil
}
