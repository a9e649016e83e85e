// Package dataset loads season documents from URLs or local files.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/verte-zerg/courtside/internal/logger"
	"github.com/verte-zerg/courtside/internal/model"
)

const maxDocumentBytes = 64 << 20

// Fetcher reads documents with caching. Remote reads are also rate limited,
// guarded by a circuit breaker and retried.
type Fetcher struct {
	client  *http.Client
	cache   *docCache
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	retry   RetryPolicy
	log     *logrus.Entry
}

// NewFetcher builds a Fetcher from cfg.
func NewFetcher(cfg model.FetchConfig) *Fetcher {
	log := logger.WithComponent("dataset")
	f := &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  newDocCache(cfg.CacheTTL),
		retry:  RetryPolicy{Attempts: cfg.Retries, Backoff: cfg.Backoff},
		log:    log,
	}
	if cfg.RequestsPerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	f.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "season-source",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})
	return f
}

// Fetch returns the document at location. With useCache a cached copy is
// returned when present and a fresh read is stored.
func (f *Fetcher) Fetch(ctx context.Context, location string, useCache bool) ([]byte, error) {
	if location == "" {
		return nil, fmt.Errorf("document location is empty")
	}
	if useCache {
		if body, ok := f.cache.get(location); ok {
			f.log.WithField("location", location).Debug("cache hit")
			return body, nil
		}
	}

	var body []byte
	err := f.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		body, err = f.read(ctx, location)
		if err != nil {
			f.log.WithField("location", location).WithError(err).Warn("fetch attempt failed")
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	if useCache {
		f.cache.set(location, body)
	}
	f.log.WithFields(logrus.Fields{"location": location, "bytes": len(body)}).Debug("fetched document")
	return body, nil
}

// CacheInfo reports what the cache currently holds.
func (f *Fetcher) CacheInfo() CacheInfo {
	return f.cache.info()
}

// ClearCache drops every cached document.
func (f *Fetcher) ClearCache() {
	f.cache.clear()
	f.log.Debug("cache cleared")
}

// BreakerState reports the remote circuit breaker state.
func (f *Fetcher) BreakerState() gobreaker.State {
	return f.breaker.State()
}

func (f *Fetcher) read(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		return readFile(location)
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return readFile(u.Path)
	case "http", "https":
		return f.readRemote(ctx, location)
	default:
		return nil, fmt.Errorf("unsupported location scheme %q", u.Scheme)
	}
}

func (f *Fetcher) readRemote(ctx context.Context, location string) ([]byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	out, err := f.breaker.Execute(func() (interface{}, error) {
		return httpGet(ctx, f.client, location)
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func httpGet(ctx context.Context, client *http.Client, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func readFile(path string) ([]byte, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("document not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return body, nil
}
