// Package content serves static course documents through the cache.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"coursehub-backend/domain/core/valueobjects"
	"coursehub-backend/infrastructure/cache"
	"coursehub-backend/pkg/observability"
)

// Fetcher retrieves markdown documents from the static content origin,
// cache-first. A fetch never fails its caller: not-found, empty, and
// transport outcomes all come back as inline placeholder documents, and
// none of those is ever written to the cache, since the same path may
// resolve later.
type Fetcher struct {
	client  *http.Client
	baseURL string
	store   cache.ContentNamespace
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewFetcher creates a fetcher over the given origin. The timeout bounds
// every request; a hung origin yields a placeholder, not a stuck caller.
func NewFetcher(baseURL string, store cache.ContentNamespace, timeout time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// FetchContent returns the document at path. With useCache, the cache is
// consulted first and successful fetches are stored back under the
// sanitized path.
func (f *Fetcher) FetchContent(ctx context.Context, path string, useCache bool) string {
	id := valueobjects.SanitizeContentPath(path)

	if useCache {
		if raw, ok := f.store.Get(id); ok {
			var body string
			if err := json.Unmarshal(raw, &body); err == nil {
				f.metrics.ContentFetches.WithLabelValues("hit").Inc()
				return body
			}
			f.store.Remove(id)
		}
	}

	body, outcome := f.fetch(ctx, path)
	f.metrics.ContentFetches.WithLabelValues(outcome).Inc()

	if outcome == "fetched" {
		if raw, err := json.Marshal(body); err == nil {
			f.store.Set(id, raw)
		}
	}

	return body
}

func (f *Fetcher) fetch(ctx context.Context, path string) (string, string) {
	url := f.baseURL + "/" + valueobjects.SanitizeContentPath(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.logger.Warn("content request error", zap.String("path", path), zap.Error(err))
		return errorDocument(path), "error"
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("content fetch failed", zap.String("path", path), zap.Error(err))
		return errorDocument(path), "error"
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return notFoundDocument(path), "not_found"
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		f.logger.Warn("content fetch returned error status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return errorDocument(path), "error"
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		f.logger.Warn("content read failed", zap.String("path", path), zap.Error(err))
		return errorDocument(path), "error"
	}

	body := string(raw)
	if strings.TrimSpace(body) == "" {
		return emptyDocument(path), "empty"
	}

	return body, "fetched"
}

func notFoundDocument(path string) string {
	return fmt.Sprintf("# Content Not Found\n\nThe document at `%s` does not exist yet.\n\nCheck back later, or pick another lesson from the course outline.", path)
}

func emptyDocument(path string) string {
	return fmt.Sprintf("# No Content Available\n\nThe document at `%s` exists but is empty.", path)
}

func errorDocument(path string) string {
	return fmt.Sprintf("# Content Loading Error\n\nUnable to load `%s`. Please try again.", path)
}
