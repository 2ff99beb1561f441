package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coursehub-backend/infrastructure/cache"
	"coursehub-backend/pkg/observability"
)

func newTestFetcher(t *testing.T, origin string) (*Fetcher, *cache.Caches) {
	t.Helper()
	caches := cache.NewCaches(cache.NewStore("v1", zap.NewNop()))
	fetcher := NewFetcher(origin, caches.LessonContent, 2*time.Second, zap.NewNop(), observability.NewNopMetrics())
	return fetcher, caches
}

func TestFetchContentCachesSuccessfulFetch(t *testing.T) {
	var hits atomic.Int64
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("# Lesson One\n\nBody text."))
	}))
	defer origin.Close()

	fetcher, _ := newTestFetcher(t, origin.URL)

	first := fetcher.FetchContent(context.Background(), "/lessons/one.md", true)
	assert.Equal(t, "# Lesson One\n\nBody text.", first)

	second := fetcher.FetchContent(context.Background(), "lessons/one.md", true)
	assert.Equal(t, first, second)

	assert.Equal(t, int64(1), hits.Load(), "leading-slash and bare paths share one cache entry")
}

func TestFetchContentBypassesCacheWhenDisabled(t *testing.T) {
	var hits atomic.Int64
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("fresh"))
	}))
	defer origin.Close()

	fetcher, _ := newTestFetcher(t, origin.URL)

	fetcher.FetchContent(context.Background(), "doc.md", false)
	fetcher.FetchContent(context.Background(), "doc.md", false)

	assert.Equal(t, int64(2), hits.Load())
}

func TestFetchContentNotFoundPlaceholderNotCached(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer origin.Close()

	fetcher, caches := newTestFetcher(t, origin.URL)

	body := fetcher.FetchContent(context.Background(), "missing.md", true)
	assert.True(t, strings.HasPrefix(body, "# Content Not Found"))
	assert.Contains(t, body, "missing.md")

	_, ok := caches.LessonContent.Get("missing.md")
	assert.False(t, ok, "placeholders must never be cached")
}

func TestFetchContentEmptyBodyPlaceholder(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("   \n\t"))
	}))
	defer origin.Close()

	fetcher, caches := newTestFetcher(t, origin.URL)

	body := fetcher.FetchContent(context.Background(), "empty.md", true)
	assert.True(t, strings.HasPrefix(body, "# No Content Available"))

	_, ok := caches.LessonContent.Get("empty.md")
	assert.False(t, ok)
}

func TestFetchContentServerErrorPlaceholder(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer origin.Close()

	fetcher, caches := newTestFetcher(t, origin.URL)

	body := fetcher.FetchContent(context.Background(), "broken.md", true)
	assert.True(t, strings.HasPrefix(body, "# Content Loading Error"))

	_, ok := caches.LessonContent.Get("broken.md")
	assert.False(t, ok)
}

func TestFetchContentUnreachableOriginPlaceholder(t *testing.T) {
	// Reserve a port, then close it so the address refuses connections
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	origin.Close()

	fetcher, _ := newTestFetcher(t, origin.URL)

	body := fetcher.FetchContent(context.Background(), "doc.md", true)
	assert.True(t, strings.HasPrefix(body, "# Content Loading Error"))
}

func TestFetchContentCorruptCacheEntryRefetched(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("recovered"))
	}))
	defer origin.Close()

	fetcher, caches := newTestFetcher(t, origin.URL)
	caches.LessonContent.Set("doc.md", []byte("{corrupt"))

	body := fetcher.FetchContent(context.Background(), "doc.md", true)
	assert.Equal(t, "recovered", body)

	raw, ok := caches.LessonContent.Get("doc.md")
	require.True(t, ok, "refetched body must replace the corrupt entry")
	assert.Equal(t, `"recovered"`, string(raw))
}
