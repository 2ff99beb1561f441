// Package handlers implements the REST endpoints.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"coursehub-backend/application/content"
	"coursehub-backend/infrastructure/cache"
	"coursehub-backend/pkg/common"
)

// ContentHandler serves cached static course documents
type ContentHandler struct {
	fetcher *content.Fetcher
	store   *cache.Store
}

// NewContentHandler creates a content handler
func NewContentHandler(fetcher *content.Fetcher, store *cache.Store) *ContentHandler {
	return &ContentHandler{fetcher: fetcher, store: store}
}

// Fetch returns the document at the wildcard path. The response is
// always 200 with a document body: missing or broken content comes back
// as a placeholder, never as an error.
func (h *ContentHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	useCache := r.URL.Query().Get("no_cache") != "true"

	body := h.fetcher.FetchContent(r.Context(), path, useCache)

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"path":    path,
		"content": body,
	})
}

// CacheStats reports cache occupancy for the ops surface
func (h *ContentHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.store.Stats())
}
