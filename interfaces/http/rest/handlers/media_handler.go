package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"coursehub-backend/application/media"
	"coursehub-backend/pkg/common"
	apperrors "coursehub-backend/pkg/errors"
)

// 25 MB upload ceiling, matching the bucket policy
const maxUploadBytes = 25 << 20

// MediaHandler serves asset upload and metadata management
type MediaHandler struct {
	svc *media.Service
}

// NewMediaHandler creates a media handler
func NewMediaHandler(svc *media.Service) *MediaHandler {
	return &MediaHandler{svc: svc}
}

type mediaMetadataRequest struct {
	AltText      string `json:"alt_text" validate:"max=500"`
	UsageContext string `json:"usage_context" validate:"max=500"`
}

// Upload accepts a multipart form with a "file" part
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid multipart form or file too large").WithCause(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		common.RespondAppError(w, apperrors.NewFieldValidationError("file", "a file part is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	asset, err := h.svc.Upload(r.Context(), header.Filename, contentType, header.Size, file)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, asset)
}

// List returns all assets, newest first
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.svc.List(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, assets)
}

// Get returns one asset
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	asset, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, asset)
}

// UpdateMetadata changes an asset's alt text and usage context
func (h *MediaHandler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var req mediaMetadataRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	asset, err := h.svc.UpdateMetadata(r.Context(), chi.URLParam(r, "id"), req.AltText, req.UsageContext)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, asset)
}

// Delete removes the stored object and its metadata
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
