package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"coursehub-backend/application/catalog"
	"coursehub-backend/application/editing"
	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
	"coursehub-backend/pkg/auth"
	"coursehub-backend/pkg/common"
	apperrors "coursehub-backend/pkg/errors"
	"coursehub-backend/pkg/validation"
)

// LessonHandler serves lesson CRUD, reordering, and version history
type LessonHandler struct {
	catalog *catalog.Service
	editor  *editing.ContentService
}

// NewLessonHandler creates a lesson handler
func NewLessonHandler(catalogSvc *catalog.Service, editor *editing.ContentService) *LessonHandler {
	return &LessonHandler{catalog: catalogSvc, editor: editor}
}

type lessonRequest struct {
	ModuleID           string   `json:"module_id" validate:"required,uuid"`
	Title              string   `json:"title" validate:"required,max=255"`
	Slug               string   `json:"slug" validate:"omitempty,slug"`
	Description        string   `json:"description" validate:"max=2000"`
	Body               string   `json:"body"`
	Status             string   `json:"status" validate:"omitempty,oneof=draft published archived scheduled"`
	ScheduledAt        string   `json:"scheduled_at" validate:"omitempty"`
	OrderIndex         int      `json:"order_index" validate:"min=0"`
	Difficulty         string   `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	EstimatedDuration  int      `json:"estimated_duration" validate:"min=0"`
	LearningObjectives []string `json:"learning_objectives"`
	Prerequisites      []string `json:"prerequisites"`
	Tags               []string `json:"tags"`
	VideoURL           string   `json:"video_url" validate:"omitempty,url"`
	FeaturedImageURL   string   `json:"featured_image_url" validate:"omitempty,url"`
}

// ListByModule returns a module's lessons in display order
func (h *LessonHandler) ListByModule(w http.ResponseWriter, r *http.Request) {
	includeUnpublished, err := editorView(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	lessons, err := h.catalog.ListLessons(r.Context(), chi.URLParam(r, "moduleID"), includeUnpublished)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, lessons)
}

// Get returns one lesson. Unpublished lessons exist only for callers
// holding the content-management permission.
func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.catalog.GetLesson(r.Context(), chi.URLParam(r, "id"), canViewUnpublished(r))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, lesson)
}

// Create makes a new draft lesson under a module
func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, user, err := decodeLesson(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	draft := &entities.ContentDraft{Kind: valueobjects.KindLesson, Status: valueobjects.StatusDraft}
	if err := applyLessonRequest(draft, req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	saved, err := h.editor.Save(r.Context(), draft, user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, saved)
}

// Update overwrites a lesson's editable fields. Content changes create a
// version snapshot before the update lands.
func (h *LessonHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, user, err := decodeLesson(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	draft, err := h.editor.LoadDraft(r.Context(), valueobjects.KindLesson, chi.URLParam(r, "id"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := applyLessonRequest(draft, req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	saved, err := h.editor.Save(r.Context(), draft, user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, saved)
}

// Reorder moves a lesson within its module
func (h *LessonHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	if err := h.editor.ReorderLesson(r.Context(), chi.URLParam(r, "id"), req.OrderIndex); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"order_index": req.OrderIndex})
}

// Delete removes a lesson
func (h *LessonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.Delete(r.Context(), valueobjects.KindLesson, chi.URLParam(r, "id")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListVersions returns a lesson's stored snapshots, newest first
func (h *LessonHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.editor.ListVersions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, versions)
}

// GetVersion returns one stored snapshot
func (h *LessonHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	number, err := versionNumber(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	version, err := h.editor.GetVersion(r.Context(), chi.URLParam(r, "id"), number)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, version)
}

// RestoreVersion applies a stored snapshot as a new update; the current
// state is snapshotted first, so history only grows
func (h *LessonHandler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	number, err := versionNumber(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	restored, err := h.editor.RestoreLessonVersion(r.Context(), chi.URLParam(r, "id"), number, user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, restored)
}

func versionNumber(r *http.Request) (int, error) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		return 0, apperrors.NewFieldValidationError("number", "version number must be a positive integer")
	}
	return number, nil
}

func decodeLesson(r *http.Request) (*lessonRequest, *auth.UserContext, error) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return nil, nil, err
	}

	var req lessonRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		return nil, nil, apperrors.NewValidationError("invalid request body").WithCause(err)
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, nil, apperrors.NewValidationError(err.Error())
	}
	return &req, user, nil
}

func applyLessonRequest(draft *entities.ContentDraft, req *lessonRequest) error {
	draft.ModuleID = req.ModuleID
	draft.Title = req.Title
	draft.Description = req.Description
	draft.Body = req.Body
	draft.OrderIndex = req.OrderIndex
	draft.Difficulty = req.Difficulty
	draft.EstimatedDuration = req.EstimatedDuration
	draft.LearningObjectives = req.LearningObjectives
	draft.Prerequisites = req.Prerequisites
	draft.Tags = req.Tags
	draft.VideoURL = req.VideoURL
	draft.FeaturedImageURL = req.FeaturedImageURL

	if req.Slug != "" {
		draft.Slug = req.Slug
	} else if draft.Slug == "" {
		draft.Slug = valueobjects.GenerateSlug(req.Title).String()
	}
	if req.Status != "" {
		if status, err := valueobjects.ParsePublishStatus(req.Status); err == nil {
			draft.Status = status
		}
	}
	if req.ScheduledAt != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return apperrors.NewFieldValidationError("scheduled_at", "must be an RFC 3339 timestamp")
		}
		draft.ScheduledAt = &at
	}
	return nil
}
