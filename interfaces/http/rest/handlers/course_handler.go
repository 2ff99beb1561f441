package handlers

import (
	"net/http"

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

const maxBodyBytes = 1 << 20

// CourseHandler serves course CRUD
type CourseHandler struct {
	catalog *catalog.Service
	editor  *editing.ContentService
}

// NewCourseHandler creates a course handler
func NewCourseHandler(catalogSvc *catalog.Service, editor *editing.ContentService) *CourseHandler {
	return &CourseHandler{catalog: catalogSvc, editor: editor}
}

type courseRequest struct {
	Title            string `json:"title" validate:"required,max=255"`
	Subtitle         string `json:"subtitle" validate:"max=255"`
	Slug             string `json:"slug" validate:"omitempty,slug"`
	Description      string `json:"description" validate:"max=2000"`
	Status           string `json:"status" validate:"omitempty,oneof=draft published archived"`
	FeaturedImageURL string `json:"featured_image_url" validate:"omitempty,url"`
}

// List returns the course catalog. Unpublished courses are included only
// for callers holding the content-management permission.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	includeUnpublished, err := editorView(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	courses, err := h.catalog.ListCourses(r.Context(), includeUnpublished)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, courses)
}

// Get returns one course. Unpublished courses exist only for callers
// holding the content-management permission.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.catalog.GetCourse(r.Context(), chi.URLParam(r, "id"), canViewUnpublished(r))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, course)
}

// Create makes a new draft course
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, user, err := decodeCourse(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	draft := &entities.ContentDraft{Kind: valueobjects.KindCourse, Status: valueobjects.StatusDraft}
	applyCourseRequest(draft, req)

	saved, err := h.editor.Save(r.Context(), draft, user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, saved)
}

// Update overwrites a course's editable fields
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, user, err := decodeCourse(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	draft, err := h.editor.LoadDraft(r.Context(), valueobjects.KindCourse, chi.URLParam(r, "id"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	applyCourseRequest(draft, req)

	saved, err := h.editor.Save(r.Context(), draft, user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, saved)
}

// Delete removes a course
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.Delete(r.Context(), valueobjects.KindCourse, chi.URLParam(r, "id")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func decodeCourse(r *http.Request) (*courseRequest, *auth.UserContext, error) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return nil, nil, err
	}

	var req courseRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		return nil, nil, apperrors.NewValidationError("invalid request body").WithCause(err)
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, nil, apperrors.NewValidationError(err.Error())
	}
	return &req, user, nil
}

func applyCourseRequest(draft *entities.ContentDraft, req *courseRequest) {
	draft.Title = req.Title
	draft.Subtitle = req.Subtitle
	draft.Description = req.Description
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
}

// editorView reports whether the caller asked for unpublished content,
// rejecting the request when they may not see it
func editorView(r *http.Request) (bool, error) {
	if r.URL.Query().Get("include_unpublished") != "true" {
		return false, nil
	}
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return false, apperrors.NewUnauthorizedError("sign in to view unpublished content")
	}
	if !user.HasPermission(auth.PermManageContent) {
		return false, apperrors.NewForbiddenError(auth.PermManageContent)
	}
	return true, nil
}

// canViewUnpublished reports whether by-id reads may surface draft,
// scheduled, or archived entities. Everyone else gets the published
// view, where such entities do not exist.
func canViewUnpublished(r *http.Request) bool {
	user, err := auth.GetUserFromContext(r.Context())
	return err == nil && user.HasPermission(auth.PermManageContent)
}
