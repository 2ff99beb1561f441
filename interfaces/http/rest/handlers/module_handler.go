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

// ModuleHandler serves module CRUD and reordering
type ModuleHandler struct {
	catalog *catalog.Service
	editor  *editing.ContentService
}

// NewModuleHandler creates a module handler
func NewModuleHandler(catalogSvc *catalog.Service, editor *editing.ContentService) *ModuleHandler {
	return &ModuleHandler{catalog: catalogSvc, editor: editor}
}

type moduleRequest struct {
	CourseID    string `json:"course_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"omitempty,slug"`
	Description string `json:"description" validate:"max=2000"`
	Status      string `json:"status" validate:"omitempty,oneof=draft published archived"`
	OrderIndex  int    `json:"order_index" validate:"min=0"`
	Color       string `json:"color" validate:"max=32"`
	IconName    string `json:"icon_name" validate:"max=64"`
}

type reorderRequest struct {
	OrderIndex int `json:"order_index" validate:"min=0"`
}

// ListByCourse returns a course's modules in display order
func (h *ModuleHandler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	includeUnpublished, err := editorView(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	modules, err := h.catalog.ListModules(r.Context(), chi.URLParam(r, "courseID"), includeUnpublished)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, modules)
}

// Get returns one module. Unpublished modules exist only for callers
// holding the content-management permission.
func (h *ModuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	module, err := h.catalog.GetModule(r.Context(), chi.URLParam(r, "id"), canViewUnpublished(r))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, module)
}

// Create makes a new draft module under a course
func (h *ModuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, user, err := decodeModule(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	draft := &entities.ContentDraft{Kind: valueobjects.KindModule, Status: valueobjects.StatusDraft}
	applyModuleRequest(draft, req)

	saved, err := h.editor.Save(r.Context(), draft, user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, saved)
}

// Update overwrites a module's editable fields
func (h *ModuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, user, err := decodeModule(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	draft, err := h.editor.LoadDraft(r.Context(), valueobjects.KindModule, chi.URLParam(r, "id"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	applyModuleRequest(draft, req)

	saved, err := h.editor.Save(r.Context(), draft, user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, saved)
}

// Reorder moves a module within its course
func (h *ModuleHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	if err := h.editor.ReorderModule(r.Context(), chi.URLParam(r, "id"), req.OrderIndex); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"order_index": req.OrderIndex})
}

// Delete removes a module
func (h *ModuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.Delete(r.Context(), valueobjects.KindModule, chi.URLParam(r, "id")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func decodeModule(r *http.Request) (*moduleRequest, *auth.UserContext, error) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return nil, nil, err
	}

	var req moduleRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		return nil, nil, apperrors.NewValidationError("invalid request body").WithCause(err)
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, nil, apperrors.NewValidationError(err.Error())
	}
	return &req, user, nil
}

func applyModuleRequest(draft *entities.ContentDraft, req *moduleRequest) {
	draft.CourseID = req.CourseID
	draft.Title = req.Title
	draft.Description = req.Description
	draft.OrderIndex = req.OrderIndex
	draft.Color = req.Color
	draft.IconName = req.IconName

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
