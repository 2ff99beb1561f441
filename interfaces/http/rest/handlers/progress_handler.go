package handlers

import (
	"net/http"

	"coursehub-backend/application/progress"
	"coursehub-backend/pkg/auth"
	"coursehub-backend/pkg/common"
	apperrors "coursehub-backend/pkg/errors"
	"coursehub-backend/pkg/validation"
)

// ProgressHandler serves the caller's own lesson progress
type ProgressHandler struct {
	svc *progress.Service
}

// NewProgressHandler creates a progress handler
func NewProgressHandler(svc *progress.Service) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

type completeRequest struct {
	LessonID    string `json:"lesson_id" validate:"required,uuid"`
	ModuleID    string `json:"module_id" validate:"required,uuid"`
	LessonIndex int    `json:"lesson_index" validate:"min=0"`
}

type timeSpentRequest struct {
	LessonID    string `json:"lesson_id" validate:"required,uuid"`
	ModuleID    string `json:"module_id" validate:"required,uuid"`
	LessonIndex int    `json:"lesson_index" validate:"min=0"`
	Seconds     int    `json:"seconds" validate:"required,min=1"`
}

// List returns the caller's full progress
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	records, err := h.svc.ListForUser(r.Context(), user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, records)
}

// Complete marks a lesson finished for the caller
func (h *ProgressHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req completeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	record, err := h.svc.MarkCompleted(r.Context(), user.UserID, req.LessonID, req.ModuleID, req.LessonIndex)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, record)
}

// AddTime accumulates study seconds against a lesson
func (h *ProgressHandler) AddTime(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req timeSpentRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	record, err := h.svc.AddTimeSpent(r.Context(), user.UserID, req.LessonID, req.ModuleID, req.LessonIndex, req.Seconds)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, record)
}
