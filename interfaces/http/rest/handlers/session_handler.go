package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"coursehub-backend/application/editing"
	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
	"coursehub-backend/pkg/auth"
	"coursehub-backend/pkg/common"
	apperrors "coursehub-backend/pkg/errors"
	"coursehub-backend/pkg/validation"
)

// SessionHandler exposes the editing session over HTTP: open a session,
// stream field edits into it, save, publish, schedule, and close
type SessionHandler struct {
	manager *editing.Manager
}

// NewSessionHandler creates a session handler
func NewSessionHandler(manager *editing.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

type openSessionRequest struct {
	Kind string `json:"kind" validate:"required,oneof=lesson module course"`
	ID   string `json:"id" validate:"omitempty,uuid"`
}

type updateFieldRequest struct {
	Field string      `json:"field" validate:"required"`
	Value interface{} `json:"value"`
}

type scheduleRequest struct {
	ScheduledAt string `json:"scheduled_at" validate:"required"`
}

// sessionView is the session snapshot returned by every session endpoint
type sessionView struct {
	SessionID string                `json:"session_id"`
	State     string                `json:"state"`
	SaveError string                `json:"save_error,omitempty"`
	Draft     entities.ContentDraft `json:"draft"`
}

func view(id string, s *editing.Session) sessionView {
	return sessionView{
		SessionID: id,
		State:     s.State().String(),
		SaveError: s.SaveError(),
		Draft:     s.Draft(),
	}
}

// Open starts an editing session over an existing item or a fresh draft
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req openSessionRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	kind, err := valueobjects.ParseContentKind(req.Kind)
	if err != nil {
		common.RespondAppError(w, apperrors.NewFieldValidationError("kind", err.Error()))
		return
	}

	sessionID, session, err := h.manager.Open(r.Context(), kind, req.ID, user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, view(sessionID, session))
}

// Get returns the session's current draft and state
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.manager.Get(sessionID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view(sessionID, session))
}

// UpdateField applies one field edit; the idle auto-save timer restarts
func (h *SessionHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.manager.Get(sessionID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req updateFieldRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	if err := session.UpdateField(req.Field, req.Value); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view(sessionID, session))
}

// Validate reports field errors without saving
func (h *SessionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	errs := session.Validate()
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":  !errs.HasErrors(),
		"errors": errs,
	})
}

// PublishReport runs the graded publishing checks without publishing
func (h *SessionHandler) PublishReport(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, session.ValidateForPublish())
}

// Save persists the draft now, keeping its current status
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.manager.Get(sessionID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := session.SaveDraft(r.Context()); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view(sessionID, session))
}

// Publish makes the item live immediately
func (h *SessionHandler) Publish(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.manager.Get(sessionID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := session.PublishNow(r.Context()); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view(sessionID, session))
}

// Schedule queues publication for a future time
func (h *SessionHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.manager.Get(sessionID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req scheduleRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}
	at, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		common.RespondAppError(w, apperrors.NewFieldValidationError("scheduled_at", "must be an RFC 3339 timestamp"))
		return
	}

	if err := session.SchedulePublish(r.Context(), at); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view(sessionID, session))
}

// DeleteContent removes the item being edited and closes the session
func (h *SessionHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.manager.Get(sessionID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := session.DeleteContent(r.Context()); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.manager.Close(sessionID)
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListVersions returns the edited lesson's version history
func (h *SessionHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	versions, err := session.ListVersions(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, versions)
}

// RestoreVersion applies a stored snapshot through the session
func (h *SessionHandler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.manager.Get(sessionID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	number, err := versionNumber(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := session.RestoreVersion(r.Context(), number); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view(sessionID, session))
}

// Close ends the session; idempotent
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.manager.Close(chi.URLParam(r, "sessionID"))
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}
