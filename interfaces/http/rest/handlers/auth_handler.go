package handlers

import (
	"net/http"
	"strings"

	"coursehub-backend/application/ports"
	"coursehub-backend/pkg/auth"
	"coursehub-backend/pkg/common"
	apperrors "coursehub-backend/pkg/errors"
	"coursehub-backend/pkg/validation"
)

// AuthHandler fronts the hosted auth service for the web client
type AuthHandler struct {
	gateway ports.AuthGateway
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(gateway ports.AuthGateway) *AuthHandler {
	return &AuthHandler{gateway: gateway}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignUp registers a new account
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	user, err := h.gateway.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, user)
}

// SignIn exchanges credentials for a token pair
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	creds, err := h.gateway.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, creds)
}

// SignOut revokes the caller's token
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token := bearerFromHeader(r)
	if token == "" {
		common.RespondAppError(w, apperrors.NewUnauthorizedError("missing bearer token"))
		return
	}

	if err := h.gateway.SignOut(r.Context(), token); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Me returns the authenticated caller's identity
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, user)
}

func decodeCredentials(r *http.Request) (*credentialsRequest, error) {
	var req credentialsRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		return nil, apperrors.NewValidationError("invalid request body").WithCause(err)
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	return &req, nil
}

func bearerFromHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
