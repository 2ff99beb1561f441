package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"coursehub-backend/application/ports"
	"coursehub-backend/pkg/auth"
	"coursehub-backend/pkg/common"
	apperrors "coursehub-backend/pkg/errors"
)

// Authenticator resolves the Bearer token on each request. Tokens are
// verified locally when a JWT secret is configured; otherwise the auth
// service is asked. The resolved user lands in the request context.
type Authenticator struct {
	validator *auth.JWTValidator // nil when no secret is configured
	gateway   ports.AuthGateway
	logger    *zap.Logger
}

// NewAuthenticator creates the auth middleware. validator may be nil.
func NewAuthenticator(validator *auth.JWTValidator, gateway ports.AuthGateway, logger *zap.Logger) *Authenticator {
	return &Authenticator{validator: validator, gateway: gateway, logger: logger}
}

// Middleware rejects requests without a valid token
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			common.RespondAppError(w, apperrors.NewUnauthorizedError("missing bearer token"))
			return
		}

		user, err := a.resolve(r, token)
		if err != nil {
			a.logger.Debug("authentication failed", zap.Error(err))
			common.RespondAppError(w, apperrors.NewUnauthorizedError("invalid or expired token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.SetUserInContext(r.Context(), user)))
	})
}

func (a *Authenticator) resolve(r *http.Request, token string) (*auth.UserContext, error) {
	if a.validator != nil {
		claims, err := a.validator.ValidateToken(token)
		if err != nil {
			return nil, err
		}
		return &auth.UserContext{
			UserID:      claims.UserID(),
			Email:       claims.Email,
			Role:        claims.Role,
			Permissions: claims.Permissions,
		}, nil
	}
	return a.gateway.UserFromToken(r.Context(), token)
}

// RequirePermission gates a route on one permission. Denial is reported
// as forbidden with the missing permission named, never as not-found.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.GetUserFromContext(r.Context())
			if err != nil {
				common.RespondAppError(w, err)
				return
			}
			if !user.HasPermission(permission) {
				common.RespondAppError(w, apperrors.NewForbiddenError(permission))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
