package supabase

import (
	"context"

	"github.com/supabase-community/gotrue-go/types"
	"go.uber.org/zap"

	"coursehub-backend/application/ports"
	"coursehub-backend/pkg/auth"
	apperrors "coursehub-backend/pkg/errors"
)

// AuthGateway implements ports.AuthGateway over Supabase's gotrue
// service. The SDK's auth methods take no context, so each call is raced
// against the caller's deadline.
type AuthGateway struct {
	client *Client
	logger *zap.Logger
}

// NewAuthGateway creates an auth gateway
func NewAuthGateway(client *Client, logger *zap.Logger) *AuthGateway {
	return &AuthGateway{client: client, logger: logger}
}

// SignUp registers a new account
func (g *AuthGateway) SignUp(ctx context.Context, email, password string) (*auth.UserContext, error) {
	return raceAuth(ctx, "sign up", func() (*auth.UserContext, error) {
		resp, err := g.client.sb.Auth.Signup(types.SignupRequest{
			Email:    email,
			Password: password,
		})
		if err != nil {
			return nil, apperrors.NewExternalError("supabase auth", err)
		}
		return userContextFromUser(resp.User), nil
	})
}

// SignIn exchanges credentials for a token pair
func (g *AuthGateway) SignIn(ctx context.Context, email, password string) (*ports.Credentials, error) {
	return raceAuth(ctx, "sign in", func() (*ports.Credentials, error) {
		session, err := g.client.sb.SignInWithEmailPassword(email, password)
		if err != nil {
			return nil, apperrors.NewUnauthorizedError("invalid email or password").WithCause(err)
		}
		return &ports.Credentials{
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			ExpiresIn:    session.ExpiresIn,
		}, nil
	})
}

// SignOut revokes the token's session
func (g *AuthGateway) SignOut(ctx context.Context, accessToken string) error {
	_, err := raceAuth(ctx, "sign out", func() (struct{}, error) {
		if err := g.client.sb.Auth.WithToken(accessToken).Logout(); err != nil {
			return struct{}{}, apperrors.NewExternalError("supabase auth", err)
		}
		return struct{}{}, nil
	})
	return err
}

// UserFromToken resolves the account behind an access token. Used as the
// fallback when local JWT verification is not configured.
func (g *AuthGateway) UserFromToken(ctx context.Context, accessToken string) (*auth.UserContext, error) {
	return raceAuth(ctx, "get user", func() (*auth.UserContext, error) {
		resp, err := g.client.sb.Auth.WithToken(accessToken).GetUser()
		if err != nil {
			return nil, apperrors.NewUnauthorizedError("invalid or expired token").WithCause(err)
		}
		return userContextFromUser(resp.User), nil
	})
}

func userContextFromUser(user types.User) *auth.UserContext {
	uc := &auth.UserContext{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   auth.RoleStudent,
	}

	if role, ok := user.AppMetadata["app_role"].(string); ok && role != "" {
		uc.Role = role
	}
	if perms, ok := user.AppMetadata["app_permissions"].([]interface{}); ok {
		for _, p := range perms {
			if s, ok := p.(string); ok {
				uc.Permissions = append(uc.Permissions, s)
			}
		}
	}

	return uc
}

// raceAuth runs fn in a goroutine and honors the context's deadline
func raceAuth[T any](ctx context.Context, operation string, fn func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		value, err := fn()
		done <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, apperrors.NewTimeoutError(operation)
	case res := <-done:
		return res.value, res.err
	}
}
