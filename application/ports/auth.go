package ports

import (
	"context"

	"coursehub-backend/pkg/auth"
)

// Credentials is an issued token pair
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthGateway fronts the hosted authentication service
type AuthGateway interface {
	SignUp(ctx context.Context, email, password string) (*auth.UserContext, error)
	SignIn(ctx context.Context, email, password string) (*Credentials, error)
	SignOut(ctx context.Context, accessToken string) error
	UserFromToken(ctx context.Context, accessToken string) (*auth.UserContext, error)
}
