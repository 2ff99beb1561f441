package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validation errors
var (
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidToken     = errors.New("invalid token")
)

// Claims are the claims carried by a Supabase access token
type Claims struct {
	Email       string   `json:"email"`
	Role        string   `json:"app_role"`
	Permissions []string `json:"app_permissions"`
	jwt.RegisteredClaims
}

// JWTConfig configures token validation
type JWTConfig struct {
	SecretKey string
	Issuer    string
	Audience  string
}

// JWTValidator validates Supabase-issued access tokens locally, avoiding a
// network round trip to the auth service on every request.
type JWTValidator struct {
	config JWTConfig
}

// NewJWTValidator creates a new token validator
func NewJWTValidator(config JWTConfig) (*JWTValidator, error) {
	if config.SecretKey == "" {
		return nil, errors.New("JWT secret key is required")
	}
	return &JWTValidator{config: config}, nil
}

// ValidateToken verifies the signature and standard claims of a token and
// returns its claims
func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithLeeway(30 * time.Second),
	}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}
	if v.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.config.Audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(v.config.SecretKey), nil
	}, opts...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Role == "" {
		claims.Role = RoleStudent
	}

	return claims, nil
}

// UserID returns the subject claim
func (c *Claims) UserID() string {
	return c.Subject
}
