package auth

import (
	"context"

	apperrors "coursehub-backend/pkg/errors"
)

// Role names recognized by the permission model
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleStudent    = "student"
)

// Permissions grantable to content managers
const (
	PermManageContent = "manage_content"
	PermManageUsers   = "manage_users"
	PermViewAnalytics = "view_analytics"
)

// adminPermissions are implicitly granted to the admin role
var adminPermissions = map[string]bool{
	PermManageContent: true,
	PermManageUsers:   true,
	PermViewAnalytics: true,
}

// UserContext carries the authenticated user through a request
type UserContext struct {
	UserID      string
	Email       string
	Role        string
	Permissions []string
}

// HasPermission reports whether the user holds the named permission.
// Super admins hold everything; admins hold the standard management set;
// anyone else needs an explicit grant.
func (u *UserContext) HasPermission(permission string) bool {
	if u.Role == RoleSuperAdmin {
		return true
	}
	if u.Role == RoleAdmin && adminPermissions[permission] {
		return true
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

type contextKey string

const userContextKey contextKey = "auth_user"

// SetUserInContext stores the user context in the request context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the user context from the request context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, apperrors.NewUnauthorizedError("no authenticated user in context")
	}
	return user, nil
}
