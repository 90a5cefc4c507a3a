package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	PermissionCardRead         = "card:read"
	PermissionCardWrite        = "card:write"
	PermissionPreferencesWrite = "preferences:write"
	PermissionReadAdmin        = "admin:read"
)

// Token types carried in claims so a refresh token cannot be used as an
// access token and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions,omitempty"`
	TokenVersion int      `json:"token_version"`
	TokenType    string   `json:"token_type"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionCardRead,
			PermissionCardWrite,
			PermissionPreferencesWrite,
			PermissionReadAdmin,
		}
	case RoleUser:
		return []string{
			PermissionCardRead,
			PermissionCardWrite,
			PermissionPreferencesWrite,
		}
	default:
		return []string{}
	}
}
