// Package middleware provides HTTP middleware components for the application.
// It includes authentication and authorization middleware for the fiber web
// framework.
package middleware

import (
	"errors"
	"strings"

	"cardpay/internal/models"
	"cardpay/internal/services/auth"
	"cardpay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AuthMiddleware handles JWT token validation and user authentication.
// It extracts the JWT token from the Authorization header (or the
// access_token cookie), validates it, and adds the user claims to the
// request context.
type AuthMiddleware struct {
	authService auth.Service
	log         *logrus.Entry
}

func NewAuthMiddleware(authService auth.Service, log *logrus.Entry) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		log:         log,
	}
}

// Handler validates JWT tokens and adds claims to the request context.
// It checks for:
// - A Bearer token or an access_token cookie
// - Valid JWT signature, type and expiry
// - Token version matches current user version
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	tokenString, err := bearerToken(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}

	claims, err := m.authService.ValidateAccessToken(tokenString)
	if err != nil {
		m.log.WithError(err).WithField("path", c.Path()).Debug("access token rejected")
		switch {
		case errors.Is(err, auth.ErrSessionExpired):
			return utils.Unauthorized(c, "session expired")
		case errors.Is(err, auth.ErrAccountDisabled):
			return utils.Forbidden(c, "account disabled")
		default:
			return utils.Unauthorized(c, "invalid token")
		}
	}

	// Store the claims in the context
	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)

	return c.Next()
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if cookie := c.Cookies("access_token"); cookie != "" {
			return cookie, nil
		}
		return "", errors.New("missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.New("invalid authorization format")
	}
	return strings.TrimPrefix(authHeader, "Bearer "), nil
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		// If user is admin, allow all permissions
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) {
			return c.Next()
		}

		return utils.Forbidden(c, "Insufficient permissions")
	}
}
