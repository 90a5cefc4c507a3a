package handlers

import (
	"errors"
	"time"

	"cardpay/internal/config"
	"cardpay/internal/repositories"
	"cardpay/internal/services/auth"
	"cardpay/internal/utils"
	"cardpay/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService auth.Service
	accessTTL   time.Duration
	refreshTTL  time.Duration
	log         *logrus.Entry
}

func NewAuthHandler(authService auth.Service, accessTTL, refreshTTL time.Duration, log *logrus.Entry) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		log:         log,
	}
}

// RegisterUser creates an account with email and password.
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var input validation.RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		return utils.ValidationFailed(c, validation.FieldErrors(err))
	}

	user, err := h.authService.Register(input.Name, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return utils.Conflict(c, "email_taken", "Email already registered")
		}
		h.log.WithError(err).Error("registration failed")
		return utils.InternalError(c, "Registration failed")
	}

	return utils.Created(c, fiber.Map{
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// LoginUser handles user authentication and returns JWT tokens
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var input validation.LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := input.Validate(); err != nil {
		return utils.ValidationFailed(c, validation.FieldErrors(err))
	}

	user, accessToken, refreshToken, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return utils.Unauthorized(c, "Invalid email or password")
		case errors.Is(err, auth.ErrAccountDisabled):
			return utils.Forbidden(c, "Account disabled")
		default:
			h.log.WithError(err).Error("login failed")
			return utils.InternalError(c, "Authentication failed")
		}
	}

	h.setAuthCookies(c, accessToken, refreshToken)

	return utils.Success(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// RefreshToken handles token refresh requests
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	// First try to get token from cookies
	refreshToken := c.Cookies("refresh_token")

	// If not in cookies, try request body
	if refreshToken == "" {
		var input validation.RefreshRequest
		if err := c.BodyParser(&input); err != nil || input.Validate() != nil {
			return utils.Unauthorized(c, "Refresh token not provided")
		}
		refreshToken = input.RefreshToken
	}

	newAccessToken, newRefreshToken, err := h.authService.RefreshTokens(refreshToken)
	if err != nil {
		h.log.WithError(err).Info("token refresh rejected")
		return utils.Unauthorized(c, "Invalid refresh token")
	}

	h.setAuthCookies(c, newAccessToken, newRefreshToken)

	return utils.Success(c, fiber.Map{
		"access_token":  newAccessToken,
		"refresh_token": newRefreshToken,
	})
}

// LogoutUser revokes every token issued to the user so far.
func (h *AuthHandler) LogoutUser(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.authService.Logout(claims.UserID); err != nil {
		h.log.WithError(err).WithField("user_id", claims.UserID).Error("logout failed")
		return utils.InternalError(c, "Failed to logout")
	}

	h.clearAuthCookies(c)
	return utils.Success(c, fiber.Map{
		"message": "Successfully logged out",
	})
}

// Helper methods

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		Path:     "/",
		SameSite: "Strict",
		MaxAge:   int(h.accessTTL.Seconds()),
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		Path:     "/api/refresh",
		SameSite: "Strict",
		MaxAge:   int(h.refreshTTL.Seconds()),
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for name, path := range map[string]string{"access_token": "/", "refresh_token": "/api/refresh"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   config.IsProduction(),
			Path:     path,
		})
	}
}
