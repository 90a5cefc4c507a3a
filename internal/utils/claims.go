package utils

import (
	"errors"

	"cardpay/internal/models"

	"github.com/gofiber/fiber/v2"
)

var ErrClaimsMissing = errors.New("claims not found in context")

// GetUserClaims extracts the user claims stored by the auth middleware.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, ErrClaimsMissing
	}
	return claims, nil
}
