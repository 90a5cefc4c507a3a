package handlers

import (
	"cardpay/internal/services/preferences"
	"cardpay/internal/utils"
	"cardpay/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type PreferencesHandler struct {
	service preferences.Service
	log     *logrus.Entry
}

func NewPreferencesHandler(service preferences.Service, log *logrus.Entry) *PreferencesHandler {
	return &PreferencesHandler{service: service, log: log}
}

func (h *PreferencesHandler) Get(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	prefs, err := h.service.Get(c.UserContext(), claims.UserID)
	if err != nil {
		h.log.WithError(err).Error("failed to load preferences")
		return utils.InternalError(c, "Failed to load preferences")
	}
	return utils.Success(c, prefs)
}

func (h *PreferencesHandler) Update(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input validation.PreferencesRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := input.Validate(); err != nil {
		return utils.ValidationFailed(c, validation.FieldErrors(err))
	}

	prefs, err := h.service.Update(c.UserContext(), claims.UserID, input)
	if err != nil {
		h.log.WithError(err).Error("failed to save preferences")
		return utils.InternalError(c, "Failed to save preferences")
	}
	return utils.Success(c, prefs)
}
