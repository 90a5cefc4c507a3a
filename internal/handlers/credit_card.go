package handlers

import (
	"errors"

	"cardpay/internal/services/card"
	"cardpay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CreditCardHandler struct {
	cardService card.Service
	log         *logrus.Entry
}

func NewCreditCardHandler(cardService card.Service, log *logrus.Entry) *CreditCardHandler {
	return &CreditCardHandler{
		cardService: cardService,
		log:         log,
	}
}

func (h *CreditCardHandler) GetCards(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	cards, err := h.cardService.List(claims.UserID)
	if err != nil {
		h.log.WithError(err).Error("failed to fetch cards")
		return utils.InternalError(c, "Failed to fetch cards")
	}

	return utils.Success(c, fiber.Map{"cards": cards})
}

func (h *CreditCardHandler) DeleteCard(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	cardID, err := c.ParamsInt("id")
	if err != nil || cardID <= 0 {
		return utils.BadRequest(c, "Invalid card ID")
	}

	if err := h.cardService.Delete(claims.UserID, uint(cardID)); err != nil {
		if errors.Is(err, card.ErrCardNotFound) {
			return utils.NotFound(c, "Card not found")
		}
		h.log.WithError(err).Error("failed to delete card")
		return utils.InternalError(c, "Failed to delete card")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
