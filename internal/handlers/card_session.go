package handlers

import (
	"errors"
	"strings"

	"cardpay/internal/repositories"
	"cardpay/internal/services/cardform"
	"cardpay/internal/services/session"
	"cardpay/internal/utils"
	"cardpay/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const cvcMask = "•"

// CardSessionHandler exposes the card entry form over HTTP. Every action
// returns the form state right after it was applied.
type CardSessionHandler struct {
	registry *session.Registry
	log      *logrus.Entry
}

func NewCardSessionHandler(registry *session.Registry, log *logrus.Entry) *CardSessionHandler {
	return &CardSessionHandler{
		registry: registry,
		log:      log,
	}
}

type sessionView struct {
	ID    uuid.UUID      `json:"id"`
	State cardform.State `json:"state"`
}

// view masks the CVC unless the user asked to see it.
func view(id uuid.UUID, st cardform.State) sessionView {
	if !st.CvcVisible && st.Cvc.Value != "" {
		st.Cvc.Value = strings.Repeat(cvcMask, len(st.Cvc.Value))
	}
	return sessionView{ID: id, State: st}
}

func (h *CardSessionHandler) Create(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	id, st, err := h.registry.Open(c.UserContext(), claims.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Created(c, view(id, st))
}

func (h *CardSessionHandler) Get(c *fiber.Ctx) error {
	id, s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	st, err := s.State()
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, view(id, st))
}

// ChangeField applies raw input to one field: number, expiry, cvc or name.
func (h *CardSessionHandler) ChangeField(c *fiber.Ctx) error {
	id, s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	field, err := cardform.ParseField(c.Params("field"))
	if err != nil {
		return h.fail(c, err)
	}

	var input validation.FieldValueRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := input.Validate(); err != nil {
		return utils.ValidationFailed(c, validation.FieldErrors(err))
	}

	st, err := s.ChangeField(field, input.Value)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, view(id, st))
}

func (h *CardSessionHandler) Blur(c *fiber.Ctx) error {
	id, s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	field, err := cardform.ParseField(c.Params("field"))
	if err != nil {
		return h.fail(c, err)
	}

	st, err := s.FocusLost(field)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, view(id, st))
}

func (h *CardSessionHandler) ToggleCvcVisibility(c *fiber.Ctx) error {
	id, s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	st, err := s.ToggleCvcVisibility()
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, view(id, st))
}

// Submit starts tokenization and answers 202 without waiting for it. The
// outcome is read by polling the session.
func (h *CardSessionHandler) Submit(c *fiber.Ctx) error {
	id, s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	st, err := s.Submit()
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Respond(c, fiber.StatusAccepted, view(id, st))
}

// ResultHandled acknowledges a finished submission. A succeeded one is
// linked to the user's cards.
func (h *CardSessionHandler) ResultHandled(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.fail(c, session.ErrSessionNotFound)
	}

	sub, card, err := h.registry.ResultHandled(claims.UserID, id)
	if err != nil {
		return h.fail(c, err)
	}

	body := fiber.Map{
		"handled":    sub.Status.Terminal(),
		"submission": sub,
	}
	if card != nil {
		body["card"] = card
	}
	return utils.Success(c, body)
}

func (h *CardSessionHandler) Delete(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.fail(c, session.ErrSessionNotFound)
	}
	if err := h.registry.Close(claims.UserID, id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CardSessionHandler) session(c *fiber.Ctx) (uuid.UUID, *cardform.Session, error) {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return uuid.Nil, nil, err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, nil, session.ErrSessionNotFound
	}
	s, err := h.registry.Get(claims.UserID, id)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return id, s, nil
}

func (h *CardSessionHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, utils.ErrClaimsMissing):
		return utils.Unauthorized(c, "Invalid claims")
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, cardform.ErrLoopStopped):
		return utils.NotFound(c, "Card session not found")
	case errors.Is(err, cardform.ErrUnknownField):
		return utils.NotFound(c, "Unknown card field")
	case errors.Is(err, cardform.ErrProcessing):
		return utils.Conflict(c, "processing", "A submission is in progress")
	case errors.Is(err, session.ErrTooManySessions):
		return utils.Conflict(c, "too_many_sessions", "Too many open card sessions")
	case errors.Is(err, repositories.ErrCardAlreadyLinked):
		return utils.Conflict(c, "card_already_linked", "Card already linked")
	case errors.Is(err, session.ErrRegistryClosed):
		return utils.Error(c, fiber.StatusServiceUnavailable, "shutting_down", "Service shutting down")
	default:
		h.log.WithError(err).Error("card session request failed")
		return utils.InternalError(c, "Card session request failed")
	}
}
