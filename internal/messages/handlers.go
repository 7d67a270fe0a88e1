package messages

import (
	"eventhost-backend/internal/middleware"
	"eventhost-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// ListMessages GET /api/events/:id/messages. Dual-mode: a session host or a
// guest presenting ?token=.
func (h *Handlers) ListMessages(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid event id", fiber.StatusBadRequest, nil)
	}

	if token := c.Query("token"); token != "" {
		if _, err := h.Service.ResolveGuest(c.Context(), token, eventID); err != nil {
			return serviceError(c, err)
		}
	} else {
		hostID, err := sessionHost(c)
		if err != nil {
			return err
		}
		if err := h.Service.AssertEventHost(c.Context(), hostID, eventID); err != nil {
			return serviceError(c, err)
		}
	}

	out, err := h.Service.ListMessages(c.Context(), eventID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Messages fetched", out, nil)
}

// SendMessage POST /api/events/:id/messages. Same dual-mode as the read.
func (h *Handlers) SendMessage(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid event id", fiber.StatusBadRequest, nil)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil || body.Message == "" {
		return response.Error(c, ErrEmptyMessage.Error(), fiber.StatusBadRequest, nil)
	}

	if token := c.Query("token"); token != "" {
		msg, err := h.Service.SendAsGuest(c.Context(), token, eventID, body.Message)
		if err != nil {
			return serviceError(c, err)
		}
		return response.SuccessCreated(c, "Message sent", msg, nil)
	}

	hostID, err := sessionHost(c)
	if err != nil {
		return err
	}
	msg, err := h.Service.SendAsHost(c.Context(), hostID, eventID, body.Message)
	if err != nil {
		return serviceError(c, err)
	}
	return response.SuccessCreated(c, "Message sent", msg, nil)
}

func sessionHost(c *fiber.Ctx) (uuid.UUID, error) {
	actor := middleware.GetActor(c)
	if actor == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	hostID, err := uuid.Parse(actor.HostID)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return hostID, nil
}

func serviceError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrEventNotFound:
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case ErrNotEventHost, ErrMessagesBlocked:
		return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
	case ErrInvalidToken, ErrWrongEvent:
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case ErrEmptyMessage:
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
}
