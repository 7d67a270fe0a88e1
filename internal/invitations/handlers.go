package invitations

import (
	"fmt"
	"strings"

	"eventhost-backend/internal/middleware"
	"eventhost-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// AddInvitations POST /api/events/:id/invitations
// Body carries either an explicit contact list or a guest_list_id to import.
// Explicit contacts are deduplicated against existing invitation emails.
func (h *Handlers) AddInvitations(c *fiber.Ctx) error {
	hostID, eventID, err := resolveHostAndEvent(c)
	if err != nil {
		return err
	}
	var body struct {
		Invitations []Contact `json:"invitations"`
		GuestListID *string   `json:"guest_list_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	var created []interface{}
	var skipped int
	if body.GuestListID != nil && *body.GuestListID != "" {
		guestListID, err := uuid.Parse(*body.GuestListID)
		if err != nil {
			return response.Error(c, "Invalid guest list id", fiber.StatusBadRequest, nil)
		}
		invs, sk, err := h.Service.AddFromGuestList(c.Context(), hostID, eventID, guestListID)
		if err != nil {
			return serviceError(c, err)
		}
		skipped = sk
		for _, inv := range invs {
			created = append(created, inv)
		}
	} else {
		if len(body.Invitations) == 0 {
			return response.Error(c, "Invitations are required", fiber.StatusBadRequest, nil)
		}
		invs, sk, err := h.Service.AddInvitations(c.Context(), hostID, eventID, body.Invitations)
		if err != nil {
			return serviceError(c, err)
		}
		skipped = sk
		for _, inv := range invs {
			created = append(created, inv)
		}
	}
	msg := fmt.Sprintf("%d invitations created, %d duplicates skipped", len(created), skipped)
	return response.SuccessCreated(c, msg, created, fiber.Map{"skipped": skipped})
}

// ListForEvent GET /api/events/:id/invitations
func (h *Handlers) ListForEvent(c *fiber.Ctx) error {
	hostID, eventID, err := resolveHostAndEvent(c)
	if err != nil {
		return err
	}
	out, err := h.Service.ListForEvent(c.Context(), hostID, eventID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Invitations fetched", out, nil)
}

// SetFlag returns the handler for one of the host toggles
// (suspend / block / block-messages). Body: {"value": bool}.
func (h *Handlers) SetFlag(flag string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.GetActor(c)
		if actor == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		hostID, err := uuid.Parse(actor.HostID)
		if err != nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		invitationID, err := uuid.Parse(c.Params("invitationId"))
		if err != nil {
			return response.Error(c, "Invalid invitation id", fiber.StatusBadRequest, nil)
		}
		var body struct {
			Value *bool `json:"value"`
		}
		if err := c.BodyParser(&body); err != nil || body.Value == nil {
			return response.Error(c, "value is required", fiber.StatusBadRequest, nil)
		}
		inv, err := h.Service.SetFlag(c.Context(), hostID, invitationID, flag, *body.Value)
		if err != nil {
			return serviceError(c, err)
		}
		return response.Success(c, "Invitation updated", inv, nil)
	}
}

// Resend POST /api/events/:id/invitations/resend
func (h *Handlers) Resend(c *fiber.Ctx) error {
	hostID, eventID, err := resolveHostAndEvent(c)
	if err != nil {
		return err
	}
	sent, failed, err := h.Service.ResendInvitations(c.Context(), hostID, eventID)
	if err != nil {
		return serviceError(c, err)
	}
	msg := fmt.Sprintf("%d invitations resent, %d failed", sent, failed)
	return response.Success(c, msg, fiber.Map{"sent": sent, "failed": failed}, nil)
}

// GetByToken GET /api/invitations/:token (public)
func (h *Handlers) GetByToken(c *fiber.Ctx) error {
	token := c.Params("token")
	view, err := h.Service.GetGuestView(c.Context(), token)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	if view == nil {
		return response.Error(c, "Invitation not found", fiber.StatusNotFound, nil)
	}
	return response.Success(c, "Invitation fetched", view, nil)
}

// RSVP POST /api/invitations/:token/rsvp (public). Body: {"status": "yes"}.
func (h *Handlers) RSVP(c *fiber.Ctx) error {
	token := c.Params("token")
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || body.Status == "" {
		return response.Error(c, "status is required", fiber.StatusBadRequest, nil)
	}
	inv, err := h.Service.UpdateRSVP(c.Context(), token, strings.ToLower(body.Status))
	if err != nil {
		if err == ErrInvalidRSVP {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	if inv == nil {
		return response.Error(c, "Invitation not found", fiber.StatusNotFound, nil)
	}
	return response.Success(c, "RSVP recorded", inv, nil)
}

// RSVPRedirect GET /api/rsvp/:token/:response (public). One-click RSVP from
// an email link; redirects to the guest invitation page.
func (h *Handlers) RSVPRedirect(c *fiber.Ctx) error {
	token := c.Params("token")
	status := strings.ToLower(c.Params("response"))
	inv, err := h.Service.UpdateRSVP(c.Context(), token, status)
	if err != nil {
		if err == ErrInvalidRSVP {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	if inv == nil {
		return response.Error(c, "Invitation not found", fiber.StatusNotFound, nil)
	}
	return c.Redirect(h.Service.inviteLink(token)+"?responded=1", fiber.StatusFound)
}

func resolveHostAndEvent(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	actor := middleware.GetActor(c)
	if actor == nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	hostID, err := uuid.Parse(actor.HostID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid event id")
	}
	return hostID, eventID, nil
}

func serviceError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrEventNotFound, ErrInvitationNotFound, ErrGuestListNotFound:
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case ErrNotEventHost:
		return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
	default:
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
}
