package events

import (
	"fmt"
	"time"

	"eventhost-backend/internal/invitations"
	"eventhost-backend/internal/middleware"
	"eventhost-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *Service
	Invites *invitations.Service
}

type eventBody struct {
	Title            string                `json:"title"`
	Description      *string               `json:"description"`
	StartDateTime    string                `json:"start_date_time"`
	EndDateTime      *string               `json:"end_date_time"`
	IsAllDay         *bool                 `json:"is_all_day"`
	Location         *string               `json:"location"`
	ExactAddress     *string               `json:"exact_address"`
	CustomDirections *string               `json:"custom_directions"`
	Status           *string               `json:"status"`
	GroupID          *string               `json:"group_id"`
	Invitations      []invitations.Contact `json:"invitations"`
}

// CreateEvent POST /api/events
func (h *Handlers) CreateEvent(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body eventBody
	if err := c.BodyParser(&body); err != nil || body.Title == "" || body.StartDateTime == "" {
		return response.Error(c, "Title and start date are required", fiber.StatusBadRequest, nil)
	}
	start, err := time.Parse(time.RFC3339, body.StartDateTime)
	if err != nil {
		return response.Error(c, "Invalid start date", fiber.StatusBadRequest, nil)
	}
	var end *time.Time
	if body.EndDateTime != nil {
		t, err := time.Parse(time.RFC3339, *body.EndDateTime)
		if err != nil {
			return response.Error(c, "Invalid end date", fiber.StatusBadRequest, nil)
		}
		end = &t
	}
	var groupID *uuid.UUID
	if body.GroupID != nil && *body.GroupID != "" {
		g, err := uuid.Parse(*body.GroupID)
		if err != nil {
			return response.Error(c, "Invalid group id", fiber.StatusBadRequest, nil)
		}
		groupID = &g
	}
	hostID, err := uuid.Parse(actor.HostID)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	isAllDay := false
	if body.IsAllDay != nil {
		isAllDay = *body.IsAllDay
	}
	event, err := h.Service.CreateEvent(c.Context(), hostID, CreateEventInput{
		Title:            body.Title,
		Description:      body.Description,
		StartDateTime:    start,
		EndDateTime:      end,
		IsAllDay:         isAllDay,
		Location:         body.Location,
		ExactAddress:     body.ExactAddress,
		CustomDirections: body.CustomDirections,
		GroupID:          groupID,
	})
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}

	// Inline invitations ride along with creation and skip the duplicate
	// filter: there is nothing to collide with on a fresh event.
	if len(body.Invitations) > 0 && h.Invites != nil {
		if _, err := h.Invites.CreateInvitations(c.Context(), event.EventID, event.Title, body.Invitations); err != nil {
			log.Error().Err(err).Str("eventId", event.EventID.String()).Msg("failed to create inline invitations")
		}
	}
	return response.SuccessCreated(c, "Event created", event, nil)
}

// ListEvents GET /api/events
func (h *Handlers) ListEvents(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	hostID, err := uuid.Parse(actor.HostID)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.ListEvents(c.Context(), hostID, c.Query("status"))
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Events fetched", out, nil)
}

// GetEvent GET /api/events/:id
func (h *Handlers) GetEvent(c *fiber.Ctx) error {
	hostID, eventID, err := resolveIDs(c)
	if err != nil {
		return err
	}
	event, err := h.Service.GetOwnedEvent(c.Context(), hostID, eventID)
	if err != nil {
		return ownershipError(c, err)
	}
	return response.Success(c, "Event fetched", event, nil)
}

// UpdateEvent PUT /api/events/:id
func (h *Handlers) UpdateEvent(c *fiber.Ctx) error {
	hostID, eventID, err := resolveIDs(c)
	if err != nil {
		return err
	}
	var body eventBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	in := UpdateEventInput{
		Description:      body.Description,
		Location:         body.Location,
		ExactAddress:     body.ExactAddress,
		CustomDirections: body.CustomDirections,
		IsAllDay:         body.IsAllDay,
		Status:           body.Status,
	}
	if body.Title != "" {
		in.Title = &body.Title
	}
	if body.StartDateTime != "" {
		t, err := time.Parse(time.RFC3339, body.StartDateTime)
		if err != nil {
			return response.Error(c, "Invalid start date", fiber.StatusBadRequest, nil)
		}
		in.StartDateTime = &t
	}
	if body.EndDateTime != nil {
		t, err := time.Parse(time.RFC3339, *body.EndDateTime)
		if err != nil {
			return response.Error(c, "Invalid end date", fiber.StatusBadRequest, nil)
		}
		in.EndDateTime = &t
	}
	if body.GroupID != nil && *body.GroupID != "" {
		g, err := uuid.Parse(*body.GroupID)
		if err != nil {
			return response.Error(c, "Invalid group id", fiber.StatusBadRequest, nil)
		}
		in.GroupID = &g
	}
	event, err := h.Service.UpdateEvent(c.Context(), hostID, eventID, in)
	if err != nil {
		return ownershipError(c, err)
	}
	return response.Success(c, "Event updated", event, nil)
}

// DeleteEvent DELETE /api/events/:id
func (h *Handlers) DeleteEvent(c *fiber.Ctx) error {
	hostID, eventID, err := resolveIDs(c)
	if err != nil {
		return err
	}
	if err := h.Service.DeleteEvent(c.Context(), hostID, eventID); err != nil {
		return ownershipError(c, err)
	}
	return response.Success(c, "Event deleted", nil, nil)
}

// CancelEvent POST /api/events/:id/cancel
func (h *Handlers) CancelEvent(c *fiber.Ctx) error {
	hostID, eventID, err := resolveIDs(c)
	if err != nil {
		return err
	}
	event, sent, err := h.Service.CancelEvent(c.Context(), hostID, eventID)
	if err != nil {
		return ownershipError(c, err)
	}
	msg := fmt.Sprintf("Event cancelled, %d cancellation emails sent", sent)
	return response.Success(c, msg, event, nil)
}

// resolveIDs pulls the session host id and the :id route param. The returned
// fiber.Error is formatted by the global error handler.
func resolveIDs(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
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

func ownershipError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrEventNotFound:
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case ErrNotEventHost:
		return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
	default:
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
}
