package announcements

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"eventhost-backend/internal/middleware"
	"eventhost-backend/internal/pkg/response"
)

type Handlers struct {
	Service *Service
}

type announcementBody struct {
	EventID        *uuid.UUID `json:"event_id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	TargetAudience string     `json:"target_audience"`
}

func (h *Handlers) CreateAnnouncement(c *fiber.Ctx) error {
	hostID, err := sessionHost(c)
	if err != nil {
		return err
	}
	var body announcementBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if body.Title == "" || body.Content == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Title and content are required")
	}
	a, err := h.Service.CreateAnnouncement(c.Context(), hostID, AnnouncementInput{
		EventID:        body.EventID,
		Title:          body.Title,
		Content:        body.Content,
		TargetAudience: body.TargetAudience,
	})
	if err != nil {
		return serviceError(err)
	}
	return response.SuccessCreated(c, "Announcement created", a, nil)
}

func (h *Handlers) ListAnnouncements(c *fiber.Ctx) error {
	hostID, err := sessionHost(c)
	if err != nil {
		return err
	}
	list, err := h.Service.ListAnnouncements(c.Context(), hostID)
	if err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Announcements retrieved", list, nil)
}

func (h *Handlers) GetAnnouncement(c *fiber.Ctx) error {
	hostID, id, err := resolveHostAndAnnouncement(c)
	if err != nil {
		return err
	}
	a, err := h.Service.GetAnnouncement(c.Context(), hostID, id)
	if err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Announcement retrieved", a, nil)
}

type updateAnnouncementBody struct {
	EventID        *uuid.UUID `json:"event_id"`
	Title          *string    `json:"title"`
	Content        *string    `json:"content"`
	TargetAudience *string    `json:"target_audience"`
}

func (h *Handlers) UpdateAnnouncement(c *fiber.Ctx) error {
	hostID, id, err := resolveHostAndAnnouncement(c)
	if err != nil {
		return err
	}
	var body updateAnnouncementBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	a, err := h.Service.UpdateAnnouncement(c.Context(), hostID, id, UpdateAnnouncementInput{
		EventID:        body.EventID,
		Title:          body.Title,
		Content:        body.Content,
		TargetAudience: body.TargetAudience,
	})
	if err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Announcement updated", a, nil)
}

func (h *Handlers) DeleteAnnouncement(c *fiber.Ctx) error {
	hostID, id, err := resolveHostAndAnnouncement(c)
	if err != nil {
		return err
	}
	if err := h.Service.DeleteAnnouncement(c.Context(), hostID, id); err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Announcement deleted", nil, nil)
}

func (h *Handlers) Publish(c *fiber.Ctx) error {
	hostID, id, err := resolveHostAndAnnouncement(c)
	if err != nil {
		return err
	}
	a, sent, err := h.Service.Publish(c.Context(), hostID, id)
	if err != nil {
		return serviceError(err)
	}
	msg := fmt.Sprintf("Announcement published, %d emails sent", sent)
	return response.Success(c, msg, a, nil)
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

func resolveHostAndAnnouncement(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	hostID, err := sessionHost(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid announcement id")
	}
	return hostID, id, nil
}

func serviceError(err error) error {
	switch err {
	case ErrAnnouncementNotFound, ErrEventNotFound:
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case ErrNotAnnouncementHost:
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case ErrInvalidAudience, ErrEventRequired:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}
