package groups

import (
	"eventhost-backend/internal/middleware"
	"eventhost-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

type groupBody struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// CreateGroup POST /api/event-groups
func (h *Handlers) CreateGroup(c *fiber.Ctx) error {
	hostID, err := sessionHost(c)
	if err != nil {
		return err
	}
	var body groupBody
	if err := c.BodyParser(&body); err != nil || body.Title == "" {
		return response.Error(c, "Title is required", fiber.StatusBadRequest, nil)
	}
	group, err := h.Service.CreateGroup(c.Context(), hostID, GroupInput{Title: body.Title, Description: body.Description})
	if err != nil {
		return serviceError(c, err)
	}
	return response.SuccessCreated(c, "Event group created", group, nil)
}

// ListGroups GET /api/event-groups
func (h *Handlers) ListGroups(c *fiber.Ctx) error {
	hostID, err := sessionHost(c)
	if err != nil {
		return err
	}
	out, err := h.Service.ListGroups(c.Context(), hostID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Event groups fetched", out, nil)
}

// GetGroup GET /api/event-groups/:id
func (h *Handlers) GetGroup(c *fiber.Ctx) error {
	hostID, groupID, err := resolveHostAndGroup(c)
	if err != nil {
		return err
	}
	detail, err := h.Service.GetGroup(c.Context(), hostID, groupID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Event group fetched", detail, nil)
}

// UpdateGroup PUT /api/event-groups/:id
func (h *Handlers) UpdateGroup(c *fiber.Ctx) error {
	hostID, groupID, err := resolveHostAndGroup(c)
	if err != nil {
		return err
	}
	var body groupBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	group, err := h.Service.UpdateGroup(c.Context(), hostID, groupID, GroupInput{Title: body.Title, Description: body.Description})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Event group updated", group, nil)
}

// DeleteGroup DELETE /api/event-groups/:id
func (h *Handlers) DeleteGroup(c *fiber.Ctx) error {
	hostID, groupID, err := resolveHostAndGroup(c)
	if err != nil {
		return err
	}
	if err := h.Service.DeleteGroup(c.Context(), hostID, groupID); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Event group deleted", nil, nil)
}

// LinkGuestList POST /api/event-groups/:id/guest-lists
func (h *Handlers) LinkGuestList(c *fiber.Ctx) error {
	hostID, groupID, err := resolveHostAndGroup(c)
	if err != nil {
		return err
	}
	var body struct {
		GuestListID string `json:"guest_list_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.GuestListID == "" {
		return response.Error(c, "guest_list_id is required", fiber.StatusBadRequest, nil)
	}
	guestListID, err := uuid.Parse(body.GuestListID)
	if err != nil {
		return response.Error(c, "Invalid guest list id", fiber.StatusBadRequest, nil)
	}
	link, err := h.Service.LinkGuestList(c.Context(), hostID, groupID, guestListID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.SuccessCreated(c, "Guest list linked", link, nil)
}

// UnlinkGuestList DELETE /api/event-groups/:id/guest-lists/:guestListId
func (h *Handlers) UnlinkGuestList(c *fiber.Ctx) error {
	hostID, groupID, err := resolveHostAndGroup(c)
	if err != nil {
		return err
	}
	guestListID, err := uuid.Parse(c.Params("guestListId"))
	if err != nil {
		return response.Error(c, "Invalid guest list id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.UnlinkGuestList(c.Context(), hostID, groupID, guestListID); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Guest list unlinked", nil, nil)
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

func resolveHostAndGroup(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	hostID, err := sessionHost(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	groupID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid event group id")
	}
	return hostID, groupID, nil
}

func serviceError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrGroupNotFound, ErrGuestListNotFound:
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case ErrNotGroupHost, ErrNotGuestListHost:
		return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
	case ErrAlreadyLinked:
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
}
