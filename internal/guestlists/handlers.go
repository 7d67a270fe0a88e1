package guestlists

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"eventhost-backend/internal/middleware"
	"eventhost-backend/internal/pkg/response"
)

type Handlers struct {
	Service *Service
}

type guestListBody struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *Handlers) CreateGuestList(c *fiber.Ctx) error {
	hostID, err := sessionHost(c)
	if err != nil {
		return err
	}
	var body guestListBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if body.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Guest list name is required")
	}
	list, err := h.Service.CreateGuestList(c.Context(), hostID, GuestListInput{Name: body.Name, Description: body.Description})
	if err != nil {
		return serviceError(err)
	}
	return response.SuccessCreated(c, "Guest list created", list, nil)
}

func (h *Handlers) ListGuestLists(c *fiber.Ctx) error {
	hostID, err := sessionHost(c)
	if err != nil {
		return err
	}
	lists, err := h.Service.ListGuestLists(c.Context(), hostID)
	if err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Guest lists retrieved", lists, nil)
}

func (h *Handlers) GetGuestList(c *fiber.Ctx) error {
	hostID, listID, err := resolveHostAndList(c)
	if err != nil {
		return err
	}
	detail, err := h.Service.GetGuestList(c.Context(), hostID, listID)
	if err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Guest list retrieved", detail, nil)
}

func (h *Handlers) UpdateGuestList(c *fiber.Ctx) error {
	hostID, listID, err := resolveHostAndList(c)
	if err != nil {
		return err
	}
	var body guestListBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	list, err := h.Service.UpdateGuestList(c.Context(), hostID, listID, GuestListInput{Name: body.Name, Description: body.Description})
	if err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Guest list updated", list, nil)
}

func (h *Handlers) DeleteGuestList(c *fiber.Ctx) error {
	hostID, listID, err := resolveHostAndList(c)
	if err != nil {
		return err
	}
	if err := h.Service.DeleteGuestList(c.Context(), hostID, listID); err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Guest list deleted", nil, nil)
}

type addMembersBody struct {
	Members []MemberInput `json:"members"`
}

func (h *Handlers) AddMembers(c *fiber.Ctx) error {
	hostID, listID, err := resolveHostAndList(c)
	if err != nil {
		return err
	}
	var body addMembersBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if len(body.Members) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "At least one member is required")
	}
	for _, m := range body.Members {
		if m.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Member name is required")
		}
	}
	created, err := h.Service.AddMembers(c.Context(), hostID, listID, body.Members)
	if err != nil {
		return serviceError(err)
	}
	return response.SuccessCreated(c, "Members added", created, nil)
}

func (h *Handlers) ListMembers(c *fiber.Ctx) error {
	hostID, listID, err := resolveHostAndList(c)
	if err != nil {
		return err
	}
	members, err := h.Service.ListMembers(c.Context(), hostID, listID)
	if err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Members retrieved", members, nil)
}

func (h *Handlers) RemoveMember(c *fiber.Ctx) error {
	hostID, listID, err := resolveHostAndList(c)
	if err != nil {
		return err
	}
	memberID, err := uuid.Parse(c.Params("memberId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid member id")
	}
	if err := h.Service.RemoveMember(c.Context(), hostID, listID, memberID); err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Member removed", nil, nil)
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

func resolveHostAndList(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	hostID, err := sessionHost(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	listID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid guest list id")
	}
	return hostID, listID, nil
}

func serviceError(err error) error {
	switch err {
	case ErrGuestListNotFound, ErrMemberNotFound:
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case ErrNotGuestListHost:
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	default:
		return err
	}
}
