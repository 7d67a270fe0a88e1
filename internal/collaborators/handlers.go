package collaborators

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"eventhost-backend/internal/middleware"
	"eventhost-backend/internal/pkg/response"
	"eventhost-backend/internal/pkg/validation"
)

type Handlers struct {
	Service *Service
}

type inviteBody struct {
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (h *Handlers) Invite(c *fiber.Ctx) error {
	actor, eventID, err := resolveActorAndEvent(c)
	if err != nil {
		return err
	}
	var body inviteBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if !validation.IsValidEmail(body.Email) {
		return fiber.NewError(fiber.StatusBadRequest, "A valid email is required")
	}
	collab, err := h.Service.Invite(c.Context(), actor.HostID, actor.UserID, eventID, InviteInput{
		Email:       body.Email,
		Role:        body.Role,
		Permissions: body.Permissions,
	})
	if err != nil {
		return serviceError(err)
	}
	return response.SuccessCreated(c, "Collaborator invited", collab, nil)
}

func (h *Handlers) ListForEvent(c *fiber.Ctx) error {
	actor, eventID, err := resolveActorAndEvent(c)
	if err != nil {
		return err
	}
	list, err := h.Service.ListForEvent(c.Context(), actor.HostID, eventID)
	if err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Collaborators retrieved", list, nil)
}

type updateBody struct {
	Role        *string  `json:"role"`
	Permissions []string `json:"permissions"`
	Status      *string  `json:"status"`
}

func (h *Handlers) Update(c *fiber.Ctx) error {
	actor, eventID, err := resolveActorAndEvent(c)
	if err != nil {
		return err
	}
	collaboratorID, err := uuid.Parse(c.Params("collaboratorId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid collaborator id")
	}
	var body updateBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	collab, err := h.Service.Update(c.Context(), actor.HostID, eventID, collaboratorID, UpdateInput{
		Role:        body.Role,
		Permissions: body.Permissions,
		Status:      body.Status,
	})
	if err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Collaborator updated", collab, nil)
}

func (h *Handlers) Remove(c *fiber.Ctx) error {
	actor, eventID, err := resolveActorAndEvent(c)
	if err != nil {
		return err
	}
	collaboratorID, err := uuid.Parse(c.Params("collaboratorId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid collaborator id")
	}
	if err := h.Service.Remove(c.Context(), actor.HostID, eventID, collaboratorID); err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Collaborator removed", nil, nil)
}

type actorIDs struct {
	HostID uuid.UUID
	UserID uuid.UUID
}

func resolveActorAndEvent(c *fiber.Ctx) (actorIDs, uuid.UUID, error) {
	actor := middleware.GetActor(c)
	if actor == nil {
		return actorIDs{}, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	hostID, err := uuid.Parse(actor.HostID)
	if err != nil {
		return actorIDs{}, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return actorIDs{}, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return actorIDs{}, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid event id")
	}
	return actorIDs{HostID: hostID, UserID: userID}, eventID, nil
}

func serviceError(err error) error {
	switch err {
	case ErrEventNotFound, ErrCollaboratorNotFound, ErrUserNotFound:
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case ErrNotEventHost:
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case ErrInvalidRole, ErrInvalidStatus, ErrAlreadyCollaborator:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}
