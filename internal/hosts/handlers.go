package hosts

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"eventhost-backend/internal/middleware"
	"eventhost-backend/internal/pkg/response"
	"eventhost-backend/internal/uploads"
)

type Handlers struct {
	Service *Service
	Uploads *uploads.Service
}

func (h *Handlers) GetMe(c *fiber.Ctx) error {
	hostID, err := sessionHost(c)
	if err != nil {
		return err
	}
	host, err := h.Service.GetHost(c.Context(), hostID)
	if err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Host profile retrieved", host, nil)
}

type profileBody struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

func (h *Handlers) UpdateMe(c *fiber.Ctx) error {
	hostID, err := sessionHost(c)
	if err != nil {
		return err
	}
	var body profileBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	host, err := h.Service.UpdateProfile(c.Context(), hostID, ProfileInput{Name: body.Name, Bio: body.Bio})
	if err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Host profile updated", host, nil)
}

type pictureBody struct {
	PictureURL string `json:"pictureURL"`
}

// SetPicture PUT /api/host-pictures accepts the raw upload URL and stores
// its normalized object path on the profile.
func (h *Handlers) SetPicture(c *fiber.Ctx) error {
	hostID, err := sessionHost(c)
	if err != nil {
		return err
	}
	var body pictureBody
	if err := c.BodyParser(&body); err != nil || body.PictureURL == "" {
		return fiber.NewError(fiber.StatusBadRequest, "pictureURL is required")
	}
	objectPath := body.PictureURL
	if h.Uploads != nil {
		objectPath = h.Uploads.NormalizeObjectPath(body.PictureURL)
	}
	host, err := h.Service.SetPicture(c.Context(), hostID, objectPath)
	if err != nil {
		return serviceError(err)
	}
	return response.Success(c, "Host picture updated", host, nil)
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

func serviceError(err error) error {
	if err == ErrHostNotFound {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}
