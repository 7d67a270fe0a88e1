package uploads

import (
	"github.com/gofiber/fiber/v2"

	"eventhost-backend/internal/pkg/response"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *Service
}

// GetUploadURL POST /api/objects/upload
func (h *Handlers) GetUploadURL(c *fiber.Ctx) error {
	res, err := h.Service.GetUploadURL(c.Context())
	if err != nil {
		if err == ErrStorageDisabled {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return response.Error(c, "Failed to generate upload URL", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Upload URL generated", res, nil)
}

// ServeObject GET /objects/:path* redirects to a short-lived signed URL.
func (h *Handlers) ServeObject(c *fiber.Ctx) error {
	objectPath := "/objects/" + c.Params("*")
	signed, err := h.Service.ResolveObjectURL(c.Context(), objectPath)
	if err != nil {
		switch err {
		case ErrObjectNotFound:
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case ErrStorageDisabled:
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		default:
			return err
		}
	}
	return c.Redirect(signed, fiber.StatusTemporaryRedirect)
}
