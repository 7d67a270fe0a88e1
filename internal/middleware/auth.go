package middleware

import (
	"eventhost-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with the standard
// error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not signed in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// SessionActor is the decoded session user used by host-facing handlers.
type SessionActor struct {
	UserID string
	Email  string
	HostID string
}

// GetActor decodes the session user map; nil when not signed in or malformed.
func GetActor(c *fiber.Ctx) *SessionActor {
	u := GetUser(c)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil
	}
	email, _ := m["email"].(string)
	hostID, _ := m["host_id"].(string)
	return &SessionActor{UserID: userID, Email: email, HostID: hostID}
}
