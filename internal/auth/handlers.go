package auth

import (
	"context"

	"eventhost-backend/internal/middleware"
	"eventhost-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// Signup POST /api/auth/signup creates a User and its Host, then starts a session.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req SignupInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}

	user, host, err := h.Service.Signup(c.Context(), req)
	if err != nil {
		switch err {
		case ErrEmailPasswordRequired, ErrInvalidEmail, ErrInvalidPassword, ErrEmailTaken:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID: user.UserID.String(),
		Email:  user.Email,
		HostID: host.HostID.String(),
	})
	if h.Rdb != nil {
		_ = h.Rdb.SAdd(context.Background(), userSessionsPrefix+user.UserID.String(), sessionID).Err()
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.SuccessCreated(c, "Account created", fiber.Map{
		"user": fiber.Map{
			"user_id": user.UserID.String(),
			"email":   user.Email,
		},
		"host": host,
	}, nil)
}

// Signin POST /api/auth/signin authenticates, creates a session and sets the cookie.
func (h *Handlers) Signin(c *fiber.Ctx) error {
	var req SigninInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}

	user, host, err := h.Service.Signin(c.Context(), req)
	if err != nil {
		switch err {
		case ErrEmailPasswordRequired:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case ErrInvalidEmail, ErrIncorrectPassword:
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID: user.UserID.String(),
		Email:  user.Email,
		HostID: host.HostID.String(),
	})
	if h.Rdb != nil {
		if err := h.Rdb.SAdd(context.Background(), userSessionsPrefix+user.UserID.String(), sessionID).Err(); err != nil {
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Signed in", fiber.Map{
		"user": fiber.Map{
			"user_id": user.UserID.String(),
			"email":   user.Email,
			"host_id": host.HostID.String(),
		},
	}, nil)
}

// Me GET /api/auth/me returns the current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, ErrNotAuthenticated.Error(), fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{
		"user": fiber.Map{
			"user_id": actor.UserID,
			"email":   actor.Email,
			"host_id": actor.HostID,
		},
	}, nil)
}

// Signout POST /api/auth/signout drops the session and clears the cookie.
func (h *Handlers) Signout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	actor := middleware.GetActor(c)

	ctx := context.Background()
	if h.Rdb != nil {
		if actor != nil && sessionID != "" {
			_ = h.Rdb.SRem(ctx, userSessionsPrefix+actor.UserID, sessionID).Err()
		}
		if sessionID != "" {
			_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
		}
	}

	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Signed out", nil, nil)
}
