package health

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Rdb *redis.Client
	DB  DBPinger
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	ctx := context.Background()
	result := CollectHealth(ctx, h.Rdb, h.DB)
	out := map[string]interface{}{
		"service":      "eventhost-api",
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dependencies": result.Dependencies,
	}
	return c.JSON(out)
}
