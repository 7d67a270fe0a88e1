package health

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"eventhost-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okPinger struct{}

func (okPinger) Ping() error { return nil }

func TestHealthJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	require.NoError(t, mr.Set(middleware.KeyReqTotal, "10"))
	require.NoError(t, mr.Set(middleware.KeyReqErrors, "2"))
	require.NoError(t, mr.Set(middleware.KeyResTime, "120.5"))
	require.NoError(t, mr.Set(middleware.KeyResCount, "10"))

	app := fiber.New()
	h := &Handlers{Rdb: rdb, DB: okPinger{}}
	app.Get("/health/json", h.JSON)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Service string `json:"service"`
		Status  string `json:"status"`
		Traffic struct {
			TotalRequests int    `json:"totalRequests"`
			SuccessCount  int    `json:"successCount"`
			FailedCount   int    `json:"failedCount"`
			SuccessRate   string `json:"successRate"`
		} `json:"traffic"`
		Dependencies map[string]struct {
			Status string `json:"status"`
		} `json:"dependencies"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "eventhost-api", body.Service)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 10, body.Traffic.TotalRequests)
	assert.Equal(t, 8, body.Traffic.SuccessCount)
	assert.Equal(t, 2, body.Traffic.FailedCount)
	assert.Equal(t, "80.0", body.Traffic.SuccessRate)
	assert.Equal(t, "connected", body.Dependencies["database"].Status)
	assert.Equal(t, "connected", body.Dependencies["redis"].Status)
}

func TestHealthJSON_NoDatabase(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app := fiber.New()
	h := &Handlers{Rdb: rdb, DB: nil}
	app.Get("/health/json", h.JSON)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil), -1)
	require.NoError(t, err)

	var body struct {
		Status       string `json:"status"`
		Dependencies map[string]struct {
			Status string `json:"status"`
		} `json:"dependencies"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "issue", body.Status)
	assert.Equal(t, "disconnected", body.Dependencies["database"].Status)
}
