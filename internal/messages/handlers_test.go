package messages

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"eventhost-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupMessageTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Host{}, &models.Event{}, &models.Invitation{}, &models.EventMessage{}))
	return &Service{DB: db}, db
}

func strPtr(s string) *string { return &s }

func seedChat(t *testing.T, db *gorm.DB) (*models.Host, *models.Event, *models.Invitation) {
	host := &models.Host{Email: "host@example.com", Name: "Hannah"}
	require.NoError(t, db.Create(host).Error)
	event := &models.Event{
		HostID:        host.HostID,
		Title:         "Picnic",
		StartDateTime: time.Now().Add(24 * time.Hour),
		Status:        models.EventStatusUpcoming,
	}
	require.NoError(t, db.Create(event).Error)
	inv := &models.Invitation{
		EventID:    event.EventID,
		Token:      uuid.New().String(),
		Email:      strPtr("guest@example.com"),
		Name:       strPtr("Greta"),
		RSVPStatus: models.RSVPYes,
	}
	require.NoError(t, db.Create(inv).Error)
	return host, event, inv
}

// TestGuestSend_ViaToken: a guest posts to the chat with only the invite
// token, no session.
func TestGuestSend_ViaToken(t *testing.T) {
	s, db := setupMessageTest(t)
	_, event, inv := seedChat(t, db)

	h := &Handlers{Service: s}
	app := fiber.New()
	app.Post("/api/events/:id/messages", h.SendMessage)

	body, _ := json.Marshal(map[string]string{"message": "can I bring a friend?"})
	req := httptest.NewRequest("POST", "/api/events/"+event.EventID.String()+"/messages?token="+inv.Token, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var stored models.EventMessage
	require.NoError(t, db.Where("event_id = ?", event.EventID).First(&stored).Error)
	assert.Equal(t, models.SenderTypeGuest, stored.SenderType)
	assert.Equal(t, inv.InvitationID, stored.SenderID)
}

// TestGuestSend_MessageBlocked: a message-blocked invitation can no longer
// write but the block is per-guest, not per-event.
func TestGuestSend_MessageBlocked(t *testing.T) {
	s, db := setupMessageTest(t)
	_, event, inv := seedChat(t, db)
	require.NoError(t, db.Model(inv).Update("message_blocked", true).Error)

	h := &Handlers{Service: s}
	app := fiber.New()
	app.Post("/api/events/:id/messages", h.SendMessage)

	body, _ := json.Marshal(map[string]string{"message": "hello?"})
	req := httptest.NewRequest("POST", "/api/events/"+event.EventID.String()+"/messages?token="+inv.Token, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	other := &models.Invitation{
		EventID:    event.EventID,
		Token:      uuid.New().String(),
		RSVPStatus: models.RSVPPending,
	}
	require.NoError(t, db.Create(other).Error)
	_, err = s.SendAsGuest(context.Background(), other.Token, event.EventID, "still works")
	assert.NoError(t, err)
}

// TestGuestSend_WrongEvent: a valid token scoped to another event reads as
// not found, not forbidden.
func TestGuestSend_WrongEvent(t *testing.T) {
	s, db := setupMessageTest(t)
	host, _, inv := seedChat(t, db)

	otherEvent := &models.Event{
		HostID:        host.HostID,
		Title:         "Different Night",
		StartDateTime: time.Now().Add(48 * time.Hour),
		Status:        models.EventStatusUpcoming,
	}
	require.NoError(t, db.Create(otherEvent).Error)

	_, err := s.SendAsGuest(context.Background(), inv.Token, otherEvent.EventID, "wrong room")
	assert.ErrorIs(t, err, ErrWrongEvent)

	_, err = s.SendAsGuest(context.Background(), "no-such-token", otherEvent.EventID, "hi")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// TestListMessages_OrderAndNames: chat reads oldest first with display names
// resolved per sender type.
func TestListMessages_OrderAndNames(t *testing.T) {
	s, db := setupMessageTest(t)
	host, event, inv := seedChat(t, db)

	_, err := s.SendAsHost(context.Background(), host.HostID, event.EventID, "doors at 7")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = s.SendAsGuest(context.Background(), inv.Token, event.EventID, "on my way")
	require.NoError(t, err)

	out, err := s.ListMessages(context.Background(), event.EventID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "doors at 7", out[0].Message)
	assert.Equal(t, "Hannah", out[0].SenderName)
	assert.Equal(t, "on my way", out[1].Message)
	assert.Equal(t, "Greta", out[1].SenderName)
}

func TestSendAsHost_NotOwner(t *testing.T) {
	s, db := setupMessageTest(t)
	_, event, _ := seedChat(t, db)

	_, err := s.SendAsHost(context.Background(), uuid.New(), event.EventID, "who am I")
	assert.ErrorIs(t, err, ErrNotEventHost)
}

func TestSendMessage_Empty(t *testing.T) {
	s, db := setupMessageTest(t)
	host, event, _ := seedChat(t, db)

	_, err := s.SendAsHost(context.Background(), host.HostID, event.EventID, "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}
