package collaborators

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"eventhost-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCollaboratorTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Event{}, &models.EventCollaborator{}))
	return &Service{DB: db}, db
}

func seedCollabEvent(t *testing.T, db *gorm.DB, hostID uuid.UUID) *models.Event {
	event := &models.Event{
		HostID:        hostID,
		Title:         "Workshop",
		StartDateTime: time.Now().Add(24 * time.Hour),
		Status:        models.EventStatusUpcoming,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user := &models.User{Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestInviteCollaborator(t *testing.T) {
	s, db := setupCollaboratorTest(t)
	hostID := uuid.New()
	inviter := uuid.New()
	event := seedCollabEvent(t, db, hostID)
	user := seedUser(t, db, "helper@example.com")

	collab, err := s.Invite(context.Background(), hostID, inviter, event.EventID, InviteInput{
		Email:       "helper@example.com",
		Role:        models.CollaboratorRoleCoHost,
		Permissions: []string{"manage_guests", "send_messages"},
	})
	require.NoError(t, err)
	assert.Equal(t, user.UserID, collab.UserID)
	assert.Equal(t, models.CollaboratorPending, collab.Status)
	assert.Equal(t, inviter, collab.InvitedBy)

	var perms []string
	require.NoError(t, json.Unmarshal(collab.Permissions, &perms))
	assert.Equal(t, []string{"manage_guests", "send_messages"}, perms)

	_, err = s.Invite(context.Background(), hostID, inviter, event.EventID, InviteInput{
		Email: "helper@example.com",
		Role:  models.CollaboratorRoleOrganizer,
	})
	assert.ErrorIs(t, err, ErrAlreadyCollaborator)
}

func TestInvite_Validation(t *testing.T) {
	s, db := setupCollaboratorTest(t)
	hostID := uuid.New()
	event := seedCollabEvent(t, db, hostID)

	_, err := s.Invite(context.Background(), hostID, uuid.New(), event.EventID, InviteInput{
		Email: "x@example.com",
		Role:  "owner",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = s.Invite(context.Background(), hostID, uuid.New(), event.EventID, InviteInput{
		Email: "stranger@example.com",
		Role:  models.CollaboratorRoleCollaborator,
	})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.Invite(context.Background(), uuid.New(), uuid.New(), event.EventID, InviteInput{
		Email: "x@example.com",
		Role:  models.CollaboratorRoleCollaborator,
	})
	assert.ErrorIs(t, err, ErrNotEventHost)
}

func TestUpdateCollaborator_Status(t *testing.T) {
	s, db := setupCollaboratorTest(t)
	hostID := uuid.New()
	event := seedCollabEvent(t, db, hostID)
	seedUser(t, db, "helper@example.com")

	collab, err := s.Invite(context.Background(), hostID, uuid.New(), event.EventID, InviteInput{
		Email: "helper@example.com",
		Role:  models.CollaboratorRoleCollaborator,
	})
	require.NoError(t, err)

	for _, status := range []string{models.CollaboratorAccepted, models.CollaboratorDeclined, models.CollaboratorPending} {
		st := status
		got, err := s.Update(context.Background(), hostID, event.EventID, collab.CollaboratorID, UpdateInput{Status: &st})
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}

	bad := "ghosted"
	_, err = s.Update(context.Background(), hostID, event.EventID, collab.CollaboratorID, UpdateInput{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListForEvent_ResolvesEmails(t *testing.T) {
	s, db := setupCollaboratorTest(t)
	hostID := uuid.New()
	event := seedCollabEvent(t, db, hostID)
	seedUser(t, db, "one@example.com")
	seedUser(t, db, "two@example.com")

	for _, email := range []string{"one@example.com", "two@example.com"} {
		_, err := s.Invite(context.Background(), hostID, uuid.New(), event.EventID, InviteInput{
			Email: email,
			Role:  models.CollaboratorRoleCollaborator,
		})
		require.NoError(t, err)
	}

	out, err := s.ListForEvent(context.Background(), hostID, event.EventID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "one@example.com", out[0].Email)
	assert.Equal(t, "two@example.com", out[1].Email)
}

func TestRemoveCollaborator(t *testing.T) {
	s, db := setupCollaboratorTest(t)
	hostID := uuid.New()
	event := seedCollabEvent(t, db, hostID)
	seedUser(t, db, "temp@example.com")

	collab, err := s.Invite(context.Background(), hostID, uuid.New(), event.EventID, InviteInput{
		Email: "temp@example.com",
		Role:  models.CollaboratorRoleCollaborator,
	})
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), hostID, event.EventID, collab.CollaboratorID))
	err = s.Remove(context.Background(), hostID, event.EventID, collab.CollaboratorID)
	assert.ErrorIs(t, err, ErrCollaboratorNotFound)
}
