package groups

import (
	"context"
	"testing"
	"time"

	"eventhost-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupGroupTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.EventGroup{}, &models.EventGroupGuestList{}, &models.GuestList{}, &models.Event{}))
	return &Service{DB: db}, db
}

func TestLinkGuestList(t *testing.T) {
	s, db := setupGroupTest(t)
	hostID := uuid.New()
	group, err := s.CreateGroup(context.Background(), hostID, GroupInput{Title: "Summer Series"})
	require.NoError(t, err)
	list := &models.GuestList{HostID: hostID, Name: "Regulars"}
	require.NoError(t, db.Create(list).Error)

	_, err = s.LinkGuestList(context.Background(), hostID, group.GroupID, list.GuestListID)
	require.NoError(t, err)

	_, err = s.LinkGuestList(context.Background(), hostID, group.GroupID, list.GuestListID)
	assert.ErrorIs(t, err, ErrAlreadyLinked)

	detail, err := s.GetGroup(context.Background(), hostID, group.GroupID)
	require.NoError(t, err)
	require.Len(t, detail.GuestLists, 1)
	assert.Equal(t, "Regulars", detail.GuestLists[0].Name)

	require.NoError(t, s.UnlinkGuestList(context.Background(), hostID, group.GroupID, list.GuestListID))
	detail, err = s.GetGroup(context.Background(), hostID, group.GroupID)
	require.NoError(t, err)
	assert.Empty(t, detail.GuestLists)
}

// TestLinkGuestList_ForeignList: linking someone else's guest list is
// rejected even when the group is yours.
func TestLinkGuestList_ForeignList(t *testing.T) {
	s, db := setupGroupTest(t)
	hostID := uuid.New()
	group, err := s.CreateGroup(context.Background(), hostID, GroupInput{Title: "Mine"})
	require.NoError(t, err)
	foreign := &models.GuestList{HostID: uuid.New(), Name: "Theirs"}
	require.NoError(t, db.Create(foreign).Error)

	_, err = s.LinkGuestList(context.Background(), hostID, group.GroupID, foreign.GuestListID)
	assert.ErrorIs(t, err, ErrNotGuestListHost)

	_, err = s.LinkGuestList(context.Background(), hostID, group.GroupID, uuid.New())
	assert.ErrorIs(t, err, ErrGuestListNotFound)
}

// TestDeleteGroup_DetachesEvents: deleting a group clears group_id on its
// events instead of deleting them.
func TestDeleteGroup_DetachesEvents(t *testing.T) {
	s, db := setupGroupTest(t)
	hostID := uuid.New()
	group, err := s.CreateGroup(context.Background(), hostID, GroupInput{Title: "Doomed"})
	require.NoError(t, err)
	event := &models.Event{
		HostID:        hostID,
		GroupID:       &group.GroupID,
		Title:         "Survivor",
		StartDateTime: time.Now().Add(24 * time.Hour),
		Status:        models.EventStatusUpcoming,
	}
	require.NoError(t, db.Create(event).Error)

	require.NoError(t, s.DeleteGroup(context.Background(), hostID, group.GroupID))

	var got models.Event
	require.NoError(t, db.Where("event_id = ?", event.EventID).First(&got).Error)
	assert.Nil(t, got.GroupID)

	_, err = s.GetGroup(context.Background(), hostID, group.GroupID)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestGroup_NotOwner(t *testing.T) {
	s, _ := setupGroupTest(t)
	group, err := s.CreateGroup(context.Background(), uuid.New(), GroupInput{Title: "Private"})
	require.NoError(t, err)

	_, err = s.GetGroup(context.Background(), uuid.New(), group.GroupID)
	assert.ErrorIs(t, err, ErrNotGroupHost)

	err = s.DeleteGroup(context.Background(), uuid.New(), group.GroupID)
	assert.ErrorIs(t, err, ErrNotGroupHost)
}
