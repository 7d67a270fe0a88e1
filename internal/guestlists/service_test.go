package guestlists

import (
	"context"
	"testing"

	"eventhost-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupGuestListTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.GuestList{}, &models.GuestListMember{}, &models.EventGroupGuestList{}))
	return &Service{DB: db}, db
}

func strPtr(s string) *string { return &s }

func TestGuestListLifecycle(t *testing.T) {
	s, _ := setupGuestListTest(t)
	hostID := uuid.New()

	list, err := s.CreateGuestList(context.Background(), hostID, GuestListInput{Name: "Family"})
	require.NoError(t, err)

	members, err := s.AddMembers(context.Background(), hostID, list.GuestListID, []MemberInput{
		{Name: "Aunt May", Email: strPtr("may@example.com")},
		{Name: "Uncle Ben", Phone: strPtr("+15550001111")},
	})
	require.NoError(t, err)
	assert.Len(t, members, 2)

	detail, err := s.GetGuestList(context.Background(), hostID, list.GuestListID)
	require.NoError(t, err)
	assert.Equal(t, "Family", detail.Name)
	require.Len(t, detail.Members, 2)
	assert.Equal(t, "Aunt May", detail.Members[0].Name)

	require.NoError(t, s.RemoveMember(context.Background(), hostID, list.GuestListID, detail.Members[0].MemberID))
	left, err := s.ListMembers(context.Background(), hostID, list.GuestListID)
	require.NoError(t, err)
	assert.Len(t, left, 1)

	err = s.RemoveMember(context.Background(), hostID, list.GuestListID, uuid.New())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestGuestList_NotOwner(t *testing.T) {
	s, _ := setupGuestListTest(t)
	list, err := s.CreateGuestList(context.Background(), uuid.New(), GuestListInput{Name: "Work"})
	require.NoError(t, err)

	_, err = s.GetGuestList(context.Background(), uuid.New(), list.GuestListID)
	assert.ErrorIs(t, err, ErrNotGuestListHost)

	_, err = s.AddMembers(context.Background(), uuid.New(), list.GuestListID, []MemberInput{{Name: "Mole"}})
	assert.ErrorIs(t, err, ErrNotGuestListHost)
}

// TestDeleteGuestList_RemovesLinks: deleting a list also drops its members
// and any group links pointing at it.
func TestDeleteGuestList_RemovesLinks(t *testing.T) {
	s, db := setupGuestListTest(t)
	hostID := uuid.New()
	list, err := s.CreateGuestList(context.Background(), hostID, GuestListInput{Name: "Neighbors"})
	require.NoError(t, err)
	_, err = s.AddMembers(context.Background(), hostID, list.GuestListID, []MemberInput{{Name: "Next Door"}})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.EventGroupGuestList{
		GroupID:     uuid.New(),
		GuestListID: list.GuestListID,
	}).Error)

	require.NoError(t, s.DeleteGuestList(context.Background(), hostID, list.GuestListID))

	var memberCount, linkCount int64
	require.NoError(t, db.Model(&models.GuestListMember{}).Where("guest_list_id = ?", list.GuestListID).Count(&memberCount).Error)
	require.NoError(t, db.Model(&models.EventGroupGuestList{}).Where("guest_list_id = ?", list.GuestListID).Count(&linkCount).Error)
	assert.EqualValues(t, 0, memberCount)
	assert.EqualValues(t, 0, linkCount)

	_, err = s.GetGuestList(context.Background(), hostID, list.GuestListID)
	assert.ErrorIs(t, err, ErrGuestListNotFound)
}

func TestUpdateGuestList(t *testing.T) {
	s, _ := setupGuestListTest(t)
	hostID := uuid.New()
	list, err := s.CreateGuestList(context.Background(), hostID, GuestListInput{Name: "Old Name"})
	require.NoError(t, err)

	updated, err := s.UpdateGuestList(context.Background(), hostID, list.GuestListID, GuestListInput{
		Name:        "New Name",
		Description: strPtr("renamed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "renamed", *updated.Description)
}
