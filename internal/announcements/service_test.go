package announcements

import (
	"context"
	"testing"
	"time"

	"eventhost-backend/internal/emails"
	"eventhost-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recorderSender captures outgoing emails instead of calling Resend.
type recorderSender struct {
	announcements []string
}

func (r *recorderSender) SendInvitation(ctx context.Context, toEmail, guestName, eventTitle, inviteLink string) error {
	return nil
}

func (r *recorderSender) SendCancellation(ctx context.Context, toEmail, guestName, eventTitle string) error {
	return nil
}

func (r *recorderSender) SendAnnouncement(ctx context.Context, toEmail, title, content string) error {
	r.announcements = append(r.announcements, toEmail)
	return nil
}

func (r *recorderSender) SendPollInvite(ctx context.Context, toEmail, pollTitle string, voteLinks []emails.VoteLink) error {
	return nil
}

func setupAnnouncementTest(t *testing.T) (*Service, *gorm.DB, *recorderSender) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Announcement{}, &models.Event{}, &models.Invitation{}))
	sender := &recorderSender{}
	return &Service{DB: db, Email: sender}, db, sender
}

func strPtr(s string) *string { return &s }

func seedAnnouncementEvent(t *testing.T, db *gorm.DB, hostID uuid.UUID) *models.Event {
	event := &models.Event{
		HostID:        hostID,
		Title:         "Launch Night",
		StartDateTime: time.Now().Add(24 * time.Hour),
		Status:        models.EventStatusUpcoming,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func seedInvitation(t *testing.T, db *gorm.DB, eventID uuid.UUID, email *string, rsvp string) {
	require.NoError(t, db.Create(&models.Invitation{
		EventID:    eventID,
		Token:      uuid.New().String(),
		Email:      email,
		RSVPStatus: rsvp,
	}).Error)
}

func TestCreateAnnouncement_AudienceRules(t *testing.T) {
	s, db, _ := setupAnnouncementTest(t)
	hostID := uuid.New()

	_, err := s.CreateAnnouncement(context.Background(), hostID, AnnouncementInput{
		Title: "Hi", Content: "x", TargetAudience: "everyone",
	})
	assert.ErrorIs(t, err, ErrInvalidAudience)

	_, err = s.CreateAnnouncement(context.Background(), hostID, AnnouncementInput{
		Title: "Hi", Content: "x", TargetAudience: models.AudienceEventAttendees,
	})
	assert.ErrorIs(t, err, ErrEventRequired)

	foreign := seedAnnouncementEvent(t, db, uuid.New())
	_, err = s.CreateAnnouncement(context.Background(), hostID, AnnouncementInput{
		EventID: &foreign.EventID, Title: "Hi", Content: "x", TargetAudience: models.AudienceEventAttendees,
	})
	assert.ErrorIs(t, err, ErrEventNotFound)

	own := seedAnnouncementEvent(t, db, hostID)
	a, err := s.CreateAnnouncement(context.Background(), hostID, AnnouncementInput{
		EventID: &own.EventID, Title: "Hi", Content: "x", TargetAudience: models.AudienceEventAttendees,
	})
	require.NoError(t, err)
	assert.False(t, a.IsPublished)
	assert.Nil(t, a.PublishedAt)
}

// TestPublish_EventAttendees: only yes responders with an email on the
// linked event receive the mail, and PublishedAt is stamped exactly once.
func TestPublish_EventAttendees(t *testing.T) {
	s, db, sender := setupAnnouncementTest(t)
	hostID := uuid.New()
	event := seedAnnouncementEvent(t, db, hostID)

	seedInvitation(t, db, event.EventID, strPtr("yes@example.com"), models.RSVPYes)
	seedInvitation(t, db, event.EventID, strPtr("no@example.com"), models.RSVPNo)
	seedInvitation(t, db, event.EventID, nil, models.RSVPYes)

	a, err := s.CreateAnnouncement(context.Background(), hostID, AnnouncementInput{
		EventID: &event.EventID, Title: "Venue change", Content: "New address inside",
		TargetAudience: models.AudienceEventAttendees,
	})
	require.NoError(t, err)

	published, sent, err := s.Publish(context.Background(), hostID, a.AnnouncementID)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"yes@example.com"}, sender.announcements)
	assert.True(t, published.IsPublished)
	require.NotNil(t, published.PublishedAt)
	firstStamp := *published.PublishedAt

	time.Sleep(5 * time.Millisecond)
	again, _, err := s.Publish(context.Background(), hostID, a.AnnouncementID)
	require.NoError(t, err)
	require.NotNil(t, again.PublishedAt)
	assert.WithinDuration(t, firstStamp, *again.PublishedAt, time.Millisecond)
}

// TestPublish_AllUsers: the audience spans every distinct invited email
// across the host's events, never another host's guests.
func TestPublish_AllUsers(t *testing.T) {
	s, db, sender := setupAnnouncementTest(t)
	hostID := uuid.New()
	eventA := seedAnnouncementEvent(t, db, hostID)
	eventB := seedAnnouncementEvent(t, db, hostID)
	foreign := seedAnnouncementEvent(t, db, uuid.New())

	seedInvitation(t, db, eventA.EventID, strPtr("shared@example.com"), models.RSVPPending)
	seedInvitation(t, db, eventB.EventID, strPtr("shared@example.com"), models.RSVPYes)
	seedInvitation(t, db, eventB.EventID, strPtr("solo@example.com"), models.RSVPNo)
	seedInvitation(t, db, foreign.EventID, strPtr("other-host@example.com"), models.RSVPYes)

	a, err := s.CreateAnnouncement(context.Background(), hostID, AnnouncementInput{
		Title: "Season wrap", Content: "Thanks all", TargetAudience: models.AudienceAllUsers,
	})
	require.NoError(t, err)

	_, sent, err := s.Publish(context.Background(), hostID, a.AnnouncementID)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.ElementsMatch(t, []string{"shared@example.com", "solo@example.com"}, sender.announcements)
}

func TestUpdateAnnouncement_AudiencePairing(t *testing.T) {
	s, db, _ := setupAnnouncementTest(t)
	hostID := uuid.New()
	a, err := s.CreateAnnouncement(context.Background(), hostID, AnnouncementInput{
		Title: "Draft", Content: "tbd", TargetAudience: models.AudienceAllUsers,
	})
	require.NoError(t, err)

	attendees := models.AudienceEventAttendees
	_, err = s.UpdateAnnouncement(context.Background(), hostID, a.AnnouncementID, UpdateAnnouncementInput{
		TargetAudience: &attendees,
	})
	assert.ErrorIs(t, err, ErrEventRequired)

	event := seedAnnouncementEvent(t, db, hostID)
	updated, err := s.UpdateAnnouncement(context.Background(), hostID, a.AnnouncementID, UpdateAnnouncementInput{
		TargetAudience: &attendees,
		EventID:        &event.EventID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AudienceEventAttendees, updated.TargetAudience)
}

func TestAnnouncement_NotOwner(t *testing.T) {
	s, _, _ := setupAnnouncementTest(t)
	a, err := s.CreateAnnouncement(context.Background(), uuid.New(), AnnouncementInput{
		Title: "Private", Content: "x", TargetAudience: models.AudienceAllUsers,
	})
	require.NoError(t, err)

	_, _, err = s.Publish(context.Background(), uuid.New(), a.AnnouncementID)
	assert.ErrorIs(t, err, ErrNotAnnouncementHost)
}
