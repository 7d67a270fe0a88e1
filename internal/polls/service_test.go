package polls

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"eventhost-backend/internal/emails"
	"eventhost-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPollTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Poll{}, &models.PollVote{}, &models.Event{}))
	return &Service{DB: db}, db
}

func seedPoll(t *testing.T, s *Service, hostID uuid.UUID, multiple bool) *models.Poll {
	poll, err := s.CreatePoll(context.Background(), hostID, CreatePollInput{
		Title:                "Where should we meet?",
		Options:              []string{"The park", "The beach"},
		AllowMultipleChoices: multiple,
		EndDate:              time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)
	return poll
}

func emailPtr(s string) *string { return &s }

func TestCreatePoll_TooFewOptions(t *testing.T) {
	s, _ := setupPollTest(t)
	_, err := s.CreatePoll(context.Background(), uuid.New(), CreatePollInput{
		Title:   "Empty",
		Options: []string{"Only one", "  "},
		EndDate: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrTooFewOptions)
}

// TestTally: per-option counts are computed per index over every ballot, so a
// multi-choice ballot contributes to each option it names while TotalVotes
// counts ballots, not marks.
func TestTally(t *testing.T) {
	s, _ := setupPollTest(t)
	poll := seedPoll(t, s, uuid.New(), true)

	ballots := []struct {
		email    string
		selected []string
	}{
		{"a@example.com", []string{"0"}},
		{"b@example.com", []string{"1"}},
		{"c@example.com", []string{"0", "1"}},
	}
	for _, b := range ballots {
		_, err := s.Vote(context.Background(), poll.PollID, VoteInput{
			VoterEmail:      emailPtr(b.email),
			SelectedOptions: b.selected,
		})
		require.NoError(t, err)
	}

	tally, err := s.GetWithTally(context.Background(), poll.PollID)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, tally.VoteCounts)
	assert.Equal(t, 3, tally.TotalVotes)
}

// TestVote_Overwrite: a repeat vote from the same email keeps a single row
// and the latest selection wins. Email matching ignores case.
func TestVote_Overwrite(t *testing.T) {
	s, db := setupPollTest(t)
	poll := seedPoll(t, s, uuid.New(), false)

	_, err := s.Vote(context.Background(), poll.PollID, VoteInput{
		VoterEmail:      emailPtr("Voter@Example.com"),
		SelectedOptions: []string{"0"},
	})
	require.NoError(t, err)
	_, err = s.Vote(context.Background(), poll.PollID, VoteInput{
		VoterEmail:      emailPtr("voter@example.com"),
		SelectedOptions: []string{"1"},
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.PollVote{}).Where("poll_id = ?", poll.PollID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	tally, err := s.GetWithTally(context.Background(), poll.PollID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, tally.VoteCounts)
}

func TestVote_Validation(t *testing.T) {
	s, _ := setupPollTest(t)
	poll := seedPoll(t, s, uuid.New(), false)

	_, err := s.Vote(context.Background(), poll.PollID, VoteInput{SelectedOptions: []string{"0"}})
	assert.ErrorIs(t, err, ErrNoIdentity)

	_, err = s.Vote(context.Background(), poll.PollID, VoteInput{VoterEmail: emailPtr("v@example.com")})
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = s.Vote(context.Background(), poll.PollID, VoteInput{
		VoterEmail:      emailPtr("v@example.com"),
		SelectedOptions: []string{"0", "1"},
	})
	assert.ErrorIs(t, err, ErrSingleChoiceOnly)

	_, err = s.Vote(context.Background(), poll.PollID, VoteInput{
		VoterEmail:      emailPtr("v@example.com"),
		SelectedOptions: []string{"7"},
	})
	assert.ErrorIs(t, err, ErrOptionOutOfRange)
}

// TestVote_ExpiredPoll: the end date is checked against the clock at vote
// time even while the stored status is still active.
func TestVote_ExpiredPoll(t *testing.T) {
	s, db := setupPollTest(t)
	poll := seedPoll(t, s, uuid.New(), false)
	require.NoError(t, db.Model(poll).Update("end_date", time.Now().Add(-time.Hour)).Error)

	h := &Handlers{Service: s, BaseURL: "http://localhost:8080"}
	app := fiber.New()
	app.Post("/api/polls/:id/vote", h.Vote)

	body, _ := json.Marshal(map[string]interface{}{
		"voter_email":      "late@example.com",
		"selected_options": []string{"0"},
	})
	req := httptest.NewRequest("POST", "/api/polls/"+poll.PollID.String()+"/vote", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestVote_EndedPoll(t *testing.T) {
	s, _ := setupPollTest(t)
	hostID := uuid.New()
	poll := seedPoll(t, s, hostID, false)
	_, err := s.EndPoll(context.Background(), hostID, poll.PollID)
	require.NoError(t, err)

	_, err = s.Vote(context.Background(), poll.PollID, VoteInput{
		VoterEmail:      emailPtr("v@example.com"),
		SelectedOptions: []string{"0"},
	})
	assert.ErrorIs(t, err, ErrPollNotActive)
}

func TestEndPoll_Idempotent(t *testing.T) {
	s, _ := setupPollTest(t)
	hostID := uuid.New()
	poll := seedPoll(t, s, hostID, false)

	for i := 0; i < 2; i++ {
		got, err := s.EndPoll(context.Background(), hostID, poll.PollID)
		require.NoError(t, err)
		assert.Equal(t, models.PollStatusEnded, got.Status)
	}
}

func TestConvertToEvent(t *testing.T) {
	s, _ := setupPollTest(t)
	hostID := uuid.New()
	poll := seedPoll(t, s, hostID, false)

	start := time.Now().Add(96 * time.Hour).Truncate(time.Second)
	event, converted, err := s.ConvertToEvent(context.Background(), hostID, poll.PollID, ConvertInput{
		StartDateTime: start,
	})
	require.NoError(t, err)
	assert.Equal(t, poll.Title, event.Title)
	assert.Equal(t, hostID, event.HostID)
	assert.Equal(t, models.EventStatusUpcoming, event.Status)
	assert.Equal(t, models.PollStatusConverted, converted.Status)
	require.NotNil(t, converted.ConvertedEventID)
	assert.Equal(t, event.EventID, *converted.ConvertedEventID)

	_, _, err = s.ConvertToEvent(context.Background(), hostID, poll.PollID, ConvertInput{StartDateTime: start})
	assert.ErrorIs(t, err, ErrAlreadyConverted)
}

func TestConvertToEvent_NotOwner(t *testing.T) {
	s, _ := setupPollTest(t)
	poll := seedPoll(t, s, uuid.New(), false)

	_, _, err := s.ConvertToEvent(context.Background(), uuid.New(), poll.PollID, ConvertInput{
		StartDateTime: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrNotPollHost)
}

// TestVoteEmail_Redirect: the one-click email link records the ballot and
// bounces the voter to the poll page.
func TestVoteEmail_Redirect(t *testing.T) {
	s, _ := setupPollTest(t)
	poll := seedPoll(t, s, uuid.New(), false)

	h := &Handlers{Service: s, BaseURL: "http://localhost:8080"}
	app := fiber.New()
	app.Get("/api/polls/:id/vote-email", h.VoteEmail)

	req := httptest.NewRequest("GET", "/api/polls/"+poll.PollID.String()+"/vote-email?email=guest%40example.com&option=1&name=Ada", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/polls/"+poll.PollID.String())

	tally, err := s.GetWithTally(context.Background(), poll.PollID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, tally.VoteCounts)
}

type pollInviteRecorder struct {
	invites []struct {
		To    string
		Title string
		Links []emails.VoteLink
	}
	failFor map[string]bool
}

func (r *pollInviteRecorder) SendInvitation(ctx context.Context, toEmail, guestName, eventTitle, inviteLink string) error {
	return nil
}

func (r *pollInviteRecorder) SendCancellation(ctx context.Context, toEmail, guestName, eventTitle string) error {
	return nil
}

func (r *pollInviteRecorder) SendAnnouncement(ctx context.Context, toEmail, title, content string) error {
	return nil
}

func (r *pollInviteRecorder) SendPollInvite(ctx context.Context, toEmail, pollTitle string, voteLinks []emails.VoteLink) error {
	if r.failFor[toEmail] {
		return assert.AnError
	}
	r.invites = append(r.invites, struct {
		To    string
		Title string
		Links []emails.VoteLink
	}{toEmail, pollTitle, voteLinks})
	return nil
}

// TestSendInvites: every recipient gets one mail carrying a vote link per
// option, and a failed send lowers the count without aborting the batch.
func TestSendInvites(t *testing.T) {
	s, _ := setupPollTest(t)
	s.Email = &pollInviteRecorder{failFor: map[string]bool{"down@example.com": true}}
	s.BaseURL = "http://localhost:8080"
	hostID := uuid.New()
	poll := seedPoll(t, s, hostID, false)

	sent, err := s.SendInvites(context.Background(), hostID, poll.PollID,
		[]string{"a@example.com", "down@example.com", "b@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	rec := s.Email.(*pollInviteRecorder)
	require.Len(t, rec.invites, 2)
	assert.Equal(t, "a@example.com", rec.invites[0].To)
	assert.Equal(t, poll.Title, rec.invites[0].Title)
	require.Len(t, rec.invites[0].Links, 2)
	assert.Equal(t, "The park", rec.invites[0].Links[0].Label)
	assert.Contains(t, rec.invites[0].Links[0].URL, "/api/polls/"+poll.PollID.String()+"/vote-email?")
	assert.Contains(t, rec.invites[0].Links[0].URL, "option=0")
	assert.Contains(t, rec.invites[0].Links[1].URL, "option=1")
}

func TestSendInvites_EndedPoll(t *testing.T) {
	s, _ := setupPollTest(t)
	s.Email = &pollInviteRecorder{}
	hostID := uuid.New()
	poll := seedPoll(t, s, hostID, false)
	_, err := s.EndPoll(context.Background(), hostID, poll.PollID)
	require.NoError(t, err)

	_, err = s.SendInvites(context.Background(), hostID, poll.PollID, []string{"a@example.com"})
	assert.ErrorIs(t, err, ErrPollNotActive)
}
