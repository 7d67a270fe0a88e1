package polls

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eventhost-backend/internal/emails"
	"eventhost-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPollNotFound     = errors.New("Poll not found")
	ErrNotPollHost      = errors.New("You do not own this poll")
	ErrPollNotActive    = errors.New("Poll is not active")
	ErrPollExpired      = errors.New("Poll has ended")
	ErrTooFewOptions    = errors.New("At least 2 options are required")
	ErrNoIdentity       = errors.New("user_id or voter_email is required")
	ErrNoSelection      = errors.New("selected_options is required")
	ErrSingleChoiceOnly = errors.New("This poll allows a single choice")
	ErrOptionOutOfRange = errors.New("selected option is out of range")
	ErrAlreadyConverted = errors.New("Poll has already been converted")
)

type Service struct {
	DB      *gorm.DB
	Email   emails.Sender
	BaseURL string
}

type CreatePollInput struct {
	Title                string
	Description          *string
	Options              []string
	AllowMultipleChoices bool
	EndDate              time.Time
}

// CreatePoll stores a poll. Options are trimmed and must leave at least two
// non-empty entries. EndDate is stored as given; a poll may be created
// already expired.
func (s *Service) CreatePoll(ctx context.Context, hostID uuid.UUID, in CreatePollInput) (*models.Poll, error) {
	options := make([]string, 0, len(in.Options))
	for _, o := range in.Options {
		if o = strings.TrimSpace(o); o != "" {
			options = append(options, o)
		}
	}
	if len(options) < 2 {
		return nil, ErrTooFewOptions
	}
	optJSON, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	poll := &models.Poll{
		HostID:               hostID,
		Title:                in.Title,
		Description:          in.Description,
		Options:              datatypes.JSON(optJSON),
		AllowMultipleChoices: in.AllowMultipleChoices,
		EndDate:              in.EndDate,
		Status:               models.PollStatusActive,
	}
	if err := s.DB.WithContext(ctx).Create(poll).Error; err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *Service) ListPolls(ctx context.Context, hostID uuid.UUID) ([]models.Poll, error) {
	var out []models.Poll
	if err := s.DB.WithContext(ctx).Where("host_id = ?", hostID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) getPoll(ctx context.Context, pollID uuid.UUID) (*models.Poll, error) {
	var poll models.Poll
	if err := s.DB.WithContext(ctx).Where("poll_id = ?", pollID).First(&poll).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	return &poll, nil
}

func (s *Service) getOwnedPoll(ctx context.Context, hostID, pollID uuid.UUID) (*models.Poll, error) {
	poll, err := s.getPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll.HostID != hostID {
		return nil, ErrNotPollHost
	}
	return poll, nil
}

// PollWithTally is a poll plus per-option vote counts computed on read.
type PollWithTally struct {
	models.Poll
	VoteCounts []int `json:"voteCounts"`
	TotalVotes int   `json:"totalVotes"`
}

// GetWithTally loads a poll and tallies its votes: for each option index,
// the number of ballots containing that index. O(votes × options).
func (s *Service) GetWithTally(ctx context.Context, pollID uuid.UUID) (*PollWithTally, error) {
	poll, err := s.getPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	options, err := decodeOptions(poll.Options)
	if err != nil {
		return nil, err
	}
	var votes []models.PollVote
	if err := s.DB.WithContext(ctx).Where("poll_id = ?", pollID).Find(&votes).Error; err != nil {
		return nil, err
	}
	counts := make([]int, len(options))
	for _, v := range votes {
		selected, err := decodeSelections(v.SelectedOptions)
		if err != nil {
			continue
		}
		for i := range options {
			idx := strconv.Itoa(i)
			for _, sel := range selected {
				if sel == idx {
					counts[i]++
					break
				}
			}
		}
	}
	return &PollWithTally{Poll: *poll, VoteCounts: counts, TotalVotes: len(votes)}, nil
}

type UpdatePollInput struct {
	Title                *string
	Description          *string
	Options              []string
	AllowMultipleChoices *bool
	EndDate              *time.Time
}

func (s *Service) UpdatePoll(ctx context.Context, hostID, pollID uuid.UUID, in UpdatePollInput) (*models.Poll, error) {
	poll, err := s.getOwnedPoll(ctx, hostID, pollID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		poll.Title = *in.Title
	}
	if in.Description != nil {
		poll.Description = in.Description
	}
	if in.Options != nil {
		options := make([]string, 0, len(in.Options))
		for _, o := range in.Options {
			if o = strings.TrimSpace(o); o != "" {
				options = append(options, o)
			}
		}
		if len(options) < 2 {
			return nil, ErrTooFewOptions
		}
		optJSON, err := json.Marshal(options)
		if err != nil {
			return nil, err
		}
		poll.Options = datatypes.JSON(optJSON)
	}
	if in.AllowMultipleChoices != nil {
		poll.AllowMultipleChoices = *in.AllowMultipleChoices
	}
	if in.EndDate != nil {
		poll.EndDate = *in.EndDate
	}
	if err := s.DB.WithContext(ctx).Save(poll).Error; err != nil {
		return nil, err
	}
	return poll, nil
}

// DeletePoll removes a poll and its votes.
func (s *Service) DeletePoll(ctx context.Context, hostID, pollID uuid.UUID) error {
	poll, err := s.getOwnedPoll(ctx, hostID, pollID)
	if err != nil {
		return err
	}
	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Where("poll_id = ?", poll.PollID).Delete(&models.PollVote{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(poll).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

type VoteInput struct {
	UserID          *uuid.UUID
	VoterEmail      *string
	VoterName       *string
	SelectedOptions []string
}

// Vote records or replaces a ballot. Rejected when the poll is not active or
// past its end date (expiry is checked lazily against the clock, there is no
// background job). Identity is UserID when present, else VoterEmail; a repeat
// vote from the same identity overwrites the previous selection.
func (s *Service) Vote(ctx context.Context, pollID uuid.UUID, in VoteInput) (*models.PollVote, error) {
	poll, err := s.getPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll.Status != models.PollStatusActive {
		return nil, ErrPollNotActive
	}
	if poll.Expired(time.Now()) {
		return nil, ErrPollExpired
	}
	if in.UserID == nil && (in.VoterEmail == nil || *in.VoterEmail == "") {
		return nil, ErrNoIdentity
	}
	if len(in.SelectedOptions) == 0 {
		return nil, ErrNoSelection
	}
	if !poll.AllowMultipleChoices && len(in.SelectedOptions) > 1 {
		return nil, ErrSingleChoiceOnly
	}
	options, err := decodeOptions(poll.Options)
	if err != nil {
		return nil, err
	}
	for _, sel := range in.SelectedOptions {
		idx, err := strconv.Atoi(sel)
		if err != nil || idx < 0 || idx >= len(options) {
			return nil, ErrOptionOutOfRange
		}
	}
	selJSON, err := json.Marshal(in.SelectedOptions)
	if err != nil {
		return nil, err
	}

	existing, err := s.findVote(ctx, pollID, in)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.SelectedOptions = datatypes.JSON(selJSON)
		if in.VoterName != nil {
			existing.VoterName = in.VoterName
		}
		if err := s.DB.WithContext(ctx).Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	vote := &models.PollVote{
		PollID:          pollID,
		UserID:          in.UserID,
		VoterName:       in.VoterName,
		SelectedOptions: datatypes.JSON(selJSON),
	}
	if in.UserID == nil {
		email := strings.ToLower(strings.TrimSpace(*in.VoterEmail))
		vote.VoterEmail = &email
	}
	if err := s.DB.WithContext(ctx).Create(vote).Error; err != nil {
		return nil, err
	}
	return vote, nil
}

func (s *Service) findVote(ctx context.Context, pollID uuid.UUID, in VoteInput) (*models.PollVote, error) {
	var vote models.PollVote
	q := s.DB.WithContext(ctx).Where("poll_id = ?", pollID)
	if in.UserID != nil {
		q = q.Where("user_id = ?", *in.UserID)
	} else {
		email := strings.ToLower(strings.TrimSpace(*in.VoterEmail))
		q = q.Where("voter_email = ?", email)
	}
	if err := q.First(&vote).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

// EndPoll sets status "ended" unconditionally; ending an already-ended poll
// is not rejected.
func (s *Service) EndPoll(ctx context.Context, hostID, pollID uuid.UUID) (*models.Poll, error) {
	poll, err := s.getOwnedPoll(ctx, hostID, pollID)
	if err != nil {
		return nil, err
	}
	poll.Status = models.PollStatusEnded
	if err := s.DB.WithContext(ctx).Save(poll).Error; err != nil {
		return nil, err
	}
	return poll, nil
}

// SendInvites emails the poll to a set of addresses, each mail carrying a
// one-click vote link per option. The poll must still be open. Per-recipient
// failures are logged and left out of the count, never fatal.
func (s *Service) SendInvites(ctx context.Context, hostID, pollID uuid.UUID, toEmails []string) (int, error) {
	poll, err := s.getOwnedPoll(ctx, hostID, pollID)
	if err != nil {
		return 0, err
	}
	if poll.Status != models.PollStatusActive {
		return 0, ErrPollNotActive
	}
	if poll.Expired(time.Now()) {
		return 0, ErrPollExpired
	}
	options, err := decodeOptions(poll.Options)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, to := range toEmails {
		links := make([]emails.VoteLink, 0, len(options))
		for i, opt := range options {
			links = append(links, emails.VoteLink{Label: opt, URL: s.voteEmailURL(poll.PollID, to, i)})
		}
		if s.Email != nil {
			if err := s.Email.SendPollInvite(ctx, to, poll.Title, links); err != nil {
				log.Error().Err(err).Str("poll_id", poll.PollID.String()).Str("email", to).
					Msg("poll invite email failed")
				continue
			}
		}
		sent++
	}
	return sent, nil
}

func (s *Service) voteEmailURL(pollID uuid.UUID, email string, option int) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("option", strconv.Itoa(option))
	return strings.TrimRight(s.BaseURL, "/") + "/api/polls/" + pollID.String() + "/vote-email?" + q.Encode()
}

type ConvertInput struct {
	Title         *string
	Description   *string
	StartDateTime time.Time
	Location      *string
}

// ConvertToEvent creates a new Event under the poll's host and stamps the
// poll converted, in one transaction. Title and description fall back to the
// poll's own when the caller omits them. Conversion is one-way.
func (s *Service) ConvertToEvent(ctx context.Context, hostID, pollID uuid.UUID, in ConvertInput) (*models.Event, *models.Poll, error) {
	poll, err := s.getOwnedPoll(ctx, hostID, pollID)
	if err != nil {
		return nil, nil, err
	}
	if poll.Status == models.PollStatusConverted {
		return nil, nil, ErrAlreadyConverted
	}

	title := poll.Title
	if in.Title != nil && *in.Title != "" {
		title = *in.Title
	}
	description := poll.Description
	if in.Description != nil {
		description = in.Description
	}

	event := &models.Event{
		HostID:        poll.HostID,
		Title:         title,
		Description:   description,
		StartDateTime: in.StartDateTime,
		Location:      in.Location,
		Status:        models.EventStatusUpcoming,
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	poll.Status = models.PollStatusConverted
	poll.ConvertedEventID = &event.EventID
	if err := tx.Save(poll).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, nil, err
	}
	return event, poll, nil
}

func decodeOptions(raw datatypes.JSON) ([]string, error) {
	var options []string
	if err := json.Unmarshal(raw, &options); err != nil {
		return nil, err
	}
	return options, nil
}

func decodeSelections(raw datatypes.JSON) ([]string, error) {
	var selected []string
	if err := json.Unmarshal(raw, &selected); err != nil {
		return nil, err
	}
	return selected, nil
}
