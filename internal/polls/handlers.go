package polls

import (
	"fmt"
	"strings"
	"time"

	"eventhost-backend/internal/middleware"
	"eventhost-backend/internal/pkg/response"
	"eventhost-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
	BaseURL string
}

type pollBody struct {
	Title                string   `json:"title"`
	Description          *string  `json:"description"`
	Options              []string `json:"options"`
	AllowMultipleChoices *bool    `json:"allow_multiple_choices"`
	EndDate              string   `json:"end_date"`
}

// CreatePoll POST /api/polls
func (h *Handlers) CreatePoll(c *fiber.Ctx) error {
	hostID, err := resolveHost(c)
	if err != nil {
		return err
	}
	var body pollBody
	if err := c.BodyParser(&body); err != nil || body.Title == "" || body.EndDate == "" {
		return response.Error(c, "Title, options and end date are required", fiber.StatusBadRequest, nil)
	}
	endDate, err := time.Parse(time.RFC3339, body.EndDate)
	if err != nil {
		return response.Error(c, "Invalid end date", fiber.StatusBadRequest, nil)
	}
	allowMultiple := false
	if body.AllowMultipleChoices != nil {
		allowMultiple = *body.AllowMultipleChoices
	}
	poll, err := h.Service.CreatePoll(c.Context(), hostID, CreatePollInput{
		Title:                body.Title,
		Description:          body.Description,
		Options:              body.Options,
		AllowMultipleChoices: allowMultiple,
		EndDate:              endDate,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.SuccessCreated(c, "Poll created", poll, nil)
}

// ListPolls GET /api/polls
func (h *Handlers) ListPolls(c *fiber.Ctx) error {
	hostID, err := resolveHost(c)
	if err != nil {
		return err
	}
	out, err := h.Service.ListPolls(c.Context(), hostID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Polls fetched", out, nil)
}

// GetPoll GET /api/polls/:id returns the poll plus its vote tally computed on read.
func (h *Handlers) GetPoll(c *fiber.Ctx) error {
	pollID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid poll id", fiber.StatusBadRequest, nil)
	}
	tally, err := h.Service.GetWithTally(c.Context(), pollID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Poll fetched", tally, nil)
}

// UpdatePoll PUT /api/polls/:id
func (h *Handlers) UpdatePoll(c *fiber.Ctx) error {
	hostID, pollID, err := resolveHostAndPoll(c)
	if err != nil {
		return err
	}
	var body pollBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	in := UpdatePollInput{
		Description:          body.Description,
		Options:              body.Options,
		AllowMultipleChoices: body.AllowMultipleChoices,
	}
	if body.Title != "" {
		in.Title = &body.Title
	}
	if body.EndDate != "" {
		t, err := time.Parse(time.RFC3339, body.EndDate)
		if err != nil {
			return response.Error(c, "Invalid end date", fiber.StatusBadRequest, nil)
		}
		in.EndDate = &t
	}
	poll, err := h.Service.UpdatePoll(c.Context(), hostID, pollID, in)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Poll updated", poll, nil)
}

// DeletePoll DELETE /api/polls/:id
func (h *Handlers) DeletePoll(c *fiber.Ctx) error {
	hostID, pollID, err := resolveHostAndPoll(c)
	if err != nil {
		return err
	}
	if err := h.Service.DeletePoll(c.Context(), hostID, pollID); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Poll deleted", nil, nil)
}

// Vote POST /api/polls/:id/vote (public). Voting twice with the same
// identity replaces the earlier ballot.
func (h *Handlers) Vote(c *fiber.Ctx) error {
	pollID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid poll id", fiber.StatusBadRequest, nil)
	}
	var body struct {
		UserID          *string  `json:"user_id"`
		VoterEmail      *string  `json:"voter_email"`
		VoterName       *string  `json:"voter_name"`
		SelectedOptions []string `json:"selected_options"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	in := VoteInput{VoterName: body.VoterName, SelectedOptions: body.SelectedOptions}
	if body.UserID != nil && *body.UserID != "" {
		id, err := uuid.Parse(*body.UserID)
		if err != nil {
			return response.Error(c, "Invalid user id", fiber.StatusBadRequest, nil)
		}
		in.UserID = &id
	} else if body.VoterEmail != nil {
		if !validation.IsValidEmail(*body.VoterEmail) {
			return response.Error(c, "Invalid voter email", fiber.StatusBadRequest, nil)
		}
		in.VoterEmail = body.VoterEmail
	}
	vote, err := h.Service.Vote(c.Context(), pollID, in)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Vote recorded", vote, nil)
}

// VoteEmail GET /api/polls/:id/vote-email (public). One-click vote from a
// poll email: ?email=...&option=N&name=..., then redirect to the poll page.
func (h *Handlers) VoteEmail(c *fiber.Ctx) error {
	pollID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid poll id", fiber.StatusBadRequest, nil)
	}
	email := c.Query("email")
	option := c.Query("option")
	if !validation.IsValidEmail(email) || option == "" {
		return response.Error(c, "email and option are required", fiber.StatusBadRequest, nil)
	}
	name := c.Query("name")
	in := VoteInput{VoterEmail: &email, SelectedOptions: []string{option}}
	if name != "" {
		in.VoterName = &name
	}
	if _, err := h.Service.Vote(c.Context(), pollID, in); err != nil {
		return serviceError(c, err)
	}
	return c.Redirect(strings.TrimRight(h.BaseURL, "/")+"/polls/"+pollID.String()+"?voted="+option, fiber.StatusFound)
}

// EndPoll POST /api/polls/:id/end
func (h *Handlers) EndPoll(c *fiber.Ctx) error {
	hostID, pollID, err := resolveHostAndPoll(c)
	if err != nil {
		return err
	}
	poll, err := h.Service.EndPoll(c.Context(), hostID, pollID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Poll ended", poll, nil)
}

// InvitePoll POST /api/polls/:id/invite emails the poll to a list of
// addresses with a vote link per option.
func (h *Handlers) InvitePoll(c *fiber.Ctx) error {
	hostID, pollID, err := resolveHostAndPoll(c)
	if err != nil {
		return err
	}
	var body struct {
		Emails []string `json:"emails"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.Emails) == 0 {
		return response.Error(c, "emails is required", fiber.StatusBadRequest, nil)
	}
	for _, email := range body.Emails {
		if !validation.IsValidEmail(email) {
			return response.Error(c, "Invalid email: "+email, fiber.StatusBadRequest, nil)
		}
	}
	sent, err := h.Service.SendInvites(c.Context(), hostID, pollID, body.Emails)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, fmt.Sprintf("Poll invitations sent, %d emails sent", sent), fiber.Map{
		"sent": sent,
	}, nil)
}

// ConvertToEvent POST /api/polls/:id/convert-to-event
func (h *Handlers) ConvertToEvent(c *fiber.Ctx) error {
	hostID, pollID, err := resolveHostAndPoll(c)
	if err != nil {
		return err
	}
	var body struct {
		Title         *string `json:"title"`
		Description   *string `json:"description"`
		StartDateTime string  `json:"start_date_time"`
		Location      *string `json:"location"`
	}
	if err := c.BodyParser(&body); err != nil || body.StartDateTime == "" {
		return response.Error(c, "Start date is required", fiber.StatusBadRequest, nil)
	}
	start, err := time.Parse(time.RFC3339, body.StartDateTime)
	if err != nil {
		return response.Error(c, "Invalid start date", fiber.StatusBadRequest, nil)
	}
	event, poll, err := h.Service.ConvertToEvent(c.Context(), hostID, pollID, ConvertInput{
		Title:         body.Title,
		Description:   body.Description,
		StartDateTime: start,
		Location:      body.Location,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.SuccessCreated(c, "Poll converted to event", fiber.Map{
		"event": event,
		"poll":  poll,
	}, nil)
}

func resolveHost(c *fiber.Ctx) (uuid.UUID, error) {
	actor := middleware.GetActor(c)
	if actor == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	hostID, err := uuid.Parse(actor.HostID)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return hostID, nil
}

func resolveHostAndPoll(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	hostID, err := resolveHost(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	pollID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid poll id")
	}
	return hostID, pollID, nil
}

func serviceError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrPollNotFound:
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case ErrNotPollHost:
		return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
	case ErrPollNotActive, ErrPollExpired, ErrTooFewOptions, ErrNoIdentity,
		ErrNoSelection, ErrSingleChoiceOnly, ErrOptionOutOfRange, ErrAlreadyConverted:
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
}
