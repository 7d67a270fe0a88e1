package invitations

import (
	"context"
	"errors"
	"strings"

	"eventhost-backend/internal/emails"
	"eventhost-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound      = errors.New("Event not found")
	ErrNotEventHost       = errors.New("You do not own this event")
	ErrInvitationNotFound = errors.New("Invitation not found")
	ErrGuestListNotFound  = errors.New("Guest list not found")
	ErrInvalidRSVP        = errors.New("Invalid RSVP status")
)

type Service struct {
	DB      *gorm.DB
	Email   emails.Sender
	BaseURL string
}

// Contact is one guest to invite.
type Contact struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Name  *string `json:"name"`
}

// CreateInvitation persists one invitation with a fresh token. Duplicate
// invitations for the same email are permitted; callers that want
// deduplication pre-filter (see AddInvitations).
func (s *Service) CreateInvitation(ctx context.Context, eventID uuid.UUID, contact Contact) (*models.Invitation, error) {
	inv := &models.Invitation{
		EventID:    eventID,
		Token:      GenerateToken(),
		Email:      normalizeEmail(contact.Email),
		Phone:      contact.Phone,
		Name:       contact.Name,
		RSVPStatus: models.RSVPPending,
	}
	if err := s.DB.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, err
	}
	return inv, nil
}

// CreateInvitations persists a batch without any duplicate filtering and
// sends the invitation emails. Used by the create-event flow, which invites
// whatever the caller supplied.
func (s *Service) CreateInvitations(ctx context.Context, eventID uuid.UUID, eventTitle string, contacts []Contact) ([]models.Invitation, error) {
	created := make([]models.Invitation, 0, len(contacts))
	for _, contact := range contacts {
		inv, err := s.CreateInvitation(ctx, eventID, contact)
		if err != nil {
			return created, err
		}
		created = append(created, *inv)
		s.sendInvite(ctx, inv, eventTitle)
	}
	return created, nil
}

// AddInvitations bulk-invites contacts to a host's event, skipping contacts
// whose email already has an invitation on this event. Contacts without an
// email are never skipped. Invitation emails go out per recipient after each
// row is durable; a failed send is logged and does not undo the row.
func (s *Service) AddInvitations(ctx context.Context, hostID, eventID uuid.UUID, contacts []Contact) ([]models.Invitation, int, error) {
	var event models.Event
	if err := s.DB.WithContext(ctx).Where("event_id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, ErrEventNotFound
		}
		return nil, 0, err
	}
	if event.HostID != hostID {
		return nil, 0, ErrNotEventHost
	}

	var existing []models.Invitation
	if err := s.DB.WithContext(ctx).Where("event_id = ? AND email IS NOT NULL", eventID).Find(&existing).Error; err != nil {
		return nil, 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, inv := range existing {
		if inv.Email != nil {
			seen[strings.ToLower(*inv.Email)] = true
		}
	}

	created := make([]models.Invitation, 0, len(contacts))
	skipped := 0
	for _, contact := range contacts {
		email := normalizeEmail(contact.Email)
		if email != nil {
			if seen[*email] {
				skipped++
				continue
			}
			seen[*email] = true
		}
		inv, err := s.CreateInvitation(ctx, eventID, contact)
		if err != nil {
			return created, skipped, err
		}
		created = append(created, *inv)
		s.sendInvite(ctx, inv, event.Title)
	}
	return created, skipped, nil
}

// AddFromGuestList bulk-invites every member of a host's guest list.
func (s *Service) AddFromGuestList(ctx context.Context, hostID, eventID, guestListID uuid.UUID) ([]models.Invitation, int, error) {
	var list models.GuestList
	if err := s.DB.WithContext(ctx).Where("guest_list_id = ?", guestListID).First(&list).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, ErrGuestListNotFound
		}
		return nil, 0, err
	}
	if list.HostID != hostID {
		return nil, 0, ErrNotEventHost
	}
	var members []models.GuestListMember
	if err := s.DB.WithContext(ctx).Where("guest_list_id = ?", guestListID).Find(&members).Error; err != nil {
		return nil, 0, err
	}
	contacts := make([]Contact, 0, len(members))
	for _, m := range members {
		name := m.Name
		contacts = append(contacts, Contact{Email: m.Email, Phone: m.Phone, Name: &name})
	}
	return s.AddInvitations(ctx, hostID, eventID, contacts)
}

// GetByToken looks up an invitation by its token. Absence is (nil, nil);
// callers treat it as 404.
func (s *Service) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := s.DB.WithContext(ctx).Where("token = ?", token).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// GuestView is what the token grants: the invitation and its event.
type GuestView struct {
	Invitation models.Invitation `json:"invitation"`
	Event      models.Event      `json:"event"`
}

// GetGuestView resolves a token to the invitation plus its event. Absence of
// either is (nil, nil); callers treat it as 404.
func (s *Service) GetGuestView(ctx context.Context, token string) (*GuestView, error) {
	inv, err := s.GetByToken(ctx, token)
	if err != nil || inv == nil {
		return nil, err
	}
	var event models.Event
	if err := s.DB.WithContext(ctx).Where("event_id = ?", inv.EventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &GuestView{Invitation: *inv, Event: event}, nil
}

// UpdateRSVP unconditionally overwrites the invitation's RSVP status. Any
// status is reachable from any other; cancelled events and blocked guests are
// not guarded here.
func (s *Service) UpdateRSVP(ctx context.Context, token, status string) (*models.Invitation, error) {
	if !models.ValidRSVPStatus(status) {
		return nil, ErrInvalidRSVP
	}
	inv, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, nil
	}
	inv.RSVPStatus = status
	if err := s.DB.WithContext(ctx).Save(inv).Error; err != nil {
		return nil, err
	}
	return inv, nil
}

// Flag names accepted by SetFlag.
const (
	FlagSuspended      = "suspended"
	FlagBlocked        = "blocked"
	FlagMessageBlocked = "message_blocked"
)

// SetFlag toggles one of the host-facing booleans on an invitation after
// asserting that the caller hosts the invitation's event.
func (s *Service) SetFlag(ctx context.Context, hostID, invitationID uuid.UUID, flag string, value bool) (*models.Invitation, error) {
	var inv models.Invitation
	if err := s.DB.WithContext(ctx).Where("invitation_id = ?", invitationID).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	if err := s.assertEventHost(ctx, hostID, inv.EventID); err != nil {
		return nil, err
	}
	switch flag {
	case FlagSuspended:
		inv.IsSuspended = value
	case FlagBlocked:
		inv.IsBlocked = value
	case FlagMessageBlocked:
		inv.MessageBlocked = value
	default:
		return nil, errors.New("Unknown flag")
	}
	if err := s.DB.WithContext(ctx).Save(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// ResendInvitations re-sends invitation emails to every pending guest with an
// email address. Per-recipient failures are isolated and counted.
func (s *Service) ResendInvitations(ctx context.Context, hostID, eventID uuid.UUID) (sent, failed int, err error) {
	var event models.Event
	if err := s.DB.WithContext(ctx).Where("event_id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, 0, ErrEventNotFound
		}
		return 0, 0, err
	}
	if event.HostID != hostID {
		return 0, 0, ErrNotEventHost
	}

	var pending []models.Invitation
	if err := s.DB.WithContext(ctx).
		Where("event_id = ? AND rsvp_status = ? AND email IS NOT NULL", eventID, models.RSVPPending).
		Find(&pending).Error; err != nil {
		return 0, 0, err
	}
	for _, inv := range pending {
		if inv.Email == nil || *inv.Email == "" {
			continue
		}
		if s.Email == nil {
			sent++
			continue
		}
		name := ""
		if inv.Name != nil {
			name = *inv.Name
		}
		if sendErr := s.Email.SendInvitation(ctx, *inv.Email, name, event.Title, s.inviteLink(inv.Token)); sendErr != nil {
			log.Error().Err(sendErr).Str("event_id", eventID.String()).Str("email", *inv.Email).
				Msg("resend: invitation email failed")
			failed++
			continue
		}
		sent++
	}
	return sent, failed, nil
}

// ListForEvent returns the guest list of an event (host view).
func (s *Service) ListForEvent(ctx context.Context, hostID, eventID uuid.UUID) ([]models.Invitation, error) {
	if err := s.assertEventHost(ctx, hostID, eventID); err != nil {
		return nil, err
	}
	var out []models.Invitation
	if err := s.DB.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) assertEventHost(ctx context.Context, hostID, eventID uuid.UUID) error {
	var event models.Event
	if err := s.DB.WithContext(ctx).Where("event_id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrEventNotFound
		}
		return err
	}
	if event.HostID != hostID {
		return ErrNotEventHost
	}
	return nil
}

func (s *Service) sendInvite(ctx context.Context, inv *models.Invitation, eventTitle string) {
	if s.Email == nil || inv.Email == nil || *inv.Email == "" {
		return
	}
	name := ""
	if inv.Name != nil {
		name = *inv.Name
	}
	if err := s.Email.SendInvitation(ctx, *inv.Email, name, eventTitle, s.inviteLink(inv.Token)); err != nil {
		log.Error().Err(err).Str("event_id", inv.EventID.String()).Str("email", *inv.Email).
			Msg("invite: invitation email failed")
	}
}

func (s *Service) inviteLink(token string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/invite/" + token
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}
