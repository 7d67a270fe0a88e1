package messages

import (
	"context"
	"errors"

	"eventhost-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound   = errors.New("Event not found")
	ErrNotEventHost    = errors.New("You do not own this event")
	ErrInvalidToken    = errors.New("Invalid invitation token")
	ErrWrongEvent      = errors.New("Invitation does not belong to this event")
	ErrMessagesBlocked = errors.New("You are not allowed to send messages")
	ErrEmptyMessage    = errors.New("Message is required")
)

type Service struct {
	DB *gorm.DB
}

// Sender identifies who wrote a message: exactly one of the two cases.
// The stored row keeps a discriminator plus the matching id; this type makes
// the two-case dispatch explicit at the API boundary.
type Sender struct {
	Host  *uuid.UUID
	Guest *uuid.UUID
}

// HostSender tags a message as written by the event's host.
func HostSender(hostID uuid.UUID) Sender { return Sender{Host: &hostID} }

// GuestSender tags a message as written by an invited guest.
func GuestSender(invitationID uuid.UUID) Sender { return Sender{Guest: &invitationID} }

func (s Sender) typeAndID() (string, uuid.UUID) {
	if s.Host != nil {
		return models.SenderTypeHost, *s.Host
	}
	return models.SenderTypeGuest, *s.Guest
}

// MessageView is a chat entry with the sender's display name resolved.
type MessageView struct {
	models.EventMessage
	SenderName string `json:"sender_name"`
}

// ListMessages returns the event's chat ordered oldest first, with sender
// names resolved per sender type.
func (s *Service) ListMessages(ctx context.Context, eventID uuid.UUID) ([]MessageView, error) {
	var rows []models.EventMessage
	if err := s.DB.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]MessageView, 0, len(rows))
	for _, m := range rows {
		out = append(out, MessageView{EventMessage: m, SenderName: s.senderName(ctx, m)})
	}
	return out, nil
}

func (s *Service) senderName(ctx context.Context, m models.EventMessage) string {
	switch m.SenderType {
	case models.SenderTypeHost:
		var host models.Host
		if err := s.DB.WithContext(ctx).Where("host_id = ?", m.SenderID).First(&host).Error; err == nil {
			if host.Name != "" {
				return host.Name
			}
			return host.Email
		}
	case models.SenderTypeGuest:
		var inv models.Invitation
		if err := s.DB.WithContext(ctx).Where("invitation_id = ?", m.SenderID).First(&inv).Error; err == nil {
			if inv.Name != nil && *inv.Name != "" {
				return *inv.Name
			}
			if inv.Email != nil {
				return *inv.Email
			}
			return "Guest"
		}
	}
	return "Unknown"
}

// AssertEventHost verifies the host owns the event.
func (s *Service) AssertEventHost(ctx context.Context, hostID, eventID uuid.UUID) error {
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

// SendAsHost appends a host message after asserting event ownership.
func (s *Service) SendAsHost(ctx context.Context, hostID, eventID uuid.UUID, text string) (*models.EventMessage, error) {
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if err := s.AssertEventHost(ctx, hostID, eventID); err != nil {
		return nil, err
	}
	return s.append(ctx, eventID, HostSender(hostID), text)
}

// SendAsGuest appends a guest message. The token must resolve to an
// invitation on this event, and the invitation must not be message-blocked.
func (s *Service) SendAsGuest(ctx context.Context, token string, eventID uuid.UUID, text string) (*models.EventMessage, error) {
	if text == "" {
		return nil, ErrEmptyMessage
	}
	inv, err := s.resolveGuest(ctx, token, eventID)
	if err != nil {
		return nil, err
	}
	if inv.MessageBlocked {
		return nil, ErrMessagesBlocked
	}
	return s.append(ctx, eventID, GuestSender(inv.InvitationID), text)
}

// ResolveGuest checks a token grants access to the event's chat (read path).
func (s *Service) ResolveGuest(ctx context.Context, token string, eventID uuid.UUID) (*models.Invitation, error) {
	return s.resolveGuest(ctx, token, eventID)
}

func (s *Service) resolveGuest(ctx context.Context, token string, eventID uuid.UUID) (*models.Invitation, error) {
	var inv models.Invitation
	if err := s.DB.WithContext(ctx).Where("token = ?", token).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if inv.EventID != eventID {
		return nil, ErrWrongEvent
	}
	return &inv, nil
}

func (s *Service) append(ctx context.Context, eventID uuid.UUID, sender Sender, text string) (*models.EventMessage, error) {
	senderType, senderID := sender.typeAndID()
	msg := &models.EventMessage{
		EventID:    eventID,
		SenderType: senderType,
		SenderID:   senderID,
		Message:    text,
	}
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}
