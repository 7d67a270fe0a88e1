package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventhost-backend/internal/emails"
	"eventhost-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound = errors.New("Event not found")
	ErrNotEventHost  = errors.New("You do not own this event")
)

type Service struct {
	DB    *gorm.DB
	Email emails.Sender
}

type CreateEventInput struct {
	Title            string
	Description      *string
	StartDateTime    time.Time
	EndDateTime      *time.Time
	IsAllDay         bool
	Location         *string
	ExactAddress     *string
	CustomDirections *string
	GroupID          *uuid.UUID
}

func (s *Service) CreateEvent(ctx context.Context, hostID uuid.UUID, in CreateEventInput) (*models.Event, error) {
	event := &models.Event{
		HostID:           hostID,
		GroupID:          in.GroupID,
		Title:            in.Title,
		Description:      in.Description,
		StartDateTime:    in.StartDateTime,
		EndDateTime:      in.EndDateTime,
		IsAllDay:         in.IsAllDay,
		Location:         in.Location,
		ExactAddress:     in.ExactAddress,
		CustomDirections: in.CustomDirections,
		Status:           models.EventStatusUpcoming,
	}
	if err := s.DB.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("Failed to create event: %v", err)
	}
	return event, nil
}

func (s *Service) ListEvents(ctx context.Context, hostID uuid.UUID, status string) ([]models.Event, error) {
	q := s.DB.WithContext(ctx).Where("host_id = ?", hostID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Event
	if err := q.Order("start_date_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetOwnedEvent loads an event and asserts ownership. ErrEventNotFound maps
// to 404, ErrNotEventHost to 403.
func (s *Service) GetOwnedEvent(ctx context.Context, hostID, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := s.DB.WithContext(ctx).Where("event_id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.HostID != hostID {
		return nil, ErrNotEventHost
	}
	return &event, nil
}

type UpdateEventInput struct {
	Title            *string
	Description      *string
	StartDateTime    *time.Time
	EndDateTime      *time.Time
	IsAllDay         *bool
	Location         *string
	ExactAddress     *string
	CustomDirections *string
	Status           *string
	GroupID          *uuid.UUID
}

func (s *Service) UpdateEvent(ctx context.Context, hostID, eventID uuid.UUID, in UpdateEventInput) (*models.Event, error) {
	event, err := s.GetOwnedEvent(ctx, hostID, eventID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		event.Title = *in.Title
	}
	if in.Description != nil {
		event.Description = in.Description
	}
	if in.StartDateTime != nil {
		event.StartDateTime = *in.StartDateTime
	}
	if in.EndDateTime != nil {
		event.EndDateTime = in.EndDateTime
	}
	if in.IsAllDay != nil {
		event.IsAllDay = *in.IsAllDay
	}
	if in.Location != nil {
		event.Location = in.Location
	}
	if in.ExactAddress != nil {
		event.ExactAddress = in.ExactAddress
	}
	if in.CustomDirections != nil {
		event.CustomDirections = in.CustomDirections
	}
	if in.Status != nil {
		event.Status = *in.Status
	}
	if in.GroupID != nil {
		event.GroupID = in.GroupID
	}
	if err := s.DB.WithContext(ctx).Save(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes the event and cascades to its invitations and messages
// in one transaction.
func (s *Service) DeleteEvent(ctx context.Context, hostID, eventID uuid.UUID) error {
	event, err := s.GetOwnedEvent(ctx, hostID, eventID)
	if err != nil {
		return err
	}
	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Where("event_id = ?", event.EventID).Delete(&models.Invitation{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("event_id = ?", event.EventID).Delete(&models.EventMessage{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(event).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// CancelEvent marks the event cancelled, then sends best-effort cancellation
// emails to every invitation with rsvp "yes" and a known email address.
// The cancellation is durable before any email is attempted; per-recipient
// failures are logged and counted, never fatal.
func (s *Service) CancelEvent(ctx context.Context, hostID, eventID uuid.UUID) (*models.Event, int, error) {
	event, err := s.GetOwnedEvent(ctx, hostID, eventID)
	if err != nil {
		return nil, 0, err
	}
	event.Status = models.EventStatusCancelled
	if err := s.DB.WithContext(ctx).Save(event).Error; err != nil {
		return nil, 0, err
	}

	var confirmed []models.Invitation
	if err := s.DB.WithContext(ctx).
		Where("event_id = ? AND rsvp_status = ? AND email IS NOT NULL", event.EventID, models.RSVPYes).
		Find(&confirmed).Error; err != nil {
		log.Error().Err(err).Str("event_id", event.EventID.String()).Msg("cancel: failed to load confirmed guests")
		return event, 0, nil
	}

	sent := 0
	for _, inv := range confirmed {
		if inv.Email == nil || *inv.Email == "" {
			continue
		}
		name := ""
		if inv.Name != nil {
			name = *inv.Name
		}
		if s.Email != nil {
			if err := s.Email.SendCancellation(ctx, *inv.Email, name, event.Title); err != nil {
				log.Error().Err(err).Str("event_id", event.EventID.String()).Str("email", *inv.Email).
					Msg("cancel: cancellation email failed")
				continue
			}
		}
		sent++
	}
	return event, sent, nil
}
