package announcements

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"eventhost-backend/internal/emails"
	"eventhost-backend/internal/models"
)

var (
	ErrAnnouncementNotFound = errors.New("Announcement not found")
	ErrNotAnnouncementHost  = errors.New("You do not own this announcement")
	ErrInvalidAudience      = errors.New("Invalid target audience")
	ErrEventRequired        = errors.New("An event is required for event_attendees announcements")
	ErrEventNotFound        = errors.New("Event not found")
)

type Service struct {
	DB    *gorm.DB
	Email emails.Sender
}

type AnnouncementInput struct {
	EventID        *uuid.UUID
	Title          string
	Content        string
	TargetAudience string
}

func (s *Service) CreateAnnouncement(ctx context.Context, hostID uuid.UUID, in AnnouncementInput) (*models.Announcement, error) {
	if !models.ValidTargetAudience(in.TargetAudience) {
		return nil, ErrInvalidAudience
	}
	if in.TargetAudience == models.AudienceEventAttendees {
		if in.EventID == nil {
			return nil, ErrEventRequired
		}
		if err := s.assertEventHost(ctx, hostID, *in.EventID); err != nil {
			return nil, err
		}
	}
	a := &models.Announcement{
		HostID:         hostID,
		EventID:        in.EventID,
		Title:          in.Title,
		Content:        in.Content,
		TargetAudience: in.TargetAudience,
	}
	if err := s.DB.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListAnnouncements(ctx context.Context, hostID uuid.UUID) ([]models.Announcement, error) {
	var out []models.Announcement
	if err := s.DB.WithContext(ctx).Where("host_id = ?", hostID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetAnnouncement(ctx context.Context, hostID, announcementID uuid.UUID) (*models.Announcement, error) {
	return s.getOwned(ctx, hostID, announcementID)
}

type UpdateAnnouncementInput struct {
	EventID        *uuid.UUID
	Title          *string
	Content        *string
	TargetAudience *string
}

func (s *Service) UpdateAnnouncement(ctx context.Context, hostID, announcementID uuid.UUID, in UpdateAnnouncementInput) (*models.Announcement, error) {
	a, err := s.getOwned(ctx, hostID, announcementID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		a.Title = *in.Title
	}
	if in.Content != nil {
		a.Content = *in.Content
	}
	if in.TargetAudience != nil {
		if !models.ValidTargetAudience(*in.TargetAudience) {
			return nil, ErrInvalidAudience
		}
		a.TargetAudience = *in.TargetAudience
	}
	if in.EventID != nil {
		if err := s.assertEventHost(ctx, hostID, *in.EventID); err != nil {
			return nil, err
		}
		a.EventID = in.EventID
	}
	if a.TargetAudience == models.AudienceEventAttendees && a.EventID == nil {
		return nil, ErrEventRequired
	}
	if err := s.DB.WithContext(ctx).Save(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) DeleteAnnouncement(ctx context.Context, hostID, announcementID uuid.UUID) error {
	a, err := s.getOwned(ctx, hostID, announcementID)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(a).Error
}

// Publish stamps the announcement as published, then delivers it over email
// to the resolved audience. Publishing is durable before any email is
// attempted and individual send failures do not fail the call.
func (s *Service) Publish(ctx context.Context, hostID, announcementID uuid.UUID) (*models.Announcement, int, error) {
	a, err := s.getOwned(ctx, hostID, announcementID)
	if err != nil {
		return nil, 0, err
	}
	if !a.IsPublished {
		now := time.Now().UTC()
		a.IsPublished = true
		a.PublishedAt = &now
		if err := s.DB.WithContext(ctx).Save(a).Error; err != nil {
			return nil, 0, err
		}
	}
	sent := s.deliver(ctx, a)
	return a, sent, nil
}

func (s *Service) deliver(ctx context.Context, a *models.Announcement) int {
	recipients, err := s.recipients(ctx, a)
	if err != nil {
		log.Error().Err(err).Str("announcementId", a.AnnouncementID.String()).Msg("failed to resolve announcement recipients")
		return 0
	}
	sent := 0
	for _, to := range recipients {
		if s.Email != nil {
			if err := s.Email.SendAnnouncement(ctx, to, a.Title, a.Content); err != nil {
				log.Error().Err(err).Str("email", to).Msg("failed to send announcement email")
				continue
			}
		}
		sent++
	}
	return sent
}

// recipients resolves the audience to a deduplicated set of email addresses.
// all_users targets every guest the host has ever invited; event_attendees
// targets guests of the linked event who responded yes.
func (s *Service) recipients(ctx context.Context, a *models.Announcement) ([]string, error) {
	q := s.DB.WithContext(ctx).Model(&models.Invitation{}).Where("email IS NOT NULL")
	switch a.TargetAudience {
	case models.AudienceEventAttendees:
		if a.EventID == nil {
			return nil, nil
		}
		q = q.Where("event_id = ? AND rsvp_status = ?", *a.EventID, models.RSVPYes)
	default:
		q = q.Joins(`JOIN "Events" ON "Events".event_id = "Invitations".event_id`).
			Where(`"Events".host_id = ?`, a.HostID)
	}
	var addrs []string
	if err := q.Distinct("email").Pluck("email", &addrs).Error; err != nil {
		return nil, err
	}
	return addrs, nil
}

func (s *Service) getOwned(ctx context.Context, hostID, announcementID uuid.UUID) (*models.Announcement, error) {
	var a models.Announcement
	if err := s.DB.WithContext(ctx).Where("announcement_id = ?", announcementID).First(&a).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}
	if a.HostID != hostID {
		return nil, ErrNotAnnouncementHost
	}
	return &a, nil
}

func (s *Service) assertEventHost(ctx context.Context, hostID, eventID uuid.UUID) error {
	var ev models.Event
	if err := s.DB.WithContext(ctx).Where("event_id = ?", eventID).First(&ev).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrEventNotFound
		}
		return err
	}
	if ev.HostID != hostID {
		return ErrEventNotFound
	}
	return nil
}
