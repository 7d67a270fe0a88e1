package collaborators

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"eventhost-backend/internal/models"
)

var (
	ErrEventNotFound        = errors.New("Event not found")
	ErrNotEventHost         = errors.New("You do not own this event")
	ErrCollaboratorNotFound = errors.New("Collaborator not found")
	ErrUserNotFound         = errors.New("User not found")
	ErrInvalidRole          = errors.New("Invalid collaborator role")
	ErrInvalidStatus        = errors.New("Invalid collaborator status")
	ErrAlreadyCollaborator  = errors.New("User is already a collaborator on this event")
)

type Service struct {
	DB *gorm.DB
}

type InviteInput struct {
	Email       string
	Role        string
	Permissions []string
}

// Invite adds a registered user as a collaborator on the event. The user is
// looked up by account email and the row starts in pending status.
func (s *Service) Invite(ctx context.Context, hostID, inviterUserID, eventID uuid.UUID, in InviteInput) (*models.EventCollaborator, error) {
	if !models.ValidCollaboratorRole(in.Role) {
		return nil, ErrInvalidRole
	}
	if err := s.assertEventHost(ctx, hostID, eventID); err != nil {
		return nil, err
	}
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", in.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.EventCollaborator{}).
		Where("event_id = ? AND user_id = ?", eventID, user.UserID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyCollaborator
	}
	perms, err := json.Marshal(in.Permissions)
	if err != nil {
		return nil, err
	}
	collab := &models.EventCollaborator{
		EventID:     eventID,
		UserID:      user.UserID,
		Role:        in.Role,
		Permissions: datatypes.JSON(perms),
		InvitedBy:   inviterUserID,
		Status:      models.CollaboratorPending,
	}
	if err := s.DB.WithContext(ctx).Create(collab).Error; err != nil {
		return nil, err
	}
	return collab, nil
}

// CollaboratorView is a collaborator row joined with the user's account email.
type CollaboratorView struct {
	models.EventCollaborator
	Email string `json:"email"`
}

func (s *Service) ListForEvent(ctx context.Context, hostID, eventID uuid.UUID) ([]CollaboratorView, error) {
	if err := s.assertEventHost(ctx, hostID, eventID); err != nil {
		return nil, err
	}
	var rows []models.EventCollaborator
	if err := s.DB.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]CollaboratorView, 0, len(rows))
	for _, row := range rows {
		var user models.User
		email := ""
		if err := s.DB.WithContext(ctx).Where("user_id = ?", row.UserID).First(&user).Error; err == nil {
			email = user.Email
		}
		out = append(out, CollaboratorView{EventCollaborator: row, Email: email})
	}
	return out, nil
}

type UpdateInput struct {
	Role        *string
	Permissions []string
	Status      *string
}

// Update modifies a collaborator's role, permissions or status. Status moves
// between pending, accepted and declined with no further restrictions.
func (s *Service) Update(ctx context.Context, hostID, eventID, collaboratorID uuid.UUID, in UpdateInput) (*models.EventCollaborator, error) {
	collab, err := s.getOwned(ctx, hostID, eventID, collaboratorID)
	if err != nil {
		return nil, err
	}
	if in.Role != nil {
		if !models.ValidCollaboratorRole(*in.Role) {
			return nil, ErrInvalidRole
		}
		collab.Role = *in.Role
	}
	if in.Permissions != nil {
		perms, err := json.Marshal(in.Permissions)
		if err != nil {
			return nil, err
		}
		collab.Permissions = datatypes.JSON(perms)
	}
	if in.Status != nil {
		switch *in.Status {
		case models.CollaboratorPending, models.CollaboratorAccepted, models.CollaboratorDeclined:
			collab.Status = *in.Status
		default:
			return nil, ErrInvalidStatus
		}
	}
	if err := s.DB.WithContext(ctx).Save(collab).Error; err != nil {
		return nil, err
	}
	return collab, nil
}

func (s *Service) Remove(ctx context.Context, hostID, eventID, collaboratorID uuid.UUID) error {
	collab, err := s.getOwned(ctx, hostID, eventID, collaboratorID)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(collab).Error
}

func (s *Service) getOwned(ctx context.Context, hostID, eventID, collaboratorID uuid.UUID) (*models.EventCollaborator, error) {
	if err := s.assertEventHost(ctx, hostID, eventID); err != nil {
		return nil, err
	}
	var collab models.EventCollaborator
	if err := s.DB.WithContext(ctx).Where("collaborator_id = ? AND event_id = ?", collaboratorID, eventID).First(&collab).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCollaboratorNotFound
		}
		return nil, err
	}
	return &collab, nil
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
		return ErrNotEventHost
	}
	return nil
}
