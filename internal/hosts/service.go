package hosts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventhost-backend/internal/models"
)

var ErrHostNotFound = errors.New("Host not found")

type Service struct {
	DB *gorm.DB
}

func (s *Service) GetHost(ctx context.Context, hostID uuid.UUID) (*models.Host, error) {
	var host models.Host
	if err := s.DB.WithContext(ctx).Where("host_id = ?", hostID).First(&host).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrHostNotFound
		}
		return nil, err
	}
	return &host, nil
}

type ProfileInput struct {
	Name *string
	Bio  *string
}

func (s *Service) UpdateProfile(ctx context.Context, hostID uuid.UUID, in ProfileInput) (*models.Host, error) {
	host, err := s.GetHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		host.Name = *in.Name
	}
	if in.Bio != nil {
		host.Bio = in.Bio
	}
	if err := s.DB.WithContext(ctx).Save(host).Error; err != nil {
		return nil, err
	}
	return host, nil
}

// SetPicture stores the normalized object path of the host's profile picture.
func (s *Service) SetPicture(ctx context.Context, hostID uuid.UUID, objectPath string) (*models.Host, error) {
	host, err := s.GetHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	host.PictureURL = &objectPath
	if err := s.DB.WithContext(ctx).Save(host).Error; err != nil {
		return nil, err
	}
	return host, nil
}
