package guestlists

import (
	"context"
	"errors"

	"eventhost-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrGuestListNotFound = errors.New("Guest list not found")
	ErrNotGuestListHost  = errors.New("You do not own this guest list")
	ErrMemberNotFound    = errors.New("Guest list member not found")
)

type Service struct {
	DB *gorm.DB
}

type GuestListInput struct {
	Name        string
	Description *string
}

func (s *Service) CreateGuestList(ctx context.Context, hostID uuid.UUID, in GuestListInput) (*models.GuestList, error) {
	list := &models.GuestList{HostID: hostID, Name: in.Name, Description: in.Description}
	if err := s.DB.WithContext(ctx).Create(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) ListGuestLists(ctx context.Context, hostID uuid.UUID) ([]models.GuestList, error) {
	var out []models.GuestList
	if err := s.DB.WithContext(ctx).Where("host_id = ?", hostID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GuestListDetail is a guest list with its members.
type GuestListDetail struct {
	models.GuestList
	Members []models.GuestListMember `json:"members"`
}

func (s *Service) GetGuestList(ctx context.Context, hostID, guestListID uuid.UUID) (*GuestListDetail, error) {
	list, err := s.getOwnedList(ctx, hostID, guestListID)
	if err != nil {
		return nil, err
	}
	members, err := s.ListMembers(ctx, hostID, guestListID)
	if err != nil {
		return nil, err
	}
	return &GuestListDetail{GuestList: *list, Members: members}, nil
}

func (s *Service) UpdateGuestList(ctx context.Context, hostID, guestListID uuid.UUID, in GuestListInput) (*models.GuestList, error) {
	list, err := s.getOwnedList(ctx, hostID, guestListID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		list.Name = in.Name
	}
	if in.Description != nil {
		list.Description = in.Description
	}
	if err := s.DB.WithContext(ctx).Save(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteGuestList removes the list, its members and its group links.
func (s *Service) DeleteGuestList(ctx context.Context, hostID, guestListID uuid.UUID) error {
	list, err := s.getOwnedList(ctx, hostID, guestListID)
	if err != nil {
		return err
	}
	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Where("guest_list_id = ?", guestListID).Delete(&models.GuestListMember{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("guest_list_id = ?", guestListID).Delete(&models.EventGroupGuestList{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(list).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

type MemberInput struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func (s *Service) AddMembers(ctx context.Context, hostID, guestListID uuid.UUID, members []MemberInput) ([]models.GuestListMember, error) {
	if _, err := s.getOwnedList(ctx, hostID, guestListID); err != nil {
		return nil, err
	}
	created := make([]models.GuestListMember, 0, len(members))
	for _, m := range members {
		row := &models.GuestListMember{
			GuestListID: guestListID,
			Name:        m.Name,
			Email:       m.Email,
			Phone:       m.Phone,
		}
		if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
			return created, err
		}
		created = append(created, *row)
	}
	return created, nil
}

func (s *Service) ListMembers(ctx context.Context, hostID, guestListID uuid.UUID) ([]models.GuestListMember, error) {
	if _, err := s.getOwnedList(ctx, hostID, guestListID); err != nil {
		return nil, err
	}
	var out []models.GuestListMember
	if err := s.DB.WithContext(ctx).Where("guest_list_id = ?", guestListID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) RemoveMember(ctx context.Context, hostID, guestListID, memberID uuid.UUID) error {
	if _, err := s.getOwnedList(ctx, hostID, guestListID); err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Where("member_id = ? AND guest_list_id = ?", memberID, guestListID).Delete(&models.GuestListMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (s *Service) getOwnedList(ctx context.Context, hostID, guestListID uuid.UUID) (*models.GuestList, error) {
	var list models.GuestList
	if err := s.DB.WithContext(ctx).Where("guest_list_id = ?", guestListID).First(&list).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrGuestListNotFound
		}
		return nil, err
	}
	if list.HostID != hostID {
		return nil, ErrNotGuestListHost
	}
	return &list, nil
}
