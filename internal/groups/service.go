package groups

import (
	"context"
	"errors"

	"eventhost-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrGroupNotFound     = errors.New("Event group not found")
	ErrNotGroupHost      = errors.New("You do not own this event group")
	ErrGuestListNotFound = errors.New("Guest list not found")
	ErrNotGuestListHost  = errors.New("You do not own this guest list")
	ErrAlreadyLinked     = errors.New("Guest list is already linked to this group")
)

type Service struct {
	DB *gorm.DB
}

type GroupInput struct {
	Title       string
	Description *string
}

func (s *Service) CreateGroup(ctx context.Context, hostID uuid.UUID, in GroupInput) (*models.EventGroup, error) {
	group := &models.EventGroup{HostID: hostID, Title: in.Title, Description: in.Description}
	if err := s.DB.WithContext(ctx).Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

func (s *Service) ListGroups(ctx context.Context, hostID uuid.UUID) ([]models.EventGroup, error) {
	var out []models.EventGroup
	if err := s.DB.WithContext(ctx).Where("host_id = ?", hostID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GroupDetail is a group with its events and linked guest lists.
type GroupDetail struct {
	models.EventGroup
	Events     []models.Event     `json:"events"`
	GuestLists []models.GuestList `json:"guest_lists"`
}

func (s *Service) GetGroup(ctx context.Context, hostID, groupID uuid.UUID) (*GroupDetail, error) {
	group, err := s.getOwnedGroup(ctx, hostID, groupID)
	if err != nil {
		return nil, err
	}
	var events []models.Event
	if err := s.DB.WithContext(ctx).Where("group_id = ?", groupID).Order("start_date_time ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	var links []models.EventGroupGuestList
	if err := s.DB.WithContext(ctx).Where("group_id = ?", groupID).Find(&links).Error; err != nil {
		return nil, err
	}
	lists := make([]models.GuestList, 0, len(links))
	for _, link := range links {
		var list models.GuestList
		if err := s.DB.WithContext(ctx).Where("guest_list_id = ?", link.GuestListID).First(&list).Error; err == nil {
			lists = append(lists, list)
		}
	}
	return &GroupDetail{EventGroup: *group, Events: events, GuestLists: lists}, nil
}

func (s *Service) UpdateGroup(ctx context.Context, hostID, groupID uuid.UUID, in GroupInput) (*models.EventGroup, error) {
	group, err := s.getOwnedGroup(ctx, hostID, groupID)
	if err != nil {
		return nil, err
	}
	if in.Title != "" {
		group.Title = in.Title
	}
	if in.Description != nil {
		group.Description = in.Description
	}
	if err := s.DB.WithContext(ctx).Save(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group and its guest-list links; events keep
// existing with their group reference cleared.
func (s *Service) DeleteGroup(ctx context.Context, hostID, groupID uuid.UUID) error {
	group, err := s.getOwnedGroup(ctx, hostID, groupID)
	if err != nil {
		return err
	}
	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Model(&models.Event{}).Where("group_id = ?", groupID).Update("group_id", nil).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("group_id = ?", groupID).Delete(&models.EventGroupGuestList{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(group).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// LinkGuestList attaches a guest list to a group (both host-owned).
func (s *Service) LinkGuestList(ctx context.Context, hostID, groupID, guestListID uuid.UUID) (*models.EventGroupGuestList, error) {
	if _, err := s.getOwnedGroup(ctx, hostID, groupID); err != nil {
		return nil, err
	}
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
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.EventGroupGuestList{}).
		Where("group_id = ? AND guest_list_id = ?", groupID, guestListID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyLinked
	}
	link := &models.EventGroupGuestList{GroupID: groupID, GuestListID: guestListID}
	if err := s.DB.WithContext(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func (s *Service) UnlinkGuestList(ctx context.Context, hostID, groupID, guestListID uuid.UUID) error {
	if _, err := s.getOwnedGroup(ctx, hostID, groupID); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).
		Where("group_id = ? AND guest_list_id = ?", groupID, guestListID).
		Delete(&models.EventGroupGuestList{}).Error
}

func (s *Service) getOwnedGroup(ctx context.Context, hostID, groupID uuid.UUID) (*models.EventGroup, error) {
	var group models.EventGroup
	if err := s.DB.WithContext(ctx).Where("group_id = ?", groupID).First(&group).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.HostID != hostID {
		return nil, ErrNotGroupHost
	}
	return &group, nil
}
