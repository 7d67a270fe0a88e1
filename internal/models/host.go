package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Host is the event-administration profile owned 1:1 by a User.
// All host-facing resources (events, guest lists, polls, announcements)
// hang off the Host, not the User.
type Host struct {
	HostID     uuid.UUID      `gorm:"column:host_id;type:uuid;primaryKey" json:"host_id"`
	UserID     uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	Email      string         `gorm:"column:email;not null" json:"email"`
	Name       string         `gorm:"column:name" json:"name"`
	Bio        *string        `gorm:"column:bio" json:"bio"`
	PictureURL *string        `gorm:"column:picture_url" json:"picture_url"`
	Verified   bool           `gorm:"column:verified;not null;default:false" json:"verified"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Host) TableName() string {
	return "Hosts"
}

func (h *Host) BeforeCreate(tx *gorm.DB) error {
	if h.HostID == uuid.Nil {
		h.HostID = uuid.New()
	}
	return nil
}
