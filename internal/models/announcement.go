package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Announcement target audiences.
const (
	AudienceAllUsers       = "all_users"
	AudienceEventAttendees = "event_attendees"
	AudienceSpecificUsers  = "specific_users"
)

// Announcement is a host broadcast. EventID is required iff the target
// audience is event_attendees. Publishing is one-directional: there is no
// unpublish.
type Announcement struct {
	AnnouncementID uuid.UUID      `gorm:"column:announcement_id;type:uuid;primaryKey" json:"announcement_id"`
	HostID         uuid.UUID      `gorm:"column:host_id;type:uuid;not null;index" json:"host_id"`
	EventID        *uuid.UUID     `gorm:"column:event_id;type:uuid" json:"event_id"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Content        string         `gorm:"column:content;not null" json:"content"`
	TargetAudience string         `gorm:"column:target_audience;type:varchar(20);not null" json:"target_audience"`
	IsPublished    bool           `gorm:"column:is_published;not null;default:false" json:"is_published"`
	PublishedAt    *time.Time     `gorm:"column:published_at" json:"published_at"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Announcement) TableName() string {
	return "Announcements"
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.AnnouncementID == uuid.Nil {
		a.AnnouncementID = uuid.New()
	}
	return nil
}

// ValidTargetAudience reports whether s is a known announcement audience.
func ValidTargetAudience(s string) bool {
	switch s {
	case AudienceAllUsers, AudienceEventAttendees, AudienceSpecificUsers:
		return true
	}
	return false
}
