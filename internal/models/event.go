package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event statuses.
const (
	EventStatusUpcoming  = "upcoming"
	EventStatusCancelled = "cancelled"
	EventStatusPast      = "past"
)

// Event is a host-owned occasion guests are invited to.
type Event struct {
	EventID          uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	HostID           uuid.UUID      `gorm:"column:host_id;type:uuid;not null;index" json:"host_id"`
	GroupID          *uuid.UUID     `gorm:"column:group_id;type:uuid" json:"group_id"`
	Title            string         `gorm:"column:title;not null" json:"title"`
	Description      *string        `gorm:"column:description" json:"description"`
	StartDateTime    time.Time      `gorm:"column:start_date_time;not null" json:"start_date_time"`
	EndDateTime      *time.Time     `gorm:"column:end_date_time" json:"end_date_time"`
	IsAllDay         bool           `gorm:"column:is_all_day;not null;default:false" json:"is_all_day"`
	Location         *string        `gorm:"column:location" json:"location"`
	ExactAddress     *string        `gorm:"column:exact_address" json:"exact_address"`
	CustomDirections *string        `gorm:"column:custom_directions" json:"custom_directions"`
	Status           string         `gorm:"column:status;type:varchar(20);not null;default:'upcoming'" json:"status"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Event) TableName() string {
	return "Events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
