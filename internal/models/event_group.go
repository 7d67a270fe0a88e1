package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventGroup is a host-owned label tying related events together; it can also
// be linked to guest lists through EventGroupGuestList.
type EventGroup struct {
	GroupID     uuid.UUID      `gorm:"column:group_id;type:uuid;primaryKey" json:"group_id"`
	HostID      uuid.UUID      `gorm:"column:host_id;type:uuid;not null;index" json:"host_id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description *string        `gorm:"column:description" json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (EventGroup) TableName() string {
	return "EventGroups"
}

func (g *EventGroup) BeforeCreate(tx *gorm.DB) error {
	if g.GroupID == uuid.Nil {
		g.GroupID = uuid.New()
	}
	return nil
}

// EventGroupGuestList joins an EventGroup to a GuestList (many-to-many).
type EventGroupGuestList struct {
	LinkID      uuid.UUID `gorm:"column:link_id;type:uuid;primaryKey" json:"link_id"`
	GroupID     uuid.UUID `gorm:"column:group_id;type:uuid;not null;index:idx_group_guest_list,unique" json:"group_id"`
	GuestListID uuid.UUID `gorm:"column:guest_list_id;type:uuid;not null;index:idx_group_guest_list,unique" json:"guest_list_id"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (EventGroupGuestList) TableName() string {
	return "EventGroupGuestLists"
}

func (l *EventGroupGuestList) BeforeCreate(tx *gorm.DB) error {
	if l.LinkID == uuid.Nil {
		l.LinkID = uuid.New()
	}
	return nil
}
