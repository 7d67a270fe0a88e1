package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuestList is a reusable, event-independent contact roster used to
// bulk-populate invitations.
type GuestList struct {
	GuestListID uuid.UUID      `gorm:"column:guest_list_id;type:uuid;primaryKey" json:"guest_list_id"`
	HostID      uuid.UUID      `gorm:"column:host_id;type:uuid;not null;index" json:"host_id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Description *string        `gorm:"column:description" json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (GuestList) TableName() string {
	return "GuestLists"
}

func (g *GuestList) BeforeCreate(tx *gorm.DB) error {
	if g.GuestListID == uuid.Nil {
		g.GuestListID = uuid.New()
	}
	return nil
}

// GuestListMember is one contact on a guest list.
type GuestListMember struct {
	MemberID    uuid.UUID      `gorm:"column:member_id;type:uuid;primaryKey" json:"member_id"`
	GuestListID uuid.UUID      `gorm:"column:guest_list_id;type:uuid;not null;index" json:"guest_list_id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Email       *string        `gorm:"column:email" json:"email"`
	Phone       *string        `gorm:"column:phone" json:"phone"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (GuestListMember) TableName() string {
	return "GuestListMembers"
}

func (m *GuestListMember) BeforeCreate(tx *gorm.DB) error {
	if m.MemberID == uuid.Nil {
		m.MemberID = uuid.New()
	}
	return nil
}
