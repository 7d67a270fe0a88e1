package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sender types for event chat. SenderID is a Host ID when SenderTypeHost,
// an Invitation ID when SenderTypeGuest; dispatch on SenderType, never on
// the raw column.
const (
	SenderTypeHost  = "host"
	SenderTypeGuest = "guest"
)

// EventMessage is one append-only chat entry on an event, ordered by CreatedAt.
type EventMessage struct {
	MessageID  uuid.UUID      `gorm:"column:message_id;type:uuid;primaryKey" json:"message_id"`
	EventID    uuid.UUID      `gorm:"column:event_id;type:uuid;not null;index" json:"event_id"`
	SenderType string         `gorm:"column:sender_type;type:varchar(10);not null" json:"sender_type"`
	SenderID   uuid.UUID      `gorm:"column:sender_id;type:uuid;not null" json:"sender_id"`
	Message    string         `gorm:"column:message;not null" json:"message"`
	CreatedAt  time.Time      `json:"createdAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (EventMessage) TableName() string {
	return "EventMessages"
}

func (m *EventMessage) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == uuid.Nil {
		m.MessageID = uuid.New()
	}
	return nil
}
