package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RSVP statuses. Any status is reachable from any other; there is no
// terminal state.
const (
	RSVPPending = "pending"
	RSVPYes     = "yes"
	RSVPNo      = "no"
	RSVPMaybe   = "maybe"
)

// Invitation is a per-guest, token-addressable grant of access to one event.
// The token is the guest's identity: whoever holds it can read the event and
// respond, no account required.
type Invitation struct {
	InvitationID   uuid.UUID      `gorm:"column:invitation_id;type:uuid;primaryKey" json:"invitation_id"`
	EventID        uuid.UUID      `gorm:"column:event_id;type:uuid;not null;index" json:"event_id"`
	Token          string         `gorm:"column:token;not null;uniqueIndex" json:"token"`
	Email          *string        `gorm:"column:email" json:"email"`
	Phone          *string        `gorm:"column:phone" json:"phone"`
	Name           *string        `gorm:"column:name" json:"name"`
	RSVPStatus     string         `gorm:"column:rsvp_status;type:varchar(10);not null;default:'pending'" json:"rsvp_status"`
	IsBlocked      bool           `gorm:"column:is_blocked;not null;default:false" json:"is_blocked"`
	IsSuspended    bool           `gorm:"column:is_suspended;not null;default:false" json:"is_suspended"`
	MessageBlocked bool           `gorm:"column:message_blocked;not null;default:false" json:"message_blocked"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Invitation) TableName() string {
	return "Invitations"
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.InvitationID == uuid.Nil {
		i.InvitationID = uuid.New()
	}
	return nil
}

// ValidRSVPStatus reports whether s is one of the four RSVP statuses.
func ValidRSVPStatus(s string) bool {
	switch s {
	case RSVPPending, RSVPYes, RSVPNo, RSVPMaybe:
		return true
	}
	return false
}
