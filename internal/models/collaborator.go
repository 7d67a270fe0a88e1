package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Collaborator roles and invitation statuses.
const (
	CollaboratorRoleCoHost       = "co-host"
	CollaboratorRoleOrganizer    = "organizer"
	CollaboratorRoleCollaborator = "collaborator"

	CollaboratorPending  = "pending"
	CollaboratorAccepted = "accepted"
	CollaboratorDeclined = "declined"
)

// Collaborator permission names stored in the Permissions JSON array.
// Permissions are recorded on the row but not enforced by any route.
const (
	PermManageGuests = "manage_guests"
	PermManageGroups = "manage_groups"
	PermManageEvent  = "manage_event"
)

// EventCollaborator grants delegated access to an event without transferring
// host ownership.
type EventCollaborator struct {
	CollaboratorID uuid.UUID      `gorm:"column:collaborator_id;type:uuid;primaryKey" json:"collaborator_id"`
	EventID        uuid.UUID      `gorm:"column:event_id;type:uuid;not null;index" json:"event_id"`
	UserID         uuid.UUID      `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Role           string         `gorm:"column:role;type:varchar(20);not null" json:"role"`
	Permissions    datatypes.JSON `gorm:"column:permissions;type:jsonb" json:"permissions"`
	InvitedBy      uuid.UUID      `gorm:"column:invited_by;type:uuid;not null" json:"invited_by"`
	Status         string         `gorm:"column:status;type:varchar(10);not null;default:'pending'" json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (EventCollaborator) TableName() string {
	return "EventCollaborators"
}

func (c *EventCollaborator) BeforeCreate(tx *gorm.DB) error {
	if c.CollaboratorID == uuid.Nil {
		c.CollaboratorID = uuid.New()
	}
	return nil
}

// ValidCollaboratorRole reports whether r is a known collaborator role.
func ValidCollaboratorRole(r string) bool {
	switch r {
	case CollaboratorRoleCoHost, CollaboratorRoleOrganizer, CollaboratorRoleCollaborator:
		return true
	}
	return false
}
