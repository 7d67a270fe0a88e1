package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Poll statuses. active → ended (host action, or lazily when past EndDate);
// active|ended → converted (one-way, stamps ConvertedEventID).
const (
	PollStatusActive    = "active"
	PollStatusEnded     = "ended"
	PollStatusConverted = "converted"
)

// Poll is a pre-event interest ballot. Options is an ordered JSON array of
// option strings (at least 2); votes reference options by index.
type Poll struct {
	PollID              uuid.UUID      `gorm:"column:poll_id;type:uuid;primaryKey" json:"poll_id"`
	HostID              uuid.UUID      `gorm:"column:host_id;type:uuid;not null;index" json:"host_id"`
	Title               string         `gorm:"column:title;not null" json:"title"`
	Description         *string        `gorm:"column:description" json:"description"`
	Options             datatypes.JSON `gorm:"column:options;type:jsonb;not null" json:"options"`
	AllowMultipleChoices bool          `gorm:"column:allow_multiple_choices;not null;default:false" json:"allow_multiple_choices"`
	EndDate             time.Time      `gorm:"column:end_date;not null" json:"end_date"`
	Status              string         `gorm:"column:status;type:varchar(10);not null;default:'active'" json:"status"`
	ConvertedEventID    *uuid.UUID     `gorm:"column:converted_event_id;type:uuid" json:"converted_event_id"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Poll) TableName() string {
	return "Polls"
}

func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	if p.PollID == uuid.Nil {
		p.PollID = uuid.New()
	}
	return nil
}

// Expired reports whether the poll's end date has passed. Expiry is a pure
// function of the clock; the stored status is never flipped by a scheduler.
func (p *Poll) Expired(now time.Time) bool {
	return now.After(p.EndDate)
}

// PollVote is one voter's ballot. Identity is UserID when authenticated,
// otherwise VoterEmail; a second vote from the same identity overwrites
// SelectedOptions (last write wins). SelectedOptions is a JSON array of
// option indices as strings.
type PollVote struct {
	VoteID          uuid.UUID      `gorm:"column:vote_id;type:uuid;primaryKey" json:"vote_id"`
	PollID          uuid.UUID      `gorm:"column:poll_id;type:uuid;not null;index" json:"poll_id"`
	UserID          *uuid.UUID     `gorm:"column:user_id;type:uuid" json:"user_id"`
	VoterEmail      *string        `gorm:"column:voter_email" json:"voter_email"`
	VoterName       *string        `gorm:"column:voter_name" json:"voter_name"`
	SelectedOptions datatypes.JSON `gorm:"column:selected_options;type:jsonb;not null" json:"selected_options"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PollVote) TableName() string {
	return "PollVotes"
}

func (v *PollVote) BeforeCreate(tx *gorm.DB) error {
	if v.VoteID == uuid.Nil {
		v.VoteID = uuid.New()
	}
	return nil
}
