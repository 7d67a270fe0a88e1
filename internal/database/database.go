package database

import (
	"eventhost-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers
// (e.g. PgBouncer, Supabase, Render, Neon).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for the full schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Host{},
		&models.Event{},
		&models.Invitation{},
		&models.EventMessage{},
		&models.EventGroup{},
		&models.EventGroupGuestList{},
		&models.GuestList{},
		&models.GuestListMember{},
		&models.EventCollaborator{},
		&models.Announcement{},
		&models.Poll{},
		&models.PollVote{},
	)
}
