package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds the lookup indexes that AutoMigrate does not derive from struct tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Schedule lookups by team and date range
		{"trainings", "idx_trainings_team_date", "team_id, date"},
		{"events", "idx_events_team_date", "team_id, date"},

		// Attendance aggregation for reports
		{"training_attendances", "idx_training_attendances_status", "training_id, status"},
		{"event_attendances", "idx_event_attendances_status", "event_id, status"},

		// Mailbox listings
		{"messages", "idx_messages_recipient_created", "recipient_id, created_at"},
		{"messages", "idx_messages_sender_created", "sender_id, created_at"},

		// Team rosters
		{"members", "idx_members_team_name", "team_id, name"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs the migrations that follow AutoMigrate
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
