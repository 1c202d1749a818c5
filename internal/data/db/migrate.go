package db

import (
	"fmt"

	types "github.com/openrotor/basestation/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Event structure
		// =========================
		&types.Event{},
		&types.Race{},
		&types.RaceGroup{},

		// =========================
		// Timing hardware
		// =========================
		&types.Tracker{},

		// =========================
		// Heats + event log
		// =========================
		&types.RaceHeat{},
		&types.HeatEvent{},
	)
}

func EnsureRaceIndexes(db *gorm.DB) error {
	// uuid-ossp is already enabled in NewPostgresService, but safe to re-run
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}
	// Backstop for heat numbering: AutoMigrate creates this from the
	// model tags, but concurrent writers depend on it existing.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ux_race_heat_number
		ON race_heat(race_id, number);
	`).Error; err != nil {
		return fmt.Errorf("create ux_race_heat_number: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_race_heat_race_state ON race_heat(race_id, state);`).Error; err != nil {
		return fmt.Errorf("create idx_race_heat_race_state: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_heat_event_heat_created ON heat_event(heat_id, created_at);`).Error; err != nil {
		return fmt.Errorf("create idx_heat_event_heat_created: %w", err)
	}
	return nil
}
