package domain

import (
	"time"

	"github.com/google/uuid"
)

// Race is a single competition within an event. It owns a set of heats
// and keeps a weak reference to the heat currently considered active.
// CurrentHeatID is only ever written by the start transition of the
// heat state machine.
type Race struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"event_id"`
	Event         *Event     `gorm:"constraint:OnDelete:CASCADE;foreignKey:EventID;references:ID" json:"event,omitempty"`
	Name          string     `gorm:"not null" json:"name"`
	CurrentHeatID *uuid.UUID `gorm:"type:uuid" json:"current_heat_id,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Race) TableName() string { return "race" }
