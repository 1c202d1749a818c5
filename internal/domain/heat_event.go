package domain

import (
	"time"

	"github.com/google/uuid"
)

// HeatEvent is one immutable entry in a heat's append-only event log.
// Tracker is nil for events that were not device-triggered (e.g. a
// manually started or ended heat). Rows are never updated or deleted.
type HeatEvent struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	HeatID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"heat_id"`
	Heat      *RaceHeat  `gorm:"constraint:OnDelete:CASCADE;foreignKey:HeatID;references:ID" json:"heat,omitempty"`
	TrackerID *uuid.UUID `gorm:"type:uuid;index" json:"tracker_id,omitempty"`
	Tracker   *Tracker   `gorm:"constraint:OnDelete:CASCADE;foreignKey:TrackerID;references:ID" json:"tracker,omitempty"`
	Trigger   Trigger    `gorm:"not null" json:"trigger"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (HeatEvent) TableName() string { return "heat_event" }
