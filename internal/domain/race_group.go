package domain

import (
	"time"

	"github.com/google/uuid"
)

// RaceGroup partitions the pilots of a race; a heat may be flown by one group.
type RaceGroup struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RaceID    uuid.UUID `gorm:"type:uuid;not null;index" json:"race_id"`
	Race      *Race     `gorm:"constraint:OnDelete:CASCADE;foreignKey:RaceID;references:ID" json:"race,omitempty"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (RaceGroup) TableName() string { return "race_group" }
