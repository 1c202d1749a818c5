package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Event is a competition event (e.g. a race weekend) that owns races.
// Its template drives how heats are presented, and its settings drive
// how heats are generated for each race.
type Event struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Template  string         `gorm:"not null;default:''" json:"template"`
	Settings  datatypes.JSON `gorm:"type:jsonb" json:"settings,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Event) TableName() string { return "event" }
