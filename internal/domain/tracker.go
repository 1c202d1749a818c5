package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tracker is a tracked onboard device (e.g. a quad's timing transponder)
// that can originate triggered heat events.
type Tracker struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Identifier string    `gorm:"not null;uniqueIndex" json:"identifier"`
	Name       string    `gorm:"not null;default:''" json:"name"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Tracker) TableName() string { return "tracker" }
