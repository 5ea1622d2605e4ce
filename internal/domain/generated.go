package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GeneratedChecklist persists the terminal pipeline result. The unique index
// on application_id plus upsert-on-conflict is what guarantees exactly one
// checklist per application; the pipeline itself stays re-entrant.
type GeneratedChecklist struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"application_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	CountryCode string `gorm:"type:varchar(8);not null" json:"country_code"`
	VisaType    string `gorm:"type:varchar(32);not null" json:"visa_type"`

	// Outcome the fallback controller reached: enriched | rules_only.
	Outcome string         `gorm:"type:varchar(16);not null" json:"outcome"`
	Payload datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}
