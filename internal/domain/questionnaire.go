package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Questionnaire holds the raw applicant payload exactly as submitted. The
// payload is opaque and versioned (v1 legacy free-form or v2 structured);
// the normalizer owns interpretation. One row per user; resubmission
// replaces the payload in place.
type Questionnaire struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Payload datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"payload"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
