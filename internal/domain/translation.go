package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentTranslation is the trilingual name/description row for one document
// type. Used to synthesize checklist items when the model output misses a base
// document and for the rules-only degradation path.
type DocumentTranslation struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentType string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"document_type"`

	NameEn string `gorm:"type:text;not null" json:"name_en"`
	NameUz string `gorm:"type:text" json:"name_uz"`
	NameRu string `gorm:"type:text" json:"name_ru"`

	DescriptionEn string `gorm:"type:text" json:"description_en"`
	DescriptionUz string `gorm:"type:text" json:"description_uz"`
	DescriptionRu string `gorm:"type:text" json:"description_ru"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}
