package domain

import (
	"time"

	"github.com/google/uuid"
)

// EmbassyContent is immutable scraped/curated embassy source text for one
// (country, visaType). Advisory prompt material only; reads go through the
// TTL cache.
type EmbassyContent struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CountryCode string    `gorm:"type:varchar(8);not null;index:idx_embassy_country_visa" json:"country_code"`
	VisaType    string    `gorm:"type:varchar(32);not null;index:idx_embassy_country_visa" json:"visa_type"`

	Content     string    `gorm:"type:text;not null" json:"content"`
	RetrievedAt time.Time `json:"retrieved_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}
