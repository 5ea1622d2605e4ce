package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CountryVisaPlaybook carries advisory, non-authoritative hints for prompt
// building (embassy quirks, common refusal reasons, interview notes). It never
// changes which documents are required.
type CountryVisaPlaybook struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CountryCode string    `gorm:"type:varchar(8);not null;index:idx_playbooks_country_category" json:"country_code"`
	Category    string    `gorm:"type:varchar(32);not null;index:idx_playbooks_country_category" json:"category"`

	Hints datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"hints"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (p *CountryVisaPlaybook) DecodeHints() []string {
	if len(p.Hints) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(p.Hints, &out); err != nil {
		return nil
	}
	return out
}

// Playbook is the resolved advisory view handed to prompt builders.
type Playbook struct {
	CountryCode string   `json:"countryCode"`
	Category    string   `json:"category"`
	Hints       []string `json:"hints"`
}
