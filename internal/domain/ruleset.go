package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RuleSetStatusDraft    = "draft"
	RuleSetStatusApproved = "approved"
	RuleSetStatusRetired  = "retired"
)

// VisaRuleSet is the authoritative per-(country, visaType) document rule
// record. Rules are curated by the admin surface and read-only here.
type VisaRuleSet struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CountryCode string    `gorm:"type:varchar(8);not null;index:idx_rule_sets_country_visa" json:"country_code"`
	VisaType    string    `gorm:"type:varchar(32);not null;index:idx_rule_sets_country_visa" json:"visa_type"`
	Status      string    `gorm:"type:varchar(16);not null;default:'draft';index" json:"status"`
	Active      bool      `gorm:"not null;default:false;index" json:"active"`

	// CatalogMode switches the resolver to catalog expansion via the
	// document_catalog_entries table.
	CatalogMode bool `gorm:"not null;default:false" json:"catalog_mode"`

	Documents              datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"documents"`
	FinancialRequirements  datatypes.JSON `gorm:"type:jsonb" json:"financial_requirements,omitempty"`
	AdditionalRequirements datatypes.JSON `gorm:"type:jsonb" json:"additional_requirements,omitempty"`

	SourceConfidence    float64   `gorm:"not null;default:0" json:"source_confidence"`
	SourceExtractedFrom string    `gorm:"type:text" json:"source_extracted_from"`
	SourceExtractedAt   time.Time `json:"source_extracted_at"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// RuleSetDocumentRef points a catalog-mode rule set at a catalog entry, with
// optional per-reference overrides.
type RuleSetDocumentRef struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RuleSetID         uuid.UUID `gorm:"type:uuid;not null;index" json:"rule_set_id"`
	DocumentType      string    `gorm:"type:varchar(64);not null" json:"document_type"`
	CategoryOverride  string    `gorm:"type:varchar(32)" json:"category_override,omitempty"`
	ConditionOverride string    `gorm:"type:text" json:"condition_override,omitempty"`
	Position          int       `gorm:"not null;default:0" json:"position"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

// DocumentCatalogEntry is the shared catalog a RuleSetDocumentRef expands from.
type DocumentCatalogEntry struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentType        string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"document_type"`
	Category            string    `gorm:"type:varchar(32);not null;default:'optional'" json:"category"`
	Condition           string    `gorm:"type:text" json:"condition,omitempty"`
	Description         string    `gorm:"type:text" json:"description"`
	ValidityRequirement string    `gorm:"type:text" json:"validity_requirement,omitempty"`
	FormatRequirement   string    `gorm:"type:text" json:"format_requirement,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

// RuleDoc is one document rule after catalog expansion.
type RuleDoc struct {
	DocumentType        string `json:"documentType"`
	Category            string `json:"category"`
	Condition           string `json:"condition,omitempty"`
	Description         string `json:"description"`
	ValidityRequirement string `json:"validityRequirement,omitempty"`
	FormatRequirement   string `json:"formatRequirement,omitempty"`
}

type SourceInfo struct {
	Confidence    float64   `json:"confidence"`
	ExtractedFrom string    `json:"extractedFrom"`
	ExtractedAt   time.Time `json:"extractedAt"`
}

// RuleSetData is the resolved, expanded view the pipeline consumes.
type RuleSetData struct {
	CountryCode            string         `json:"countryCode"`
	VisaType               string         `json:"visaType"`
	RequiredDocuments      []RuleDoc      `json:"requiredDocuments"`
	FinancialRequirements  map[string]any `json:"financialRequirements,omitempty"`
	AdditionalRequirements []string       `json:"additionalRequirements,omitempty"`
	SourceInfo             SourceInfo     `json:"sourceInfo"`
}

// DecodeRuleDocs decodes the jsonb documents column. A malformed column is a
// configuration problem and surfaces as an empty slice plus the error.
func (rs *VisaRuleSet) DecodeRuleDocs() ([]RuleDoc, error) {
	if len(rs.Documents) == 0 {
		return nil, nil
	}
	var docs []RuleDoc
	if err := json.Unmarshal(rs.Documents, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (rs *VisaRuleSet) DecodeFinancialRequirements() map[string]any {
	if len(rs.FinancialRequirements) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(rs.FinancialRequirements, &out); err != nil {
		return nil
	}
	return out
}

func (rs *VisaRuleSet) DecodeAdditionalRequirements() []string {
	if len(rs.AdditionalRequirements) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(rs.AdditionalRequirements, &out); err != nil {
		return nil
	}
	return out
}
