package domain

const (
	CategoryRequired          = "required"
	CategoryHighlyRecommended = "highly_recommended"
	CategoryOptional          = "optional"
)

const (
	SourceRules    = "rules"
	SourceAIExtra  = "ai_extra"
	SourceFallback = "fallback"
)

const (
	GroupIdentity      = "identity"
	GroupFinancial     = "financial"
	GroupTies          = "ties"
	GroupEmployment    = "employment"
	GroupTravel        = "travel"
	GroupEducation     = "education"
	GroupInsurance     = "insurance"
	GroupAccommodation = "accommodation"
	GroupOther         = "other"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryRequired, CategoryHighlyRecommended, CategoryOptional:
		return true
	}
	return false
}

func ValidGroup(g string) bool {
	switch g {
	case GroupIdentity, GroupFinancial, GroupTies, GroupEmployment,
		GroupTravel, GroupEducation, GroupInsurance, GroupAccommodation, GroupOther:
		return true
	}
	return false
}

// BaseChecklistItem is the deterministic ground truth derived from the rule
// set. The enrichment step may add to it but never alter it.
type BaseChecklistItem struct {
	DocumentType string `json:"documentType"`
	Category     string `json:"category"`
	Required     bool   `json:"required"`
}

// ChecklistItem is the enriched, user-facing unit.
type ChecklistItem struct {
	ID                     string   `json:"id"`
	DocumentType           string   `json:"documentType"`
	Category               string   `json:"category"`
	Required               bool     `json:"required"`
	Name                   string   `json:"name"`
	NameUz                 string   `json:"nameUz"`
	NameRu                 string   `json:"nameRu"`
	Description            string   `json:"description"`
	DescriptionUz          string   `json:"descriptionUz"`
	DescriptionRu          string   `json:"descriptionRu"`
	AppliesToThisApplicant bool     `json:"appliesToThisApplicant"`
	ReasonIfApplies        string   `json:"reasonIfApplies"`
	Group                  string   `json:"group"`
	Priority               int      `json:"priority"`
	DependsOn              []string `json:"dependsOn"`
	Source                 string   `json:"source"`
	ExpertReasoning        string   `json:"expertReasoning,omitempty"`
	FinancialDetails       string   `json:"financialDetails,omitempty"`
	TiesDetails            string   `json:"tiesDetails,omitempty"`
}

// ChecklistResponse is the sole successful output of the pipeline. A nil
// *ChecklistResponse means "no personalized result"; an empty slice is never
// used as that signal.
type ChecklistResponse struct {
	Checklist []ChecklistItem `json:"checklist"`
}
