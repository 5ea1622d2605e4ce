package domain

// ApplicantProfile is the canonical, fully-defaulted view of one applicant.
// Numeric fields use pointers so "unknown" stays distinct from zero; the risk
// scorer and the condition evaluator both depend on that distinction.
type ApplicantProfile struct {
	Nationality            string `json:"nationality"`
	ResidenceCountry       string `json:"residenceCountry"`
	DestinationCountryCode string `json:"destinationCountryCode"`
	DestinationCountryName string `json:"destinationCountryName"`
	VisaTypeCode           string `json:"visaTypeCode"`
	VisaTypeLabel          string `json:"visaTypeLabel"`

	Financial     FinancialBlock     `json:"financial"`
	Ties          TiesBlock          `json:"ties"`
	TravelHistory TravelHistoryBlock `json:"travelHistory"`
	Documents     DocumentFlags      `json:"documents"`

	Age         *int   `json:"age"`
	AppLanguage string `json:"appLanguage"`
}

type FinancialBlock struct {
	BankBalanceUSD            *float64 `json:"bankBalanceUSD"`
	MonthlyIncomeUSD          *float64 `json:"monthlyIncomeUSD"`
	SponsorType               string   `json:"sponsorType"`
	FinancialSufficiencyRatio *float64 `json:"financialSufficiencyRatio"`
}

type TiesBlock struct {
	HasProperty       bool     `json:"hasProperty"`
	HasFamily         bool     `json:"hasFamily"`
	HasChildren       bool     `json:"hasChildren"`
	TiesStrengthScore *float64 `json:"tiesStrengthScore"`
}

type TravelHistoryBlock struct {
	HasInternationalTravel bool     `json:"hasInternationalTravel"`
	PreviousVisaRejections bool     `json:"previousVisaRejections"`
	PreviousOverstays      bool     `json:"previousOverstays"`
	TravelHistoryScore     *float64 `json:"travelHistoryScore"`
}

type DocumentFlags struct {
	HasPassport          bool `json:"hasPassport"`
	HasBankStatement     bool `json:"hasBankStatement"`
	HasEmploymentLetter  bool `json:"hasEmploymentLetter"`
	HasPropertyDocuments bool `json:"hasPropertyDocuments"`
	HasInvitationLetter  bool `json:"hasInvitationLetter"`
}

const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)

// RiskScore is derived from a profile, never stored on its own.
type RiskScore struct {
	ProbabilityPercent int      `json:"probabilityPercent"`
	Level              string   `json:"level"`
	RiskFactors        []string `json:"riskFactors"`
	PositiveFactors    []string `json:"positiveFactors"`
}

// ContextMetadata records how the canonical context was assembled so tests and
// dashboards can tell real questionnaire data from defaults.
type ContextMetadata struct {
	SourceFormat       string   `json:"sourceFormat"`
	FallbackFieldsUsed []string `json:"fallbackFieldsUsed"`
}

// CanonicalContext is the single input every downstream pipeline stage reads.
type CanonicalContext struct {
	Profile  ApplicantProfile `json:"profile"`
	Risk     RiskScore        `json:"riskScore"`
	Metadata ContextMetadata  `json:"metadata"`
}
