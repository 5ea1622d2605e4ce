package checklist

import (
	"encoding/json"
	"strings"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
)

// Format is the closed set of questionnaire payload shapes. Classification is
// total: anything that is not recognizably V2 or V1-with-summary is Unknown,
// including unparseable bytes.
type Format int

const (
	FormatUnknown Format = iota
	FormatV2
	FormatV1Summary
)

func (f Format) String() string {
	switch f {
	case FormatV2:
		return "v2"
	case FormatV1Summary:
		return "v1_summary"
	default:
		return "unknown"
	}
}

// Population-appropriate defaults. The deployment serves applicants from
// Uzbekistan applying mostly for US tourist visas.
const (
	DefaultNationality      = "UZ"
	DefaultResidenceCountry = "UZ"
	DefaultDestinationCode  = "US"
	DefaultDestinationName  = "United States"
	DefaultVisaType         = "tourist"
	DefaultSponsorType      = "self"
	DefaultAppLanguage      = "en"
)

// Classify is a pure function over the raw payload.
func Classify(raw []byte) Format {
	if len(raw) == 0 {
		return FormatUnknown
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return FormatUnknown
	}
	return classifyMap(m)
}

func classifyMap(m map[string]any) Format {
	if version, _ := m["version"].(string); version == "2.0" {
		if isObject(m["personal"]) && isObject(m["travel"]) {
			return FormatV2
		}
	}
	if hasSummary, _ := m["_hasSummary"].(bool); hasSummary {
		if summary, ok := m["summary"].(map[string]any); ok && validSummary(summary) {
			return FormatV1Summary
		}
	}
	return FormatUnknown
}

// A v1 summary is only trusted when it names the applicant's citizenship.
func validSummary(summary map[string]any) bool {
	citizenship, _ := summary["citizenship"].(string)
	return strings.TrimSpace(citizenship) != ""
}

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// Normalize maps the raw payload to the canonical profile. Total and pure:
// malformed input yields the fully-defaulted profile under FormatUnknown.
// The returned field list records every canonical field that fell back to a
// default.
func Normalize(raw []byte) (types.ApplicantProfile, Format, []string) {
	format := Classify(raw)
	switch format {
	case FormatV2:
		var m map[string]any
		_ = json.Unmarshal(raw, &m)
		profile, fallbacks := mapV2(m)
		return profile, format, fallbacks
	case FormatV1Summary:
		var m map[string]any
		_ = json.Unmarshal(raw, &m)
		summary := m["summary"].(map[string]any)
		profile, fallbacks := mapV1Summary(summary)
		return profile, format, fallbacks
	default:
		profile, fallbacks := defaultProfile()
		return profile, format, fallbacks
	}
}

// defaultProfile is the canonical fully-defaulted applicant: primary
// population nationality, self-sponsored, all booleans false, unknown
// numerics nil.
func defaultProfile() (types.ApplicantProfile, []string) {
	profile := types.ApplicantProfile{
		Nationality:            DefaultNationality,
		ResidenceCountry:       DefaultResidenceCountry,
		DestinationCountryCode: DefaultDestinationCode,
		DestinationCountryName: DefaultDestinationName,
		VisaTypeCode:           DefaultVisaType,
		VisaTypeLabel:          DefaultVisaType,
		Financial:              types.FinancialBlock{SponsorType: DefaultSponsorType},
		AppLanguage:            DefaultAppLanguage,
	}
	fallbacks := []string{
		"nationality", "residenceCountry", "destinationCountryCode",
		"visaTypeCode", "sponsorType", "appLanguage",
	}
	return profile, fallbacks
}

type fieldTracker struct {
	fallbacks []string
}

func (t *fieldTracker) str(m map[string]any, key, def, field string) string {
	if m != nil {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	t.fallbacks = append(t.fallbacks, field)
	return def
}

func (t *fieldTracker) boolVal(m map[string]any, key string) bool {
	if m != nil {
		if b, ok := m[key].(bool); ok {
			return b
		}
	}
	return false
}

// floatPtr never records a fallback: unknown numerics stay nil by contract.
func (t *fieldTracker) floatPtr(m map[string]any, key string) *float64 {
	if m != nil {
		if f, ok := m[key].(float64); ok {
			return &f
		}
	}
	return nil
}

func (t *fieldTracker) intPtr(m map[string]any, key string) *int {
	if m != nil {
		if f, ok := m[key].(float64); ok {
			i := int(f)
			return &i
		}
	}
	return nil
}

func obj(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	o, _ := m[key].(map[string]any)
	return o
}

func mapV2(m map[string]any) (types.ApplicantProfile, []string) {
	t := &fieldTracker{}
	personal := obj(m, "personal")
	travel := obj(m, "travel")
	finances := obj(m, "finances")
	ties := obj(m, "ties")
	documents := obj(m, "documents")

	visaType := t.str(travel, "visaType", DefaultVisaType, "visaTypeCode")
	profile := types.ApplicantProfile{
		Nationality:            t.str(personal, "citizenship", DefaultNationality, "nationality"),
		ResidenceCountry:       t.str(personal, "residenceCountry", DefaultResidenceCountry, "residenceCountry"),
		DestinationCountryCode: t.str(travel, "destinationCountry", DefaultDestinationCode, "destinationCountryCode"),
		DestinationCountryName: t.str(travel, "destinationCountryName", DefaultDestinationName, "destinationCountryName"),
		VisaTypeCode:           visaType,
		VisaTypeLabel:          t.str(travel, "visaTypeLabel", visaType, "visaTypeLabel"),
		Financial: types.FinancialBlock{
			BankBalanceUSD:            t.floatPtr(finances, "bankBalanceUSD"),
			MonthlyIncomeUSD:          t.floatPtr(finances, "monthlyIncomeUSD"),
			SponsorType:               t.str(finances, "sponsorType", DefaultSponsorType, "sponsorType"),
			FinancialSufficiencyRatio: t.floatPtr(finances, "financialSufficiencyRatio"),
		},
		Ties: types.TiesBlock{
			HasProperty:       t.boolVal(ties, "hasProperty"),
			HasFamily:         t.boolVal(ties, "hasFamily"),
			HasChildren:       t.boolVal(personal, "hasChildren") || t.boolVal(ties, "hasChildren"),
			TiesStrengthScore: t.floatPtr(ties, "tiesStrengthScore"),
		},
		TravelHistory: types.TravelHistoryBlock{
			HasInternationalTravel: t.boolVal(travel, "hasInternationalTravel"),
			PreviousVisaRejections: t.boolVal(travel, "previousVisaRejections"),
			PreviousOverstays:      t.boolVal(travel, "previousOverstays"),
			TravelHistoryScore:     t.floatPtr(travel, "travelHistoryScore"),
		},
		Documents: types.DocumentFlags{
			HasPassport:          t.boolVal(documents, "hasPassport"),
			HasBankStatement:     t.boolVal(documents, "hasBankStatement"),
			HasEmploymentLetter:  t.boolVal(documents, "hasEmploymentLetter"),
			HasPropertyDocuments: t.boolVal(documents, "hasPropertyDocuments"),
			HasInvitationLetter:  t.boolVal(documents, "hasInvitationLetter"),
		},
		Age:         t.intPtr(personal, "age"),
		AppLanguage: t.str(personal, "appLanguage", DefaultAppLanguage, "appLanguage"),
	}
	return profile, t.fallbacks
}

// mapV1Summary handles the legacy free-form payload through its validated
// summary block. Field names follow the old mobile client.
func mapV1Summary(summary map[string]any) (types.ApplicantProfile, []string) {
	t := &fieldTracker{}

	visaType := t.str(summary, "visaType", DefaultVisaType, "visaTypeCode")
	profile := types.ApplicantProfile{
		Nationality:            t.str(summary, "citizenship", DefaultNationality, "nationality"),
		ResidenceCountry:       t.str(summary, "currentCountry", DefaultResidenceCountry, "residenceCountry"),
		DestinationCountryCode: t.str(summary, "targetCountry", DefaultDestinationCode, "destinationCountryCode"),
		DestinationCountryName: t.str(summary, "targetCountryName", DefaultDestinationName, "destinationCountryName"),
		VisaTypeCode:           visaType,
		VisaTypeLabel:          visaType,
		Financial: types.FinancialBlock{
			BankBalanceUSD:   t.floatPtr(summary, "bankBalance"),
			MonthlyIncomeUSD: t.floatPtr(summary, "monthlyIncome"),
			SponsorType:      t.str(summary, "sponsor", DefaultSponsorType, "sponsorType"),
		},
		Ties: types.TiesBlock{
			HasProperty: t.boolVal(summary, "hasProperty"),
			HasFamily:   t.boolVal(summary, "hasFamilyInUzbekistan"),
			HasChildren: t.boolVal(summary, "hasChildren"),
		},
		TravelHistory: types.TravelHistoryBlock{
			HasInternationalTravel: t.boolVal(summary, "traveledAbroad"),
			PreviousVisaRejections: t.boolVal(summary, "previousRejections"),
			PreviousOverstays:      t.boolVal(summary, "previousOverstay"),
		},
		Documents:   v1DocumentFlags(summary),
		Age:         t.intPtr(summary, "age"),
		AppLanguage: t.str(summary, "language", DefaultAppLanguage, "appLanguage"),
	}
	return profile, t.fallbacks
}

func v1DocumentFlags(summary map[string]any) types.DocumentFlags {
	var flags types.DocumentFlags
	docs, _ := summary["documents"].([]any)
	for _, d := range docs {
		name, ok := d.(string)
		if !ok {
			continue
		}
		switch normalizeDocumentType(name) {
		case "passport":
			flags.HasPassport = true
		case "bank_statement":
			flags.HasBankStatement = true
		case "employment_letter":
			flags.HasEmploymentLetter = true
		case "property_documents", "property_docs":
			flags.HasPropertyDocuments = true
		case "invitation_letter":
			flags.HasInvitationLetter = true
		}
	}
	return flags
}

func normalizeDocumentType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
