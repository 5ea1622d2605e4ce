package checklist

import (
	types "github.com/visabuddy/visabuddy-backend/internal/domain"
)

// BuildContext turns a raw questionnaire payload into the canonical context
// the rest of the pipeline consumes. Pure and total: it never fails, and a
// nil or unrecognizable payload yields the defaulted profile with the fixed
// incomplete-data risk score rather than a computed one.
func BuildContext(raw []byte) types.CanonicalContext {
	profile, format, fallbacks := Normalize(raw)

	var risk types.RiskScore
	if format == FormatUnknown {
		risk = types.RiskScore{
			ProbabilityPercent: riskBaseline,
			Level:              types.RiskLevelMedium,
			RiskFactors:        []string{FactorIncompleteData},
		}
	} else {
		risk = ScoreProfile(profile)
	}

	return types.CanonicalContext{
		Profile: profile,
		Risk:    risk,
		Metadata: types.ContextMetadata{
			SourceFormat:       format.String(),
			FallbackFieldsUsed: fallbacks,
		},
	}
}
