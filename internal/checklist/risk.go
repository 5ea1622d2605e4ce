package checklist

import (
	types "github.com/visabuddy/visabuddy-backend/internal/domain"
)

// Risk factor strings surfaced to the prompt and the probability endpoint.
const (
	FactorLowTouristFunds   = "low_funds_for_tourist_visa"
	FactorLowStudentFunds   = "insufficient_funds_for_study"
	FactorPreviousRejection = "previous_visa_rejection"
	FactorPreviousOverstay  = "previous_overstay"
	FactorIncompleteData    = "incomplete_questionnaire_data"

	PositiveOwnsProperty = "owns_property_in_home_country"
	PositiveFamilyTies   = "family_ties_in_home_country"
)

const (
	riskBaseline = 70
	riskFloor    = 10
	riskCeiling  = 90
)

// ScoreProfile computes approval probability from a fixed additive model.
// Deterministic: no I/O, no randomness.
func ScoreProfile(p types.ApplicantProfile) types.RiskScore {
	percent := riskBaseline
	var riskFactors []string
	var positiveFactors []string

	bal := p.Financial.BankBalanceUSD
	if p.VisaTypeCode == "tourist" && bal != nil && *bal < 2000 {
		percent -= 10
		riskFactors = append(riskFactors, FactorLowTouristFunds)
	}
	if p.VisaTypeCode == "student" && bal != nil && *bal < 10000 {
		percent -= 15
		riskFactors = append(riskFactors, FactorLowStudentFunds)
	}
	if p.TravelHistory.PreviousVisaRejections {
		percent -= 15
		riskFactors = append(riskFactors, FactorPreviousRejection)
	}
	if p.TravelHistory.PreviousOverstays {
		percent -= 25
		riskFactors = append(riskFactors, FactorPreviousOverstay)
	}
	if p.Ties.HasProperty {
		percent += 5
		positiveFactors = append(positiveFactors, PositiveOwnsProperty)
	}
	if p.Ties.HasFamily {
		percent += 5
		positiveFactors = append(positiveFactors, PositiveFamilyTies)
	}

	percent = Clamp(percent)
	return types.RiskScore{
		ProbabilityPercent: percent,
		Level:              LevelFor(percent),
		RiskFactors:        riskFactors,
		PositiveFactors:    positiveFactors,
	}
}

// Clamp bounds a probability percent to the reportable range.
func Clamp(percent int) int {
	if percent < riskFloor {
		return riskFloor
	}
	if percent > riskCeiling {
		return riskCeiling
	}
	return percent
}

// LevelFor maps a percent to a risk band. Boundaries are exclusive on the
// lower side: 40 is medium, 70 is high.
func LevelFor(percent int) string {
	switch {
	case percent < 40:
		return types.RiskLevelLow
	case percent < 70:
		return types.RiskLevelMedium
	default:
		return types.RiskLevelHigh
	}
}
