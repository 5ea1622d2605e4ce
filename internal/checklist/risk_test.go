package checklist

import (
	"testing"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
)

func fptr(f float64) *float64 { return &f }

func TestScoreProfileBaseline(t *testing.T) {
	p := types.ApplicantProfile{VisaTypeCode: "tourist"}
	score := ScoreProfile(p)
	if score.ProbabilityPercent != 70 {
		t.Fatalf("expected baseline 70, got %d", score.ProbabilityPercent)
	}
	if score.Level != types.RiskLevelHigh {
		t.Fatalf("expected level high at 70, got %s", score.Level)
	}
	if len(score.RiskFactors) != 0 {
		t.Fatalf("expected no risk factors, got %v", score.RiskFactors)
	}
}

func TestScoreProfileTouristLowFunds(t *testing.T) {
	p := types.ApplicantProfile{
		VisaTypeCode: "tourist",
		Financial:    types.FinancialBlock{BankBalanceUSD: fptr(1500)},
	}
	score := ScoreProfile(p)
	if score.ProbabilityPercent != 60 {
		t.Fatalf("expected 60, got %d", score.ProbabilityPercent)
	}
	if !containsString(score.RiskFactors, FactorLowTouristFunds) {
		t.Fatalf("missing low funds factor: %v", score.RiskFactors)
	}
}

func TestScoreProfileUnknownBalanceNoDeduction(t *testing.T) {
	p := types.ApplicantProfile{VisaTypeCode: "tourist"}
	score := ScoreProfile(p)
	if score.ProbabilityPercent != 70 {
		t.Fatalf("nil balance must not trigger the funds deduction, got %d", score.ProbabilityPercent)
	}
}

func TestScoreProfileStudentLowFunds(t *testing.T) {
	p := types.ApplicantProfile{
		VisaTypeCode: "student",
		Financial:    types.FinancialBlock{BankBalanceUSD: fptr(8000)},
	}
	score := ScoreProfile(p)
	if score.ProbabilityPercent != 55 {
		t.Fatalf("expected 55, got %d", score.ProbabilityPercent)
	}
}

func TestScoreProfileStackedNegatives(t *testing.T) {
	p := types.ApplicantProfile{
		VisaTypeCode: "tourist",
		Financial:    types.FinancialBlock{BankBalanceUSD: fptr(500)},
		TravelHistory: types.TravelHistoryBlock{
			PreviousVisaRejections: true,
			PreviousOverstays:      true,
		},
	}
	score := ScoreProfile(p)
	// 70 - 10 - 15 - 25 = 20
	if score.ProbabilityPercent != 20 {
		t.Fatalf("expected 20, got %d", score.ProbabilityPercent)
	}
	if score.Level != types.RiskLevelLow {
		t.Fatalf("expected level low, got %s", score.Level)
	}
}

func TestScoreProfilePositiveFactors(t *testing.T) {
	p := types.ApplicantProfile{
		VisaTypeCode: "tourist",
		Ties:         types.TiesBlock{HasProperty: true, HasFamily: true},
	}
	score := ScoreProfile(p)
	if score.ProbabilityPercent != 80 {
		t.Fatalf("expected 80, got %d", score.ProbabilityPercent)
	}
	if len(score.PositiveFactors) != 2 {
		t.Fatalf("expected 2 positive factors, got %v", score.PositiveFactors)
	}
}

func TestScoreProfileClampCeiling(t *testing.T) {
	if got := Clamp(97); got != 90 {
		t.Fatalf("expected ceiling 90, got %d", got)
	}
	if got := Clamp(3); got != 10 {
		t.Fatalf("expected floor 10, got %d", got)
	}
	if got := Clamp(55); got != 55 {
		t.Fatalf("expected passthrough 55, got %d", got)
	}
}

func TestLevelForBoundaries(t *testing.T) {
	cases := []struct {
		percent int
		want    string
	}{
		{39, types.RiskLevelLow},
		{40, types.RiskLevelMedium},
		{69, types.RiskLevelMedium},
		{70, types.RiskLevelHigh},
		{90, types.RiskLevelHigh},
		{10, types.RiskLevelLow},
	}
	for _, tc := range cases {
		if got := LevelFor(tc.percent); got != tc.want {
			t.Fatalf("LevelFor(%d) = %s, want %s", tc.percent, got, tc.want)
		}
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestScoreProfileTouristLowFundsWithFamilyTies(t *testing.T) {
	p := types.ApplicantProfile{
		VisaTypeCode: "tourist",
		Financial:    types.FinancialBlock{BankBalanceUSD: fptr(1500)},
		Ties:         types.TiesBlock{HasFamily: true},
	}
	score := ScoreProfile(p)
	if score.ProbabilityPercent != 65 {
		t.Fatalf("expected 70-10+5=65, got %d", score.ProbabilityPercent)
	}
	if score.Level != types.RiskLevelMedium {
		t.Fatalf("expected medium at 65, got %s", score.Level)
	}
	if !containsString(score.RiskFactors, FactorLowTouristFunds) {
		t.Fatalf("missing low funds factor: %v", score.RiskFactors)
	}
	if !containsString(score.PositiveFactors, PositiveFamilyTies) {
		t.Fatalf("missing family ties factor: %v", score.PositiveFactors)
	}
}

func TestScoreProfileOverstayOnly(t *testing.T) {
	p := types.ApplicantProfile{
		VisaTypeCode:  "tourist",
		TravelHistory: types.TravelHistoryBlock{PreviousOverstays: true},
	}
	score := ScoreProfile(p)
	if score.ProbabilityPercent != 45 {
		t.Fatalf("expected 70-25=45, got %d", score.ProbabilityPercent)
	}
	if score.Level != types.RiskLevelMedium {
		t.Fatalf("expected medium at 45, got %s", score.Level)
	}
	if len(score.RiskFactors) != 1 || score.RiskFactors[0] != FactorPreviousOverstay {
		t.Fatalf("expected only the overstay factor, got %v", score.RiskFactors)
	}
}

// A student with thin funds plus a prior rejection lands on exactly 40,
// which is the first percent that is no longer low.
func TestScoreProfileStudentRejectionBoundary(t *testing.T) {
	p := types.ApplicantProfile{
		VisaTypeCode:  "student",
		Financial:     types.FinancialBlock{BankBalanceUSD: fptr(5000)},
		TravelHistory: types.TravelHistoryBlock{PreviousVisaRejections: true},
	}
	score := ScoreProfile(p)
	if score.ProbabilityPercent != 40 {
		t.Fatalf("expected 70-15-15=40, got %d", score.ProbabilityPercent)
	}
	if score.Level != types.RiskLevelMedium {
		t.Fatalf("40 sits on the medium side of the boundary, got %s", score.Level)
	}
}
