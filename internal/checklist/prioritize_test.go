package checklist

import (
	"testing"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
)

func TestPrioritizeCategoryBaselines(t *testing.T) {
	items := []types.ChecklistItem{
		{DocumentType: "a", Category: types.CategoryOptional, Group: types.GroupOther},
		{DocumentType: "b", Category: types.CategoryRequired, Group: types.GroupOther},
		{DocumentType: "c", Category: types.CategoryHighlyRecommended, Group: types.GroupOther},
	}
	out := Prioritize(items, types.CanonicalContext{Risk: types.RiskScore{Level: types.RiskLevelLow}})
	if out[0].DocumentType != "b" || out[0].Priority != 1 {
		t.Fatalf("required must sort first at priority 1: %+v", out[0])
	}
	if out[1].DocumentType != "c" || out[1].Priority != 3 {
		t.Fatalf("highly_recommended baseline wrong: %+v", out[1])
	}
	if out[2].DocumentType != "a" || out[2].Priority != 5 {
		t.Fatalf("optional baseline wrong: %+v", out[2])
	}
}

func TestPrioritizeKeepsModelPriority(t *testing.T) {
	items := []types.ChecklistItem{
		{DocumentType: "a", Category: types.CategoryOptional, Priority: 2, Group: types.GroupOther},
	}
	out := Prioritize(items, types.CanonicalContext{Risk: types.RiskScore{Level: types.RiskLevelLow}})
	if out[0].Priority != 2 {
		t.Fatalf("model priority must survive, got %d", out[0].Priority)
	}
}

func TestPrioritizeHighRiskBumpsRiskGroups(t *testing.T) {
	items := []types.ChecklistItem{
		{DocumentType: "bank", Category: types.CategoryHighlyRecommended, Group: types.GroupFinancial},
		{DocumentType: "photo", Category: types.CategoryHighlyRecommended, Group: types.GroupIdentity},
	}
	cctx := types.CanonicalContext{Risk: types.RiskScore{Level: types.RiskLevelHigh}}
	out := Prioritize(items, cctx)
	var bank, photo types.ChecklistItem
	for _, item := range out {
		switch item.DocumentType {
		case "bank":
			bank = item
		case "photo":
			photo = item
		}
	}
	if bank.Priority != 2 {
		t.Fatalf("financial group must be bumped once under high risk, got %d", bank.Priority)
	}
	if photo.Priority != 3 {
		t.Fatalf("identity group must keep its baseline, got %d", photo.Priority)
	}
}

func TestPrioritizeBumpIsSingleAndClamped(t *testing.T) {
	// High risk, low financial ratio, and a past refusal all point at the
	// same financial item; it still moves only one step.
	ratio := 0.4
	items := []types.ChecklistItem{
		{DocumentType: "bank", Category: types.CategoryRequired, Group: types.GroupFinancial},
	}
	cctx := types.CanonicalContext{
		Risk: types.RiskScore{Level: types.RiskLevelHigh},
		Profile: types.ApplicantProfile{
			Financial:     types.FinancialBlock{FinancialSufficiencyRatio: &ratio},
			TravelHistory: types.TravelHistoryBlock{PreviousVisaRejections: true},
		},
	}
	out := Prioritize(items, cctx)
	if out[0].Priority != 1 {
		t.Fatalf("priority must never drop below 1, got %d", out[0].Priority)
	}
}

func TestPrioritizeWeakTiesBumpsTiesGroup(t *testing.T) {
	tiesScore := 0.3
	items := []types.ChecklistItem{
		{DocumentType: "property", Category: types.CategoryOptional, Group: types.GroupTies},
	}
	cctx := types.CanonicalContext{
		Risk:    types.RiskScore{Level: types.RiskLevelLow},
		Profile: types.ApplicantProfile{Ties: types.TiesBlock{TiesStrengthScore: &tiesScore}},
	}
	out := Prioritize(items, cctx)
	if out[0].Priority != 4 {
		t.Fatalf("weak ties must bump ties group, got %d", out[0].Priority)
	}
}

func TestPrioritizeStableOnEqualPriority(t *testing.T) {
	items := []types.ChecklistItem{
		{DocumentType: "first", Category: types.CategoryRequired, Group: types.GroupOther},
		{DocumentType: "second", Category: types.CategoryRequired, Group: types.GroupOther},
		{DocumentType: "third", Category: types.CategoryRequired, Group: types.GroupOther},
	}
	out := Prioritize(items, types.CanonicalContext{Risk: types.RiskScore{Level: types.RiskLevelLow}})
	if out[0].DocumentType != "first" || out[1].DocumentType != "second" || out[2].DocumentType != "third" {
		t.Fatalf("equal priorities must keep input order: %+v", out)
	}
}
