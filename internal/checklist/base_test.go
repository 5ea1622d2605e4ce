package checklist

import (
	"errors"
	"testing"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
)

func sampleRules() *types.RuleSetData {
	return &types.RuleSetData{
		CountryCode: "US",
		VisaType:    "tourist",
		RequiredDocuments: []types.RuleDoc{
			{DocumentType: "passport", Category: types.CategoryRequired},
			{DocumentType: "bank_statement", Category: types.CategoryRequired, Condition: "financial.sponsorType == 'self'"},
			{DocumentType: "sponsor_letter", Category: types.CategoryRequired, Condition: "financial.sponsorType != 'self'"},
			{DocumentType: "property_documents", Category: types.CategoryHighlyRecommended, Condition: "ties.hasProperty"},
			{DocumentType: "travel_itinerary", Category: "nonsense_category"},
		},
	}
}

func TestBuildBaseFiltersByCondition(t *testing.T) {
	profile := types.ApplicantProfile{
		Financial: types.FinancialBlock{SponsorType: "self"},
		Ties:      types.TiesBlock{HasProperty: true},
	}
	base, warns, err := BuildBase(sampleRules(), profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}

	got := map[string]types.BaseChecklistItem{}
	for _, item := range base {
		got[item.DocumentType] = item
	}
	if _, ok := got["sponsor_letter"]; ok {
		t.Fatal("sponsor_letter must be excluded for self-sponsored applicant")
	}
	if _, ok := got["bank_statement"]; !ok {
		t.Fatal("bank_statement must be included")
	}
	if !got["passport"].Required {
		t.Fatal("required category must set Required")
	}
	if got["property_documents"].Required {
		t.Fatal("highly_recommended must not be Required")
	}
	if got["travel_itinerary"].Category != types.CategoryOptional {
		t.Fatalf("invalid category must coerce to optional, got %s", got["travel_itinerary"].Category)
	}
}

func TestBuildBasePreservesRuleOrder(t *testing.T) {
	profile := types.ApplicantProfile{Financial: types.FinancialBlock{SponsorType: "self"}}
	base, _, err := BuildBase(sampleRules(), profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base[0].DocumentType != "passport" || base[1].DocumentType != "bank_statement" {
		t.Fatalf("rule order not preserved: %+v", base)
	}
}

func TestBuildBaseEmptyRuleSet(t *testing.T) {
	_, _, err := BuildBase(&types.RuleSetData{}, types.ApplicantProfile{})
	if !errors.Is(err, ErrEmptyBaseChecklist) {
		t.Fatalf("expected ErrEmptyBaseChecklist, got %v", err)
	}
	_, _, err = BuildBase(nil, types.ApplicantProfile{})
	if !errors.Is(err, ErrEmptyBaseChecklist) {
		t.Fatalf("expected ErrEmptyBaseChecklist for nil rules, got %v", err)
	}
}

func TestBuildBaseAllConditionsFalse(t *testing.T) {
	rules := &types.RuleSetData{
		RequiredDocuments: []types.RuleDoc{
			{DocumentType: "sponsor_letter", Category: types.CategoryRequired, Condition: "financial.sponsorType != 'self'"},
		},
	}
	profile := types.ApplicantProfile{Financial: types.FinancialBlock{SponsorType: "self"}}
	_, _, err := BuildBase(rules, profile)
	if !errors.Is(err, ErrEmptyBaseChecklist) {
		t.Fatalf("expected ErrEmptyBaseChecklist, got %v", err)
	}
}
