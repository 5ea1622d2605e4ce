package checklist

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

type fakeCatalogStore struct {
	rs      *types.VisaRuleSet
	refs    []types.RuleSetDocumentRef
	entries []types.DocumentCatalogEntry
}

func (f *fakeCatalogStore) GetActiveRuleSet(context.Context, string, string) (*types.VisaRuleSet, error) {
	return f.rs, nil
}

func (f *fakeCatalogStore) GetDocumentRefs(context.Context, uuid.UUID) ([]types.RuleSetDocumentRef, error) {
	return f.refs, nil
}

func (f *fakeCatalogStore) GetCatalogEntries(context.Context, []string) ([]types.DocumentCatalogEntry, error) {
	return f.entries, nil
}

func TestResolveInlineDocuments(t *testing.T) {
	store := &fakeCatalogStore{rs: testRuleSet(testDocs())}
	resolver := NewResolver(store, logger.NewNop())

	rules, err := resolver.Resolve(context.Background(), "US", "tourist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules == nil || len(rules.RequiredDocuments) != 3 {
		t.Fatalf("unexpected rules: %+v", rules)
	}
	if rules.CountryCode != "US" || rules.VisaType != "tourist" {
		t.Fatalf("identity fields lost: %+v", rules)
	}
}

func TestResolveAbsentRuleSet(t *testing.T) {
	resolver := NewResolver(&fakeCatalogStore{}, logger.NewNop())
	rules, err := resolver.Resolve(context.Background(), "FR", "tourist")
	if err != nil {
		t.Fatalf("absence must not be an error: %v", err)
	}
	if rules != nil {
		t.Fatalf("expected nil rules, got %+v", rules)
	}
}

func TestResolveCatalogModeWithOverrides(t *testing.T) {
	rs := testRuleSet(nil)
	rs.CatalogMode = true
	store := &fakeCatalogStore{
		rs: rs,
		refs: []types.RuleSetDocumentRef{
			{DocumentType: "passport", Position: 0},
			{DocumentType: "bank_statement", Position: 1, CategoryOverride: types.CategoryHighlyRecommended},
			{DocumentType: "photo", Position: 2, ConditionOverride: "ties.hasProperty"},
			{DocumentType: "ghost_document", Position: 3},
		},
		entries: []types.DocumentCatalogEntry{
			{DocumentType: "passport", Category: types.CategoryRequired, Description: "valid passport"},
			{DocumentType: "bank_statement", Category: types.CategoryRequired, Condition: "financial.sponsorType == 'self'"},
			{DocumentType: "photo", Category: types.CategoryOptional},
		},
	}
	resolver := NewResolver(store, logger.NewNop())

	rules, err := resolver.Resolve(context.Background(), "US", "tourist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules.RequiredDocuments) != 3 {
		t.Fatalf("ghost ref must be skipped, got %d docs", len(rules.RequiredDocuments))
	}
	docs := map[string]types.RuleDoc{}
	for _, d := range rules.RequiredDocuments {
		docs[d.DocumentType] = d
	}
	if docs["bank_statement"].Category != types.CategoryHighlyRecommended {
		t.Fatalf("category override not applied: %+v", docs["bank_statement"])
	}
	if docs["bank_statement"].Condition != "financial.sponsorType == 'self'" {
		t.Fatalf("catalog condition lost: %+v", docs["bank_statement"])
	}
	if docs["photo"].Condition != "ties.hasProperty" {
		t.Fatalf("condition override not applied: %+v", docs["photo"])
	}
	if docs["passport"].Description != "valid passport" {
		t.Fatalf("catalog description lost: %+v", docs["passport"])
	}
}

func TestResolveCatalogModeNoRefsFallsBackToInline(t *testing.T) {
	rs := testRuleSet(testDocs())
	rs.CatalogMode = true
	resolver := NewResolver(&fakeCatalogStore{rs: rs}, logger.NewNop())

	rules, err := resolver.Resolve(context.Background(), "US", "tourist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules.RequiredDocuments) != 3 {
		t.Fatalf("expected inline fallback, got %+v", rules.RequiredDocuments)
	}
}

func TestResolveDecodesAuxiliaryColumns(t *testing.T) {
	rs := testRuleSet(testDocs())
	fin, _ := json.Marshal(map[string]any{"minBankBalanceUSD": 2000})
	add, _ := json.Marshal([]string{"book refundable tickets"})
	rs.FinancialRequirements = datatypes.JSON(fin)
	rs.AdditionalRequirements = datatypes.JSON(add)
	resolver := NewResolver(&fakeCatalogStore{rs: rs}, logger.NewNop())

	rules, err := resolver.Resolve(context.Background(), "US", "tourist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules.FinancialRequirements["minBankBalanceUSD"] != float64(2000) {
		t.Fatalf("financial requirements lost: %+v", rules.FinancialRequirements)
	}
	if len(rules.AdditionalRequirements) != 1 {
		t.Fatalf("additional requirements lost: %+v", rules.AdditionalRequirements)
	}
}
