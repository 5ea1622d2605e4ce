package checklist

import (
	"context"
	"errors"
	"testing"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

type fakeTranslations struct {
	rows map[string]*types.DocumentTranslation
	err  error
}

func (f *fakeTranslations) GetDocumentTranslation(_ context.Context, documentType string) (*types.DocumentTranslation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[documentType], nil
}

func TestTranslatorPrefersStoredRow(t *testing.T) {
	store := &fakeTranslations{rows: map[string]*types.DocumentTranslation{
		"passport": {DocumentType: "passport", NameEn: "Custom Passport Name", NameRu: "Паспорт"},
	}}
	tr := NewTranslator(store, logger.NewNop())
	got := tr.Lookup(context.Background(), "passport")
	if got.NameEn != "Custom Passport Name" {
		t.Fatalf("stored row must win, got %q", got.NameEn)
	}
}

func TestTranslatorBuiltinFallback(t *testing.T) {
	tr := NewTranslator(&fakeTranslations{}, logger.NewNop())
	got := tr.Lookup(context.Background(), "bank_statement")
	if got.NameEn != "Bank Statement" || got.NameRu == "" || got.NameUz == "" {
		t.Fatalf("builtin table must serve trilingual names: %+v", got)
	}
}

func TestTranslatorHumanizesUnknownType(t *testing.T) {
	tr := NewTranslator(&fakeTranslations{}, logger.NewNop())
	got := tr.Lookup(context.Background(), "notarized_land_deed")
	if got.NameEn != "Notarized Land Deed" {
		t.Fatalf("expected humanized name, got %q", got.NameEn)
	}
	if got.NameUz != got.NameEn || got.NameRu != got.NameEn {
		t.Fatal("humanized fallback must fill all languages")
	}
}

func TestTranslatorStoreErrorFallsThrough(t *testing.T) {
	tr := NewTranslator(&fakeTranslations{err: errors.New("db down")}, logger.NewNop())
	got := tr.Lookup(context.Background(), "passport")
	if got.NameEn == "" {
		t.Fatal("store failure must never produce an empty name")
	}
}
