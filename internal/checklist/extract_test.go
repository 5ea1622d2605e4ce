package checklist

import (
	"errors"
	"testing"
)

func TestExtractItemsCleanObject(t *testing.T) {
	raw := `{"checklist": [{"documentType": "passport"}, {"documentType": "photo"}]}`
	items, err := ExtractItems(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestExtractItemsMarkdownFence(t *testing.T) {
	raw := "Here is your checklist:\n```json\n{\"checklist\": [{\"documentType\": \"passport\"}]}\n```\nGood luck!"
	items, err := ExtractItems(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0]["documentType"] != "passport" {
		t.Fatalf("unexpected items: %v", items)
	}
}

func TestExtractItemsReasoningPreamble(t *testing.T) {
	raw := `Let me think about this applicant. They have low funds {not json here}.
Final answer: {"checklist": [{"documentType": "passport"}, {"documentType": "bank_statement"}]}`
	items, err := ExtractItems(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestExtractItemsBareArray(t *testing.T) {
	raw := `[{"documentType": "passport"}]`
	items, err := ExtractItems(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestExtractItemsAlternateKeys(t *testing.T) {
	for _, raw := range []string{
		`{"items": [{"documentType": "passport"}]}`,
		`{"documents": [{"documentType": "passport"}]}`,
	} {
		items, err := ExtractItems(raw)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", raw, err)
		}
		if len(items) != 1 {
			t.Fatalf("%s: expected 1 item", raw)
		}
	}
}

func TestExtractItemsSingleObjectWrapped(t *testing.T) {
	raw := `{"documentType": "passport", "category": "required"}`
	items, err := ExtractItems(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected wrapped single item, got %d", len(items))
	}
}

func TestExtractItemsRepairsTrailingComma(t *testing.T) {
	raw := `{"checklist": [{"documentType": "passport",}],}`
	items, err := ExtractItems(raw)
	if err != nil {
		t.Fatalf("expected repair to recover, got %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item after repair, got %d", len(items))
	}
}

func TestExtractItemsBracesInsideStrings(t *testing.T) {
	raw := `{"checklist": [{"documentType": "passport", "description": "format: {photo 3x4}"}]}`
	items, err := ExtractItems(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestExtractItemsNoJSON(t *testing.T) {
	_, err := ExtractItems("I am sorry, I cannot help with that.")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractItemsWrongShape(t *testing.T) {
	_, err := ExtractItems(`{"answer": 42}`)
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
	_, err = ExtractItems(`"just a string"`)
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction for scalar, got %v", err)
	}
}
