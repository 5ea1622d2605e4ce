package checklist

import (
	types "github.com/visabuddy/visabuddy-backend/internal/domain"
)

// BuildBase derives the deterministic base checklist from resolved rules by
// evaluating each document's condition against the profile. Rule order is
// preserved. The returned warnings come from fail-open condition evaluation.
func BuildBase(rules *types.RuleSetData, profile types.ApplicantProfile) ([]types.BaseChecklistItem, []string, error) {
	if rules == nil || len(rules.RequiredDocuments) == 0 {
		return nil, nil, ErrEmptyBaseChecklist
	}

	var items []types.BaseChecklistItem
	var warnings []string
	for _, doc := range rules.RequiredDocuments {
		applies, warns := EvaluateCondition(doc.Condition, profile)
		warnings = append(warnings, warns...)
		if !applies {
			continue
		}
		category := doc.Category
		if !types.ValidCategory(category) {
			category = types.CategoryOptional
		}
		items = append(items, types.BaseChecklistItem{
			DocumentType: doc.DocumentType,
			Category:     category,
			Required:     category == types.CategoryRequired,
		})
	}
	if len(items) == 0 {
		return nil, warnings, ErrEmptyBaseChecklist
	}
	return items, warnings, nil
}
