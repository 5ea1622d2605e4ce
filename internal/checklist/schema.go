package checklist

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
)

// ValidationResult carries the usable items plus an audit trail of what had
// to be repaired or discarded.
type ValidationResult struct {
	Items       []types.ChecklistItem
	SoftRepairs []string
	Dropped     []string
}

// ValidateItems coerces the extracted raw items into typed checklist items.
// Soft problems (bad category, missing name, invalid group, junk priority)
// are repaired in place; an item without any recognizable document type is
// dropped. The call fails with ErrSchemaHard only when nothing usable
// remains.
func ValidateItems(rawItems []map[string]any) (*ValidationResult, error) {
	if len(rawItems) == 0 {
		return nil, fmt.Errorf("%w: empty checklist array", ErrSchemaHard)
	}

	res := &ValidationResult{}
	for i, raw := range rawItems {
		docType := itemDocumentType(raw)
		if docType == "" {
			res.Dropped = append(res.Dropped, fmt.Sprintf("item %d: no document type", i))
			continue
		}

		item := types.ChecklistItem{
			DocumentType:           docType,
			ID:                     strField(raw, "id"),
			Name:                   strField(raw, "name"),
			NameUz:                 strField(raw, "nameUz", "name_uz"),
			NameRu:                 strField(raw, "nameRu", "name_ru"),
			Description:            strField(raw, "description"),
			DescriptionUz:          strField(raw, "descriptionUz", "description_uz"),
			DescriptionRu:          strField(raw, "descriptionRu", "description_ru"),
			ReasonIfApplies:        strField(raw, "reasonIfApplies", "reason_if_applies"),
			ExpertReasoning:        strField(raw, "expertReasoning", "expert_reasoning"),
			FinancialDetails:       strField(raw, "financialDetails", "financial_details"),
			TiesDetails:            strField(raw, "tiesDetails", "ties_details"),
			AppliesToThisApplicant: boolField(raw, true, "appliesToThisApplicant", "applies_to_this_applicant", "applies"),
			DependsOn:              strSliceField(raw, "dependsOn", "depends_on"),
		}

		category := strings.ToLower(strField(raw, "category"))
		if !types.ValidCategory(category) {
			res.SoftRepairs = append(res.SoftRepairs,
				fmt.Sprintf("%s: category %q coerced to optional", docType, category))
			category = types.CategoryOptional
		}
		item.Category = category
		item.Required = boolField(raw, category == types.CategoryRequired, "required")

		if item.Name == "" {
			item.Name = humanizeDocumentType(docType)
			res.SoftRepairs = append(res.SoftRepairs, docType+": missing name")
		}
		if item.NameUz == "" {
			item.NameUz = item.Name
		}
		if item.NameRu == "" {
			item.NameRu = item.Name
		}

		group := strings.ToLower(strField(raw, "group"))
		if !types.ValidGroup(group) {
			inferred := inferGroup(docType)
			res.SoftRepairs = append(res.SoftRepairs,
				fmt.Sprintf("%s: group %q replaced with %q", docType, group, inferred))
			group = inferred
		}
		item.Group = group

		// Priority 0 is a sentinel the prioritizer replaces with the
		// category baseline.
		if p, ok := raw["priority"].(float64); ok && p >= 1 {
			item.Priority = int(p)
		}

		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.DependsOn == nil {
			item.DependsOn = []string{}
		}

		res.Items = append(res.Items, item)
	}

	if len(res.Items) == 0 {
		return nil, fmt.Errorf("%w: all %d items dropped", ErrSchemaHard, len(rawItems))
	}
	return res, nil
}

func itemDocumentType(raw map[string]any) string {
	for _, key := range []string{"documentType", "document_type", "type", "id"} {
		if s, ok := raw[key].(string); ok && strings.TrimSpace(s) != "" {
			return normalizeDocumentType(s)
		}
	}
	return ""
}

func strField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func boolField(raw map[string]any, def bool, keys ...string) bool {
	for _, key := range keys {
		if b, ok := raw[key].(bool); ok {
			return b
		}
	}
	return def
}

func strSliceField(raw map[string]any, keys ...string) []string {
	for _, key := range keys {
		arr, ok := raw[key].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(arr))
		for _, el := range arr {
			if s, ok := el.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// inferGroup guesses a display group from keywords in the document type.
func inferGroup(docType string) string {
	switch {
	case containsAny(docType, "bank", "sponsor", "income", "salary", "financial", "tax"):
		return types.GroupFinancial
	case containsAny(docType, "property", "family", "marriage", "ties"):
		return types.GroupTies
	case containsAny(docType, "employment", "job", "work", "business"):
		return types.GroupEmployment
	case containsAny(docType, "passport", "photo", "birth", "identity"):
		return types.GroupIdentity
	case containsAny(docType, "insurance"):
		return types.GroupInsurance
	case containsAny(docType, "ticket", "itinerary", "flight", "travel"):
		return types.GroupTravel
	case containsAny(docType, "hotel", "accommodation", "booking"):
		return types.GroupAccommodation
	case containsAny(docType, "acceptance", "enrollment", "diploma", "transcript", "university"):
		return types.GroupEducation
	default:
		return types.GroupOther
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
