package checklist

import (
	"context"
	"fmt"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

// Resolver loads the active rule set for a (country, visaType) pair and
// expands catalog-mode sets into the flat RuleSetData view.
type Resolver struct {
	store RuleSetStore
	log   *logger.Logger
}

func NewResolver(store RuleSetStore, log *logger.Logger) *Resolver {
	return &Resolver{store: store, log: log}
}

// Resolve returns (nil, nil) when no active approved rule set exists; the
// caller maps that to the no-rule-set outcome. A non-nil error means
// infrastructure trouble, not absence.
func (r *Resolver) Resolve(ctx context.Context, countryCode, visaType string) (*types.RuleSetData, error) {
	rs, err := r.store.GetActiveRuleSet(ctx, countryCode, visaType)
	if err != nil {
		return nil, fmt.Errorf("load rule set %s/%s: %w", countryCode, visaType, err)
	}
	if rs == nil {
		return nil, nil
	}

	var docs []types.RuleDoc
	if rs.CatalogMode {
		docs, err = r.expandCatalog(ctx, rs)
		if err != nil {
			return nil, err
		}
	} else {
		docs, err = rs.DecodeRuleDocs()
		if err != nil {
			return nil, fmt.Errorf("decode rule documents for %s: %w", rs.ID, err)
		}
	}

	return &types.RuleSetData{
		CountryCode:            rs.CountryCode,
		VisaType:               rs.VisaType,
		RequiredDocuments:      docs,
		FinancialRequirements:  rs.DecodeFinancialRequirements(),
		AdditionalRequirements: rs.DecodeAdditionalRequirements(),
		SourceInfo: types.SourceInfo{
			Confidence:    rs.SourceConfidence,
			ExtractedFrom: rs.SourceExtractedFrom,
			ExtractedAt:   rs.SourceExtractedAt,
		},
	}, nil
}

// expandCatalog joins document refs against the shared catalog, applying
// per-reference overrides. A catalog-mode set with no refs degrades to its
// inline documents column so a half-migrated rule set still serves.
func (r *Resolver) expandCatalog(ctx context.Context, rs *types.VisaRuleSet) ([]types.RuleDoc, error) {
	refs, err := r.store.GetDocumentRefs(ctx, rs.ID)
	if err != nil {
		return nil, fmt.Errorf("load document refs for %s: %w", rs.ID, err)
	}
	if len(refs) == 0 {
		r.log.Warn("catalog-mode rule set has no document refs, using inline documents",
			"rule_set_id", rs.ID, "country", rs.CountryCode, "visa_type", rs.VisaType)
		docs, derr := rs.DecodeRuleDocs()
		if derr != nil {
			return nil, fmt.Errorf("decode rule documents for %s: %w", rs.ID, derr)
		}
		return docs, nil
	}

	docTypes := make([]string, 0, len(refs))
	for _, ref := range refs {
		docTypes = append(docTypes, ref.DocumentType)
	}
	entries, err := r.store.GetCatalogEntries(ctx, docTypes)
	if err != nil {
		return nil, fmt.Errorf("load catalog entries for %s: %w", rs.ID, err)
	}
	byType := make(map[string]types.DocumentCatalogEntry, len(entries))
	for _, e := range entries {
		byType[e.DocumentType] = e
	}

	docs := make([]types.RuleDoc, 0, len(refs))
	for _, ref := range refs {
		entry, ok := byType[ref.DocumentType]
		if !ok {
			r.log.Warn("document ref has no catalog entry, skipping",
				"rule_set_id", rs.ID, "document_type", ref.DocumentType)
			continue
		}
		doc := types.RuleDoc{
			DocumentType:        entry.DocumentType,
			Category:            entry.Category,
			Condition:           entry.Condition,
			Description:         entry.Description,
			ValidityRequirement: entry.ValidityRequirement,
			FormatRequirement:   entry.FormatRequirement,
		}
		if ref.CategoryOverride != "" {
			doc.Category = ref.CategoryOverride
		}
		if ref.ConditionOverride != "" {
			doc.Condition = ref.ConditionOverride
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
