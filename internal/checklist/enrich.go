package checklist

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/envutil"
	"github.com/visabuddy/visabuddy-backend/internal/platform/llm"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

const maxExtraItems = 3

// Enricher personalizes the base checklist through a single model call per
// attempt, then forces the result back into the deterministic contract. All
// model sins (dropped base documents, forged categories, unlimited extras)
// are corrected after the fact rather than retried.
type Enricher struct {
	llm        llm.Client
	builder    PromptBuilder
	translator *Translator
	log        *logger.Logger

	temperature float64
	maxTokens   int
}

func NewEnricher(client llm.Client, builder PromptBuilder, translator *Translator, log *logger.Logger) *Enricher {
	return &Enricher{
		llm:         client,
		builder:     builder,
		translator:  translator,
		log:         log,
		temperature: envutil.Float("CHECKLIST_TEMPERATURE", 0.3),
		maxTokens:   envutil.Int("CHECKLIST_MAX_TOKENS", 2000),
	}
}

// Enrich returns the invariant-complete item list or one of ErrModelCall,
// ErrExtraction, ErrSchemaHard.
func (e *Enricher) Enrich(ctx context.Context, in PromptInput) ([]types.ChecklistItem, error) {
	raw, err := e.llm.Generate(ctx, e.builder.System(in), e.builder.User(in), llm.ModelConfig{
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelCall, err)
	}

	rawItems, err := ExtractItems(raw)
	if err != nil {
		return nil, err
	}

	res, err := ValidateItems(rawItems)
	if err != nil {
		return nil, err
	}
	if len(res.SoftRepairs) > 0 {
		e.log.Debug("model output needed soft repairs", "repairs", res.SoftRepairs)
	}
	if len(res.Dropped) > 0 {
		e.log.Warn("model items dropped during validation", "dropped", res.Dropped)
	}

	return e.EnforceInvariants(ctx, res.Items, in), nil
}

// EnforceInvariants rebuilds the item list so that every base document
// appears exactly once with its rule-derived category, and at most
// maxExtraItems model-invented extras survive, none of them required.
func (e *Enricher) EnforceInvariants(ctx context.Context, items []types.ChecklistItem, in PromptInput) []types.ChecklistItem {
	// First occurrence wins on duplicate document types.
	byType := make(map[string]types.ChecklistItem, len(items))
	for _, item := range items {
		if _, seen := byType[item.DocumentType]; !seen {
			byType[item.DocumentType] = item
		}
	}

	baseTypes := make(map[string]bool, len(in.Base))
	out := make([]types.ChecklistItem, 0, len(in.Base)+maxExtraItems)

	for _, base := range in.Base {
		baseTypes[base.DocumentType] = true
		item, ok := byType[base.DocumentType]
		if !ok {
			e.log.Warn("model dropped base document, synthesizing", "document_type", base.DocumentType)
			item = e.synthesizeBaseItem(ctx, base, in)
		}
		// The rule set, not the model, owns category and requiredness.
		item.Category = base.Category
		item.Required = base.Required
		item.Source = types.SourceRules
		item.AppliesToThisApplicant = true
		if item.DependsOn == nil {
			item.DependsOn = []string{}
		}
		out = append(out, item)
	}

	var extras []types.ChecklistItem
	seenExtra := make(map[string]bool)
	for _, item := range items {
		if baseTypes[item.DocumentType] || seenExtra[item.DocumentType] {
			continue
		}
		seenExtra[item.DocumentType] = true
		item.Source = types.SourceAIExtra
		if item.Category == types.CategoryRequired {
			item.Category = types.CategoryHighlyRecommended
		}
		item.Required = false
		if item.DependsOn == nil {
			item.DependsOn = []string{}
		}
		extras = append(extras, item)
	}
	if len(extras) > maxExtraItems {
		sort.SliceStable(extras, func(i, j int) bool {
			return extras[i].Priority > extras[j].Priority
		})
		extras = extras[:maxExtraItems]
	}

	return append(out, extras...)
}

// synthesizeBaseItem builds a complete item for a base document the model
// omitted, from the rule description and stored translations.
func (e *Enricher) synthesizeBaseItem(ctx context.Context, base types.BaseChecklistItem, in PromptInput) types.ChecklistItem {
	tr := e.translator.Lookup(ctx, base.DocumentType)

	description := tr.DescriptionEn
	if in.Rules != nil {
		for _, doc := range in.Rules.RequiredDocuments {
			if doc.DocumentType == base.DocumentType && doc.Description != "" {
				description = doc.Description
				break
			}
		}
	}

	return types.ChecklistItem{
		ID:            uuid.NewString(),
		DocumentType:  base.DocumentType,
		Name:          tr.NameEn,
		NameUz:        tr.NameUz,
		NameRu:        tr.NameRu,
		Description:   description,
		DescriptionUz: tr.DescriptionUz,
		DescriptionRu: tr.DescriptionRu,
		Group:         inferGroup(base.DocumentType),
		DependsOn:     []string{},
	}
}
