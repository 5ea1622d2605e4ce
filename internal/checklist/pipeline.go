package checklist

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/observability"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

// Outcome names how a generation attempt ended. The first two produce a
// checklist; the rest produce nil.
type Outcome string

const (
	OutcomeEnriched  Outcome = "enriched"
	OutcomeRulesOnly Outcome = "rules_only"
	OutcomeNoRuleSet Outcome = "no_rule_set"
	OutcomeEmptyBase Outcome = "empty_base"
	OutcomeNoResult  Outcome = "no_result"
)

func (o Outcome) Success() bool {
	return o == OutcomeEnriched || o == OutcomeRulesOnly
}

type GenerateRequest struct {
	UserID        uuid.UUID
	ApplicationID uuid.UUID
	CountryCode   string
	VisaType      string
	AppLanguage   string
}

// Generator is the fallback controller: it runs the full pipeline and
// guarantees either a complete ChecklistResponse or nil, never a partial
// result and never an error. Degradation order: enriched, then
// rules-only, then nil.
type Generator struct {
	log            *logger.Logger
	questionnaires QuestionnaireStore
	resolver       *Resolver
	enricher       *Enricher
	translator     *Translator
	playbooks      PlaybookStore
	embassy        *EmbassyProvider
	tracer         trace.Tracer
}

func NewGenerator(
	log *logger.Logger,
	questionnaires QuestionnaireStore,
	resolver *Resolver,
	enricher *Enricher,
	translator *Translator,
	playbooks PlaybookStore,
	embassy *EmbassyProvider,
	tracer trace.Tracer,
) *Generator {
	return &Generator{
		log:            log,
		questionnaires: questionnaires,
		resolver:       resolver,
		enricher:       enricher,
		translator:     translator,
		playbooks:      playbooks,
		embassy:        embassy,
		tracer:         tracer,
	}
}

// Generate never returns an error. Every failure mode maps to an outcome and
// possibly a degraded checklist.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*types.ChecklistResponse, Outcome) {
	ctx, span := g.span(ctx, "checklist.generate", req)
	resp, outcome := g.generate(ctx, req)
	span.SetAttributes(attribute.String("checklist.outcome", string(outcome)))
	span.End()
	observability.Current().ObserveOutcome(string(outcome))
	return resp, outcome
}

func (g *Generator) generate(ctx context.Context, req GenerateRequest) (*types.ChecklistResponse, Outcome) {
	log := g.log.With("user_id", req.UserID, "application_id", req.ApplicationID,
		"country", req.CountryCode, "visa_type", req.VisaType)

	// Stage 1: canonical context. A questionnaire fetch error only costs
	// personalization, never the whole attempt.
	raw, err := g.stageQuestionnaire(ctx, req.UserID)
	if err != nil {
		log.Warn("questionnaire fetch failed, proceeding with defaults", "error", err)
		raw = nil
	}
	cctx := BuildContext(raw)
	if req.AppLanguage != "" {
		cctx.Profile.AppLanguage = req.AppLanguage
	}
	log.Debug("context built",
		"source_format", cctx.Metadata.SourceFormat,
		"risk_level", cctx.Risk.Level,
		"fallback_fields", len(cctx.Metadata.FallbackFieldsUsed))

	// Stage 2: rule resolution. Absence and infrastructure failure are
	// distinct terminal outcomes.
	rules, err := g.stageRules(ctx, req.CountryCode, req.VisaType)
	if err != nil {
		log.Error("rule set resolution failed", "error", err)
		return nil, OutcomeNoResult
	}
	if rules == nil {
		log.Info("no active rule set")
		return nil, OutcomeNoRuleSet
	}

	// Stage 3: deterministic base checklist.
	base, warnings, err := g.stageBase(rules, cctx.Profile)
	if err != nil {
		log.Error("base checklist empty, rule set misconfigured", "error", err)
		return nil, OutcomeEmptyBase
	}
	for _, w := range warnings {
		log.Warn("condition evaluation warning", "warning", w)
	}

	// Advisory inputs; failures here never affect the outcome.
	in := PromptInput{
		Context:        cctx,
		Rules:          rules,
		Base:           base,
		Playbook:       g.fetchPlaybook(ctx, req.CountryCode, req.VisaType),
		EmbassyContent: g.embassy.Content(ctx, req.CountryCode, req.VisaType),
	}

	// Stage 4: enrichment. One model call; any hard failure degrades to the
	// rules-only checklist.
	items, err := g.stageEnrich(ctx, in)
	if err != nil {
		log.Warn("enrichment failed, degrading to rules-only", "error", err,
			"kind", enrichErrorKind(err))
		return g.rulesOnly(ctx, base, rules), OutcomeRulesOnly
	}

	// Stage 5: verify the invariants actually hold before shipping.
	if !invariantsHold(items, base) {
		log.Error("enriched checklist violated base invariants, degrading to rules-only")
		return g.rulesOnly(ctx, base, rules), OutcomeRulesOnly
	}

	items = Prioritize(items, cctx)
	log.Info("checklist generated", "items", len(items), "outcome", OutcomeEnriched)
	return &types.ChecklistResponse{Checklist: items}, OutcomeEnriched
}

func (g *Generator) stageQuestionnaire(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	return observeStage("resolve_context", func() ([]byte, error) {
		return g.questionnaires.GetQuestionnaire(ctx, userID)
	})
}

func (g *Generator) stageRules(ctx context.Context, countryCode, visaType string) (*types.RuleSetData, error) {
	return observeStage("resolve_rules", func() (*types.RuleSetData, error) {
		return g.resolver.Resolve(ctx, countryCode, visaType)
	})
}

func (g *Generator) stageBase(rules *types.RuleSetData, profile types.ApplicantProfile) ([]types.BaseChecklistItem, []string, error) {
	start := time.Now()
	base, warnings, err := BuildBase(rules, profile)
	observability.Current().ObserveStage("build_base", time.Since(start))
	if err != nil {
		observability.Current().ObserveStageError("build_base", "empty_base")
	}
	return base, warnings, err
}

func (g *Generator) stageEnrich(ctx context.Context, in PromptInput) ([]types.ChecklistItem, error) {
	return observeStage("enrich", func() ([]types.ChecklistItem, error) {
		return g.enricher.Enrich(ctx, in)
	})
}

func observeStage[T any](stage string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	observability.Current().ObserveStage(stage, time.Since(start))
	if err != nil {
		observability.Current().ObserveStageError(stage, "error")
	}
	return out, err
}

func (g *Generator) fetchPlaybook(ctx context.Context, countryCode, visaType string) *types.Playbook {
	if g.playbooks == nil {
		return nil
	}
	pb, err := g.playbooks.GetCountryVisaPlaybook(ctx, countryCode, visaType)
	if err != nil {
		g.log.Warn("playbook lookup failed", "country", countryCode, "error", err)
		return nil
	}
	return pb
}

// rulesOnly builds the degraded checklist straight from the base items and
// stored translations. No model output is involved, so priorities are pure
// category baselines.
func (g *Generator) rulesOnly(ctx context.Context, base []types.BaseChecklistItem, rules *types.RuleSetData) *types.ChecklistResponse {
	descByType := make(map[string]string, len(rules.RequiredDocuments))
	for _, doc := range rules.RequiredDocuments {
		descByType[doc.DocumentType] = doc.Description
	}

	items := make([]types.ChecklistItem, 0, len(base))
	for _, b := range base {
		tr := g.translator.Lookup(ctx, b.DocumentType)
		desc := tr.DescriptionEn
		if d := descByType[b.DocumentType]; d != "" {
			desc = d
		}
		items = append(items, types.ChecklistItem{
			ID:                     uuid.NewString(),
			DocumentType:           b.DocumentType,
			Category:               b.Category,
			Required:               b.Required,
			Name:                   tr.NameEn,
			NameUz:                 tr.NameUz,
			NameRu:                 tr.NameRu,
			Description:            desc,
			DescriptionUz:          tr.DescriptionUz,
			DescriptionRu:          tr.DescriptionRu,
			AppliesToThisApplicant: true,
			Group:                  inferGroup(b.DocumentType),
			Priority:               baselinePriority(b.Category),
			DependsOn:              []string{},
			Source:                 types.SourceRules,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority < items[j].Priority
	})
	return &types.ChecklistResponse{Checklist: items}
}

// invariantsHold re-checks the enrichment contract: every base document
// present exactly once with the rule category, and at most maxExtraItems
// extras, none required.
func invariantsHold(items []types.ChecklistItem, base []types.BaseChecklistItem) bool {
	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[item.DocumentType]++
	}
	baseTypes := make(map[string]string, len(base))
	for _, b := range base {
		baseTypes[b.DocumentType] = b.Category
		if counts[b.DocumentType] != 1 {
			return false
		}
	}
	extras := 0
	for _, item := range items {
		if counts[item.DocumentType] > 1 {
			return false
		}
		cat, isBase := baseTypes[item.DocumentType]
		if isBase {
			if item.Category != cat {
				return false
			}
			continue
		}
		extras++
		if item.Category == types.CategoryRequired || item.Required {
			return false
		}
	}
	return extras <= maxExtraItems
}

func (g *Generator) span(ctx context.Context, name string, req GenerateRequest) (context.Context, trace.Span) {
	if g.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return g.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("visa.country", req.CountryCode),
		attribute.String("visa.type", req.VisaType),
	))
}

func enrichErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrModelCall):
		return "model_call"
	case errors.Is(err, ErrExtraction):
		return "extraction"
	case errors.Is(err, ErrSchemaHard):
		return "schema"
	default:
		return "unknown"
	}
}
