package checklist

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
)

// The pipeline consumes its collaborators through these narrow interfaces.
// Production bindings over gorm live in internal/app; tests use in-memory
// fakes.

// QuestionnaireStore returns the raw stored payload, nil when the applicant
// never submitted one.
type QuestionnaireStore interface {
	GetQuestionnaire(ctx context.Context, userID uuid.UUID) (json.RawMessage, error)
}

type RuleSetStore interface {
	GetActiveRuleSet(ctx context.Context, countryCode, visaType string) (*types.VisaRuleSet, error)
	GetDocumentRefs(ctx context.Context, ruleSetID uuid.UUID) ([]types.RuleSetDocumentRef, error)
	GetCatalogEntries(ctx context.Context, documentTypes []string) ([]types.DocumentCatalogEntry, error)
}

// TranslationStore returns nil when no row exists; the Translator fills in
// from its built-in table.
type TranslationStore interface {
	GetDocumentTranslation(ctx context.Context, documentType string) (*types.DocumentTranslation, error)
}

type PlaybookStore interface {
	GetCountryVisaPlaybook(ctx context.Context, countryCode, category string) (*types.Playbook, error)
}

// EmbassyContentStore returns advisory source text, "" when none exists.
type EmbassyContentStore interface {
	FindEmbassyContent(ctx context.Context, countryCode, visaType string) (string, error)
}
