package app

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/visabuddy/visabuddy-backend/internal/checklist"
	"github.com/visabuddy/visabuddy-backend/internal/data/repos"
	types "github.com/visabuddy/visabuddy-backend/internal/domain"
)

// Adapters binding the gorm repositories to the narrow store interfaces the
// pipeline consumes. Each call runs against the repo's own connection; the
// pipeline never opens transactions.

type questionnaireStore struct {
	repo repos.QuestionnaireRepo
}

func NewQuestionnaireStore(repo repos.QuestionnaireRepo) checklist.QuestionnaireStore {
	return &questionnaireStore{repo: repo}
}

func (s *questionnaireStore) GetQuestionnaire(ctx context.Context, userID uuid.UUID) (json.RawMessage, error) {
	q, err := s.repo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, nil
	}
	return json.RawMessage(q.Payload), nil
}

type ruleSetStore struct {
	repo repos.RuleSetRepo
}

func NewRuleSetStore(repo repos.RuleSetRepo) checklist.RuleSetStore {
	return &ruleSetStore{repo: repo}
}

func (s *ruleSetStore) GetActiveRuleSet(ctx context.Context, countryCode, visaType string) (*types.VisaRuleSet, error) {
	return s.repo.GetActive(ctx, nil, countryCode, visaType)
}

func (s *ruleSetStore) GetDocumentRefs(ctx context.Context, ruleSetID uuid.UUID) ([]types.RuleSetDocumentRef, error) {
	return s.repo.GetDocumentRefs(ctx, nil, ruleSetID)
}

func (s *ruleSetStore) GetCatalogEntries(ctx context.Context, documentTypes []string) ([]types.DocumentCatalogEntry, error) {
	return s.repo.GetCatalogEntries(ctx, nil, documentTypes)
}

type translationStore struct {
	repo repos.DocumentTranslationRepo
}

func NewTranslationStore(repo repos.DocumentTranslationRepo) checklist.TranslationStore {
	return &translationStore{repo: repo}
}

func (s *translationStore) GetDocumentTranslation(ctx context.Context, documentType string) (*types.DocumentTranslation, error) {
	return s.repo.GetByDocumentType(ctx, nil, documentType)
}

type playbookStore struct {
	repo repos.PlaybookRepo
}

func NewPlaybookStore(repo repos.PlaybookRepo) checklist.PlaybookStore {
	return &playbookStore{repo: repo}
}

func (s *playbookStore) GetCountryVisaPlaybook(ctx context.Context, countryCode, category string) (*types.Playbook, error) {
	row, err := s.repo.GetByCountryCategory(ctx, nil, countryCode, category)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return &types.Playbook{
		CountryCode: row.CountryCode,
		Category:    row.Category,
		Hints:       row.DecodeHints(),
	}, nil
}

type embassyContentStore struct {
	repo repos.EmbassyContentRepo
}

func NewEmbassyContentStore(repo repos.EmbassyContentRepo) checklist.EmbassyContentStore {
	return &embassyContentStore{repo: repo}
}

func (s *embassyContentStore) FindEmbassyContent(ctx context.Context, countryCode, visaType string) (string, error) {
	row, err := s.repo.FindByCountryVisa(ctx, nil, countryCode, visaType)
	if err != nil {
		return "", err
	}
	if row == nil {
		return "", nil
	}
	return row.Content, nil
}
