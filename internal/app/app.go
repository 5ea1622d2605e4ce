package app

import (
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/visabuddy/visabuddy-backend/internal/checklist"
	"github.com/visabuddy/visabuddy-backend/internal/data/repos"
	"github.com/visabuddy/visabuddy-backend/internal/db"
	"github.com/visabuddy/visabuddy-backend/internal/platform/cache"
	"github.com/visabuddy/visabuddy-backend/internal/platform/llm"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

// App is the composition root: one place that builds the database layer, the
// model client, the pipeline, and the services the HTTP layer exposes.
type App struct {
	Log            *logger.Logger
	Postgres       *db.PostgresService
	Checklists     *ChecklistService
	Probability    *checklist.ProbabilityGenerator
	Questionnaires repos.QuestionnaireRepo
}

func New(log *logger.Logger) (*App, error) {
	pg, err := db.NewPostgresService(log)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	gdb := pg.DB()
	questionnaireRepo := repos.NewQuestionnaireRepo(gdb, log)
	ruleSetRepo := repos.NewRuleSetRepo(gdb, log)
	translationRepo := repos.NewDocumentTranslationRepo(gdb, log)
	playbookRepo := repos.NewPlaybookRepo(gdb, log)
	embassyRepo := repos.NewEmbassyContentRepo(gdb, log)
	generatedRepo := repos.NewGeneratedChecklistRepo(gdb, log)

	llmClient, err := llm.NewClient(log)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}

	embassyCache, err := cache.NewRedisStore(log)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	var cacheStore cache.Store
	if embassyCache != nil {
		cacheStore = embassyCache
	} else {
		cacheStore = cache.NewMemoryStore()
	}

	translator := checklist.NewTranslator(NewTranslationStore(translationRepo), log)
	resolver := checklist.NewResolver(NewRuleSetStore(ruleSetRepo), log)
	enricher := checklist.NewEnricher(llmClient, checklist.NewPromptBuilder(), translator, log)
	embassy := checklist.NewEmbassyProvider(NewEmbassyContentStore(embassyRepo), cacheStore, log)

	generator := checklist.NewGenerator(
		log,
		NewQuestionnaireStore(questionnaireRepo),
		resolver,
		enricher,
		translator,
		NewPlaybookStore(playbookRepo),
		embassy,
		otel.Tracer("visabuddy/checklist"),
	)

	return &App{
		Log:            log,
		Postgres:       pg,
		Checklists:     NewChecklistService(log, generator, generatedRepo),
		Probability:    checklist.NewProbabilityGenerator(llmClient, log),
		Questionnaires: questionnaireRepo,
	}, nil
}
