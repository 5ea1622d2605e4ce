package app

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/visabuddy/visabuddy-backend/internal/checklist"
	"github.com/visabuddy/visabuddy-backend/internal/data/repos"
	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

// ChecklistService runs the pipeline and persists successful results keyed by
// application, so repeat requests can be served without another model call.
type ChecklistService struct {
	log       *logger.Logger
	generator *checklist.Generator
	generated repos.GeneratedChecklistRepo
}

func NewChecklistService(log *logger.Logger, generator *checklist.Generator, generated repos.GeneratedChecklistRepo) *ChecklistService {
	return &ChecklistService{log: log, generator: generator, generated: generated}
}

// Generate produces the checklist for one application. Persistence failures
// are logged but never cost the caller the result.
func (s *ChecklistService) Generate(ctx context.Context, req checklist.GenerateRequest) (*types.ChecklistResponse, checklist.Outcome) {
	resp, outcome := s.generator.Generate(ctx, req)
	if resp == nil || !outcome.Success() {
		return resp, outcome
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("marshal generated checklist", "application_id", req.ApplicationID, "error", err)
		return resp, outcome
	}
	record := &types.GeneratedChecklist{
		ApplicationID: req.ApplicationID,
		UserID:        req.UserID,
		CountryCode:   req.CountryCode,
		VisaType:      req.VisaType,
		Outcome:       string(outcome),
		Payload:       datatypes.JSON(payload),
	}
	if err := s.generated.UpsertByApplicationID(ctx, nil, record); err != nil {
		s.log.Error("persist generated checklist", "application_id", req.ApplicationID, "error", err)
	}
	return resp, outcome
}

// GetStored returns a previously generated checklist, nil when none exists.
func (s *ChecklistService) GetStored(ctx context.Context, applicationID uuid.UUID) (*types.ChecklistResponse, checklist.Outcome, error) {
	record, err := s.generated.GetByApplicationID(ctx, nil, applicationID)
	if err != nil {
		return nil, "", err
	}
	if record == nil {
		return nil, "", nil
	}
	var resp types.ChecklistResponse
	if err := json.Unmarshal(record.Payload, &resp); err != nil {
		return nil, "", err
	}
	return &resp, checklist.Outcome(record.Outcome), nil
}
