package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

type RuleSetRepo interface {
	GetActive(ctx context.Context, tx *gorm.DB, countryCode, visaType string) (*types.VisaRuleSet, error)
	GetDocumentRefs(ctx context.Context, tx *gorm.DB, ruleSetID uuid.UUID) ([]types.RuleSetDocumentRef, error)
	GetCatalogEntries(ctx context.Context, tx *gorm.DB, documentTypes []string) ([]types.DocumentCatalogEntry, error)
}

type ruleSetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRuleSetRepo(db *gorm.DB, baseLog *logger.Logger) RuleSetRepo {
	return &ruleSetRepo{db: db, log: baseLog.With("repo", "RuleSetRepo")}
}

// GetActive returns the single authoritative rule set for the pair, or
// (nil, nil) when none is active and approved.
func (r *ruleSetRepo) GetActive(ctx context.Context, tx *gorm.DB, countryCode, visaType string) (*types.VisaRuleSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.VisaRuleSet
	if err := transaction.WithContext(ctx).
		Where("country_code = ? AND visa_type = ? AND status = ? AND active = ?",
			countryCode, visaType, types.RuleSetStatusApproved, true).
		Order("updated_at DESC").
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *ruleSetRepo) GetDocumentRefs(ctx context.Context, tx *gorm.DB, ruleSetID uuid.UUID) ([]types.RuleSetDocumentRef, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []types.RuleSetDocumentRef
	if err := transaction.WithContext(ctx).
		Where("rule_set_id = ?", ruleSetID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ruleSetRepo) GetCatalogEntries(ctx context.Context, tx *gorm.DB, documentTypes []string) ([]types.DocumentCatalogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []types.DocumentCatalogEntry
	if len(documentTypes) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("document_type IN ?", documentTypes).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
