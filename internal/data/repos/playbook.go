package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

type PlaybookRepo interface {
	GetByCountryCategory(ctx context.Context, tx *gorm.DB, countryCode, category string) (*types.CountryVisaPlaybook, error)
}

type playbookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlaybookRepo(db *gorm.DB, baseLog *logger.Logger) PlaybookRepo {
	return &playbookRepo{db: db, log: baseLog.With("repo", "PlaybookRepo")}
}

func (r *playbookRepo) GetByCountryCategory(ctx context.Context, tx *gorm.DB, countryCode, category string) (*types.CountryVisaPlaybook, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.CountryVisaPlaybook
	if err := transaction.WithContext(ctx).
		Where("country_code = ? AND category = ?", countryCode, category).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
