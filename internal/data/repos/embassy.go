package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

type EmbassyContentRepo interface {
	FindByCountryVisa(ctx context.Context, tx *gorm.DB, countryCode, visaType string) (*types.EmbassyContent, error)
}

type embassyContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmbassyContentRepo(db *gorm.DB, baseLog *logger.Logger) EmbassyContentRepo {
	return &embassyContentRepo{db: db, log: baseLog.With("repo", "EmbassyContentRepo")}
}

func (r *embassyContentRepo) FindByCountryVisa(ctx context.Context, tx *gorm.DB, countryCode, visaType string) (*types.EmbassyContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.EmbassyContent
	if err := transaction.WithContext(ctx).
		Where("country_code = ? AND visa_type = ?", countryCode, visaType).
		Order("retrieved_at DESC").
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
