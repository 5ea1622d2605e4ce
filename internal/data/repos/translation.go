package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

type DocumentTranslationRepo interface {
	GetByDocumentType(ctx context.Context, tx *gorm.DB, documentType string) (*types.DocumentTranslation, error)
	GetByDocumentTypes(ctx context.Context, tx *gorm.DB, documentTypes []string) ([]types.DocumentTranslation, error)
}

type documentTranslationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentTranslationRepo(db *gorm.DB, baseLog *logger.Logger) DocumentTranslationRepo {
	return &documentTranslationRepo{db: db, log: baseLog.With("repo", "DocumentTranslationRepo")}
}

func (r *documentTranslationRepo) GetByDocumentType(ctx context.Context, tx *gorm.DB, documentType string) (*types.DocumentTranslation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.DocumentTranslation
	if err := transaction.WithContext(ctx).
		Where("document_type = ?", documentType).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *documentTranslationRepo) GetByDocumentTypes(ctx context.Context, tx *gorm.DB, documentTypes []string) ([]types.DocumentTranslation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []types.DocumentTranslation
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
