package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

type GeneratedChecklistRepo interface {
	UpsertByApplicationID(ctx context.Context, tx *gorm.DB, gc *types.GeneratedChecklist) error
	GetByApplicationID(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) (*types.GeneratedChecklist, error)
}

type generatedChecklistRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGeneratedChecklistRepo(db *gorm.DB, baseLog *logger.Logger) GeneratedChecklistRepo {
	return &generatedChecklistRepo{db: db, log: baseLog.With("repo", "GeneratedChecklistRepo")}
}

// UpsertByApplicationID enforces the one-checklist-per-application guarantee
// at the storage layer; concurrent generators collapse onto a single row.
func (r *generatedChecklistRepo) UpsertByApplicationID(ctx context.Context, tx *gorm.DB, gc *types.GeneratedChecklist) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "application_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"outcome", "payload", "updated_at"}),
		}).
		Create(gc).Error
}

func (r *generatedChecklistRepo) GetByApplicationID(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) (*types.GeneratedChecklist, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.GeneratedChecklist
	if err := transaction.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
