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

type QuestionnaireRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Questionnaire, error)
	Upsert(ctx context.Context, tx *gorm.DB, q *types.Questionnaire) error
}

type questionnaireRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionnaireRepo(db *gorm.DB, baseLog *logger.Logger) QuestionnaireRepo {
	return &questionnaireRepo{db: db, log: baseLog.With("repo", "QuestionnaireRepo")}
}

// GetByUserID returns (nil, nil) when the applicant never filled one in;
// absence is a normal pipeline input, not an error.
func (r *questionnaireRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Questionnaire, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Questionnaire
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// Upsert keeps one questionnaire row per user; resubmitting replaces the
// stored payload instead of tripping the user_id unique index.
func (r *questionnaireRepo) Upsert(ctx context.Context, tx *gorm.DB, q *types.Questionnaire) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(q).Error
}
