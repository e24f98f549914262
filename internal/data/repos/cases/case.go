package cases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
	"github.com/reuniteapp/reunite-backend/internal/types"
)

type CaseRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Case, error)
}

type caseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaseRepo(db *gorm.DB, baseLog *logger.Logger) CaseRepo {
	repoLog := baseLog.With("repo", "CaseRepo")
	return &caseRepo{db: db, log: repoLog}
}

func (r *caseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Case, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Case
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
