package tips

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
	"github.com/reuniteapp/reunite-backend/internal/types"
)

type TipsterProfileRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TipsterProfile, error)
}

type tipsterProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTipsterProfileRepo(db *gorm.DB, baseLog *logger.Logger) TipsterProfileRepo {
	repoLog := baseLog.With("repo", "TipsterProfileRepo")
	return &tipsterProfileRepo{db: db, log: repoLog}
}

func (r *tipsterProfileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TipsterProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TipsterProfile
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
