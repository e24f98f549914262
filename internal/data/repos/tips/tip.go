package tips

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
	"github.com/reuniteapp/reunite-backend/internal/types"
)

type TipRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tip, error)
	GetByCaseID(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, excludeID uuid.UUID) ([]*types.Tip, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Tip, error)
}

type tipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTipRepo(db *gorm.DB, baseLog *logger.Logger) TipRepo {
	repoLog := baseLog.With("repo", "TipRepo")
	return &tipRepo{db: db, log: repoLog}
}

func (r *tipRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tip, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var results []*types.Tip
	if err := transaction.WithContext(ctx).
		Preload("Attachments").
		Preload("TipsterProfile").
		Where("id = ?", id).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *tipRepo) GetByCaseID(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, excludeID uuid.UUID) ([]*types.Tip, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Tip
	if caseID == uuid.Nil {
		return results, nil
	}

	query := transaction.WithContext(ctx).Where("case_id = ?", caseID)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *tipRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Tip, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Tip
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
