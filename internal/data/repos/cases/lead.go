package cases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
	"github.com/reuniteapp/reunite-backend/internal/types"
)

type LeadRepo interface {
	GetActiveByCaseID(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) ([]*types.CaseLead, error)
}

type leadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLeadRepo(db *gorm.DB, baseLog *logger.Logger) LeadRepo {
	repoLog := baseLog.With("repo", "LeadRepo")
	return &leadRepo{db: db, log: repoLog}
}

func (r *leadRepo) GetActiveByCaseID(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) ([]*types.CaseLead, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CaseLead
	if caseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("case_id = ? AND status = ?", caseID, "active").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
