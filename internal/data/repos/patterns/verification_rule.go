package patterns

import (
	"context"

	"gorm.io/gorm"

	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
	"github.com/reuniteapp/reunite-backend/internal/types"
)

type VerificationRuleRepo interface {
	GetActive(ctx context.Context, tx *gorm.DB) ([]*types.VerificationRule, error)
}

type verificationRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVerificationRuleRepo(db *gorm.DB, baseLog *logger.Logger) VerificationRuleRepo {
	repoLog := baseLog.With("repo", "VerificationRuleRepo")
	return &verificationRuleRepo{db: db, log: repoLog}
}

func (r *verificationRuleRepo) GetActive(ctx context.Context, tx *gorm.DB) ([]*types.VerificationRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.VerificationRule
	if err := transaction.WithContext(ctx).
		Where("active = ?", true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
