package patterns

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
	"github.com/reuniteapp/reunite-backend/internal/types"
)

type ScamPatternRepo interface {
	GetActive(ctx context.Context, tx *gorm.DB) ([]*types.ScamPattern, error)
	// RecordDetections bumps detection counters and last-detected
	// timestamps for matched patterns.
	RecordDetections(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, detectedAt time.Time) error
}

type scamPatternRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScamPatternRepo(db *gorm.DB, baseLog *logger.Logger) ScamPatternRepo {
	repoLog := baseLog.With("repo", "ScamPatternRepo")
	return &scamPatternRepo{db: db, log: repoLog}
}

func (r *scamPatternRepo) GetActive(ctx context.Context, tx *gorm.DB) ([]*types.ScamPattern, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScamPattern
	if err := transaction.WithContext(ctx).
		Where("active = ?", true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scamPatternRepo) RecordDetections(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, detectedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.ScamPattern{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"detection_count":  gorm.Expr("detection_count + 1"),
			"last_detected_at": detectedAt,
		}).Error
}
