package tips

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
	"github.com/reuniteapp/reunite-backend/internal/types"
)

// VerificationListFilter narrows the verification record listing.
type VerificationListFilter struct {
	CaseID         *uuid.UUID
	PriorityBucket *types.PriorityBucket
	RequiresReview *bool
	ReviewOutcome  *string
	Limit          int
	Offset         int
}

type VerificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *types.TipVerification) (*types.TipVerification, error)
	GetActiveByTipID(ctx context.Context, tx *gorm.DB, tipID uuid.UUID) (*types.TipVerification, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TipVerification, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	List(ctx context.Context, tx *gorm.DB, filter VerificationListFilter) ([]*types.TipVerification, int64, error)
	SetReviewOutcome(ctx context.Context, tx *gorm.DB, id uuid.UUID, reviewerID uuid.UUID, outcome, notes string, reviewedAt time.Time) error
}

type verificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVerificationRepo(db *gorm.DB, baseLog *logger.Logger) VerificationRepo {
	repoLog := baseLog.With("repo", "VerificationRepo")
	return &verificationRepo{db: db, log: repoLog}
}

func (r *verificationRepo) Create(ctx context.Context, tx *gorm.DB, record *types.TipVerification) (*types.TipVerification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if record == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *verificationRepo) GetActiveByTipID(ctx context.Context, tx *gorm.DB, tipID uuid.UUID) (*types.TipVerification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if tipID == uuid.Nil {
		return nil, nil
	}

	var results []*types.TipVerification
	if err := transaction.WithContext(ctx).
		Where("tip_id = ?", tipID).
		Order("created_at DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *verificationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TipVerification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TipVerification
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

func (r *verificationRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.TipVerification{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *verificationRepo) List(ctx context.Context, tx *gorm.DB, filter VerificationListFilter) ([]*types.TipVerification, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Model(&types.TipVerification{})
	if filter.CaseID != nil {
		query = query.Where("case_id = ?", *filter.CaseID)
	}
	if filter.PriorityBucket != nil {
		query = query.Where("priority_bucket = ?", *filter.PriorityBucket)
	}
	if filter.RequiresReview != nil {
		query = query.Where("requires_human_review = ?", *filter.RequiresReview)
	}
	if filter.ReviewOutcome != nil {
		query = query.Where("review_outcome = ?", *filter.ReviewOutcome)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var results []*types.TipVerification
	if err := query.
		Preload("Tip").
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *verificationRepo) SetReviewOutcome(ctx context.Context, tx *gorm.DB, id uuid.UUID, reviewerID uuid.UUID, outcome, notes string, reviewedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.TipVerification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"reviewed_by_id": reviewerID,
			"review_outcome": outcome,
			"review_notes":   notes,
			"reviewed_at":    reviewedAt,
		}).Error
}
