package tips

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
	"github.com/reuniteapp/reunite-backend/internal/types"
)

type QueueListFilter struct {
	QueueType  *types.QueueType
	Status     *types.QueueItemStatus
	AssignedTo *uuid.UUID
	Limit      int
	Offset     int
}

type QueueStats struct {
	TotalPending   int64                     `json:"total_pending"`
	PendingByQueue map[types.QueueType]int64 `json:"pending_by_queue"`
	SLABreached    int64                     `json:"sla_breached"`
}

type QueueItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, item *types.VerificationQueueItem) (*types.VerificationQueueItem, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.VerificationQueueItem, error)
	List(ctx context.Context, tx *gorm.DB, filter QueueListFilter) ([]*types.VerificationQueueItem, int64, error)
	Stats(ctx context.Context, tx *gorm.DB, now time.Time) (*QueueStats, error)

	// ClaimPending is the single conditional write that makes claims race
	// safe: the update applies only while status is still pending, so
	// concurrent claims resolve to exactly one winner.
	ClaimPending(ctx context.Context, tx *gorm.DB, id uuid.UUID, reviewerID uuid.UUID, now time.Time) (bool, error)
	UpdateAssignee(ctx context.Context, tx *gorm.DB, id uuid.UUID, assignTo uuid.UUID, now time.Time) (bool, error)
	Release(ctx context.Context, tx *gorm.DB, id uuid.UUID, reviewerID uuid.UUID) (bool, error)
	Complete(ctx context.Context, tx *gorm.DB, id uuid.UUID, reviewerID uuid.UUID, next types.QueueItemStatus, now time.Time) (bool, error)
}

type queueItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQueueItemRepo(db *gorm.DB, baseLog *logger.Logger) QueueItemRepo {
	repoLog := baseLog.With("repo", "QueueItemRepo")
	return &queueItemRepo{db: db, log: repoLog}
}

func (r *queueItemRepo) Create(ctx context.Context, tx *gorm.DB, item *types.VerificationQueueItem) (*types.VerificationQueueItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if item == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *queueItemRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.VerificationQueueItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var results []*types.VerificationQueueItem
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *queueItemRepo) List(ctx context.Context, tx *gorm.DB, filter QueueListFilter) ([]*types.VerificationQueueItem, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Model(&types.VerificationQueueItem{})
	if filter.QueueType != nil {
		query = query.Where("queue_type = ?", *filter.QueueType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to_id = ?", *filter.AssignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var results []*types.VerificationQueueItem
	if err := query.
		Preload("Verification").
		Preload("Tip").
		Order("review_priority ASC").
		Order("review_deadline ASC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *queueItemRepo) Stats(ctx context.Context, tx *gorm.DB, now time.Time) (*QueueStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	stats := &QueueStats{PendingByQueue: make(map[types.QueueType]int64)}

	type bucketCount struct {
		QueueType types.QueueType
		Count     int64
	}
	var counts []bucketCount
	if err := transaction.WithContext(ctx).
		Model(&types.VerificationQueueItem{}).
		Select("queue_type, COUNT(*) AS count").
		Where("status = ?", types.QueueStatusPending).
		Group("queue_type").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.PendingByQueue[c.QueueType] = c.Count
		stats.TotalPending += c.Count
	}

	if err := transaction.WithContext(ctx).
		Model(&types.VerificationQueueItem{}).
		Where("status = ? AND review_deadline < ?", types.QueueStatusPending, now).
		Count(&stats.SLABreached).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *queueItemRepo) ClaimPending(ctx context.Context, tx *gorm.DB, id uuid.UUID, reviewerID uuid.UUID, now time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.VerificationQueueItem{}).
		Where("id = ? AND status = ?", id, types.QueueStatusPending).
		Updates(map[string]interface{}{
			"status":            types.QueueStatusInReview,
			"assigned_to_id":    reviewerID,
			"assigned_at":       now,
			"review_started_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *queueItemRepo) UpdateAssignee(ctx context.Context, tx *gorm.DB, id uuid.UUID, assignTo uuid.UUID, now time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.VerificationQueueItem{}).
		Where("id = ? AND status IN ?", id, []types.QueueItemStatus{types.QueueStatusPending, types.QueueStatusInReview}).
		Updates(map[string]interface{}{
			"assigned_to_id": assignTo,
			"assigned_at":    now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *queueItemRepo) Release(ctx context.Context, tx *gorm.DB, id uuid.UUID, reviewerID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.VerificationQueueItem{}).
		Where("id = ? AND status = ? AND assigned_to_id = ?", id, types.QueueStatusInReview, reviewerID).
		Updates(map[string]interface{}{
			"status":            types.QueueStatusPending,
			"assigned_to_id":    nil,
			"assigned_at":       nil,
			"review_started_at": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *queueItemRepo) Complete(ctx context.Context, tx *gorm.DB, id uuid.UUID, reviewerID uuid.UUID, next types.QueueItemStatus, now time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if !types.QueueStatusInReview.CanTransitionTo(next) || !next.Terminal() {
		return false, nil
	}

	result := transaction.WithContext(ctx).
		Model(&types.VerificationQueueItem{}).
		Where("id = ? AND status = ? AND assigned_to_id = ?", id, types.QueueStatusInReview, reviewerID).
		Updates(map[string]interface{}{
			"status":       next,
			"completed_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
