package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	goredis "github.com/reuniteapp/reunite-backend/internal/clients/redis"
	tipsRepo "github.com/reuniteapp/reunite-backend/internal/data/repos/tips"
	"github.com/reuniteapp/reunite-backend/internal/pkg/ctxutil"
	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
	"github.com/reuniteapp/reunite-backend/internal/platform/apierr"
	"github.com/reuniteapp/reunite-backend/internal/types"
)

// QueueItemView wraps a queue item with its derived SLA flag, recomputed
// on every read.
type QueueItemView struct {
	*types.VerificationQueueItem
	SLABreached bool `json:"sla_breached"`
}

type QueueListResult struct {
	Items []QueueItemView      `json:"items"`
	Total int64                `json:"total"`
	Stats *tipsRepo.QueueStats `json:"stats"`
}

type QueueService interface {
	List(ctx context.Context, filter tipsRepo.QueueListFilter) (*QueueListResult, error)
	Claim(ctx context.Context, itemID uuid.UUID) (*types.VerificationQueueItem, error)
	Assign(ctx context.Context, itemID, assignTo uuid.UUID) (*types.VerificationQueueItem, error)
	Release(ctx context.Context, itemID uuid.UUID) (*types.VerificationQueueItem, error)
	Complete(ctx context.Context, itemID uuid.UUID, outcome types.QueueItemStatus, notes string) (*types.VerificationQueueItem, error)
}

type queueService struct {
	db          *gorm.DB
	log         *logger.Logger
	queueRepo   tipsRepo.QueueItemRepo
	recordRepo  tipsRepo.VerificationRepo
	authService AuthService
	eventBus    goredis.EventBus
}

func NewQueueService(db *gorm.DB, log *logger.Logger, queueRepo tipsRepo.QueueItemRepo, recordRepo tipsRepo.VerificationRepo, authService AuthService, eventBus goredis.EventBus) QueueService {
	serviceLog := log.With("service", "QueueService")
	return &queueService{
		db:          db,
		log:         serviceLog,
		queueRepo:   queueRepo,
		recordRepo:  recordRepo,
		authService: authService,
		eventBus:    eventBus,
	}
}

func (qs *queueService) List(ctx context.Context, filter tipsRepo.QueueListFilter) (*QueueListResult, error) {
	items, total, err := qs.queueRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	stats, err := qs.queueRepo.Stats(ctx, nil, time.Now().UTC())
	if err != nil {
		return nil, apierr.Persistence(err)
	}

	now := time.Now().UTC()
	views := make([]QueueItemView, 0, len(items))
	for _, item := range items {
		views = append(views, QueueItemView{
			VerificationQueueItem: item,
			SLABreached:           item.SLABreached(now),
		})
	}
	return &QueueListResult{Items: views, Total: total, Stats: stats}, nil
}

func (qs *queueService) Claim(ctx context.Context, itemID uuid.UUID) (*types.VerificationQueueItem, error) {
	rd, err := qs.caller(ctx)
	if err != nil {
		return nil, err
	}

	claimed, err := qs.queueRepo.ClaimPending(ctx, nil, itemID, rd.UserID, time.Now().UTC())
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	if !claimed {
		item, getErr := qs.queueRepo.GetByID(ctx, nil, itemID)
		if getErr != nil {
			return nil, apierr.Persistence(getErr)
		}
		if item == nil {
			return nil, apierr.NotFound(fmt.Errorf("queue item %s does not exist", itemID))
		}
		return nil, apierr.Conflict(fmt.Errorf("queue item %s is %s, only pending items can be claimed", itemID, item.Status))
	}

	qs.log.Info("Queue item claimed", "queue_item_id", itemID, "reviewer_id", rd.UserID)
	return qs.queueRepo.GetByID(ctx, nil, itemID)
}

func (qs *queueService) Assign(ctx context.Context, itemID, assignTo uuid.UUID) (*types.VerificationQueueItem, error) {
	rd, err := qs.caller(ctx)
	if err != nil {
		return nil, err
	}
	if !qs.authService.HasElevatedRole(rd) {
		return nil, apierr.Forbidden(fmt.Errorf("assign requires an elevated role"))
	}
	if assignTo == uuid.Nil {
		return nil, apierr.Validation(fmt.Errorf("assignTo is required"))
	}

	updated, err := qs.queueRepo.UpdateAssignee(ctx, nil, itemID, assignTo, time.Now().UTC())
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	if !updated {
		item, getErr := qs.queueRepo.GetByID(ctx, nil, itemID)
		if getErr != nil {
			return nil, apierr.Persistence(getErr)
		}
		if item == nil {
			return nil, apierr.NotFound(fmt.Errorf("queue item %s does not exist", itemID))
		}
		return nil, apierr.Conflict(fmt.Errorf("queue item %s is %s and can no longer be assigned", itemID, item.Status))
	}

	qs.log.Info("Queue item assigned", "queue_item_id", itemID, "assigned_to", assignTo, "assigned_by", rd.UserID)
	return qs.queueRepo.GetByID(ctx, nil, itemID)
}

func (qs *queueService) Release(ctx context.Context, itemID uuid.UUID) (*types.VerificationQueueItem, error) {
	rd, err := qs.caller(ctx)
	if err != nil {
		return nil, err
	}

	released, err := qs.queueRepo.Release(ctx, nil, itemID, rd.UserID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	if !released {
		item, getErr := qs.queueRepo.GetByID(ctx, nil, itemID)
		if getErr != nil {
			return nil, apierr.Persistence(getErr)
		}
		if item == nil {
			return nil, apierr.NotFound(fmt.Errorf("queue item %s does not exist", itemID))
		}
		return nil, apierr.Conflict(fmt.Errorf("queue item %s can only be released by its current assignee while in review", itemID))
	}

	qs.log.Info("Queue item released", "queue_item_id", itemID, "reviewer_id", rd.UserID)
	return qs.queueRepo.GetByID(ctx, nil, itemID)
}

func (qs *queueService) Complete(ctx context.Context, itemID uuid.UUID, outcome types.QueueItemStatus, notes string) (*types.VerificationQueueItem, error) {
	rd, err := qs.caller(ctx)
	if err != nil {
		return nil, err
	}
	if !outcome.Terminal() {
		return nil, apierr.Validation(fmt.Errorf("outcome must be resolved or escalated"))
	}

	now := time.Now().UTC()
	var item *types.VerificationQueueItem
	txErr := qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		completed, err := qs.queueRepo.Complete(ctx, tx, itemID, rd.UserID, outcome, now)
		if err != nil {
			return err
		}
		if !completed {
			existing, getErr := qs.queueRepo.GetByID(ctx, tx, itemID)
			if getErr != nil {
				return getErr
			}
			if existing == nil {
				return apierr.NotFound(fmt.Errorf("queue item %s does not exist", itemID))
			}
			return apierr.Conflict(fmt.Errorf("queue item %s can only be completed by its current assignee while in review", itemID))
		}
		item, err = qs.queueRepo.GetByID(ctx, tx, itemID)
		if err != nil {
			return err
		}
		return qs.recordRepo.SetReviewOutcome(ctx, tx, item.VerificationID, rd.UserID, string(outcome), notes, now)
	})
	if txErr != nil {
		return nil, apierr.From(txErr)
	}

	if qs.eventBus != nil {
		event := goredis.Event{
			Type:           "review_completed",
			TipID:          item.TipID.String(),
			QueueItemID:    item.ID.String(),
			VerificationID: item.VerificationID.String(),
			QueueType:      string(item.QueueType),
		}
		if err := qs.eventBus.Publish(ctx, event); err != nil {
			qs.log.Warn("Failed to publish review event", "queue_item_id", itemID, "error", err)
		}
	}
	return item, nil
}

func (qs *queueService) caller(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Forbidden(fmt.Errorf("request data not set in context"))
	}
	return rd, nil
}
