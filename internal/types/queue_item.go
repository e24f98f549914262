package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QueueItemStatus string

const (
	QueueStatusPending   QueueItemStatus = "pending"
	QueueStatusInReview  QueueItemStatus = "in_review"
	QueueStatusResolved  QueueItemStatus = "resolved"
	QueueStatusEscalated QueueItemStatus = "escalated"
)

// queueTransitions is the explicit state machine for queue items. There is
// no transition out of resolved or escalated.
var queueTransitions = map[QueueItemStatus][]QueueItemStatus{
	QueueStatusPending:  {QueueStatusInReview},
	QueueStatusInReview: {QueueStatusPending, QueueStatusResolved, QueueStatusEscalated},
}

// CanTransitionTo reports whether the status may move to next.
func (s QueueItemStatus) CanTransitionTo(next QueueItemStatus) bool {
	for _, allowed := range queueTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s QueueItemStatus) Terminal() bool {
	return s == QueueStatusResolved || s == QueueStatusEscalated
}

type QueueType string

const (
	QueueTypeCritical     QueueType = "critical"
	QueueTypeHighPriority QueueType = "high_priority"
	QueueTypeStandard     QueueType = "standard"
	QueueTypeLowPriority  QueueType = "low_priority"
)

// QueueTypeForBucket maps a triage bucket to the queue it routes into.
func QueueTypeForBucket(b PriorityBucket) QueueType {
	switch b {
	case PriorityBucketCritical:
		return QueueTypeCritical
	case PriorityBucketHigh:
		return QueueTypeHighPriority
	case PriorityBucketStandard:
		return QueueTypeStandard
	default:
		return QueueTypeLowPriority
	}
}

// VerificationQueueItem routes a verification into human review. Created
// iff the record requires human review; never deleted, it is the audit
// trail of the review workflow.
type VerificationQueueItem struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TipID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"tip_id"`
	Tip             *Tip             `gorm:"constraint:OnDelete:CASCADE;foreignKey:TipID;references:ID" json:"tip,omitempty"`
	VerificationID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"verification_id"`
	Verification    *TipVerification `gorm:"constraint:OnDelete:CASCADE;foreignKey:VerificationID;references:ID" json:"verification,omitempty"`
	QueueType       QueueType        `gorm:"column:queue_type;not null;index" json:"queue_type"`
	ReviewPriority  int              `gorm:"column:review_priority;not null" json:"review_priority"`
	ReviewDeadline  time.Time        `gorm:"column:review_deadline;not null;index" json:"review_deadline"`
	Status          QueueItemStatus  `gorm:"column:status;not null;default:'pending';index" json:"status"`
	AssignedToID    *uuid.UUID       `gorm:"type:uuid;column:assigned_to_id;index" json:"assigned_to_id,omitempty"`
	AssignedAt      *time.Time       `gorm:"column:assigned_at" json:"assigned_at,omitempty"`
	ReviewStartedAt *time.Time       `gorm:"column:review_started_at" json:"review_started_at,omitempty"`
	CompletedAt     *time.Time       `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt       time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (VerificationQueueItem) TableName() string { return "verification_queue_item" }

// SLABreached is derived on every read, never stored.
func (q *VerificationQueueItem) SLABreached(now time.Time) bool {
	if q.Status != QueueStatusPending && q.Status != QueueStatusInReview {
		return false
	}
	return now.After(q.ReviewDeadline)
}
