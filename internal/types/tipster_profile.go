package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TipsterProfile aggregates submission history for a (possibly anonymous)
// tip submitter. Read-only input to scoring.
type TipsterProfile struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReliabilityScore   int            `gorm:"column:reliability_score;not null;default:50" json:"reliability_score"`
	TotalSubmissions   int            `gorm:"column:total_submissions;not null;default:0" json:"total_submissions"`
	VerifiedCount      int            `gorm:"column:verified_count;not null;default:0" json:"verified_count"`
	HoaxCount          int            `gorm:"column:hoax_count;not null;default:0" json:"hoax_count"`
	LastSubmissionAt   *time.Time     `gorm:"column:last_submission_at" json:"last_submission_at,omitempty"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TipsterProfile) TableName() string { return "tipster_profile" }
