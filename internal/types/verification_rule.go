package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Known VerificationRule names. Each overrides one engine knob; base
// scoring weights stay in code.
const (
	RuleDuplicateDistanceMeters = "duplicate_distance_meters"
	RuleDuplicateWindowHours    = "duplicate_window_hours"
	RuleDuplicateThreshold      = "duplicate_threshold"
	RuleSpamScoreThreshold      = "spam_score_threshold"
	RuleAutoVerifyThreshold     = "auto_verify_threshold"
	RuleAnonymousDefaultScore   = "anonymous_default_score"
)

// VerificationRule is a named value override allowing
// jurisdiction-specific tuning without a code change.
type VerificationRule struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null;index" json:"name"`
	Value     float64        `gorm:"column:value;not null" json:"value"`
	Weight    float64        `gorm:"column:weight;not null;default:1" json:"weight"`
	Active    bool           `gorm:"column:active;not null;default:true" json:"active"`
	Notes     string         `gorm:"column:notes" json:"notes"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (VerificationRule) TableName() string { return "verification_rule" }
