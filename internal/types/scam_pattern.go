package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ScamPatternType string

const (
	ScamPatternTypePhrase    ScamPatternType = "phrase"
	ScamPatternTypeRegex     ScamPatternType = "regex"
	ScamPatternTypeStructure ScamPatternType = "structure"
)

// ScamPattern is a known fraud signature. Versioned by an admin process
// outside this core; the engine only reads patterns and bumps detection
// counters.
type ScamPattern struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name                string          `gorm:"column:name;not null;uniqueIndex" json:"name"`
	PatternType         ScamPatternType `gorm:"column:pattern_type;not null" json:"pattern_type"`
	PatternData         datatypes.JSON  `gorm:"type:jsonb;column:pattern_data;not null" json:"pattern_data"`
	ConfidenceThreshold float64         `gorm:"column:confidence_threshold;not null;default:0.8" json:"confidence_threshold"`
	Active              bool            `gorm:"column:active;not null;default:true" json:"active"`
	DetectionCount      int             `gorm:"column:detection_count;not null;default:0" json:"detection_count"`
	LastDetectedAt      *time.Time      `gorm:"column:last_detected_at" json:"last_detected_at,omitempty"`
	CreatedAt           time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (ScamPattern) TableName() string { return "scam_pattern" }
