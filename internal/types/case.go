package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CasePriority string

const (
	CasePriorityCritical CasePriority = "critical"
	CasePriorityHigh     CasePriority = "high"
	CasePriorityMedium   CasePriority = "medium"
	CasePriorityLow      CasePriority = "low"
	CasePriorityRoutine  CasePriority = "routine"
)

// Rank orders case priorities, higher is more urgent. Unknown values rank as routine.
func (p CasePriority) Rank() int {
	switch p {
	case CasePriorityCritical:
		return 4
	case CasePriorityHigh:
		return 3
	case CasePriorityMedium:
		return 2
	case CasePriorityLow:
		return 1
	default:
		return 0
	}
}

// Case is the read-only missing-person case context for verification.
// Case CRUD lives outside this service.
type Case struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CaseNumber         string         `gorm:"column:case_number;not null;uniqueIndex" json:"case_number"`
	SubjectName        string         `gorm:"column:subject_name;not null" json:"subject_name"`
	SubjectDescription string         `gorm:"column:subject_description" json:"subject_description"`
	PriorityLevel      CasePriority   `gorm:"column:priority_level;not null;default:'medium'" json:"priority_level"`
	Status             string         `gorm:"column:status;not null;default:'open'" json:"status"`
	LastSeenAt         *time.Time     `gorm:"column:last_seen_at" json:"last_seen_at,omitempty"`
	LastSeenLatitude   *float64       `gorm:"column:last_seen_latitude" json:"last_seen_latitude,omitempty"`
	LastSeenLongitude  *float64       `gorm:"column:last_seen_longitude" json:"last_seen_longitude,omitempty"`
	LastSeenLocation   string         `gorm:"column:last_seen_location" json:"last_seen_location"`
	Metadata           datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Case) TableName() string { return "case" }

// CaseLead is an investigator-curated lead for a case. Read-only input
// to cross-referencing.
type CaseLead struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CaseID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"case_id"`
	Case        *Case          `gorm:"constraint:OnDelete:CASCADE;foreignKey:CaseID;references:ID" json:"case,omitempty"`
	Summary     string         `gorm:"column:summary;not null" json:"summary"`
	Details     string         `gorm:"column:details" json:"details"`
	Status      string         `gorm:"column:status;not null;default:'active'" json:"status"`
	Latitude    *float64       `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude   *float64       `gorm:"column:longitude" json:"longitude,omitempty"`
	Location    string         `gorm:"column:location" json:"location"`
	SightedAt   *time.Time     `gorm:"column:sighted_at" json:"sighted_at,omitempty"`
	CuratedByID *uuid.UUID     `gorm:"type:uuid;column:curated_by_id" json:"curated_by_id,omitempty"`
	Metadata    datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CaseLead) TableName() string { return "case_lead" }
