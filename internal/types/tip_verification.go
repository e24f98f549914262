package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PriorityBucket string

const (
	PriorityBucketCritical PriorityBucket = "critical"
	PriorityBucketHigh     PriorityBucket = "high"
	PriorityBucketStandard PriorityBucket = "standard"
	PriorityBucketLow      PriorityBucket = "low"
)

// Rank orders buckets by urgency, higher is more urgent.
func (b PriorityBucket) Rank() int {
	switch b {
	case PriorityBucketCritical:
		return 4
	case PriorityBucketHigh:
		return 3
	case PriorityBucketStandard:
		return 2
	default:
		return 1
	}
}

// ReviewPriority is the queue-ordering integer for the bucket, 1 is most urgent.
func (b PriorityBucket) ReviewPriority() int {
	return 5 - b.Rank()
}

/// TipVerification is the engine output for one tip: sub-scores, flags,
// aggregate credibility, triage outcome, and the eventual human review
// outcome. At most one row is active per tip; forced re-verification
// soft-deletes the prior row and inserts a replacement.
type TipVerification struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TipID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tip_id"`
	Tip    *Tip      `gorm:"constraint:OnDelete:CASCADE;foreignKey:TipID;references:ID" json:"tip,omitempty"`
	CaseID uuid.UUID `gorm:"type:uuid;not null;index" json:"case_id"`

	PhotoVerificationScore    int `gorm:"column:photo_verification_score;not null" json:"photo_verification_score"`
	LocationVerificationScore int `gorm:"column:location_verification_score;not null" json:"location_verification_score"`
	TimePlausibilityScore     int `gorm:"column:time_plausibility_score;not null" json:"time_plausibility_score"`
	TextAnalysisScore         int `gorm:"column:text_analysis_score;not null" json:"text_analysis_score"`
	CrossReferenceScore       int `gorm:"column:cross_reference_score;not null" json:"cross_reference_score"`
	TipsterReliabilityScore   int `gorm:"column:tipster_reliability_score;not null" json:"tipster_reliability_score"`
	CredibilityScore          int `gorm:"column:credibility_score;not null" json:"credibility_score"`

	TravelTimeFeasible       bool           `gorm:"column:travel_time_feasible;not null;default:true" json:"travel_time_feasible"`
	IsDuplicate              bool           `gorm:"column:is_duplicate;not null;default:false" json:"is_duplicate"`
	DuplicateTipIDs          datatypes.JSON `gorm:"type:jsonb;column:duplicate_tip_ids" json:"duplicate_tip_ids,omitempty"`
	SimilarityScores         datatypes.JSON `gorm:"type:jsonb;column:similarity_scores" json:"similarity_scores,omitempty"`
	MatchesExistingLeads     bool           `gorm:"column:matches_existing_leads;not null;default:false" json:"matches_existing_leads"`
	MatchingLeadIDs          datatypes.JSON `gorm:"type:jsonb;column:matching_lead_ids" json:"matching_lead_ids,omitempty"`
	MatchesKnownLocations    bool           `gorm:"column:matches_known_locations;not null;default:false" json:"matches_known_locations"`
	MatchesSuspectDescription bool          `gorm:"column:matches_suspect_description;not null;default:false" json:"matches_suspect_description"`

	HoaxIndicators     datatypes.JSON `gorm:"type:jsonb;column:hoax_indicators" json:"hoax_indicators,omitempty"`
	SpamScore          int            `gorm:"column:spam_score;not null;default:0" json:"spam_score"`
	HoaxDetectionNotes string         `gorm:"column:hoax_detection_notes" json:"hoax_detection_notes"`

	PriorityBucket      PriorityBucket `gorm:"column:priority_bucket;not null" json:"priority_bucket"`
	RequiresHumanReview bool           `gorm:"column:requires_human_review;not null" json:"requires_human_review"`
	AutoTriaged         bool           `gorm:"column:auto_triaged;not null;default:false" json:"auto_triaged"`
	AutoTriageReason    string         `gorm:"column:auto_triage_reason" json:"auto_triage_reason"`

	ReviewedByID  *uuid.UUID `gorm:"type:uuid;column:reviewed_by_id" json:"reviewed_by_id,omitempty"`
	ReviewOutcome string     `gorm:"column:review_outcome" json:"review_outcome"`
	ReviewNotes   string     `gorm:"column:review_notes" json:"review_notes"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TipVerification) TableName() string { return "tip_verification" }
