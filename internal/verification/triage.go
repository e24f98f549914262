package verification

import (
	"fmt"
	"time"

	"github.com/reuniteapp/reunite-backend/internal/types"
)

const AutoTriageReasonSuspectedHoax = "suspected_hoax"
const AutoTriageReasonHighConfidence = "auto_verified_high_confidence"

// SLA windows per bucket.
var slaWindows = map[types.PriorityBucket]time.Duration{
	types.PriorityBucketCritical: 1 * time.Hour,
	types.PriorityBucketHigh:     4 * time.Hour,
	types.PriorityBucketStandard: 24 * time.Hour,
	types.PriorityBucketLow:      72 * time.Hour,
}

// Decision is the joined triage outcome.
type Decision struct {
	Bucket              types.PriorityBucket
	RequiresHumanReview bool
	AutoTriaged         bool
	AutoTriageReason    string
	ReviewPriority      int
	ReviewDeadline      time.Time
	AutoActions         []string
	Warnings            []string
	Suggestions         []string
}

// Triage applies the decision table: hoax override first, then joint
// thresholds on case priority and credibility. The bucket is monotonic in
// both inputs.
func Triage(casePriority types.CasePriority, credibility int, dup DuplicateResult, hoax HoaxResult, travelFeasible bool, cfg Config, now time.Time) Decision {
	decision := Decision{}

	suspectedHoax := hoax.SpamScore >= cfg.SpamScoreThreshold || len(hoax.Indicators) >= 2
	if suspectedHoax {
		decision.Bucket = types.PriorityBucketLow
		decision.AutoTriageReason = AutoTriageReasonSuspectedHoax
	} else {
		decision.Bucket = classifyBucket(casePriority, credibility)
	}

	noRiskFlags := !suspectedHoax && len(hoax.Indicators) == 0 && !dup.IsDuplicate
	lowUrgency := decision.Bucket == types.PriorityBucketLow || decision.Bucket == types.PriorityBucketStandard
	if lowUrgency && credibility >= cfg.AutoVerifyThreshold && noRiskFlags {
		decision.RequiresHumanReview = false
		decision.AutoTriaged = true
		decision.AutoTriageReason = AutoTriageReasonHighConfidence
		decision.AutoActions = append(decision.AutoActions, "auto_verified")
	} else {
		decision.RequiresHumanReview = true
		decision.AutoActions = append(decision.AutoActions, "queued_for_review")
	}

	decision.ReviewPriority = decision.Bucket.ReviewPriority()
	decision.ReviewDeadline = now.Add(slaWindows[decision.Bucket])

	if dup.IsDuplicate && dup.PrimaryDuplicateID != nil {
		decision.Warnings = append(decision.Warnings, fmt.Sprintf("possible duplicate of tip %s", dup.PrimaryDuplicateID))
	}
	if suspectedHoax {
		decision.Warnings = append(decision.Warnings, "tip matches known hoax/scam signals")
	}
	if !travelFeasible {
		decision.Warnings = append(decision.Warnings, "implied travel between last-seen point and sighting is not feasible")
	}
	if decision.Bucket == types.PriorityBucketCritical {
		decision.Suggestions = append(decision.Suggestions, "notify case investigators immediately")
	}
	if dup.MatchesExistingLeads {
		decision.Suggestions = append(decision.Suggestions, "corroborates existing leads; consider merging")
	}

	return decision
}

func classifyBucket(casePriority types.CasePriority, credibility int) types.PriorityBucket {
	highCase := casePriority.Rank() >= types.CasePriorityHigh.Rank()
	mediumCase := casePriority.Rank() == types.CasePriorityMedium.Rank()

	switch {
	case highCase && credibility >= 70:
		return types.PriorityBucketCritical
	case highCase && credibility >= 40:
		return types.PriorityBucketHigh
	case mediumCase && credibility >= 70:
		return types.PriorityBucketHigh
	case credibility >= 40:
		return types.PriorityBucketStandard
	default:
		return types.PriorityBucketLow
	}
}
