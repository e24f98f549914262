package verification

import (
	"testing"
	"time"

	"github.com/reuniteapp/reunite-backend/internal/types"
)

func TestTriageDecisionTable(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	now := time.Now().UTC()

	cases := []struct {
		name         string
		casePriority types.CasePriority
		credibility  int
		wantBucket   types.PriorityBucket
		wantSLA      time.Duration
	}{
		{"high case and strong tip", types.CasePriorityHigh, 70, types.PriorityBucketCritical, time.Hour},
		{"critical case and strong tip", types.CasePriorityCritical, 85, types.PriorityBucketCritical, time.Hour},
		{"high case and plausible tip", types.CasePriorityHigh, 40, types.PriorityBucketHigh, 4 * time.Hour},
		{"medium case and strong tip", types.CasePriorityMedium, 70, types.PriorityBucketHigh, 4 * time.Hour},
		{"medium case and plausible tip", types.CasePriorityMedium, 45, types.PriorityBucketStandard, 24 * time.Hour},
		{"low case and plausible tip", types.CasePriorityLow, 55, types.PriorityBucketStandard, 24 * time.Hour},
		{"weak tip on any case", types.CasePriorityHigh, 20, types.PriorityBucketLow, 72 * time.Hour},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			decision := Triage(tc.casePriority, tc.credibility, DuplicateResult{}, HoaxResult{}, true, cfg, now)
			if decision.Bucket != tc.wantBucket {
				t.Fatalf("unexpected bucket: got=%s want=%s", decision.Bucket, tc.wantBucket)
			}
			if got := decision.ReviewDeadline.Sub(now); got != tc.wantSLA {
				t.Fatalf("unexpected SLA window: got=%s want=%s", got, tc.wantSLA)
			}
			if decision.ReviewPriority != tc.wantBucket.ReviewPriority() {
				t.Fatalf("unexpected review priority: got=%d want=%d", decision.ReviewPriority, tc.wantBucket.ReviewPriority())
			}
		})
	}
}

func TestTriageHoaxOverrideRoutesLow(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	now := time.Now().UTC()

	hoax := HoaxResult{SpamScore: cfg.SpamScoreThreshold}
	decision := Triage(types.CasePriorityCritical, 95, DuplicateResult{}, hoax, true, cfg, now)

	if decision.Bucket != types.PriorityBucketLow {
		t.Fatalf("hoax must route low regardless of other inputs: got=%s", decision.Bucket)
	}
	if decision.AutoTriageReason != AutoTriageReasonSuspectedHoax {
		t.Fatalf("unexpected triage reason: got=%q want=%q", decision.AutoTriageReason, AutoTriageReasonSuspectedHoax)
	}
	if !decision.RequiresHumanReview {
		t.Fatal("suspected hoaxes still require a human to confirm")
	}
	if len(decision.Warnings) == 0 {
		t.Fatal("expected a hoax warning")
	}
}

func TestTriageTwoIndicatorsCountAsHoax(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	hoax := HoaxResult{Indicators: []string{"reward_scam", "psychic_tip"}}

	decision := Triage(types.CasePriorityHigh, 80, DuplicateResult{}, hoax, true, cfg, time.Now().UTC())
	if decision.Bucket != types.PriorityBucketLow {
		t.Fatalf("two indicators must trigger the hoax override: got=%s", decision.Bucket)
	}
}

func TestTriageAutoVerify(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	now := time.Now().UTC()

	t.Run("clean low-urgency tip auto-verifies", func(t *testing.T) {
		t.Parallel()
		decision := Triage(types.CasePriorityLow, cfg.AutoVerifyThreshold+5, DuplicateResult{}, HoaxResult{}, true, cfg, now)
		if decision.RequiresHumanReview {
			t.Fatal("expected auto-verification")
		}
		if !decision.AutoTriaged || decision.AutoTriageReason != AutoTriageReasonHighConfidence {
			t.Fatalf("unexpected auto-triage state: triaged=%v reason=%q", decision.AutoTriaged, decision.AutoTriageReason)
		}
		if len(decision.AutoActions) == 0 || decision.AutoActions[0] != "auto_verified" {
			t.Fatalf("unexpected auto actions: %v", decision.AutoActions)
		}
	})

	t.Run("duplicates never auto-verify", func(t *testing.T) {
		t.Parallel()
		decision := Triage(types.CasePriorityLow, 95, DuplicateResult{IsDuplicate: true}, HoaxResult{}, true, cfg, now)
		if !decision.RequiresHumanReview {
			t.Fatal("duplicate tips must stay in review")
		}
	})

	t.Run("critical bucket never auto-verifies", func(t *testing.T) {
		t.Parallel()
		decision := Triage(types.CasePriorityCritical, 95, DuplicateResult{}, HoaxResult{}, true, cfg, now)
		if decision.Bucket != types.PriorityBucketCritical {
			t.Fatalf("unexpected bucket: got=%s", decision.Bucket)
		}
		if !decision.RequiresHumanReview {
			t.Fatal("critical tips must always be reviewed")
		}
	})

	t.Run("single indicator blocks auto-verify", func(t *testing.T) {
		t.Parallel()
		hoax := HoaxResult{Indicators: []string{"reward_scam"}}
		decision := Triage(types.CasePriorityLow, 95, DuplicateResult{}, hoax, true, cfg, now)
		if !decision.RequiresHumanReview {
			t.Fatal("any hoax indicator must block auto-verification")
		}
	})
}

func TestTriageBucketMonotonicInBothInputs(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	now := time.Now().UTC()
	priorities := []types.CasePriority{
		types.CasePriorityRoutine,
		types.CasePriorityLow,
		types.CasePriorityMedium,
		types.CasePriorityHigh,
		types.CasePriorityCritical,
	}

	for i, priority := range priorities {
		prevRank := 0
		for cred := 0; cred <= 100; cred += 5 {
			decision := Triage(priority, cred, DuplicateResult{}, HoaxResult{}, true, cfg, now)
			rank := decision.Bucket.Rank()
			if rank < prevRank {
				t.Fatalf("bucket not monotonic in credibility: priority=%s cred=%d rank=%d prev=%d", priority, cred, rank, prevRank)
			}
			prevRank = rank

			if i > 0 {
				lower := Triage(priorities[i-1], cred, DuplicateResult{}, HoaxResult{}, true, cfg, now)
				if rank < lower.Bucket.Rank() {
					t.Fatalf("bucket not monotonic in case priority: priority=%s cred=%d", priority, cred)
				}
			}
		}
	}
}

func TestTriageInfeasibleTravelWarns(t *testing.T) {
	t.Parallel()
	decision := Triage(types.CasePriorityMedium, 50, DuplicateResult{}, HoaxResult{}, false, DefaultConfig(), time.Now().UTC())

	found := false
	for _, w := range decision.Warnings {
		if w == "implied travel between last-seen point and sighting is not feasible" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected infeasible-travel warning, got %v", decision.Warnings)
	}
}
