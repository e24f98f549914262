package tips

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reuniteapp/reunite-backend/internal/data/repos/testutil"
	"github.com/reuniteapp/reunite-backend/internal/types"
)

func seedVerification(t *testing.T, tx *gorm.DB, repo VerificationRepo, tipID, caseID uuid.UUID, bucket types.PriorityBucket) *types.TipVerification {
	t.Helper()
	record := &types.TipVerification{
		ID:                        uuid.New(),
		TipID:                     tipID,
		CaseID:                    caseID,
		PhotoVerificationScore:    50,
		LocationVerificationScore: 50,
		TimePlausibilityScore:     50,
		TextAnalysisScore:         50,
		CrossReferenceScore:       50,
		TipsterReliabilityScore:   50,
		CredibilityScore:          50,
		TravelTimeFeasible:        true,
		PriorityBucket:            bucket,
		RequiresHumanReview:       true,
	}
	if _, err := repo.Create(context.Background(), tx, record); err != nil {
		t.Fatalf("seed verification: %v", err)
	}
	return record
}

func TestVerificationGetActiveByTipIDIgnoresSoftDeleted(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewVerificationRepo(db, testutil.Logger(t))
	ctx := context.Background()
	tipID, caseID := uuid.New(), uuid.New()

	first := seedVerification(t, tx, repo, tipID, caseID, types.PriorityBucketStandard)

	got, err := repo.GetActiveByTipID(ctx, tx, tipID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if got == nil || got.ID != first.ID {
		t.Fatalf("expected the seeded record, got %v", got)
	}

	// Forced re-verification soft-deletes the old record and inserts a
	// replacement; only the replacement stays visible.
	if err := repo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{first.ID}); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	replacement := seedVerification(t, tx, repo, tipID, caseID, types.PriorityBucketHigh)

	got, err = repo.GetActiveByTipID(ctx, tx, tipID)
	if err != nil {
		t.Fatalf("get active after replace: %v", err)
	}
	if got == nil || got.ID != replacement.ID {
		t.Fatalf("expected the replacement record, got %v", got)
	}
}

func TestVerificationListFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewVerificationRepo(db, testutil.Logger(t))
	ctx := context.Background()
	caseID := uuid.New()

	seedVerification(t, tx, repo, uuid.New(), caseID, types.PriorityBucketCritical)
	seedVerification(t, tx, repo, uuid.New(), caseID, types.PriorityBucketLow)
	seedVerification(t, tx, repo, uuid.New(), uuid.New(), types.PriorityBucketCritical)

	bucket := types.PriorityBucketCritical
	records, total, err := repo.List(ctx, tx, VerificationListFilter{CaseID: &caseID, PriorityBucket: &bucket})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("unexpected result size: total=%d len=%d", total, len(records))
	}
	if records[0].CaseID != caseID || records[0].PriorityBucket != bucket {
		t.Fatalf("filter returned wrong record: %+v", records[0])
	}
}

func TestVerificationSetReviewOutcome(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewVerificationRepo(db, testutil.Logger(t))
	ctx := context.Background()
	reviewer := uuid.New()
	now := time.Now().UTC()

	record := seedVerification(t, tx, repo, uuid.New(), uuid.New(), types.PriorityBucketStandard)

	if err := repo.SetReviewOutcome(ctx, tx, record.ID, reviewer, "resolved", "confirmed sighting", now); err != nil {
		t.Fatalf("set outcome: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{record.ID})
	if err != nil || len(got) != 1 {
		t.Fatalf("get: err=%v len=%d", err, len(got))
	}
	if got[0].ReviewOutcome != "resolved" {
		t.Fatalf("unexpected outcome: %q", got[0].ReviewOutcome)
	}
	if got[0].ReviewedByID == nil || *got[0].ReviewedByID != reviewer {
		t.Fatalf("unexpected reviewer: %v", got[0].ReviewedByID)
	}
	if got[0].ReviewedAt == nil {
		t.Fatal("expected reviewed_at to be set")
	}
}
