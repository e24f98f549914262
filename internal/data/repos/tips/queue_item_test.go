package tips

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reuniteapp/reunite-backend/internal/data/repos/testutil"
	"github.com/reuniteapp/reunite-backend/internal/types"
)

func seedQueueItem(t *testing.T, tx *gorm.DB, repo QueueItemRepo) *types.VerificationQueueItem {
	t.Helper()
	item := &types.VerificationQueueItem{
		ID:             uuid.New(),
		TipID:          uuid.New(),
		VerificationID: uuid.New(),
		QueueType:      types.QueueTypeStandard,
		ReviewPriority: 3,
		ReviewDeadline: time.Now().UTC().Add(24 * time.Hour),
		Status:         types.QueueStatusPending,
	}
	if _, err := repo.Create(context.Background(), tx, item); err != nil {
		t.Fatalf("seed queue item: %v", err)
	}
	return item
}

func TestQueueItemClaimLifecycle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewQueueItemRepo(db, testutil.Logger(t))
	ctx := context.Background()
	reviewer := uuid.New()
	now := time.Now().UTC()

	item := seedQueueItem(t, tx, repo)

	claimed, err := repo.ClaimPending(ctx, tx, item.ID, reviewer, now)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !claimed {
		t.Fatal("expected first claim to succeed")
	}

	// Second claim must lose: the item is no longer pending.
	claimed, err = repo.ClaimPending(ctx, tx, item.ID, uuid.New(), now)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if claimed {
		t.Fatal("expected second claim to fail")
	}

	got, err := repo.GetByID(ctx, tx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != types.QueueStatusInReview {
		t.Fatalf("unexpected status: got=%s want=%s", got.Status, types.QueueStatusInReview)
	}
	if got.AssignedToID == nil || *got.AssignedToID != reviewer {
		t.Fatalf("unexpected assignee: got=%v want=%s", got.AssignedToID, reviewer)
	}

	// Release returns the item to the pending pool.
	released, err := repo.Release(ctx, tx, item.ID, reviewer)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if !released {
		t.Fatal("expected release to succeed")
	}
	got, err = repo.GetByID(ctx, tx, item.ID)
	if err != nil {
		t.Fatalf("get after release: %v", err)
	}
	if got.Status != types.QueueStatusPending || got.AssignedToID != nil {
		t.Fatalf("release did not reset item: status=%s assignee=%v", got.Status, got.AssignedToID)
	}
}

func TestQueueItemCompleteRequiresAssignee(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewQueueItemRepo(db, testutil.Logger(t))
	ctx := context.Background()
	reviewer := uuid.New()
	now := time.Now().UTC()

	item := seedQueueItem(t, tx, repo)

	// Cannot complete a pending item.
	done, err := repo.Complete(ctx, tx, item.ID, reviewer, types.QueueStatusResolved, now)
	if err != nil {
		t.Fatalf("complete pending: %v", err)
	}
	if done {
		t.Fatal("pending item must not complete")
	}

	if _, err := repo.ClaimPending(ctx, tx, item.ID, reviewer, now); err != nil {
		t.Fatalf("claim: %v", err)
	}

	// A different reviewer cannot complete someone else's item.
	done, err = repo.Complete(ctx, tx, item.ID, uuid.New(), types.QueueStatusResolved, now)
	if err != nil {
		t.Fatalf("complete as stranger: %v", err)
	}
	if done {
		t.Fatal("only the assignee may complete")
	}

	// Non-terminal targets are rejected outright.
	done, err = repo.Complete(ctx, tx, item.ID, reviewer, types.QueueStatusInReview, now)
	if err != nil || done {
		t.Fatalf("non-terminal complete: done=%v err=%v", done, err)
	}

	done, err = repo.Complete(ctx, tx, item.ID, reviewer, types.QueueStatusEscalated, now)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !done {
		t.Fatal("expected completion by assignee")
	}
	got, err := repo.GetByID(ctx, tx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != types.QueueStatusEscalated || got.CompletedAt == nil {
		t.Fatalf("unexpected completed item: status=%s completed_at=%v", got.Status, got.CompletedAt)
	}
}

func TestQueueItemConcurrentClaimsHaveOneWinner(t *testing.T) {
	db := testutil.DB(t)
	repo := NewQueueItemRepo(db, testutil.Logger(t))
	ctx := context.Background()

	// Committed row, separate connections: this exercises the real race.
	item := &types.VerificationQueueItem{
		ID:             uuid.New(),
		TipID:          uuid.New(),
		VerificationID: uuid.New(),
		QueueType:      types.QueueTypeStandard,
		ReviewPriority: 3,
		ReviewDeadline: time.Now().UTC().Add(24 * time.Hour),
		Status:         types.QueueStatusPending,
	}
	if _, err := repo.Create(ctx, nil, item); err != nil {
		t.Fatalf("seed: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("id = ?", item.ID).Delete(&types.VerificationQueueItem{})
	})

	const claimers = 8
	var wg sync.WaitGroup
	wins := make(chan uuid.UUID, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reviewer := uuid.New()
			ok, err := repo.ClaimPending(ctx, nil, item.ID, reviewer, time.Now().UTC())
			if err != nil {
				t.Errorf("claim: %v", err)
				return
			}
			if ok {
				wins <- reviewer
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners []uuid.UUID
	for w := range wins {
		winners = append(winners, w)
	}
	if len(winners) != 1 {
		t.Fatalf("expected exactly one winner, got %d", len(winners))
	}

	got, err := repo.GetByID(ctx, nil, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AssignedToID == nil || *got.AssignedToID != winners[0] {
		t.Fatalf("winner mismatch: row=%v winner=%s", got.AssignedToID, winners[0])
	}
}
