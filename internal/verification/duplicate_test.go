package verification

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reuniteapp/reunite-backend/internal/types"
)

func TestDetectDuplicatesFlagsNearIdenticalTip(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	now := time.Now().UTC()
	sighted := now.Add(-1 * time.Hour)

	content := "saw a boy in a green hoodie near the central station platform two"
	prior := &types.Tip{
		ID:        uuid.New(),
		Content:   content,
		Latitude:  floatPtr(40.0),
		Longitude: floatPtr(-74.0),
		SightedAt: timePtr(sighted),
	}
	vc := Context{
		Tip: &types.Tip{
			ID:        uuid.New(),
			Content:   content,
			Latitude:  floatPtr(40.0),
			Longitude: floatPtr(-74.0),
			SightedAt: timePtr(sighted),
		},
		Case:      &types.Case{},
		PriorTips: []*types.Tip{prior},
		Now:       now,
	}

	result := DetectDuplicates(vc, cfg)
	if !result.IsDuplicate {
		t.Fatal("identical tip must be flagged as duplicate")
	}
	if result.PrimaryDuplicateID == nil || *result.PrimaryDuplicateID != prior.ID {
		t.Fatalf("unexpected primary duplicate: got=%v want=%s", result.PrimaryDuplicateID, prior.ID)
	}
	if score, ok := result.SimilarityScores[prior.ID.String()]; !ok || score < cfg.DuplicateThreshold {
		t.Fatalf("similarity score missing or below threshold: got=%v", score)
	}
}

func TestDetectDuplicatesCountsCorroboration(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	now := time.Now().UTC()
	sighted := now.Add(-1 * time.Hour)

	// Same place and time, entirely different wording: corroboration, not
	// a duplicate.
	prior := &types.Tip{
		ID:        uuid.New(),
		Content:   "man walking dog past river bank this morning",
		Latitude:  floatPtr(40.0),
		Longitude: floatPtr(-74.0),
		SightedAt: timePtr(sighted),
	}
	vc := Context{
		Tip: &types.Tip{
			ID:        uuid.New(),
			Content:   "kid wearing orange jacket sitting alone outside grocery store",
			Latitude:  floatPtr(40.0),
			Longitude: floatPtr(-74.0),
			SightedAt: timePtr(sighted),
		},
		Case:      &types.Case{},
		PriorTips: []*types.Tip{prior},
		Now:       now,
	}

	result := DetectDuplicates(vc, cfg)
	if result.IsDuplicate {
		t.Fatal("dissimilar wording should not be a duplicate")
	}
	if result.CorroboratingTipCount != 1 {
		t.Fatalf("unexpected corroborating count: got=%d want=1", result.CorroboratingTipCount)
	}
}

func TestDetectDuplicatesMatchesLeads(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	now := time.Now().UTC()
	sighted := now.Add(-1 * time.Hour)

	lead := &types.CaseLead{
		ID:        uuid.New(),
		Summary:   "sighting in green hoodie near central station",
		Details:   "witness reported platform two",
		Latitude:  floatPtr(40.0),
		Longitude: floatPtr(-74.0),
		SightedAt: timePtr(sighted),
	}
	vc := Context{
		Tip: &types.Tip{
			ID:        uuid.New(),
			Content:   "saw someone in a green hoodie near the central station platform two",
			Latitude:  floatPtr(40.0),
			Longitude: floatPtr(-74.0),
			SightedAt: timePtr(sighted),
		},
		Case:  &types.Case{},
		Leads: []*types.CaseLead{lead},
		Now:   now,
	}

	result := DetectDuplicates(vc, cfg)
	if !result.MatchesExistingLeads {
		t.Fatal("expected a lead match")
	}
	if len(result.MatchingLeadIDs) != 1 || result.MatchingLeadIDs[0] != lead.ID {
		t.Fatalf("unexpected matching lead ids: %v", result.MatchingLeadIDs)
	}
	if !result.MatchesKnownLocations {
		t.Fatal("lead at the same coordinates should match known locations")
	}
}

func TestCrossReferenceScore(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		result DuplicateResult
		want   int
	}{
		{"no corroboration stays below neutral", DuplicateResult{}, 30},
		{
			"lead plus location and description",
			DuplicateResult{
				MatchingLeadIDs:           []uuid.UUID{uuid.New()},
				MatchesExistingLeads:      true,
				MatchesKnownLocations:     true,
				MatchesSuspectDescription: true,
			},
			55,
		},
		{
			"lead boost caps at three leads",
			DuplicateResult{
				MatchingLeadIDs: []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()},
			},
			75,
		},
		{
			"tip corroboration caps at three tips",
			DuplicateResult{CorroboratingTipCount: 10},
			45,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CrossReferenceScore(tc.result); got != tc.want {
				t.Fatalf("unexpected score: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestTemporalProximityWindow(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	within := now.Add(-2 * time.Hour)
	if got := temporalProximity(&now, &within, 3); got != 1 {
		t.Fatalf("inside window: got=%v want=1", got)
	}
	far := now.Add(-10 * time.Hour)
	if got := temporalProximity(&now, &far, 3); got != 0 {
		t.Fatalf("outside double window: got=%v want=0", got)
	}
	if got := temporalProximity(nil, &now, 3); got != 0 {
		t.Fatalf("missing timestamp: got=%v want=0", got)
	}
}
