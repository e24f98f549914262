package verification

import (
	"testing"

	"github.com/reuniteapp/reunite-backend/internal/types"
)

func TestConfigFromRulesOverridesKnownKnobs(t *testing.T) {
	t.Parallel()

	rules := []*types.VerificationRule{
		{Name: types.RuleDuplicateDistanceMeters, Value: 1000, Active: true},
		{Name: types.RuleSpamScoreThreshold, Value: 60, Active: true},
		{Name: types.RuleAnonymousDefaultScore, Value: 35, Active: true},
	}

	cfg := ConfigFromRules(rules)
	if cfg.DuplicateDistanceMeters != 1000 {
		t.Fatalf("duplicate distance: got=%v want=1000", cfg.DuplicateDistanceMeters)
	}
	if cfg.SpamScoreThreshold != 60 {
		t.Fatalf("spam threshold: got=%d want=60", cfg.SpamScoreThreshold)
	}
	if cfg.AnonymousDefaultScore != 35 {
		t.Fatalf("anonymous default: got=%d want=35", cfg.AnonymousDefaultScore)
	}
	// Untouched knobs keep their defaults.
	if cfg.DuplicateThreshold != DefaultConfig().DuplicateThreshold {
		t.Fatalf("duplicate threshold changed unexpectedly: got=%v", cfg.DuplicateThreshold)
	}
}

func TestConfigFromRulesIgnoresInactiveAndInvalid(t *testing.T) {
	t.Parallel()

	rules := []*types.VerificationRule{
		{Name: types.RuleSpamScoreThreshold, Value: 60, Active: false},
		{Name: types.RuleDuplicateThreshold, Value: 3.5, Active: true},
		{Name: "unknown_rule", Value: 12, Active: true},
		nil,
	}

	cfg := ConfigFromRules(rules)
	if cfg.SpamScoreThreshold != DefaultConfig().SpamScoreThreshold {
		t.Fatalf("inactive rule applied: got=%d", cfg.SpamScoreThreshold)
	}
	if cfg.DuplicateThreshold != DefaultConfig().DuplicateThreshold {
		t.Fatalf("out-of-range value applied: got=%v", cfg.DuplicateThreshold)
	}
}
