package verification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/reuniteapp/reunite-backend/internal/types"
)

func hoaxContext(content string, anonymous bool, patterns ...*types.ScamPattern) Context {
	return Context{
		Tip:      &types.Tip{ID: uuid.New(), Content: content, Anonymous: anonymous},
		Case:     &types.Case{},
		Patterns: patterns,
		Now:      time.Now().UTC(),
	}
}

func TestMatchHoaxPatternsPaymentScam(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	vc := hoaxContext(
		"I know exactly where she is. Wire transfer $500 for travel expenses and whatsapp me before it's too late.",
		true,
	)

	result := MatchHoaxPatterns(vc, cfg)
	if result.SpamScore < cfg.SpamScoreThreshold {
		t.Fatalf("payment scam should cross the spam threshold: got=%d want>=%d", result.SpamScore, cfg.SpamScoreThreshold)
	}
	if result.Notes == "" {
		t.Fatal("expected heuristic notes")
	}
}

func TestMatchHoaxPatternsPhrasePattern(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	pattern := &types.ScamPattern{
		ID:                  uuid.New(),
		Name:                "psychic_vision",
		PatternType:         types.ScamPatternTypePhrase,
		PatternData:         datatypes.JSON(`{"phrases":["i had a vision","psychic reading"]}`),
		ConfidenceThreshold: 0.5,
		Active:              true,
	}
	vc := hoaxContext("I had a vision of the child near water, trust me.", false, pattern)

	result := MatchHoaxPatterns(vc, cfg)
	if len(result.Indicators) != 1 || result.Indicators[0] != "psychic_vision" {
		t.Fatalf("unexpected indicators: %v", result.Indicators)
	}
	if len(result.MatchedPatternIDs) != 1 || result.MatchedPatternIDs[0] != pattern.ID {
		t.Fatalf("unexpected matched pattern ids: %v", result.MatchedPatternIDs)
	}
	if result.SpamScore < 40 {
		t.Fatalf("pattern match should raise the spam score: got=%d", result.SpamScore)
	}
}

func TestMatchHoaxPatternsInactivePatternIgnored(t *testing.T) {
	t.Parallel()
	pattern := &types.ScamPattern{
		ID:                  uuid.New(),
		Name:                "retired_pattern",
		PatternType:         types.ScamPatternTypePhrase,
		PatternData:         datatypes.JSON(`{"phrases":["i had a vision"]}`),
		ConfidenceThreshold: 0.5,
		Active:              false,
	}
	vc := hoaxContext("I had a vision of the child.", false, pattern)

	result := MatchHoaxPatterns(vc, DefaultConfig())
	if len(result.Indicators) != 0 {
		t.Fatalf("inactive pattern must not match: %v", result.Indicators)
	}
}

func TestMatchHoaxPatternsRegexPattern(t *testing.T) {
	t.Parallel()
	pattern := &types.ScamPattern{
		ID:                  uuid.New(),
		Name:                "reward_demand",
		PatternType:         types.ScamPatternTypeRegex,
		PatternData:         datatypes.JSON(`{"expression":"reward.{0,20}\\$\\d+"}`),
		ConfidenceThreshold: 0.9,
		Active:              true,
	}
	vc := hoaxContext("Happy to help once the REWARD of $2000 is confirmed.", false, pattern)

	result := MatchHoaxPatterns(vc, DefaultConfig())
	if len(result.Indicators) != 1 {
		t.Fatalf("regex pattern should match case-insensitively: %v", result.Indicators)
	}
}

func TestMatchHoaxPatternsStructureNeedsAllPhrases(t *testing.T) {
	t.Parallel()
	pattern := &types.ScamPattern{
		ID:                  uuid.New(),
		Name:                "staged_sighting",
		PatternType:         types.ScamPatternTypeStructure,
		PatternData:         datatypes.JSON(`{"phrases":["i saw","call me","cash"]}`),
		ConfidenceThreshold: 0.9,
		Active:              true,
	}

	partial := hoaxContext("I saw him yesterday, call me for details.", false, pattern)
	if result := MatchHoaxPatterns(partial, DefaultConfig()); len(result.Indicators) != 0 {
		t.Fatalf("partial structure must not match: %v", result.Indicators)
	}

	full := hoaxContext("I saw him yesterday, call me and bring cash.", false, pattern)
	if result := MatchHoaxPatterns(full, DefaultConfig()); len(result.Indicators) != 1 {
		t.Fatalf("full structure should match: %v", result.Indicators)
	}
}

func TestSpamHeuristicsIdentityClaimOnlyWhenAnonymous(t *testing.T) {
	t.Parallel()
	content := "I am her mother, contact me directly."

	anonymous := MatchHoaxPatterns(hoaxContext(content, true), DefaultConfig())
	named := MatchHoaxPatterns(hoaxContext(content, false), DefaultConfig())
	if anonymous.SpamScore <= named.SpamScore {
		t.Fatalf("identity claims should only penalize anonymous tips: anonymous=%d named=%d", anonymous.SpamScore, named.SpamScore)
	}
}

func TestSpamHeuristicsCleanTip(t *testing.T) {
	t.Parallel()
	vc := hoaxContext("Saw a girl matching the photo at the bus stop on Main Street around noon.", false)

	result := MatchHoaxPatterns(vc, DefaultConfig())
	if result.SpamScore != 0 {
		t.Fatalf("clean tip should have zero spam score: got=%d", result.SpamScore)
	}
	if len(result.Indicators) != 0 {
		t.Fatalf("clean tip should have no indicators: %v", result.Indicators)
	}
}
