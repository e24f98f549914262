package verification

import (
	"github.com/reuniteapp/reunite-backend/internal/types"
)

// Config holds the tunable thresholds of the engine. Base scoring weights
// are fixed in code; active VerificationRule rows override named knobs.
type Config struct {
	DuplicateDistanceMeters float64
	DuplicateWindowHours    float64
	DuplicateThreshold      float64
	LeadMatchThreshold      float64
	SpamScoreThreshold      int
	AutoVerifyThreshold     int
	AnonymousDefaultScore   int
}

func DefaultConfig() Config {
	return Config{
		DuplicateDistanceMeters: 500,
		DuplicateWindowHours:    3,
		DuplicateThreshold:      0.75,
		LeadMatchThreshold:      0.55,
		SpamScoreThreshold:      80,
		AutoVerifyThreshold:     85,
		AnonymousDefaultScore:   40,
	}
}

// ConfigFromRules applies active rule records on top of the defaults.
// Unknown rule names are ignored so new rules can ship ahead of code.
func ConfigFromRules(rules []*types.VerificationRule) Config {
	cfg := DefaultConfig()
	for _, rule := range rules {
		if rule == nil || !rule.Active {
			continue
		}
		switch rule.Name {
		case types.RuleDuplicateDistanceMeters:
			if rule.Value > 0 {
				cfg.DuplicateDistanceMeters = rule.Value
			}
		case types.RuleDuplicateWindowHours:
			if rule.Value > 0 {
				cfg.DuplicateWindowHours = rule.Value
			}
		case types.RuleDuplicateThreshold:
			if rule.Value > 0 && rule.Value <= 1 {
				cfg.DuplicateThreshold = rule.Value
			}
		case types.RuleSpamScoreThreshold:
			if rule.Value > 0 && rule.Value <= 100 {
				cfg.SpamScoreThreshold = int(rule.Value)
			}
		case types.RuleAutoVerifyThreshold:
			if rule.Value > 0 && rule.Value <= 100 {
				cfg.AutoVerifyThreshold = int(rule.Value)
			}
		case types.RuleAnonymousDefaultScore:
			if rule.Value >= 0 && rule.Value <= 100 {
				cfg.AnonymousDefaultScore = int(rule.Value)
			}
		}
	}
	return cfg
}
