package verification

import (
	"time"

	"github.com/reuniteapp/reunite-backend/internal/types"
)

// Context is everything the engine needs for one tip, assembled by the
// verification service before any scoring starts.
type Context struct {
	Tip       *types.Tip
	Case      *types.Case
	Tipster   *types.TipsterProfile
	PriorTips []*types.Tip
	Leads     []*types.CaseLead
	Patterns  []*types.ScamPattern
	Rules     []*types.VerificationRule
	Now       time.Time
}

// PhotoSignal is the optional result of third-party photo analysis.
// Analyzed is false when the provider was unavailable or timed out; the
// photo sub-score then relies on stored attachment metadata alone.
type PhotoSignal struct {
	Analyzed    bool
	FaceCount   int
	SpoofLikely bool
}
