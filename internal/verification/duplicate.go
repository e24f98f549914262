package verification

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// DuplicateResult is the outcome of comparing a tip against the case's
// existing tips and curated leads.
type DuplicateResult struct {
	IsDuplicate        bool
	DuplicateTipIDs    []uuid.UUID
	PrimaryDuplicateID *uuid.UUID
	// SimilarityScores keeps every compared tip's combined similarity for
	// audit and debugging, keyed by tip id.
	SimilarityScores map[string]float64

	MatchesExistingLeads      bool
	MatchingLeadIDs           []uuid.UUID
	MatchesKnownLocations     bool
	MatchesSuspectDescription bool

	// CorroboratingTipCount is the number of prior tips that are similar
	// enough to corroborate but below the duplicate threshold.
	CorroboratingTipCount int
}

// corroborationFloor is the combined similarity at which a prior tip
// counts as independent corroboration rather than noise.
const corroborationFloor = 0.4

// DetectDuplicates computes per-tip combined similarity (text 50%,
// geospatial 25%, temporal 25%) and lead corroboration.
func DetectDuplicates(vc Context, cfg Config) DuplicateResult {
	result := DuplicateResult{SimilarityScores: make(map[string]float64)}
	tip := vc.Tip

	bestScore := -1.0
	for _, prior := range vc.PriorTips {
		if prior == nil || prior.ID == tip.ID {
			continue
		}
		score := combinedSimilarity(
			jaccardSimilarity(tip.Content, prior.Content),
			geoProximity(tip.Latitude, tip.Longitude, prior.Latitude, prior.Longitude, cfg.DuplicateDistanceMeters),
			temporalProximity(tip.SightedAt, prior.SightedAt, cfg.DuplicateWindowHours),
		)
		result.SimilarityScores[prior.ID.String()] = score

		if score >= cfg.DuplicateThreshold {
			result.IsDuplicate = true
			result.DuplicateTipIDs = append(result.DuplicateTipIDs, prior.ID)
			if score > bestScore {
				bestScore = score
				id := prior.ID
				result.PrimaryDuplicateID = &id
			}
		} else if score >= corroborationFloor {
			result.CorroboratingTipCount++
		}
	}
	sort.Slice(result.DuplicateTipIDs, func(i, j int) bool {
		return result.DuplicateTipIDs[i].String() < result.DuplicateTipIDs[j].String()
	})

	subjectDesc := vc.Case.SubjectDescription
	if subjectDesc != "" && tokenOverlapRatio(subjectDesc, tip.Content) >= 0.5 {
		result.MatchesSuspectDescription = true
	}

	for _, lead := range vc.Leads {
		if lead == nil {
			continue
		}
		score := combinedSimilarity(
			jaccardSimilarity(tip.Content, lead.Summary+" "+lead.Details),
			geoProximity(tip.Latitude, tip.Longitude, lead.Latitude, lead.Longitude, cfg.DuplicateDistanceMeters),
			temporalProximity(tip.SightedAt, lead.SightedAt, cfg.DuplicateWindowHours),
		)
		if score >= cfg.LeadMatchThreshold {
			result.MatchesExistingLeads = true
			result.MatchingLeadIDs = append(result.MatchingLeadIDs, lead.ID)
		}
		if withinMeters(tip.Latitude, tip.Longitude, lead.Latitude, lead.Longitude, cfg.DuplicateDistanceMeters) {
			result.MatchesKnownLocations = true
		}
	}

	return result
}

// CrossReferenceScore converts corroboration into the cross-reference sub-score.
// Curated leads weigh more than unverified tips.
func CrossReferenceScore(r DuplicateResult) int {
	score := 30
	leadBoost := 15 * len(r.MatchingLeadIDs)
	if leadBoost > 45 {
		leadBoost = 45
	}
	score += leadBoost

	tipBoost := 5 * r.CorroboratingTipCount
	if tipBoost > 15 {
		tipBoost = 15
	}
	score += tipBoost

	if r.MatchesKnownLocations {
		score += 5
	}
	if r.MatchesSuspectDescription {
		score += 5
	}
	return clampScore(score)
}

func combinedSimilarity(text, geo, temporal float64) float64 {
	return 0.5*text + 0.25*geo + 0.25*temporal
}

func geoProximity(lat1, lon1, lat2, lon2 *float64, windowMeters float64) float64 {
	if lat1 == nil || lon1 == nil || lat2 == nil || lon2 == nil {
		return 0
	}
	dist := HaversineMeters(*lat1, *lon1, *lat2, *lon2)
	if dist >= 2*windowMeters {
		return 0
	}
	if dist <= windowMeters {
		return 1
	}
	return 1 - (dist-windowMeters)/windowMeters
}

func temporalProximity(a, b *time.Time, windowHours float64) float64 {
	if a == nil || b == nil {
		return 0
	}
	gap := a.Sub(*b).Hours()
	if gap < 0 {
		gap = -gap
	}
	if gap >= 2*windowHours {
		return 0
	}
	if gap <= windowHours {
		return 1
	}
	return 1 - (gap-windowHours)/windowHours
}

func withinMeters(lat1, lon1, lat2, lon2 *float64, meters float64) bool {
	if lat1 == nil || lon1 == nil || lat2 == nil || lon2 == nil {
		return false
	}
	return HaversineMeters(*lat1, *lon1, *lat2, *lon2) <= meters
}
