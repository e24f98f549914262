package verification

import (
	"math"
	"strings"
	"time"
)

// NeutralScore substitutes for any sub-score whose input is absent or
// whose computation fails, so the weighted aggregate never needs
// renormalization.
const NeutralScore = 50

// Aggregate weights per sub-score. Must sum to 1.
const (
	weightPhoto    = 0.20
	weightLocation = 0.20
	weightTime     = 0.15
	weightText     = 0.15
	weightCrossRef = 0.15
	weightTipster  = 0.15
)

type SubScores struct {
	Photo              int
	Location           int
	Time               int
	Text               int
	CrossReference     int
	Tipster            int
	TravelTimeFeasible bool
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// AggregateCredibility is the documented weighted sum of the six
// sub-scores, rounded to the nearest integer in [0,100].
func AggregateCredibility(s SubScores) int {
	sum := weightPhoto*float64(clampScore(s.Photo)) +
		weightLocation*float64(clampScore(s.Location)) +
		weightTime*float64(clampScore(s.Time)) +
		weightText*float64(clampScore(s.Text)) +
		weightCrossRef*float64(clampScore(s.CrossReference)) +
		weightTipster*float64(clampScore(s.Tipster))
	return clampScore(int(math.Round(sum)))
}

type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) Scorer {
	return Scorer{cfg: cfg}
}

// Score computes the photo, location, time, text, and tipster sub-scores.
// The cross-reference sub-score comes from the duplicate detector and is
// joined in by the caller. Each sub-computation is guarded: a panic in
// one signal degrades that signal to neutral, never the whole evaluation.
func (s Scorer) Score(vc Context, photo *PhotoSignal) SubScores {
	scores := SubScores{TravelTimeFeasible: true}

	scores.Photo = safeScore(func() int { return s.scorePhoto(vc, photo) })
	scores.Location = safeScore(func() int { return s.scoreLocation(vc) })
	scores.Time = safeScore(func() int {
		timeScore, feasible := s.scoreTime(vc)
		scores.TravelTimeFeasible = feasible
		return timeScore
	})
	scores.Text = safeScore(func() int { return s.scoreText(vc) })
	scores.Tipster = safeScore(func() int { return s.scoreTipster(vc) })
	scores.CrossReference = NeutralScore
	return scores
}

func safeScore(fn func() int) (score int) {
	defer func() {
		if r := recover(); r != nil {
			score = NeutralScore
		}
	}()
	return clampScore(fn())
}

func (s Scorer) scorePhoto(vc Context, signal *PhotoSignal) int {
	if vc.Tip == nil || len(vc.Tip.Attachments) == 0 {
		return NeutralScore
	}
	best := 0
	for i := range vc.Tip.Attachments {
		att := &vc.Tip.Attachments[i]
		score := NeutralScore

		if att.CapturedAt == nil {
			score -= 10
		} else if vc.Tip.SightedAt != nil {
			gap := att.CapturedAt.Sub(*vc.Tip.SightedAt)
			if gap < 0 {
				gap = -gap
			}
			if gap <= 2*time.Hour {
				score += 10
			}
		}

		if att.Latitude == nil || att.Longitude == nil {
			score -= 10
		} else {
			score += 5
			if vc.Tip.Latitude != nil && vc.Tip.Longitude != nil {
				dist := HaversineMeters(*att.Latitude, *att.Longitude, *vc.Tip.Latitude, *vc.Tip.Longitude)
				if dist <= 1000 {
					score += 10
				}
			}
		}

		if att.AIGenerated {
			score -= 30
		}
		if att.Manipulated {
			score -= 25
		}
		if att.StockPhotoMatch {
			score -= 20
		}

		faces := att.DetectedFaceCount
		if signal != nil && signal.Analyzed {
			if signal.FaceCount > faces {
				faces = signal.FaceCount
			}
			if signal.SpoofLikely {
				score -= 25
			}
		}
		if faces == 0 {
			score -= 15
		} else {
			score += 5
		}

		if att.MatchesSubject {
			score += 20
		}

		if clamped := clampScore(score); clamped > best {
			best = clamped
		}
	}
	return best
}

func (s Scorer) scoreLocation(vc Context) int {
	tip := vc.Tip
	kase := vc.Case
	if tip == nil || kase == nil ||
		tip.Latitude == nil || tip.Longitude == nil ||
		kase.LastSeenLatitude == nil || kase.LastSeenLongitude == nil {
		return NeutralScore
	}

	dist := HaversineMeters(*tip.Latitude, *tip.Longitude, *kase.LastSeenLatitude, *kase.LastSeenLongitude)
	plausible := plausibleTravelMeters(vc)

	if dist > plausible {
		// Implausibly far for the elapsed time.
		if dist > 2*plausible {
			return 10
		}
		return 30
	}

	// Plausible reach: close sightings score high, distant ones decay
	// toward neutral since distance alone corroborates nothing.
	switch {
	case dist <= 2000:
		return 90
	case dist <= 10000:
		return 75
	case dist <= 50000:
		return 60
	default:
		return NeutralScore
	}
}

// plausibleTravelMeters is the reach of ordinary transport since the
// subject was last seen: a 5km local radius plus 60km/h of elapsed time.
func plausibleTravelMeters(vc Context) float64 {
	elapsed := 24.0
	if vc.Case.LastSeenAt != nil {
		elapsed = vc.Now.Sub(*vc.Case.LastSeenAt).Hours()
		if elapsed < 0 {
			elapsed = 0
		}
	}
	plausible := 5000 + 60000*elapsed
	if plausible > 2_000_000 {
		plausible = 2_000_000
	}
	return plausible
}

func (s Scorer) scoreTime(vc Context) (int, bool) {
	tip := vc.Tip
	kase := vc.Case
	if tip == nil || kase == nil || tip.SightedAt == nil || kase.LastSeenAt == nil {
		return NeutralScore, true
	}

	if tip.SightedAt.Before(*kase.LastSeenAt) {
		return 5, false
	}

	if tip.Latitude == nil || tip.Longitude == nil ||
		kase.LastSeenLatitude == nil || kase.LastSeenLongitude == nil {
		return 60, true
	}

	distKM := HaversineMeters(*tip.Latitude, *tip.Longitude, *kase.LastSeenLatitude, *kase.LastSeenLongitude) / 1000
	elapsedHours := tip.SightedAt.Sub(*kase.LastSeenAt).Hours()
	if elapsedHours < 1.0/60 {
		elapsedHours = 1.0 / 60
	}
	impliedSpeed := distKM / elapsedHours

	switch {
	case impliedSpeed > 900:
		// Faster than commercial flight.
		return 5, false
	case impliedSpeed > 160:
		return 15, false
	case impliedSpeed > 90:
		return 55, true
	default:
		return 85, true
	}
}

var emotionalPhrases = []string{"urgent", "please help", "100%", "act now", "i swear"}

var specificityWords = []string{
	"am", "pm", "morning", "afternoon", "evening", "noon", "midnight",
	"red", "blue", "green", "black", "white", "grey", "gray", "brown", "blonde",
	"jacket", "hoodie", "shirt", "jeans", "dress", "shoes", "backpack", "cap", "hat",
	"street", "avenue", "road", "park", "station", "mall", "corner", "bridge", "school",
}

func (s Scorer) scoreText(vc Context) int {
	content := strings.TrimSpace(vc.Tip.Content)
	if content == "" {
		return NeutralScore
	}

	// Sentiment neutrality: measured reports beat pressure language.
	neutrality := 25
	if strings.Count(content, "!") > 2 {
		neutrality -= 8
	}
	if capsRatio(content) > 0.3 {
		neutrality -= 8
	}
	for _, phrase := range emotionalPhrases {
		if containsFold(content, phrase) {
			neutrality -= 5
		}
	}
	if neutrality < 0 {
		neutrality = 0
	}

	// Internal coherence: enough substance to evaluate, not a wall of text.
	coherence := 20
	switch {
	case len(content) < 20:
		coherence = 5
	case len(content) > 1500:
		coherence = 12
	}

	// Specificity: concrete details (times, colors, clothing, places).
	specificity := 0
	if strings.IndexFunc(content, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0 {
		specificity += 5
	}
	lower := strings.ToLower(content)
	for _, w := range specificityWords {
		if containsWord(lower, w) {
			specificity += 5
		}
		if specificity >= 25 {
			specificity = 25
			break
		}
	}

	// Consistency with known case facts.
	consistency := 12
	if desc := vc.Case.SubjectDescription; strings.TrimSpace(desc) != "" {
		consistency = int(math.Round(25 * tokenOverlapRatio(desc, content)))
	}

	return neutrality + coherence + specificity + consistency
}

func (s Scorer) scoreTipster(vc Context) int {
	if vc.Tip.Anonymous || vc.Tipster == nil {
		return s.cfg.AnonymousDefaultScore
	}
	return clampScore(vc.Tipster.ReliabilityScore)
}

func capsRatio(s string) float64 {
	letters, caps := 0, 0
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			letters++
		case r >= 'A' && r <= 'Z':
			letters++
			caps++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(caps) / float64(letters)
}

func containsWord(haystack, word string) bool {
	for _, t := range strings.Fields(haystack) {
		if strings.Trim(t, ".,!?;:'\"()") == word {
			return true
		}
	}
	return false
}
