package verification

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/reuniteapp/reunite-backend/internal/types"
)

// HoaxResult is the outcome of pattern matching and spam heuristics.
type HoaxResult struct {
	Indicators        []string
	MatchedPatternIDs []uuid.UUID
	SpamScore         int
	Notes             string
}

type phrasePatternData struct {
	Phrases []string `json:"phrases"`
}

type regexPatternData struct {
	Expression string `json:"expression"`
}

// MatchHoaxPatterns evaluates tip content against the active scam pattern
// set plus independent spam heuristics. Pattern detection counters are
// incremented by the caller using MatchedPatternIDs.
func MatchHoaxPatterns(vc Context, cfg Config) HoaxResult {
	result := HoaxResult{}
	content := vc.Tip.Content
	var notes []string

	for _, pattern := range vc.Patterns {
		if pattern == nil || !pattern.Active {
			continue
		}
		matched, confidence := matchPattern(pattern, content)
		if !matched || confidence < pattern.ConfidenceThreshold {
			continue
		}
		result.Indicators = append(result.Indicators, pattern.Name)
		result.MatchedPatternIDs = append(result.MatchedPatternIDs, pattern.ID)
		notes = append(notes, fmt.Sprintf("matched %s pattern %q (confidence %.2f)", pattern.PatternType, pattern.Name, confidence))
	}

	spamScore, spamNotes := spamHeuristics(vc)
	result.SpamScore = spamScore
	notes = append(notes, spamNotes...)

	// A strong pattern match is itself spam evidence.
	if len(result.Indicators) > 0 && result.SpamScore < cfg.SpamScoreThreshold {
		result.SpamScore = clampScore(result.SpamScore + 40*len(result.Indicators))
	}

	result.Notes = strings.Join(notes, "; ")
	return result
}

func matchPattern(pattern *types.ScamPattern, content string) (bool, float64) {
	switch pattern.PatternType {
	case types.ScamPatternTypePhrase:
		var data phrasePatternData
		if err := json.Unmarshal(pattern.PatternData, &data); err != nil {
			return false, 0
		}
		for _, phrase := range data.Phrases {
			if phrase != "" && containsFold(content, phrase) {
				return true, 1
			}
		}
		return false, 0

	case types.ScamPatternTypeRegex:
		var data regexPatternData
		if err := json.Unmarshal(pattern.PatternData, &data); err != nil {
			return false, 0
		}
		re, err := regexp.Compile("(?i)" + data.Expression)
		if err != nil {
			return false, 0
		}
		if re.MatchString(content) {
			return true, 1
		}
		return false, 0

	case types.ScamPatternTypeStructure:
		// Structural signatures require every listed phrase to appear.
		var data phrasePatternData
		if err := json.Unmarshal(pattern.PatternData, &data); err != nil {
			return false, 0
		}
		if len(data.Phrases) == 0 {
			return false, 0
		}
		hits := 0
		for _, phrase := range data.Phrases {
			if phrase != "" && containsFold(content, phrase) {
				hits++
			}
		}
		return hits == len(data.Phrases), float64(hits) / float64(len(data.Phrases))
	}
	return false, 0
}

var paymentPhrases = []string{
	"send money", "wire transfer", "western union", "gift card", "bitcoin",
	"travel expenses", "reward money", "pay me", "cash app", "venmo",
}

var urgencyPhrases = []string{
	"act now", "last chance", "before it's too late", "time is running out",
	"immediately or", "you must",
}

var offPlatformPhrases = []string{
	"whatsapp me", "text me at", "call me at", "contact me directly", "telegram",
}

var identityClaimPhrases = []string{
	"i am the mother", "i am the father", "i am her mother", "i am his father",
	"i am a police officer", "i am a detective", "family member",
}

func spamHeuristics(vc Context) (int, []string) {
	content := vc.Tip.Content
	score := 0
	var notes []string

	if phrase, ok := anyPhrase(content, paymentPhrases); ok {
		score += 50
		notes = append(notes, fmt.Sprintf("payment request language (%q)", phrase))
	}
	if phrase, ok := anyPhrase(content, urgencyPhrases); ok {
		score += 15
		notes = append(notes, fmt.Sprintf("urgency pressure language (%q)", phrase))
	}
	if phrase, ok := anyPhrase(content, offPlatformPhrases); ok {
		score += 15
		notes = append(notes, fmt.Sprintf("off-platform contact push (%q)", phrase))
	}
	if vc.Tip.Anonymous {
		if phrase, ok := anyPhrase(content, identityClaimPhrases); ok {
			score += 15
			notes = append(notes, fmt.Sprintf("identity claim on anonymous tip (%q)", phrase))
		}
	}
	if links := strings.Count(strings.ToLower(content), "http://") + strings.Count(strings.ToLower(content), "https://"); links > 2 {
		score += 10
		notes = append(notes, fmt.Sprintf("link stuffing (%d links)", links))
	}

	return clampScore(score), notes
}

func anyPhrase(content string, phrases []string) (string, bool) {
	for _, phrase := range phrases {
		if containsFold(content, phrase) {
			return phrase, true
		}
	}
	return "", false
}
