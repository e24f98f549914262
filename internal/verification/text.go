package verification

import "strings"

var textStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "i": {}, "in": {}, "is": {}, "it": {},
	"of": {}, "on": {}, "or": {}, "the": {}, "to": {}, "was": {}, "with": {},
}

// tokenize lowercases, strips punctuation, and drops stopwords.
func tokenize(s string) []string {
	var tokens []string
	for _, raw := range strings.Fields(strings.ToLower(s)) {
		token := strings.TrimFunc(raw, func(r rune) bool {
			return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
		})
		if token == "" {
			continue
		}
		if _, stop := textStopwords[token]; stop {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range tokenize(s) {
		set[t] = struct{}{}
	}
	return set
}

// jaccardSimilarity between the token sets of two strings, in [0,1].
func jaccardSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersect := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersect++
		}
	}
	union := len(setA) + len(setB) - intersect
	if union == 0 {
		return 0
	}
	return float64(intersect) / float64(union)
}

// tokenOverlapRatio is the share of a's tokens that also appear in b.
func tokenOverlapRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 {
		return 0
	}
	hits := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(setA))
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
