// Package news resolves aggregated news sentiment for symbols.
package news

import "strings"

// Fixed scoring lexicon. A headline counts toward the first bucket whose
// word set it touches; positive wins over negative on overlap.
var (
	positiveWords = map[string]struct{}{
		"gain": {}, "growth": {}, "profit": {}, "surge": {}, "rise": {}, "bullish": {}, "strong": {},
	}
	negativeWords = map[string]struct{}{
		"loss": {}, "drop": {}, "fall": {}, "decline": {}, "bearish": {}, "weak": {}, "crash": {},
	}
)

// ScoreHeadlines buckets headlines by lexicon hits and returns the
// winning label with its share of the total. Empty input and exact
// positive/negative ties read Neutral.
func ScoreHeadlines(headlines []string) (label string, confidence float64) {
	if len(headlines) == 0 {
		return "Neutral", 0
	}

	var pos, neg, neu int
	for _, h := range headlines {
		switch {
		case containsAny(h, positiveWords):
			pos++
		case containsAny(h, negativeWords):
			neg++
		default:
			neu++
		}
	}

	total := float64(pos + neg + neu)
	switch {
	case neg > pos:
		return "Negative", float64(neg) / total
	case pos > neg:
		return "Positive", float64(pos) / total
	}
	return "Neutral", float64(neu) / total
}

func containsAny(headline string, words map[string]struct{}) bool {
	for _, w := range strings.Fields(strings.ToLower(headline)) {
		w = strings.Trim(w, ".,;:!?'\"()")
		if _, ok := words[w]; ok {
			return true
		}
	}
	return false
}
