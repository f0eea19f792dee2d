package domain

import "strings"

var (
	highSeverityKeywords   = []string{"outbreak", "epidemic", "death", "fatal", "emergency", "claims lives", "surge"}
	mediumSeverityKeywords = []string{"spread", "cases", "infected", "confirmed", "rise", "increase", "alert"}
)

// keywordScore is 2 for any high-severity cue, else 1 for any medium cue, else 0.
func keywordScore(headline string) int {
	lower := strings.ToLower(headline)
	if containsAny(lower, highSeverityKeywords) {
		return 2
	}
	if containsAny(lower, mediumSeverityKeywords) {
		return 1
	}
	return 0
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// severityScore adds the disease priority score to the keyword score.
func severityScore(priority Priority, headline string) int {
	return priority.Score() + keywordScore(headline)
}

// severityForScore maps a score to a tier: >= 3 High, >= 1 Medium, else Low.
func severityForScore(score int) Severity {
	switch {
	case score >= 3:
		return SeverityHigh
	case score >= 1:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
