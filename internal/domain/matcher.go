package domain

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// phraseMatcher finds known phrases inside free text. Phrases are kept sorted
// longest first, then lexicographically, so the first phrase found in the text
// is the deterministic winner.
type phraseMatcher struct {
	phrases   []phrase
	wholeWord bool
}

type phrase struct {
	text  string
	lower string
}

func newPhraseMatcher(texts []string, wholeWord bool) *phraseMatcher {
	seen := make(map[string]bool, len(texts))
	phrases := make([]phrase, 0, len(texts))
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		phrases = append(phrases, phrase{text: t, lower: strings.ToLower(t)})
	}

	sort.Slice(phrases, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(phrases[i].text), utf8.RuneCountInString(phrases[j].text)
		if li != lj {
			return li > lj
		}
		return phrases[i].text < phrases[j].text
	})

	return &phraseMatcher{phrases: phrases, wholeWord: wholeWord}
}

// first returns the winning phrase contained in text.
func (m *phraseMatcher) first(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, p := range m.phrases {
		if m.contains(lower, p.lower) {
			return p.text, true
		}
	}
	return "", false
}

// any reports whether text contains at least one phrase.
func (m *phraseMatcher) any(text string) bool {
	_, ok := m.first(text)
	return ok
}

// rank returns the position of phrase in match order, or -1.
func (m *phraseMatcher) rank(text string) int {
	for i, p := range m.phrases {
		if p.text == text {
			return i
		}
	}
	return -1
}

// ordered returns phrases in match order.
func (m *phraseMatcher) ordered() []string {
	out := make([]string, len(m.phrases))
	for i, p := range m.phrases {
		out[i] = p.text
	}
	return out
}

func (m *phraseMatcher) contains(lowerText, lowerPhrase string) bool {
	if !m.wholeWord {
		return strings.Contains(lowerText, lowerPhrase)
	}
	return containsWord(lowerText, lowerPhrase)
}

// containsWord reports whether phrase occurs in text bounded by non-letters.
func containsWord(text, phrase string) bool {
	for offset := 0; offset <= len(text); {
		i := strings.Index(text[offset:], phrase)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(phrase)
		if !letterBefore(text, start) && !letterAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func letterBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r)
}

func letterAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r)
}
