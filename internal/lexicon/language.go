package lexicon

import (
	"github.com/dlclark/regexp2"

	"github.com/runnerr0/pulse/internal/textnorm"
)

// Language is a coarse language estimate for a post.
type Language string

const (
	Spanish Language = "es"
	English Language = "en"
	Mixed   Language = "mixed"
	Unknown Language = "unknown"
)

var spanishHints = hintPatterns(
	"el", "la", "los", "las", "de", "del", "para", "con", "que", "por", "una", "un",
	"y", "en", "hoy", "mañana", "gracias", "sabor", "carne", "tacos",
)

var englishHints = hintPatterns(
	"the", "and", "with", "for", "you", "your", "today", "tomorrow", "thanks",
	"best", "meat", "tacos", "order", "visit",
)

func hintPatterns(words ...string) []*regexp2.Regexp {
	out := make([]*regexp2.Regexp, len(words))
	for i, w := range words {
		out[i] = wordPattern(w)
	}
	return out
}

// hintScore counts how many distinct hint words occur in text.
func hintScore(hints []*regexp2.Regexp, text string) int {
	n := 0
	for _, re := range hints {
		if matchString(re, text) {
			n++
		}
	}
	return n
}

// DetectLanguage scores text against the Spanish and English hint sets.
// Scores within one point of each other (both non-zero) are reported as
// Mixed.
func DetectLanguage(text string) Language {
	t := textnorm.Lower(text)
	if t == "" {
		return Unknown
	}

	es := hintScore(spanishHints, t)
	en := hintScore(englishHints, t)

	switch {
	case es == 0 && en == 0:
		return Unknown
	case es > 0 && en > 0 && abs(es-en) <= 1:
		return Mixed
	case es > en:
		return Spanish
	default:
		return English
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
