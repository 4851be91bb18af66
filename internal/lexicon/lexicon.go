// Package lexicon holds the fixed bilingual (English/Spanish) word tables and
// the lexical detectors built on them: hashtags, language hints, call-to-action
// families, topic families and the engagement snippet parser.
//
// Every table is compiled once at package init and never mutated, so all
// detectors are safe for concurrent use. Patterns use regexp2 because its
// \b and \w are Unicode-aware, which keeps accented Spanish words intact at
// word boundaries.
package lexicon

import (
	"github.com/dlclark/regexp2"
)

// category is a named, ordered list of alternative patterns. A category
// matches when any one of its patterns does.
type category struct {
	name     string
	patterns []*regexp2.Regexp
}

func (c category) matches(text string) bool {
	for _, re := range c.patterns {
		if matchString(re, text) {
			return true
		}
	}
	return false
}

// detect returns the names of the categories that match text, in
// declaration order, each at most once.
func detect(categories []category, text string) []string {
	found := []string{}
	for _, c := range categories {
		if c.matches(text) {
			found = append(found, c.name)
		}
	}
	return found
}

// matchString reports whether re matches s. regexp2 only errors on match
// timeouts, which are treated as a miss.
func matchString(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

func mustCompileAll(exprs []string) []*regexp2.Regexp {
	out := make([]*regexp2.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp2.MustCompile(expr, regexp2.None)
	}
	return out
}

// wordPattern compiles a case-insensitive whole-word matcher for a literal.
func wordPattern(word string) *regexp2.Regexp {
	return regexp2.MustCompile(`\b`+regexp2.Escape(word)+`\b`, regexp2.IgnoreCase)
}
