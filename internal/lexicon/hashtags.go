package lexicon

import (
	"strings"

	"github.com/dlclark/regexp2"
)

var hashtagRe = regexp2.MustCompile(`(?:^|\s)(#\w+)`, regexp2.None)

// Hashtags extracts every hashtag in text, lowercased, in order of
// appearance. Duplicates are kept so callers can count frequency.
func Hashtags(text string) []string {
	tags := []string{}
	m, err := hashtagRe.FindStringMatch(text)
	for err == nil && m != nil {
		tags = append(tags, strings.ToLower(m.GroupByNumber(1).String()))
		m, err = hashtagRe.FindNextMatch(m)
	}
	return tags
}
