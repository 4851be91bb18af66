package lexicon

import (
	"math"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/runnerr0/pulse/internal/textnorm"
)

var (
	likesRe    = regexp2.MustCompile(`([0-9,.]+)\s+likes`, regexp2.None)
	commentsRe = regexp2.MustCompile(`([0-9,.]+)\s+comments`, regexp2.None)
)

// ParseEngagement reads a platform snippet such as
// "1,234 likes, 56 comments - someone on Instagram: ..." and returns the
// like and comment counts it mentions. Either result is nil when the count
// is absent or cannot be converted.
func ParseEngagement(snippet string) (likes, comments *int) {
	t := textnorm.Lower(snippet)
	return firstCount(likesRe, t), firstCount(commentsRe, t)
}

func firstCount(re *regexp2.Regexp, text string) *int {
	m, err := re.FindStringMatch(text)
	if err != nil || m == nil {
		return nil
	}
	return parseCount(m.GroupByNumber(1).String())
}

// parseCount converts "1,234" or "1.2" style numbers. Thousands separators
// are dropped and any fractional part is truncated toward zero. Values
// that do not fit in an int are treated as malformed.
func parseCount(s string) *int {
	s = strings.ReplaceAll(s, ",", "")
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f >= math.MaxInt64 {
			return nil
		}
		n := int(f)
		return &n
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
