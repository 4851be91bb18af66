// Package temporal infers publication dates from post text and summarizes
// when an account posts: date span, per-year volume and engagement, and a
// three-way split into chronological eras.
package temporal

import (
	"sort"
	"strconv"
	"time"

	"github.com/runnerr0/pulse/internal/post"
	"github.com/runnerr0/pulse/internal/tally"
	"github.com/runnerr0/pulse/internal/textnorm"
)

// Era bucket names.
const (
	EraOld    = "era_1_old"
	EraMiddle = "era_2_middle"
	EraRecent = "era_3_recent"
)

// NoDatesNote is set on Analytics when no post yields a date.
const NoDatesNote = "no publication dates detected in post text"

const secondsPerDay = 24 * 60 * 60

// Analytics is the result of Analyze. When no post carries a recognizable
// date, the date and span fields are nil, the maps are empty and Note
// explains why.
type Analytics struct {
	MinDate            *time.Time         `json:"min_date"`
	MaxDate            *time.Time         `json:"max_date"`
	SpanDays           *int               `json:"span_days"`
	PostsPerYear       map[string]int     `json:"posts_per_year"`
	AvgLikesPerYear    map[string]float64 `json:"avg_likes_est_per_year"`
	AvgCommentsPerYear map[string]float64 `json:"avg_comments_est_per_year"`
	EraGuess           map[string]int     `json:"era_guess"`
	Posts              []post.Dated       `json:"posts_with_dates"`
	Note               string             `json:"note,omitempty"`
}

// DatedCount returns how many posts carry a publication date.
func (a Analytics) DatedCount() int {
	n := 0
	for _, p := range a.Posts {
		if p.HasDate() {
			n++
		}
	}
	return n
}

// MinAgeDays returns the age of the most recent dated post.
func (a Analytics) MinAgeDays() (int, bool) {
	found := false
	min := 0
	for _, p := range a.Posts {
		if p.AgeDays == nil {
			continue
		}
		if !found || *p.AgeDays < min {
			min = *p.AgeDays
			found = true
		}
	}
	return min, found
}

// Analyze dates every post relative to now. now should be read once per
// report so all ages agree; dates after now produce negative ages.
func Analyze(posts []post.Annotated, now time.Time) Analytics {
	dated := make([]post.Dated, 0, len(posts))
	var dates []time.Time

	perYear := map[int]int{}
	likesByYear := map[int][]int{}
	commentsByYear := map[int][]int{}

	for _, p := range posts {
		d := post.Dated{Annotated: p}

		if ts, ok := ExtractDate(textnorm.Blob(p.Caption, p.Description)); ok {
			year, month, age := ts.Year(), int(ts.Month()), DaysBetween(ts, now)
			d.PublishedAt = &ts
			d.Year = &year
			d.Month = &month
			d.AgeDays = &age

			dates = append(dates, ts)
			perYear[year]++
			if p.LikesEstimate != nil {
				likesByYear[year] = append(likesByYear[year], *p.LikesEstimate)
			}
			if p.CommentsEstimate != nil {
				commentsByYear[year] = append(commentsByYear[year], *p.CommentsEstimate)
			}
		}

		dated = append(dated, d)
	}

	out := Analytics{
		PostsPerYear:       map[string]int{},
		AvgLikesPerYear:    map[string]float64{},
		AvgCommentsPerYear: map[string]float64{},
		EraGuess:           map[string]int{},
		Posts:              dated,
	}

	if len(dates) == 0 {
		out.Note = NoDatesNote
		return out
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	minDate, maxDate := sorted[0], sorted[len(sorted)-1]
	span := DaysBetween(minDate, maxDate)
	out.MinDate = &minDate
	out.MaxDate = &maxDate
	out.SpanDays = &span

	for year, n := range perYear {
		out.PostsPerYear[strconv.Itoa(year)] = n
	}
	for year, vals := range likesByYear {
		if avg := tally.Mean(vals); avg != nil {
			out.AvgLikesPerYear[strconv.Itoa(year)] = *avg
		}
	}
	for year, vals := range commentsByYear {
		if avg := tally.Mean(vals); avg != nil {
			out.AvgCommentsPerYear[strconv.Itoa(year)] = *avg
		}
	}

	cut1, cut2 := EraCuts(sorted)
	for _, ts := range dates {
		out.EraGuess[eraFor(ts, cut1, cut2)]++
	}

	return out
}

// EraCuts picks the tercile boundaries of an ascending date list using a
// truncating index (floor(n*0.33), floor(n*0.66)). With two or fewer dates
// the cuts are simply the first and last date.
func EraCuts(sorted []time.Time) (cut1, cut2 time.Time) {
	n := len(sorted)
	if n == 0 {
		return time.Time{}, time.Time{}
	}
	if n <= 2 {
		return sorted[0], sorted[n-1]
	}
	return sorted[int(float64(n)*0.33)], sorted[int(float64(n)*0.66)]
}

// eraFor buckets a date; dates equal to a cut belong to the earlier era.
func eraFor(ts, cut1, cut2 time.Time) string {
	switch {
	case !ts.After(cut1):
		return EraOld
	case !ts.After(cut2):
		return EraMiddle
	default:
		return EraRecent
	}
}

// DaysBetween returns the whole days from a to b, floored, so a moment one
// hour in the future counts as -1 day.
func DaysBetween(a, b time.Time) int {
	secs := b.Unix() - a.Unix()
	days := secs / secondsPerDay
	if secs%secondsPerDay != 0 && secs < 0 {
		days--
	}
	return int(days)
}
