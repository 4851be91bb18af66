// Package health condenses caption and temporal analytics into a single
// 0-100 account health score with a letter grade, informational signal
// flags and a per-component breakdown.
package health

import (
	"math"

	"github.com/runnerr0/pulse/internal/caption"
	"github.com/runnerr0/pulse/internal/tally"
	"github.com/runnerr0/pulse/internal/temporal"
)

// Component ceilings.
const (
	MaxRecency    = 30.0
	MaxActivity   = 20.0
	MaxCTA        = 15.0
	MaxDiversity  = 15.0
	MaxHashtags   = 10.0
	MaxEngagement = 10.0
)

// Signal thresholds, in days or distinct counts.
const (
	RecentDays      = 14
	StaleDays       = 90
	LowCTAHits      = 2
	LowTopicCount   = 1
	LowHashtagCount = 3
)

// diversityTable scores distinct topic counts; anything above it earns
// MaxDiversity.
var diversityTable = map[int]float64{0: 3, 1: 5, 2: 8, 3: 11}

// Signals are informational flags; none of them feed the score.
type Signals struct {
	HasDates          bool `json:"has_dates"`
	RecentActivity    bool `json:"recent_activity"`
	StaleAccount      bool `json:"stale_account"`
	LowCTAUsage       bool `json:"low_cta_usage"`
	LowTopicDiversity bool `json:"low_topic_diversity"`
	LowHashtagUsage   bool `json:"low_hashtag_usage"`
	EngagementUnknown bool `json:"engagement_unknown"`
}

// Breakdown holds every component sub-score, rounded to 2 decimals.
type Breakdown struct {
	Recency        float64 `json:"recency_0_30"`
	Activity       float64 `json:"activity_0_20"`
	CTA            float64 `json:"cta_0_15"`
	TopicDiversity float64 `json:"topic_diversity_0_15"`
	Hashtags       float64 `json:"hashtags_0_10"`
	Engagement     float64 `json:"engagement_0_10"`
}

// Assessment is the result of Score.
type Assessment struct {
	Score     int       `json:"health_score"`
	Grade     string    `json:"health_grade"`
	Signals   Signals   `json:"signals"`
	Breakdown Breakdown `json:"breakdown"`
}

// Score computes the health assessment. A nil t is treated as a corpus
// without any dated posts.
func Score(c caption.Analytics, t *temporal.Analytics) Assessment {
	var (
		minAge   int
		hasAge   bool
		dated    int
		spanDays *int
	)
	if t != nil {
		minAge, hasAge = t.MinAgeDays()
		dated = t.DatedCount()
		spanDays = t.SpanDays
	}

	recency := 10.0
	if hasAge {
		recency = clamp(MaxRecency-float64(minAge)*0.15, 0, MaxRecency)
	}

	activity := 8.0
	if spanDays != nil && *spanDays >= 0 && dated > 0 {
		weeks := math.Max(1, float64(*spanDays)/7)
		activity = clamp(6+float64(dated)/weeks*5, 0, MaxActivity)
	}

	ctaHits := c.CTAFrequency.Total()
	cta := 4.0
	if ctaHits > 0 {
		cta = 6 + math.Min(9, float64(ctaHits)*1.5)
	}
	cta = clamp(cta, 0, MaxCTA)

	topics := distinctPositive(c.TopicFrequency)
	diversity, ok := diversityTable[topics]
	if !ok {
		diversity = MaxDiversity
	}

	tags := len(c.HashtagFrequency)
	hashtags := 3.0
	if tags > 0 {
		hashtags = 4 + math.Min(6, float64(tags)*0.4)
	}
	hashtags = clamp(hashtags, 0, MaxHashtags)

	engagement := 0.0
	if c.AvgLikes != nil {
		engagement = 2 + *c.AvgLikes/200
	}
	if c.AvgComments != nil {
		engagement += math.Min(3, *c.AvgComments/50)
	}
	engagement = clamp(engagement, 0, MaxEngagement)

	total := recency + activity + cta + diversity + hashtags + engagement
	score := int(clamp(math.RoundToEven(total), 0, 100))

	return Assessment{
		Score: score,
		Grade: Grade(score),
		Signals: Signals{
			HasDates:          dated > 0,
			RecentActivity:    hasAge && minAge <= RecentDays,
			StaleAccount:      hasAge && minAge >= StaleDays,
			LowCTAUsage:       ctaHits < LowCTAHits,
			LowTopicDiversity: topics <= LowTopicCount,
			LowHashtagUsage:   tags < LowHashtagCount,
			EngagementUnknown: c.AvgLikes == nil && c.AvgComments == nil,
		},
		Breakdown: Breakdown{
			Recency:        tally.Round(recency, 2),
			Activity:       tally.Round(activity, 2),
			CTA:            tally.Round(cta, 2),
			TopicDiversity: tally.Round(diversity, 2),
			Hashtags:       tally.Round(hashtags, 2),
			Engagement:     tally.Round(engagement, 2),
		},
	}
}

var gradeCutoffs = []struct {
	min   int
	grade string
}{
	{93, "A"},
	{90, "A-"},
	{87, "B+"},
	{83, "B"},
	{80, "B-"},
	{77, "C+"},
	{73, "C"},
	{70, "C-"},
	{67, "D+"},
	{63, "D"},
}

// Grade maps a score to its letter grade.
func Grade(score int) string {
	for _, c := range gradeCutoffs {
		if score >= c.min {
			return c.grade
		}
	}
	return "F"
}

func distinctPositive(t tally.Table) int {
	n := 0
	for _, e := range t {
		if e.Count > 0 {
			n++
		}
	}
	return n
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
