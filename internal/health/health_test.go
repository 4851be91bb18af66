package health

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/pulse/internal/caption"
	"github.com/runnerr0/pulse/internal/post"
	"github.com/runnerr0/pulse/internal/tally"
	"github.com/runnerr0/pulse/internal/temporal"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }

// datedCorpus builds temporal analytics with one dated post per age.
func datedCorpus(span int, ages ...int) *temporal.Analytics {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t := &temporal.Analytics{SpanDays: intPtr(span)}
	for _, age := range ages {
		t.Posts = append(t.Posts, post.Dated{PublishedAt: &ts, AgeDays: intPtr(age)})
	}
	return t
}

func tags(n int) tally.Table {
	t := make(tally.Table, n)
	for i := range t {
		t[i] = tally.Entry{Key: string(rune('a' + i)), Count: 1}
	}
	return t
}

func TestScore_EmptyCorpus(t *testing.T) {
	got := Score(caption.Analyze(nil), nil)

	assert.Equal(t, Breakdown{
		Recency:        10,
		Activity:       8,
		CTA:            4,
		TopicDiversity: 3,
		Hashtags:       3,
		Engagement:     0,
	}, got.Breakdown)
	assert.Equal(t, 28, got.Score)
	assert.Equal(t, "F", got.Grade)
	assert.Equal(t, Signals{
		LowCTAUsage:       true,
		LowTopicDiversity: true,
		LowHashtagUsage:   true,
		EngagementUnknown: true,
	}, got.Signals)
}

func TestScore_NoDatesGivesFlatRecency(t *testing.T) {
	posts := []post.Post{{Caption: "Tacos al pastor"}, {Caption: "Best tacos"}}
	c := caption.Analyze(posts)
	tm := temporal.Analyze(c.Posts, time.Now())

	got := Score(c, &tm)
	assert.Equal(t, 10.0, got.Breakdown.Recency)
	assert.Equal(t, 8.0, got.Breakdown.Activity)
	assert.False(t, got.Signals.HasDates)
	assert.False(t, got.Signals.RecentActivity)
	assert.False(t, got.Signals.StaleAccount)
}

func TestScore_NoCTAs(t *testing.T) {
	posts := []post.Post{{Caption: "one"}, {Caption: "two"}, {Caption: "three"}}
	got := Score(caption.Analyze(posts), nil)

	assert.Equal(t, 4.0, got.Breakdown.CTA)
	assert.True(t, got.Signals.LowCTAUsage)
}

func TestScore_HealthyAccount(t *testing.T) {
	c := caption.Analytics{
		CTAFrequency:     tally.Table{{Key: "order", Count: 3}, {Key: "pickup", Count: 2}},
		TopicFrequency:   tally.Table{{Key: "menu", Count: 4}, {Key: "promo", Count: 2}, {Key: "events", Count: 1}, {Key: "delivery", Count: 1}},
		HashtagFrequency: tags(10),
		AvgLikes:         floatPtr(600),
		AvgComments:      floatPtr(100),
	}

	got := Score(c, datedCorpus(14, 2, 5, 9, 16))

	assert.Equal(t, Breakdown{
		Recency:        29.7,
		Activity:       16,
		CTA:            13.5,
		TopicDiversity: 15,
		Hashtags:       8,
		Engagement:     7,
	}, got.Breakdown)
	assert.Equal(t, 89, got.Score)
	assert.Equal(t, "B+", got.Grade)
	assert.Equal(t, Signals{HasDates: true, RecentActivity: true}, got.Signals)
}

func TestScore_Clamping(t *testing.T) {
	c := caption.Analytics{
		CTAFrequency:     tally.Table{{Key: "order", Count: 40}},
		TopicFrequency:   tally.Table{{Key: "a", Count: 1}, {Key: "b", Count: 1}, {Key: "c", Count: 1}, {Key: "d", Count: 1}, {Key: "e", Count: 1}},
		HashtagFrequency: tags(20),
		AvgLikes:         floatPtr(100000),
		AvgComments:      floatPtr(100000),
	}

	got := Score(c, datedCorpus(0, -10, 0, 1, 2, 3))
	assert.Equal(t, Breakdown{
		Recency:        MaxRecency,
		Activity:       MaxActivity,
		CTA:            MaxCTA,
		TopicDiversity: MaxDiversity,
		Hashtags:       MaxHashtags,
		Engagement:     MaxEngagement,
	}, got.Breakdown)
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, "A", got.Grade)

	old := Score(caption.Analytics{}, datedCorpus(10, 400))
	assert.Equal(t, 0.0, old.Breakdown.Recency)
	assert.True(t, old.Signals.StaleAccount)
}

func TestScore_Stale(t *testing.T) {
	got := Score(caption.Analytics{}, datedCorpus(0, 90))
	assert.Equal(t, 16.5, got.Breakdown.Recency)
	assert.True(t, got.Signals.StaleAccount)
	assert.False(t, got.Signals.RecentActivity)

	got = Score(caption.Analytics{}, datedCorpus(0, 14))
	assert.True(t, got.Signals.RecentActivity)
	assert.False(t, got.Signals.StaleAccount)
}

func TestScore_EngagementParts(t *testing.T) {
	onlyComments := Score(caption.Analytics{AvgComments: floatPtr(300)}, nil)
	assert.Equal(t, 3.0, onlyComments.Breakdown.Engagement)
	assert.False(t, onlyComments.Signals.EngagementUnknown)

	onlyLikes := Score(caption.Analytics{AvgLikes: floatPtr(0)}, nil)
	assert.Equal(t, 2.0, onlyLikes.Breakdown.Engagement)
}

func TestScore_RoundsHalfToEven(t *testing.T) {
	// Flat components add up to 28; engagement supplies the fraction.
	assert.Equal(t, 30, Score(caption.Analytics{AvgLikes: floatPtr(100)}, nil).Score)
	assert.Equal(t, 32, Score(caption.Analytics{AvgLikes: floatPtr(300)}, nil).Score)
}

func TestScore_TopicTable(t *testing.T) {
	expected := []float64{3, 5, 8, 11, 15, 15}
	for n, want := range expected {
		c := caption.Analytics{TopicFrequency: tags(n)}
		assert.Equal(t, want, Score(c, nil).Breakdown.TopicDiversity, "%d topics", n)
	}

	zeroCounts := caption.Analytics{TopicFrequency: tally.Table{{Key: "menu", Count: 0}}}
	assert.Equal(t, 3.0, Score(zeroCounts, nil).Breakdown.TopicDiversity)
}

func TestScore_Bounds(t *testing.T) {
	inputs := []caption.Analytics{
		{},
		{AvgLikes: floatPtr(-5000)},
		{HashtagFrequency: tags(2), CTAFrequency: tally.Table{{Key: "order", Count: 1}}},
	}
	for _, c := range inputs {
		for _, tm := range []*temporal.Analytics{nil, datedCorpus(365, 30), datedCorpus(0, -500)} {
			got := Score(c, tm)
			assert.GreaterOrEqual(t, got.Score, 0)
			assert.LessOrEqual(t, got.Score, 100)
		}
	}
}

func TestScore_Idempotent(t *testing.T) {
	c := caption.Analytics{HashtagFrequency: tags(4), AvgLikes: floatPtr(123)}
	tm := datedCorpus(30, 7, 12)
	assert.Equal(t, Score(c, tm), Score(c, tm))
}

func TestAssessment_JSON(t *testing.T) {
	out, err := json.Marshal(Score(caption.Analytics{}, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"health_score": 28,
		"health_grade": "F",
		"signals": {
			"has_dates": false,
			"recent_activity": false,
			"stale_account": false,
			"low_cta_usage": true,
			"low_topic_diversity": true,
			"low_hashtag_usage": true,
			"engagement_unknown": true
		},
		"breakdown": {
			"recency_0_30": 10,
			"activity_0_20": 8,
			"cta_0_15": 4,
			"topic_diversity_0_15": 3,
			"hashtags_0_10": 3,
			"engagement_0_10": 0
		}
	}`, string(out))
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{100, "A"}, {93, "A"}, {92, "A-"}, {90, "A-"}, {89, "B+"}, {87, "B+"},
		{86, "B"}, {83, "B"}, {82, "B-"}, {80, "B-"}, {79, "C+"}, {77, "C+"},
		{76, "C"}, {73, "C"}, {72, "C-"}, {70, "C-"}, {69, "D+"}, {67, "D+"},
		{66, "D"}, {63, "D"}, {62, "F"}, {0, "F"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, Grade(tc.score), "score %d", tc.score)
	}
}

func TestGrade_Monotonic(t *testing.T) {
	rank := map[string]int{"F": 0, "D": 1, "D+": 2, "C-": 3, "C": 4, "C+": 5, "B-": 6, "B": 7, "B+": 8, "A-": 9, "A": 10}
	prev := -1
	for s := 0; s <= 100; s++ {
		r := rank[Grade(s)]
		assert.GreaterOrEqual(t, r, prev, "score %d", s)
		prev = r
	}
}
