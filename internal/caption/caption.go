// Package caption runs the lexical detectors over every post and aggregates
// corpus-level statistics: hashtag, CTA and topic frequency, language mix,
// and average estimated engagement.
package caption

import (
	"github.com/runnerr0/pulse/internal/lexicon"
	"github.com/runnerr0/pulse/internal/post"
	"github.com/runnerr0/pulse/internal/tally"
	"github.com/runnerr0/pulse/internal/textnorm"
)

// TopN caps every frequency table in Analytics.
const TopN = 20

// Analytics is the corpus-level result of Analyze.
type Analytics struct {
	AvgLikes         *float64                     `json:"avg_likes_est"`
	AvgComments      *float64                     `json:"avg_comments_est"`
	HashtagFrequency tally.Table                  `json:"hashtag_frequency"`
	LanguageRatio    map[lexicon.Language]float64 `json:"language_ratio"`
	CTAFrequency     tally.Table                  `json:"cta_frequency"`
	TopicFrequency   tally.Table                  `json:"dominant_topics"`
	Posts            []post.Annotated             `json:"posts_annotated"`
}

// Annotate runs every detector against a single post. Engagement counts are
// read from the description only; captions rarely carry them.
func Annotate(p post.Post) post.Annotated {
	blob := textnorm.Blob(p.Caption, p.Description)
	likes, comments := lexicon.ParseEngagement(textnorm.Normalize(p.Description))

	return post.Annotated{
		Post:             p,
		Hashtags:         lexicon.Hashtags(blob),
		Language:         lexicon.DetectLanguage(blob),
		CTAs:             lexicon.DetectCTAs(blob),
		Topics:           lexicon.DetectTopics(blob),
		LikesEstimate:    likes,
		CommentsEstimate: comments,
	}
}

// Analyze annotates every post and aggregates the results. No post is
// dropped; failed detections leave empty or nil fields.
func Analyze(posts []post.Post) Analytics {
	hashtags := tally.New()
	ctas := tally.New()
	topics := tally.New()
	languages := tally.New()

	var likes, comments []int
	annotated := make([]post.Annotated, 0, len(posts))

	for _, p := range posts {
		a := Annotate(p)

		hashtags.Add(a.Hashtags...)
		ctas.Add(a.CTAs...)
		topics.Add(a.Topics...)
		languages.Add(string(a.Language))

		if a.LikesEstimate != nil {
			likes = append(likes, *a.LikesEstimate)
		}
		if a.CommentsEstimate != nil {
			comments = append(comments, *a.CommentsEstimate)
		}

		annotated = append(annotated, a)
	}

	total := languages.Total()
	if total < 1 {
		total = 1
	}
	ratio := make(map[lexicon.Language]float64, languages.Len())
	for _, e := range languages.MostCommon(0) {
		ratio[lexicon.Language(e.Key)] = tally.Round(float64(e.Count)/float64(total), 4)
	}

	return Analytics{
		AvgLikes:         tally.Mean(likes),
		AvgComments:      tally.Mean(comments),
		HashtagFrequency: hashtags.MostCommon(TopN),
		LanguageRatio:    ratio,
		CTAFrequency:     ctas.MostCommon(TopN),
		TopicFrequency:   topics.MostCommon(TopN),
		Posts:            annotated,
	}
}
