package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/runnerr0/pulse/internal/health"
	"github.com/runnerr0/pulse/internal/lexicon"
	"github.com/runnerr0/pulse/internal/post"
	"github.com/runnerr0/pulse/internal/tally"
	"github.com/runnerr0/pulse/internal/temporal"
)

const (
	markdownTopN        = 10
	markdownSamplePosts = 5
	captionPreviewRunes = 280
)

// RenderMarkdown renders a human-readable report.
func RenderMarkdown(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Social Report: %s | %s\n", r.Meta.Platform, r.Meta.Handle)
	fmt.Fprintf(&b, "Generated: %s\n", r.Meta.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Runtime: %.2fs\n", r.Meta.RunTimeSeconds)
	fmt.Fprintf(&b, "Report ID: %s\n", r.ID)
	fmt.Fprintf(&b, "Posts analyzed: %d\n\n", r.Meta.PostCount)

	writeHealth(&b, r.Health)
	writeContent(&b, r)
	writeTimeline(&b, r.Temporal)
	writeSamples(&b, r.Temporal.Posts)
	writePlan(&b, r.ActionPlan)

	if len(r.Warnings) > 0 {
		b.WriteString("## Warnings\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeHealth(b *strings.Builder, a health.Assessment) {
	b.WriteString("## Health\n")
	fmt.Fprintf(b, "**Score: %d/100 (%s)**\n\n", a.Score, a.Grade)

	b.WriteString("| Component | Score | Max |\n|---|---|---|\n")
	rows := []struct {
		name  string
		score float64
		max   float64
	}{
		{"Recency", a.Breakdown.Recency, health.MaxRecency},
		{"Activity", a.Breakdown.Activity, health.MaxActivity},
		{"Calls to action", a.Breakdown.CTA, health.MaxCTA},
		{"Topic diversity", a.Breakdown.TopicDiversity, health.MaxDiversity},
		{"Hashtags", a.Breakdown.Hashtags, health.MaxHashtags},
		{"Engagement", a.Breakdown.Engagement, health.MaxEngagement},
	}
	for _, row := range rows {
		fmt.Fprintf(b, "| %s | %g | %g |\n", row.name, row.score, row.max)
	}
	b.WriteString("\n")

	b.WriteString("### Signals\n")
	signals := []struct {
		name string
		on   bool
	}{
		{"has_dates", a.Signals.HasDates},
		{"recent_activity", a.Signals.RecentActivity},
		{"stale_account", a.Signals.StaleAccount},
		{"low_cta_usage", a.Signals.LowCTAUsage},
		{"low_topic_diversity", a.Signals.LowTopicDiversity},
		{"low_hashtag_usage", a.Signals.LowHashtagUsage},
		{"engagement_unknown", a.Signals.EngagementUnknown},
	}
	for _, s := range signals {
		mark := " "
		if s.on {
			mark = "x"
		}
		fmt.Fprintf(b, "- [%s] %s\n", mark, s.name)
	}
	b.WriteString("\n")
}

func writeContent(b *strings.Builder, r *Report) {
	a := r.Analytics
	b.WriteString("## Content\n")

	if a.AvgLikes != nil {
		fmt.Fprintf(b, "- Avg likes (est.): %g\n", *a.AvgLikes)
	}
	if a.AvgComments != nil {
		fmt.Fprintf(b, "- Avg comments (est.): %g\n", *a.AvgComments)
	}

	langs := make([]lexicon.Language, 0, len(a.LanguageRatio))
	for lang := range a.LanguageRatio {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		si, sj := a.LanguageRatio[langs[i]], a.LanguageRatio[langs[j]]
		if si != sj {
			return si > sj
		}
		return langs[i] < langs[j]
	})
	if len(langs) > 0 {
		parts := make([]string, len(langs))
		for i, l := range langs {
			parts[i] = fmt.Sprintf("%s %.0f%%", l, a.LanguageRatio[l]*100)
		}
		fmt.Fprintf(b, "- Language mix: %s\n", strings.Join(parts, ", "))
	}
	b.WriteString("\n")

	writeTable(b, "Top hashtags", a.HashtagFrequency)
	writeTable(b, "Calls to action", a.CTAFrequency)
	writeTable(b, "Topics", a.TopicFrequency)
}

func writeTable(b *strings.Builder, title string, t tally.Table) {
	fmt.Fprintf(b, "### %s\n", title)
	if len(t) == 0 {
		b.WriteString("- (none)\n\n")
		return
	}
	for i, e := range t {
		if i == markdownTopN {
			break
		}
		fmt.Fprintf(b, "- %s (%d)\n", e.Key, e.Count)
	}
	b.WriteString("\n")
}

func writeTimeline(b *strings.Builder, t temporal.Analytics) {
	b.WriteString("## Timeline\n")
	if t.MinDate == nil || t.MaxDate == nil {
		fmt.Fprintf(b, "- %s\n\n", t.Note)
		return
	}

	fmt.Fprintf(b, "- Dated posts: %d of %d\n", t.DatedCount(), len(t.Posts))
	fmt.Fprintf(b, "- First: %s\n", t.MinDate.Format("2006-01-02"))
	fmt.Fprintf(b, "- Last: %s\n", t.MaxDate.Format("2006-01-02"))
	if t.SpanDays != nil {
		fmt.Fprintf(b, "- Span: %d days\n", *t.SpanDays)
	}
	fmt.Fprintf(b, "- Eras: old %d, middle %d, recent %d\n\n",
		t.EraGuess[temporal.EraOld], t.EraGuess[temporal.EraMiddle], t.EraGuess[temporal.EraRecent])

	years := make([]string, 0, len(t.PostsPerYear))
	for y := range t.PostsPerYear {
		years = append(years, y)
	}
	sort.Strings(years)

	b.WriteString("| Year | Posts | Avg likes | Avg comments |\n|---|---|---|---|\n")
	for _, y := range years {
		fmt.Fprintf(b, "| %s | %d | %s | %s |\n", y, t.PostsPerYear[y],
			optionalFloat(t.AvgLikesPerYear, y), optionalFloat(t.AvgCommentsPerYear, y))
	}
	b.WriteString("\n")
}

func optionalFloat(m map[string]float64, key string) string {
	if v, ok := m[key]; ok {
		return fmt.Sprintf("%g", v)
	}
	return "-"
}

func writeSamples(b *strings.Builder, posts []post.Dated) {
	b.WriteString("## Sample posts\n")
	if len(posts) == 0 {
		b.WriteString("- (no posts available)\n\n")
		return
	}

	for i, p := range posts {
		if i == markdownSamplePosts {
			break
		}
		fmt.Fprintf(b, "### Post %d\n", i+1)
		if p.PublishedAt != nil {
			fmt.Fprintf(b, "- Published: %s\n", p.PublishedAt.Format("2006-01-02"))
		}
		fmt.Fprintf(b, "- Caption: %s\n", preview(p.Caption))
		fmt.Fprintf(b, "- Language: %s\n", p.Language)
		if len(p.CTAs) > 0 {
			fmt.Fprintf(b, "- CTAs: %s\n", strings.Join(p.CTAs, ", "))
		}
		if len(p.Topics) > 0 {
			fmt.Fprintf(b, "- Topics: %s\n", strings.Join(p.Topics, ", "))
		}
		if len(p.Hashtags) > 0 {
			fmt.Fprintf(b, "- Hashtags: %s\n", strings.Join(p.Hashtags, " "))
		}
		b.WriteString("\n")
	}
}

// preview flattens a caption onto one line and shortens it.
func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "(empty)"
	}
	runes := []rune(s)
	if len(runes) > captionPreviewRunes {
		return string(runes[:captionPreviewRunes]) + "..."
	}
	return s
}

func writePlan(b *strings.Builder, plan []Action) {
	b.WriteString("## Action plan\n")
	for _, a := range plan {
		fmt.Fprintf(b, "- **%s**: %s\n", a.Priority, a.Title)
		fmt.Fprintf(b, "  - Why: %s\n", a.Why)
		fmt.Fprintf(b, "  - How: %s\n", a.How)
		fmt.Fprintf(b, "  - KPI: %s\n", a.KPI)
	}
	b.WriteString("\n")
}
