// Package report runs the analysis engines over a batch of posts and
// assembles the result, with a prioritized action plan, into a single
// document that can be stored, served or rendered as Markdown.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/runnerr0/pulse/internal/caption"
	"github.com/runnerr0/pulse/internal/health"
	"github.com/runnerr0/pulse/internal/post"
	"github.com/runnerr0/pulse/internal/tally"
	"github.com/runnerr0/pulse/internal/temporal"
)

// Warning messages attached to a report.
const (
	WarnNoPosts   = "no posts supplied"
	warnTruncated = "input truncated to the first %d of %d posts"
)

// Meta describes one analysis run.
type Meta struct {
	Platform       string    `json:"platform"`
	Handle         string    `json:"handle"`
	GeneratedAt    time.Time `json:"generated_at"`
	RunTimeSeconds float64   `json:"run_time_seconds"`
	PostCount      int       `json:"post_count"`
}

// Report is the full output of one analysis run.
type Report struct {
	ID         string             `json:"id"`
	Meta       Meta               `json:"meta"`
	Analytics  caption.Analytics  `json:"analytics"`
	Temporal   temporal.Analytics `json:"temporal"`
	Health     health.Assessment  `json:"health"`
	ActionPlan []Action           `json:"action_plan"`
	Warnings   []string           `json:"warnings"`
}

// Builder assembles reports. The zero value is usable: it reads the wall
// clock, assigns random UUIDs and never truncates input.
type Builder struct {
	// MaxPosts caps how many posts are analyzed; zero or less means no cap.
	MaxPosts int

	// Now is read once per report; every age in the report is relative to it.
	Now func() time.Time

	// NewID assigns report IDs.
	NewID func() string
}

// NewBuilder creates a Builder with the given post cap.
func NewBuilder(maxPosts int) *Builder {
	return &Builder{MaxPosts: maxPosts}
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now().UTC()
	}
	return time.Now().UTC()
}

func (b *Builder) newID() string {
	if b.NewID != nil {
		return b.NewID()
	}
	return uuid.NewString()
}

// Build analyzes posts and returns the assembled report. posts is not
// modified.
func (b *Builder) Build(handle, platform string, posts []post.Post) *Report {
	started := time.Now()
	now := b.now()

	var warnings []string
	if b.MaxPosts > 0 && len(posts) > b.MaxPosts {
		warnings = append(warnings, fmt.Sprintf(warnTruncated, b.MaxPosts, len(posts)))
		posts = posts[:b.MaxPosts]
	}
	if len(posts) == 0 {
		warnings = append(warnings, WarnNoPosts)
	}

	captions := caption.Analyze(posts)
	dates := temporal.Analyze(captions.Posts, now)
	assessment := health.Score(captions, &dates)

	if dates.Note != "" {
		warnings = append(warnings, dates.Note)
	}
	if warnings == nil {
		warnings = []string{}
	}

	return &Report{
		ID: b.newID(),
		Meta: Meta{
			Platform:       platform,
			Handle:         handle,
			GeneratedAt:    now,
			RunTimeSeconds: tally.Round(time.Since(started).Seconds(), 2),
			PostCount:      len(posts),
		},
		Analytics:  captions,
		Temporal:   dates,
		Health:     assessment,
		ActionPlan: Plan(assessment),
		Warnings:   warnings,
	}
}
