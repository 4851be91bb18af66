package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a report ID does not exist.
var ErrNotFound = errors.New("report not found")

// ReportSummary is the indexed metadata of a stored report.
type ReportSummary struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	Platform    string    `json:"platform"`
	GeneratedAt time.Time `json:"generated_at"`
	Score       int       `json:"health_score"`
	Grade       string    `json:"health_grade"`
	PostCount   int       `json:"post_count"`
	DatedCount  int       `json:"dated_count"`
}

// ListQuery defines filters for listing stored reports.
type ListQuery struct {
	Handle   string
	Platform string
	Since    time.Time
	Until    time.Time
	Limit    int
	Offset   int
}

// PostHit is a stored post caption matched by full-text search.
type PostHit struct {
	ReportID    string     `json:"report_id"`
	Handle      string     `json:"handle"`
	Position    int        `json:"position"`
	Caption     string     `json:"caption"`
	Language    string     `json:"language"`
	PublishedAt *time.Time `json:"published_at"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// Stats holds aggregate statistics about the report database.
type Stats struct {
	TotalReports int64
	TotalPosts   int64
	DatedPosts   int64
	AverageScore float64
	OldestReport time.Time
	NewestReport time.Time
	TopHandles   []HandleCount
}

// HandleCount pairs an account handle with its number of stored reports.
type HandleCount struct {
	Handle string `json:"handle"`
	Count  int64  `json:"count"`
}
