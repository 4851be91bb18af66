package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/pulse/internal/storage"
)

// historyJSON is the JSON output structure for the history command.
type historyJSON struct {
	Reports []storage.ReportSummary `json:"reports"`
	Count   int                     `json:"count"`
}

// Execute implements the go-flags Commander interface for HistoryCommand.
func (c *HistoryCommand) Execute(args []string) error {
	return withStore(c.globals, func(ctx context.Context, _ *runtime, store *storage.SQLiteStore, _ *sql.DB) error {
		return c.executeWithStore(ctx, store, time.Now())
	})
}

// executeWithStore lists reports; now anchors --since.
func (c *HistoryCommand) executeWithStore(ctx context.Context, store storage.Store, now time.Time) error {
	q := storage.ListQuery{
		Handle:   c.Handle,
		Platform: c.Platform,
		Limit:    c.Limit,
		Offset:   c.Offset,
	}
	if c.Since != "" {
		d, err := parseDuration(c.Since)
		if err != nil {
			return fmt.Errorf("--since: %w", err)
		}
		q.Since = now.Add(-d)
	}

	summaries, err := store.ListReports(ctx, q)
	if err != nil {
		return fmt.Errorf("listing reports: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return writeJSON(os.Stdout, historyJSON{Reports: summaries, Count: len(summaries)})
	}

	if len(summaries) == 0 {
		fmt.Println("No reports found.")
		return nil
	}

	fmt.Printf("%-36s  %-16s  %-20s  %-10s  %5s  %5s\n", "ID", "GENERATED", "HANDLE", "PLATFORM", "SCORE", "POSTS")
	for _, s := range summaries {
		fmt.Printf("%-36s  %-16s  %-20s  %-10s  %3d %-2s %5d\n",
			s.ID,
			s.GeneratedAt.UTC().Format("2006-01-02 15:04"),
			oneLine(s.Handle, 20),
			s.Platform,
			s.Score,
			s.Grade,
			s.PostCount,
		)
	}
	fmt.Printf("\n%d report(s)\n", len(summaries))
	return nil
}
