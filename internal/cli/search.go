package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/pulse/internal/storage"
)

// searchJSON is the JSON output structure for the search command.
type searchJSON struct {
	Query   string            `json:"query"`
	Results []storage.PostHit `json:"results"`
	Count   int               `json:"count"`
}

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	return withStore(c.globals, func(ctx context.Context, _ *runtime, store *storage.SQLiteStore, _ *sql.DB) error {
		return c.executeWithStore(ctx, store, query)
	})
}

// executeWithStore runs the search against a provided store (used by tests).
func (c *SearchCommand) executeWithStore(ctx context.Context, store storage.Store, query string) error {
	hits, err := store.SearchPosts(ctx, query, c.Limit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return writeJSON(os.Stdout, searchJSON{Query: query, Results: hits, Count: len(hits)})
	}

	if len(hits) == 0 {
		fmt.Printf("No captions match %q.\n", query)
		return nil
	}

	for i, h := range hits {
		published := "undated"
		if h.PublishedAt != nil {
			published = h.PublishedAt.UTC().Format("2006-01-02")
		}
		fmt.Printf("%d. @%s  post %d  %s  [%s]\n", i+1, h.Handle, h.Position+1, published, h.Language)
		fmt.Printf("   %s\n", oneLine(h.Caption, 120))
		fmt.Printf("   report %s (%s)\n", h.ReportID, h.GeneratedAt.UTC().Format("2006-01-02"))
	}
	fmt.Printf("\n%d result(s)\n", len(hits))
	return nil
}
