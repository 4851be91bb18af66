package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/pulse/internal/storage"
)

// pruneJSON is the JSON output structure for the prune command.
type pruneJSON struct {
	DryRun    bool   `json:"dry_run"`
	OlderThan string `json:"older_than"`
	Cutoff    string `json:"cutoff"`
	Count     int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for PruneCommand.
func (c *PruneCommand) Execute(args []string) error {
	return withStore(c.globals, func(ctx context.Context, rt *runtime, store *storage.SQLiteStore, _ *sql.DB) error {
		return c.executeWithStore(ctx, rt, store)
	})
}

// executeWithStore prunes against a provided store (used by tests).
func (c *PruneCommand) executeWithStore(ctx context.Context, rt *runtime, store storage.Store) error {
	age, err := c.retention(rt)
	if err != nil {
		return err
	}
	if age == 0 {
		fmt.Println("Retention is disabled; nothing to prune.")
		return nil
	}

	now := time.Now()
	if c.clock != nil {
		now = c.clock()
	}
	cutoff := now.Add(-age).UTC()

	var n int64
	if c.DryRun {
		n, err = store.CountExpired(ctx, cutoff)
	} else {
		n, err = store.PruneExpired(ctx, cutoff)
	}
	if err != nil {
		return fmt.Errorf("prune: %w", err)
	}

	if !c.DryRun && n > 0 {
		rt.logger.WithField("reports", n).WithField("cutoff", cutoff.Format(time.RFC3339)).Info("Pruned expired reports")
	}

	if c.globals != nil && c.globals.JSON {
		return writeJSON(os.Stdout, pruneJSON{
			DryRun:    c.DryRun,
			OlderThan: formatDurationHuman(age),
			Cutoff:    cutoff.Format(time.RFC3339),
			Count:     n,
		})
	}

	verb := "Pruned"
	if c.DryRun {
		verb = "Would prune"
	}
	fmt.Printf("%s %s report(s) older than %s (before %s).\n",
		verb, formatNumber(n), formatDurationHuman(age), cutoff.Format("2006-01-02 15:04"))
	return nil
}

// retention resolves --older-than, falling back to retention.days.
func (c *PruneCommand) retention(rt *runtime) (time.Duration, error) {
	if c.OlderThan != "" {
		d, err := parseDuration(c.OlderThan)
		if err != nil {
			return 0, fmt.Errorf("--older-than: %w", err)
		}
		if d == 0 {
			return 0, fmt.Errorf("--older-than must be positive")
		}
		return d, nil
	}
	return time.Duration(rt.cfg.Retention.Days) * 24 * time.Hour, nil
}
