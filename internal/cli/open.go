package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/pulse/internal/config"
	"github.com/runnerr0/pulse/internal/report"
	"github.com/runnerr0/pulse/internal/storage"
)

// Execute implements the go-flags Commander interface for OpenCommand.
func (c *OpenCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for open command")
	}

	return withStore(c.globals, func(ctx context.Context, _ *runtime, store *storage.SQLiteStore, _ *sql.DB) error {
		return c.executeWithStore(ctx, store)
	})
}

// executeWithStore prints one stored report (used directly by tests).
func (c *OpenCommand) executeWithStore(ctx context.Context, store storage.Store) error {
	format := strings.ToLower(c.Format)
	if c.globals != nil && c.globals.JSON {
		format = config.FormatJSON
	}
	if format != config.FormatJSON && format != config.FormatMarkdown {
		return fmt.Errorf("invalid --format %q (use json or md)", c.Format)
	}

	rep, err := store.GetReport(ctx, c.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("report not found: %s", c.ID)
		}
		return err
	}

	if format == config.FormatJSON {
		return writeJSON(os.Stdout, rep)
	}
	fmt.Print(report.RenderMarkdown(rep))
	return nil
}
