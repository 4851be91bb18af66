package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runnerr0/pulse/internal/storage"
)

const purgeConfirmation = "PURGE"

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	return withStore(c.globals, func(ctx context.Context, rt *runtime, store *storage.SQLiteStore, _ *sql.DB) error {
		return c.executeWithStore(ctx, rt, store)
	})
}

// executeWithStore confirms (unless --force) and purges the provided store.
func (c *PurgeCommand) executeWithStore(ctx context.Context, rt *runtime, store storage.Store) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}
	if !c.Force {
		if err := c.confirm(); err != nil {
			return err
		}
	}

	if err := store.PurgeAll(ctx); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}
	rt.logger.Warn("Purged all stored reports")

	if c.globals != nil && c.globals.JSON {
		return writeJSON(os.Stdout, map[string]interface{}{
			"purged":  true,
			"message": "all reports deleted",
		})
	}

	fmt.Println("Purged all data. Pulse is empty.")
	return nil
}

// confirm asks the user to type the confirmation word.
func (c *PurgeCommand) confirm() error {
	fmt.Println("⚠ WARNING: This will permanently delete ALL stored pulse data.")
	fmt.Println("  - All saved reports")
	fmt.Println("  - All indexed captions")
	fmt.Println()
	fmt.Println("This action cannot be undone.")
	fmt.Println()
	fmt.Printf("Type %q to confirm: ", purgeConfirmation)

	var in io.Reader = os.Stdin
	if c.stdin != nil {
		in = c.stdin
	}
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return fmt.Errorf("aborted: no input received")
	}
	if strings.TrimSpace(scanner.Text()) != purgeConfirmation {
		return fmt.Errorf("aborted: confirmation text did not match")
	}
	return nil
}
