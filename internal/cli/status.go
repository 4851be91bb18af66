package cli

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/runnerr0/pulse/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string                `json:"version"`
	DatabasePath      string                `json:"database_path"`
	DatabaseSizeBytes int64                 `json:"database_size_bytes"`
	SchemaVersion     int                   `json:"schema_version"`
	TotalReports      int64                 `json:"total_reports"`
	TotalPosts        int64                 `json:"total_posts"`
	DatedPosts        int64                 `json:"dated_posts"`
	AverageScore      float64               `json:"average_score"`
	OldestReport      string                `json:"oldest_report,omitempty"`
	NewestReport      string                `json:"newest_report,omitempty"`
	RetentionDays     int                   `json:"retention_days"`
	TopHandles        []storage.HandleCount `json:"top_handles"`
	ServerAddr        string                `json:"server_addr"`
	ServerRunning     bool                  `json:"server_running"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return withStore(c.globals, func(ctx context.Context, rt *runtime, store *storage.SQLiteStore, db *sql.DB) error {
		return c.executeWithStore(ctx, rt, store, db)
	})
}

// executeWithStore runs status against a provided store and db (for testing).
func (c *StatusCommand) executeWithStore(ctx context.Context, rt *runtime, store storage.Store, db *sql.DB) error {
	stats, err := store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	dbPath, err := rt.cfg.Storage.DBPath()
	if err != nil {
		return err
	}
	dbSize := getDatabaseSize(ctx, db, dbPath)

	schema := 0
	applied, err := storage.NewMigrationRunner(db, rt.cfg.Storage.SQLiteJournalMode).Applied(ctx)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if len(applied) > 0 {
		schema = applied[len(applied)-1].Version
	}

	probe := c.probe
	if probe == nil {
		probe = checkServer
	}
	addr := rt.cfg.Server.Addr()

	out := statusJSON{
		Version:           c.version,
		DatabasePath:      dbPath,
		DatabaseSizeBytes: dbSize,
		SchemaVersion:     schema,
		TotalReports:      stats.TotalReports,
		TotalPosts:        stats.TotalPosts,
		DatedPosts:        stats.DatedPosts,
		AverageScore:      stats.AverageScore,
		RetentionDays:     rt.cfg.Retention.Days,
		TopHandles:        stats.TopHandles,
		ServerAddr:        addr,
		ServerRunning:     probe(addr),
	}
	if out.TopHandles == nil {
		out.TopHandles = []storage.HandleCount{}
	}
	if stats.TotalReports > 0 {
		out.OldestReport = stats.OldestReport.UTC().Format(time.RFC3339)
		out.NewestReport = stats.NewestReport.UTC().Format(time.RFC3339)
	}

	if c.globals != nil && c.globals.JSON {
		return writeJSON(os.Stdout, out)
	}
	printStatusHuman(out, stats)
	return nil
}

func printStatusHuman(out statusJSON, stats *storage.Stats) {
	fmt.Println("Pulse Status")
	fmt.Println("============")
	fmt.Printf("Version:       %s\n", out.Version)
	fmt.Printf("Database:      %s (%s)\n", out.DatabasePath, formatBytes(out.DatabaseSizeBytes))
	fmt.Printf("Schema:        v%d\n", out.SchemaVersion)
	fmt.Printf("Reports:       %s\n", formatNumber(out.TotalReports))

	if out.TotalPosts > 0 {
		pct := float64(out.DatedPosts) / float64(out.TotalPosts) * 100
		fmt.Printf("Posts:         %s (%.1f%% dated)\n", formatNumber(out.TotalPosts), pct)
	} else {
		fmt.Printf("Posts:         %s\n", formatNumber(out.TotalPosts))
	}

	if out.TotalReports > 0 {
		fmt.Printf("Avg score:     %.1f\n", out.AverageScore)
		fmt.Printf("Oldest:        %s\n", stats.OldestReport.UTC().Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", stats.NewestReport.UTC().Format("2006-01-02"))
	}

	if out.RetentionDays > 0 {
		fmt.Printf("Retention:     %d days\n", out.RetentionDays)
	} else {
		fmt.Println("Retention:     disabled")
	}

	if len(out.TopHandles) > 0 {
		fmt.Println()
		fmt.Println("Top Handles:")
		for _, h := range out.TopHandles {
			fmt.Printf("  %-20s %s\n", h.Handle, formatNumber(h.Count))
		}
	}

	fmt.Println()
	if out.ServerRunning {
		fmt.Printf("Server:        running on %s\n", out.ServerAddr)
	} else {
		fmt.Println("Server:        not running")
	}
}

// getDatabaseSize returns the database file size in bytes.
// For on-disk databases, it uses os.Stat. For in-memory databases,
// it queries page_count * page_size.
func getDatabaseSize(ctx context.Context, db *sql.DB, dbPath string) int64 {
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}

	var pageCount, pageSize int64
	if err := db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// checkServer reports whether a pulse server answers /api/health at addr
// within one second.
func checkServer(addr string) bool {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get("http://" + addr + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
