package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/runnerr0/pulse/internal/config"
	"github.com/runnerr0/pulse/internal/logging"
	"github.com/runnerr0/pulse/internal/storage"
)

// Seams for tests.
var (
	envFiles  = config.EnvFiles
	newLogger = logging.New
)

// runtime is the resolved configuration and logger for one command run.
type runtime struct {
	cfg    *config.Config
	logger logging.Logger
}

// loadRuntime reads the config file named by --config (or the default one,
// created on first use), overlays .env files and PULSE_* variables, and
// builds the logger.
func loadRuntime(g *GlobalFlags) (*runtime, error) {
	var cfg *config.Config
	var err error
	if g != nil && g.Config != "" {
		cfg, err = config.Load(g.Config)
	} else {
		cfg, err = config.LoadOrCreate()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	verbose := g != nil && g.Verbose

	// The file config drives logging until the environment has been applied,
	// so dotenv failures are reported.
	boot := newLogger(loggingConfig(cfg, verbose))
	config.LoadEnv(boot, envFiles...)
	config.ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger := newLogger(cfg.Logging)

	return &runtime{cfg: cfg, logger: logger}, nil
}

func loggingConfig(cfg *config.Config, verbose bool) config.LoggingConfig {
	lc := cfg.Logging
	if verbose {
		lc.Level = "debug"
	}
	return lc
}

// openStore opens the configured database, runs migrations, and returns a
// ready-to-use store and the underlying *sql.DB.
func openStore(ctx context.Context, cfg *config.Config) (*storage.SQLiteStore, *sql.DB, error) {
	dbPath, err := cfg.Storage.DBPath()
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := storage.Open(ctx, dbPath, cfg.Storage.SQLiteJournalMode)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	return store, db, nil
}

// withStore loads the runtime, opens the store and hands both to fn.
func withStore(g *GlobalFlags, fn func(ctx context.Context, rt *runtime, store *storage.SQLiteStore, db *sql.DB) error) error {
	rt, err := loadRuntime(g)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, db, err := openStore(ctx, rt.cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	defer store.Close()

	return fn(ctx, rt, store, db)
}

// parseDuration parses a human-friendly duration string like "30d", "7d", "24h", "2w".
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid duration: empty string")
	}

	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]

	n, err := strconv.Atoi(numStr)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	switch suffix {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	default:
		return 0, fmt.Errorf("invalid duration: %q (use d, h, w, or m suffix)", s)
	}
}

// formatDurationHuman formats a duration into a human-readable string like "30 days".
func formatDurationHuman(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	hours := int(d.Hours())
	if hours > 0 {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return d.String()
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		result.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// oneLine collapses whitespace and shortens s to max runes.
func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
