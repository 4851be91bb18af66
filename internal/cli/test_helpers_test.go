package cli

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/pulse/internal/config"
	"github.com/runnerr0/pulse/internal/logging"
	"github.com/runnerr0/pulse/internal/post"
	"github.com/runnerr0/pulse/internal/report"
	"github.com/runnerr0/pulse/internal/storage"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

const postsDoc = `{"posts": [
	{"caption": "Order now! #tacos #tacos", "og_description": "1,234 likes, 56 comments - taqueria on October 10, 2026"},
	{"caption": "Hoy tenemos carne asada para llevar #tacos"}
]}`

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// newTestRuntime returns default config with storage under a temp dir and
// a silent logger.
func newTestRuntime(t *testing.T) *runtime {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.Path = t.TempDir()
	return &runtime{cfg: cfg, logger: logging.Discard()}
}

// newHookedRuntime is newTestRuntime with a logger whose entries are
// recorded by the returned hook.
func newHookedRuntime(t *testing.T) (*runtime, *test.Hook) {
	t.Helper()
	rt := newTestRuntime(t)
	logger, hook := test.NewNullLogger()
	rt.logger = logger
	return rt, hook
}

// openTestStore creates a migrated in-memory store for testing.
func openTestStore(t *testing.T) (*storage.SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.MemoryPath, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, db
}

// seedReport builds and saves a report with a fixed ID and clock.
func seedReport(t *testing.T, store storage.Store, id, handle string, generatedAt time.Time, captions ...string) *report.Report {
	t.Helper()
	posts := make([]post.Post, len(captions))
	for i, c := range captions {
		posts[i] = post.Post{Caption: c}
	}
	b := report.NewBuilder(0)
	b.Now = func() time.Time { return generatedAt }
	b.NewID = func() string { return id }
	rep := b.Build(handle, "instagram", posts)
	require.NoError(t, store.SaveReport(context.Background(), rep))
	return rep
}
