package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/pulse/internal/storage"
)

func seedPruneReports(t *testing.T, store storage.Store) {
	t.Helper()
	seedReport(t, store, "rep-old", "taqueria", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "Order now!")
	seedReport(t, store, "rep-new", "taqueria", time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC), "Tacos today")
}

func remainingIDs(t *testing.T, store storage.Store) []string {
	t.Helper()
	summaries, err := store.ListReports(context.Background(), storage.ListQuery{})
	require.NoError(t, err)
	ids := make([]string, len(summaries))
	for i, s := range summaries {
		ids[i] = s.ID
	}
	return ids
}

func newPruneCommand(olderThan string, dryRun bool) *PruneCommand {
	return &PruneCommand{
		OlderThan: olderThan,
		DryRun:    dryRun,
		globals:   &GlobalFlags{},
		clock:     func() time.Time { return testNow },
	}
}

func TestPrune_DefaultRetention(t *testing.T) {
	store, _ := openTestStore(t)
	seedPruneReports(t, store)
	rt, hook := newHookedRuntime(t)

	var err error
	out := captureOutput(t, func() {
		err = newPruneCommand("", false).executeWithStore(context.Background(), rt, store)
	})

	require.NoError(t, err)
	assert.Equal(t, "Pruned 1 report(s) older than 90 days (before 2026-07-19 12:00).\n", out)
	assert.Equal(t, []string{"rep-new"}, remainingIDs(t, store))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Pruned expired reports", entry.Message)
	assert.Equal(t, int64(1), entry.Data["reports"])
}

func TestPrune_DryRunKeepsData(t *testing.T) {
	store, _ := openTestStore(t)
	seedPruneReports(t, store)

	var err error
	out := captureOutput(t, func() {
		err = newPruneCommand("3d", true).executeWithStore(context.Background(), newTestRuntime(t), store)
	})

	require.NoError(t, err)
	assert.Equal(t, "Would prune 2 report(s) older than 3 days (before 2026-10-14 12:00).\n", out)
	assert.Len(t, remainingIDs(t, store), 2)
}

func TestPrune_JSON(t *testing.T) {
	store, _ := openTestStore(t)
	seedPruneReports(t, store)
	cmd := newPruneCommand("2w", false)
	cmd.globals.JSON = true

	var err error
	out := captureOutput(t, func() {
		err = cmd.executeWithStore(context.Background(), newTestRuntime(t), store)
	})
	require.NoError(t, err)

	var got pruneJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.DryRun)
	assert.Equal(t, "14 days", got.OlderThan)
	assert.Equal(t, "2026-10-03T12:00:00Z", got.Cutoff)
	assert.Equal(t, int64(1), got.Count)
}

func TestPrune_RetentionDisabled(t *testing.T) {
	store, _ := openTestStore(t)
	seedPruneReports(t, store)
	rt := newTestRuntime(t)
	rt.cfg.Retention.Days = 0

	var err error
	out := captureOutput(t, func() {
		err = newPruneCommand("", false).executeWithStore(context.Background(), rt, store)
	})

	require.NoError(t, err)
	assert.Equal(t, "Retention is disabled; nothing to prune.\n", out)
	assert.Len(t, remainingIDs(t, store), 2)
}

func TestPrune_InvalidOlderThan(t *testing.T) {
	store, _ := openTestStore(t)

	for _, v := range []string{"soon", "0d", "-3d"} {
		err := newPruneCommand(v, false).executeWithStore(context.Background(), newTestRuntime(t), store)
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "--older-than")
	}
}
