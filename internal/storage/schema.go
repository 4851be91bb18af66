package storage

import (
	"context"
	"database/sql"
)

// migrateV001 creates the report tables and indexes. Every statement uses
// IF NOT EXISTS for idempotency.
func migrateV001(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE TABLE IF NOT EXISTS reports (
			id           TEXT PRIMARY KEY,
			handle       TEXT NOT NULL DEFAULT '',
			platform     TEXT NOT NULL DEFAULT '',
			generated_at DATETIME NOT NULL,
			score        INTEGER NOT NULL DEFAULT 0,
			grade        TEXT NOT NULL DEFAULT '',
			post_count   INTEGER NOT NULL DEFAULT 0,
			dated_count  INTEGER NOT NULL DEFAULT 0,
			body         TEXT NOT NULL,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS report_posts (
			report_id    TEXT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
			position     INTEGER NOT NULL,
			caption      TEXT NOT NULL DEFAULT '',
			language     TEXT NOT NULL DEFAULT '',
			published_at DATETIME,
			PRIMARY KEY (report_id, position)
		)`,

		`CREATE TABLE IF NOT EXISTS audit_log (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			action    TEXT NOT NULL,
			detail    TEXT NOT NULL DEFAULT '',
			report_id TEXT,
			ts        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_reports_handle       ON reports(handle)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON reports(generated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_handle_ts    ON reports(handle, generated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_report_posts_date    ON report_posts(published_at)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_ts         ON audit_log(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_action     ON audit_log(action)`,
	)
}

// migrateV002 adds full-text search over stored captions. FTS rows share
// the rowid of their report_posts row as docid. FTS4 ships in the default
// go-sqlite3 build; FTS5 needs a build tag.
func migrateV002(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE VIRTUAL TABLE IF NOT EXISTS report_posts_fts USING fts4(
			caption,
			tokenize=unicode61
		)`,
	)
}

func execAll(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
