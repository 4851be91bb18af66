package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/pulse/internal/report"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store defines the interface for report persistence.
type Store interface {
	SaveReport(ctx context.Context, r *report.Report) error
	GetReport(ctx context.Context, id string) (*report.Report, error)
	ListReports(ctx context.Context, q ListQuery) ([]ReportSummary, error)
	SearchPosts(ctx context.Context, text string, limit int) ([]PostHit, error)
	DeleteReport(ctx context.Context, id string) error
	CountExpired(ctx context.Context, olderThan time.Time) (int64, error)
	PruneExpired(ctx context.Context, olderThan time.Time) (int64, error)
	PurgeAll(ctx context.Context) error
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// Open opens the SQLite database at path and applies migrations. An
// in-memory database is pinned to one connection so that every query sees
// the same data.
func Open(ctx context.Context, path, journalMode string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := NewMigrationRunner(db, journalMode).Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	insertReport *sql.Stmt
	insertPost   *sql.Stmt
	insertFTS    *sql.Stmt
	insertAudit  *sql.Stmt
	getReport    *sql.Stmt
	deleteReport *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		s.Close()
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertReport, err = s.db.Prepare(`
		INSERT INTO reports (id, handle, platform, generated_at, score, grade, post_count, dated_count, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.insertPost, err = s.db.Prepare(`
		INSERT INTO report_posts (report_id, position, caption, language, published_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.insertFTS, err = s.db.Prepare(`INSERT INTO report_posts_fts (docid, caption) VALUES (?, ?)`)
	if err != nil {
		return err
	}

	s.insertAudit, err = s.db.Prepare(`INSERT INTO audit_log (action, detail, report_id) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}

	s.getReport, err = s.db.Prepare(`SELECT body FROM reports WHERE id = ?`)
	if err != nil {
		return err
	}

	s.deleteReport, err = s.db.Prepare(`DELETE FROM reports WHERE id = ?`)
	if err != nil {
		return err
	}

	return nil
}

// ftsQuery converts a user search string into an FTS4 query. Each word is
// stripped to letters and digits and becomes a prefix token, joined with OR.
func ftsQuery(input string) string {
	var parts []string
	for _, w := range strings.Fields(input) {
		w = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, w)
		if w != "" {
			parts = append(parts, w+"*")
		}
	}
	return strings.Join(parts, " OR ")
}

// formatTimestamp is the single timestamp format written to the database;
// it sorts lexically in time order.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// SaveReport stores a report, its per-post rows and their search index in
// a single transaction.
func (s *SQLiteStore) SaveReport(ctx context.Context, r *report.Report) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("save report: missing report ID")
	}

	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.StmtContext(ctx, s.insertReport).ExecContext(ctx,
		r.ID, r.Meta.Handle, r.Meta.Platform, formatTimestamp(r.Meta.GeneratedAt),
		r.Health.Score, r.Health.Grade, r.Meta.PostCount, r.Temporal.DatedCount(), string(body),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	insertPost := tx.StmtContext(ctx, s.insertPost)
	insertFTS := tx.StmtContext(ctx, s.insertFTS)

	for i, p := range r.Temporal.Posts {
		var published sql.NullString
		if p.PublishedAt != nil {
			published = sql.NullString{String: formatTimestamp(*p.PublishedAt), Valid: true}
		}

		res, err := insertPost.ExecContext(ctx, r.ID, i, p.Caption, string(p.Language), published)
		if err != nil {
			return fmt.Errorf("insert post %d: %w", i, err)
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("post %d rowid: %w", i, err)
		}

		if _, err := insertFTS.ExecContext(ctx, rowID, p.Caption); err != nil {
			return fmt.Errorf("insert FTS: %w", err)
		}
	}

	if _, err := tx.StmtContext(ctx, s.insertAudit).ExecContext(ctx, "save", r.Meta.Handle, r.ID); err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	return tx.Commit()
}

// GetReport loads a stored report by ID.
func (s *SQLiteStore) GetReport(ctx context.Context, id string) (*report.Report, error) {
	var body string
	err := s.getReport.QueryRowContext(ctx, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get report: %w", err)
	}

	var r report.Report
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", id, err)
	}
	return &r, nil
}

// ListReports returns report summaries, newest first.
func (s *SQLiteStore) ListReports(ctx context.Context, q ListQuery) ([]ReportSummary, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	var clauses []string
	var args []interface{}

	if q.Handle != "" {
		clauses = append(clauses, "handle = ?")
		args = append(args, q.Handle)
	}
	if q.Platform != "" {
		clauses = append(clauses, "platform = ?")
		args = append(args, q.Platform)
	}
	if !q.Since.IsZero() {
		clauses = append(clauses, "generated_at >= ?")
		args = append(args, formatTimestamp(q.Since))
	}
	if !q.Until.IsZero() {
		clauses = append(clauses, "generated_at <= ?")
		args = append(args, formatTimestamp(q.Until))
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	query := `
		SELECT id, handle, platform, generated_at, score, grade, post_count, dated_count
		FROM reports` + where + " ORDER BY generated_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	summaries := []ReportSummary{}
	for rows.Next() {
		var r ReportSummary
		var ts string
		if err := rows.Scan(&r.ID, &r.Handle, &r.Platform, &ts, &r.Score, &r.Grade, &r.PostCount, &r.DatedCount); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		r.GeneratedAt, _ = parseTimestamp(ts)
		summaries = append(summaries, r)
	}

	return summaries, rows.Err()
}

// SearchPosts finds stored captions matching any word of text, newest
// report first.
func (s *SQLiteStore) SearchPosts(ctx context.Context, text string, limit int) ([]PostHit, error) {
	match := ftsQuery(text)
	if match == "" {
		return []PostHit{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.report_id, r.handle, p.position, p.caption, p.language, p.published_at, r.generated_at
		FROM report_posts_fts f
		JOIN report_posts p ON p.rowid = f.docid
		JOIN reports r ON r.id = p.report_id
		WHERE report_posts_fts MATCH ?
		ORDER BY r.generated_at DESC, p.report_id, p.position
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	defer rows.Close()

	hits := []PostHit{}
	for rows.Next() {
		var h PostHit
		var published sql.NullString
		var generated string
		if err := rows.Scan(&h.ReportID, &h.Handle, &h.Position, &h.Caption, &h.Language, &published, &generated); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		if published.Valid {
			if ts, err := parseTimestamp(published.String); err == nil {
				h.PublishedAt = &ts
			}
		}
		h.GeneratedAt, _ = parseTimestamp(generated)
		hits = append(hits, h)
	}

	return hits, rows.Err()
}

// DeleteReport removes a report by ID. Post rows are cascade-deleted by the
// schema; the search index is cleaned explicitly.
func (s *SQLiteStore) DeleteReport(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM report_posts_fts WHERE docid IN (SELECT rowid FROM report_posts WHERE report_id = ?)", id,
	); err != nil {
		return fmt.Errorf("delete FTS entries: %w", err)
	}

	res, err := tx.StmtContext(ctx, s.deleteReport).ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}

	if _, err := tx.StmtContext(ctx, s.insertAudit).ExecContext(ctx, "delete", "", id); err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	return tx.Commit()
}

// CountExpired returns how many reports were generated before olderThan.
func (s *SQLiteStore) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reports WHERE generated_at < ?", formatTimestamp(olderThan),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count expired: %w", err)
	}
	return n, nil
}

// PruneExpired deletes reports generated before olderThan.
func (s *SQLiteStore) PruneExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	cutoff := formatTimestamp(olderThan)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Clean FTS entries first
	_, err = tx.ExecContext(ctx, `
		DELETE FROM report_posts_fts WHERE docid IN (
			SELECT p.rowid FROM report_posts p
			JOIN reports r ON r.id = p.report_id
			WHERE r.generated_at < ?
		)`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("prune FTS: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM reports WHERE generated_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune reports: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if _, err := tx.StmtContext(ctx, s.insertAudit).ExecContext(ctx,
		"prune", fmt.Sprintf("%d reports before %s", n, cutoff), nil,
	); err != nil {
		return 0, fmt.Errorf("audit: %w", err)
	}

	return n, tx.Commit()
}

// PurgeAll deletes every stored report and its posts.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmts := []string{
		"DELETE FROM report_posts_fts",
		"DELETE FROM report_posts",
		"DELETE FROM reports",
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("purge (%s): %w", stmt, err)
		}
	}

	if _, err := tx.StmtContext(ctx, s.insertAudit).ExecContext(ctx, "purge", "all reports", nil); err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	return tx.Commit()
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var avg sql.NullFloat64
	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), AVG(score), MIN(generated_at), MAX(generated_at) FROM reports",
	).Scan(&stats.TotalReports, &avg, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	if avg.Valid {
		stats.AverageScore = avg.Float64
	}
	if oldest.Valid {
		stats.OldestReport, _ = parseTimestamp(oldest.String)
	}
	if newest.Valid {
		stats.NewestReport, _ = parseTimestamp(newest.String)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(published_at) FROM report_posts",
	).Scan(&stats.TotalPosts, &stats.DatedPosts)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT handle, COUNT(*) AS cnt FROM reports GROUP BY handle ORDER BY cnt DESC, handle LIMIT 10",
	)
	if err != nil {
		return nil, fmt.Errorf("top handles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hc HandleCount
		if err := rows.Scan(&hc.Handle, &hc.Count); err != nil {
			return nil, err
		}
		stats.TopHandles = append(stats.TopHandles, hc)
	}

	return stats, rows.Err()
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.insertReport, s.insertPost, s.insertFTS,
		s.insertAudit, s.getReport, s.deleteReport,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
