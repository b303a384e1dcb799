package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // registers the pure-Go sqlite driver

	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/model"
	"github.com/damianidczak/vue-render-inspector-sub002/pkg/metrics"
)

// Default archive configuration constants.
const (
	defaultQueryLimit = 1000
)

const schema = `
CREATE TABLE IF NOT EXISTS render_records (
	id                        TEXT PRIMARY KEY,
	uid                       TEXT NOT NULL,
	component_name            TEXT NOT NULL,
	ts                        INTEGER NOT NULL,
	duration_ns               INTEGER,
	reason                    TEXT NOT NULL DEFAULT '',
	is_unnecessary            INTEGER NOT NULL DEFAULT 0,
	trigger_mechanism         TEXT NOT NULL DEFAULT '',
	trigger_source            TEXT NOT NULL DEFAULT '',
	event_trigger_count       INTEGER NOT NULL DEFAULT 0,
	reactivity_tracking_count INTEGER NOT NULL DEFAULT 0,
	reactivity_trigger_count  INTEGER NOT NULL DEFAULT 0,
	patterns                  TEXT NOT NULL DEFAULT '[]',
	props_diff                TEXT,
	extra                     TEXT
);
CREATE INDEX IF NOT EXISTS idx_render_records_ts  ON render_records (ts DESC);
CREATE INDEX IF NOT EXISTS idx_render_records_uid ON render_records (uid, ts DESC);
`

// SQLiteArchive implements Archive on an embedded SQLite database. A
// single writer is assumed; the mq worker pool serializes through the
// database's own locking.
type SQLiteArchive struct {
	db         *sql.DB
	queryLimit int

	mu     sync.RWMutex
	closed bool
}

// NewSQLiteArchive opens (or creates) the database at path and ensures
// the schema. Use ":memory:" for an ephemeral archive.
func NewSQLiteArchive(path string, opts ...Option) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repository: open %q: %w", path, err)
	}
	// modernc sqlite serializes internally; a single connection avoids
	// SQLITE_BUSY between the worker pool and query handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repository: ensure schema: %w", err)
	}

	a := &SQLiteArchive{
		db:         db,
		queryLimit: defaultQueryLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Append persists one record.
func (a *SQLiteArchive) Append(ctx context.Context, rec *model.RenderRecord) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	patterns, err := json.Marshal(rec.Patterns)
	if err != nil {
		return fmt.Errorf("repository: encode patterns: %w", err)
	}
	propsDiff, err := marshalNullable(rec.PropsDiff)
	if err != nil {
		return fmt.Errorf("repository: encode props diff: %w", err)
	}
	extra, err := marshalNullable(rec.Extra)
	if err != nil {
		return fmt.Errorf("repository: encode extra: %w", err)
	}

	var durationNs sql.NullInt64
	if rec.Duration != nil {
		durationNs = sql.NullInt64{Int64: rec.Duration.Nanoseconds(), Valid: true}
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO render_records (
			id, uid, component_name, ts, duration_ns, reason, is_unnecessary,
			trigger_mechanism, trigger_source,
			event_trigger_count, reactivity_tracking_count, reactivity_trigger_count,
			patterns, props_diff, extra
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UID, rec.ComponentName, rec.Timestamp.UnixMilli(), durationNs,
		rec.Reason, rec.IsUnnecessary, rec.TriggerMechanism, rec.TriggerSource,
		rec.EventTriggerCount, rec.ReactivityTrackingCount, rec.ReactivityTriggerCount,
		string(patterns), propsDiff, extra,
	)
	if err != nil {
		return fmt.Errorf("repository: insert record %s: %w", rec.ID, err)
	}
	return nil
}

// RecentRecords returns up to limit records, newest first.
func (a *SQLiteArchive) RecentRecords(ctx context.Context, limit int) ([]*model.RenderRecord, error) {
	limit, err := a.clampLimit(limit)
	if err != nil {
		return nil, err
	}
	return a.query(ctx, `
		SELECT id, uid, component_name, ts, duration_ns, reason, is_unnecessary,
		       trigger_mechanism, trigger_source,
		       event_trigger_count, reactivity_tracking_count, reactivity_trigger_count,
		       patterns, props_diff, extra
		FROM render_records ORDER BY ts DESC, id DESC LIMIT ?`, limit)
}

// ComponentRecords returns up to limit records for one uid, newest first.
func (a *SQLiteArchive) ComponentRecords(ctx context.Context, uid string, limit int) ([]*model.RenderRecord, error) {
	limit, err := a.clampLimit(limit)
	if err != nil {
		return nil, err
	}
	return a.query(ctx, `
		SELECT id, uid, component_name, ts, duration_ns, reason, is_unnecessary,
		       trigger_mechanism, trigger_source,
		       event_trigger_count, reactivity_tracking_count, reactivity_trigger_count,
		       patterns, props_diff, extra
		FROM render_records WHERE uid = ? ORDER BY ts DESC, id DESC LIMIT ?`, uid, limit)
}

// Count returns the number of archived records.
func (a *SQLiteArchive) Count(ctx context.Context) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return 0, ErrClosed
	}

	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM render_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repository: count records: %w", err)
	}
	return n, nil
}

// Purge deletes records older than the cutoff.
func (a *SQLiteArchive) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return 0, ErrClosed
	}

	res, err := a.db.ExecContext(ctx, `DELETE FROM render_records WHERE ts < ?`, olderThan.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("repository: purge records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("repository: purge rows affected: %w", err)
	}
	return n, nil
}

// Close releases the database. Idempotent.
func (a *SQLiteArchive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.db.Close()
}

// clampLimit validates the limit and applies the configured ceiling.
// A non-positive limit means "up to the ceiling".
func (a *SQLiteArchive) clampLimit(limit int) (int, error) {
	if limit < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	if limit == 0 || limit > a.queryLimit {
		return a.queryLimit, nil
	}
	return limit, nil
}

// query runs a record select and scans the rows back into records.
func (a *SQLiteArchive) query(ctx context.Context, stmt string, args ...any) ([]*model.RenderRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, ErrClosed
	}

	start := time.Now()
	defer func() {
		metrics.RecordArchiveQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := a.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: query records: %w", err)
	}
	defer rows.Close()

	out := make([]*model.RenderRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate records: %w", err)
	}
	return out, nil
}

// scanRecord rebuilds a record from one row.
func scanRecord(rows *sql.Rows) (*model.RenderRecord, error) {
	var (
		rec           model.RenderRecord
		ts            int64
		durationNs    sql.NullInt64
		isUnnecessary int
		patterns      string
		propsDiff     sql.NullString
		extra         sql.NullString
	)
	if err := rows.Scan(
		&rec.ID, &rec.UID, &rec.ComponentName, &ts, &durationNs, &rec.Reason, &isUnnecessary,
		&rec.TriggerMechanism, &rec.TriggerSource,
		&rec.EventTriggerCount, &rec.ReactivityTrackingCount, &rec.ReactivityTriggerCount,
		&patterns, &propsDiff, &extra,
	); err != nil {
		return nil, fmt.Errorf("repository: scan record: %w", err)
	}

	rec.Timestamp = time.UnixMilli(ts)
	rec.IsUnnecessary = isUnnecessary != 0
	if durationNs.Valid {
		d := time.Duration(durationNs.Int64)
		rec.Duration = &d
	}
	if err := json.Unmarshal([]byte(patterns), &rec.Patterns); err != nil {
		return nil, fmt.Errorf("repository: decode patterns: %w", err)
	}
	if err := unmarshalNullable(propsDiff, &rec.PropsDiff); err != nil {
		return nil, fmt.Errorf("repository: decode props diff: %w", err)
	}
	if err := unmarshalNullable(extra, &rec.Extra); err != nil {
		return nil, fmt.Errorf("repository: decode extra: %w", err)
	}
	return &rec, nil
}

func marshalNullable(m map[string]any) (sql.NullString, error) {
	if m == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func unmarshalNullable(s sql.NullString, dst *map[string]any) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dst)
}
