// Package sqlite stores weeks and the attendance bonus in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/faizmokh/gaji/internal/ledger"
	"github.com/faizmokh/gaji/internal/logging"
	"github.com/faizmokh/gaji/internal/store"
)

const bonusKey = "attendance_bonus"

// Repository implements store.Store on SQLite. Weeks are returned in the
// order they were first saved.
type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.Store = (*Repository)(nil)

// Open creates the database file if needed, applies migrations and returns a Repository.
func Open(dbPath string, logger *slog.Logger) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &Repository{db: db, logger: logging.Component(logger, logging.ComponentSQLite)}, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Fetch implements store.Store.
func (r *Repository) Fetch(ctx context.Context) (store.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT week_id, mon, tue, wed, thu, fri, sat, sun FROM weeks ORDER BY seq`)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("query weeks: %w", err)
	}
	defer rows.Close()

	var snap store.Snapshot
	for rows.Next() {
		var w ledger.WeekRecord
		d := &w.Distances
		if err := rows.Scan(&w.WeekID, &d[0], &d[1], &d[2], &d[3], &d[4], &d[5], &d[6]); err != nil {
			return store.Snapshot{}, fmt.Errorf("scan week: %w", err)
		}
		snap.Weeks = append(snap.Weeks, w)
	}
	if err := rows.Err(); err != nil {
		return store.Snapshot{}, fmt.Errorf("iterate weeks: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, bonusKey).Scan(&snap.Bonus)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return store.Snapshot{}, fmt.Errorf("query bonus: %w", err)
	default:
		snap.HasBonus = true
	}
	return snap, nil
}

// SaveWeek implements store.Store. An existing week keeps its position.
func (r *Repository) SaveWeek(ctx context.Context, week ledger.WeekRecord) (ledger.WeekRecord, error) {
	if week.WeekID == ledger.BonusRecordID {
		return ledger.WeekRecord{}, store.ErrReservedWeekID
	}
	d := week.Distances
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weeks (week_id, mon, tue, wed, thu, fri, sat, sun)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(week_id) DO UPDATE SET
			mon = excluded.mon, tue = excluded.tue, wed = excluded.wed,
			thu = excluded.thu, fri = excluded.fri, sat = excluded.sat,
			sun = excluded.sun,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		week.WeekID, d[0], d[1], d[2], d[3], d[4], d[5], d[6])
	if err != nil {
		return ledger.WeekRecord{}, fmt.Errorf("upsert week %s: %w", week.WeekID, err)
	}

	r.logger.InfoContext(ctx, "week saved",
		logging.FieldWeekID, week.WeekID,
		"total", week.Total())
	return week, nil
}

// SaveBonus implements store.Store.
func (r *Repository) SaveBonus(ctx context.Context, value int) (int, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		bonusKey, value)
	if err != nil {
		return 0, fmt.Errorf("upsert bonus: %w", err)
	}
	r.logger.InfoContext(ctx, "bonus saved", logging.FieldBonus, value)
	return value, nil
}

// DeleteWeek implements store.Store.
func (r *Repository) DeleteWeek(ctx context.Context, weekID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weeks WHERE week_id = ?`, weekID)
	if err != nil {
		return fmt.Errorf("delete week %s: %w", weekID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete week %s: %w", weekID, err)
	}
	if n == 0 {
		return ledger.ErrWeekNotFound
	}
	r.logger.InfoContext(ctx, "week deleted", logging.FieldWeekID, weekID)
	return nil
}
