package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type LogEntryRow struct {
	Timestamp time.Time
	Level     int
	Module    string
	Message   string
	Attrs     string
}

// LogFilter selects log entries, an empty Module matches every module.
type LogFilter struct {
	MinLevel slog.Level
	Module   string
}

func (f LogFilter) where() (string, []any) {
	conds := []string{"level >= ?"}
	args := []any{int(f.MinLevel)}
	if f.Module != "" {
		conds = append(conds, "module = ?")
		args = append(args, f.Module)
	}
	return strings.Join(conds, " AND "), args
}

func (d *Database) SaveLogEntry(ctx context.Context, r LogEntryRow) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	_, err := d.write.ExecContext(ctx,
		"INSERT INTO log (timestamp, level, module, message, attrs) VALUES (?, ?, ?, ?, ?)",
		r.Timestamp.UTC().Format(time.RFC3339Nano),
		r.Level,
		r.Module,
		r.Message,
		r.Attrs)
	if err != nil {
		return fmt.Errorf("saving log entry: %w", err)
	}
	return nil
}

// GetLogEntries returns one page of entries, newest first. Pages start at 1.
func (d *Database) GetLogEntries(ctx context.Context, f LogFilter, page, pageSize int) ([]LogEntryRow, error) {
	page = max(page, 1)
	if pageSize < 1 {
		pageSize = 10
	}

	where, args := f.where()
	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := d.read.QueryContext(ctx, `
		SELECT timestamp, level, module, message, attrs
		FROM log
		WHERE `+where+`
		ORDER BY id DESC
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching log entries: %w", err)
	}
	defer rows.Close()

	var entries []LogEntryRow
	for rows.Next() {
		var r LogEntryRow
		var ts string
		if err := rows.Scan(&ts, &r.Level, &r.Module, &r.Message, &r.Attrs); err != nil {
			return nil, fmt.Errorf("scanning log entry: %w", err)
		}
		if r.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", ts, err)
		}
		entries = append(entries, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading log rows: %w", err)
	}

	return entries, nil
}

// LogModules lists the distinct modules that have written log entries.
func (d *Database) LogModules(ctx context.Context) ([]string, error) {
	rows, err := d.read.QueryContext(ctx, "SELECT DISTINCT module FROM log WHERE module != '' ORDER BY module")
	if err != nil {
		return nil, fmt.Errorf("fetching log modules: %w", err)
	}
	defer rows.Close()

	var modules []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scanning log module: %w", err)
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func (d *Database) CountLogEntries(ctx context.Context) (int, error) {
	var n int
	if err := d.read.QueryRowContext(ctx, "SELECT COUNT(*) FROM log").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting log entries: %w", err)
	}
	return n, nil
}

// PurgeLog keeps the newest maxLogEntries entries.
func (d *Database) PurgeLog(ctx context.Context, maxLogEntries int) error {
	res, err := d.write.ExecContext(ctx,
		"DELETE FROM log WHERE id NOT IN (SELECT id FROM log ORDER BY id DESC LIMIT ?)", maxLogEntries)
	if err != nil {
		return fmt.Errorf("purging log: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		d.logger.Debug("log purged", slog.Int64("deleted", n))
	}
	return nil
}
