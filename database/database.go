package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"slices"
	"strconv"
	"sync"
	"time"

	sqlite "modernc.org/sqlite"
)

//go:embed migrations
var migrationsDir embed.FS

type Database struct {
	logger *slog.Logger
	read   *sql.DB
	write  *sql.DB
	path   string
}

var registerHook sync.Once

const initSQL = `
	PRAGMA journal_mode = WAL;
	PRAGMA synchronous = NORMAL;
	PRAGMA temp_store = MEMORY;
	PRAGMA busy_timeout = 5000;
	PRAGMA automatic_index = true;
	PRAGMA foreign_keys = ON;
	PRAGMA analysis_limit = 1000;
	PRAGMA trusted_schema = OFF;
`

// New opens the operational database at path and applies pending migrations.
// The database only holds the application log, calculations are never stored.
func New(ctx context.Context, path string) (*Database, error) {
	registerHook.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, _ string) error {
			_, err := conn.ExecContext(context.Background(), initSQL, nil)
			return err
		})
	})

	read, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error when opening database (read): %w", err)
	}
	read.SetMaxOpenConns(10) // readers can be concurrent
	read.SetConnMaxIdleTime(time.Minute)

	write, err := sql.Open("sqlite", path)
	if err != nil {
		read.Close()
		return nil, fmt.Errorf("error when opening database (write): %w", err)
	}
	write.SetMaxOpenConns(1) // only a single writer ever, no concurrency
	write.SetConnMaxIdleTime(time.Minute)

	d := &Database{
		logger: slog.Default().With(slog.String("module", "database")),
		read:   read,
		write:  write,
		path:   path,
	}

	err = d.migrate(ctx)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	return d, nil
}

func (d *Database) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

func (d *Database) Close() {
	d.read.Close()
	d.write.Close()
}

type migration struct {
	version int
	name    string
}

var migrationNameRe = regexp.MustCompile(`^(\d+)[-_].*\.sql$`)

// migrations lists the embedded migration files in version order.
func migrations() ([]migration, error) {
	files, err := migrationsDir.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var ms []migration
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		m := migrationNameRe.FindStringSubmatch(f.Name())
		if m == nil {
			return nil, fmt.Errorf("parse version from migration file: %s", f.Name())
		}
		ver, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("convert migration version from file %s: %w", f.Name(), err)
		}
		ms = append(ms, migration{version: ver, name: f.Name()})
	}

	slices.SortFunc(ms, func(a, b migration) int { return a.version - b.version })
	return ms, nil
}

func (d *Database) migrate(ctx context.Context) error {
	var currVer int
	if err := d.read.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currVer); err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	all, err := migrations()
	if err != nil {
		return err
	}
	pending := slices.DeleteFunc(all, func(m migration) bool { return m.version <= currVer })
	if len(pending) == 0 {
		return nil
	}

	// a fresh database has nothing worth a backup
	if currVer > 0 {
		if err := d.Backup(ctx); err != nil {
			return fmt.Errorf("backup database before migration: %w", err)
		}
	}

	for _, m := range pending {
		if err := d.applyMigration(ctx, m); err != nil {
			return err
		}
	}
	d.logger.Info("database migrated",
		slog.Int("from", currVer),
		slog.Int("to", pending[len(pending)-1].version))
	return nil
}

func (d *Database) applyMigration(ctx context.Context, m migration) (err error) {
	d.logger.Debug("applying migration", slog.Int("version", m.version), slog.String("file", m.name))

	data, err := migrationsDir.ReadFile(path.Join("migrations", m.name))
	if err != nil {
		return fmt.Errorf("read migration file %s: %w", m.name, err)
	}

	tx, err := d.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction for migration %d: %w", m.version, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration %d: %w", m.version, err)
	}
	// PRAGMA does not take bind parameters
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return fmt.Errorf("update database version for migration %d: %w", m.version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", m.version, err)
	}
	return nil
}
