// Package database is the SQLite backend for timer persistence.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const defaultDBTimeout = 5 * time.Second

// Database wraps the SQLite connection holding the timers and settings.
type Database struct {
	DB     *sql.DB
	dbFile string
	log    zerolog.Logger
}

// Open connects to (and creates if needed) the database at path and applies
// the schema.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*Database, error) {
	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, &OpError{Op: "open", Resource: "database", Err: err}
	}
	// one writer; keeps the single-event-loop model true for SQLite as well
	conn.SetMaxOpenConns(1)
	d := &Database{
		DB:     conn,
		dbFile: path,
		log:    logger.With().Str("component", "database").Logger(),
	}
	ctx, cancel := d.withTimeout(ctx, defaultDBTimeout)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, &OpError{Op: "open", Resource: "database", Err: err}
	}
	if err := d.createTables(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return d, nil
}

func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

func (d *Database) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (d *Database) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS timers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position INTEGER NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			hours INTEGER DEFAULT 0,
			minutes INTEGER DEFAULT 0,
			seconds INTEGER DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
	}
	for _, query := range queries {
		if _, err := d.DB.ExecContext(ctx, query); err != nil {
			return &OpError{Op: "create", Resource: "schema", Err: fmt.Errorf("%w: %s", err, query)}
		}
	}
	return d.migrate(ctx)
}

// migrate applies schema changes introduced after the first release.
func (d *Database) migrate(ctx context.Context) error {
	migrations := []string{
		"ALTER TABLE timers ADD COLUMN running INTEGER DEFAULT 0",
		"CREATE INDEX IF NOT EXISTS idx_timers_position ON timers(position)",
	}
	for _, query := range migrations {
		if _, err := d.DB.ExecContext(ctx, query); err != nil && !isIgnorableMigrationErr(err) {
			return &OpError{Op: "migrate", Resource: "schema", Err: fmt.Errorf("%w: %s", err, query)}
		}
	}
	return nil
}

// isIgnorableMigrationErr reports errors from re-applying a migration.
func isIgnorableMigrationErr(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "duplicate column name")
}

func rollbackWithLog(log zerolog.Logger, tx *sql.Tx, err error) error {
	if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
		log.Error().Err(rbErr).Msg("rollback failed")
	}
	return err
}
