// Package sqlstore keeps user documents in a SQL table.
//
// Two drivers are supported: "sqlite3" (ncruces/go-sqlite3, pure Go through
// an embedded wasm build) and "postgres" (lib/pq). The schema is a single
// table:
//
//	users(uid TEXT PRIMARY KEY, state_str TEXT, updated_at BIGINT)
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/NUMNIMx/noteflow/pkg/core"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Postgres SQLSTATE codes we map onto remote store errors.
const (
	pgUndefinedTable         = "42P01"
	pgInsufficientPrivileges = "42501"
)

// Store implements core.RemoteStore on a *sql.DB.
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open connects to dsn with the named driver.
func Open(driver, dsn string, opts ...Option) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open: %w", err)
	}
	if driver == DriverSQLite {
		// every sqlite connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	return New(db, driver, opts...), nil
}

// New wraps an open database.
func New(db *sql.DB, driver string, opts ...Option) *Store {
	s := &Store{db: db, driver: driver, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Provision creates the users table if it does not exist.
func (s *Store) Provision(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS users (
		uid        TEXT PRIMARY KEY,
		state_str  TEXT NOT NULL,
		updated_at BIGINT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("sqlstore: provision: %w", mapErr(err))
	}
	s.logger.Info("remote table ready", "driver", s.driver)
	return nil
}

// Write upserts the record of the user addressed by key.
func (s *Store) Write(ctx context.Context, key string, rec core.Record) error {
	q := s.rebind(`INSERT INTO users (uid, state_str, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (uid) DO UPDATE SET state_str = excluded.state_str, updated_at = excluded.updated_at`)
	if _, err := s.db.ExecContext(ctx, q, core.UserIDFromKey(key), string(rec.Payload), rec.UpdatedAt); err != nil {
		return fmt.Errorf("sqlstore: write %s: %w", key, mapErr(err))
	}
	return nil
}

// Read loads the record of the user addressed by key.
func (s *Store) Read(ctx context.Context, key string) (core.Record, bool, error) {
	q := s.rebind(`SELECT state_str, updated_at FROM users WHERE uid = ?`)
	var (
		state     string
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, q, core.UserIDFromKey(key)).Scan(&state, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, false, nil
	}
	if err != nil {
		return core.Record{}, false, fmt.Errorf("sqlstore: read %s: %w", key, mapErr(err))
	}
	return core.Record{Payload: []byte(state), UpdatedAt: updatedAt}, true, nil
}

// rebind turns ? placeholders into $n for postgres.
func (s *Store) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// mapErr attaches the core remote sentinel matching a driver error.
func mapErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", core.ErrRemoteTimeout, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUndefinedTable:
			return fmt.Errorf("%w: %v", core.ErrNotProvisioned, err)
		case pgInsufficientPrivileges:
			return fmt.Errorf("%w: %v", core.ErrPermissionDenied, err)
		}
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such table"):
		return fmt.Errorf("%w: %v", core.ErrNotProvisioned, err)
	case strings.Contains(msg, "readonly"), strings.Contains(msg, "read-only"), strings.Contains(msg, "permission denied"):
		return fmt.Errorf("%w: %v", core.ErrPermissionDenied, err)
	}
	return err
}

var _ core.RemoteStore = (*Store)(nil)
