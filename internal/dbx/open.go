package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect names the SQL backend behind a *sql.DB. The values match the
// dialect names understood by goose.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// ErrUnsupportedDSN is returned by Open for DSNs with an unknown scheme.
var ErrUnsupportedDSN = errors.New("unsupported database dsn")

const pgUniqueViolation = "23505"

// Open picks a driver from the DSN scheme and opens the database.
//
//	postgres://... or postgresql://...  -> pgx
//	sqlite://path/to/file.db            -> modernc sqlite
//	sqlite::memory:                     -> modernc sqlite, in memory
//
// SQLite handles are limited to a single connection so an in-memory database
// survives for the lifetime of the pool. Foreign keys are switched on.
func Open(dsn string) (*sql.DB, Dialect, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, "", err
		}
		return db, DialectPostgres, nil

	case strings.HasPrefix(dsn, "sqlite:"):
		db, err := sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, "", err
		}
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
		return db, DialectSQLite, nil
	}

	return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedDSN, redactDSN(dsn))
}

func sqliteDSN(dsn string) string {
	path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite:"), "//")
	if path == "" {
		path = ":memory:"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// redactDSN keeps only the scheme so credentials never reach the logs.
func redactDSN(dsn string) string {
	if scheme, _, ok := strings.Cut(dsn, "://"); ok {
		return scheme + "://***"
	}
	if len(dsn) > 8 {
		return dsn[:8] + "***"
	}
	return dsn
}

// IsUniqueViolation reports whether err was caused by a unique (or primary
// key) constraint, for either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}

	return false
}
