package orm

import (
	"context"
	"database/sql"
	"time"
)

// Querier is the executor every Registry runs its statements through.
// *DB satisfies it; tests substitute recording fakes.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	dialect() Dialect
}

// Statement is one executed statement as reported to a Logger.
type Statement struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
}

// Logger receives every statement a *DB runs, after it returns.
type Logger interface {
	LogStatement(ctx context.Context, s Statement)
}

// DB is a *sql.DB bound to the Dialect its statements are rendered for.
type DB struct {
	raw    *sql.DB
	d      Dialect
	logger Logger
}

// New binds db to d.
func New(db *sql.DB, d Dialect) *DB {
	return &DB{raw: db, d: d}
}

// Open opens a database/sql handle for driver and binds it to the
// Dialect registered for that driver name.
func Open(driver, dsn string) (*DB, error) {
	d, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	raw, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	return New(raw, d), nil
}

// Debug returns a copy of db that reports every statement to l.
func (db *DB) Debug(l Logger) *DB {
	return &DB{raw: db.raw, d: db.d, logger: l}
}

// Dialect returns the Dialect statements are rendered for.
func (db *DB) Dialect() Dialect { return db.d }

// PingContext verifies the connection.
func (db *DB) PingContext(ctx context.Context) error {
	return db.raw.PingContext(ctx) //nolint:wrapcheck // thin wrapper
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := db.raw.QueryContext(ctx, query, args...)
	db.log(ctx, query, args, start, err)
	return rows, err //nolint:wrapcheck // thin wrapper
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := db.raw.ExecContext(ctx, query, args...)
	db.log(ctx, query, args, start, err)
	return res, err //nolint:wrapcheck // thin wrapper
}

func (db *DB) log(ctx context.Context, query string, args []any, start time.Time, err error) {
	if db.logger == nil {
		return
	}
	db.logger.LogStatement(ctx, Statement{SQL: query, Args: args, Elapsed: time.Since(start), Err: err})
}

// Close closes the underlying *sql.DB.
func (db *DB) Close() error { return db.raw.Close() } //nolint:wrapcheck // thin wrapper

func (db *DB) dialect() Dialect { return db.d }
