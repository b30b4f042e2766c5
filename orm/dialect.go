package orm

import "fmt"

// Dialect renders the engine-specific parts of a statement: bind
// markers, identifier quoting and how an inserted key comes back.
type Dialect interface {
	// Placeholder renders the bind marker for the 1-based argument index,
	// "?" for MySQL and SQLite and "$n" for PostgreSQL.
	Placeholder(index int) string

	// QuoteIdent wraps a table or column name so reserved words survive.
	QuoteIdent(name string) string

	// UseReturning is true when Insert reads the new key from a RETURNING
	// row instead of sql.Result.LastInsertId.
	UseReturning() bool

	// ReturningClause is the suffix appended to INSERT when UseReturning
	// is true, and "" otherwise.
	ReturningClause(pk string) string
}

// MySQL quotes with backticks and reads keys via LastInsertId. It also
// serves MariaDB.
var MySQL Dialect = mysqlDialect{}

// PostgreSQL numbers its bind markers and returns keys with RETURNING.
var PostgreSQL Dialect = postgresDialect{}

// SQLite is the Dialect for SQLite.
var SQLite Dialect = sqliteDialect{}

// DialectFor returns the Dialect matching a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "mysql":
		return MySQL, nil
	case "pgx", "postgres":
		return PostgreSQL, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	default:
		return nil, fmt.Errorf("orm: no dialect for driver %q", driver)
	}
}

type mysqlDialect struct{}

func (mysqlDialect) Placeholder(_ int) string        { return "?" }
func (mysqlDialect) QuoteIdent(name string) string   { return "`" + name + "`" }
func (mysqlDialect) UseReturning() bool              { return false }
func (mysqlDialect) ReturningClause(_ string) string { return "" }

type postgresDialect struct{}

func (postgresDialect) Placeholder(index int) string     { return fmt.Sprintf("$%d", index) }
func (postgresDialect) QuoteIdent(name string) string    { return `"` + name + `"` }
func (postgresDialect) UseReturning() bool               { return true }
func (postgresDialect) ReturningClause(pk string) string { return ` RETURNING "` + pk + `"` }

type sqliteDialect struct{}

func (sqliteDialect) Placeholder(_ int) string        { return "?" }
func (sqliteDialect) QuoteIdent(name string) string   { return `"` + name + `"` }
func (sqliteDialect) UseReturning() bool              { return false }
func (sqliteDialect) ReturningClause(_ string) string { return "" }

// positional reports whether d binds with a bare "?" so no rewrite is needed.
func positional(d Dialect) bool {
	return d.Placeholder(1) == "?" && d.Placeholder(2) == "?"
}
