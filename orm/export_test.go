package orm

import (
	"context"
	"database/sql"
	"sync"
)

// TestQuerier wraps a Querier and records every statement it runs.
// Exported for use in orm_test package.
type TestQuerier struct {
	inner Querier

	mu      sync.Mutex
	Queries []TestQuery
}

// TestQuery holds a captured query string and its args.
type TestQuery struct {
	SQL  string
	Args []any
}

// NewTestQuerier wraps db.
func NewTestQuerier(db Querier) *TestQuerier {
	return &TestQuerier{inner: db}
}

func (tq *TestQuerier) record(query string, args []any) {
	tq.mu.Lock()
	defer tq.mu.Unlock()
	tq.Queries = append(tq.Queries, TestQuery{query, args})
}

func (tq *TestQuerier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	tq.record(query, args)
	return tq.inner.QueryContext(ctx, query, args...)
}

func (tq *TestQuerier) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	tq.record(query, args)
	return tq.inner.ExecContext(ctx, query, args...)
}

var _ Querier = (*TestQuerier)(nil)

// LastQuery returns the most recently captured query, or panics if empty.
func (tq *TestQuerier) LastQuery() TestQuery {
	tq.mu.Lock()
	defer tq.mu.Unlock()
	return tq.Queries[len(tq.Queries)-1]
}

// Snapshot returns a copy of the captured queries.
func (tq *TestQuerier) Snapshot() []TestQuery {
	tq.mu.Lock()
	defer tq.mu.Unlock()
	return append([]TestQuery(nil), tq.Queries...)
}

// Reset drops the captured queries.
func (tq *TestQuerier) Reset() {
	tq.mu.Lock()
	defer tq.mu.Unlock()
	tq.Queries = nil
}

func (tq *TestQuerier) dialect() Dialect { return tq.inner.dialect() }

// ThroughJoinSQL renders the has-many-through join for d.
func ThroughJoinSQL(d Dialect, throughTable, sourceTable string, through, source Association) string {
	j := newThroughJoin(throughTable, sourceTable, through, source)
	return rewritePlaceholders(d, j.build(d))
}

var RewritePlaceholders = rewritePlaceholders
