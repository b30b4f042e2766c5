package orm

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mickamy/databinge/scope"
)

// Model maps one table. It is created by Registry.Define and is immutable
// afterwards, apart from its column set, which is introspected once.
type Model struct {
	name     string
	table    string
	pk       string
	keys     KeyGenerator
	assocs   map[string]Association
	order    []string
	registry *Registry

	mu   sync.Mutex
	cols atomic.Pointer[layout]
}

// Name returns the name the model was defined under.
func (m *Model) Name() string { return m.name }

// TableName returns the table the model maps, after WithTable and
// TableNamer have been applied.
func (m *Model) TableName() string { return m.table }

// PrimaryKey returns the primary key column, "id" unless the model was
// defined WithPrimaryKey.
func (m *Model) PrimaryKey() string { return m.pk }

// Association returns the descriptor declared as name on this model.
func (m *Model) Association(name string) (Association, bool) {
	a, ok := m.assocs[name]
	return a, ok
}

// Associations returns every declared relationship in declaration order.
func (m *Model) Associations() []Association {
	out := make([]Association, len(m.order))
	for i, name := range m.order {
		out[i] = m.assocs[name]
	}
	return out
}

// Columns returns the table's column names in table order. The first
// successful call queries the database; later calls are served from memory.
func (m *Model) Columns(ctx context.Context) ([]string, error) {
	l, err := m.columns(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), l.columns...), nil
}

func (m *Model) columns(ctx context.Context) (*layout, error) {
	if l := m.cols.Load(); l != nil {
		return l, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if l := m.cols.Load(); l != nil {
		return l, nil
	}

	query := m.registry.statement("columns|"+m.table, func(d Dialect) string {
		return buildColumnsProbe(d, m.table)
	})
	rows, err := m.registry.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	if !slices.Contains(cols, m.pk) {
		return nil, fmt.Errorf("orm: %s: primary key %q is not a column of %s", m.name, m.pk, m.table)
	}

	l := newLayout(m.name, m.pk, cols)
	m.cols.Store(l)
	return l, nil
}

// New builds an unsaved instance from p. Every key must be a column of the
// model; columns not in p are nil.
func (m *Model) New(ctx context.Context, p Params) (*Instance, error) {
	l, err := m.columns(ctx)
	if err != nil {
		return nil, err
	}
	inst := &Instance{Attributes: newAttributes(l), model: m}
	for _, k := range p.keys() {
		if err := inst.Set(k, p[k]); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func (m *Model) instantiate(l *layout, row Row) (*Instance, error) {
	inst := &Instance{Attributes: newAttributes(l), model: m}
	for i, col := range row.Columns {
		if err := inst.Set(col, row.Values[i]); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Find returns the row whose primary key is id, or nil if there is none.
func (m *Model) Find(ctx context.Context, id any) (*Instance, error) {
	l, err := m.columns(ctx)
	if err != nil {
		return nil, err
	}
	query := m.registry.statement("find|"+m.table+"|"+m.pk, func(d Dialect) string {
		return buildFind(d, m.table, m.pk)
	})
	found, err := m.query(ctx, l, query, []any{id})
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

// All returns every row, in the order the database returns them unless a
// scope orders them.
func (m *Model) All(ctx context.Context, scopes ...scope.Scope) ([]*Instance, error) {
	l, err := m.columns(ctx)
	if err != nil {
		return nil, err
	}
	if len(scopes) == 0 {
		query := m.registry.statement("all|"+m.table, func(d Dialect) string {
			q, _ := newSelect(d, m.table).build()
			return q
		})
		return m.query(ctx, l, query, nil)
	}

	d := m.registry.db.dialect()
	s := newSelect(d, m.table)
	s.scopes(scopes)
	query, args := s.build()
	return m.query(ctx, l, rewritePlaceholders(d, query), args)
}

// First returns one row of the table, or nil if it is empty.
func (m *Model) First(ctx context.Context) (*Instance, error) {
	found, err := m.All(ctx, scope.Limit(1))
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

// Where returns the rows whose columns equal every value in p. Scopes may
// add further conditions, ordering, and paging.
func (m *Model) Where(ctx context.Context, p Params, scopes ...scope.Scope) ([]*Instance, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: %s.Where", ErrEmptyFilter, m.name)
	}
	l, err := m.columns(ctx)
	if err != nil {
		return nil, err
	}
	keys, args, err := m.predicates(l, p)
	if err != nil {
		return nil, err
	}

	if len(scopes) == 0 {
		query := m.registry.statement("where|"+m.table+"|"+strings.Join(keys, ","), func(d Dialect) string {
			s := newSelect(d, m.table)
			s.eq(p)
			q, _ := s.build()
			return q
		})
		return m.query(ctx, l, query, args)
	}

	d := m.registry.db.dialect()
	s := newSelect(d, m.table)
	s.eq(p)
	s.scopes(scopes)
	query, args := s.build()
	return m.query(ctx, l, rewritePlaceholders(d, query), args)
}

// Count returns the number of rows matching p. An empty p counts every row.
func (m *Model) Count(ctx context.Context, p Params) (int64, error) {
	l, err := m.columns(ctx)
	if err != nil {
		return 0, err
	}
	keys, args, err := m.predicates(l, p)
	if err != nil {
		return 0, err
	}
	query := m.registry.statement("count|"+m.table+"|"+strings.Join(keys, ","), func(d Dialect) string {
		s := newSelect(d, m.table)
		s.columns = "COUNT(*)"
		s.eq(p)
		q, _ := s.build()
		return q
	})

	rows, err := m.registry.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()

	var count int64
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err //nolint:wrapcheck // pass through
		}
		return 0, fmt.Errorf("orm: COUNT on %s returned no rows", m.table)
	}
	if err := rows.Scan(&count); err != nil {
		return 0, err //nolint:wrapcheck // pass through
	}
	return count, rows.Err() //nolint:wrapcheck // pass through
}

// predicates validates the keys of p and returns them with their values,
// in the order eq renders them.
func (m *Model) predicates(l *layout, p Params) ([]string, []any, error) {
	keys := p.keys()
	args := make([]any, len(keys))
	for i, k := range keys {
		if !l.has(k) {
			return nil, nil, l.unknown(k)
		}
		args[i] = p[k]
	}
	return keys, args, nil
}

// query runs a SELECT and parses every row into an instance of m.
func (m *Model) query(ctx context.Context, l *layout, query string, args []any) ([]*Instance, error) {
	rows, err := m.registry.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	records, err := readRows(rows)
	if err != nil {
		return nil, err
	}

	out := make([]*Instance, 0, len(records))
	for _, rec := range records {
		inst, err := m.instantiate(l, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}
