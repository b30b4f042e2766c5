package orm

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mickamy/databinge/scope"
)

// Params maps column names to values. It is the input to Model.New and
// the predicate set of Model.Where.
type Params map[string]any

// keys returns the parameter names in ascending order, so that rendered
// SQL is deterministic.
func (p Params) keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type whereClause struct {
	clause string
	args   []any
}

// selectStmt accumulates the clauses of one SELECT against a single table.
type selectStmt struct {
	qi       func(string) string
	table    string
	columns  string
	wheres   []whereClause
	orderBys []string
	limit    *int
	offset   *int
}

func newSelect(d Dialect, table string) *selectStmt {
	return &selectStmt{qi: d.QuoteIdent, table: table, columns: "*"}
}

var _ scope.Applier = (*selectStmt)(nil)

func (s *selectStmt) ApplyWhere(clause string, args []any) {
	s.wheres = append(s.wheres, whereClause{clause, args})
}

func (s *selectStmt) ApplyOrderBy(clause string) {
	s.orderBys = append(s.orderBys, clause)
}

func (s *selectStmt) ApplyLimit(n int)  { s.limit = &n }
func (s *selectStmt) ApplyOffset(n int) { s.offset = &n }

// eq adds one "col = ?" predicate per key of p, in key order.
func (s *selectStmt) eq(p Params) {
	for _, k := range p.keys() {
		s.ApplyWhere(s.qi(k)+" = ?", []any{p[k]})
	}
}

func (s *selectStmt) scopes(scopes []scope.Scope) {
	for _, sc := range scopes {
		sc.Apply(s)
	}
}

func (s *selectStmt) build() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(s.columns)
	b.WriteString(" FROM ")
	b.WriteString(s.qi(s.table))

	var args []any
	for i, w := range s.wheres {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(w.clause)
		args = append(args, w.args...)
	}

	if len(s.orderBys) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(s.orderBys, ", "))
	}
	if s.limit != nil {
		fmt.Fprintf(&b, " LIMIT %d", *s.limit)
	}
	if s.offset != nil {
		fmt.Fprintf(&b, " OFFSET %d", *s.offset)
	}
	return b.String(), args
}

// --- single-statement builders ---

func buildColumnsProbe(d Dialect, table string) string {
	return "SELECT * FROM " + d.QuoteIdent(table) + " LIMIT 0"
}

func buildFind(d Dialect, table, pk string) string {
	qi := d.QuoteIdent
	return fmt.Sprintf("SELECT * FROM %s WHERE %s.%s = ? LIMIT 1", qi(table), qi(table), qi(pk))
}

func buildInsert(d Dialect, table string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(table),
		quoteColumns(d, columns),
		strings.Join(placeholders, ", "),
	)
}

func buildUpdate(d Dialect, table string, setCols []string, pk string) string {
	sets := make([]string, len(setCols))
	for i, col := range setCols {
		sets[i] = d.QuoteIdent(col) + " = ?"
	}
	return fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = ?",
		d.QuoteIdent(table),
		strings.Join(sets, ", "),
		d.QuoteIdent(pk),
	)
}

func buildDelete(d Dialect, table, pk string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = ?", d.QuoteIdent(table), d.QuoteIdent(pk))
}

func quoteColumns(d Dialect, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.QuoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}

// rewritePlaceholders converts ? to dialect-specific placeholders ($1, $2, …).
func rewritePlaceholders(d Dialect, query string) string {
	if positional(d) {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	idx := 1
	for i := range len(query) {
		if query[i] == '?' {
			b.WriteString(d.Placeholder(idx))
			idx++
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}
