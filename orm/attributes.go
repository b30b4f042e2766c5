package orm

import "fmt"

// layout is the fixed column set of a model, built once from introspection
// and shared by every instance of that model.
type layout struct {
	model   string
	pk      string
	columns []string
	index   map[string]int
}

func newLayout(model, pk string, columns []string) *layout {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return &layout{model: model, pk: pk, columns: columns, index: index}
}

func (l *layout) has(col string) bool {
	_, ok := l.index[col]
	return ok
}

func (l *layout) unknown(col string) error {
	return fmt.Errorf("%w %q for %s", ErrUnknownAttribute, col, l.model)
}

// Attributes stores one value per column of a model, in column order.
// Unset columns hold nil.
type Attributes struct {
	layout *layout
	values []any
}

func newAttributes(l *layout) Attributes {
	return Attributes{layout: l, values: make([]any, len(l.columns))}
}

// Get returns the value of column col.
func (a *Attributes) Get(col string) (any, error) {
	i, ok := a.layout.index[col]
	if !ok {
		return nil, a.layout.unknown(col)
	}
	return a.values[i], nil
}

// Set assigns v to column col.
func (a *Attributes) Set(col string, v any) error {
	i, ok := a.layout.index[col]
	if !ok {
		return a.layout.unknown(col)
	}
	a.values[i] = v
	return nil
}

// Columns returns the column names in table order.
func (a *Attributes) Columns() []string {
	return append([]string(nil), a.layout.columns...)
}

// Values returns the column values in table order.
func (a *Attributes) Values() []any {
	return append([]any(nil), a.values...)
}

// Map returns the attributes keyed by column name.
func (a *Attributes) Map() map[string]any {
	m := make(map[string]any, len(a.values))
	for i, c := range a.layout.columns {
		m[c] = a.values[i]
	}
	return m
}

// ID returns the primary key value, or nil if it is unset.
func (a *Attributes) ID() any {
	return a.values[a.layout.index[a.layout.pk]]
}

func (a *Attributes) setID(v any) {
	a.values[a.layout.index[a.layout.pk]] = v
}

// pairs returns column/value pairs in column order. The primary key is
// included only when includesPK is set.
func (a *Attributes) pairs(includesPK bool) ([]string, []any) {
	cols := make([]string, 0, len(a.values))
	vals := make([]any, 0, len(a.values))
	for i, c := range a.layout.columns {
		if c == a.layout.pk && !includesPK {
			continue
		}
		cols = append(cols, c)
		vals = append(vals, a.values[i])
	}
	return cols, vals
}
