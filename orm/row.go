package orm

import "database/sql"

// Row is one result row: column names paired with their values, in the
// order the executor returned them.
type Row struct {
	Columns []string
	Values  []any
}

// readRows drains rows into Row records and closes it.
// Driver []byte values are copied into strings.
func readRows(rows *sql.Rows) ([]Row, error) {
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err //nolint:wrapcheck // pass through
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out = append(out, Row{Columns: cols, Values: vals})
	}
	return out, rows.Err() //nolint:wrapcheck // pass through
}
