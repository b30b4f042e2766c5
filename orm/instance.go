package orm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Instance is one row of a Model. Its Attributes hold exactly the model's
// columns.
type Instance struct {
	Attributes
	model *Model
}

func (i *Instance) Model() *Model { return i.model }

// Insert writes the instance as a new row and sets its primary key.
// The primary key column is left to the database unless the model was
// defined WithKeys, in which case a key is generated when none is set.
// On error the instance is left as it was before the call.
func (i *Instance) Insert(ctx context.Context) (err error) {
	m := i.model
	r := m.registry

	prev := i.Values()
	defer func() {
		if err != nil {
			i.values = prev
		}
	}()

	i.stampCreated(ctx)
	generated := m.keys != nil
	if generated && i.ID() == nil {
		key, err := m.keys.NewKey()
		if err != nil {
			return fmt.Errorf("orm: %s: generate key: %w", m.name, err)
		}
		i.setID(key)
	}

	cols, vals := i.pairs(generated)
	returning := !generated && r.db.dialect().UseReturning()
	key := fmt.Sprintf("insert|%s|%s|%t|%s", m.table, m.pk, generated, strings.Join(cols, ","))
	query := r.statement(key, func(d Dialect) string {
		q := buildInsert(d, m.table, cols)
		if returning {
			q += d.ReturningClause(m.pk)
		}
		return q
	})

	if returning {
		rows, err := r.db.QueryContext(ctx, query, vals...)
		if err != nil {
			return err //nolint:wrapcheck // pass through
		}
		defer func() { _ = rows.Close() }()
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return err //nolint:wrapcheck // pass through
			}
			return errors.New("orm: INSERT RETURNING returned no rows")
		}
		var id any
		if err := rows.Scan(&id); err != nil {
			return err //nolint:wrapcheck // pass through
		}
		if b, ok := id.([]byte); ok {
			id = string(b)
		}
		i.setID(id)
		return rows.Err() //nolint:wrapcheck // pass through
	}

	result, err := r.db.ExecContext(ctx, query, vals...)
	if err != nil {
		return err //nolint:wrapcheck // pass through
	}
	if !generated {
		id, err := result.LastInsertId()
		if err != nil {
			return err //nolint:wrapcheck // pass through
		}
		i.setID(id)
	}
	return nil
}

// Update writes every non-key column to the row identified by the
// instance's primary key. Values are bound in column order, followed by
// the primary key for the WHERE clause. A failed update restores the
// previous updated_at.
func (i *Instance) Update(ctx context.Context) (err error) {
	m := i.model
	r := m.registry

	pk := i.ID()
	if pk == nil {
		return fmt.Errorf("%w: %s.Update", ErrMissingPrimaryKey, m.name)
	}
	prev := i.Values()
	defer func() {
		if err != nil {
			i.values = prev
		}
	}()
	i.stampUpdated(ctx)

	cols, vals := i.pairs(false)
	if len(cols) == 0 {
		return nil
	}
	vals = append(vals, pk)

	key := "update|" + m.table + "|" + m.pk + "|" + strings.Join(cols, ",")
	query := r.statement(key, func(d Dialect) string {
		return buildUpdate(d, m.table, cols, m.pk)
	})
	_, err = r.db.ExecContext(ctx, query, vals...)
	return err //nolint:wrapcheck // pass through
}

// Save updates the row if the primary key is set, and inserts it otherwise.
func (i *Instance) Save(ctx context.Context) error {
	if i.ID() != nil {
		return i.Update(ctx)
	}
	return i.Insert(ctx)
}

// Delete removes the row identified by the instance's primary key.
// The instance keeps its attributes.
func (i *Instance) Delete(ctx context.Context) error {
	m := i.model
	r := m.registry

	pk := i.ID()
	if pk == nil {
		return fmt.Errorf("%w: %s.Delete", ErrMissingPrimaryKey, m.name)
	}
	query := r.statement("delete|"+m.table+"|"+m.pk, func(d Dialect) string {
		return buildDelete(d, m.table, m.pk)
	})
	_, err := r.db.ExecContext(ctx, query, pk)
	return err //nolint:wrapcheck // pass through
}
