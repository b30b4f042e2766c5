package orm

import (
	"reflect"

	"github.com/mickamy/databinge/internal/naming"
)

// TableNamer can be implemented by Go types passed to DefineFor to
// override the derived table name.
type TableNamer interface {
	TableName() string
}

// ResolveTableName returns the table name for type T.
// If T implements TableNamer (value or pointer receiver), that name is used;
// otherwise fallback is returned.
func ResolveTableName[T any](fallback string) string {
	var zero T
	if tn, ok := any(&zero).(TableNamer); ok {
		return tn.TableName()
	}
	return fallback
}

// DefineFor defines a model named after Go type T. The table name comes
// from T's TableNamer implementation when it has one; an explicit
// WithTable in opts still wins.
//
//	type Garage struct{}
//	orm.DefineFor[Garage](reg, func(d *orm.Declarer) { d.HasMany("drivers") })
func DefineFor[T any](r *Registry, build func(*Declarer), opts ...ModelOption) (*Model, error) {
	name := reflect.TypeFor[T]().Name()
	table := ResolveTableName[T](naming.TableName(name))
	return r.Define(name, build, append([]ModelOption{WithTable(table)}, opts...)...)
}
