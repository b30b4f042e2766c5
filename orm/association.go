package orm

import (
	"fmt"

	"github.com/mickamy/databinge/internal/naming"
)

// Kind tags the variant of an Association.
type Kind int

const (
	// KindBelongsTo: the foreign key lives on the declaring model's table.
	KindBelongsTo Kind = iota + 1
	// KindHasMany: the foreign key lives on the target model's table.
	KindHasMany
	// KindHasManyThrough composes a HasMany on the declaring model with a
	// relationship declared on the intermediate model.
	KindHasManyThrough
)

func (k Kind) String() string {
	switch k {
	case KindBelongsTo:
		return "belongs_to"
	case KindHasMany:
		return "has_many"
	case KindHasManyThrough:
		return "has_many_through"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Association describes how one declared relationship resolves.
//
// For KindBelongsTo, ForeignKey is a column of the declaring model and
// PrimaryKey the referenced column of ClassName. For KindHasMany,
// ForeignKey is a column of ClassName and PrimaryKey the referenced column
// of the declaring model. An empty PrimaryKey stands for the primary key
// of the model on the referenced side, looked up when the relationship is
// resolved. KindHasManyThrough uses only Through and Source.
type Association struct {
	Name       string
	Kind       Kind
	ForeignKey string
	ClassName  string
	PrimaryKey string
	Through    string
	Source     string
}

// AssocOption overrides one default of a BelongsTo or HasMany declaration.
type AssocOption func(*Association)

// ForeignKey overrides the foreign key column.
func ForeignKey(col string) AssocOption {
	return func(a *Association) { a.ForeignKey = col }
}

// ClassName overrides the target model name.
func ClassName(name string) AssocOption {
	return func(a *Association) { a.ClassName = name }
}

// PrimaryKey overrides the referenced key column.
func PrimaryKey(col string) AssocOption {
	return func(a *Association) { a.PrimaryKey = col }
}

// keyOr returns the declared PrimaryKey, or pk when none was given.
func (a Association) keyOr(pk string) string {
	if a.PrimaryKey == "" {
		return pk
	}
	return a.PrimaryKey
}

// Declarer collects the relationship declarations of one model while it
// is being defined. It is only valid inside the build function passed to
// Registry.Define.
type Declarer struct {
	model  string
	assocs map[string]Association
	order  []string
	errs   []error
}

func newDeclarer(model string) *Declarer {
	return &Declarer{model: model, assocs: make(map[string]Association)}
}

// BelongsTo declares that the model holds a foreign key to one row of
// another model. Defaults: foreign key "<singular name>_id", class name
// the camelized singular of name, and the target model's primary key.
func (d *Declarer) BelongsTo(name string, opts ...AssocOption) {
	a := Association{
		Name:       name,
		Kind:       KindBelongsTo,
		ForeignKey: naming.BelongsToKey(name),
		ClassName:  naming.ClassName(name),
	}
	for _, o := range opts {
		o(&a)
	}
	d.add(a)
}

// HasMany declares that rows of another model hold a foreign key to this
// model. Defaults: foreign key "<lower-cased model name>_id", class name
// the camelized singular of name, and this model's primary key.
func (d *Declarer) HasMany(name string, opts ...AssocOption) {
	a := Association{
		Name:       name,
		Kind:       KindHasMany,
		ForeignKey: naming.HasManyKey(d.model),
		ClassName:  naming.ClassName(name),
	}
	for _, o := range opts {
		o(&a)
	}
	d.add(a)
}

// HasManyThrough declares a relationship reached by following the HasMany
// named through on this model, then source on the through model. Both are
// looked up when the relationship is resolved, not here.
func (d *Declarer) HasManyThrough(name, through, source string) {
	if through == "" || source == "" {
		d.errs = append(d.errs, fmt.Errorf("%w: %s.%s needs through and source relationships", ErrInvalidDeclaration, d.model, name))
		return
	}
	d.add(Association{Name: name, Kind: KindHasManyThrough, Through: through, Source: source})
}

// add stores a, replacing an earlier declaration of the same name in place.
func (d *Declarer) add(a Association) {
	if a.Name == "" {
		d.errs = append(d.errs, fmt.Errorf("%w: %s has a %s with no name", ErrInvalidDeclaration, d.model, a.Kind))
		return
	}
	if _, ok := d.assocs[a.Name]; !ok {
		d.order = append(d.order, a.Name)
	}
	d.assocs[a.Name] = a
}
