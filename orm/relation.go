package orm

import (
	"context"
	"fmt"
)

// Related resolves the relationship declared as name on the instance's
// model and returns the related rows.
//
// A BelongsTo returns the target rows whose primary key equals this
// instance's foreign key. A HasMany returns the target rows whose foreign
// key equals this instance's key. A HasManyThrough joins the through
// model's table with the source model's table and returns source rows.
// Instances with a nil key have no related rows.
func (i *Instance) Related(ctx context.Context, name string) ([]*Instance, error) {
	m := i.model
	a, ok := m.Association(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no relationship %q", ErrUnresolvedAssociation, m.name, name)
	}

	switch a.Kind {
	case KindBelongsTo:
		return i.belongsTo(ctx, a)
	case KindHasMany:
		return i.hasMany(ctx, a)
	case KindHasManyThrough:
		return i.hasManyThrough(ctx, a)
	default:
		return nil, fmt.Errorf("%w: %s.%s has kind %s", ErrUnresolvedAssociation, m.name, name, a.Kind)
	}
}

// RelatedOne is Related narrowed to its first row, or nil if there is none.
func (i *Instance) RelatedOne(ctx context.Context, name string) (*Instance, error) {
	found, err := i.Related(ctx, name)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (i *Instance) belongsTo(ctx context.Context, a Association) ([]*Instance, error) {
	target, err := i.model.target(a)
	if err != nil {
		return nil, err
	}
	fk, err := i.Get(a.ForeignKey)
	if err != nil || fk == nil {
		return nil, err
	}
	return target.Where(ctx, Params{a.keyOr(target.pk): fk})
}

func (i *Instance) hasMany(ctx context.Context, a Association) ([]*Instance, error) {
	target, err := i.model.target(a)
	if err != nil {
		return nil, err
	}
	owner, err := i.Get(a.keyOr(i.model.pk))
	if err != nil || owner == nil {
		return nil, err
	}
	return target.Where(ctx, Params{a.ForeignKey: owner})
}

func (i *Instance) hasManyThrough(ctx context.Context, a Association) ([]*Instance, error) {
	m := i.model

	through, ok := m.Association(a.Through)
	if !ok || through.Kind != KindHasMany {
		return nil, fmt.Errorf("%w: %s.%s goes through %q, which is not a has_many of %s",
			ErrUnresolvedAssociation, m.name, a.Name, a.Through, m.name)
	}
	throughModel, err := m.target(through)
	if err != nil {
		return nil, err
	}

	source, ok := throughModel.Association(a.Source)
	if !ok || source.Kind == KindHasManyThrough {
		return nil, fmt.Errorf("%w: %s.%s needs a belongs_to or has_many %q on %s",
			ErrUnresolvedAssociation, m.name, a.Name, a.Source, throughModel.name)
	}
	sourceModel, err := throughModel.target(source)
	if err != nil {
		return nil, err
	}

	through.PrimaryKey = through.keyOr(m.pk)
	if source.Kind == KindHasMany {
		source.PrimaryKey = source.keyOr(throughModel.pk)
	} else {
		source.PrimaryKey = source.keyOr(sourceModel.pk)
	}

	owner, err := i.Get(through.PrimaryKey)
	if err != nil || owner == nil {
		return nil, err
	}
	l, err := sourceModel.columns(ctx)
	if err != nil {
		return nil, err
	}

	j := newThroughJoin(throughModel.table, sourceModel.table, through, source)
	query := m.registry.statement(j.key(), j.build)
	return sourceModel.query(ctx, l, query, []any{owner})
}

// ReferencedKey returns the column a's foreign key is matched against:
// the declared PrimaryKey, or else the primary key of m for a has_many and
// of the target model for a belongs_to.
func (m *Model) ReferencedKey(a Association) (string, error) {
	switch a.Kind {
	case KindHasMany:
		return a.keyOr(m.pk), nil
	case KindBelongsTo:
		if a.PrimaryKey != "" {
			return a.PrimaryKey, nil
		}
		t, err := m.target(a)
		if err != nil {
			return "", err
		}
		return t.pk, nil
	default:
		return "", fmt.Errorf("%w: %s.%s is a %s and has no referenced key", ErrUnresolvedAssociation, m.name, a.Name, a.Kind)
	}
}

// target resolves the model a BelongsTo or HasMany points at.
func (m *Model) target(a Association) (*Model, error) {
	t, err := m.registry.Model(a.ClassName)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", m.name, a.Name, err)
	}
	return t, nil
}
