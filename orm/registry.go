package orm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mickamy/databinge/internal/naming"
)

// Registry is the set of models that can refer to each other by name.
// Relationship targets are looked up here when a relationship is
// resolved, so models may be defined in any order.
type Registry struct {
	db    Querier
	stmts *statementCache

	mu     sync.RWMutex
	models map[string]*Model
	order  []*Model
}

type registryConfig struct {
	cacheSize int
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryConfig)

// WithStatementCacheSize bounds the number of rendered statements kept.
func WithStatementCacheSize(n int) RegistryOption {
	return func(c *registryConfig) { c.cacheSize = n }
}

// NewRegistry returns an empty Registry whose models run their statements
// through db.
func NewRegistry(db Querier, opts ...RegistryOption) *Registry {
	cfg := registryConfig{cacheSize: defaultStatementCacheSize}
	for _, o := range opts {
		o(&cfg)
	}
	return &Registry{
		db:     db,
		stmts:  newStatementCache(cfg.cacheSize),
		models: make(map[string]*Model),
	}
}

// ModelOption configures a Model at definition time.
type ModelOption func(*Model)

// WithTable overrides the table name derived from the model name.
func WithTable(name string) ModelOption {
	return func(m *Model) { m.table = name }
}

// WithPrimaryKey overrides the primary key column (default "id").
func WithPrimaryKey(col string) ModelOption {
	return func(m *Model) { m.pk = col }
}

// WithKeys makes Insert generate primary keys with gen instead of reading
// them back from the database.
func WithKeys(gen KeyGenerator) ModelOption {
	return func(m *Model) { m.keys = gen }
}

// Define registers a model named name. build, if non-nil, declares the
// model's relationships; it runs once and the result is frozen.
//
//	reg.Define("Driver", func(d *orm.Declarer) {
//	    d.BelongsTo("garage")
//	    d.HasMany("cars", orm.ForeignKey("owner_id"))
//	})
func (r *Registry) Define(name string, build func(*Declarer), opts ...ModelOption) (*Model, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: model name is empty", ErrInvalidDeclaration)
	}

	d := newDeclarer(name)
	if build != nil {
		build(d)
	}
	if len(d.errs) > 0 {
		return nil, errors.Join(d.errs...)
	}

	m := &Model{
		name:     name,
		table:    naming.TableName(name),
		pk:       "id",
		assocs:   d.assocs,
		order:    d.order,
		registry: r,
	}
	for _, o := range opts {
		o(m)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.models[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateModel, name)
	}
	r.models[name] = m
	r.order = append(r.order, m)
	return m, nil
}

// MustDefine is like Define but panics on error.
func (r *Registry) MustDefine(name string, build func(*Declarer), opts ...ModelOption) *Model {
	m, err := r.Define(name, build, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Model returns the model registered as name.
func (r *Registry) Model(name string) (*Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: no model named %q", ErrUnresolvedAssociation, name)
	}
	return m, nil
}

// Models returns every registered model in definition order.
func (r *Registry) Models() []*Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Model(nil), r.order...)
}

// Introspect loads the column set of every registered model.
func (r *Registry) Introspect(ctx context.Context) error {
	for _, m := range r.Models() {
		if _, err := m.Columns(ctx); err != nil {
			return fmt.Errorf("orm: introspect %s: %w", m.name, err)
		}
	}
	return nil
}

// CachedStatements reports how many rendered statements are cached.
func (r *Registry) CachedStatements() int {
	return r.stmts.len()
}

// statement returns the SQL text for key, rendering it with build and
// rewriting its placeholders for the executor's dialect on first use.
func (r *Registry) statement(key string, build func(Dialect) string) string {
	d := r.db.dialect()
	return r.stmts.getOrBuild(key, func() string {
		return rewritePlaceholders(d, build(d))
	})
}
