// Package config loads model declarations from YAML and defines them on an
// orm.Registry.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mickamy/databinge/orm"
)

// Config is the top-level shape of a models file.
//
//	driver: sqlite3
//	dsn: file:app.db
//	models:
//	  - name: Driver
//	    belongs_to:
//	      - name: garage
//	    has_many:
//	      - name: cars
//	        foreign_key: owner_id
type Config struct {
	Driver             string  `yaml:"driver,omitempty"`
	DSN                string  `yaml:"dsn,omitempty"`
	StatementCacheSize int     `yaml:"statement_cache_size,omitempty"`
	Models             []Model `yaml:"models"`
}

// Model declares one model and its associations.
type Model struct {
	Name           string    `yaml:"name"`
	Table          string    `yaml:"table,omitempty"`
	PrimaryKey     string    `yaml:"primary_key,omitempty"`
	Keys           string    `yaml:"keys,omitempty"` // "uuid" | "ulid"
	BelongsTo      []Assoc   `yaml:"belongs_to,omitempty"`
	HasMany        []Assoc   `yaml:"has_many,omitempty"`
	HasManyThrough []Through `yaml:"has_many_through,omitempty"`
}

// Assoc is a belongs_to or has_many entry. Empty fields take the
// conventional defaults.
type Assoc struct {
	Name       string `yaml:"name"`
	ForeignKey string `yaml:"foreign_key,omitempty"`
	ClassName  string `yaml:"class_name,omitempty"`
	PrimaryKey string `yaml:"primary_key,omitempty"`
}

// Through is a has_many_through entry.
type Through struct {
	Name    string `yaml:"name"`
	Through string `yaml:"through"`
	Source  string `yaml:"source"`
}

// Load reads and parses a models file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read models file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a models document. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid models file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Models) == 0 {
		return errors.New("models list is required and must be non-empty")
	}
	if c.StatementCacheSize < 0 {
		return fmt.Errorf("statement_cache_size must not be negative, got %d", c.StatementCacheSize)
	}
	for i, m := range c.Models {
		if m.Name == "" {
			return fmt.Errorf("models[%d]: name is required", i)
		}
		switch m.Keys {
		case "", "uuid", "ulid":
		default:
			return fmt.Errorf("models[%d] %s: unknown keys %q (want uuid or ulid)", i, m.Name, m.Keys)
		}
		for j, a := range append(append([]Assoc{}, m.BelongsTo...), m.HasMany...) {
			if a.Name == "" {
				return fmt.Errorf("models[%d] %s: association %d: name is required", i, m.Name, j)
			}
		}
		for j, t := range m.HasManyThrough {
			if t.Name == "" || t.Through == "" || t.Source == "" {
				return fmt.Errorf("models[%d] %s: has_many_through[%d]: name, through and source are required", i, m.Name, j)
			}
		}
	}
	return nil
}

// RegistryOptions returns the registry options the file asks for.
func (c *Config) RegistryOptions() []orm.RegistryOption {
	if c.StatementCacheSize > 0 {
		return []orm.RegistryOption{orm.WithStatementCacheSize(c.StatementCacheSize)}
	}
	return nil
}

// Apply defines every model on reg, in file order. It stops at the first
// model the registry rejects.
func (c *Config) Apply(reg *orm.Registry) error {
	for _, m := range c.Models {
		if _, err := reg.Define(m.Name, m.declare, m.options()...); err != nil {
			return fmt.Errorf("define %s: %w", m.Name, err)
		}
	}
	return nil
}

func (m Model) declare(d *orm.Declarer) {
	for _, a := range m.BelongsTo {
		d.BelongsTo(a.Name, a.options()...)
	}
	for _, a := range m.HasMany {
		d.HasMany(a.Name, a.options()...)
	}
	for _, t := range m.HasManyThrough {
		d.HasManyThrough(t.Name, t.Through, t.Source)
	}
}

func (m Model) options() []orm.ModelOption {
	var opts []orm.ModelOption
	if m.Table != "" {
		opts = append(opts, orm.WithTable(m.Table))
	}
	if m.PrimaryKey != "" {
		opts = append(opts, orm.WithPrimaryKey(m.PrimaryKey))
	}
	switch m.Keys {
	case "uuid":
		opts = append(opts, orm.WithKeys(orm.UUIDKeys()))
	case "ulid":
		opts = append(opts, orm.WithKeys(orm.ULIDKeys()))
	}
	return opts
}

func (a Assoc) options() []orm.AssocOption {
	var opts []orm.AssocOption
	if a.ForeignKey != "" {
		opts = append(opts, orm.ForeignKey(a.ForeignKey))
	}
	if a.ClassName != "" {
		opts = append(opts, orm.ClassName(a.ClassName))
	}
	if a.PrimaryKey != "" {
		opts = append(opts, orm.PrimaryKey(a.PrimaryKey))
	}
	return opts
}
