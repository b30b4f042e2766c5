package orm_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/databinge/orm"
)

const fixtureSchema = `
CREATE TABLE garages (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE drivers (id INTEGER PRIMARY KEY, name TEXT NOT NULL, garage_id INTEGER);
CREATE TABLE cars (id INTEGER PRIMARY KEY, make TEXT NOT NULL, owner_id INTEGER);
CREATE TABLE students (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE courses (id INTEGER PRIMARY KEY, title TEXT NOT NULL);
CREATE TABLE enrollments (id INTEGER PRIMARY KEY, student_id INTEGER, course_id INTEGER);
CREATE TABLE tickets (id INTEGER PRIMARY KEY, note TEXT, created_at DATETIME, updated_at DATETIME);
CREATE TABLE badges (id TEXT PRIMARY KEY, label TEXT NOT NULL);
CREATE TABLE chauffeurs (id INTEGER PRIMARY KEY, name TEXT NOT NULL, garage_id INTEGER);
CREATE TABLE autos (id INTEGER PRIMARY KEY, make TEXT NOT NULL, owner_id INTEGER);
CREATE TABLE tags (id TEXT PRIMARY KEY, label TEXT NOT NULL, created_at DATETIME, updated_at DATETIME);
CREATE TABLE regions (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE depots (code TEXT PRIMARY KEY, city TEXT NOT NULL, region_id INTEGER);
CREATE TABLE vans (id INTEGER PRIMARY KEY, plate TEXT NOT NULL, depot_id TEXT);
CREATE TABLE parcels (id INTEGER PRIMARY KEY, van_id INTEGER, weight INTEGER);
`

// openSQLite returns a fresh in-memory database with the fixture schema,
// wrapped in a recording TestQuerier.
func openSQLite(t *testing.T) (*orm.TestQuerier, *sql.DB) {
	t.Helper()

	raw, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every pooled connection would get its own in-memory database.
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	_, err = raw.Exec(fixtureSchema)
	require.NoError(t, err)

	return orm.NewTestQuerier(orm.New(raw, orm.SQLite)), raw
}

func exec(t *testing.T, raw *sql.DB, query string, args ...any) {
	t.Helper()
	_, err := raw.Exec(query, args...)
	require.NoError(t, err)
}

// garageRegistry declares the Car / Driver / Garage models.
func garageRegistry(db orm.Querier) *orm.Registry {
	reg := orm.NewRegistry(db)
	reg.MustDefine("Car", func(d *orm.Declarer) {
		d.BelongsTo("driver", orm.ForeignKey("owner_id"))
	})
	reg.MustDefine("Driver", func(d *orm.Declarer) {
		d.BelongsTo("garage")
		d.HasMany("cars", orm.ForeignKey("owner_id"))
	})
	reg.MustDefine("Garage", func(d *orm.Declarer) {
		d.HasMany("drivers")
		d.HasManyThrough("cars", "drivers", "cars")
	})
	return reg
}

// seedGarage inserts garage 7, driver 1 working there with cars 1 and 2,
// and driver 2 elsewhere with car 3.
func seedGarage(t *testing.T, raw *sql.DB) {
	t.Helper()
	exec(t, raw, `INSERT INTO garages (id, name) VALUES (7, 'Central'), (8, 'North')`)
	exec(t, raw, `INSERT INTO drivers (id, name, garage_id) VALUES (1, 'Ayrton', 7), (2, 'Niki', 8)`)
	exec(t, raw, `INSERT INTO cars (id, make, owner_id) VALUES (1, 'Volvo', 1), (2, 'Saab', 1), (3, 'Fiat', 2)`)
}

// depotRegistry declares Region / Depot / Van / Parcel, where Depot is keyed
// by code instead of id.
func depotRegistry(db orm.Querier) *orm.Registry {
	reg := orm.NewRegistry(db)
	reg.MustDefine("Region", func(d *orm.Declarer) {
		d.HasMany("depots")
		d.HasManyThrough("vans", "depots", "vans")
	})
	reg.MustDefine("Depot", func(d *orm.Declarer) {
		d.BelongsTo("region")
		d.HasMany("vans")
		d.HasManyThrough("parcels", "vans", "parcels")
		d.HasManyThrough("homes", "vans", "depot")
	}, orm.WithPrimaryKey("code"))
	reg.MustDefine("Van", func(d *orm.Declarer) {
		d.BelongsTo("depot")
		d.HasMany("parcels")
	})
	reg.MustDefine("Parcel", func(d *orm.Declarer) {
		d.BelongsTo("van")
	})
	return reg
}

// seedDepots inserts region 1 with depots NTH (vans 1 and 2) and STH
// (van 3), one parcel per van.
func seedDepots(t *testing.T, raw *sql.DB) {
	t.Helper()
	exec(t, raw, `INSERT INTO regions (id, name) VALUES (1, 'England')`)
	exec(t, raw, `INSERT INTO depots (code, city, region_id) VALUES ('NTH', 'Leeds', 1), ('STH', 'Bristol', 1)`)
	exec(t, raw, `INSERT INTO vans (id, plate, depot_id) VALUES (1, 'AB12', 'NTH'), (2, 'CD34', 'NTH'), (3, 'EF56', 'STH')`)
	exec(t, raw, `INSERT INTO parcels (id, van_id, weight) VALUES (1, 1, 5), (2, 2, 7), (3, 3, 9)`)
}

func mustModel(t *testing.T, reg *orm.Registry, name string) *orm.Model {
	t.Helper()
	m, err := reg.Model(name)
	require.NoError(t, err)
	return m
}

func ids(t *testing.T, insts []*orm.Instance) []any {
	t.Helper()
	out := make([]any, len(insts))
	for i, inst := range insts {
		out[i] = inst.ID()
	}
	return out
}
