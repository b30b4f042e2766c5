package cli

import (
	"log/slog"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/mickamy/databinge/internal/config"
	"github.com/mickamy/databinge/orm"
)

// session is an open connection with the models file applied.
type session struct {
	db  *orm.DB
	reg *orm.Registry
	out *OutputFormatter
}

func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	cfg, err := config.Load(opts.Models)
	if err != nil {
		return nil, usageError("load models: %w", err)
	}

	driver, dsn := cfg.Driver, cfg.DSN
	if opts.Driver != "" {
		driver = opts.Driver
	}
	if opts.DSN != "" {
		dsn = opts.DSN
	}
	if driver == "" {
		return nil, usageError("no driver: set --driver or driver in the models file")
	}

	db, err := orm.Open(driver, dsn)
	if err != nil {
		return nil, usageError("open database: %w", err)
	}
	if opts.Verbose {
		h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
		db = db.Debug(orm.SlogLogger(slog.New(h)))
	}

	if err := db.PingContext(cmd.Context()); err != nil {
		_ = db.Close()
		return nil, usageError("connect: %w", err)
	}

	reg := orm.NewRegistry(db, cfg.RegistryOptions()...)
	if err := cfg.Apply(reg); err != nil {
		_ = db.Close()
		return nil, usageError("apply models: %w", err)
	}

	return &session{
		db:  db,
		reg: reg,
		out: &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()},
	}, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

func (s *session) model(name string) (*orm.Model, error) {
	m, err := s.reg.Model(name)
	if err != nil {
		return nil, usageError("unknown model: %w", err)
	}
	return m, nil
}

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, opts *RootOptions, fn func(*session) error) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	return fn(s)
}

// parseParams turns col=value arguments into Params. Values stay strings;
// the driver converts them for the column.
func parseParams(args []string) (orm.Params, error) {
	p := make(orm.Params, len(args))
	for _, arg := range args {
		col, val, ok := strings.Cut(arg, "=")
		if !ok || col == "" {
			return nil, usageError("expected column=value, got %q", arg)
		}
		p[col] = val
	}
	return p, nil
}
