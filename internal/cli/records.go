package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mickamy/databinge/orm"
	"github.com/mickamy/databinge/scope"
)

// NewModelsCommand creates the models command.
func NewModelsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List declared models with their tables and associations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				var lines []string
				for _, m := range s.reg.Models() {
					lines = append(lines, fmt.Sprintf("%s (%s, pk %s)", m.Name(), m.TableName(), m.PrimaryKey()))
					for _, a := range m.Associations() {
						lines = append(lines, "  "+describe(m, a))
					}
				}
				return s.out.Value(lines)
			})
		},
	}
}

func describe(m *orm.Model, a orm.Association) string {
	if a.Kind == orm.KindHasManyThrough {
		return fmt.Sprintf("%s %s through %s source %s", a.Kind, a.Name, a.Through, a.Source)
	}
	key, err := m.ReferencedKey(a)
	if err != nil {
		key = "unresolved"
	}
	return fmt.Sprintf("%s %s -> %s (foreign key %s, primary key %s)", a.Kind, a.Name, a.ClassName, a.ForeignKey, key)
}

// NewColumnsCommand creates the columns command.
func NewColumnsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <model>",
		Short: "Print the introspected columns of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				m, err := s.model(args[0])
				if err != nil {
					return err
				}
				cols, err := m.Columns(cmd.Context())
				if err != nil {
					return err //nolint:wrapcheck // pass through
				}
				return s.out.Value(cols)
			})
		},
	}
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <model> <id>",
		Short: "Find a record by primary key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				inst, err := find(cmd, s, args[0], args[1])
				if err != nil {
					return err
				}
				return s.out.Record(inst)
			})
		},
	}
}

func find(cmd *cobra.Command, s *session, model, id string) (*orm.Instance, error) {
	m, err := s.model(model)
	if err != nil {
		return nil, err
	}
	inst, err := m.Find(cmd.Context(), id)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	if inst == nil {
		return nil, notFound(m, id)
	}
	return inst, nil
}

type listOptions struct {
	order  string
	limit  int
	offset int
}

func (o *listOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.order, "order", "", "ORDER BY clause, e.g. \"id DESC\"")
	cmd.Flags().IntVar(&o.limit, "limit", 0, "maximum number of rows (0 for no limit)")
	cmd.Flags().IntVar(&o.offset, "offset", 0, "rows to skip")
}

func (o *listOptions) scopes() scope.Scopes {
	var s scope.Scopes
	if o.order != "" {
		s = s.Append(scope.OrderBy(o.order))
	}
	if o.limit > 0 {
		s = s.Append(scope.Limit(o.limit))
	}
	if o.offset > 0 {
		s = s.Append(scope.Offset(o.offset))
	}
	return s
}

// NewAllCommand creates the all command.
func NewAllCommand(rootOpts *RootOptions) *cobra.Command {
	var lo listOptions
	cmd := &cobra.Command{
		Use:   "all <model>",
		Short: "List every record of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				m, err := s.model(args[0])
				if err != nil {
					return err
				}
				insts, err := m.All(cmd.Context(), lo.scopes()...)
				if err != nil {
					return err //nolint:wrapcheck // pass through
				}
				return s.out.Records(insts)
			})
		},
	}
	lo.bind(cmd)
	return cmd
}

// NewWhereCommand creates the where command.
func NewWhereCommand(rootOpts *RootOptions) *cobra.Command {
	var lo listOptions
	cmd := &cobra.Command{
		Use:   "where <model> <column=value>...",
		Short: "List records matching every column=value pair",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				m, err := s.model(args[0])
				if err != nil {
					return err
				}
				insts, err := m.Where(cmd.Context(), p, lo.scopes()...)
				if err != nil {
					return err //nolint:wrapcheck // pass through
				}
				return s.out.Records(insts)
			})
		},
	}
	lo.bind(cmd)
	return cmd
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count <model> [column=value]...",
		Short: "Count records, optionally matching column=value pairs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				m, err := s.model(args[0])
				if err != nil {
					return err
				}
				n, err := m.Count(cmd.Context(), p)
				if err != nil {
					return err //nolint:wrapcheck // pass through
				}
				return s.out.Value(n)
			})
		},
	}
}

// NewRelatedCommand creates the related command.
func NewRelatedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "related <model> <id> <association>",
		Short: "Follow an association from a record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				inst, err := find(cmd, s, args[0], args[1])
				if err != nil {
					return err
				}
				related, err := inst.Related(cmd.Context(), args[2])
				if err != nil {
					return err //nolint:wrapcheck // pass through
				}
				return s.out.Records(related)
			})
		},
	}
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save <model> <column=value>...",
		Short: "Insert a record, or update it when the primary key is given",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				m, err := s.model(args[0])
				if err != nil {
					return err
				}
				inst, err := saveTarget(cmd, m, p)
				if err != nil {
					return err
				}
				if err := inst.Save(cmd.Context()); err != nil {
					return err //nolint:wrapcheck // pass through
				}
				return s.out.Record(inst)
			})
		},
	}
}

// saveTarget loads the record named by p's primary key and applies p to
// it. Without a primary key in p it builds a new instance.
func saveTarget(cmd *cobra.Command, m *orm.Model, p orm.Params) (*orm.Instance, error) {
	id, ok := p[m.PrimaryKey()]
	if !ok {
		return m.New(cmd.Context(), p) //nolint:wrapcheck // pass through
	}
	inst, err := m.Find(cmd.Context(), id)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	if inst == nil {
		return nil, notFound(m, id)
	}
	for col, v := range p {
		if err := inst.Set(col, v); err != nil {
			return nil, err //nolint:wrapcheck // pass through
		}
	}
	return inst, nil
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <model> <id>",
		Short: "Delete a record by primary key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				inst, err := find(cmd, s, args[0], args[1])
				if err != nil {
					return err
				}
				if err := inst.Delete(cmd.Context()); err != nil {
					return err //nolint:wrapcheck // pass through
				}
				return s.out.Record(inst)
			})
		},
	}
}
