// Package cli implements the databinge command line: it loads model
// declarations, connects to a database and runs finders and associations
// against it.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Driver  string
	DSN     string
	Models  string
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "databinge",
		Short: "Query a database through declared models",
		Long: `databinge reads model declarations from a YAML file, introspects the
matching tables and lets you find records and walk their associations.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "database/sql driver (mysql|pgx|postgres|sqlite3); overrides the models file")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "data source name; overrides the models file")
	cmd.PersistentFlags().StringVarP(&opts.Models, "models", "m", "models.yaml", "models file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every statement to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewModelsCommand(opts))
	cmd.AddCommand(NewColumnsCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewAllCommand(opts))
	cmd.AddCommand(NewWhereCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewRelatedCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}
