package main

import (
	"fmt"
	"io"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/dojolog/dojolog-server/internal/di/providers"
	"github.com/dojolog/dojolog-server/internal/store/sqlite"
)

type migrateResult struct {
	Database      string `json:"database"`
	SchemaVersion int64  `json:"schema_version"`
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			injector, cfg, err := opts.container(cmd)
			if err != nil {
				return err
			}
			defer injector.Shutdown()

			db, err := do.Invoke[*providers.DatabaseHandle](injector)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := db.Migrate(ctx); err != nil {
				return err
			}
			version, err := db.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			res := migrateResult{Database: cfg.Data.DatabasePath(), SchemaVersion: version}
			return opts.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "%s is at schema version %d\n", res.Database, res.SchemaVersion)
			})
		},
	}
}

type indexResult struct {
	Name    string `json:"name"`
	Unique  bool   `json:"unique"`
	Partial bool   `json:"partial"`
	SQL     string `json:"sql,omitempty"`
}

func newIndexesCommand(opts *rootOptions) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "Print the indexes declared on a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			injector, _, err := opts.container(cmd)
			if err != nil {
				return err
			}
			defer injector.Shutdown()

			db, err := do.Invoke[*providers.DatabaseHandle](injector)
			if err != nil {
				return err
			}

			indexes, err := db.Indexes(cmd.Context(), table)
			if err != nil {
				return err
			}
			if len(indexes) == 0 {
				return fmt.Errorf("table %q has no indexes", table)
			}

			res := toIndexResults(indexes)
			return opts.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				for _, idx := range res {
					fmt.Fprintf(w, "%s unique=%t partial=%t\n", idx.Name, idx.Unique, idx.Partial)
					if idx.SQL != "" {
						fmt.Fprintf(w, "  %s\n", idx.SQL)
					}
				}
			})
		},
	}

	cmd.Flags().StringVar(&table, "table", "forms", "table to inspect")

	return cmd
}

func toIndexResults(indexes []sqlite.Index) []indexResult {
	out := make([]indexResult, len(indexes))
	for i, idx := range indexes {
		out[i] = indexResult{Name: idx.Name, Unique: idx.Unique, Partial: idx.Partial, SQL: idx.SQL}
	}
	return out
}
