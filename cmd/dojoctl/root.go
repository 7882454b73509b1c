package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/dojolog/dojolog-server/internal/config"
	"github.com/dojolog/dojolog-server/internal/di"
)

// validFormats lists the accepted --format values.
var validFormats = []string{"text", "json"}

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Env      string
	LogLevel string
	DataPath string
	Syllabus string
	EnvFile  string
	Format   string
}

// configArgs turns the global flags into arguments for config.Load.
// Unset flags are left out so env and .env values still apply.
func (o *rootOptions) configArgs(cmd *cobra.Command) []string {
	args := []string{"-log-level", o.LogLevel, "-env-file", o.EnvFile}
	for flag, value := range map[string]string{
		"env":       o.Env,
		"data-path": o.DataPath,
		"syllabus":  o.Syllabus,
	} {
		if cmd.Flags().Changed(flag) {
			args = append(args, "-"+flag, value)
		}
	}
	return args
}

// container loads configuration and builds the DI container for one command run.
func (o *rootOptions) container(cmd *cobra.Command) (*do.RootScope, *config.Config, error) {
	cfg, err := config.Load(o.configArgs(cmd))
	if err != nil {
		return nil, nil, err
	}
	return di.NewContainer(cfg), cfg, nil
}

func (o *rootOptions) print(w io.Writer, v any, text func(io.Writer)) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "dojoctl",
		Short: "dojolog admin CLI",
		Long:  "Administrative commands for a dojolog server: schema migrations, index inspection, demo data and API docs.",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.Env, "env", "development", "environment (development, staging, production)")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.DataPath, "data-path", "", "data directory holding the database and sessions")
	flags.StringVar(&opts.Syllabus, "syllabus", "", "syllabus YAML file (default: built-in)")
	flags.StringVar(&opts.EnvFile, "env-file", ".env", "optional .env file")
	flags.StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newIndexesCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newOpenAPICommand(opts))

	return cmd
}
