package main

import (
	"fmt"
	"io"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/dojolog/dojolog-server/internal/service"
)

func newSeedCommand(opts *rootOptions) *cobra.Command {
	var (
		email    string
		password string
		learned  bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset the demo account to hold every syllabus form",
		Long: `Ensure the demo user exists, delete all of its forms and insert one form per
syllabus entry. Running it again leaves the same data. An existing demo user keeps its password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			injector, cfg, err := opts.container(cmd)
			if err != nil {
				return err
			}
			defer injector.Shutdown()

			seedOpts := service.SeedOptions{
				Email:       cfg.Seed.DemoEmail,
				Password:    cfg.Seed.DemoPassword,
				MarkLearned: cfg.Seed.MarkLearned,
			}
			if cmd.Flags().Changed("email") {
				seedOpts.Email = email
			}
			if cmd.Flags().Changed("password") {
				seedOpts.Password = password
			}
			if cmd.Flags().Changed("learned") {
				seedOpts.MarkLearned = learned
			}

			seeder, err := do.Invoke[*service.Seeder](injector)
			if err != nil {
				return err
			}

			res, err := seeder.Seed(cmd.Context(), seedOpts)
			if err != nil {
				return err
			}

			return opts.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "user %s (created=%t): removed %d, inserted %d forms\n",
					res.UserID, res.UserCreated, res.Removed, res.Inserted)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "demo user email (default from SEED_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "demo user password, used only when the user is created")
	cmd.Flags().BoolVar(&learned, "learned", false, "mark every seeded form as learned")

	return cmd
}
