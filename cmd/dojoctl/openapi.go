package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dojolog/dojolog-server/internal/api"
)

func newOpenAPICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "openapi",
		Short: "Print the HTTP API's OpenAPI document",
		Long:  "Print the OpenAPI document as YAML, or as JSON with --format json. No database is opened.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := api.NewServer(&api.Services{}, api.Options{}, slog.New(slog.DiscardHandler))
			defer srv.Close()

			doc := srv.API().OpenAPI()

			var (
				out []byte
				err error
			)
			if opts.Format == "json" {
				out, err = doc.MarshalJSON()
			} else {
				out, err = doc.YAML()
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
