package cli

import (
	"encoding/json"

	"taskdeck/internal/model"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and edit backend configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the configuration document",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			cfg, err := client.GetConfig(cmd.Context())
			if err != nil {
				return err
			}
			return writeOut(cmd, app, cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration key (value parsed as JSON, else string)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			cfg, err := client.GetConfig(cmd.Context())
			if err != nil {
				return err
			}
			if cfg == nil {
				cfg = model.Config{}
			}

			// Accept JSON literals (numbers, booleans, objects); fall back to
			// the raw string.
			var v any
			if err := json.Unmarshal([]byte(args[1]), &v); err != nil {
				v = args[1]
			}
			cfg[args[0]] = v

			updated, err := client.UpdateConfig(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, updated)
		},
	})

	return cmd
}
