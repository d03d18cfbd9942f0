package cli

import (
	"taskdeck/internal/model"

	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Backend health and queue statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}

			// Health and stats degrade independently: report whatever the
			// backend answered instead of aborting on the first failure.
			out := struct {
				Health *model.Health `json:"health,omitempty"`
				Stats  *model.Stats  `json:"stats,omitempty"`
				Errors []string      `json:"errors,omitempty"`
			}{}

			if h, err := client.Health(cmd.Context()); err != nil {
				out.Errors = append(out.Errors, err.Error())
			} else {
				out.Health = &h
			}
			if s, err := client.Stats(cmd.Context()); err != nil {
				out.Errors = append(out.Errors, err.Error())
			} else {
				out.Stats = &s
			}

			return writeOut(cmd, app, out)
		},
	}
}
