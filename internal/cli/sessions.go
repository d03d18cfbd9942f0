package cli

import (
	"github.com/spf13/cobra"
)

func newSessionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Browse sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			sessions, err := client.ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			return writeOut(cmd, app, sessions)
		},
	})

	return cmd
}

func newStreamsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streams",
		Short: "Browse streams",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List streams",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			streams, err := client.ListStreams(cmd.Context())
			if err != nil {
				return err
			}
			return writeOut(cmd, app, streams)
		},
	})

	return cmd
}
