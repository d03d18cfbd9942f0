package cli

import (
	"taskdeck/internal/api"

	"github.com/spf13/cobra"
)

func newQueuesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queues",
		Short: "Browse and manage queues",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List queues",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			queues, err := client.ListQueues(cmd.Context())
			if err != nil {
				return err
			}
			return writeOut(cmd, app, queues)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <queue-id>",
		Short: "Show one queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			q, err := client.GetQueue(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeOut(cmd, app, q)
		},
	})

	var sessionID, instructions string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			q, err := client.CreateQueue(cmd.Context(), api.CreateQueueRequest{
				SessionID:    sessionID,
				Name:         args[0],
				Instructions: instructions,
			})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, q)
		},
	}
	create.Flags().StringVar(&sessionID, "session", "", "Session the queue belongs to")
	create.Flags().StringVar(&instructions, "instructions", "", "Markdown instructions for workers")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "archive <queue-id>",
		Short: "Archive a queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			q, err := client.ArchiveQueue(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeOut(cmd, app, q)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unarchive <queue-id>",
		Short: "Restore an archived queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			q, err := client.UnarchiveQueue(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeOut(cmd, app, q)
		},
	})

	return cmd
}
