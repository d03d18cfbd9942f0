package cli

import (
	"taskdeck/internal/model"

	"github.com/spf13/cobra"
)

func newPromptsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Manage prompt templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			prompts, err := client.ListPrompts(cmd.Context())
			if err != nil {
				return err
			}
			return writeOut(cmd, app, prompts)
		},
	})

	var body string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			p, err := client.CreatePrompt(cmd.Context(), model.Prompt{Name: args[0], Body: body})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, p)
		},
	}
	create.Flags().StringVar(&body, "body", "", "Prompt body")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <prompt-id>",
		Short: "Delete a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			return client.DeletePrompt(cmd.Context(), args[0])
		},
	})

	return cmd
}
