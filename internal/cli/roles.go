package cli

import (
	"taskdeck/internal/model"

	"github.com/spf13/cobra"
)

func newRolesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Manage agent roles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List agent roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			roles, err := client.ListAgentRoles(cmd.Context())
			if err != nil {
				return err
			}
			return writeOut(cmd, app, roles)
		},
	})

	var instructions string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an agent role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			r, err := client.CreateAgentRole(cmd.Context(), model.AgentRole{
				Name:         args[0],
				Instructions: instructions,
			})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, r)
		},
	}
	create.Flags().StringVar(&instructions, "instructions", "", "Role instructions")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <role-id>",
		Short: "Delete an agent role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			return client.DeleteAgentRole(cmd.Context(), args[0])
		},
	})

	return cmd
}
