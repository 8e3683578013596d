package mechanic

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipisou/garage/adapter/cli"
	"github.com/pipisou/garage/internal/workforce/application/commands"
)

var email string

var createCmd = &cobra.Command{
	Use:   "create [first-name] [last-name]",
	Short: "Register a mechanic",
	Long: `Register a new mechanic. The mechanic has no working hours until a
schedule is set with "garage mechanic schedule".

Examples:
  garage mechanic create Jane Doe
  garage mechanic create Jane Doe --email jane@example.com`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		result, err := app.CreateMechanicHandler.Handle(cmd.Context(), commands.CreateMechanicCommand{
			ActorID:   app.ActorID,
			FirstName: args[0],
			LastName:  args[1],
			Email:     email,
		})
		if err != nil {
			return fmt.Errorf("failed to create mechanic: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Registered mechanic: %s %s\n", args[0], args[1])
		fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", result.MechanicID)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&email, "email", "", "contact email")
}
