package quote

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipisou/garage/adapter/cli"
	"github.com/pipisou/garage/internal/quotes/application/commands"
	"github.com/pipisou/garage/internal/quotes/application/queries"
)

// Cmd is the quote command group
var Cmd = &cobra.Command{
	Use:   "quote",
	Short: "Manage quotes",
}

var (
	clientID  string
	vehicleID string
)

var createCmd = &cobra.Command{
	Use:   "create [task-id...]",
	Short: "Create a quote for catalogue tasks",
	Long: `Create a quote listing catalogue tasks. A reference such as DEV-00001 is
generated. An appointment created from the quote gets one slot per task.

Examples:
  garage quote create <task-id> <task-id> --client <id> --vehicle <id>`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		client, err := cli.ParseID("client", clientID)
		if err != nil {
			return err
		}
		vehicle, err := cli.ParseID("vehicle", vehicleID)
		if err != nil {
			return err
		}
		taskIDs, err := cli.ParseIDs("task", args)
		if err != nil {
			return err
		}

		result, err := app.CreateQuoteHandler.Handle(cmd.Context(), commands.CreateQuoteCommand{
			ActorID:   app.ActorID,
			ClientID:  client,
			VehicleID: vehicle,
			TaskIDs:   taskIDs,
		})
		if err != nil {
			return fmt.Errorf("failed to create quote: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created quote %s\n", result.Reference)
		fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", result.QuoteID)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [quote-id]",
	Short: "Show a quote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := cli.ParseID("quote", args[0])
		if err != nil {
			return err
		}
		q, err := app.GetQuoteHandler.Handle(cmd.Context(), queries.GetQuoteQuery{QuoteID: id})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", q.Reference, q.ID)
		fmt.Fprintf(out, "  Client:  %s\n", q.ClientID)
		fmt.Fprintf(out, "  Vehicle: %s\n", q.VehicleID)
		fmt.Fprintf(out, "  Created: %s\n", cli.FormatInstant(&q.CreatedAt, app.Calendar))
		for _, t := range q.TaskIDs {
			fmt.Fprintf(out, "  - %s\n", t)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&clientID, "client", "", "client id")
	createCmd.Flags().StringVar(&vehicleID, "vehicle", "", "vehicle id")
	_ = createCmd.MarkFlagRequired("client")
	_ = createCmd.MarkFlagRequired("vehicle")

	Cmd.AddCommand(createCmd, showCmd)
}
