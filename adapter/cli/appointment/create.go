package appointment

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipisou/garage/adapter/cli"
	"github.com/pipisou/garage/internal/appointments/application/commands"
	"github.com/pipisou/garage/internal/appointments/application/queries"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

var (
	requestedDates []string
	listStatus     string
	listClient     string
)

var createCmd = &cobra.Command{
	Use:   "create [quote-id]",
	Short: "Create an appointment from a quote",
	Long: `Create an appointment with one unassigned slot per task of the quote.

Examples:
  garage appointment create <quote-id> --date "2024-06-17 08:00/2024-06-17 12:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		quoteID, err := cli.ParseID("quote", args[0])
		if err != nil {
			return err
		}
		ranges, err := parseRanges(requestedDates, app)
		if err != nil {
			return err
		}

		result, err := app.CreateAppointmentHandler.Handle(cmd.Context(), commands.CreateAppointmentCommand{
			ActorID:        app.ActorID,
			QuoteID:        quoteID,
			RequestedDates: ranges,
		})
		if err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created appointment %s with %d slots\n", result.AppointmentID, len(result.SlotIDs))
		for _, id := range result.SlotIDs {
			fmt.Fprintf(out, "  slot %s\n", id)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [appointment-id]",
	Short: "Show an appointment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := cli.ParseID("appointment", args[0])
		if err != nil {
			return err
		}
		a, err := app.GetAppointmentHandler.Handle(cmd.Context(), queries.GetAppointmentQuery{AppointmentID: id})
		if err != nil {
			return err
		}
		printAppointment(cmd.OutOrStdout(), app, a)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List appointments",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		q := queries.ListAppointmentsQuery{Status: listStatus}
		if listClient != "" {
			if q.ClientID, err = cli.ParseID("client", listClient); err != nil {
				return err
			}
		}
		appointments, err := app.ListAppointmentsHandler.Handle(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("failed to list appointments: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(appointments) == 0 {
			fmt.Fprintln(out, "No appointments found.")
			return nil
		}
		for _, a := range appointments {
			fmt.Fprintf(out, "%s  %-24s client %s  chosen %s  %d slots\n",
				a.ID, a.Status, a.ClientID, cli.FormatInstant(a.ChosenDate, app.Calendar), len(a.Slots))
		}
		return nil
	},
}

func parseRanges(values []string, app *cli.App) ([]sharedDomain.TimeRange, error) {
	ranges := make([]sharedDomain.TimeRange, 0, len(values))
	for _, v := range values {
		r, err := cli.ParseRange(v, app.Calendar)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func init() {
	createCmd.Flags().StringArrayVar(&requestedDates, "date", nil, "requested range START/END, repeatable")
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status")
	listCmd.Flags().StringVar(&listClient, "client", "", "filter by client id")
}
