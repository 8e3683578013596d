package appointment

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipisou/garage/adapter/cli"
	"github.com/pipisou/garage/internal/appointments/application/queries"
	schedulingQueries "github.com/pipisou/garage/internal/scheduling/application/queries"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice [appointment-id]",
	Short: "Show the amounts billed for an appointment",
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
		inv, err := app.GetInvoiceHandler.Handle(cmd.Context(), queries.GetInvoiceQuery{AppointmentID: id})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Invoice for %s [%s]\n", inv.AppointmentID, inv.Status)
		for _, l := range inv.TaskLines {
			fmt.Fprintf(out, "  %-36s %3d x %10s = %10s\n",
				l.Label, l.Quantity, cli.FormatCents(l.UnitPriceCents), cli.FormatCents(l.TotalCents))
		}
		for _, l := range inv.ArticleLines {
			fmt.Fprintf(out, "  %-36s %3d x %10s = %10s\n",
				l.Label, l.Quantity, cli.FormatCents(l.UnitPriceCents), cli.FormatCents(l.TotalCents))
		}
		fmt.Fprintf(out, "  Total:      %s\n", cli.FormatCents(inv.TotalCents))
		fmt.Fprintf(out, "  Amount due: %s\n", cli.FormatCents(inv.AmountDueCents))
		return nil
	},
}

var attemptsCmd = &cobra.Command{
	Use:   "attempts [appointment-id]",
	Short: "Show the scheduling decisions taken for an appointment",
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
		attempts, err := app.ListAttemptsHandler.Handle(cmd.Context(),
			schedulingQueries.ListAssignmentAttemptsQuery{AppointmentID: id})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No scheduling attempts recorded.")
			return nil
		}
		for _, a := range attempts {
			outcome := "accepted"
			if !a.Accepted {
				outcome = "rejected: " + a.Reason
			}
			fmt.Fprintf(out, "%s  slot %s  mechanic %s  %s -> %s  %s\n",
				cli.FormatInstant(&a.AttemptedAt, app.Calendar), a.SlotID, a.MechanicID,
				cli.FormatInstant(&a.Start, app.Calendar), cli.FormatInstant(&a.End, app.Calendar), outcome)
		}
		return nil
	},
}
