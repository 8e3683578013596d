package appointment

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pipisou/garage/adapter/cli"
	"github.com/pipisou/garage/internal/appointments/application/queries"
)

// Cmd is the appointment command group
var Cmd = &cobra.Command{
	Use:     "appointment",
	Short:   "Manage appointments",
	Aliases: []string{"appt"},
	Long: `Create appointments from quotes, schedule their task slots on mechanics
and track them through to payment.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(assignCmd)
	Cmd.AddCommand(articlesCmd)
	Cmd.AddCommand(validateCmd)
	Cmd.AddCommand(requestDatesCmd)
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(taskStatusCmd)
	Cmd.AddCommand(invoiceCmd)
	Cmd.AddCommand(attemptsCmd)
	Cmd.AddCommand(deleteCmd)
}

func printAppointment(out io.Writer, app *cli.App, a *queries.AppointmentDTO) {
	fmt.Fprintf(out, "Appointment %s [%s]\n", a.ID, a.Status)
	fmt.Fprintf(out, "  Client: %s\n", a.ClientID)
	fmt.Fprintf(out, "  Quote:  %s\n", a.QuoteID)
	fmt.Fprintf(out, "  Chosen: %s\n", cli.FormatInstant(a.ChosenDate, app.Calendar))
	for _, r := range a.RequestedDates {
		fmt.Fprintf(out, "  Requested: %s - %s\n",
			cli.FormatInstant(&r.Start, app.Calendar), cli.FormatInstant(&r.End, app.Calendar))
	}

	fmt.Fprintln(out, "  Slots:")
	for _, s := range a.Slots {
		mechanic := "unassigned"
		if s.MechanicID != nil {
			mechanic = s.MechanicID.String()
		}
		fmt.Fprintf(out, "    %s  task %s  %s -> %s  %s  (%s)\n",
			s.SlotID, s.TaskID,
			cli.FormatInstant(s.Start, app.Calendar), cli.FormatInstant(s.End, app.Calendar),
			mechanic, s.Status)
	}

	if len(a.ConsumedArticles) > 0 {
		fmt.Fprintln(out, "  Articles:")
		for _, c := range a.ConsumedArticles {
			fmt.Fprintf(out, "    %d x %s @ %s (%s)\n",
				c.Quantity, c.ArticleName, cli.FormatCents(c.SaleUnitPriceCents), c.Supplier)
		}
	}
}
