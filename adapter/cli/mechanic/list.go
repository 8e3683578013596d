package mechanic

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pipisou/garage/adapter/cli"
	"github.com/pipisou/garage/internal/workforce/application/queries"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List mechanics",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		mechanics, err := app.ListMechanicsHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list mechanics: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(mechanics) == 0 {
			fmt.Fprintln(out, "No mechanics registered.")
			return nil
		}
		for _, m := range mechanics {
			fmt.Fprintf(out, "%s  %s %s  %s\n", m.ID, m.FirstName, m.LastName, workingDays(m))
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [mechanic-id]",
	Short: "Show a mechanic's schedule and absences",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := cli.ParseID("mechanic", args[0])
		if err != nil {
			return err
		}
		m, err := app.GetMechanicHandler.Handle(cmd.Context(), queries.GetMechanicQuery{MechanicID: id})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s (%s)\n", m.FirstName, m.LastName, m.ID)
		if m.Email != "" {
			fmt.Fprintf(out, "  Email: %s\n", m.Email)
		}
		if m.Schedule == nil {
			fmt.Fprintln(out, "  No schedule")
		} else {
			fmt.Fprintf(out, "  Schedule effective from %s\n", m.Schedule.EffectiveFrom)
			for _, d := range m.Schedule.Days {
				pause := ""
				if d.PauseStart != "" {
					pause = fmt.Sprintf(" (pause %s-%s)", d.PauseStart, d.PauseEnd)
				}
				fmt.Fprintf(out, "    %-9s %s-%s%s\n", d.Day, d.Start, d.End, pause)
			}
		}
		for _, a := range m.Absences {
			fmt.Fprintf(out, "  Absent %s %s-%s %s [%s]\n", a.Date, a.Start, a.End, a.Reason, a.ID)
		}
		return nil
	},
}

func workingDays(m queries.MechanicDTO) string {
	if m.Schedule == nil {
		return "no schedule"
	}
	days := make([]string, 0, len(m.Schedule.Days))
	for _, d := range m.Schedule.Days {
		days = append(days, d.Day[:3])
	}
	return strings.Join(days, ",")
}
