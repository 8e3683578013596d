package mechanic

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipisou/garage/adapter/cli"
	"github.com/pipisou/garage/internal/workforce/application/commands"
)

var (
	absenceStart  string
	absenceEnd    string
	absenceReason string
)

var absenceCmd = &cobra.Command{
	Use:   "absence",
	Short: "Record or remove absences",
}

var absenceAddCmd = &cobra.Command{
	Use:   "add [mechanic-id] [date]",
	Short: "Record an absence",
	Long: `Record an absence on a date. Without --start and --end the whole day
is blocked.

Examples:
  garage mechanic absence add <id> 2024-06-24 --reason training
  garage mechanic absence add <id> 2024-06-25 --start 14:00 --end 17:00`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := cli.ParseID("mechanic", args[0])
		if err != nil {
			return err
		}
		result, err := app.RecordAbsenceHandler.Handle(cmd.Context(), commands.RecordAbsenceCommand{
			ActorID:    app.ActorID,
			MechanicID: id,
			Date:       args[1],
			Start:      absenceStart,
			End:        absenceEnd,
			Reason:     absenceReason,
		})
		if err != nil {
			return fmt.Errorf("failed to record absence: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded absence %s\n", result.AbsenceID)
		return nil
	},
}

var absenceRemoveCmd = &cobra.Command{
	Use:     "remove [mechanic-id] [absence-id]",
	Short:   "Remove an absence",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		mechanicID, err := cli.ParseID("mechanic", args[0])
		if err != nil {
			return err
		}
		absenceID, err := cli.ParseID("absence", args[1])
		if err != nil {
			return err
		}
		if err := app.RemoveAbsenceHandler.Handle(cmd.Context(), commands.RemoveAbsenceCommand{
			MechanicID: mechanicID,
			AbsenceID:  absenceID,
		}); err != nil {
			return fmt.Errorf("failed to remove absence: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Absence removed")
		return nil
	},
}

func init() {
	absenceAddCmd.Flags().StringVar(&absenceStart, "start", "", "start time (HH:MM)")
	absenceAddCmd.Flags().StringVar(&absenceEnd, "end", "", "end time (HH:MM)")
	absenceAddCmd.Flags().StringVar(&absenceReason, "reason", "", "reason")
	absenceCmd.AddCommand(absenceAddCmd)
	absenceCmd.AddCommand(absenceRemoveCmd)
}
