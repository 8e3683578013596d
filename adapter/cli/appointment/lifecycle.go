package appointment

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipisou/garage/adapter/cli"
	"github.com/pipisou/garage/internal/appointments/application/commands"
)

var validateCmd = &cobra.Command{
	Use:   "validate [appointment-id] [date]",
	Short: "Confirm the appointment on a chosen date",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := cli.ParseID("appointment", args[0])
		if err != nil {
			return err
		}
		chosen, err := cli.ParseInstant(args[1], app.Calendar)
		if err != nil {
			return err
		}
		a, err := app.ValidateAppointmentHandler.Handle(cmd.Context(), commands.ValidateAppointmentCommand{
			ActorID:       app.ActorID,
			AppointmentID: id,
			ChosenDate:    chosen,
		})
		if err != nil {
			return fmt.Errorf("failed to validate appointment: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Appointment %s validated for %s\n",
			a.ID(), cli.FormatInstant(a.ChosenDate(), app.Calendar))
		return nil
	},
}

var newDates []string

var requestDatesCmd = &cobra.Command{
	Use:   "request-dates [appointment-id]",
	Short: "Replace the requested date ranges",
	Long: `Replace the client's requested date ranges. The chosen date is cleared
and the appointment goes back to pending.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := cli.ParseID("appointment", args[0])
		if err != nil {
			return err
		}
		ranges, err := parseRanges(newDates, app)
		if err != nil {
			return err
		}
		a, err := app.RequestNewDatesHandler.Handle(cmd.Context(), commands.RequestNewDatesCommand{
			ActorID:       app.ActorID,
			AppointmentID: id,
			Ranges:        ranges,
		})
		if err != nil {
			return fmt.Errorf("failed to request new dates: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Appointment %s now %s with %d requested ranges\n",
			a.ID(), a.Status(), len(a.RequestedDates()))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [appointment-id] [status]",
	Short: "Set the appointment status",
	Long: `Set the lifecycle status. One of: pending, validated, present, absent,
paid, reprogrammed-interval, reprogrammed-chosen-date.

Only present appointments block their mechanics' time by default.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := cli.ParseID("appointment", args[0])
		if err != nil {
			return err
		}
		a, err := app.UpdateStatusHandler.Handle(cmd.Context(), commands.UpdateStatusCommand{
			ActorID:       app.ActorID,
			AppointmentID: id,
			Status:        args[1],
		})
		if err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Appointment %s is now %s\n", a.ID(), a.Status())
		return nil
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "task-status [appointment-id] [slot-id] [status]",
	Short: "Set a task slot's progress (pending, in-progress, done)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := cli.ParseID("appointment", args[0])
		if err != nil {
			return err
		}
		slotID, err := cli.ParseID("slot", args[1])
		if err != nil {
			return err
		}
		if _, err := app.UpdateTaskStatusHandler.Handle(cmd.Context(), commands.UpdateTaskStatusCommand{
			ActorID:       app.ActorID,
			AppointmentID: id,
			SlotID:        slotID,
			Status:        args[2],
		}); err != nil {
			return fmt.Errorf("failed to update task status: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Slot %s is now %s\n", slotID, args[2])
		return nil
	},
}

var force bool

var deleteCmd = &cobra.Command{
	Use:     "delete [appointment-id]",
	Short:   "Delete an appointment and its quote",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := cli.ParseID("appointment", args[0])
		if err != nil {
			return err
		}
		if !force {
			fmt.Fprintf(cmd.OutOrStdout(), "This also deletes the quote. Re-run with --force to delete %s.\n", id)
			return nil
		}
		if err := app.DeleteAppointmentHandler.Handle(cmd.Context(), commands.DeleteAppointmentCommand{
			AppointmentID: id,
		}); err != nil {
			return fmt.Errorf("failed to delete appointment: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted appointment %s\n", id)
		return nil
	},
}

func init() {
	requestDatesCmd.Flags().StringArrayVar(&newDates, "date", nil, "requested range START/END, repeatable")
	deleteCmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")
}
