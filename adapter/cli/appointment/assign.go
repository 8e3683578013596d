package appointment

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pipisou/garage/adapter/cli"
	"github.com/pipisou/garage/internal/appointments/application/commands"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

var slotFlags []string

var assignCmd = &cobra.Command{
	Use:   "assign [appointment-id]",
	Short: "Assign mechanics and times to task slots",
	Long: `Update one or more slots of an appointment. Each --slot is
SLOT_ID[,mechanic=ID][,start=TIME][,end=TIME]; omitted fields keep their
current value.

Every change of mechanic or time is checked against the mechanic's working
hours, absences and other committed tasks, and against the task's estimated
duration plus margin.

Examples:
  garage appointment assign <id> --slot <slot>,mechanic=<mechanic>,start=2024-06-17T09:00,end=2024-06-17T10:00`,
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
		if len(slotFlags) == 0 {
			return fmt.Errorf("at least one --slot is required")
		}
		updates := make([]commands.SlotUpdate, 0, len(slotFlags))
		for _, f := range slotFlags {
			u, err := parseSlotFlag(f, app.Calendar)
			if err != nil {
				return err
			}
			updates = append(updates, u)
		}

		result, err := app.UpdateTaskAssignmentsHandler.Handle(cmd.Context(), commands.UpdateTaskAssignmentsCommand{
			ActorID:       app.ActorID,
			AppointmentID: id,
			Updates:       updates,
		})
		if err != nil {
			return fmt.Errorf("failed to update assignments: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, s := range result.Slots {
			if s.Applied {
				fmt.Fprintf(out, "  ok        %s\n", s.SlotID)
				continue
			}
			fmt.Fprintf(out, "  rejected  %s  %s: %s\n", s.SlotID, s.Reason, s.Message)
		}
		if !result.Committed {
			fmt.Fprintln(out, "No changes saved.")
		}
		if result.Rejected() {
			return fmt.Errorf("some slots were rejected")
		}
		return nil
	},
}

func parseSlotFlag(s string, cal sharedDomain.Calendar) (commands.SlotUpdate, error) {
	parts := strings.Split(s, ",")
	slotID, err := cli.ParseID("slot", parts[0])
	if err != nil {
		return commands.SlotUpdate{}, err
	}
	u := commands.SlotUpdate{SlotID: slotID}
	for _, p := range parts[1:] {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return commands.SlotUpdate{}, fmt.Errorf("invalid slot field %q, use key=value", p)
		}
		switch strings.TrimSpace(key) {
		case "mechanic":
			id, err := cli.ParseID("mechanic", value)
			if err != nil {
				return commands.SlotUpdate{}, err
			}
			u.MechanicID = &id
		case "start":
			t, err := cli.ParseInstant(value, cal)
			if err != nil {
				return commands.SlotUpdate{}, err
			}
			u.Start = &t
		case "end":
			t, err := cli.ParseInstant(value, cal)
			if err != nil {
				return commands.SlotUpdate{}, err
			}
			u.End = &t
		default:
			return commands.SlotUpdate{}, fmt.Errorf("unknown slot field %q", key)
		}
	}
	return u, nil
}

func init() {
	assignCmd.Flags().StringArrayVar(&slotFlags, "slot", nil, "slot update, repeatable")
}
