package mechanic

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pipisou/garage/adapter/cli"
	"github.com/pipisou/garage/internal/workforce/application/commands"
)

var (
	effectiveFrom string
	dayFlags      []string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [mechanic-id]",
	Short: "Set a mechanic's weekly working hours",
	Long: `Set a new weekly schedule. The most recently set schedule replaces any
earlier one.

Each --day is DAY=START-END, optionally followed by ,PAUSE_START-PAUSE_END.

Examples:
  garage mechanic schedule <id> --from 2024-06-01 \
    --day monday=08:00-17:00,12:00-13:00 \
    --day tuesday=08:00-12:00`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := cli.ParseID("mechanic", args[0])
		if err != nil {
			return err
		}
		days := make([]commands.WorkDayInput, 0, len(dayFlags))
		for _, f := range dayFlags {
			day, err := parseDayFlag(f)
			if err != nil {
				return err
			}
			days = append(days, day)
		}

		result, err := app.SetScheduleHandler.Handle(cmd.Context(), commands.SetScheduleCommand{
			ActorID:       app.ActorID,
			MechanicID:    id,
			EffectiveFrom: effectiveFrom,
			Days:          days,
		})
		if err != nil {
			return fmt.Errorf("failed to set schedule: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schedule %s set with %d working days\n", result.ScheduleID, len(days))
		return nil
	},
}

// parseDayFlag reads "monday=08:00-17:00,12:00-13:00".
func parseDayFlag(s string) (commands.WorkDayInput, error) {
	day, hours, ok := strings.Cut(s, "=")
	if !ok {
		return commands.WorkDayInput{}, fmt.Errorf("invalid --day %q, use DAY=START-END[,PAUSE_START-PAUSE_END]", s)
	}
	shift, pause, hasPause := strings.Cut(hours, ",")
	in := commands.WorkDayInput{Day: strings.TrimSpace(day)}
	if in.Start, in.End, ok = strings.Cut(shift, "-"); !ok {
		return commands.WorkDayInput{}, fmt.Errorf("invalid hours %q in --day %q", shift, s)
	}
	if hasPause {
		if in.PauseStart, in.PauseEnd, ok = strings.Cut(pause, "-"); !ok {
			return commands.WorkDayInput{}, fmt.Errorf("invalid pause %q in --day %q", pause, s)
		}
	}
	return in, nil
}

func init() {
	scheduleCmd.Flags().StringVar(&effectiveFrom, "from", "", "date the schedule applies from (YYYY-MM-DD)")
	scheduleCmd.Flags().StringArrayVar(&dayFlags, "day", nil, "working day, repeatable")
	_ = scheduleCmd.MarkFlagRequired("from")
	_ = scheduleCmd.MarkFlagRequired("day")
}
