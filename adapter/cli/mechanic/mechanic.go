package mechanic

import (
	"github.com/spf13/cobra"
)

// Cmd is the mechanic command group
var Cmd = &cobra.Command{
	Use:   "mechanic",
	Short: "Manage mechanics",
	Long:  `Register mechanics, set their weekly working hours and record absences.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(scheduleCmd)
	Cmd.AddCommand(absenceCmd)
}
