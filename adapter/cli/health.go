package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database and Redis connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		report := app.Health.Check(cmd.Context())
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, report.Status)
		for name, res := range report.Checks {
			fmt.Fprintf(out, "  %-10s %s %s\n", name, res.Status, res.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
