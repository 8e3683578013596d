package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipisou/garage/internal/shared/infrastructure/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply the embedded schema to the configured database. Migrations also
run on startup; this command is for provisioning a database ahead of time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		if err := migrations.Run(cmd.Context(), app.Conn); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s)\n", app.Conn.Driver())
		return nil
	},
}

var retentionDays int

var outboxCmd = &cobra.Command{
	Use:   "outbox",
	Short: "Inspect and drain the event outbox",
}

var outboxFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Publish one batch of pending events",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		if err := app.OutboxProcessor.ProcessOnce(cmd.Context()); err != nil {
			return fmt.Errorf("failed to publish events: %w", err)
		}
		stats := app.OutboxProcessor.GetStats()
		fmt.Fprintf(cmd.OutOrStdout(), "Published %d, failed %d, dead %d\n",
			stats.PublishedCount, stats.FailedCount, stats.DeadCount)
		return nil
	},
}

var outboxCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete published events older than the retention period",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		days := retentionDays
		if days <= 0 {
			days = app.Config.OutboxRetentionDays
		}
		deleted, err := app.OutboxRepo.DeleteOld(cmd.Context(), days)
		if err != nil {
			return fmt.Errorf("failed to clean up outbox: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d events older than %d days\n", deleted, days)
		return nil
	},
}

func init() {
	outboxCleanupCmd.Flags().IntVar(&retentionDays, "days", 0, "retention in days (defaults to OUTBOX_RETENTION_DAYS)")
	outboxCmd.AddCommand(outboxFlushCmd, outboxCleanupCmd)
	rootCmd.AddCommand(migrateCmd, outboxCmd)
}
