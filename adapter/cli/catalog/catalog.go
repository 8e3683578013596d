package catalog

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipisou/garage/adapter/cli"
	"github.com/pipisou/garage/internal/catalog/application/commands"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

// Cmd is the catalog command group
var Cmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the task and article catalogue",
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage task definitions",
}

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Manage articles",
}

var (
	taskPrice    string
	taskDuration int
	taskMargin   int
)

var taskAddCmd = &cobra.Command{
	Use:   "add [description]",
	Short: "Add a task definition",
	Long: `Add a task to the catalogue. The margin defaults to 10 minutes and is
added to the estimated duration when slots are validated.

Examples:
  garage catalog task add "Oil change" --price 89,90 --duration 30
  garage catalog task add "Timing belt" --price 450 --duration 180 --margin 30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		price, err := sharedDomain.ParseCents(taskPrice)
		if err != nil {
			return fmt.Errorf("invalid --price: %w", err)
		}

		c := commands.CreateTaskDefinitionCommand{
			Description:      args[0],
			PriceCents:       price,
			EstimatedMinutes: taskDuration,
		}
		if cmd.Flags().Changed("margin") {
			c.MarginMinutes = &taskMargin
		}
		result, err := app.CreateTaskDefinitionHandler.Handle(cmd.Context(), c)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added task: %s\n", args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", result.TaskID)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List task definitions",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		tasks, err := app.ListTaskDefinitionsHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks in the catalogue.")
			return nil
		}
		for _, t := range tasks {
			fmt.Fprintf(out, "%s  %-30s %10s  %d+%d min\n",
				t.ID, t.Description, cli.FormatCents(t.PriceCents), t.EstimatedMinutes, t.MarginMinutes)
		}
		return nil
	},
}

var articleReference string

var articleAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Register an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		result, err := app.RegisterArticleHandler.Handle(cmd.Context(), commands.RegisterArticleCommand{
			Name:      args[0],
			Reference: articleReference,
		})
		if err != nil {
			return fmt.Errorf("failed to register article: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered article: %s\n", args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", result.ArticleID)
		return nil
	},
}

var articleListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List articles",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		articles, err := app.ListArticlesHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list articles: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(articles) == 0 {
			fmt.Fprintln(out, "No articles registered.")
			return nil
		}
		for _, a := range articles {
			fmt.Fprintf(out, "%s  %-30s %s\n", a.ID, a.Name, a.Reference)
		}
		return nil
	},
}

func init() {
	taskAddCmd.Flags().StringVar(&taskPrice, "price", "", "price (e.g. 89.90 or 89,90)")
	taskAddCmd.Flags().IntVar(&taskDuration, "duration", 0, "estimated duration in minutes")
	taskAddCmd.Flags().IntVar(&taskMargin, "margin", 10, "safety margin in minutes")
	_ = taskAddCmd.MarkFlagRequired("price")
	_ = taskAddCmd.MarkFlagRequired("duration")

	articleAddCmd.Flags().StringVar(&articleReference, "ref", "", "supplier reference")

	taskCmd.AddCommand(taskAddCmd, taskListCmd)
	articleCmd.AddCommand(articleAddCmd, articleListCmd)
	Cmd.AddCommand(taskCmd, articleCmd)
}
