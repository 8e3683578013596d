package appointment

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pipisou/garage/adapter/cli"
	"github.com/pipisou/garage/internal/appointments/application/commands"
	"github.com/pipisou/garage/internal/appointments/domain"
)

var lineFlags []string

var articlesCmd = &cobra.Command{
	Use:   "articles [appointment-id]",
	Short: "Replace the articles consumed by an appointment",
	Long: `Replace the consumed-article list. Each --line is
ARTICLE_ID:QUANTITY:SALE_PRICE:PURCHASE_PRICE:SUPPLIER. Lines with the same
article, prices and supplier are merged. Malformed lines are skipped and
reported. Passing no --line clears the list.

Examples:
  garage appointment articles <id> --line <article>:2:12,50:8,00:ACME`,
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
		lines := make([]domain.ArticleLine, 0, len(lineFlags))
		for _, f := range lineFlags {
			lines = append(lines, parseLineFlag(f))
		}

		result, err := app.UpdateConsumedArticlesHandler.Handle(cmd.Context(), commands.UpdateConsumedArticlesCommand{
			ActorID:       app.ActorID,
			AppointmentID: id,
			Lines:         lines,
		})
		if err != nil {
			return fmt.Errorf("failed to update articles: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, a := range result.Articles {
			fmt.Fprintf(out, "  %d x %s @ %s (%s)\n",
				a.Quantity, a.ArticleName, cli.FormatCents(a.SaleUnitPriceCents), a.Supplier)
		}
		for _, s := range result.Skipped {
			fmt.Fprintf(out, "  skipped line %d: %s\n", s.Index+1, s.Reason)
		}
		fmt.Fprintf(out, "%d articles saved\n", len(result.Articles))
		return nil
	},
}

// parseLineFlag splits a --line value. Missing fields stay empty and are
// reported as malformed by the handler.
func parseLineFlag(s string) domain.ArticleLine {
	parts := strings.SplitN(s, ":", 5)
	for len(parts) < 5 {
		parts = append(parts, "")
	}
	return domain.ArticleLine{
		ArticleID:     parts[0],
		Quantity:      parts[1],
		SalePrice:     parts[2],
		PurchasePrice: parts[3],
		Supplier:      parts[4],
	}
}

func init() {
	articlesCmd.Flags().StringArrayVar(&lineFlags, "line", nil, "consumed article line, repeatable")
}
