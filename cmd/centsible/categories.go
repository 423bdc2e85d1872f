package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/config"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List expense categories and income sources",
		Long:  `Display the expense categories (with their budget bucket) and the valid income sources.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			taxonomy := config.DefaultTaxonomy()

			bucket := make(map[string]string, len(taxonomy.ExpenseCategories))
			for _, name := range taxonomy.NeedsCategories {
				bucket[name] = "needs"
			}
			for _, name := range taxonomy.WantsCategories {
				bucket[name] = "wants"
			}
			for _, name := range taxonomy.SavingsCategories {
				bucket[name] = "savings"
			}

			fmt.Println(cli.TitleStyle.Render("Expense categories"))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t\n", "Category", "Bucket")
			fmt.Fprintf(w, "%s\t%s\t\n", strings.Repeat("-", 16), strings.Repeat("-", 8))
			for _, name := range taxonomy.ExpenseCategories {
				assigned := bucket[name]
				if assigned == "" {
					assigned = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t\n", name, assigned)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Println()
			fmt.Println(cli.TitleStyle.Render("Income sources"))
			fmt.Println("  " + strings.Join(taxonomy.IncomeSources, ", "))
			return nil
		},
	}
}
