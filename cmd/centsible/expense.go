package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/service"
)

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Manage expenses",
		Long:  `Add, list, recategorize, and delete expense transactions.`,
	}

	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(recategorizeExpenseCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

func addExpenseCmd() *cobra.Command {
	var (
		category string
		merchant string
		dateStr  string
	)

	cmd := &cobra.Command{
		Use:   "add <amount> <description>",
		Short: "Record an expense",
		Long: `Record an expense transaction. When --category is omitted the
classifier predicts one from the description and merchant.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			description := args[1]

			day := time.Now()
			if dateStr != "" {
				if day, err = parseDate(dateStr); err != nil {
					return err
				}
			}

			taxonomy := config.DefaultTaxonomy()
			if category != "" && !taxonomy.IsExpenseCategory(category) {
				return fmt.Errorf("unknown category %q, run 'centsible categories' to see valid ones", category)
			}

			classifier, err := initClassifier()
			if err != nil {
				return err
			}
			prediction := classifier.Classify(description, merchant)

			txn := &model.Transaction{
				Kind:              model.KindExpense,
				Amount:            amount,
				Description:       description,
				Merchant:          merchant,
				Category:          category,
				PredictedCategory: prediction.Category,
				Date:              day,
			}
			if txn.Category == "" {
				txn.Category = prediction.Category
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := store.SaveTransaction(ctx, txn)
			if err != nil {
				return fmt.Errorf("failed to save expense: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded expense #%d: %s for %s (%s)",
				id, cli.Money(amount), description, txn.Category)))
			if category == "" && prediction.Confidence > 0 {
				fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  classifier confidence: %.0f%%", prediction.Confidence*100)))
			} else if category == "" {
				fmt.Println(cli.SubtleStyle.Render("  low confidence, filed under " + txn.Category +
					"; use 'centsible expense recategorize' to correct"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "expense category (predicted when omitted)")
	cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "merchant name")
	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "transaction date (YYYY-MM-DD, default today)")

	return cmd
}

func listExpensesCmd() *cobra.Command {
	var (
		month    string
		category string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Long:  `Display recorded expenses, newest first. Rows where the stored category differs from the classifier's prediction are marked.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := service.TransactionFilter{Category: category, Limit: limit}
			if month != "" {
				monthRange, err := monthFilter(month)
				if err != nil {
					return err
				}
				filter.StartDate = monthRange.StartDate
				filter.EndDate = monthRange.EndDate
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			expenses, err := store.ListExpenses(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list expenses: %w", err)
			}
			if len(expenses) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses found. Use 'centsible expense add' to record one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", "ID", "Date", "Amount", "Category", "Description")
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 10),
				strings.Repeat("-", 10),
				strings.Repeat("-", 16),
				strings.Repeat("-", 30))

			for _, txn := range expenses {
				categoryCell := txn.Category
				if txn.PredictedCategory != "" && txn.PredictedCategory != txn.Category {
					categoryCell += cli.SubtleStyle.Render(" (predicted: " + txn.PredictedCategory + ")")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n",
					txn.ID, txn.Date.Format("2006-01-02"), cli.Money(txn.Amount), categoryCell, txn.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "restrict to a calendar month (YYYY-MM)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "restrict to one category")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum rows to show (0 = all)")

	return cmd
}

func recategorizeExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recategorize <id> <category>",
		Short: "Correct an expense's category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q: %w", args[0], err)
			}
			category := args[1]
			if !config.DefaultTaxonomy().IsExpenseCategory(category) {
				return fmt.Errorf("unknown category %q, run 'centsible categories' to see valid ones", category)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			txn, err := store.GetTransaction(ctx, id)
			if err != nil {
				return err
			}
			if err := store.UpdateTransactionCategory(ctx, id, category, txn.PredictedCategory); err != nil {
				return fmt.Errorf("failed to recategorize: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Expense #%d moved from %s to %s", id, txn.Category, category)))
			return nil
		},
	}
}

// deleteTransactionCmd deletes by id regardless of kind, so it hangs off
// both the expense and income command trees.
func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteTransaction(ctx, id); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted transaction #%d", id)))
			return nil
		},
	}
}
