package main

import (
	"fmt"
	"os"
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

func incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Manage income",
		Long:  `Add, list, and delete income transactions.`,
	}

	cmd.AddCommand(addIncomeCmd())
	cmd.AddCommand(listIncomesCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

func addIncomeCmd() *cobra.Command {
	var (
		description string
		dateStr     string
	)

	cmd := &cobra.Command{
		Use:   "add <amount> <source>",
		Short: "Record income",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			source := args[1]

			taxonomy := config.DefaultTaxonomy()
			if !taxonomy.IsIncomeSource(source) {
				return fmt.Errorf("unknown income source %q (valid: %s)",
					source, strings.Join(taxonomy.IncomeSources, ", "))
			}

			day := time.Now()
			if dateStr != "" {
				if day, err = parseDate(dateStr); err != nil {
					return err
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := store.SaveTransaction(ctx, &model.Transaction{
				Kind:        model.KindIncome,
				Amount:      amount,
				Source:      source,
				Description: description,
				Date:        day,
			})
			if err != nil {
				return fmt.Errorf("failed to save income: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded income #%d: %s from %s", id, cli.Money(amount), source)))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "note", "", "optional note")
	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "transaction date (YYYY-MM-DD, default today)")

	return cmd
}

func listIncomesCmd() *cobra.Command {
	var (
		month string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List income",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := service.TransactionFilter{Limit: limit}
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

			incomes, err := store.ListIncomes(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list income: %w", err)
			}
			if len(incomes) == 0 {
				fmt.Println(cli.InfoStyle.Render("No income found. Use 'centsible income add' to record some."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", "ID", "Date", "Amount", "Source")
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 10),
				strings.Repeat("-", 10),
				strings.Repeat("-", 12))

			for _, txn := range incomes {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\n",
					txn.ID, txn.Date.Format("2006-01-02"), cli.Money(txn.Amount), txn.Source)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "restrict to a calendar month (YYYY-MM)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum rows to show (0 = all)")

	return cmd
}
