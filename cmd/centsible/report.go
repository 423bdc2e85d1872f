package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/service"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports",
		Long:  `Summaries, health scoring, and budget suggestions computed from your transactions.`,
	}

	cmd.AddCommand(overviewReportCmd())
	cmd.AddCommand(categoriesReportCmd())
	cmd.AddCommand(monthlyReportCmd())
	cmd.AddCommand(healthReportCmd())
	cmd.AddCommand(budgetReportCmd())

	return cmd
}

// loadTransactions fetches the expenses and incomes a report works on,
// optionally restricted to one calendar month.
func loadTransactions(ctx context.Context, month string) ([]model.Transaction, []model.Transaction, error) {
	filter := service.TransactionFilter{}
	if month != "" {
		var err error
		if filter, err = monthFilter(month); err != nil {
			return nil, nil, err
		}
	}

	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()

	expenses, err := store.ListExpenses(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	incomes, err := store.ListIncomes(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list income: %w", err)
	}
	return expenses, incomes, nil
}

func overviewReportCmd() *cobra.Command {
	var (
		month  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Income, expenses, balance, and savings rate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			expenses, incomes, err := loadTransactions(cmd.Context(), month)
			if err != nil {
				return err
			}

			eng, err := initEngine()
			if err != nil {
				return err
			}
			overview, err := eng.Overview(expenses, incomes)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(overview)
			}
			fmt.Print(cli.RenderOverview(overview))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "restrict to a calendar month (YYYY-MM)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of styled text")

	return cmd
}

func categoriesReportCmd() *cobra.Command {
	var (
		month  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Spending broken down by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			expenses, _, err := loadTransactions(cmd.Context(), month)
			if err != nil {
				return err
			}

			eng, err := initEngine()
			if err != nil {
				return err
			}
			rows, err := eng.CategorySummary(expenses)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses yet. Use 'centsible expense add' to record one."))
				return nil
			}

			if asJSON {
				return printJSON(rows)
			}
			fmt.Print(cli.RenderCategorySummary(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "restrict to a calendar month (YYYY-MM)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of styled text")

	return cmd
}

func monthlyReportCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Month-by-month spending totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			expenses, _, err := loadTransactions(cmd.Context(), "")
			if err != nil {
				return err
			}

			eng, err := initEngine()
			if err != nil {
				return err
			}
			stats := eng.MonthlyStats(expenses)
			if len(stats) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses yet. Use 'centsible expense add' to record one."))
				return nil
			}

			if asJSON {
				return printJSON(stats)
			}
			fmt.Print(cli.RenderMonthlyStats(stats))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of styled text")

	return cmd
}

func healthReportCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Financial health score with recommendations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			expenses, incomes, err := loadTransactions(cmd.Context(), "")
			if err != nil {
				return err
			}

			eng, err := initEngine()
			if err != nil {
				return err
			}
			report, err := eng.Health(expenses, incomes, time.Now())
			if errors.Is(err, common.ErrNoData) {
				fmt.Println(cli.FormatInfo("No transactions yet. Record expenses and income to get a health score."))
				return nil
			}
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(report)
			}
			fmt.Print(cli.RenderHealthReport(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of styled text")

	return cmd
}

func budgetReportCmd() *cobra.Command {
	var (
		month  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Suggested 50/30/20 budget from your income",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, incomes, err := loadTransactions(cmd.Context(), month)
			if err != nil {
				return err
			}

			eng, err := initEngine()
			if err != nil {
				return err
			}
			suggestion, err := eng.Budget(incomes)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(suggestion)
			}
			fmt.Print(cli.RenderBudget(suggestion))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "budget from one calendar month's income (YYYY-MM)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of styled text")

	return cmd
}
