package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/service"
)

func importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV file",
		Long: `Import transactions from a CSV file.

The file must have a header row with the columns:
  date,amount,description,merchant,category,kind,source

merchant, category, kind, and source may be omitted. kind defaults to
"expense"; income rows must carry a source. Expense rows without a
category are auto-categorized by the classifier.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer func() { _ = file.Close() }()

			rows, err := readImportRows(file)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println(cli.InfoStyle.Render("Nothing to import."))
				return nil
			}

			classifier, err := initClassifier()
			if err != nil {
				return err
			}

			classified, err := classifyImportRows(rows, classifier, config.DefaultTaxonomy())
			if err != nil {
				return err
			}

			if dryRun {
				for _, txn := range rows {
					label := txn.Category
					if txn.Kind == model.KindIncome {
						label = txn.Source
					}
					fmt.Printf("%s  %-7s  %10s  %-16s  %s\n",
						txn.Date.Format("2006-01-02"), txn.Kind, cli.Money(txn.Amount), label, txn.Description)
				}
				fmt.Println(cli.FormatInfo(fmt.Sprintf("Dry run: %d rows parsed, %d auto-categorized", len(rows), classified)))
				return nil
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			imported, err := saveImportRows(ctx, store, rows)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions (%d auto-categorized)", imported, classified)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and classify without saving")

	return cmd
}

// classifyImportRows fills in predicted categories, adopting the prediction
// for rows the file left uncategorized. Returns how many rows were
// auto-categorized.
func classifyImportRows(rows []model.Transaction, classifier service.Classifier, taxonomy *config.Taxonomy) (int, error) {
	classified := 0
	for i := range rows {
		if rows[i].Kind == model.KindIncome {
			if !taxonomy.IsIncomeSource(rows[i].Source) {
				return 0, fmt.Errorf("row %d: unknown income source %q", i+2, rows[i].Source)
			}
			continue
		}
		prediction := classifier.Classify(rows[i].Description, rows[i].Merchant)
		rows[i].PredictedCategory = prediction.Category
		if rows[i].Category == "" {
			rows[i].Category = prediction.Category
			classified++
		} else if !taxonomy.IsExpenseCategory(rows[i].Category) {
			return 0, fmt.Errorf("row %d: unknown category %q", i+2, rows[i].Category)
		}
	}
	return classified, nil
}

// readImportRows parses the CSV into transactions, validating per row.
func readImportRows(r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	column := make(map[string]int, len(header))
	for i, name := range header {
		column[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "amount", "description"} {
		if _, ok := column[required]; !ok {
			return nil, fmt.Errorf("import file missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := column[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []model.Transaction
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		day, err := parseDate(field(record, "date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		amount, err := decimal.NewFromString(field(record, "amount"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid amount %q", line, field(record, "amount"))
		}

		kind := model.TransactionKind(field(record, "kind"))
		switch kind {
		case "":
			kind = model.KindExpense
		case model.KindExpense, model.KindIncome:
		default:
			return nil, fmt.Errorf("row %d: invalid kind %q", line, kind)
		}

		rows = append(rows, model.Transaction{
			Kind:        kind,
			Date:        day,
			Amount:      amount,
			Description: field(record, "description"),
			Merchant:    field(record, "merchant"),
			Category:    field(record, "category"),
			Source:      field(record, "source"),
		})
	}
	return rows, nil
}

func saveImportRows(ctx context.Context, store service.Storage, rows []model.Transaction) (int, error) {
	bar := progressbar.NewOptions(len(rows),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing transactions..."),
	)

	imported := 0
	for i := range rows {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		if _, err := store.SaveTransaction(ctx, &rows[i]); err != nil {
			return imported, fmt.Errorf("row %d: %w", i+2, err)
		}
		imported++
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	return imported, nil
}
