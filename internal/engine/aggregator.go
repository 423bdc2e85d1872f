// Package engine implements the financial analytics engine: metric
// aggregation, trend analysis, health scoring, recommendation generation and
// budget planning.
//
// Every component is a pure function of the transaction snapshot handed in by
// the caller. Nothing in this package fetches data, retains references across
// calls, or mutates shared state, so concurrent invocations need no locking.
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/model"
)

// savingsRatePrecision is the number of decimal places kept for the
// savings-rate fraction.
const savingsRatePrecision = 4

// CategoryTotal holds the per-category expense count and sum.
type CategoryTotal struct {
	Sum   decimal.Decimal `json:"sum"`
	Count int             `json:"count"`
}

// AggregateMetrics is the derived financial summary of one transaction
// snapshot. It is recomputed on demand and never persisted.
type AggregateMetrics struct {
	CategoryTotals map[string]CategoryTotal
	TotalIncome    decimal.Decimal
	TotalExpenses  decimal.Decimal
	Balance        decimal.Decimal
	// SavingsRate is Balance/TotalIncome as a fraction, 0 when there is no
	// income.
	SavingsRate decimal.Decimal
}

// NoData reports whether the metrics describe an empty transaction snapshot.
// Callers must treat this as a distinct state, not as a low score.
func (m *AggregateMetrics) NoData() bool {
	return m.TotalIncome.IsZero() && m.TotalExpenses.IsZero()
}

// Validate checks invariants that downstream components rely on.
func (m *AggregateMetrics) Validate() error {
	if m.TotalIncome.IsNegative() || m.TotalExpenses.IsNegative() {
		return fmt.Errorf("%w: negative totals", common.ErrInvalidMetrics)
	}
	if !m.Balance.Equal(m.TotalIncome.Sub(m.TotalExpenses)) {
		return fmt.Errorf("%w: balance does not match totals", common.ErrInvalidMetrics)
	}
	return nil
}

// SumCategories returns the combined expense total of the named categories.
func (m *AggregateMetrics) SumCategories(categories []string) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range categories {
		if ct, ok := m.CategoryTotals[c]; ok {
			sum = sum.Add(ct.Sum)
		}
	}
	return sum
}

// Aggregator computes AggregateMetrics from transaction snapshots.
type Aggregator struct {
	taxonomy *config.Taxonomy
}

// NewAggregator creates an aggregator bound to the given taxonomy.
func NewAggregator(taxonomy *config.Taxonomy) *Aggregator {
	return &Aggregator{taxonomy: taxonomy}
}

// Aggregate computes totals, balance, savings rate and per-category totals
// for one user's expenses and incomes.
//
// An expense without a category is a data-integrity violation: the write path
// guarantees every persisted expense carries a category (explicit or
// predicted) before it reaches the engine, so the aggregator refuses to
// silently group such a transaction rather than masking the bug.
func (a *Aggregator) Aggregate(expenses, incomes []model.Transaction) (AggregateMetrics, error) {
	metrics := AggregateMetrics{
		CategoryTotals: make(map[string]CategoryTotal),
		TotalIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
		Balance:        decimal.Zero,
		SavingsRate:    decimal.Zero,
	}

	for i := range expenses {
		txn := &expenses[i]
		if !txn.Amount.IsPositive() {
			return AggregateMetrics{}, fmt.Errorf("expense %d: amount must be positive, got %s",
				txn.ID, txn.Amount)
		}
		if txn.Category == "" {
			return AggregateMetrics{}, fmt.Errorf("%w: expense %d (%q)",
				common.ErrMissingCategory, txn.ID, txn.Description)
		}
		if !a.taxonomy.IsExpenseCategory(txn.Category) {
			return AggregateMetrics{}, fmt.Errorf("%w: %q on expense %d",
				common.ErrUnknownCategory, txn.Category, txn.ID)
		}

		metrics.TotalExpenses = metrics.TotalExpenses.Add(txn.Amount)
		ct := metrics.CategoryTotals[txn.Category]
		ct.Count++
		ct.Sum = ct.Sum.Add(txn.Amount)
		metrics.CategoryTotals[txn.Category] = ct
	}

	for i := range incomes {
		txn := &incomes[i]
		if !txn.Amount.IsPositive() {
			return AggregateMetrics{}, fmt.Errorf("income %d: amount must be positive, got %s",
				txn.ID, txn.Amount)
		}
		metrics.TotalIncome = metrics.TotalIncome.Add(txn.Amount)
	}

	metrics.Balance = metrics.TotalIncome.Sub(metrics.TotalExpenses)
	if metrics.TotalIncome.IsPositive() {
		metrics.SavingsRate = metrics.Balance.Div(metrics.TotalIncome).Round(savingsRatePrecision)
	}

	return metrics, nil
}

// MonthlyExpenseTotals groups expenses by calendar month. Keys are formatted
// as "2006-01".
func MonthlyExpenseTotals(expenses []model.Transaction) map[string]CategoryTotal {
	totals := make(map[string]CategoryTotal)
	for i := range expenses {
		key := expenses[i].MonthKey()
		ct := totals[key]
		ct.Count++
		ct.Sum = ct.Sum.Add(expenses[i].Amount)
		totals[key] = ct
	}
	return totals
}
