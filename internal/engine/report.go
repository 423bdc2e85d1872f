package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/model"
)

// FinancialOverview is the income-vs-expenses summary report.
type FinancialOverview struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Balance       decimal.Decimal `json:"balance"`
	// SavingsRatePct is the savings rate as a percentage, two decimals.
	SavingsRatePct decimal.Decimal `json:"savings_rate"`
}

// CategorySummaryRow is one row of the per-category expense breakdown.
type CategorySummaryRow struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// MonthlyStat summarizes one calendar month of expenses.
type MonthlyStat struct {
	Month         string          `json:"month"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NumExpenses   int             `json:"num_expenses"`
}

// HealthReport is the full financial health report: score, trend,
// recommendations and category breakdown.
type HealthReport struct {
	CategoryBreakdown map[string]decimal.Decimal `json:"category_breakdown"`
	HealthLevel       string                     `json:"health_level"`
	Recommendations   []model.Recommendation     `json:"recommendations"`
	TotalIncome       decimal.Decimal            `json:"total_income"`
	TotalExpenses     decimal.Decimal            `json:"total_expenses"`
	Balance           decimal.Decimal            `json:"balance"`
	SavingsRatePct    decimal.Decimal            `json:"savings_rate"`
	SpendingTrend     SpendingTrend              `json:"spending_trend"`
	HealthScore       int                        `json:"financial_health_score"`
}

// BudgetSuggestion is the 50-30-20 budget report.
type BudgetSuggestion struct {
	Rule            string          `json:"rule"`
	Description     string          `json:"description"`
	SuggestedBudget model.BudgetPlan `json:"suggested_budget"`
	TotalIncome     decimal.Decimal `json:"total_income"`
}

// Engine bundles the analytics components behind a single entry point. All
// methods are pure functions of the transaction snapshots passed in; the
// Engine holds only the immutable taxonomy and rule registry and is safe for
// concurrent use.
type Engine struct {
	taxonomy    *config.Taxonomy
	aggregator  *Aggregator
	scorer      *Scorer
	recommender *Recommender
}

// New creates an engine bound to the given taxonomy. The taxonomy is
// validated once here; a defective taxonomy is a startup error, not a
// per-request condition.
func New(taxonomy *config.Taxonomy) (*Engine, error) {
	if err := taxonomy.Validate(); err != nil {
		return nil, err
	}
	recommender, err := NewRecommender(taxonomy)
	if err != nil {
		return nil, err
	}
	return &Engine{
		taxonomy:    taxonomy,
		aggregator:  NewAggregator(taxonomy),
		scorer:      NewScorer(taxonomy),
		recommender: recommender,
	}, nil
}

// Aggregate exposes the metric aggregator.
func (e *Engine) Aggregate(expenses, incomes []model.Transaction) (AggregateMetrics, error) {
	return e.aggregator.Aggregate(expenses, incomes)
}

// Overview builds the financial overview report.
func (e *Engine) Overview(expenses, incomes []model.Transaction) (*FinancialOverview, error) {
	metrics, err := e.aggregator.Aggregate(expenses, incomes)
	if err != nil {
		return nil, err
	}
	return &FinancialOverview{
		TotalIncome:    metrics.TotalIncome,
		TotalExpenses:  metrics.TotalExpenses,
		Balance:        metrics.Balance,
		SavingsRatePct: metrics.SavingsRate.Mul(oneHundred).Round(2),
	}, nil
}

// CategorySummary builds the per-category breakdown, sorted by total
// descending with category name as the tie-break.
func (e *Engine) CategorySummary(expenses []model.Transaction) ([]CategorySummaryRow, error) {
	metrics, err := e.aggregator.Aggregate(expenses, nil)
	if err != nil {
		return nil, err
	}

	rows := make([]CategorySummaryRow, 0, len(metrics.CategoryTotals))
	for name, ct := range metrics.CategoryTotals {
		rows = append(rows, CategorySummaryRow{Category: name, Count: ct.Count, Total: ct.Sum})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Total.Equal(rows[j].Total) {
			return rows[i].Total.GreaterThan(rows[j].Total)
		}
		return rows[i].Category < rows[j].Category
	})
	return rows, nil
}

// MonthlyStats builds per-calendar-month expense statistics in ascending
// month order.
func (e *Engine) MonthlyStats(expenses []model.Transaction) []MonthlyStat {
	totals := MonthlyExpenseTotals(expenses)

	stats := make([]MonthlyStat, 0, len(totals))
	for month, ct := range totals {
		stats = append(stats, MonthlyStat{
			Month:         month,
			TotalExpenses: ct.Sum,
			NumExpenses:   ct.Count,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Month < stats[j].Month })
	return stats
}

// Health builds the full health report for the snapshot, with the spending
// trend anchored at ref's calendar month.
//
// A snapshot with no transactions at all returns common.ErrNoData; the caller
// decides how to present the onboarding state.
func (e *Engine) Health(expenses, incomes []model.Transaction, ref time.Time) (*HealthReport, error) {
	metrics, err := e.aggregator.Aggregate(expenses, incomes)
	if err != nil {
		return nil, err
	}

	trend := TrendForMonth(expenses, ref)
	health := e.scorer.Score(metrics)

	recs, err := e.recommender.Generate(metrics, trend, health)
	if err != nil {
		return nil, err
	}

	breakdown := make(map[string]decimal.Decimal, len(metrics.CategoryTotals))
	for name, ct := range metrics.CategoryTotals {
		breakdown[name] = ct.Sum
	}

	return &HealthReport{
		HealthScore:       health.Score,
		HealthLevel:       health.Tier,
		TotalIncome:       metrics.TotalIncome,
		TotalExpenses:     metrics.TotalExpenses,
		Balance:           metrics.Balance,
		SavingsRatePct:    metrics.SavingsRate.Mul(oneHundred).Round(2),
		SpendingTrend:     trend,
		Recommendations:   recs,
		CategoryBreakdown: breakdown,
	}, nil
}

// Budget builds the 50-30-20 budget suggestion from the income snapshot.
func (e *Engine) Budget(incomes []model.Transaction) (*BudgetSuggestion, error) {
	metrics, err := e.aggregator.Aggregate(nil, incomes)
	if err != nil {
		return nil, err
	}

	plan := PlanBudget(metrics.TotalIncome, e.taxonomy)
	return &BudgetSuggestion{
		TotalIncome:     metrics.TotalIncome,
		SuggestedBudget: plan,
		Rule:            plan.Rule,
		Description:     plan.Description,
	}, nil
}
