package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/model"
)

func newTestRecommender(t *testing.T) *Recommender {
	t.Helper()
	r, err := NewRecommender(config.DefaultTaxonomy())
	require.NoError(t, err)
	return r
}

// generateFor aggregates, scores and generates recommendations for a
// snapshot with a neutral trend.
func generateFor(t *testing.T, expenses, incomes []model.Transaction) []model.Recommendation {
	t.Helper()

	metrics, err := newTestAggregator(t).Aggregate(expenses, incomes)
	require.NoError(t, err)
	health := newTestScorer(t).Score(metrics)

	recs, err := newTestRecommender(t).Generate(metrics, AnalyzeTrend(decimal.Zero, decimal.Zero), health)
	require.NoError(t, err)
	return recs
}

func titles(recs []model.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}

func TestGenerate_NoDataRefusesToRun(t *testing.T) {
	metrics, err := newTestAggregator(t).Aggregate(nil, nil)
	require.NoError(t, err)

	_, err = newTestRecommender(t).Generate(metrics, SpendingTrend{}, HealthScore{Tier: TierPoor})
	assert.ErrorIs(t, err, common.ErrNoData)
}

func TestGenerate_InvalidMetricsRejected(t *testing.T) {
	bad := AggregateMetrics{
		TotalIncome:   decimal.NewFromInt(-5),
		TotalExpenses: decimal.NewFromInt(10),
	}

	_, err := newTestRecommender(t).Generate(bad, SpendingTrend{}, HealthScore{})
	assert.ErrorIs(t, err, common.ErrInvalidMetrics)
}

func TestGenerate_OverspendingSnapshot(t *testing.T) {
	expenses := []model.Transaction{
		expense("1500", "rent", "Rent/Mortgage", "2024-01-02"),
		expense("400", "groceries", "Food", "2024-01-03"),
	}
	incomes := []model.Transaction{
		income("1000", "Salary", "2024-01-01"),
	}

	recs := generateFor(t, expenses, incomes)
	got := titles(recs)

	assert.Contains(t, got, "Overspending Alert")
	assert.Contains(t, got, "Negative Balance")
	assert.Contains(t, got, "High Housing Costs")
	assert.NotContains(t, got, "Great Savings!")

	// High-priority items sort first.
	require.NotEmpty(t, recs)
	assert.Equal(t, model.PriorityHigh, recs[0].Priority)
}

func TestGenerate_HealthySnapshot(t *testing.T) {
	expenses := []model.Transaction{
		expense("500", "rent", "Rent/Mortgage", "2024-01-02"),
		expense("200", "groceries", "Food", "2024-01-03"),
	}
	incomes := []model.Transaction{
		income("3000", "Salary", "2024-01-01"),
	}

	recs := generateFor(t, expenses, incomes)
	got := titles(recs)

	// Positive reinforcement, not only warnings.
	assert.Contains(t, got, "Great Savings!")
	assert.Contains(t, got, "Highest Spending Category")
	assert.NotContains(t, got, "Overspending Alert")
	assert.NotContains(t, got, "Negative Balance")
}

func TestGenerate_NoDuplicates(t *testing.T) {
	expenses := []model.Transaction{
		expense("900", "rent", "Rent/Mortgage", "2024-01-02"),
		expense("600", "restaurants", "Dining", "2024-01-03"),
		expense("400", "loan", "Debt/Loans", "2024-01-04"),
	}
	incomes := []model.Transaction{
		income("1000", "Salary", "2024-01-01"),
	}

	recs := generateFor(t, expenses, incomes)

	seen := make(map[string]bool)
	for _, r := range recs {
		assert.False(t, seen[r.Title], "duplicate recommendation %q", r.Title)
		seen[r.Title] = true
	}
}

func TestGenerate_StableOrdering(t *testing.T) {
	expenses := []model.Transaction{
		expense("1500", "rent", "Rent/Mortgage", "2024-01-02"),
		expense("700", "restaurants", "Dining", "2024-01-03"),
	}
	incomes := []model.Transaction{
		income("1000", "Salary", "2024-01-01"),
	}

	first := generateFor(t, expenses, incomes)
	second := generateFor(t, expenses, incomes)
	assert.Equal(t, first, second)

	// Priorities never go back up as the list descends.
	lastRank := -1
	for _, r := range first {
		rank := r.Priority.Rank()
		assert.GreaterOrEqual(t, rank, lastRank)
		lastRank = rank
	}
}

func TestGenerate_TrendRules(t *testing.T) {
	metrics := AggregateMetrics{
		TotalIncome:   decimal.NewFromInt(2000),
		TotalExpenses: decimal.NewFromInt(1000),
		Balance:       decimal.NewFromInt(1000),
		SavingsRate:   decimal.RequireFromString("0.5"),
		CategoryTotals: map[string]CategoryTotal{
			"Shopping": {Count: 2, Sum: decimal.NewFromInt(1000)},
		},
	}
	health := HealthScore{Score: 80, Tier: TierExcellent}
	rec := newTestRecommender(t)

	tests := []struct {
		name      string
		trend     SpendingTrend
		wantTitle string
		skipTitle string
	}{
		{
			name:      "increase warns",
			trend:     AnalyzeTrend(decimal.NewFromInt(1200), decimal.NewFromInt(1000)),
			wantTitle: "Monthly Spending Increase",
		},
		{
			name:      "decrease congratulates",
			trend:     AnalyzeTrend(decimal.NewFromInt(700), decimal.NewFromInt(1000)),
			wantTitle: "Good Job Reducing Spending",
		},
		{
			name:      "unbounded growth is flagged distinctly",
			trend:     AnalyzeTrend(decimal.NewFromInt(150), decimal.Zero),
			wantTitle: "New Spending This Month",
			skipTitle: "Monthly Spending Increase",
		},
		{
			name:      "flat trend stays quiet",
			trend:     AnalyzeTrend(decimal.NewFromInt(1000), decimal.NewFromInt(1000)),
			skipTitle: "Monthly Spending Increase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := rec.Generate(metrics, tt.trend, health)
			require.NoError(t, err)

			got := titles(recs)
			if tt.wantTitle != "" {
				assert.Contains(t, got, tt.wantTitle)
			}
			if tt.skipTitle != "" {
				assert.NotContains(t, got, tt.skipTitle)
			}
		})
	}
}

func TestGenerate_StartTrackingNudge(t *testing.T) {
	incomes := []model.Transaction{
		income("1000", "Salary", "2024-01-01"),
	}

	recs := generateFor(t, nil, incomes)
	assert.Contains(t, titles(recs), "Start Tracking")
}

func TestGenerate_TopCategoryDeterministicTieBreak(t *testing.T) {
	metrics := AggregateMetrics{
		TotalIncome:   decimal.NewFromInt(1000),
		TotalExpenses: decimal.NewFromInt(400),
		Balance:       decimal.NewFromInt(600),
		SavingsRate:   decimal.RequireFromString("0.6"),
		CategoryTotals: map[string]CategoryTotal{
			"Travel":   {Count: 1, Sum: decimal.NewFromInt(200)},
			"Shopping": {Count: 1, Sum: decimal.NewFromInt(200)},
		},
	}

	for i := 0; i < 10; i++ {
		recs, err := newTestRecommender(t).Generate(metrics, SpendingTrend{}, HealthScore{Score: 80, Tier: TierExcellent})
		require.NoError(t, err)

		var insight *model.Recommendation
		for j := range recs {
			if recs[j].Title == "Highest Spending Category" {
				insight = &recs[j]
				break
			}
		}
		require.NotNil(t, insight)
		assert.Contains(t, insight.Message, "Shopping", "ties break to the lexicographically smallest name")
	}
}

func TestNewRecommender_RejectsDuplicateRuleNames(t *testing.T) {
	dup := []rule{
		{name: "a", evaluate: func(*snapshot) *model.Recommendation { return nil }},
		{name: "a", evaluate: func(*snapshot) *model.Recommendation { return nil }},
	}

	_, err := newRecommender(config.DefaultTaxonomy(), dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
