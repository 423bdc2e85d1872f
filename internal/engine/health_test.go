package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/model"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	return NewScorer(config.DefaultTaxonomy())
}

// scoreSnapshot aggregates and scores in one step.
func scoreSnapshot(t *testing.T, expenses, incomes []model.Transaction) HealthScore {
	t.Helper()
	metrics, err := newTestAggregator(t).Aggregate(expenses, incomes)
	require.NoError(t, err)
	return newTestScorer(t).Score(metrics)
}

func TestScore_Scenario(t *testing.T) {
	expenses := []model.Transaction{
		expense("500", "Rent", "Rent/Mortgage", "2024-01-05"),
		expense("300", "Groceries", "Food", "2024-01-10"),
	}
	incomes := []model.Transaction{
		income("2000", "Salary", "2024-01-01"),
	}

	health := scoreSnapshot(t, expenses, incomes)

	// 60% savings rate, housing at 25% of income, debt at 0%; food is 37.5%
	// of expenses so that component is withheld.
	assert.Equal(t, 80, health.Score)
	assert.Equal(t, TierExcellent, health.Tier)
}

func TestScore_AlwaysInRange(t *testing.T) {
	tests := []struct {
		name     string
		expenses []model.Transaction
		incomes  []model.Transaction
	}{
		{name: "empty snapshot"},
		{
			name: "no income",
			expenses: []model.Transaction{
				expense("100", "dinner", "Dining", "2024-01-02"),
			},
		},
		{
			name: "heavy overspending",
			expenses: []model.Transaction{
				expense("5000", "rent", "Rent/Mortgage", "2024-01-02"),
				expense("3000", "shopping spree", "Shopping", "2024-01-03"),
			},
			incomes: []model.Transaction{
				income("1000", "Salary", "2024-01-01"),
			},
		},
		{
			name: "ideal budget",
			expenses: []model.Transaction{
				expense("500", "rent", "Rent/Mortgage", "2024-01-02"),
				expense("100", "groceries", "Food", "2024-01-03"),
			},
			incomes: []model.Transaction{
				income("3000", "Salary", "2024-01-01"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health := scoreSnapshot(t, tt.expenses, tt.incomes)

			assert.GreaterOrEqual(t, health.Score, 0)
			assert.LessOrEqual(t, health.Score, 100)
			// The tier band must cover the score.
			assert.Equal(t, tierFor(health.Score), health.Tier)
		})
	}
}

func TestScore_MonotonicInSavingsRate(t *testing.T) {
	scorer := newTestScorer(t)

	// Sweep savings rate with all other factors fixed: constant income, a
	// single non-housing non-food expense category scaled to hit each rate.
	rates := []string{"-0.5", "-0.1", "0", "0.05", "0.1", "0.15", "0.2", "0.5", "0.9"}

	prev := -1
	for _, r := range rates {
		rate := decimal.RequireFromString(r)
		incomeTotal := decimal.NewFromInt(1000)
		expenseTotal := incomeTotal.Sub(incomeTotal.Mul(rate))

		metrics := AggregateMetrics{
			TotalIncome:   incomeTotal,
			TotalExpenses: expenseTotal,
			Balance:       incomeTotal.Sub(expenseTotal),
			SavingsRate:   rate,
			CategoryTotals: map[string]CategoryTotal{
				"Shopping": {Count: 1, Sum: expenseTotal},
			},
		}

		score := scorer.Score(metrics).Score
		assert.GreaterOrEqual(t, score, prev,
			"score must not decrease as savings rate rises (rate %s)", r)
		prev = score
	}
}

func TestScore_NegativeBalanceCeiling(t *testing.T) {
	// Housing, food and debt shares are all healthy, but the balance is
	// negative: the score must stay at or below the ceiling.
	expenses := []model.Transaction{
		expense("1100", "shopping", "Shopping", "2024-01-02"),
	}
	incomes := []model.Transaction{
		income("1000", "Salary", "2024-01-01"),
	}

	health := scoreSnapshot(t, expenses, incomes)
	assert.LessOrEqual(t, health.Score, 40)
}

func TestScore_NoIncome(t *testing.T) {
	expenses := []model.Transaction{
		expense("100", "dinner", "Dining", "2024-01-02"),
	}

	health := scoreSnapshot(t, expenses, nil)
	assert.Equal(t, 0, health.Score)
	assert.Equal(t, TierPoor, health.Tier)
}

func TestTierFor_CoversFullRange(t *testing.T) {
	// Every score in [0,100] maps to exactly one tier, and band edges are
	// contiguous.
	wantOrder := []string{TierPoor, TierFair, TierGood, TierExcellent}

	seen := make(map[string]bool)
	last := ""
	for score := 0; score <= 100; score++ {
		tier := tierFor(score)
		require.NotEmpty(t, tier)
		if tier != last {
			seen[tier] = true
			last = tier
		}
	}

	require.Len(t, seen, len(wantOrder))
	assert.Equal(t, TierPoor, tierFor(0))
	assert.Equal(t, TierPoor, tierFor(39))
	assert.Equal(t, TierFair, tierFor(40))
	assert.Equal(t, TierFair, tierFor(59))
	assert.Equal(t, TierGood, tierFor(60))
	assert.Equal(t, TierGood, tierFor(79))
	assert.Equal(t, TierExcellent, tierFor(80))
	assert.Equal(t, TierExcellent, tierFor(100))
}
