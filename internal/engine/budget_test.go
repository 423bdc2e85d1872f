package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible/centsible/internal/config"
)

func TestPlanBudget_Scenario(t *testing.T) {
	plan := PlanBudget(decimal.NewFromInt(2000), config.DefaultTaxonomy())

	assert.True(t, plan.Needs.Amount.Equal(decimal.NewFromInt(1000)), "needs %s", plan.Needs.Amount)
	assert.True(t, plan.Wants.Amount.Equal(decimal.NewFromInt(600)), "wants %s", plan.Wants.Amount)
	assert.True(t, plan.Savings.Amount.Equal(decimal.NewFromInt(400)), "savings %s", plan.Savings.Amount)

	assert.Equal(t, 50, plan.Needs.Percentage)
	assert.Equal(t, 30, plan.Wants.Percentage)
	assert.Equal(t, 20, plan.Savings.Percentage)
	assert.Equal(t, "50-30-20 Rule", plan.Rule)
}

func TestPlanBudget_AmountsSumExactly(t *testing.T) {
	// Awkward incomes whose percentage slices round; the bucket amounts must
	// still sum to the income to the cent.
	incomes := []string{"2000", "1234.56", "0.01", "0.02", "99.99", "33.33", "1000000.01"}

	tax := config.DefaultTaxonomy()
	for _, in := range incomes {
		t.Run(in, func(t *testing.T) {
			total := decimal.RequireFromString(in)
			plan := PlanBudget(total, tax)

			sum := plan.Needs.Amount.Add(plan.Wants.Amount).Add(plan.Savings.Amount)
			assert.True(t, sum.Equal(total), "buckets sum to %s, want %s", sum, total)
		})
	}
}

func TestPlanBudget_ZeroIncomeKeepsStructure(t *testing.T) {
	plan := PlanBudget(decimal.Zero, config.DefaultTaxonomy())

	for _, bucket := range plan.Buckets() {
		assert.True(t, bucket.Amount.IsZero(), "%s amount %s", bucket.Name, bucket.Amount)
		assert.NotEmpty(t, bucket.Categories, "%s categories", bucket.Name)
		assert.NotEmpty(t, bucket.Description)
		assert.NotZero(t, bucket.Percentage)
	}
}

func TestPlanBudget_BucketCategoriesMatchTaxonomy(t *testing.T) {
	tax := config.DefaultTaxonomy()
	plan := PlanBudget(decimal.NewFromInt(100), tax)

	require.Equal(t, tax.NeedsCategories, plan.Needs.Categories)
	require.Equal(t, tax.WantsCategories, plan.Wants.Categories)
	require.Equal(t, tax.SavingsCategories, plan.Savings.Categories)
}
