package engine

import (
	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/model"
)

// 50/30/20 allocation percentages.
const (
	needsPercent   = 50
	wantsPercent   = 30
	savingsPercent = 20
)

var oneHundred = decimal.NewFromInt(100)

// PlanBudget allocates totalIncome across the needs/wants/savings buckets
// using the 50-30-20 rule and the taxonomy's fixed bucket assignments.
//
// Bucket amounts are rounded to cents; any rounding remainder is assigned to
// the needs bucket so the three amounts always sum exactly to totalIncome.
// When totalIncome is zero all amounts are zero but the structural plan is
// still returned.
func PlanBudget(totalIncome decimal.Decimal, taxonomy *config.Taxonomy) model.BudgetPlan {
	needs := allocate(totalIncome, needsPercent)
	wants := allocate(totalIncome, wantsPercent)
	savings := allocate(totalIncome, savingsPercent)

	remainder := totalIncome.Sub(needs.Add(wants).Add(savings))
	needs = needs.Add(remainder)

	return model.BudgetPlan{
		Rule:        "50-30-20 Rule",
		Description: "50% needs, 30% wants, 20% savings",
		TotalIncome: totalIncome,
		Needs: model.BudgetBucket{
			Name:        "needs",
			Percentage:  needsPercent,
			Amount:      needs,
			Description: "Essential expenses",
			Categories:  taxonomy.NeedsCategories,
		},
		Wants: model.BudgetBucket{
			Name:        "wants",
			Percentage:  wantsPercent,
			Amount:      wants,
			Description: "Non-essential spending",
			Categories:  taxonomy.WantsCategories,
		},
		Savings: model.BudgetBucket{
			Name:        "savings",
			Percentage:  savingsPercent,
			Amount:      savings,
			Description: "Savings and debt repayment",
			Categories:  taxonomy.SavingsCategories,
		},
	}
}

func allocate(total decimal.Decimal, percent int64) decimal.Decimal {
	return total.Mul(decimal.NewFromInt(percent)).Div(oneHundred).Round(2)
}
