package model

import "github.com/shopspring/decimal"

// BudgetBucket is one allocation slice of a budget plan.
type BudgetBucket struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Categories  []string        `json:"categories"`
	Amount      decimal.Decimal `json:"amount"`
	Percentage  int             `json:"percentage"`
}

// BudgetPlan allocates total income across needs, wants and savings.
// When TotalIncome is zero the structural plan is still populated so
// callers can distinguish "no income yet" from "no plan available".
type BudgetPlan struct {
	Rule        string          `json:"rule"`
	Description string          `json:"description"`
	TotalIncome decimal.Decimal `json:"total_income"`
	Needs       BudgetBucket    `json:"needs"`
	Wants       BudgetBucket    `json:"wants"`
	Savings     BudgetBucket    `json:"savings"`
}

// Buckets returns the plan's buckets in allocation order.
func (p *BudgetPlan) Buckets() []BudgetBucket {
	return []BudgetBucket{p.Needs, p.Wants, p.Savings}
}
