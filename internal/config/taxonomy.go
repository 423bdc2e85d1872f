package config

import (
	"fmt"

	"github.com/centsible/centsible/internal/common"
)

// FallbackCategory is assigned when the classifier cannot make a confident
// prediction.
const FallbackCategory = "Other"

// Taxonomy holds the fixed category and source enumerations shared by the
// classifier, the aggregator, the health scorer and the budget planner.
//
// It is constructed once at startup and treated as read-only afterwards; a
// category appearing in one list but missing from the master list is a
// configuration defect caught by Validate, not a runtime condition.
type Taxonomy struct {
	// ExpenseCategories is the master list of valid expense categories.
	ExpenseCategories []string
	// IncomeSources is the master list of valid income sources.
	IncomeSources []string

	// Budget bucket assignments (50/30/20 rule).
	NeedsCategories   []string
	WantsCategories   []string
	SavingsCategories []string

	// Health scorer category groups.
	HousingCategories []string
	FoodCategories    []string
	DebtCategories    []string
}

// DefaultTaxonomy returns the built-in taxonomy.
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		ExpenseCategories: []string{
			"Rent/Mortgage",
			"Utilities",
			"Groceries",
			"Food",
			"Dining",
			"Transport",
			"Insurance",
			"Health",
			"Entertainment",
			"Travel",
			"Shopping",
			"Education",
			"Saving",
			"Investment",
			"Debt/Loans",
			FallbackCategory,
		},
		IncomeSources: []string{
			"Salary",
			"Freelance",
			"Business",
			"Investment",
			"Rental",
			"Gift",
			"Bonus",
			"Other",
		},
		NeedsCategories: []string{
			"Rent/Mortgage", "Utilities", "Groceries", "Food",
			"Transport", "Insurance", "Health", "Education",
		},
		WantsCategories: []string{
			"Entertainment", "Dining", "Travel", "Shopping",
		},
		SavingsCategories: []string{
			"Saving", "Investment", "Debt/Loans",
		},
		HousingCategories: []string{
			"Rent/Mortgage", "Utilities", "Insurance",
		},
		FoodCategories: []string{
			"Food", "Groceries", "Dining", "Entertainment",
		},
		DebtCategories: []string{
			"Debt/Loans",
		},
	}
}

// Validate checks the cross-list consistency guarantees: every category
// referenced by a bucket or scorer group must exist in the master expense
// category list, the fallback category must be present, and no list may
// contain duplicates.
func (t *Taxonomy) Validate() error {
	if len(t.ExpenseCategories) == 0 {
		return fmt.Errorf("%w: no expense categories", common.ErrInvalidConfig)
	}
	if len(t.IncomeSources) == 0 {
		return fmt.Errorf("%w: no income sources", common.ErrInvalidConfig)
	}

	master := make(map[string]bool, len(t.ExpenseCategories))
	for _, c := range t.ExpenseCategories {
		if master[c] {
			return fmt.Errorf("%w: duplicate expense category %q", common.ErrInvalidConfig, c)
		}
		master[c] = true
	}
	if !master[FallbackCategory] {
		return fmt.Errorf("%w: fallback category %q missing from expense categories",
			common.ErrInvalidConfig, FallbackCategory)
	}

	seen := make(map[string]bool, len(t.IncomeSources))
	for _, s := range t.IncomeSources {
		if seen[s] {
			return fmt.Errorf("%w: duplicate income source %q", common.ErrInvalidConfig, s)
		}
		seen[s] = true
	}

	lists := map[string][]string{
		"needs":   t.NeedsCategories,
		"wants":   t.WantsCategories,
		"savings": t.SavingsCategories,
		"housing": t.HousingCategories,
		"food":    t.FoodCategories,
		"debt":    t.DebtCategories,
	}
	for name, list := range lists {
		inList := make(map[string]bool, len(list))
		for _, c := range list {
			if !master[c] {
				return fmt.Errorf("%w: %s list references unknown category %q",
					common.ErrInvalidConfig, name, c)
			}
			if inList[c] {
				return fmt.Errorf("%w: duplicate category %q in %s list",
					common.ErrInvalidConfig, c, name)
			}
			inList[c] = true
		}
	}

	return nil
}

// IsExpenseCategory reports whether name is a valid expense category.
func (t *Taxonomy) IsExpenseCategory(name string) bool {
	return contains(t.ExpenseCategories, name)
}

// IsIncomeSource reports whether name is a valid income source.
func (t *Taxonomy) IsIncomeSource(name string) bool {
	return contains(t.IncomeSources, name)
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}
