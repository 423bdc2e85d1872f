package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/model"
)

// snapshot bundles the inputs every rule evaluates against.
type snapshot struct {
	taxonomy *config.Taxonomy
	metrics  AggregateMetrics
	trend    SpendingTrend
	health   HealthScore
}

// rule is one entry in the recommendation registry: a predicate plus the
// recommendation it emits when triggered. Rules are independent and
// stateless; each fires at most once per snapshot.
type rule struct {
	evaluate func(snap *snapshot) *model.Recommendation
	name     string
}

// Recommender evaluates an ordered rule registry against a financial
// snapshot and returns the triggered recommendations, sorted by priority.
type Recommender struct {
	taxonomy *config.Taxonomy
	rules    []rule
}

// NewRecommender builds the recommender with the default rule registry.
// Duplicate rule names are a configuration defect.
func NewRecommender(taxonomy *config.Taxonomy) (*Recommender, error) {
	return newRecommender(taxonomy, defaultRules())
}

func newRecommender(taxonomy *config.Taxonomy, rules []rule) (*Recommender, error) {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if seen[r.name] {
			return nil, fmt.Errorf("%w: duplicate rule %q", common.ErrInvalidConfig, r.name)
		}
		seen[r.name] = true
	}

	return &Recommender{taxonomy: taxonomy, rules: rules}, nil
}

// Generate evaluates every registered rule against the snapshot and returns
// the triggered recommendations sorted by priority (high first); rules of
// equal priority keep their registry order.
//
// A no-data snapshot returns common.ErrNoData without running any rules: the
// caller is expected to present onboarding guidance instead of an empty list.
func (r *Recommender) Generate(metrics AggregateMetrics, trend SpendingTrend, health HealthScore) ([]model.Recommendation, error) {
	if metrics.NoData() {
		return nil, common.ErrNoData
	}
	if err := metrics.Validate(); err != nil {
		return nil, err
	}

	snap := &snapshot{
		taxonomy: r.taxonomy,
		metrics:  metrics,
		trend:    trend,
		health:   health,
	}

	var recs []model.Recommendation
	for _, rl := range r.rules {
		if rec := rl.evaluate(snap); rec != nil {
			recs = append(recs, *rec)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})

	return recs, nil
}

// defaultRules returns the rule registry in its declared evaluation order.
func defaultRules() []rule {
	return []rule{
		{name: "overspending", evaluate: overspendingRule},
		{name: "negative-balance", evaluate: negativeBalanceRule},
		{name: "savings-rate", evaluate: savingsRateRule},
		{name: "top-category", evaluate: topCategoryRule},
		{name: "food-share", evaluate: foodShareRule},
		{name: "housing-share", evaluate: housingShareRule},
		{name: "debt-share", evaluate: debtShareRule},
		{name: "start-tracking", evaluate: startTrackingRule},
		{name: "spending-trend", evaluate: spendingTrendRule},
	}
}

func overspendingRule(snap *snapshot) *model.Recommendation {
	m := &snap.metrics
	if !m.TotalExpenses.GreaterThan(m.TotalIncome) {
		return nil
	}
	overspend := m.TotalExpenses.Sub(m.TotalIncome)
	return &model.Recommendation{
		Type:     model.TypeWarning,
		Priority: model.PriorityHigh,
		Title:    "Overspending Alert",
		Message: fmt.Sprintf("You are spending %s more than you earn. Consider reducing high-cost categories.",
			money(overspend)),
		Action: "Review your expenses and cut unnecessary spending",
	}
}

func negativeBalanceRule(snap *snapshot) *model.Recommendation {
	m := &snap.metrics
	if !m.Balance.IsNegative() {
		return nil
	}
	return &model.Recommendation{
		Type:     model.TypeError,
		Priority: model.PriorityHigh,
		Title:    "Negative Balance",
		Message:  fmt.Sprintf("You have a deficit of %s.", money(m.Balance.Abs())),
		Action:   "Urgently reduce optional expenses and consider additional income sources",
	}
}

func savingsRateRule(snap *snapshot) *model.Recommendation {
	m := &snap.metrics
	if !m.Balance.IsPositive() || !m.TotalIncome.IsPositive() {
		return nil
	}
	pct := m.SavingsRate.Mul(decimal.NewFromInt(100))

	switch {
	case m.SavingsRate.GreaterThanOrEqual(excellentSavingsRate):
		return &model.Recommendation{
			Type:     model.TypeSuccess,
			Priority: model.PriorityLow,
			Title:    "Great Savings!",
			Message: fmt.Sprintf("Excellent! You're saving %s%% of your income (%s).",
				pct.StringFixed(1), money(m.Balance)),
			Action: "Keep up the good work! Consider investing your savings.",
		}
	case m.SavingsRate.GreaterThanOrEqual(goodSavingsRate):
		return &model.Recommendation{
			Type:     model.TypeSuccess,
			Priority: model.PriorityLow,
			Title:    "Good Savings",
			Message: fmt.Sprintf("You're saving %s%% of your income (%s).",
				pct.StringFixed(1), money(m.Balance)),
			Action: "Try to increase your savings rate to 20% for better financial health.",
		}
	default:
		return &model.Recommendation{
			Type:     model.TypeInfo,
			Priority: model.PriorityMedium,
			Title:    "Low Savings Rate",
			Message: fmt.Sprintf("You're saving only %s%% of your income (%s).",
				pct.StringFixed(1), money(m.Balance)),
			Action: "Financial experts recommend saving at least 20% of your income. Look for areas to cut spending.",
		}
	}
}

func topCategoryRule(snap *snapshot) *model.Recommendation {
	m := &snap.metrics
	if len(m.CategoryTotals) == 0 || !m.TotalExpenses.IsPositive() {
		return nil
	}

	// Deterministic winner: highest sum, lexicographically smallest name on
	// ties.
	var topName string
	var topSum decimal.Decimal
	for name, ct := range m.CategoryTotals {
		if topName == "" || ct.Sum.GreaterThan(topSum) ||
			(ct.Sum.Equal(topSum) && name < topName) {
			topName, topSum = name, ct.Sum
		}
	}

	share := topSum.Div(m.TotalExpenses).Mul(decimal.NewFromInt(100))
	low := topSum.Mul(decimal.NewFromFloat(0.10))
	high := topSum.Mul(decimal.NewFromFloat(0.15))

	return &model.Recommendation{
		Type:     model.TypeInsight,
		Priority: model.PriorityMedium,
		Title:    "Highest Spending Category",
		Message: fmt.Sprintf("Your highest spending category is %s (%s, %s%% of total).",
			topName, money(topSum), share.StringFixed(1)),
		Action: fmt.Sprintf("Try reducing %s spending by 10-15%% next month to save %s-%s",
			topName, money(low), money(high)),
	}
}

func foodShareRule(snap *snapshot) *model.Recommendation {
	m := &snap.metrics
	if !m.TotalExpenses.IsPositive() {
		return nil
	}
	food := m.SumCategories(snap.taxonomy.FoodCategories)
	share := food.Div(m.TotalExpenses)
	if share.LessThanOrEqual(maxFoodShare) {
		return nil
	}
	return &model.Recommendation{
		Type:     model.TypeWarning,
		Priority: model.PriorityMedium,
		Title:    "High Food Spending",
		Message: fmt.Sprintf("You spend %s%% on food and entertainment (%s).",
			share.Mul(decimal.NewFromInt(100)).StringFixed(1), money(food)),
		Action: "Try meal prepping, cooking at home, or limiting takeout to save money.",
	}
}

func housingShareRule(snap *snapshot) *model.Recommendation {
	m := &snap.metrics
	if !m.TotalIncome.IsPositive() {
		return nil
	}
	housing := m.SumCategories(snap.taxonomy.HousingCategories)
	share := housing.Div(m.TotalIncome)
	if share.LessThanOrEqual(maxHousingShare) {
		return nil
	}
	return &model.Recommendation{
		Type:     model.TypeWarning,
		Priority: model.PriorityHigh,
		Title:    "High Housing Costs",
		Message: fmt.Sprintf("Your housing costs are %s%% of income (%s).",
			share.Mul(decimal.NewFromInt(100)).StringFixed(1), money(housing)),
		Action: "Consider finding cheaper housing or increasing your income. Experts recommend keeping housing under 30% of income.",
	}
}

func debtShareRule(snap *snapshot) *model.Recommendation {
	m := &snap.metrics
	if !m.TotalIncome.IsPositive() {
		return nil
	}
	debt := m.SumCategories(snap.taxonomy.DebtCategories)
	if !debt.IsPositive() {
		return nil
	}
	share := debt.Div(m.TotalIncome)
	if share.LessThanOrEqual(maxDebtShare) {
		return nil
	}
	return &model.Recommendation{
		Type:     model.TypeWarning,
		Priority: model.PriorityHigh,
		Title:    "High Debt Payments",
		Message: fmt.Sprintf("You're spending %s%% on debt (%s).",
			share.Mul(decimal.NewFromInt(100)).StringFixed(1), money(debt)),
		Action: "Focus on paying off high-interest debt first. Consider debt consolidation.",
	}
}

func startTrackingRule(snap *snapshot) *model.Recommendation {
	if snap.metrics.TotalExpenses.IsPositive() {
		return nil
	}
	return &model.Recommendation{
		Type:     model.TypeInfo,
		Priority: model.PriorityLow,
		Title:    "Start Tracking",
		Message:  "You haven't tracked any expenses yet!",
		Action:   "Start logging your daily expenses to get personalized recommendations.",
	}
}

func spendingTrendRule(snap *snapshot) *model.Recommendation {
	t := &snap.trend

	if t.Unbounded {
		// No previous month to compare against; a percentage would be
		// meaningless here.
		return &model.Recommendation{
			Type:     model.TypeWarning,
			Priority: model.PriorityMedium,
			Title:    "New Spending This Month",
			Message: fmt.Sprintf("You spent %s this month with nothing recorded the month before.",
				money(t.LastMonth)),
			Action: "Keep logging expenses so month-over-month trends become meaningful.",
		}
	}

	switch {
	case t.PreviousMonth.IsPositive() && t.Increased():
		return &model.Recommendation{
			Type:     model.TypeWarning,
			Priority: model.PriorityMedium,
			Title:    "Monthly Spending Increase",
			Message: fmt.Sprintf("Your spending increased by %.1f%% compared to the previous month (%s to %s).",
				t.ChangePct, money(t.PreviousMonth), money(t.LastMonth)),
			Action: "Review last month's expenses and identify categories driving the increase.",
		}
	case t.PreviousMonth.IsPositive() && t.Decreased():
		return &model.Recommendation{
			Type:     model.TypeSuccess,
			Priority: model.PriorityLow,
			Title:    "Good Job Reducing Spending",
			Message: fmt.Sprintf("Your monthly spending decreased by %.1f%% compared to the previous month (%s to %s).",
				-t.ChangePct, money(t.PreviousMonth), money(t.LastMonth)),
			Action: "Keep maintaining this positive trend!",
		}
	default:
		return nil
	}
}

// money formats a decimal amount as a dollar string with two decimals.
func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
