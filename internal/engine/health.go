package engine

import (
	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/internal/config"
)

// Health tier labels, one per contiguous score band.
const (
	TierPoor      = "Poor"
	TierFair      = "Fair"
	TierGood      = "Good"
	TierExcellent = "Excellent"
)

// Scoring policy constants. These are calibratable; the invariants the rest
// of the engine relies on are documented on Score.
var (
	excellentSavingsRate = decimal.NewFromFloat(0.20)
	goodSavingsRate      = decimal.NewFromFloat(0.10)
	maxHousingShare      = decimal.NewFromFloat(0.30)
	maxFoodShare         = decimal.NewFromFloat(0.30)
	maxDebtShare         = decimal.NewFromFloat(0.15)
)

// Score component weights.
const (
	savingsExcellentPoints = 40
	savingsGoodPoints      = 25
	savingsSomePoints      = 10
	housingPoints          = 30
	foodPoints             = 20
	debtPoints             = 10

	// negativeBalanceCeiling caps the score whenever expenses exceed income.
	negativeBalanceCeiling = 40

	maxScore = 100
)

// HealthScore is the 0-100 financial health score and its tier label.
type HealthScore struct {
	Tier  string `json:"health_level"`
	Score int    `json:"financial_health_score"`
}

// Scorer maps aggregate metrics to a health score.
type Scorer struct {
	taxonomy *config.Taxonomy
}

// NewScorer creates a scorer bound to the given taxonomy.
func NewScorer(taxonomy *config.Taxonomy) *Scorer {
	return &Scorer{taxonomy: taxonomy}
}

// Score computes the financial health score from aggregate metrics.
//
// Guarantees: the score is always within [0,100]; it is monotonically
// non-decreasing in savings rate with other factors held fixed; and it never
// exceeds negativeBalanceCeiling when the balance is negative. A snapshot
// with no income scores 0.
func (s *Scorer) Score(m AggregateMetrics) HealthScore {
	score := 0

	if m.TotalIncome.IsPositive() {
		switch {
		case m.SavingsRate.GreaterThanOrEqual(excellentSavingsRate):
			score += savingsExcellentPoints
		case m.SavingsRate.GreaterThanOrEqual(goodSavingsRate):
			score += savingsGoodPoints
		case m.SavingsRate.IsPositive():
			score += savingsSomePoints
		}

		housing := m.SumCategories(s.taxonomy.HousingCategories)
		if housing.Div(m.TotalIncome).LessThanOrEqual(maxHousingShare) {
			score += housingPoints
		}

		if m.TotalExpenses.IsPositive() {
			food := m.SumCategories(s.taxonomy.FoodCategories)
			if food.Div(m.TotalExpenses).LessThanOrEqual(maxFoodShare) {
				score += foodPoints
			}
		}

		debt := m.SumCategories(s.taxonomy.DebtCategories)
		if debt.Div(m.TotalIncome).LessThanOrEqual(maxDebtShare) {
			score += debtPoints
		}
	}

	if score > maxScore {
		score = maxScore
	}
	if m.Balance.IsNegative() && score > negativeBalanceCeiling {
		score = negativeBalanceCeiling
	}

	return HealthScore{Score: score, Tier: tierFor(score)}
}

// tierFor maps a score to its tier band. The four bands are contiguous and
// cover [0,100] with no gaps.
func tierFor(score int) string {
	switch {
	case score >= 80:
		return TierExcellent
	case score >= 60:
		return TierGood
	case score >= 40:
		return TierFair
	default:
		return TierPoor
	}
}
