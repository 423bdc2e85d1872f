package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/internal/model"
)

// UnboundedChangePct is the saturating value reported when spending appears
// in a month with nothing recorded in the month before. Dividing by a zero
// previous total is meaningless, so the change is pinned here and flagged via
// SpendingTrend.Unbounded instead.
const UnboundedChangePct = 100.0

// SpendingTrend compares the expense totals of two adjacent calendar months.
type SpendingTrend struct {
	LastMonth     decimal.Decimal `json:"last_month"`
	PreviousMonth decimal.Decimal `json:"previous_month"`
	// ChangePct is the month-over-month change as a percentage, rounded to
	// one decimal place.
	ChangePct float64 `json:"change_percentage"`
	// Unbounded is set when PreviousMonth is zero but LastMonth is not;
	// ChangePct then holds UnboundedChangePct rather than a real ratio.
	Unbounded bool `json:"unbounded"`
}

// Increased reports whether spending went up month over month.
func (t *SpendingTrend) Increased() bool {
	return t.LastMonth.GreaterThan(t.PreviousMonth)
}

// Decreased reports whether spending went down month over month.
func (t *SpendingTrend) Decreased() bool {
	return t.LastMonth.LessThan(t.PreviousMonth) && t.PreviousMonth.IsPositive()
}

// AnalyzeTrend computes the month-over-month change between two expense
// totals. It never fails: a zero previous month saturates per the
// UnboundedChangePct policy.
func AnalyzeTrend(lastMonth, previousMonth decimal.Decimal) SpendingTrend {
	trend := SpendingTrend{
		LastMonth:     lastMonth,
		PreviousMonth: previousMonth,
	}

	switch {
	case previousMonth.IsPositive():
		change := lastMonth.Sub(previousMonth).
			Div(previousMonth).
			Mul(decimal.NewFromInt(100)).
			Round(1)
		trend.ChangePct = change.InexactFloat64()
	case lastMonth.IsPositive():
		trend.ChangePct = UnboundedChangePct
		trend.Unbounded = true
	default:
		trend.ChangePct = 0
	}

	return trend
}

// TrendForMonth computes the spending trend for the calendar month containing
// ref against the immediately preceding month.
func TrendForMonth(expenses []model.Transaction, ref time.Time) SpendingTrend {
	current := ref.Format("2006-01")
	previous := ref.AddDate(0, -1, -ref.Day()+1).Format("2006-01")

	totals := MonthlyExpenseTotals(expenses)
	return AnalyzeTrend(totals[current].Sum, totals[previous].Sum)
}
