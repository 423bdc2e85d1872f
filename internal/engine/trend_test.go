package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/centsible/centsible/internal/model"
)

func TestAnalyzeTrend(t *testing.T) {
	tests := []struct {
		name          string
		lastMonth     string
		previousMonth string
		wantChangePct float64
		wantUnbounded bool
	}{
		{
			name:          "increase",
			lastMonth:     "1200",
			previousMonth: "1000",
			wantChangePct: 20.0,
		},
		{
			name:          "decrease",
			lastMonth:     "800",
			previousMonth: "1000",
			wantChangePct: -20.0,
		},
		{
			name:          "rounded to one decimal",
			lastMonth:     "1000",
			previousMonth: "300",
			wantChangePct: 233.3,
		},
		{
			name:          "flat",
			lastMonth:     "500",
			previousMonth: "500",
			wantChangePct: 0,
		},
		{
			name:          "previous zero saturates",
			lastMonth:     "150",
			previousMonth: "0",
			wantChangePct: UnboundedChangePct,
			wantUnbounded: true,
		},
		{
			name:          "both zero",
			lastMonth:     "0",
			previousMonth: "0",
			wantChangePct: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := AnalyzeTrend(
				decimal.RequireFromString(tt.lastMonth),
				decimal.RequireFromString(tt.previousMonth),
			)

			assert.InDelta(t, tt.wantChangePct, trend.ChangePct, 1e-9)
			assert.Equal(t, tt.wantUnbounded, trend.Unbounded)
			assert.True(t, trend.LastMonth.Equal(decimal.RequireFromString(tt.lastMonth)))
			assert.True(t, trend.PreviousMonth.Equal(decimal.RequireFromString(tt.previousMonth)))
		})
	}
}

func TestTrendDirectionHelpers(t *testing.T) {
	up := AnalyzeTrend(decimal.NewFromInt(200), decimal.NewFromInt(100))
	assert.True(t, up.Increased())
	assert.False(t, up.Decreased())

	down := AnalyzeTrend(decimal.NewFromInt(50), decimal.NewFromInt(100))
	assert.False(t, down.Increased())
	assert.True(t, down.Decreased())

	// A first month of spending is an increase but not a "decrease from"
	// anything.
	fresh := AnalyzeTrend(decimal.NewFromInt(50), decimal.Zero)
	assert.True(t, fresh.Increased())
	assert.False(t, fresh.Decreased())
}

func TestTrendForMonth_CalendarMonths(t *testing.T) {
	expenses := []model.Transaction{
		expense("400", "rent", "Rent/Mortgage", "2024-02-01"),
		expense("100", "groceries", "Food", "2024-02-28"),
		expense("250", "rent", "Rent/Mortgage", "2024-03-01"),
		// An older month that must not leak into the comparison.
		expense("999", "vacation", "Travel", "2023-12-15"),
	}

	trend := TrendForMonth(expenses, date("2024-03-31"))

	assert.True(t, trend.LastMonth.Equal(decimal.NewFromInt(250)), "last month %s", trend.LastMonth)
	assert.True(t, trend.PreviousMonth.Equal(decimal.NewFromInt(500)), "previous month %s", trend.PreviousMonth)
	assert.InDelta(t, -50.0, trend.ChangePct, 1e-9)
}

func TestTrendForMonth_YearBoundary(t *testing.T) {
	expenses := []model.Transaction{
		expense("100", "gifts", "Shopping", "2023-12-20"),
		expense("150", "groceries", "Food", "2024-01-05"),
	}

	trend := TrendForMonth(expenses, date("2024-01-31"))

	assert.True(t, trend.LastMonth.Equal(decimal.NewFromInt(150)))
	assert.True(t, trend.PreviousMonth.Equal(decimal.NewFromInt(100)))
	assert.InDelta(t, 50.0, trend.ChangePct, 1e-9)
}
