package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/internal/engine"
	"github.com/centsible/centsible/internal/model"
)

// Money formats a decimal amount as dollars with two fraction digits.
func Money(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// Percent formats a ratio (already scaled to percent) with one fraction digit.
func Percent(pct decimal.Decimal) string {
	return pct.StringFixed(1) + "%"
}

// RenderOverview renders the income/expense/balance summary.
func RenderOverview(o *engine.FinancialOverview) string {
	var b strings.Builder
	b.WriteString(FormatTitle("Financial Overview") + "\n")
	b.WriteString(fmt.Sprintf("  Total Income:   %s\n", BoldStyle.Render(Money(o.TotalIncome))))
	b.WriteString(fmt.Sprintf("  Total Expenses: %s\n", BoldStyle.Render(Money(o.TotalExpenses))))

	balance := Money(o.Balance)
	if o.Balance.IsNegative() {
		balance = ErrorStyle.Render(balance)
	} else {
		balance = SuccessStyle.Render(balance)
	}
	b.WriteString(fmt.Sprintf("  Balance:        %s\n", balance))
	b.WriteString(fmt.Sprintf("  Savings Rate:   %s\n", Percent(o.SavingsRatePct)))
	return b.String()
}

// RenderCategorySummary renders per-category spending as a table.
func RenderCategorySummary(rows []engine.CategorySummaryRow) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(ChartIcon+" Spending by Category") + "\n")
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-20s %12s %8s", "Category", "Total", "Count")) + "\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%-20s %12s %8d\n", row.Category, Money(row.Total), row.Count))
	}
	return b.String()
}

// RenderMonthlyStats renders month-by-month expense totals.
func RenderMonthlyStats(stats []engine.MonthlyStat) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(ChartIcon+" Monthly Spending") + "\n")
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-10s %12s %8s", "Month", "Total", "Count")) + "\n")
	for _, stat := range stats {
		b.WriteString(fmt.Sprintf("%-10s %12s %8d\n", stat.Month, Money(stat.TotalExpenses), stat.NumExpenses))
	}
	return b.String()
}

// RenderHealthReport renders the health score, trend, and recommendations.
func RenderHealthReport(report *engine.HealthReport) string {
	var b strings.Builder

	score := fmt.Sprintf("%d/100 (%s)", report.HealthScore, report.HealthLevel)
	switch {
	case report.HealthScore >= 80:
		score = SuccessStyle.Render(score)
	case report.HealthScore >= 40:
		score = WarningStyle.Render(score)
	default:
		score = ErrorStyle.Render(score)
	}

	summary := fmt.Sprintf("Health Score:   %s\n", score)
	summary += fmt.Sprintf("Income:         %s\n", Money(report.TotalIncome))
	summary += fmt.Sprintf("Expenses:       %s\n", Money(report.TotalExpenses))
	summary += fmt.Sprintf("Balance:        %s\n", Money(report.Balance))
	summary += fmt.Sprintf("Savings Rate:   %s\n", Percent(report.SavingsRatePct))
	summary += "Spending Trend: " + renderTrend(report.SpendingTrend)
	b.WriteString(RenderBox(MoneyIcon+" Financial Health", summary) + "\n")

	if len(report.Recommendations) > 0 {
		b.WriteString("\n" + TitleStyle.Render(BulbIcon+" Recommendations") + "\n")
		for _, rec := range report.Recommendations {
			b.WriteString(RenderRecommendation(rec) + "\n")
		}
	}
	return b.String()
}

func renderTrend(trend engine.SpendingTrend) string {
	if trend.Unbounded {
		return WarningStyle.Render("new spending this month")
	}
	switch {
	case trend.Increased():
		return WarningStyle.Render(fmt.Sprintf("up %.1f%% vs last month", trend.ChangePct))
	case trend.Decreased():
		return SuccessStyle.Render(fmt.Sprintf("down %.1f%% vs last month", -trend.ChangePct))
	default:
		return SubtleStyle.Render("flat vs last month")
	}
}

// RenderRecommendation renders a single recommendation with its severity color.
func RenderRecommendation(rec model.Recommendation) string {
	var title string
	switch rec.Type {
	case model.TypeError:
		title = FormatError(rec.Title)
	case model.TypeWarning:
		title = FormatWarning(rec.Title)
	case model.TypeSuccess:
		title = FormatSuccess(rec.Title)
	case model.TypeInsight:
		title = InfoStyle.Render(BulbIcon + " " + rec.Title)
	default:
		title = FormatInfo(rec.Title)
	}

	line := title + "\n  " + rec.Message
	if rec.Action != "" {
		line += "\n  " + SubtleStyle.Render("→ "+rec.Action)
	}
	return line
}

// RenderBudget renders a 50/30/20 budget suggestion.
func RenderBudget(suggestion *engine.BudgetSuggestion) string {
	var b strings.Builder
	b.WriteString(FormatTitle("Suggested Budget ("+suggestion.Rule+")") + "\n")
	b.WriteString(SubtitleStyle.Render(suggestion.Description) + "\n")
	b.WriteString(fmt.Sprintf("  Monthly Income: %s\n\n", BoldStyle.Render(Money(suggestion.TotalIncome))))
	for _, bucket := range suggestion.SuggestedBudget.Buckets() {
		b.WriteString(fmt.Sprintf("  %-8s %12s   %s\n", bucket.Name, Money(bucket.Amount), SubtleStyle.Render(bucket.Description)))
	}
	return b.String()
}
