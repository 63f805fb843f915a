// Package report renders summaries and financial reports as console tables.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"savings/internal/core"
)

// WriteSummaryTable renders one row per goal followed by a totals footer.
func WriteSummaryTable(w io.Writer, s core.PortfolioSummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Goal", "Current", "Target", "Progress", "Remaining", "Deadline"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, g := range s.Goals {
		deadline := "-"
		if g.Deadline != nil {
			deadline = g.Deadline.String()
		}
		name := g.Name
		if g.IsComplete {
			name += " ✓"
		}
		table.Append([]string{
			fmt.Sprintf("%d", g.ID),
			name,
			g.CurrentAmount.StringFixed(2),
			g.TargetAmount.StringFixed(2),
			g.Progress.StringFixed(1) + "%",
			g.Remaining.StringFixed(2),
			deadline,
		})
	}

	table.SetFooter([]string{
		"",
		fmt.Sprintf("%d/%d done", s.CompletedGoals, s.TotalGoals),
		s.TotalCurrent.StringFixed(2),
		s.TotalTarget.StringFixed(2),
		s.OverallProgress.StringFixed(1) + "%",
		"",
		"",
	})
	table.Render()
}

// WriteCashFlowTable renders the income/expense totals of a financial report
// and its expense breakdown, categories in name order.
func WriteCashFlowTable(w io.Writer, r core.FinancialReport) {
	totals := tablewriter.NewWriter(w)
	totals.SetHeader([]string{"Period", "Income", "Expense", "Avg income", "Avg expense", "Savings"})
	totals.SetAutoFormatHeaders(false)
	totals.SetAlignment(tablewriter.ALIGN_RIGHT)
	totals.Append([]string{
		fmt.Sprintf("%d months", r.PeriodMonths),
		r.TotalIncome.StringFixed(2),
		r.TotalExpense.StringFixed(2),
		r.MonthlyAvgIncome.StringFixed(2),
		r.MonthlyAvgExpense.StringFixed(2),
		r.CurrentSavings.StringFixed(2),
	})
	totals.Render()

	if len(r.ExpenseByCategory) == 0 {
		return
	}

	categories := make([]string, 0, len(r.ExpenseByCategory))
	for c := range r.ExpenseByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	breakdown := tablewriter.NewWriter(w)
	breakdown.SetAutoFormatHeaders(false)
	breakdown.SetHeader([]string{"Category", "Expense"})
	for _, c := range categories {
		breakdown.Append([]string{c, r.ExpenseByCategory[c].StringFixed(2)})
	}
	breakdown.Render()
}
