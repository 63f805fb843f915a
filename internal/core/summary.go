package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// OtherCategory labels expenses recorded without a category.
const OtherCategory = "Other"

var hundred = decimal.NewFromInt(100)

// GoalProgress is a goal plus its display projection.
type GoalProgress struct {
	Goal
	Progress   decimal.Decimal `json:"progress"` // percent, clamped to [0, 100], one decimal
	Remaining  decimal.Decimal `json:"remaining"`
	IsComplete bool            `json:"isComplete"`
}

// PortfolioSummary aggregates every goal matching an owner filter.
type PortfolioSummary struct {
	TotalGoals      int             `json:"totalGoals"`
	CompletedGoals  int             `json:"completedGoals"`
	TotalTarget     decimal.Decimal `json:"totalTarget"`
	TotalCurrent    decimal.Decimal `json:"totalCurrent"`
	OverallProgress decimal.Decimal `json:"overallProgress"`
	Goals           []GoalProgress  `json:"goals"`
}

// FinancialReport is the payload handed to the advisory consumer.
// MonthlyIncome, MonthlyExpense and OtherGoals duplicate other fields under
// the names older consumers read.
type FinancialReport struct {
	TotalIncome       decimal.Decimal            `json:"total_income"`
	TotalExpense      decimal.Decimal            `json:"total_expense"`
	MonthlyAvgIncome  decimal.Decimal            `json:"monthly_avg_income"`
	MonthlyAvgExpense decimal.Decimal            `json:"monthly_avg_expense"`
	CurrentSavings    decimal.Decimal            `json:"current_savings"`
	SavingsGoals      []Goal                     `json:"savings_goals"`
	ExpenseByCategory map[string]decimal.Decimal `json:"expense_by_category"`
	PeriodMonths      int                        `json:"period_months"`
	MonthlyIncome     decimal.Decimal            `json:"monthly_income"`
	MonthlyExpense    decimal.Decimal            `json:"monthly_expense"`
	OtherGoals        []Goal                     `json:"other_goals"`
}

// CashFlow holds windowed transaction totals.
type CashFlow struct {
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	ExpenseByCategory map[string]decimal.Decimal
}

// EmptyCashFlow is the zero-valued cash flow used when no transaction data is available.
func EmptyCashFlow() CashFlow {
	return CashFlow{
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		ExpenseByCategory: map[string]decimal.Decimal{},
	}
}

// CalculateProgress projects a goal for display. It never mutates the goal.
func CalculateProgress(g Goal) GoalProgress {
	progress := decimal.Zero
	if g.TargetAmount.IsPositive() {
		progress = g.CurrentAmount.Mul(hundred).Div(g.TargetAmount)
		progress = decimal.Max(decimal.Zero, decimal.Min(hundred, progress))
	}

	return GoalProgress{
		Goal:       g,
		Progress:   progress.Round(1),
		Remaining:  decimal.Max(decimal.Zero, g.TargetAmount.Sub(g.CurrentAmount)),
		IsComplete: g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount),
	}
}

// Summarize aggregates goals into a portfolio summary. An empty input yields
// zero totals and an empty, non-nil Goals slice.
func Summarize(goals []Goal) PortfolioSummary {
	s := PortfolioSummary{
		TotalGoals:      len(goals),
		TotalTarget:     decimal.Zero,
		TotalCurrent:    decimal.Zero,
		OverallProgress: decimal.Zero,
		Goals:           make([]GoalProgress, 0, len(goals)),
	}

	for _, g := range goals {
		s.TotalTarget = s.TotalTarget.Add(g.TargetAmount)
		s.TotalCurrent = s.TotalCurrent.Add(g.CurrentAmount)
		if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
			s.CompletedGoals++
		}
		s.Goals = append(s.Goals, CalculateProgress(g))
	}

	if s.TotalTarget.IsPositive() {
		s.OverallProgress = s.TotalCurrent.Mul(hundred).Div(s.TotalTarget).Round(1)
	}

	return s
}

// SummarizeCashFlow totals transactions dated at or after cutoff by type and
// breaks expenses down by category.
func SummarizeCashFlow(txs []Transaction, cutoff time.Time) CashFlow {
	cf := EmptyCashFlow()
	for _, t := range txs {
		if t.Date.Before(cutoff) {
			continue
		}
		switch t.Type {
		case Income:
			cf.TotalIncome = cf.TotalIncome.Add(t.Amount)
		case Expense:
			cf.TotalExpense = cf.TotalExpense.Add(t.Amount)
			category := t.Category
			if category == "" {
				category = OtherCategory
			}
			cf.ExpenseByCategory[category] = cf.ExpenseByCategory[category].Add(t.Amount)
		}
	}
	return cf
}

// NewFinancialReport assembles the advisory payload, including its aliases.
// Monthly averages are zero when months is not positive.
func NewFinancialReport(cf CashFlow, goals []Goal, months int) FinancialReport {
	if goals == nil {
		goals = []Goal{}
	}
	if cf.ExpenseByCategory == nil {
		cf.ExpenseByCategory = map[string]decimal.Decimal{}
	}

	savings := decimal.Zero
	for _, g := range goals {
		savings = savings.Add(g.CurrentAmount)
	}

	avgIncome, avgExpense := decimal.Zero, decimal.Zero
	if months > 0 {
		m := decimal.NewFromInt(int64(months))
		avgIncome = cf.TotalIncome.Div(m)
		avgExpense = cf.TotalExpense.Div(m)
	}

	return FinancialReport{
		TotalIncome:       cf.TotalIncome,
		TotalExpense:      cf.TotalExpense,
		MonthlyAvgIncome:  avgIncome,
		MonthlyAvgExpense: avgExpense,
		CurrentSavings:    savings,
		SavingsGoals:      goals,
		ExpenseByCategory: cf.ExpenseByCategory,
		PeriodMonths:      months,
		MonthlyIncome:     avgIncome,
		MonthlyExpense:    avgExpense,
		OtherGoals:        goals,
	}
}
