package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"savings/internal/core"
)

const (
	// DefaultReportMonths is the report window used when the caller has no preference.
	DefaultReportMonths = 6

	// ReportTransactionLimit caps how many recent transactions a report reads.
	ReportTransactionLimit = 1000

	// reportMonth approximates a calendar month as 30 days.
	reportMonth = 30 * 24 * time.Hour
)

// SavingsService applies the goal business rules and derives summaries and
// advisory reports from repository data. It performs no I/O of its own.
type SavingsService struct {
	goals        GoalStore
	transactions TransactionReader
	now          func() time.Time
}

func NewSavingsService(goals GoalStore, transactions TransactionReader) *SavingsService {
	return &SavingsService{
		goals:        goals,
		transactions: transactions,
		now:          time.Now,
	}
}

// CreateGoal validates the draft before anything is written.
func (s *SavingsService) CreateGoal(ctx context.Context, d core.GoalDraft) (core.Goal, error) {
	if err := d.Validate(); err != nil {
		return core.Goal{}, err
	}
	return s.goals.Create(ctx, d)
}

func (s *SavingsService) GetAllGoals(ctx context.Context, userID *int64) ([]core.Goal, error) {
	return s.goals.FindAll(ctx, userID)
}

func (s *SavingsService) GetGoalByID(ctx context.Context, id int64) (core.Goal, error) {
	g, found, err := s.goals.FindByID(ctx, id)
	if err != nil {
		return core.Goal{}, err
	}
	if !found {
		return core.Goal{}, &core.NotFoundError{Entity: "goal", ID: id}
	}
	return g, nil
}

// UpdateGoal rewrites the supplied fields of an existing goal. The existence
// check and the update are separate calls; a concurrent delete in between
// surfaces as NotFoundError from the reload.
func (s *SavingsService) UpdateGoal(ctx context.Context, id int64, p core.GoalPatch) (core.Goal, error) {
	if err := p.Validate(); err != nil {
		return core.Goal{}, err
	}
	if _, err := s.GetGoalByID(ctx, id); err != nil {
		return core.Goal{}, err
	}

	g, found, err := s.goals.Update(ctx, id, p)
	if err != nil {
		return core.Goal{}, err
	}
	if !found {
		return core.Goal{}, &core.NotFoundError{Entity: "goal", ID: id}
	}
	return g, nil
}

func (s *SavingsService) DeleteGoal(ctx context.Context, id int64) error {
	if _, err := s.GetGoalByID(ctx, id); err != nil {
		return err
	}
	return s.goals.Delete(ctx, id)
}

// AddAmountToGoal deposits a strictly positive amount. Deposits may push
// currentAmount past targetAmount.
func (s *SavingsService) AddAmountToGoal(ctx context.Context, id int64, amount decimal.Decimal) (core.Goal, error) {
	if err := core.ValidateDeposit(amount); err != nil {
		return core.Goal{}, err
	}

	g, found, err := s.goals.AddAmount(ctx, id, amount)
	if err != nil {
		return core.Goal{}, err
	}
	if !found {
		return core.Goal{}, &core.NotFoundError{Entity: "goal", ID: id}
	}
	return g, nil
}

func (s *SavingsService) CalculateProgress(g core.Goal) core.GoalProgress {
	return core.CalculateProgress(g)
}

// GetSummary aggregates every goal of userID, or of everyone when nil.
func (s *SavingsService) GetSummary(ctx context.Context, userID *int64) (core.PortfolioSummary, error) {
	goals, err := s.goals.FindAll(ctx, userID)
	if err != nil {
		return core.PortfolioSummary{}, fmt.Errorf("load goals for summary: %w", err)
	}
	return core.Summarize(goals), nil
}

// GetFinancialDataForAI builds the advisory payload over the last months
// (30-day months). Goal failures are returned; transaction failures are not,
// see recentCashFlow.
func (s *SavingsService) GetFinancialDataForAI(ctx context.Context, userID *int64, months int) (core.FinancialReport, error) {
	goals, err := s.goals.FindAll(ctx, userID)
	if err != nil {
		return core.FinancialReport{}, fmt.Errorf("load goals for report: %w", err)
	}

	cf := s.recentCashFlow(ctx, months)

	return core.NewFinancialReport(cf, goals, months), nil
}

// recentCashFlow is best-effort. When transactions cannot be read at all,
// typically before any have been recorded, the report carries zero totals
// and an empty breakdown instead of failing.
func (s *SavingsService) recentCashFlow(ctx context.Context, months int) core.CashFlow {
	cutoff := s.now().Add(-time.Duration(months) * reportMonth)

	txs, err := s.transactions.FindAll(ctx, nil, ReportTransactionLimit)
	if err != nil {
		return core.EmptyCashFlow()
	}
	return core.SummarizeCashFlow(txs, cutoff)
}
