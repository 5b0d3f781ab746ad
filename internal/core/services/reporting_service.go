package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/finovate_app/internal/apperrors"
	"github.com/SscSPs/finovate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finovate_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// MonthLayout is the layout of the month filter of a summary.
const MonthLayout = "2006-01"

// reportingService implements the ReportingSvc interface
type reportingService struct {
	BaseService
	repos portsrepo.RepositoryProvider
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repos portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.ReportingSvc {
	return &reportingService{
		BaseService: newBaseService(options...),
		repos:       repos,
	}
}

// Ensure reportingService implements the ReportingSvc interface
var _ portssvc.ReportingSvc = (*reportingService)(nil)

func ownerScope(identity domain.Identity) string {
	if identity.IsElevated() {
		return ""
	}
	return identity.UserID
}

// GetSummary aggregates the identity's accounts per currency. Ledger totals are
// restricted to month when it is set; balances are always current.
func (s *reportingService) GetSummary(ctx context.Context, identity domain.Identity, month string) (*domain.FinancialSummary, error) {
	if month != "" {
		if _, err := time.Parse(MonthLayout, month); err != nil {
			return nil, fmt.Errorf("%w: month must use the YYYY-MM format", apperrors.ErrValidation)
		}
	}

	accounts, err := s.repos.AccountRepo.ListAccounts(ctx, ownerScope(identity))
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for summary", slog.String("user_id", identity.UserID))
		return nil, err
	}

	byCurrency := make(map[domain.Currency]*domain.CurrencySummary)
	accountCurrency := make(map[string]domain.Currency, len(accounts))
	ids := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		sum := byCurrency[acc.Currency]
		if sum == nil {
			sum = &domain.CurrencySummary{
				Currency:     acc.Currency,
				TotalBalance: decimal.Zero,
				Income:       decimal.Zero,
				Expenses:     decimal.Zero,
				TransfersIn:  decimal.Zero,
				TransfersOut: decimal.Zero,
			}
			byCurrency[acc.Currency] = sum
		}
		sum.TotalBalance = sum.TotalBalance.Add(acc.Balance)
		sum.AccountCount++
		accountCurrency[acc.AccountID] = acc.Currency
		ids = append(ids, acc.AccountID)
	}

	summary := &domain.FinancialSummary{Month: month, Currencies: []domain.CurrencySummary{}}

	if len(ids) > 0 {
		txns, _, err := s.repos.LedgerRepo.ListTransactions(ctx, domain.TransactionFilter{AccountIDs: ids}, 0, nil)
		if err != nil {
			s.LogError(ctx, err, "Failed to load transactions for summary", slog.String("user_id", identity.UserID))
			return nil, err
		}
		for _, txn := range txns {
			// counterpart legs on accounts outside the scope are counted by their owner
			currency, ok := accountCurrency[txn.AccountID]
			if !ok {
				continue
			}
			if month != "" && !strings.HasPrefix(txn.Date, month+"-") {
				continue
			}
			sum := byCurrency[currency]
			switch {
			case txn.Type == domain.Deposit && txn.IsTransferLeg():
				sum.TransfersIn = sum.TransfersIn.Add(txn.Amount)
			case txn.Type == domain.Deposit:
				sum.Income = sum.Income.Add(txn.Amount)
			case txn.Type == domain.Withdrawal:
				sum.Expenses = sum.Expenses.Add(txn.Amount)
			case txn.Type == domain.Transfer:
				sum.TransfersOut = sum.TransfersOut.Add(txn.Amount)
			}
			summary.TransactionCount++
		}
	}

	for _, sum := range byCurrency {
		sum.NetSavings = sum.Income.Sub(sum.Expenses)
		summary.Currencies = append(summary.Currencies, *sum)
	}
	sort.Slice(summary.Currencies, func(i, j int) bool {
		return summary.Currencies[i].Currency < summary.Currencies[j].Currency
	})

	goals, err := s.repos.GoalRepo.ListGoals(ctx, ownerScope(identity))
	if err != nil {
		s.LogError(ctx, err, "Failed to load goals for summary", slog.String("user_id", identity.UserID))
		return nil, err
	}
	summary.Goals = summarizeGoals(goals)

	s.LogDebug(ctx, "Summary generated",
		slog.String("user_id", identity.UserID),
		slog.String("month", month),
		slog.Int("transactions", summary.TransactionCount))
	return summary, nil
}

func summarizeGoals(goals []domain.FinancialGoal) domain.GoalsSummary {
	out := domain.GoalsSummary{
		TotalTarget:  decimal.Zero,
		TotalCurrent: decimal.Zero,
		Progress:     decimal.Zero,
		ByStatus: map[domain.GoalStatus]int{
			domain.GoalActive:    0,
			domain.GoalCompleted: 0,
			domain.GoalPaused:    0,
		},
	}
	for _, g := range goals {
		out.TotalTarget = out.TotalTarget.Add(g.TargetAmount)
		out.TotalCurrent = out.TotalCurrent.Add(g.CurrentAmount)
		out.ByStatus[g.Status]++
	}
	if out.TotalTarget.IsPositive() {
		out.Progress = domain.FinancialGoal{TargetAmount: out.TotalTarget, CurrentAmount: out.TotalCurrent}.Progress()
	}
	return out
}

func (s *reportingService) GetGoalProgress(ctx context.Context, identity domain.Identity, goalID string) (*domain.GoalProgress, error) {
	goal, err := s.repos.GoalRepo.FindGoalByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if !identity.CanAccess(goal.UserID) {
		return nil, fmt.Errorf("goal %s: %w", goalID, apperrors.ErrForbidden)
	}
	contributions, err := s.repos.GoalRepo.ListContributions(ctx, goalID)
	if err != nil {
		return nil, err
	}

	return &domain.GoalProgress{
		GoalID:        goal.GoalID,
		Title:         goal.Title,
		Status:        goal.Status,
		Progress:      goal.Progress(),
		Remaining:     goal.Remaining(),
		DaysLeft:      daysUntil(s.now(), goal.Deadline),
		Contributions: len(contributions),
	}, nil
}

// daysUntil counts calendar days from now to deadline. Past deadlines are negative.
func daysUntil(now time.Time, deadline string) int {
	end, err := time.Parse(domain.DateLayout, deadline)
	if err != nil {
		return 0
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(today).Hours() / 24)
}
