package services

import (
	"context"

	"github.com/SscSPs/finovate_app/internal/core/domain"
)

// ReportingSvc defines operations for generating financial summaries
type ReportingSvc interface {
	// GetSummary aggregates balances, income, expenses and goal progress, optionally for one YYYY-MM month.
	GetSummary(ctx context.Context, identity domain.Identity, month string) (*domain.FinancialSummary, error)

	// GetGoalProgress reports how far a single goal is from its target and deadline.
	GetGoalProgress(ctx context.Context, identity domain.Identity, goalID string) (*domain.GoalProgress, error)
}
