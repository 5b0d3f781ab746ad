package services

import (
	"context"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/SscSPs/finovate_app/internal/dto"
)

// GoalReaderSvc defines read operations for savings goals
type GoalReaderSvc interface {
	ListGoals(ctx context.Context, identity domain.Identity) ([]domain.FinancialGoal, error)
	GetGoal(ctx context.Context, identity domain.Identity, goalID string) (*domain.FinancialGoal, error)
	ListContributions(ctx context.Context, identity domain.Identity, goalID string) ([]domain.GoalContribution, error)
}

// GoalWriterSvc defines write operations for savings goals
type GoalWriterSvc interface {
	CreateGoal(ctx context.Context, identity domain.Identity, req dto.CreateGoalRequest) (*domain.FinancialGoal, error)
	UpdateGoal(ctx context.Context, identity domain.Identity, goalID string, req dto.UpdateGoalRequest) (*domain.FinancialGoal, error)
	DeleteGoal(ctx context.Context, identity domain.Identity, goalID string) error

	// AddContribution increases the saved amount and completes the goal once its target is reached.
	AddContribution(ctx context.Context, identity domain.Identity, goalID string, req dto.AddContributionRequest) (*domain.ContributionResult, error)
}

// GoalSvcFacade combines all goal-related service interfaces
type GoalSvcFacade interface {
	GoalReaderSvc
	GoalWriterSvc
}
