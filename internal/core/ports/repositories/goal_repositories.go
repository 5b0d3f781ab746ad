package repositories

import (
	"context"

	"github.com/SscSPs/finovate_app/internal/core/domain"
)

// GoalReader defines read operations for goals and their contributions
type GoalReader interface {
	FindGoalByID(ctx context.Context, goalID string) (*domain.FinancialGoal, error)

	// ListGoals retrieves the goals owned by userID, or every goal when userID is empty.
	ListGoals(ctx context.Context, userID string) ([]domain.FinancialGoal, error)

	// ListContributions returns a goal's contributions oldest first.
	ListContributions(ctx context.Context, goalID string) ([]domain.GoalContribution, error)
}

// GoalWriter defines write operations for goals
type GoalWriter interface {
	SaveGoal(ctx context.Context, goal domain.FinancialGoal) error
	UpdateGoal(ctx context.Context, goal domain.FinancialGoal) error

	// DeleteGoal removes the goal together with its contributions.
	DeleteGoal(ctx context.Context, goalID string) error

	// SaveContribution stores the updated goal and appends the contribution in one commit.
	SaveContribution(ctx context.Context, goal domain.FinancialGoal, contribution domain.GoalContribution) error
}

// GoalRepositoryFacade combines all goal-related repository interfaces
type GoalRepositoryFacade interface {
	GoalReader
	GoalWriter
}
