package kvstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/finovate_app/internal/apperrors"
	"github.com/SscSPs/finovate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
)

// KVGoalRepository provides goal and contribution persistence on the state document.
type KVGoalRepository struct {
	store *Store
}

func newKVGoalRepository(store *Store) *KVGoalRepository {
	return &KVGoalRepository{store: store}
}

// NewGoalRepository creates a new repository for goal data.
func NewGoalRepository(store *Store) portsrepo.GoalRepositoryFacade {
	return newKVGoalRepository(store)
}

var _ portsrepo.GoalRepositoryFacade = (*KVGoalRepository)(nil)

func (r *KVGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.FinancialGoal, error) {
	var found *domain.FinancialGoal
	err := r.store.View(ctx, func(doc *Document) error {
		idx := doc.goalIndex(goalID)
		if idx < 0 {
			return fmt.Errorf("goal %s: %w", goalID, apperrors.ErrNotFound)
		}
		goal := doc.Goals[idx]
		found = &goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *KVGoalRepository) ListGoals(ctx context.Context, userID string) ([]domain.FinancialGoal, error) {
	goals := make([]domain.FinancialGoal, 0)
	err := r.store.View(ctx, func(doc *Document) error {
		for _, g := range doc.Goals {
			if userID == "" || g.UserID == userID {
				goals = append(goals, g)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *KVGoalRepository) ListContributions(ctx context.Context, goalID string) ([]domain.GoalContribution, error) {
	contributions := make([]domain.GoalContribution, 0)
	err := r.store.View(ctx, func(doc *Document) error {
		for _, c := range doc.Contributions {
			if c.GoalID == goalID {
				contributions = append(contributions, c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].CreatedAt.Before(contributions[j].CreatedAt)
	})
	return contributions, nil
}

func (r *KVGoalRepository) SaveGoal(ctx context.Context, goal domain.FinancialGoal) error {
	return r.store.Update(ctx, func(doc *Document) error {
		if doc.goalIndex(goal.GoalID) >= 0 {
			return fmt.Errorf("goal %s: %w", goal.GoalID, apperrors.ErrDuplicate)
		}
		doc.Goals = append(doc.Goals, goal)
		return nil
	})
}

func (r *KVGoalRepository) UpdateGoal(ctx context.Context, goal domain.FinancialGoal) error {
	return r.store.Update(ctx, func(doc *Document) error {
		idx := doc.goalIndex(goal.GoalID)
		if idx < 0 {
			return fmt.Errorf("goal %s: %w", goal.GoalID, apperrors.ErrNotFound)
		}
		// The saved amount only moves through SaveContribution.
		goal.CurrentAmount = doc.Goals[idx].CurrentAmount
		doc.Goals[idx] = goal
		return nil
	})
}

func (r *KVGoalRepository) DeleteGoal(ctx context.Context, goalID string) error {
	return r.store.Update(ctx, func(doc *Document) error {
		idx := doc.goalIndex(goalID)
		if idx < 0 {
			return fmt.Errorf("goal %s: %w", goalID, apperrors.ErrNotFound)
		}
		doc.Goals = append(doc.Goals[:idx], doc.Goals[idx+1:]...)

		kept := doc.Contributions[:0]
		for _, c := range doc.Contributions {
			if c.GoalID != goalID {
				kept = append(kept, c)
			}
		}
		doc.Contributions = kept
		return nil
	})
}

func (r *KVGoalRepository) SaveContribution(ctx context.Context, goal domain.FinancialGoal, contribution domain.GoalContribution) error {
	return r.store.Update(ctx, func(doc *Document) error {
		idx := doc.goalIndex(goal.GoalID)
		if idx < 0 {
			return fmt.Errorf("goal %s: %w", goal.GoalID, apperrors.ErrNotFound)
		}
		if contribution.GoalID != goal.GoalID {
			return fmt.Errorf("%w: contribution belongs to goal %s", apperrors.ErrValidation, contribution.GoalID)
		}
		doc.Goals[idx] = goal
		doc.Contributions = append(doc.Contributions, contribution)
		return nil
	})
}
