package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/finovate_app/internal/apperrors"
	"github.com/SscSPs/finovate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finovate_app/internal/core/ports/services"
	"github.com/SscSPs/finovate_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type goalService struct {
	BaseService
	goalRepo portsrepo.GoalRepositoryFacade
}

// NewGoalService creates the savings goal tracker.
func NewGoalService(goalRepo portsrepo.GoalRepositoryFacade, options ...ServiceOption) portssvc.GoalSvcFacade {
	return &goalService{
		BaseService: newBaseService(options...),
		goalRepo:    goalRepo,
	}
}

var _ portssvc.GoalSvcFacade = (*goalService)(nil)

func goalLockKey(goalID string) string {
	return "goal:" + goalID
}

func (s *goalService) ListGoals(ctx context.Context, identity domain.Identity) ([]domain.FinancialGoal, error) {
	owner := identity.UserID
	if identity.IsElevated() {
		owner = ""
	}
	goals, err := s.goalRepo.ListGoals(ctx, owner)
	if err != nil {
		s.LogError(ctx, err, "Failed to list goals", slog.String("user_id", identity.UserID))
		return nil, err
	}
	if goals == nil {
		return []domain.FinancialGoal{}, nil
	}
	return goals, nil
}

func (s *goalService) GetGoal(ctx context.Context, identity domain.Identity, goalID string) (*domain.FinancialGoal, error) {
	goal, err := s.goalRepo.FindGoalByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if !identity.CanAccess(goal.UserID) {
		return nil, fmt.Errorf("goal %s: %w", goalID, apperrors.ErrForbidden)
	}
	return goal, nil
}

func (s *goalService) ListContributions(ctx context.Context, identity domain.Identity, goalID string) ([]domain.GoalContribution, error) {
	if _, err := s.GetGoal(ctx, identity, goalID); err != nil {
		return nil, err
	}
	contributions, err := s.goalRepo.ListContributions(ctx, goalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list contributions", slog.String("goal_id", goalID))
		return nil, err
	}
	if contributions == nil {
		return []domain.GoalContribution{}, nil
	}
	return contributions, nil
}

func (s *goalService) CreateGoal(ctx context.Context, identity domain.Identity, req dto.CreateGoalRequest) (*domain.FinancialGoal, error) {
	if identity.UserID == "" {
		return nil, fmt.Errorf("%w: missing caller identity", apperrors.ErrUnauthorized)
	}
	now := s.now()
	goal := domain.FinancialGoal{
		GoalID:        uuid.NewString(),
		UserID:        identity.UserID,
		Title:         req.Title,
		Description:   req.Description,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      req.Deadline,
		Category:      req.Category,
		Priority:      req.Priority,
		Status:        domain.GoalActive,
		AuditFields:   domain.NewAuditFields(identity.UserID, now),
	}
	if err := goal.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	if err := s.goalRepo.SaveGoal(ctx, goal); err != nil {
		s.LogError(ctx, err, "Failed to save goal", slog.String("goal_id", goal.GoalID))
		return nil, err
	}
	s.LogInfo(ctx, "Goal created",
		slog.String("goal_id", goal.GoalID),
		slog.String("target", goal.TargetAmount.String()))
	return &goal, nil
}

// UpdateGoal edits the descriptive fields, target and status. The saved
// amount only moves through AddContribution.
func (s *goalService) UpdateGoal(ctx context.Context, identity domain.Identity, goalID string, req dto.UpdateGoalRequest) (*domain.FinancialGoal, error) {
	unlock := s.Locker.Lock(goalLockKey(goalID))
	defer unlock()

	goal, err := s.GetGoal(ctx, identity, goalID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.TargetAmount != nil {
		goal.TargetAmount = *req.TargetAmount
	}
	if req.Deadline != nil {
		goal.Deadline = *req.Deadline
	}
	if req.Category != nil {
		goal.Category = *req.Category
	}
	if req.Priority != nil {
		goal.Priority = *req.Priority
	}
	if req.Status != nil && *req.Status != goal.Status {
		if *req.Status != domain.GoalCompleted && !goal.CurrentAmount.LessThan(goal.TargetAmount) {
			return nil, fmt.Errorf("%w: goal %s already reached its target", apperrors.ErrValidation, goalID)
		}
		goal.Status = *req.Status
		if goal.Status == domain.GoalCompleted {
			completedAt := now
			goal.CompletedAt = &completedAt
		} else {
			goal.CompletedAt = nil
		}
	}
	if goal.Status == domain.GoalActive {
		goal.RecheckCompletion(now)
	}
	if err := goal.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	goal.Touch(identity.UserID, now)

	if err := s.goalRepo.UpdateGoal(ctx, *goal); err != nil {
		s.LogError(ctx, err, "Failed to update goal", slog.String("goal_id", goalID))
		return nil, err
	}
	s.LogInfo(ctx, "Goal updated",
		slog.String("goal_id", goalID),
		slog.String("status", string(goal.Status)))
	return goal, nil
}

func (s *goalService) DeleteGoal(ctx context.Context, identity domain.Identity, goalID string) error {
	unlock := s.Locker.Lock(goalLockKey(goalID))
	defer unlock()

	if _, err := s.GetGoal(ctx, identity, goalID); err != nil {
		return err
	}
	if err := s.goalRepo.DeleteGoal(ctx, goalID); err != nil {
		s.LogError(ctx, err, "Failed to delete goal", slog.String("goal_id", goalID))
		return err
	}
	s.LogInfo(ctx, "Goal deleted", slog.String("goal_id", goalID))
	return nil
}

func (s *goalService) AddContribution(ctx context.Context, identity domain.Identity, goalID string, req dto.AddContributionRequest) (*domain.ContributionResult, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: contribution must be greater than zero", apperrors.ErrValidation)
	}

	unlock := s.Locker.Lock(goalLockKey(goalID))
	defer unlock()

	goal, err := s.GetGoal(ctx, identity, goalID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	date := req.Date
	if date == "" {
		date = now.Format(domain.DateLayout)
	}
	if err := domain.ValidateDate(date); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	contribution := domain.GoalContribution{
		ContributionID: uuid.NewString(),
		GoalID:         goal.GoalID,
		Amount:         req.Amount,
		Date:           date,
		Note:           req.Note,
		CreatedAt:      now,
		CreatedBy:      identity.UserID,
	}
	completed := goal.ApplyContribution(req.Amount, now)
	goal.Touch(identity.UserID, now)

	if err := s.goalRepo.SaveContribution(ctx, *goal, contribution); err != nil {
		s.LogError(ctx, err, "Failed to record contribution", slog.String("goal_id", goalID))
		return nil, err
	}

	s.LogInfo(ctx, "Contribution recorded",
		slog.String("goal_id", goalID),
		slog.String("amount", req.Amount.String()),
		slog.Bool("completed", completed))
	return &domain.ContributionResult{Goal: *goal, Contribution: contribution, Completed: completed}, nil
}
