package dto

import (
	"time"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateGoalRequest defines the data needed to create a savings goal.
type CreateGoalRequest struct {
	Title        string              `json:"title" binding:"required"`
	Description  string              `json:"description"`
	TargetAmount decimal.Decimal     `json:"targetAmount" binding:"gt=0"`
	Deadline     string              `json:"deadline" binding:"required,calendar_date"`
	Category     domain.GoalCategory `json:"category" binding:"required"`
	Priority     domain.GoalPriority `json:"priority" binding:"required,oneof=low medium high"`
}

// UpdateGoalRequest holds the editable goal fields. The saved amount is not among them.
type UpdateGoalRequest struct {
	Title        *string              `json:"title" binding:"omitempty,min=1"`
	Description  *string              `json:"description"`
	TargetAmount *decimal.Decimal     `json:"targetAmount" binding:"omitempty,gt=0"`
	Deadline     *string              `json:"deadline" binding:"omitempty,calendar_date"`
	Category     *domain.GoalCategory `json:"category"`
	Priority     *domain.GoalPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status       *domain.GoalStatus   `json:"status" binding:"omitempty,oneof=active paused completed"`
}

// AddContributionRequest puts money toward a goal.
type AddContributionRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"gt=0"`
	Note   string          `json:"note"`
	Date   string          `json:"date" binding:"omitempty,calendar_date"`
}

// GoalResponse defines the data returned for a goal.
type GoalResponse struct {
	GoalID        string              `json:"goalID"`
	UserID        string              `json:"userID"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	TargetAmount  decimal.Decimal     `json:"targetAmount"`
	CurrentAmount decimal.Decimal     `json:"currentAmount"`
	Deadline      string              `json:"deadline"`
	Category      domain.GoalCategory `json:"category"`
	Priority      domain.GoalPriority `json:"priority"`
	Status        domain.GoalStatus   `json:"status"`
	Progress      decimal.Decimal     `json:"progress"`
	CompletedAt   *time.Time          `json:"completedAt,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ToGoalResponse converts a domain.FinancialGoal to its DTO.
func ToGoalResponse(g *domain.FinancialGoal) GoalResponse {
	return GoalResponse{
		GoalID:        g.GoalID,
		UserID:        g.UserID,
		Title:         g.Title,
		Description:   g.Description,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Deadline:      g.Deadline,
		Category:      g.Category,
		Priority:      g.Priority,
		Status:        g.Status,
		Progress:      g.Progress(),
		CompletedAt:   g.CompletedAt,
		CreatedAt:     g.CreatedAt,
		LastUpdatedAt: g.LastUpdatedAt,
	}
}

// ListGoalsResponse wraps the list of goals.
type ListGoalsResponse struct {
	Goals []GoalResponse `json:"goals"`
}

// ToListGoalsResponse converts a slice of goals.
func ToListGoalsResponse(goals []domain.FinancialGoal) ListGoalsResponse {
	res := make([]GoalResponse, len(goals))
	for i := range goals {
		res[i] = ToGoalResponse(&goals[i])
	}
	return ListGoalsResponse{Goals: res}
}

// ContributionResponse is returned after a contribution is recorded.
type ContributionResponse struct {
	Goal         GoalResponse            `json:"goal"`
	Contribution domain.GoalContribution `json:"contribution"`
	Completed    bool                    `json:"completed"`
}

// ListContributionsResponse wraps a goal's contributions.
type ListContributionsResponse struct {
	Contributions []domain.GoalContribution `json:"contributions"`
}

// SummaryParams defines query parameters for the financial summary.
type SummaryParams struct {
	Month string `form:"month" binding:"omitempty,year_month"`
}
