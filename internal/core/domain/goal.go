package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GoalCategory groups savings goals by purpose.
type GoalCategory string

const (
	CategoryEmergencyFund GoalCategory = "emergency-fund"
	CategoryVacation      GoalCategory = "vacation"
	CategoryDebtPayment   GoalCategory = "debt-payment"
	CategoryHomePurchase  GoalCategory = "home-purchase"
	CategoryEducation     GoalCategory = "education"
	CategoryRetirement    GoalCategory = "retirement"
	CategoryInvestment    GoalCategory = "investment"
	CategoryOther         GoalCategory = "other"
)

// Valid reports whether c is a known category.
func (c GoalCategory) Valid() bool {
	switch c {
	case CategoryEmergencyFund, CategoryVacation, CategoryDebtPayment, CategoryHomePurchase,
		CategoryEducation, CategoryRetirement, CategoryInvestment, CategoryOther:
		return true
	}
	return false
}

// GoalPriority ranks goals.
type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

// Valid reports whether p is a known priority.
func (p GoalPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
)

// Valid reports whether s is a known status.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalActive, GoalCompleted, GoalPaused:
		return true
	}
	return false
}

// FinancialGoal is a savings target that accumulates contributions.
type FinancialGoal struct {
	GoalID        string          `json:"goalID"`
	UserID        string          `json:"userID"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      string          `json:"deadline"` // YYYY-MM-DD
	Category      GoalCategory    `json:"category"`
	Priority      GoalPriority    `json:"priority"`
	Status        GoalStatus      `json:"status"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	AuditFields
}

// GoalContribution is an append-only record of money put toward a goal.
type GoalContribution struct {
	ContributionID string          `json:"contributionID"`
	GoalID         string          `json:"goalID"`
	Amount         decimal.Decimal `json:"amount"`
	Date           string          `json:"date"` // YYYY-MM-DD
	Note           string          `json:"note"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}

// Validate checks the user-supplied goal attributes.
func (g FinancialGoal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return errors.New("title is required")
	}
	if !g.TargetAmount.IsPositive() {
		return errors.New("target amount must be greater than zero")
	}
	if g.CurrentAmount.IsNegative() {
		return errors.New("current amount cannot be negative")
	}
	if err := ValidateDate(g.Deadline); err != nil {
		return errors.New("deadline must use the YYYY-MM-DD format")
	}
	if !g.Category.Valid() {
		return errors.New("unknown goal category " + string(g.Category))
	}
	if !g.Priority.Valid() {
		return errors.New("unknown goal priority " + string(g.Priority))
	}
	if !g.Status.Valid() {
		return errors.New("unknown goal status " + string(g.Status))
	}
	return nil
}

// ApplyContribution adds amount to the goal and marks it completed the first
// time the target is reached. It reports whether this call completed the goal.
func (g *FinancialGoal) ApplyContribution(amount decimal.Decimal, now time.Time) bool {
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	return g.completeIfReached(now)
}

// RecheckCompletion flips the goal to completed when its target has been reached.
func (g *FinancialGoal) RecheckCompletion(now time.Time) bool {
	return g.completeIfReached(now)
}

func (g *FinancialGoal) completeIfReached(now time.Time) bool {
	if g.Status == GoalCompleted || g.CurrentAmount.LessThan(g.TargetAmount) {
		return false
	}
	g.Status = GoalCompleted
	completedAt := now
	g.CompletedAt = &completedAt
	return true
}

// Progress returns the share of the target already saved, as a percentage capped at 100.
func (g FinancialGoal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return pct
}

// Remaining is the amount still missing to reach the target, never negative.
func (g FinancialGoal) Remaining() decimal.Decimal {
	rem := g.TargetAmount.Sub(g.CurrentAmount)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// ContributionResult is the outcome of adding a contribution to a goal.
type ContributionResult struct {
	Goal         FinancialGoal    `json:"goal"`
	Contribution GoalContribution `json:"contribution"`
	Completed    bool             `json:"completed"` // true only on the contribution that reached the target
}
