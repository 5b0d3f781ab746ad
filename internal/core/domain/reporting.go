package domain

import (
	"github.com/shopspring/decimal"
)

// CurrencySummary aggregates account and ledger totals for one currency.
type CurrencySummary struct {
	Currency     Currency        `json:"currency"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
	Income       decimal.Decimal `json:"income"`   // standalone deposits
	Expenses     decimal.Decimal `json:"expenses"` // withdrawals
	TransfersIn  decimal.Decimal `json:"transfersIn"`
	TransfersOut decimal.Decimal `json:"transfersOut"`
	NetSavings   decimal.Decimal `json:"netSavings"` // income minus expenses
	AccountCount int             `json:"accountCount"`
}

// GoalsSummary aggregates goal progress across a user's goals.
type GoalsSummary struct {
	TotalTarget  decimal.Decimal    `json:"totalTarget"`
	TotalCurrent decimal.Decimal    `json:"totalCurrent"`
	Progress     decimal.Decimal    `json:"progress"` // percent
	ByStatus     map[GoalStatus]int `json:"byStatus"`
}

// FinancialSummary is the dashboard overview for one identity.
type FinancialSummary struct {
	Month            string            `json:"month,omitempty"` // YYYY-MM, empty for all time
	Currencies       []CurrencySummary `json:"currencies"`
	TransactionCount int               `json:"transactionCount"`
	Goals            GoalsSummary      `json:"goals"`
}

// GoalProgress describes how far along a single goal is.
type GoalProgress struct {
	GoalID        string          `json:"goalID"`
	Title         string          `json:"title"`
	Status        GoalStatus      `json:"status"`
	Progress      decimal.Decimal `json:"progress"` // percent, capped at 100
	Remaining     decimal.Decimal `json:"remaining"`
	DaysLeft      int             `json:"daysLeft"` // negative once the deadline has passed
	Contributions int             `json:"contributions"`
}
