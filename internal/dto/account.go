package dto

import (
	"time"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required,min=3,max=100"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=checking savings investment credit"`
	Currency       domain.Currency    `json:"currency" binding:"required,oneof=USD PEN EUR"`
	InitialBalance decimal.Decimal    `json:"initialBalance" binding:"gte=0"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// The balance is deliberately absent: it only changes through the ledger.
type UpdateAccountRequest struct {
	Name        *string             `json:"name" binding:"omitempty,min=3,max=100"`
	AccountType *domain.AccountType `json:"accountType" binding:"omitempty,oneof=checking savings investment credit"`
	Currency    *domain.Currency    `json:"currency" binding:"omitempty,oneof=USD PEN EUR"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string             `json:"accountID"`
	UserID         string             `json:"userID"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"accountType"`
	Currency       domain.Currency    `json:"currency"`
	InitialBalance decimal.Decimal    `json:"initialBalance"`
	Balance        decimal.Decimal    `json:"balance"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy  string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		UserID:         acc.UserID,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		Currency:       acc.Currency,
		InitialBalance: acc.InitialBalance,
		Balance:        acc.Balance,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
