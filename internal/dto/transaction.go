package dto

import (
	"time"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest records a standalone deposit or withdrawal.
// CustomID, Date, Time and Currency are filled in by the ledger when omitted.
type CreateTransactionRequest struct {
	AccountID   string                 `json:"accountID" binding:"required"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=deposit withdrawal"`
	Amount      decimal.Decimal        `json:"amount" binding:"gt=0"`
	Description string                 `json:"description" binding:"required,min=3"`
	CustomID    string                 `json:"customID"`
	Date        string                 `json:"date" binding:"omitempty,calendar_date"`
	Time        string                 `json:"time" binding:"omitempty,clock_time"`
	Currency    domain.Currency        `json:"currency" binding:"omitempty,oneof=USD PEN EUR"`
}

// UpdateTransactionRequest holds the editable transaction fields.
// Amount edits are rejected for transfer legs.
type UpdateTransactionRequest struct {
	CustomID    *string          `json:"customID" binding:"omitempty,min=1"`
	Description *string          `json:"description" binding:"omitempty,min=3"`
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,gt=0"`
	Date        *string          `json:"date" binding:"omitempty,calendar_date"`
	Time        *string          `json:"time" binding:"omitempty,clock_time"`
	Currency    *domain.Currency `json:"currency" binding:"omitempty,oneof=USD PEN EUR"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	AccountID string  `form:"-"` // from the path when listing one account
	Limit     int     `form:"limit,default=0" binding:"gte=0,lte=500"`
	NextToken *string `form:"nextToken"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID    string                   `json:"transactionID"`
	CustomID         string                   `json:"customID"`
	AccountID        string                   `json:"accountID"`
	Type             domain.TransactionType   `json:"type"`
	Amount           decimal.Decimal          `json:"amount"`
	Currency         domain.Currency          `json:"currency"`
	Description      string                   `json:"description"`
	Date             string                   `json:"date"`
	Time             string                   `json:"time"`
	RelatedAccountID string                   `json:"relatedAccountID,omitempty"`
	TransferID       string                   `json:"transferID,omitempty"`
	Direction        domain.TransferDirection `json:"direction,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	CreatedBy        string                   `json:"createdBy"`
	LastUpdatedAt    time.Time                `json:"lastUpdatedAt"`
	LastUpdatedBy    string                   `json:"lastUpdatedBy"`
}

// ListTransactionsResponse wraps a page of transactions with the token for the next page.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:    t.TransactionID,
		CustomID:         t.CustomID,
		AccountID:        t.AccountID,
		Type:             t.Type,
		Amount:           t.Amount,
		Currency:         t.Currency,
		Description:      t.Description,
		Date:             t.Date,
		Time:             t.Time,
		RelatedAccountID: t.RelatedAccountID,
		TransferID:       t.TransferID,
		Direction:        t.Direction,
		CreatedAt:        t.CreatedAt,
		CreatedBy:        t.CreatedBy,
		LastUpdatedAt:    t.LastUpdatedAt,
		LastUpdatedBy:    t.LastUpdatedBy,
	}
}

// ToListTransactionResponse converts a page of transactions.
func ToListTransactionResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: res, NextToken: nextToken}
}

// TransferRequest moves money between two accounts.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required,nefield=FromAccountID"`
	Amount        decimal.Decimal `json:"amount" binding:"gt=0"`
	Description   string          `json:"description" binding:"required,min=3"`
	CustomID      string          `json:"customID"`
}

// TransferResponse returns both legs of a completed transfer.
type TransferResponse struct {
	TransferID string              `json:"transferID"`
	Outgoing   TransactionResponse `json:"outgoing"`
	Incoming   TransactionResponse `json:"incoming"`
}

// ToTransferResponse converts a domain.TransferResult to its DTO.
func ToTransferResponse(r *domain.TransferResult) TransferResponse {
	return TransferResponse{
		TransferID: r.TransferID,
		Outgoing:   ToTransactionResponse(&r.Outgoing),
		Incoming:   ToTransactionResponse(&r.Incoming),
	}
}

// ExportParams selects the export serialization.
type ExportParams struct {
	Format domain.ExportFormat `form:"format,default=json" binding:"oneof=json csv"`
}
