package services

import (
	"context"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/SscSPs/finovate_app/internal/dto"
)

// LedgerReaderSvc defines read operations on the transaction ledger
type LedgerReaderSvc interface {
	GetTransaction(ctx context.Context, identity domain.Identity, transactionID string) (*domain.Transaction, error)

	// FindByCustomID looks a transaction up by its user-facing custom ID.
	FindByCustomID(ctx context.Context, identity domain.Identity, customID string) (*domain.Transaction, error)

	// ListTransactions lists transactions touching params.AccountID, or all visible ones when it is empty.
	ListTransactions(ctx context.Context, identity domain.Identity, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// VerifyAccountBalance replays an account's history and compares it with the stored balance.
	VerifyAccountBalance(ctx context.Context, identity domain.Identity, accountID string) (*domain.BalanceCheck, error)
}

// LedgerWriterSvc defines the balance-changing ledger operations
type LedgerWriterSvc interface {
	// CreateTransaction records a deposit or withdrawal and applies it to the account balance.
	CreateTransaction(ctx context.Context, identity domain.Identity, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// UpdateTransaction edits a transaction's descriptive fields (and amount, for non-transfers).
	UpdateTransaction(ctx context.Context, identity domain.Identity, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction and reverses its balance effect.
	// Deleting either leg of a transfer removes both.
	DeleteTransaction(ctx context.Context, identity domain.Identity, transactionID string) error
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}

// TransferSvc moves money between two accounts.
type TransferSvc interface {
	// Transfer debits the source and credits the destination in one atomic commit.
	Transfer(ctx context.Context, identity domain.Identity, req dto.TransferRequest) (*domain.TransferResult, error)
}
