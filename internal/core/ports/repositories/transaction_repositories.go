package repositories

import (
	"context"

	"github.com/SscSPs/finovate_app/internal/core/domain"
)

// TransactionReader defines read operations for ledger entries
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its system ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByCustomID retrieves a transaction by its user-facing custom ID.
	FindTransactionByCustomID(ctx context.Context, customID string) (*domain.Transaction, error)

	// FindTransactionsByTransferID retrieves both legs of a transfer.
	FindTransactionsByTransferID(ctx context.Context, transferID string) ([]domain.Transaction, error)

	// ListTransactions returns matching transactions newest first using token-based pagination.
	// A limit <= 0 returns every match. It returns the page, a token for the next page, and an error.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// CustomIDExists reports whether any transaction carries customID.
	CustomIDExists(ctx context.Context, customID string) (bool, error)
}

// LedgerWriter is the single write path for transactions and account balances.
type LedgerWriter interface {
	// ApplyLedgerChange commits inserts, edits, deletions and balance deltas atomically.
	// It fails with ErrNotFound for unknown accounts or transactions, ErrDuplicate for a
	// taken custom ID and ErrInsufficientFunds when a debit would leave a negative balance.
	ApplyLedgerChange(ctx context.Context, change domain.LedgerChange) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	TransactionReader
	LedgerWriter
}
