package services

import (
	"context"

	"github.com/SscSPs/finovate_app/internal/core/domain"
)

// ExportSvc serializes transactions for download.
type ExportSvc interface {
	// SerializeTransaction encodes a single transaction.
	SerializeTransaction(format domain.ExportFormat, txn domain.Transaction) ([]byte, error)

	// SerializeTransactions encodes a list of transactions.
	SerializeTransactions(format domain.ExportFormat, txns []domain.Transaction) ([]byte, error)

	// ExportTransaction loads and serializes one transaction the identity can see.
	ExportTransaction(ctx context.Context, identity domain.Identity, transactionID string, format domain.ExportFormat) (*domain.ExportFile, error)

	// ExportTransactions serializes the identity's transactions, optionally restricted to one account.
	ExportTransactions(ctx context.Context, identity domain.Identity, accountID string, format domain.ExportFormat) (*domain.ExportFile, error)
}
