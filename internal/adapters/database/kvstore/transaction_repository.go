package kvstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/finovate_app/internal/apperrors"
	"github.com/SscSPs/finovate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
	"github.com/SscSPs/finovate_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// KVLedgerRepository provides transaction persistence and the atomic balance
// commit on the state document.
type KVLedgerRepository struct {
	store *Store
}

func newKVLedgerRepository(store *Store) *KVLedgerRepository {
	return &KVLedgerRepository{store: store}
}

// NewLedgerRepository creates a new repository for ledger data.
func NewLedgerRepository(store *Store) portsrepo.LedgerRepositoryFacade {
	return newKVLedgerRepository(store)
}

var _ portsrepo.LedgerRepositoryFacade = (*KVLedgerRepository)(nil)

func (r *KVLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var found *domain.Transaction
	err := r.store.View(ctx, func(doc *Document) error {
		idx := doc.transactionIndex(transactionID)
		if idx < 0 {
			return fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		txn := doc.Transactions[idx]
		found = &txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *KVLedgerRepository) FindTransactionByCustomID(ctx context.Context, customID string) (*domain.Transaction, error) {
	var found *domain.Transaction
	err := r.store.View(ctx, func(doc *Document) error {
		for _, txn := range doc.Transactions {
			if txn.CustomID == customID {
				found = &txn
				return nil
			}
		}
		return fmt.Errorf("transaction with custom ID %s: %w", customID, apperrors.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *KVLedgerRepository) FindTransactionsByTransferID(ctx context.Context, transferID string) ([]domain.Transaction, error) {
	legs := make([]domain.Transaction, 0, 2)
	err := r.store.View(ctx, func(doc *Document) error {
		for _, txn := range doc.Transactions {
			if transferID != "" && txn.TransferID == transferID {
				legs = append(legs, txn)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return legs, nil
}

func (r *KVLedgerRepository) CustomIDExists(ctx context.Context, customID string) (bool, error) {
	exists := false
	err := r.store.View(ctx, func(doc *Document) error {
		exists = customIDTaken(doc, customID, "")
		return nil
	})
	return exists, err
}

// newerFirst orders transactions by date and time, then creation instant, then ID, newest first.
func newerFirst(a, b domain.Transaction) bool {
	ao, bo := a.OccurredAt(), b.OccurredAt()
	if !ao.Equal(bo) {
		return ao.After(bo)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.TransactionID > b.TransactionID
}

func (r *KVLedgerRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var cursor *domain.Transaction
	if nextToken != nil && *nextToken != "" {
		occurredAt, createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		cursor = &domain.Transaction{
			TransactionID: id,
			Date:          occurredAt.Format(domain.DateLayout),
			Time:          occurredAt.Format(domain.TimeLayout),
			AuditFields:   domain.AuditFields{CreatedAt: createdAt},
		}
	}

	matched := make([]domain.Transaction, 0)
	err := r.store.View(ctx, func(doc *Document) error {
		for _, txn := range doc.Transactions {
			if filter.Matches(txn) {
				matched = append(matched, txn)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool { return newerFirst(matched[i], matched[j]) })

	if cursor != nil {
		start := sort.Search(len(matched), func(i int) bool { return newerFirst(*cursor, matched[i]) })
		matched = matched[start:]
	}

	if limit <= 0 || len(matched) <= limit {
		return matched, nil, nil
	}

	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.OccurredAt(), last.CreatedAt, last.TransactionID)
	return page, &token, nil
}

func customIDTaken(doc *Document, customID, exceptTransactionID string) bool {
	for _, txn := range doc.Transactions {
		if txn.CustomID == customID && txn.TransactionID != exceptTransactionID {
			return true
		}
	}
	return false
}

// ApplyLedgerChange commits the change in a single document write. Nothing is
// persisted if any step fails.
func (r *KVLedgerRepository) ApplyLedgerChange(ctx context.Context, change domain.LedgerChange) error {
	return r.store.Update(ctx, func(doc *Document) error {
		return applyLedgerChange(doc, change)
	})
}

func applyLedgerChange(doc *Document, change domain.LedgerChange) error {
	// 1. Remove transactions
	for _, id := range change.Delete {
		idx := doc.transactionIndex(id)
		if idx < 0 {
			return fmt.Errorf("transaction %s: %w", id, apperrors.ErrNotFound)
		}
		doc.Transactions = append(doc.Transactions[:idx], doc.Transactions[idx+1:]...)
	}

	// 2. Remove accounts; none of their transactions may survive
	for _, id := range change.DeleteAccounts {
		idx := doc.accountIndex(id)
		if idx < 0 {
			return fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
		for _, txn := range doc.Transactions {
			if txn.Touches(id) {
				return fmt.Errorf("%w: account %s still referenced by transaction %s", apperrors.ErrValidation, id, txn.TransactionID)
			}
		}
		doc.Accounts = append(doc.Accounts[:idx], doc.Accounts[idx+1:]...)
	}

	// 3. Apply balance deltas in a stable order
	accountIDs := make([]string, 0, len(change.BalanceChanges))
	for id := range change.BalanceChanges {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)
	for _, id := range accountIDs {
		delta := change.BalanceChanges[id]
		idx := doc.accountIndex(id)
		if idx < 0 {
			return fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
		acc := &doc.Accounts[idx]
		newBalance := acc.Balance.Add(delta)
		if delta.LessThan(decimal.Zero) && newBalance.IsNegative() {
			return fmt.Errorf("%w: account %s balance %s cannot absorb %s", apperrors.ErrInsufficientFunds, id, acc.Balance, delta)
		}
		acc.Balance = newBalance
		acc.Touch(change.UserID, change.At)
	}

	// 4. Replace edited transactions
	for _, txn := range change.Update {
		idx := doc.transactionIndex(txn.TransactionID)
		if idx < 0 {
			return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrNotFound)
		}
		if customIDTaken(doc, txn.CustomID, txn.TransactionID) {
			return fmt.Errorf("custom ID %s: %w", txn.CustomID, apperrors.ErrDuplicate)
		}
		doc.Transactions[idx] = txn
	}

	// 5. Append new transactions
	for _, txn := range change.Insert {
		if doc.accountIndex(txn.AccountID) < 0 {
			return fmt.Errorf("account %s: %w", txn.AccountID, apperrors.ErrNotFound)
		}
		if doc.transactionIndex(txn.TransactionID) >= 0 {
			return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
		}
		if customIDTaken(doc, txn.CustomID, "") {
			return fmt.Errorf("custom ID %s: %w", txn.CustomID, apperrors.ErrDuplicate)
		}
		doc.Transactions = append(doc.Transactions, txn)
	}
	return nil
}
