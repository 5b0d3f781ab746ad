package kvstore

import (
	"context"
	"fmt"

	"github.com/SscSPs/finovate_app/internal/apperrors"
	"github.com/SscSPs/finovate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
)

// KVAccountRepository provides account persistence on the state document.
type KVAccountRepository struct {
	store *Store
}

func newKVAccountRepository(store *Store) *KVAccountRepository {
	return &KVAccountRepository{store: store}
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(store *Store) portsrepo.AccountRepositoryFacade {
	return newKVAccountRepository(store)
}

var _ portsrepo.AccountRepositoryFacade = (*KVAccountRepository)(nil)

func (r *KVAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var found *domain.Account
	err := r.store.View(ctx, func(doc *Document) error {
		idx := doc.accountIndex(accountID)
		if idx < 0 {
			return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		acc := doc.Accounts[idx]
		found = &acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *KVAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	err := r.store.View(ctx, func(doc *Document) error {
		for _, id := range accountIDs {
			if idx := doc.accountIndex(id); idx >= 0 {
				result[id] = doc.Accounts[idx]
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *KVAccountRepository) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0)
	err := r.store.View(ctx, func(doc *Document) error {
		for _, acc := range doc.Accounts {
			if userID == "" || acc.UserID == userID {
				accounts = append(accounts, acc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *KVAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return r.store.Update(ctx, func(doc *Document) error {
		if doc.accountIndex(account.AccountID) >= 0 {
			return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
		}
		doc.Accounts = append(doc.Accounts, account)
		return nil
	})
}

func (r *KVAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	return r.store.Update(ctx, func(doc *Document) error {
		idx := doc.accountIndex(account.AccountID)
		if idx < 0 {
			return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrNotFound)
		}
		stored := &doc.Accounts[idx]
		stored.Name = account.Name
		stored.AccountType = account.AccountType
		stored.Currency = account.Currency
		stored.LastUpdatedAt = account.LastUpdatedAt
		stored.LastUpdatedBy = account.LastUpdatedBy
		return nil
	})
}
