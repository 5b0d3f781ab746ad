package services

import (
	"context"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/SscSPs/finovate_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account without any ownership check. Callers enforce access.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountForIdentity retrieves an account the identity is allowed to see.
	GetAccountForIdentity(ctx context.Context, identity domain.Identity, accountID string) (*domain.Account, error)

	// ListAccounts returns the identity's accounts, or every account for an elevated identity.
	ListAccounts(ctx context.Context, identity domain.Identity) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account owned by the identity.
	CreateAccount(ctx context.Context, identity domain.Identity, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount updates an existing account's descriptive fields.
	UpdateAccount(ctx context.Context, identity domain.Identity, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeleteAccount removes the account and every transaction that references it.
	DeleteAccount(ctx context.Context, identity domain.Identity, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
