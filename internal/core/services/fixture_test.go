package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/finovate_app/internal/adapters/database/kv"
	"github.com/SscSPs/finovate_app/internal/adapters/database/kvstore"
	"github.com/SscSPs/finovate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finovate_app/internal/core/ports/services"
	"github.com/SscSPs/finovate_app/internal/core/services"
	"github.com/SscSPs/finovate_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var (
	alice = domain.Identity{UserID: "alice", Role: domain.RoleUser}
	bob   = domain.Identity{UserID: "bob", Role: domain.RoleUser}
	admin = domain.Identity{UserID: "root", Role: domain.RoleAdmin}
)

// ledgerFixture wires the real services over an in-memory state document.
type ledgerFixture struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	store *kvstore.Store
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer
}

func (f *ledgerFixture) SetupTest() {
	f.ctx = context.Background()
	f.now = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	f.store = kvstore.NewStore(kv.NewMemoryBackend(), "test")
	f.repos = kvstore.NewRepositoryProvider(f.store)
	f.svc = services.NewServiceContainer(f.repos, services.WithClock(func() time.Time { return f.now }))
}

func (f *ledgerFixture) openAccount(owner domain.Identity, name string, currency domain.Currency, opening int64) *domain.Account {
	acc, err := f.svc.Account.CreateAccount(f.ctx, owner, dto.CreateAccountRequest{
		Name:           name,
		AccountType:    domain.Checking,
		Currency:       currency,
		InitialBalance: decimal.NewFromInt(opening),
	})
	f.Require().NoError(err)
	return acc
}

func (f *ledgerFixture) record(owner domain.Identity, accountID string, typ domain.TransactionType, amount int64, customID string) (*domain.Transaction, error) {
	return f.svc.Ledger.CreateTransaction(f.ctx, owner, dto.CreateTransactionRequest{
		AccountID:   accountID,
		Type:        typ,
		Amount:      decimal.NewFromInt(amount),
		Description: "test " + string(typ),
		CustomID:    customID,
	})
}

func (f *ledgerFixture) balance(accountID string) decimal.Decimal {
	acc, err := f.repos.AccountRepo.FindAccountByID(f.ctx, accountID)
	f.Require().NoError(err)
	return acc.Balance
}

func (f *ledgerFixture) assertBalance(accountID string, want int64) {
	got := f.balance(accountID)
	f.True(got.Equal(decimal.NewFromInt(want)), "account %s: want %d, got %s", accountID, want, got)
}

func (f *ledgerFixture) assertConsistent(accountID string) {
	check, err := f.svc.Ledger.VerifyAccountBalance(f.ctx, admin, accountID)
	f.Require().NoError(err)
	f.True(check.Consistent, "account %s: stored %s, replayed %s", accountID, check.StoredBalance, check.ComputedBalance)
}

func (f *ledgerFixture) transactionCount() int {
	txns, _, err := f.repos.LedgerRepo.ListTransactions(f.ctx, domain.TransactionFilter{AllAccounts: true}, 0, nil)
	f.Require().NoError(err)
	return len(txns)
}
