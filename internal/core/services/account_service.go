package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/SscSPs/finovate_app/internal/apperrors"
	"github.com/SscSPs/finovate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finovate_app/internal/core/ports/services"
	"github.com/SscSPs/finovate_app/internal/dto"
	"github.com/google/uuid"
)

// maxDeleteAttempts bounds how often DeleteAccount re-reads the ledger when a
// new counterpart account shows up between discovery and locking.
const maxDeleteAttempts = 3

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(options...),
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, identity domain.Identity, req dto.CreateAccountRequest) (*domain.Account, error) {
	if identity.UserID == "" {
		return nil, fmt.Errorf("%w: missing caller identity", apperrors.ErrUnauthorized)
	}
	if err := domain.ValidateAccountFields(req.Name, req.AccountType, req.Currency); err != nil {
		s.LogDebug(ctx, "Rejected account fields", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	if req.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", apperrors.ErrValidation)
	}
	if !req.Currency.FitsPrecision(req.InitialBalance) {
		return nil, fmt.Errorf("%w: initial balance %s has more than %d decimals", apperrors.ErrValidation, req.InitialBalance, req.Currency.Precision())
	}

	now := s.now()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		UserID:         identity.UserID,
		Name:           req.Name,
		AccountType:    req.AccountType,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
		Balance:        req.InitialBalance,
		AuditFields:    domain.NewAuditFields(identity.UserID, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("user_id", identity.UserID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("user_id", identity.UserID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountForIdentity(ctx context.Context, identity domain.Identity, accountID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !identity.CanAccess(account.UserID) {
		s.LogDebug(ctx, "Account belongs to another user",
			slog.String("account_id", accountID),
			slog.String("user_id", identity.UserID))
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrForbidden)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, identity domain.Identity) ([]domain.Account, error) {
	owner := identity.UserID
	if identity.IsElevated() {
		owner = ""
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, owner)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("user_id", identity.UserID))
		return nil, fmt.Errorf("failed to list accounts for user %s: %w", identity.UserID, err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, identity domain.Identity, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	unlock := s.Locker.Lock(accountID)
	defer unlock()

	account, err := s.GetAccountForIdentity(ctx, identity, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.AccountType != nil {
		account.AccountType = *req.AccountType
	}
	if req.Currency != nil && *req.Currency != account.Currency {
		txns, err := s.referencingTransactions(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if len(txns) > 0 {
			return nil, fmt.Errorf("%w: account %s has transactions, its currency cannot change", apperrors.ErrValidation, accountID)
		}
		account.Currency = *req.Currency
	}
	if err := domain.ValidateAccountFields(account.Name, account.AccountType, account.Currency); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	account.Touch(identity.UserID, s.now())

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// DeleteAccount removes the account with every transaction that references it.
// Counterpart legs living on other accounts are removed too, and their effect
// is taken back out of those accounts' balances in the same commit.
func (s *accountService) DeleteAccount(ctx context.Context, identity domain.Identity, accountID string) error {
	if _, err := s.GetAccountForIdentity(ctx, identity, accountID); err != nil {
		return err
	}

	for attempt := 0; attempt < maxDeleteAttempts; attempt++ {
		txns, err := s.referencingTransactions(ctx, accountID)
		if err != nil {
			return err
		}
		locked := append([]string{accountID}, counterpartAccounts(accountID, txns)...)

		done, err := s.deleteLocked(ctx, identity, accountID, locked)
		if err != nil || done {
			return err
		}
		s.LogDebug(ctx, "Counterpart set changed while deleting account, retrying",
			slog.String("account_id", accountID),
			slog.Int("attempt", attempt+1))
	}
	return fmt.Errorf("%w: account %s kept changing during delete", apperrors.ErrInternal, accountID)
}

// deleteLocked commits the cascade while holding the locks for locked. It
// returns false without error when the ledger now touches an account outside
// that set.
func (s *accountService) deleteLocked(ctx context.Context, identity domain.Identity, accountID string, locked []string) (bool, error) {
	unlock := s.Locker.Lock(locked...)
	defer unlock()

	if _, err := s.GetAccountForIdentity(ctx, identity, accountID); err != nil {
		return false, err
	}
	txns, err := s.referencingTransactions(ctx, accountID)
	if err != nil {
		return false, err
	}
	for _, id := range counterpartAccounts(accountID, txns) {
		if !slices.Contains(locked, id) {
			return false, nil
		}
	}

	change := domain.LedgerChange{
		DeleteAccounts: []string{accountID},
		UserID:         identity.UserID,
		At:             s.now(),
	}
	for _, txn := range txns {
		change.Delete = append(change.Delete, txn.TransactionID)
		if txn.AccountID != accountID {
			change.AddBalanceChange(txn.AccountID, txn.Effect().Neg())
		}
	}

	if err := s.ledgerRepo.ApplyLedgerChange(ctx, change); err != nil {
		s.LogError(ctx, err, "Failed to delete account",
			slog.String("account_id", accountID),
			slog.Int("transactions", len(change.Delete)))
		return false, err
	}

	s.LogInfo(ctx, "Account deleted",
		slog.String("account_id", accountID),
		slog.Int("transactions_removed", len(change.Delete)),
		slog.Int("accounts_rebalanced", len(change.BalanceChanges)))
	return true, nil
}

func (s *accountService) referencingTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	txns, _, err := s.ledgerRepo.ListTransactions(ctx, domain.TransactionFilter{AccountIDs: []string{accountID}}, 0, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account transactions", slog.String("account_id", accountID))
		return nil, err
	}
	return txns, nil
}

// counterpartAccounts lists the other accounts named by txns.
func counterpartAccounts(accountID string, txns []domain.Transaction) []string {
	ids := make([]string, 0)
	for _, txn := range txns {
		for _, id := range []string{txn.AccountID, txn.RelatedAccountID} {
			if id != "" && id != accountID && !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
