package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finovate_app/internal/apperrors"
	"github.com/SscSPs/finovate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finovate_app/internal/core/ports/services"
	"github.com/SscSPs/finovate_app/internal/dto"
	"github.com/SscSPs/finovate_app/internal/utils"
	"github.com/SscSPs/finovate_app/internal/utils/accounting"
	"github.com/google/uuid"
)

// customIDAttempts bounds the retries when a generated custom ID is already taken.
const customIDAttempts = 5

type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates the transaction ledger. It is the only service that
// changes balances outside of transfers and account deletion, and all of them
// go through LedgerRepositoryFacade.ApplyLedgerChange.
func NewLedgerService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerRepositoryFacade, options ...ServiceOption) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: newBaseService(options...),
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ownedAccount loads an account and checks the identity may act on it.
func ownedAccount(ctx context.Context, repo portsrepo.AccountReader, identity domain.Identity, accountID string) (*domain.Account, error) {
	account, err := repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !identity.CanAccess(account.UserID) {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrForbidden)
	}
	return account, nil
}

// visibleFilter selects the transactions identity may list: one account it
// controls, or every account it owns when accountID is empty.
func visibleFilter(ctx context.Context, repo portsrepo.AccountReader, identity domain.Identity, accountID string) (domain.TransactionFilter, error) {
	if accountID != "" {
		if _, err := ownedAccount(ctx, repo, identity, accountID); err != nil {
			return domain.TransactionFilter{}, err
		}
		return domain.TransactionFilter{AccountIDs: []string{accountID}}, nil
	}
	if identity.IsElevated() {
		return domain.TransactionFilter{AllAccounts: true}, nil
	}
	accounts, err := repo.ListAccounts(ctx, identity.UserID)
	if err != nil {
		return domain.TransactionFilter{}, err
	}
	ids := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		ids = append(ids, acc.AccountID)
	}
	return domain.TransactionFilter{AccountIDs: ids}, nil
}

func (s *ledgerService) authorizeTransaction(ctx context.Context, identity domain.Identity, txn *domain.Transaction) error {
	if identity.IsElevated() {
		return nil
	}
	if _, err := ownedAccount(ctx, s.accountRepo, identity, txn.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrForbidden)
		}
		return err
	}
	return nil
}

func (s *ledgerService) GetTransaction(ctx context.Context, identity domain.Identity, transactionID string) (*domain.Transaction, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTransaction(ctx, identity, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *ledgerService) FindByCustomID(ctx context.Context, identity domain.Identity, customID string) (*domain.Transaction, error) {
	txn, err := s.ledgerRepo.FindTransactionByCustomID(ctx, customID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTransaction(ctx, identity, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, identity domain.Identity, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	filter, err := visibleFilter(ctx, s.accountRepo, identity, params.AccountID)
	if err != nil {
		return nil, err
	}
	if !filter.AllAccounts && len(filter.AccountIDs) == 0 {
		empty := dto.ToListTransactionResponse(nil, nil)
		return &empty, nil
	}

	txns, nextToken, err := s.ledgerRepo.ListTransactions(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list transactions",
				slog.String("account_id", params.AccountID),
				slog.String("user_id", identity.UserID))
		}
		return nil, err
	}

	s.LogDebug(ctx, "Transactions listed",
		slog.String("account_id", params.AccountID),
		slog.Int("count", len(txns)))
	resp := dto.ToListTransactionResponse(txns, nextToken)
	return &resp, nil
}

func (s *ledgerService) VerifyAccountBalance(ctx context.Context, identity domain.Identity, accountID string) (*domain.BalanceCheck, error) {
	unlock := s.Locker.Lock(accountID)
	defer unlock()

	account, err := ownedAccount(ctx, s.accountRepo, identity, accountID)
	if err != nil {
		return nil, err
	}
	txns, _, err := s.ledgerRepo.ListTransactions(ctx, domain.TransactionFilter{AccountIDs: []string{accountID}}, 0, nil)
	if err != nil {
		return nil, err
	}

	computed, count := accounting.ReplayBalance(*account, txns)
	check := &domain.BalanceCheck{
		AccountID:        accountID,
		StoredBalance:    account.Balance,
		ComputedBalance:  computed,
		TransactionCount: count,
		Consistent:       computed.Equal(account.Balance),
	}
	if !check.Consistent {
		s.LogWarn(ctx, "Account balance drifted from its history",
			slog.String("account_id", accountID),
			slog.String("stored", account.Balance.String()),
			slog.String("computed", computed.String()))
	}
	return check, nil
}

// freeCustomID returns requested, or a generated ID when it is empty, once
// base+suffix is unused for every suffix. No suffix checks base itself.
func freeCustomID(ctx context.Context, repo portsrepo.TransactionReader, requested string, now time.Time, suffixes ...string) (string, error) {
	if len(suffixes) == 0 {
		suffixes = []string{""}
	}
	taken := func(base string) (bool, error) {
		for _, suffix := range suffixes {
			exists, err := repo.CustomIDExists(ctx, base+suffix)
			if err != nil || exists {
				return exists, err
			}
		}
		return false, nil
	}

	if requested != "" {
		exists, err := taken(requested)
		if err != nil {
			return "", err
		}
		if exists {
			return "", fmt.Errorf("custom ID %s: %w", requested, apperrors.ErrDuplicate)
		}
		return requested, nil
	}

	for attempt := 0; attempt < customIDAttempts; attempt++ {
		candidate := utils.NewTransactionCustomID(now)
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: could not generate a free custom ID", apperrors.ErrInternal)
}

func (s *ledgerService) CreateTransaction(ctx context.Context, identity domain.Identity, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if req.Type != domain.Deposit && req.Type != domain.Withdrawal {
		return nil, fmt.Errorf("%w: only deposits and withdrawals can be recorded directly, got %q", apperrors.ErrValidation, req.Type)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if req.Currency != "" && !req.Currency.Valid() {
		return nil, fmt.Errorf("%w: unsupported currency %q", apperrors.ErrValidation, req.Currency)
	}

	unlock := s.Locker.Lock(req.AccountID)
	defer unlock()

	account, err := ownedAccount(ctx, s.accountRepo, identity, req.AccountID)
	if err != nil {
		return nil, err
	}
	currency := req.Currency
	if currency == "" {
		currency = account.Currency
	}
	if !currency.FitsPrecision(req.Amount) {
		return nil, fmt.Errorf("%w: amount %s has more than %d decimals", apperrors.ErrValidation, req.Amount, currency.Precision())
	}
	if req.Type == domain.Withdrawal && req.Amount.GreaterThan(account.Balance) {
		s.LogDebug(ctx, "Withdrawal exceeds balance",
			slog.String("account_id", account.AccountID),
			slog.String("balance", account.Balance.String()),
			slog.String("amount", req.Amount.String()))
		return nil, fmt.Errorf("%w: account %s holds %s, withdrawal of %s", apperrors.ErrInsufficientFunds, account.AccountID, account.Balance, req.Amount)
	}

	now := s.now()
	customID, err := freeCustomID(ctx, s.ledgerRepo, req.CustomID, now)
	if err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		CustomID:      customID,
		AccountID:     account.AccountID,
		Type:          req.Type,
		Amount:        req.Amount,
		Currency:      currency,
		Description:   req.Description,
		Date:          req.Date,
		Time:          req.Time,
		AuditFields:   domain.NewAuditFields(identity.UserID, now),
	}
	if txn.Date == "" {
		txn.Date = now.Format(domain.DateLayout)
	}
	if txn.Time == "" {
		txn.Time = now.Format(domain.TimeLayout)
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	change := domain.LedgerChange{Insert: []domain.Transaction{txn}, UserID: identity.UserID, At: now}
	change.AddBalanceChange(account.AccountID, txn.Effect())
	if err := s.ledgerRepo.ApplyLedgerChange(ctx, change); err != nil {
		s.LogError(ctx, err, "Failed to record transaction",
			slog.String("account_id", account.AccountID),
			slog.String("custom_id", customID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("custom_id", txn.CustomID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", txn.Amount.String()))
	return &txn, nil
}

func (s *ledgerService) UpdateTransaction(ctx context.Context, identity domain.Identity, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	current, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	unlock := s.Locker.Lock(current.AccountID)
	defer unlock()

	// re-read under the lock
	txn, err := s.GetTransaction(ctx, identity, transactionID)
	if err != nil {
		return nil, err
	}
	original := *txn

	if req.Amount != nil && !req.Amount.Equal(txn.Amount) {
		if txn.IsTransferLeg() {
			return nil, fmt.Errorf("%w: the amount of a transfer cannot be edited", apperrors.ErrValidation)
		}
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
		}
		currency := txn.Currency
		if req.Currency != nil {
			currency = *req.Currency
		}
		if !currency.FitsPrecision(*req.Amount) {
			return nil, fmt.Errorf("%w: amount %s has more than %d decimals", apperrors.ErrValidation, *req.Amount, currency.Precision())
		}
		txn.Amount = *req.Amount
	}
	if req.CustomID != nil && *req.CustomID != txn.CustomID {
		if _, err := freeCustomID(ctx, s.ledgerRepo, *req.CustomID, s.now()); err != nil {
			return nil, err
		}
		txn.CustomID = *req.CustomID
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.Date != nil {
		txn.Date = *req.Date
	}
	if req.Time != nil {
		txn.Time = *req.Time
	}
	if req.Currency != nil {
		if !req.Currency.Valid() {
			return nil, fmt.Errorf("%w: unsupported currency %q", apperrors.ErrValidation, *req.Currency)
		}
		txn.Currency = *req.Currency
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	now := s.now()
	txn.Touch(identity.UserID, now)
	change := domain.LedgerChange{Update: []domain.Transaction{*txn}, UserID: identity.UserID, At: now}

	if delta := txn.Effect().Sub(original.Effect()); !delta.IsZero() {
		account, err := s.accountRepo.FindAccountByID(ctx, txn.AccountID)
		if err != nil {
			return nil, err
		}
		if account.Balance.Add(delta).IsNegative() {
			return nil, fmt.Errorf("%w: editing %s would leave account %s at %s", apperrors.ErrInsufficientFunds, txn.CustomID, account.AccountID, account.Balance.Add(delta))
		}
		change.AddBalanceChange(txn.AccountID, delta)
	}

	if err := s.ledgerRepo.ApplyLedgerChange(ctx, change); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	return txn, nil
}

// DeleteTransaction removes the transaction and takes its effect back out of
// the balance. Both legs of a transfer are removed together.
func (s *ledgerService) DeleteTransaction(ctx context.Context, identity domain.Identity, transactionID string) error {
	current, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	unlock := s.Locker.Lock(current.AccountID, current.RelatedAccountID)
	defer unlock()

	txn, err := s.GetTransaction(ctx, identity, transactionID)
	if err != nil {
		return err
	}

	legs := []domain.Transaction{*txn}
	if txn.IsTransferLeg() {
		legs, err = s.ledgerRepo.FindTransactionsByTransferID(ctx, txn.TransferID)
		if err != nil {
			return err
		}
	}

	change := domain.LedgerChange{UserID: identity.UserID, At: s.now()}
	for _, leg := range legs {
		change.Delete = append(change.Delete, leg.TransactionID)
		change.AddBalanceChange(leg.AccountID, leg.Effect().Neg())
	}

	if err := s.ledgerRepo.ApplyLedgerChange(ctx, change); err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		}
		return err
	}

	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID),
		slog.Int("legs", len(legs)))
	return nil
}
