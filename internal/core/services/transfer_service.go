package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/finovate_app/internal/apperrors"
	"github.com/SscSPs/finovate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finovate_app/internal/core/ports/services"
	"github.com/SscSPs/finovate_app/internal/dto"
	"github.com/SscSPs/finovate_app/internal/utils/accounting"
	"github.com/google/uuid"
)

const (
	outgoingSuffix = "-OUT"
	incomingSuffix = "-IN"
)

type transferService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerRepositoryFacade
}

// NewTransferService creates the transfer orchestrator. Share the ledger's
// AccountLocker through WithLocker so both serialize on the same accounts.
func NewTransferService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerRepositoryFacade, options ...ServiceOption) portssvc.TransferSvc {
	return &transferService{
		BaseService: newBaseService(options...),
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.TransferSvc = (*transferService)(nil)

func (s *transferService) Transfer(ctx context.Context, identity domain.Identity, req dto.TransferRequest) (*domain.TransferResult, error) {
	if req.FromAccountID == "" || req.ToAccountID == "" {
		return nil, fmt.Errorf("%w: source and destination accounts are required", apperrors.ErrValidation)
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}

	unlock := s.Locker.Lock(req.FromAccountID, req.ToAccountID)
	defer unlock()

	from, err := s.accountRepo.FindAccountByID(ctx, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountRepo.FindAccountByID(ctx, req.ToAccountID)
	if err != nil {
		return nil, err
	}
	if !identity.CanAccess(from.UserID) {
		s.LogDebug(ctx, "Transfer from an account the caller does not control",
			slog.String("account_id", from.AccountID),
			slog.String("user_id", identity.UserID))
		return nil, fmt.Errorf("account %s: %w", from.AccountID, apperrors.ErrForbidden)
	}
	if from.Currency != to.Currency {
		return nil, fmt.Errorf("%w: cannot transfer %s into a %s account", apperrors.ErrValidation, from.Currency, to.Currency)
	}
	if !from.Currency.FitsPrecision(req.Amount) {
		return nil, fmt.Errorf("%w: amount %s has more than %d decimals", apperrors.ErrValidation, req.Amount, from.Currency.Precision())
	}
	if from.Balance.LessThan(req.Amount) {
		return nil, fmt.Errorf("%w: account %s holds %s, transfer of %s", apperrors.ErrInsufficientFunds, from.AccountID, from.Balance, req.Amount)
	}

	now := s.now()
	base, err := freeCustomID(ctx, s.ledgerRepo, req.CustomID, now, outgoingSuffix, incomingSuffix)
	if err != nil {
		return nil, err
	}

	transferID := uuid.NewString()
	date, clock := now.Format(domain.DateLayout), now.Format(domain.TimeLayout)
	audit := domain.NewAuditFields(identity.UserID, now)

	outgoing := domain.Transaction{
		TransactionID:    uuid.NewString(),
		CustomID:         base + outgoingSuffix,
		AccountID:        from.AccountID,
		Type:             domain.Transfer,
		Amount:           req.Amount,
		Currency:         from.Currency,
		Description:      legDescription("Transfer to", to.Name, req.Description),
		Date:             date,
		Time:             clock,
		RelatedAccountID: to.AccountID,
		TransferID:       transferID,
		Direction:        domain.DirectionOut,
		AuditFields:      audit,
	}
	incoming := domain.Transaction{
		TransactionID:    uuid.NewString(),
		CustomID:         base + incomingSuffix,
		AccountID:        to.AccountID,
		Type:             domain.Deposit,
		Amount:           req.Amount,
		Currency:         to.Currency,
		Description:      legDescription("Transfer from", from.Name, req.Description),
		Date:             date,
		Time:             clock,
		RelatedAccountID: from.AccountID,
		TransferID:       transferID,
		Direction:        domain.DirectionIn,
		AuditFields:      audit,
	}
	for _, leg := range []domain.Transaction{outgoing, incoming} {
		if err := leg.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
	}
	if err := accounting.ValidateTransferLegs([]domain.Transaction{outgoing, incoming}); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInternal, err)
	}

	change := domain.LedgerChange{
		Insert: []domain.Transaction{outgoing, incoming},
		UserID: identity.UserID,
		At:     now,
	}
	change.AddBalanceChange(from.AccountID, outgoing.Effect())
	change.AddBalanceChange(to.AccountID, incoming.Effect())
	if err := s.ledgerRepo.ApplyLedgerChange(ctx, change); err != nil {
		s.LogError(ctx, err, "Failed to commit transfer",
			slog.String("from_account_id", from.AccountID),
			slog.String("to_account_id", to.AccountID),
			slog.String("custom_id", base))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("transfer_id", transferID),
		slog.String("from_account_id", from.AccountID),
		slog.String("to_account_id", to.AccountID),
		slog.String("amount", req.Amount.String()))
	return &domain.TransferResult{TransferID: transferID, Outgoing: outgoing, Incoming: incoming}, nil
}

func legDescription(prefix, accountName, description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return prefix + " " + accountName
	}
	return prefix + " " + accountName + ": " + description
}
