package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SscSPs/finovate_app/internal/apperrors"
	"github.com/SscSPs/finovate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finovate_app/internal/core/ports/services"
	"github.com/SscSPs/finovate_app/internal/dto"
	"github.com/SscSPs/finovate_app/internal/utils"
)

var csvHeader = []string{"customID", "date", "time", "type", "amount", "currency", "description", "accountID", "relatedAccountID"}

type exportService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.TransactionReader
	ledger      portssvc.LedgerReaderSvc
}

// NewExportService creates the transaction exporter. Single transactions are
// loaded through ledger so they get its access checks.
func NewExportService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.TransactionReader, ledger portssvc.LedgerReaderSvc, options ...ServiceOption) portssvc.ExportSvc {
	return &exportService{
		BaseService: newBaseService(options...),
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		ledger:      ledger,
	}
}

var _ portssvc.ExportSvc = (*exportService)(nil)

func (s *exportService) SerializeTransaction(format domain.ExportFormat, txn domain.Transaction) ([]byte, error) {
	switch format {
	case domain.ExportJSON:
		return json.MarshalIndent(dto.ToTransactionResponse(&txn), "", "  ")
	case domain.ExportCSV:
		return encodeCSV([]domain.Transaction{txn})
	}
	return nil, fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, format)
}

func (s *exportService) SerializeTransactions(format domain.ExportFormat, txns []domain.Transaction) ([]byte, error) {
	switch format {
	case domain.ExportJSON:
		return json.MarshalIndent(dto.ToListTransactionResponse(txns, nil).Transactions, "", "  ")
	case domain.ExportCSV:
		return encodeCSV(txns)
	}
	return nil, fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, format)
}

func (s *exportService) ExportTransaction(ctx context.Context, identity domain.Identity, transactionID string, format domain.ExportFormat) (*domain.ExportFile, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, format)
	}
	txn, err := s.ledger.GetTransaction(ctx, identity, transactionID)
	if err != nil {
		return nil, err
	}
	data, err := s.SerializeTransaction(format, *txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to serialize transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return &domain.ExportFile{
		FileName:    fmt.Sprintf("transaction-%s.%s", txn.CustomID, format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

func (s *exportService) ExportTransactions(ctx context.Context, identity domain.Identity, accountID string, format domain.ExportFormat) (*domain.ExportFile, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, format)
	}
	filter, err := visibleFilter(ctx, s.accountRepo, identity, accountID)
	if err != nil {
		return nil, err
	}

	txns := []domain.Transaction{}
	if filter.AllAccounts || len(filter.AccountIDs) > 0 {
		txns, _, err = s.ledgerRepo.ListTransactions(ctx, filter, 0, nil)
		if err != nil {
			s.LogError(ctx, err, "Failed to load transactions for export", slog.String("account_id", accountID))
			return nil, err
		}
	}

	data, err := s.SerializeTransactions(format, txns)
	if err != nil {
		return nil, err
	}

	scope := accountID
	if scope == "" {
		scope = "all"
	}
	s.LogInfo(ctx, "Transactions exported",
		slog.String("scope", scope),
		slog.String("format", string(format)),
		slog.Int("count", len(txns)))
	return &domain.ExportFile{
		FileName:    fmt.Sprintf("transactions-%s-%s.%s", scope, s.now().Format("20060102"), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

func encodeCSV(txns []domain.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, txn := range txns {
		record := []string{
			txn.CustomID,
			txn.Date,
			txn.Time,
			string(txn.Type),
			utils.FormatWithCurrencyPrecision(txn.Amount, txn.Currency),
			string(txn.Currency),
			txn.Description,
			txn.AccountID,
			txn.RelatedAccountID,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
