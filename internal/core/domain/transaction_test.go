package domain_test

import (
	"testing"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validDeposit() domain.Transaction {
	return domain.Transaction{
		TransactionID: "txn_123",
		CustomID:      "TX-1",
		AccountID:     "acc_123",
		Type:          domain.Deposit,
		Amount:        decimal.NewFromInt(100),
		Currency:      domain.USD,
		Description:   "Salary",
		Date:          "2024-03-01",
		Time:          "09:30",
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(tx *domain.Transaction)
		wantErr bool
	}{
		{name: "valid deposit", mutate: func(tx *domain.Transaction) {}},
		{name: "valid withdrawal", mutate: func(tx *domain.Transaction) { tx.Type = domain.Withdrawal }},
		{
			name: "valid outgoing transfer leg",
			mutate: func(tx *domain.Transaction) {
				tx.Type = domain.Transfer
				tx.RelatedAccountID = "acc_456"
				tx.TransferID = "trf_1"
				tx.Direction = domain.DirectionOut
			},
		},
		{
			name: "valid incoming transfer leg",
			mutate: func(tx *domain.Transaction) {
				tx.RelatedAccountID = "acc_456"
				tx.TransferID = "trf_1"
				tx.Direction = domain.DirectionIn
			},
		},
		{name: "zero amount", mutate: func(tx *domain.Transaction) { tx.Amount = decimal.Zero }, wantErr: true},
		{name: "negative amount", mutate: func(tx *domain.Transaction) { tx.Amount = decimal.NewFromInt(-5) }, wantErr: true},
		{name: "missing account", mutate: func(tx *domain.Transaction) { tx.AccountID = " " }, wantErr: true},
		{name: "missing custom id", mutate: func(tx *domain.Transaction) { tx.CustomID = "" }, wantErr: true},
		{name: "unknown type", mutate: func(tx *domain.Transaction) { tx.Type = "refund" }, wantErr: true},
		{name: "bad date", mutate: func(tx *domain.Transaction) { tx.Date = "01/03/2024" }, wantErr: true},
		{name: "bad time", mutate: func(tx *domain.Transaction) { tx.Time = "9.30" }, wantErr: true},
		{
			name: "transfer without related account",
			mutate: func(tx *domain.Transaction) {
				tx.Type = domain.Transfer
				tx.TransferID = "trf_1"
				tx.Direction = domain.DirectionOut
			},
			wantErr: true,
		},
		{
			name: "transfer to same account",
			mutate: func(tx *domain.Transaction) {
				tx.Type = domain.Transfer
				tx.RelatedAccountID = tx.AccountID
				tx.TransferID = "trf_1"
				tx.Direction = domain.DirectionOut
			},
			wantErr: true,
		},
		{
			name:    "withdrawal with related account",
			mutate:  func(tx *domain.Transaction) { tx.Type = domain.Withdrawal; tx.RelatedAccountID = "acc_456" },
			wantErr: true,
		},
		{
			name:    "standalone deposit with related account",
			mutate:  func(tx *domain.Transaction) { tx.RelatedAccountID = "acc_456" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validDeposit()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransaction_Effect(t *testing.T) {
	tx := validDeposit()
	assert.True(t, tx.Effect().Equal(decimal.NewFromInt(100)))

	tx.Type = domain.Withdrawal
	assert.True(t, tx.Effect().Equal(decimal.NewFromInt(-100)))

	tx.Type = domain.Transfer
	assert.True(t, tx.Effect().Equal(decimal.NewFromInt(-100)))
}

func TestTransactionFilter_Matches(t *testing.T) {
	tx := validDeposit()
	tx.RelatedAccountID = "acc_456"

	assert.True(t, domain.TransactionFilter{AllAccounts: true}.Matches(tx))
	assert.True(t, domain.TransactionFilter{AccountIDs: []string{"acc_123"}}.Matches(tx))
	assert.True(t, domain.TransactionFilter{AccountIDs: []string{"acc_456"}}.Matches(tx))
	assert.False(t, domain.TransactionFilter{AccountIDs: []string{"acc_789"}}.Matches(tx))
	assert.False(t, domain.TransactionFilter{}.Matches(tx))
}

func TestTransaction_OccurredAt(t *testing.T) {
	tx := validDeposit()
	at := tx.OccurredAt()
	assert.Equal(t, 2024, at.Year())
	assert.Equal(t, 9, at.Hour())
	assert.Equal(t, 30, at.Minute())

	tx.Time = "bogus"
	assert.True(t, tx.OccurredAt().IsZero())
}

func TestLedgerChange_AddBalanceChange(t *testing.T) {
	var change domain.LedgerChange
	change.AddBalanceChange("acc_1", decimal.NewFromInt(10))
	change.AddBalanceChange("acc_1", decimal.NewFromInt(-4))
	change.AddBalanceChange("acc_2", decimal.NewFromInt(7))

	assert.True(t, change.BalanceChanges["acc_1"].Equal(decimal.NewFromInt(6)))
	assert.True(t, change.BalanceChanges["acc_2"].Equal(decimal.NewFromInt(7)))
}
