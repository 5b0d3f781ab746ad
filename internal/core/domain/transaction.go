package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement a transaction records.
type TransactionType string

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
	Transfer   TransactionType = "transfer"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case Deposit, Withdrawal, Transfer:
		return true
	}
	return false
}

// TransferDirection marks which side of a transfer a leg represents.
type TransferDirection string

const (
	DirectionOut TransferDirection = "OUT"
	DirectionIn  TransferDirection = "IN"
)

// Transaction is a single ledger entry against one account. Amount is always
// positive; the sign comes from Type (see Effect).
type Transaction struct {
	TransactionID    string            `json:"transactionID"`
	CustomID         string            `json:"customID"`
	AccountID        string            `json:"accountID"`
	Type             TransactionType   `json:"type"`
	Amount           decimal.Decimal   `json:"amount"`
	Currency         Currency          `json:"currency"`
	Description      string            `json:"description"`
	Date             string            `json:"date"` // YYYY-MM-DD
	Time             string            `json:"time"` // HH:MM
	RelatedAccountID string            `json:"relatedAccountID,omitempty"`
	TransferID       string            `json:"transferID,omitempty"`
	Direction        TransferDirection `json:"direction,omitempty"`
	AuditFields
}

var (
	errAmountNotPositive   = errors.New("amount must be greater than zero")
	errMissingAccount      = errors.New("account is required")
	errMissingCustomID     = errors.New("custom ID is required")
	errTransferCounterpart = errors.New("transfer legs require a related account and transfer ID")
	errTransferSameAccount = errors.New("transfer legs must reference two different accounts")
	errStandaloneRelated   = errors.New("withdrawals cannot reference a related account")
)

// Validate enforces the per-type shape of a transaction.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.AccountID) == "" {
		return errMissingAccount
	}
	if strings.TrimSpace(t.CustomID) == "" {
		return errMissingCustomID
	}
	if !t.Type.Valid() {
		return errors.New("unknown transaction type " + string(t.Type))
	}
	if !t.Amount.IsPositive() {
		return errAmountNotPositive
	}
	if err := ValidateDate(t.Date); err != nil {
		return err
	}
	if err := ValidateClock(t.Time); err != nil {
		return err
	}

	switch t.Type {
	case Transfer:
		if t.RelatedAccountID == "" || t.TransferID == "" || t.Direction != DirectionOut {
			return errTransferCounterpart
		}
	case Deposit:
		if t.TransferID != "" && (t.RelatedAccountID == "" || t.Direction != DirectionIn) {
			return errTransferCounterpart
		}
		if t.TransferID == "" && (t.RelatedAccountID != "" || t.Direction != "") {
			return errTransferCounterpart
		}
	case Withdrawal:
		if t.RelatedAccountID != "" || t.TransferID != "" || t.Direction != "" {
			return errStandaloneRelated
		}
	}
	if t.RelatedAccountID != "" && t.RelatedAccountID == t.AccountID {
		return errTransferSameAccount
	}
	return nil
}

// Effect is the signed change this transaction applies to its account balance.
func (t Transaction) Effect() decimal.Decimal {
	if t.Type == Deposit {
		return t.Amount
	}
	return t.Amount.Neg()
}

// IsTransferLeg reports whether the transaction is one side of a transfer.
func (t Transaction) IsTransferLeg() bool {
	return t.TransferID != ""
}

// Touches reports whether the transaction references accountID on either side.
func (t Transaction) Touches(accountID string) bool {
	return t.AccountID == accountID || t.RelatedAccountID == accountID
}

// OccurredAt combines Date and Time. Unparseable values yield the zero time.
func (t Transaction) OccurredAt() time.Time {
	at, err := time.Parse(DateLayout+" "+TimeLayout, t.Date+" "+t.Time)
	if err != nil {
		return time.Time{}
	}
	return at
}

// ValidateDate checks a YYYY-MM-DD calendar date.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return errors.New("date must use the YYYY-MM-DD format")
	}
	return nil
}

// ValidateClock checks an HH:MM wall-clock time.
func ValidateClock(clock string) error {
	if _, err := time.Parse(TimeLayout, clock); err != nil {
		return errors.New("time must use the HH:MM format")
	}
	return nil
}

// TransactionFilter selects which transactions a listing returns.
type TransactionFilter struct {
	// AccountIDs matches transactions whose AccountID or RelatedAccountID is in the set.
	AccountIDs []string
	// AllAccounts ignores AccountIDs and returns every transaction.
	AllAccounts bool
}

// Matches reports whether t passes the filter.
func (f TransactionFilter) Matches(t Transaction) bool {
	if f.AllAccounts {
		return true
	}
	for _, id := range f.AccountIDs {
		if t.Touches(id) {
			return true
		}
	}
	return false
}

// LedgerChange is the unit of work the ledger repository commits atomically:
// transaction inserts, edits and deletions, account removals and the balance
// deltas they imply. Either all of it is applied or none of it.
type LedgerChange struct {
	Insert         []Transaction
	Update         []Transaction
	Delete         []string // transaction IDs
	DeleteAccounts []string // account IDs
	BalanceChanges map[string]decimal.Decimal
	UserID         string
	At             time.Time
}

// AddBalanceChange accumulates delta for accountID.
func (c *LedgerChange) AddBalanceChange(accountID string, delta decimal.Decimal) {
	if c.BalanceChanges == nil {
		c.BalanceChanges = make(map[string]decimal.Decimal)
	}
	c.BalanceChanges[accountID] = c.BalanceChanges[accountID].Add(delta)
}

// TransferResult holds the two legs written by a transfer.
type TransferResult struct {
	TransferID string      `json:"transferID"`
	Outgoing   Transaction `json:"outgoing"`
	Incoming   Transaction `json:"incoming"`
}
