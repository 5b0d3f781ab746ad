package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// AccountType classifies a money account.
type AccountType string

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	Investment AccountType = "investment"
	Credit     AccountType = "credit"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case Checking, Savings, Investment, Credit:
		return true
	}
	return false
}

// Currency is the ISO code an account is held in.
type Currency string

const (
	USD Currency = "USD"
	PEN Currency = "PEN"
	EUR Currency = "EUR"
)

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	switch c {
	case USD, PEN, EUR:
		return true
	}
	return false
}

// Precision is the number of minor-unit digits used when formatting amounts.
func (c Currency) Precision() int32 {
	return 2
}

// FitsPrecision reports whether amount needs no more decimals than the currency has.
func (c Currency) FitsPrecision(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(c.Precision()))
}

const (
	AccountNameMinLength = 3
	AccountNameMaxLength = 100
)

// Account represents a money account owned by a single user.
// Balance is only ever changed by the ledger commit path.
type Account struct {
	AccountID      string          `json:"accountID"`
	UserID         string          `json:"userID"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	Currency       Currency        `json:"currency"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Balance        decimal.Decimal `json:"balance"`
	AuditFields
}

// ValidateAccountFields checks the user-editable account attributes.
func ValidateAccountFields(name string, accountType AccountType, currency Currency) error {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < AccountNameMinLength || n > AccountNameMaxLength {
		return fmt.Errorf("account name must be between %d and %d characters", AccountNameMinLength, AccountNameMaxLength)
	}
	if !accountType.Valid() {
		return fmt.Errorf("unknown account type %q", accountType)
	}
	if !currency.Valid() {
		return fmt.Errorf("unsupported currency %q", currency)
	}
	return nil
}

// BalanceCheck is the result of replaying an account's history against its stored balance.
type BalanceCheck struct {
	AccountID        string          `json:"accountID"`
	StoredBalance    decimal.Decimal `json:"storedBalance"`
	ComputedBalance  decimal.Decimal `json:"computedBalance"`
	TransactionCount int             `json:"transactionCount"`
	Consistent       bool            `json:"consistent"`
}
