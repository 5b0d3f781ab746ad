package accounting

import (
	"fmt"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount returns the effect txn has on the balance of accountID.
// Transactions that belong to another account contribute nothing, even when
// they name accountID as their counterpart.
func SignedAmount(txn domain.Transaction, accountID string) decimal.Decimal {
	if txn.AccountID != accountID {
		return decimal.Zero
	}
	return txn.Effect()
}

// ReplayBalance recomputes an account balance from its opening balance and history.
func ReplayBalance(account domain.Account, transactions []domain.Transaction) (decimal.Decimal, int) {
	balance := account.InitialBalance
	count := 0
	for _, txn := range transactions {
		if txn.AccountID != account.AccountID {
			continue
		}
		balance = balance.Add(SignedAmount(txn, account.AccountID))
		count++
	}
	return balance, count
}

// ValidateTransferLegs checks that two transactions form a well-formed transfer:
// one outgoing and one incoming leg, same transfer ID and amount, and each
// pointing at the other's account.
func ValidateTransferLegs(legs []domain.Transaction) error {
	if len(legs) != 2 {
		return fmt.Errorf("transfer must have exactly two legs, found %d", len(legs))
	}
	out, in := legs[0], legs[1]
	if out.Direction == domain.DirectionIn {
		out, in = in, out
	}
	if out.Direction != domain.DirectionOut || in.Direction != domain.DirectionIn {
		return fmt.Errorf("transfer %s needs one outgoing and one incoming leg", out.TransferID)
	}
	if out.TransferID != in.TransferID {
		return fmt.Errorf("transfer legs carry different transfer IDs %s and %s", out.TransferID, in.TransferID)
	}
	if !out.Amount.Equal(in.Amount) {
		return fmt.Errorf("transfer %s legs disagree on amount: %s vs %s", out.TransferID, out.Amount, in.Amount)
	}
	if out.RelatedAccountID != in.AccountID || in.RelatedAccountID != out.AccountID {
		return fmt.Errorf("transfer %s legs do not reference each other's accounts", out.TransferID)
	}
	return nil
}
