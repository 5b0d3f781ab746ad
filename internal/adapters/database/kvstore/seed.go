package kvstore

import (
	"context"
	"time"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Example owners used by the demo data set.
const (
	ExampleUserID  = "1"
	ExampleAdminID = "2"
)

const seedActor = "seed"

// SeedExampleData writes a small, internally consistent demo data set when the
// document is empty. It reports whether anything was written.
func SeedExampleData(ctx context.Context, store *Store, now time.Time) (bool, error) {
	seeded := false
	err := store.Update(ctx, func(doc *Document) error {
		if !doc.IsEmpty() {
			return nil
		}
		*doc = exampleDocument(now.UTC())
		seeded = true
		return nil
	})
	return seeded, err
}

func exampleDocument(now time.Time) Document {
	audit := domain.NewAuditFields(seedActor, now)
	day := 24 * time.Hour
	at := func(ago time.Duration) (string, string) {
		t := now.Add(-ago)
		return t.Format(domain.DateLayout), t.Format(domain.TimeLayout)
	}

	account := func(id, owner, name string, typ domain.AccountType, initial, balance int64) domain.Account {
		return domain.Account{
			AccountID:      id,
			UserID:         owner,
			Name:           name,
			AccountType:    typ,
			Currency:       domain.USD,
			InitialBalance: decimal.NewFromInt(initial),
			Balance:        decimal.NewFromInt(balance),
			AuditFields:    audit,
		}
	}

	txn := func(id string, accountID string, typ domain.TransactionType, amount int64, desc string, ago time.Duration) domain.Transaction {
		date, clock := at(ago)
		return domain.Transaction{
			TransactionID: id,
			CustomID:      "TX-EXAMPLE-" + id,
			AccountID:     accountID,
			Type:          typ,
			Amount:        decimal.NewFromInt(amount),
			Currency:      domain.USD,
			Description:   desc,
			Date:          date,
			Time:          clock,
			AuditFields:   audit,
		}
	}

	transferOut := txn("tx_3", "acc_user_checking", domain.Transfer, 500, "Transfer to savings", 2*day)
	transferOut.CustomID = "TX-EXAMPLE-TRF-OUT"
	transferOut.RelatedAccountID = "acc_user_savings"
	transferOut.TransferID = "trf_example"
	transferOut.Direction = domain.DirectionOut

	transferIn := txn("tx_4", "acc_user_savings", domain.Deposit, 500, "Transfer from checking", 2*day)
	transferIn.CustomID = "TX-EXAMPLE-TRF-IN"
	transferIn.RelatedAccountID = "acc_user_checking"
	transferIn.TransferID = "trf_example"
	transferIn.Direction = domain.DirectionIn

	contribDate, _ := at(3 * day)
	goal := func(id, title, desc string, target, current int64, deadline string, category domain.GoalCategory, priority domain.GoalPriority) domain.FinancialGoal {
		return domain.FinancialGoal{
			GoalID:        id,
			UserID:        ExampleUserID,
			Title:         title,
			Description:   desc,
			TargetAmount:  decimal.NewFromInt(target),
			CurrentAmount: decimal.NewFromInt(current),
			Deadline:      deadline,
			Category:      category,
			Priority:      priority,
			Status:        domain.GoalActive,
			AuditFields:   audit,
		}
	}
	contribution := func(id, goalID string, amount int64) domain.GoalContribution {
		return domain.GoalContribution{
			ContributionID: id,
			GoalID:         goalID,
			Amount:         decimal.NewFromInt(amount),
			Date:           contribDate,
			Note:           "Opening savings",
			CreatedAt:      now,
			CreatedBy:      seedActor,
		}
	}
	deadline := func(months int) string {
		return now.AddDate(0, months, 0).Format(domain.DateLayout)
	}

	// Checking: 2050 + 1000 - 50 - 500 = 2500. Savings: 14500 + 500 = 15000.
	return Document{
		Accounts: []domain.Account{
			account("acc_user_checking", ExampleUserID, "Checking Account", domain.Checking, 2050, 2500),
			account("acc_user_savings", ExampleUserID, "Savings Account", domain.Savings, 14500, 15000),
			account("acc_admin_checking", ExampleAdminID, "Main Account", domain.Checking, 5000, 5000),
		},
		Transactions: []domain.Transaction{
			txn("tx_1", "acc_user_checking", domain.Deposit, 1000, "Initial deposit", 7*day),
			txn("tx_2", "acc_user_checking", domain.Withdrawal, 50, "ATM withdrawal", 5*day),
			transferOut,
			transferIn,
		},
		Goals: []domain.FinancialGoal{
			goal("goal_emergency", "Emergency Fund", "Six months of expenses", 18000, 12500, deadline(12), domain.CategoryEmergencyFund, domain.PriorityHigh),
			goal("goal_vacation", "Summer Vacation", "Family beach trip", 5000, 2800, deadline(6), domain.CategoryVacation, domain.PriorityMedium),
			goal("goal_education", "Online Course", "Data analysis certificate", 1200, 0, deadline(4), domain.CategoryEducation, domain.PriorityLow),
		},
		Contributions: []domain.GoalContribution{
			contribution("contrib_emergency", "goal_emergency", 12500),
			contribution("contrib_vacation", "goal_vacation", 2800),
		},
	}
}
