package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/finovate_app/internal/adapters/database/kv"
	"github.com/SscSPs/finovate_app/internal/adapters/database/kvstore"
	"github.com/SscSPs/finovate_app/internal/apperrors"
	"github.com/SscSPs/finovate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finovate_app/internal/core/ports/services"
	"github.com/SscSPs/finovate_app/internal/core/services"
	"github.com/SscSPs/finovate_app/internal/dto"
	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

var errorKinds = map[string]error{
	"validation":         apperrors.ErrValidation,
	"not found":          apperrors.ErrNotFound,
	"duplicate":          apperrors.ErrDuplicate,
	"forbidden":          apperrors.ErrForbidden,
	"insufficient funds": apperrors.ErrInsufficientFunds,
}

// ledgerWorld is the per-scenario state of the feature steps.
type ledgerWorld struct {
	ctx      context.Context
	identity domain.Identity
	repos    portsrepo.RepositoryProvider
	svc      *portssvc.ServiceContainer
	accounts map[string]string // name -> accountID
	goals    map[string]string // title -> goalID
	lastErr  error
	transfer *domain.TransferResult
}

func (w *ledgerWorld) aFreshLedgerForUser(userID string) error {
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	w.ctx = context.Background()
	w.identity = domain.Identity{UserID: userID, Role: domain.RoleUser}
	w.repos = kvstore.NewRepositoryProvider(kvstore.NewStore(kv.NewMemoryBackend(), "features"))
	w.svc = services.NewServiceContainer(w.repos, services.WithClock(func() time.Time { return now }))
	w.accounts = map[string]string{}
	w.goals = map[string]string{}
	return nil
}

func (w *ledgerWorld) anAccountWithBalance(name string, balance int64) error {
	acc, err := w.svc.Account.CreateAccount(w.ctx, w.identity, dto.CreateAccountRequest{
		Name:           "Account " + name,
		AccountType:    domain.Checking,
		Currency:       domain.USD,
		InitialBalance: decimal.NewFromInt(balance),
	})
	if err != nil {
		return err
	}
	w.accounts[name] = acc.AccountID
	return nil
}

func (w *ledgerWorld) record(typ domain.TransactionType, amount int64, name, customID string) error {
	_, w.lastErr = w.svc.Ledger.CreateTransaction(w.ctx, w.identity, dto.CreateTransactionRequest{
		AccountID:   w.accounts[name],
		Type:        typ,
		Amount:      decimal.NewFromInt(amount),
		Description: fmt.Sprintf("%s of %d", typ, amount),
		CustomID:    customID,
	})
	return nil
}

func (w *ledgerWorld) iDepositWithCustomID(amount int64, name, customID string) error {
	return w.record(domain.Deposit, amount, name, customID)
}

func (w *ledgerWorld) iWithdraw(amount int64, name string) error {
	return w.record(domain.Withdrawal, amount, name, "")
}

func (w *ledgerWorld) iTransfer(amount int64, from, to string) error {
	w.transfer, w.lastErr = w.svc.Transfer.Transfer(w.ctx, w.identity, dto.TransferRequest{
		FromAccountID: w.accounts[from],
		ToAccountID:   w.accounts[to],
		Amount:        decimal.NewFromInt(amount),
		Description:   "feature transfer",
	})
	return nil
}

func (w *ledgerWorld) iDeleteTheTransaction(customID string) error {
	txn, err := w.svc.Ledger.FindByCustomID(w.ctx, w.identity, customID)
	if err != nil {
		return err
	}
	w.lastErr = w.svc.Ledger.DeleteTransaction(w.ctx, w.identity, txn.TransactionID)
	return nil
}

func (w *ledgerWorld) aGoalWithTarget(title string, target int64) error {
	goal, err := w.svc.Goal.CreateGoal(w.ctx, w.identity, dto.CreateGoalRequest{
		Title:        title,
		TargetAmount: decimal.NewFromInt(target),
		Deadline:     "2024-12-31",
		Category:     domain.CategoryOther,
		Priority:     domain.PriorityMedium,
	})
	if err != nil {
		return err
	}
	w.goals[title] = goal.GoalID
	return nil
}

func (w *ledgerWorld) iContribute(amount int64, title string) error {
	_, w.lastErr = w.svc.Goal.AddContribution(w.ctx, w.identity, w.goals[title], dto.AddContributionRequest{Amount: decimal.NewFromInt(amount)})
	return nil
}

func (w *ledgerWorld) theRequestSucceeds() error {
	return w.lastErr
}

func (w *ledgerWorld) theRequestFailsWith(kind string) error {
	want, ok := errorKinds[kind]
	if !ok {
		return fmt.Errorf("unknown error kind %q", kind)
	}
	if !errors.Is(w.lastErr, want) {
		return fmt.Errorf("expected %q error, got %v", kind, w.lastErr)
	}
	return nil
}

func (w *ledgerWorld) accountHasBalance(name string, want int64) error {
	acc, err := w.repos.AccountRepo.FindAccountByID(w.ctx, w.accounts[name])
	if err != nil {
		return err
	}
	if !acc.Balance.Equal(decimal.NewFromInt(want)) {
		return fmt.Errorf("account %s: expected balance %d, got %s", name, want, acc.Balance)
	}
	return nil
}

func (w *ledgerWorld) exactlyTransactionsExist(want int) error {
	txns, _, err := w.repos.LedgerRepo.ListTransactions(w.ctx, domain.TransactionFilter{AllAccounts: true}, 0, nil)
	if err != nil {
		return err
	}
	if len(txns) != want {
		return fmt.Errorf("expected %d transactions, found %d", want, len(txns))
	}
	return nil
}

func (w *ledgerWorld) theTransferLegsReferenceEachOther() error {
	if w.transfer == nil {
		return errors.New("no transfer was made")
	}
	out, in := w.transfer.Outgoing, w.transfer.Incoming
	if out.RelatedAccountID != in.AccountID || in.RelatedAccountID != out.AccountID {
		return fmt.Errorf("legs are not linked: %s->%s, %s->%s", out.AccountID, out.RelatedAccountID, in.AccountID, in.RelatedAccountID)
	}
	if out.TransferID == "" || out.TransferID != in.TransferID {
		return fmt.Errorf("legs carry different transfer IDs %q and %q", out.TransferID, in.TransferID)
	}
	return nil
}

func (w *ledgerWorld) goalHasStatus(title, status string) error {
	goal, err := w.svc.Goal.GetGoal(w.ctx, w.identity, w.goals[title])
	if err != nil {
		return err
	}
	if string(goal.Status) != status {
		return fmt.Errorf("goal %s: expected status %s, got %s", title, status, goal.Status)
	}
	return nil
}

func initializeLedgerScenario(sc *godog.ScenarioContext) {
	w := &ledgerWorld{}

	sc.Step(`^a fresh ledger for user "([^"]*)"$`, w.aFreshLedgerForUser)
	sc.Step(`^an account "([^"]*)" with balance (\d+)$`, w.anAccountWithBalance)
	sc.Step(`^I deposit (\d+) into "([^"]*)" with custom id "([^"]*)"$`, w.iDepositWithCustomID)
	sc.Step(`^I withdraw (\d+) from "([^"]*)"$`, w.iWithdraw)
	sc.Step(`^I transfer (\d+) from "([^"]*)" to "([^"]*)"$`, w.iTransfer)
	sc.Step(`^I delete the transaction "([^"]*)"$`, w.iDeleteTheTransaction)
	sc.Step(`^a goal "([^"]*)" with target (\d+)$`, w.aGoalWithTarget)
	sc.Step(`^I contribute (\d+) to goal "([^"]*)"$`, w.iContribute)
	sc.Step(`^the request succeeds$`, w.theRequestSucceeds)
	sc.Step(`^the request fails with "([^"]*)"$`, w.theRequestFailsWith)
	sc.Step(`^account "([^"]*)" has balance (\d+)$`, w.accountHasBalance)
	sc.Step(`^exactly (\d+) transactions exist$`, w.exactlyTransactionsExist)
	sc.Step(`^the transfer legs reference each other$`, w.theTransferLegsReferenceEachOther)
	sc.Step(`^goal "([^"]*)" has status "([^"]*)"$`, w.goalHasStatus)
}

func TestLedgerFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "finovate-ledger",
		ScenarioInitializer: initializeLedgerScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
