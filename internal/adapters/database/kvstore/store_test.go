package kvstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/finovate_app/internal/adapters/database/kv"
	"github.com/SscSPs/finovate_app/internal/adapters/database/kvstore"
	"github.com/SscSPs/finovate_app/internal/apperrors"
	"github.com/SscSPs/finovate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
	"github.com/SscSPs/finovate_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *kvstore.Store
	repos portsrepo.RepositoryProvider
	now   time.Time
}

func (suite *StoreTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = kvstore.NewStore(kv.NewMemoryBackend(), "test")
	suite.repos = kvstore.NewRepositoryProvider(suite.store)
	suite.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *StoreTestSuite) account(id, owner string, balance int64) domain.Account {
	acc := domain.Account{
		AccountID:      id,
		UserID:         owner,
		Name:           "Account " + id,
		AccountType:    domain.Checking,
		Currency:       domain.USD,
		InitialBalance: decimal.NewFromInt(balance),
		Balance:        decimal.NewFromInt(balance),
		AuditFields:    domain.NewAuditFields(owner, suite.now),
	}
	suite.Require().NoError(suite.repos.AccountRepo.SaveAccount(suite.ctx, acc))
	return acc
}

func (suite *StoreTestSuite) deposit(id, accountID string, amount int64, date string) domain.Transaction {
	return domain.Transaction{
		TransactionID: id,
		CustomID:      "TX-" + id,
		AccountID:     accountID,
		Type:          domain.Deposit,
		Amount:        decimal.NewFromInt(amount),
		Currency:      domain.USD,
		Description:   "deposit " + id,
		Date:          date,
		Time:          "10:00",
		AuditFields:   domain.NewAuditFields("u1", suite.now),
	}
}

func (suite *StoreTestSuite) balanceOf(accountID string) decimal.Decimal {
	acc, err := suite.repos.AccountRepo.FindAccountByID(suite.ctx, accountID)
	suite.Require().NoError(err)
	return acc.Balance
}

func (suite *StoreTestSuite) TestApplyLedgerChange_InsertAndBalance() {
	suite.account("a1", "u1", 100)
	txn := suite.deposit("t1", "a1", 50, "2024-03-01")

	change := domain.LedgerChange{Insert: []domain.Transaction{txn}, UserID: "u1", At: suite.now}
	change.AddBalanceChange("a1", txn.Effect())
	suite.Require().NoError(suite.repos.LedgerRepo.ApplyLedgerChange(suite.ctx, change))

	suite.True(suite.balanceOf("a1").Equal(decimal.NewFromInt(150)))
	found, err := suite.repos.LedgerRepo.FindTransactionByCustomID(suite.ctx, "TX-t1")
	suite.Require().NoError(err)
	suite.Equal("t1", found.TransactionID)
}

func (suite *StoreTestSuite) TestApplyLedgerChange_DuplicateCustomIDChangesNothing() {
	suite.account("a1", "u1", 100)
	first := suite.deposit("t1", "a1", 50, "2024-03-01")
	change := domain.LedgerChange{Insert: []domain.Transaction{first}}
	change.AddBalanceChange("a1", first.Effect())
	suite.Require().NoError(suite.repos.LedgerRepo.ApplyLedgerChange(suite.ctx, change))

	dup := suite.deposit("t2", "a1", 70, "2024-03-01")
	dup.CustomID = first.CustomID
	change = domain.LedgerChange{Insert: []domain.Transaction{dup}}
	change.AddBalanceChange("a1", dup.Effect())

	err := suite.repos.LedgerRepo.ApplyLedgerChange(suite.ctx, change)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.True(suite.balanceOf("a1").Equal(decimal.NewFromInt(150)), "balance delta must be rolled back")

	all, _, err := suite.repos.LedgerRepo.ListTransactions(suite.ctx, domain.TransactionFilter{AllAccounts: true}, 0, nil)
	suite.Require().NoError(err)
	suite.Len(all, 1)
}

func (suite *StoreTestSuite) TestApplyLedgerChange_OverdraftRejected() {
	suite.account("a1", "u1", 100)
	change := domain.LedgerChange{}
	change.AddBalanceChange("a1", decimal.NewFromInt(-101))

	err := suite.repos.LedgerRepo.ApplyLedgerChange(suite.ctx, change)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.True(suite.balanceOf("a1").Equal(decimal.NewFromInt(100)))
}

func (suite *StoreTestSuite) TestApplyLedgerChange_UnknownAccount() {
	txn := suite.deposit("t1", "missing", 10, "2024-03-01")
	err := suite.repos.LedgerRepo.ApplyLedgerChange(suite.ctx, domain.LedgerChange{Insert: []domain.Transaction{txn}})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *StoreTestSuite) TestApplyLedgerChange_AccountDeleteRequiresNoReferences() {
	suite.account("a1", "u1", 100)
	txn := suite.deposit("t1", "a1", 10, "2024-03-01")
	suite.Require().NoError(suite.repos.LedgerRepo.ApplyLedgerChange(suite.ctx, domain.LedgerChange{Insert: []domain.Transaction{txn}}))

	err := suite.repos.LedgerRepo.ApplyLedgerChange(suite.ctx, domain.LedgerChange{DeleteAccounts: []string{"a1"}})
	suite.ErrorIs(err, apperrors.ErrValidation)

	err = suite.repos.LedgerRepo.ApplyLedgerChange(suite.ctx, domain.LedgerChange{Delete: []string{"t1"}, DeleteAccounts: []string{"a1"}})
	suite.Require().NoError(err)
	_, err = suite.repos.AccountRepo.FindAccountByID(suite.ctx, "a1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *StoreTestSuite) TestListTransactions_OrderAndPagination() {
	suite.account("a1", "u1", 0)
	suite.account("a2", "u2", 0)
	dates := []string{"2024-01-01", "2024-03-01", "2024-02-01", "2024-04-01"}
	change := domain.LedgerChange{}
	for i, d := range dates {
		change.Insert = append(change.Insert, suite.deposit(string(rune('a'+i)), "a1", 1, d))
	}
	change.Insert = append(change.Insert, suite.deposit("other", "a2", 1, "2024-05-01"))
	suite.Require().NoError(suite.repos.LedgerRepo.ApplyLedgerChange(suite.ctx, change))

	filter := domain.TransactionFilter{AccountIDs: []string{"a1"}}
	page, next, err := suite.repos.LedgerRepo.ListTransactions(suite.ctx, filter, 3, nil)
	suite.Require().NoError(err)
	suite.Require().Len(page, 3)
	suite.Require().NotNil(next)
	suite.Equal([]string{"2024-04-01", "2024-03-01", "2024-02-01"}, []string{page[0].Date, page[1].Date, page[2].Date})

	rest, next, err := suite.repos.LedgerRepo.ListTransactions(suite.ctx, filter, 3, next)
	suite.Require().NoError(err)
	suite.Nil(next)
	suite.Require().Len(rest, 1)
	suite.Equal("2024-01-01", rest[0].Date)

	bad := "%%%"
	_, _, err = suite.repos.LedgerRepo.ListTransactions(suite.ctx, filter, 3, &bad)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *StoreTestSuite) TestUpdateAccount_KeepsBalance() {
	acc := suite.account("a1", "u1", 100)
	acc.Name = "Renamed"
	acc.Balance = decimal.NewFromInt(999999)
	suite.Require().NoError(suite.repos.AccountRepo.UpdateAccount(suite.ctx, acc))

	stored, err := suite.repos.AccountRepo.FindAccountByID(suite.ctx, "a1")
	suite.Require().NoError(err)
	suite.Equal("Renamed", stored.Name)
	suite.True(stored.Balance.Equal(decimal.NewFromInt(100)))
}

func (suite *StoreTestSuite) TestGoals_ContributionsAndCascade() {
	goal := domain.FinancialGoal{
		GoalID: "g1", UserID: "u1", Title: "Trip", TargetAmount: decimal.NewFromInt(100),
		Deadline: "2025-01-01", Category: domain.CategoryVacation, Priority: domain.PriorityLow, Status: domain.GoalActive,
	}
	suite.Require().NoError(suite.repos.GoalRepo.SaveGoal(suite.ctx, goal))

	goal.ApplyContribution(decimal.NewFromInt(40), suite.now)
	suite.Require().NoError(suite.repos.GoalRepo.SaveContribution(suite.ctx, goal, domain.GoalContribution{
		ContributionID: "c1", GoalID: "g1", Amount: decimal.NewFromInt(40), Date: "2024-03-01", CreatedAt: suite.now,
	}))

	// UpdateGoal cannot move the saved amount
	edited := goal
	edited.CurrentAmount = decimal.Zero
	edited.Title = "Big trip"
	suite.Require().NoError(suite.repos.GoalRepo.UpdateGoal(suite.ctx, edited))
	stored, err := suite.repos.GoalRepo.FindGoalByID(suite.ctx, "g1")
	suite.Require().NoError(err)
	suite.Equal("Big trip", stored.Title)
	suite.True(stored.CurrentAmount.Equal(decimal.NewFromInt(40)))

	contribs, err := suite.repos.GoalRepo.ListContributions(suite.ctx, "g1")
	suite.Require().NoError(err)
	suite.Len(contribs, 1)

	suite.Require().NoError(suite.repos.GoalRepo.DeleteGoal(suite.ctx, "g1"))
	contribs, err = suite.repos.GoalRepo.ListContributions(suite.ctx, "g1")
	suite.Require().NoError(err)
	suite.Empty(contribs)
	suite.ErrorIs(suite.repos.GoalRepo.DeleteGoal(suite.ctx, "g1"), apperrors.ErrNotFound)
}

func (suite *StoreTestSuite) TestSeedExampleData_IsConsistent() {
	seeded, err := kvstore.SeedExampleData(suite.ctx, suite.store, suite.now)
	suite.Require().NoError(err)
	suite.True(seeded)

	seeded, err = kvstore.SeedExampleData(suite.ctx, suite.store, suite.now)
	suite.Require().NoError(err)
	suite.False(seeded, "seeding twice must be a no-op")

	accounts, err := suite.repos.AccountRepo.ListAccounts(suite.ctx, "")
	suite.Require().NoError(err)
	suite.Len(accounts, 3)
	txns, _, err := suite.repos.LedgerRepo.ListTransactions(suite.ctx, domain.TransactionFilter{AllAccounts: true}, 0, nil)
	suite.Require().NoError(err)
	for _, acc := range accounts {
		replayed, _ := accounting.ReplayBalance(acc, txns)
		suite.True(replayed.Equal(acc.Balance), "account %s: replayed %s stored %s", acc.AccountID, replayed, acc.Balance)
	}
	for _, txn := range txns {
		suite.NoError(txn.Validate(), "seed transaction %s", txn.TransactionID)
	}
	legs, err := suite.repos.LedgerRepo.FindTransactionsByTransferID(suite.ctx, "trf_example")
	suite.Require().NoError(err)
	suite.NoError(accounting.ValidateTransferLegs(legs))
}

func (suite *StoreTestSuite) TestFileBackend_PersistsAcrossStores() {
	dir := suite.T().TempDir()
	backend, err := kv.NewFileBackend(dir)
	suite.Require().NoError(err)
	first := kvstore.NewRepositoryProvider(kvstore.NewStore(backend, "finovate"))
	suite.Require().NoError(first.AccountRepo.SaveAccount(suite.ctx, domain.Account{AccountID: "a1", UserID: "u1", Name: "Persisted"}))

	reopened, err := kv.NewFileBackend(dir)
	suite.Require().NoError(err)
	second := kvstore.NewRepositoryProvider(kvstore.NewStore(reopened, "finovate"))
	acc, err := second.AccountRepo.FindAccountByID(suite.ctx, "a1")
	suite.Require().NoError(err)
	suite.Equal("Persisted", acc.Name)
}

func TestStore(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
