package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/apperrors"
	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	"github.com/fernbooks/bookkeeping_app/internal/core/services"
	"github.com/fernbooks/bookkeeping_app/internal/dto"
	"github.com/fernbooks/bookkeeping_app/internal/repositories/database/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	uow     *memory.UnitOfWork
	service *services.LedgerService
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.uow = memory.NewUnitOfWork()
	s.service = services.NewLedgerService(s.uow)
}

func (s *LedgerServiceTestSuite) createAccount(code, name string, typ domain.AccountType) *domain.Account {
	account, err := s.service.CreateAccount(context.Background(), dto.CreateAccountRequest{
		Code: code,
		Name: name,
		Type: typ,
	}, testUserID)
	s.Require().NoError(err)
	return account
}

// saveEntry posts one balanced two-line entry directly through the repository.
func (s *LedgerServiceTestSuite) saveEntry(debitAccountID, creditAccountID string, amount decimal.Decimal) domain.JournalEntry {
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		PostedAt:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Manual posting",
		CreatedAt:   time.Now(),
	}
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: entry.EntryID, AccountID: debitAccountID, Debit: amount, Credit: decimal.Zero},
		{LineID: uuid.NewString(), EntryID: entry.EntryID, AccountID: creditAccountID, Debit: decimal.Zero, Credit: amount},
	}
	s.Require().NoError(s.uow.Repos().Journal.SaveEntry(context.Background(), entry, lines))
	return entry
}

func (s *LedgerServiceTestSuite) TestCreateAccount_Success() {
	account := s.createAccount("1500", "Equipment", domain.AccountTypeAsset)

	s.NotEmpty(account.AccountID)
	s.True(account.IsActive)
	s.Equal(testUserID, account.CreatedBy)

	found, err := s.service.GetAccountByCode(context.Background(), "1500")
	s.Require().NoError(err)
	s.Equal(account.AccountID, found.AccountID)
}

func (s *LedgerServiceTestSuite) TestCreateAccount_DuplicateCodeRejected() {
	s.createAccount("1500", "Equipment", domain.AccountTypeAsset)

	_, err := s.service.CreateAccount(context.Background(), dto.CreateAccountRequest{
		Code: "1500",
		Name: "Equipment again",
		Type: domain.AccountTypeAsset,
	}, testUserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *LedgerServiceTestSuite) TestDeactivateAccount() {
	account := s.createAccount("1500", "Equipment", domain.AccountTypeAsset)

	s.Require().NoError(s.service.DeactivateAccount(context.Background(), account.AccountID, testUserID))

	found, err := s.service.GetAccountByID(context.Background(), account.AccountID)
	s.Require().NoError(err)
	s.False(found.IsActive)
	s.Equal(testUserID, found.LastUpdatedBy)
}

func (s *LedgerServiceTestSuite) TestDeleteAccount_UnusedAccountRemoved() {
	account := s.createAccount("1500", "Equipment", domain.AccountTypeAsset)

	s.Require().NoError(s.service.DeleteAccount(context.Background(), account.AccountID))

	_, err := s.service.GetAccountByID(context.Background(), account.AccountID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestDeleteAccount_PostedAccountRejected() {
	debit := s.createAccount("1500", "Equipment", domain.AccountTypeAsset)
	credit := s.createAccount("3000", "Owner Equity", domain.AccountTypeEquity)
	s.saveEntry(debit.AccountID, credit.AccountID, d("2500"))

	err := s.service.DeleteAccount(context.Background(), debit.AccountID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(409, appErr.Code)
}

func (s *LedgerServiceTestSuite) TestCalculateAccountBalance_DebitMinusCredit() {
	cash := s.createAccount("1000", "Cash", domain.AccountTypeAsset)
	equity := s.createAccount("3000", "Owner Equity", domain.AccountTypeEquity)
	s.saveEntry(cash.AccountID, equity.AccountID, d("1000"))
	s.saveEntry(equity.AccountID, cash.AccountID, d("300"))

	balance, err := s.service.CalculateAccountBalance(context.Background(), cash.AccountID)
	s.Require().NoError(err)
	s.True(balance.Equal(d("700")))

	balance, err = s.service.CalculateAccountBalance(context.Background(), equity.AccountID)
	s.Require().NoError(err)
	s.True(balance.Equal(d("-700")))
}

func (s *LedgerServiceTestSuite) TestCalculateAccountBalance_UnknownAccount() {
	_, err := s.service.CalculateAccountBalance(context.Background(), uuid.NewString())
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestGetJournalEntry_LoadsLines() {
	cash := s.createAccount("1000", "Cash", domain.AccountTypeAsset)
	equity := s.createAccount("3000", "Owner Equity", domain.AccountTypeEquity)
	saved := s.saveEntry(cash.AccountID, equity.AccountID, d("500"))

	entry, err := s.service.GetJournalEntry(context.Background(), saved.EntryID)

	s.Require().NoError(err)
	s.Len(entry.Lines, 2)
	s.True(domain.LinesBalanced(entry.Lines))
}

func (s *LedgerServiceTestSuite) TestListJournalEntries_Pagination() {
	cash := s.createAccount("1000", "Cash", domain.AccountTypeAsset)
	equity := s.createAccount("3000", "Owner Equity", domain.AccountTypeEquity)
	for i := 0; i < 5; i++ {
		s.saveEntry(cash.AccountID, equity.AccountID, d("10"))
	}

	entries, err := s.service.ListJournalEntries(context.Background(), 2, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Len(entries[0].Lines, 2)

	entries, err = s.service.ListJournalEntries(context.Background(), 10, 4)
	s.Require().NoError(err)
	s.Len(entries, 1)

	entries, err = s.service.ListJournalEntries(context.Background(), 10, 50)
	s.Require().NoError(err)
	s.Empty(entries)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
