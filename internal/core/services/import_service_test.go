package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/apperrors"
	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	"github.com/fernbooks/bookkeeping_app/internal/core/services"
	"github.com/fernbooks/bookkeeping_app/internal/dto"
	"github.com/fernbooks/bookkeeping_app/internal/repositories/database/memory"
	"github.com/stretchr/testify/suite"
)

type ImportServiceTestSuite struct {
	suite.Suite
	uow      *memory.UnitOfWork
	bank     *services.BankingService
	importer *services.ImportService
	accounts map[string]domain.Account
}

func (s *ImportServiceTestSuite) SetupTest() {
	s.uow = memory.NewUnitOfWork()
	s.bank = services.NewBankingService(s.uow)
	s.importer = services.NewImportService(s.uow)
	s.accounts = seedChartOfAccounts(s.T(), s.uow)
}

func (s *ImportServiceTestSuite) checkingWithProfile(skipPhrase string) *domain.BankAccount {
	ba, err := s.bank.CreateBankAccount(context.Background(), dto.CreateBankAccountRequest{
		Type:           domain.Checking,
		Institution:    "First National",
		MaskedNumber:   "x1234",
		OpeningBalance: d("1000"),
	}, testUserID)
	s.Require().NoError(err)

	_, err = s.bank.UpsertImportProfile(context.Background(), ba.BankAccountID, dto.UpsertImportProfileRequest{
		DateColumn:              0,
		DescriptionColumn:       1,
		AmountColumn:            2,
		DateFormat:              "01/02/2006",
		SkipDescriptionContains: skipPhrase,
	})
	s.Require().NoError(err)
	return ba
}

func (s *ImportServiceTestSuite) TestImportStatement_BankStandard() {
	ctx := context.Background()
	ba := s.checkingWithProfile("pending")
	equity := s.accounts[domain.CodeOwnerEquity]

	csv := strings.Join([]string{
		`Date,Description,Amount`,
		`03/05/2026,Client wire,"1,200.50"`,
		`03/06/2026,PENDING card hold,-20.00`,
		`03/07/2026,Coffee,-4.50`,
		`note only`,
	}, "\n")

	imported, err := s.importer.ImportStatement(ctx, ba.BankAccountID, strings.NewReader(csv), equity.AccountID, testUserID)

	s.Require().NoError(err)
	s.Equal(2, imported)

	balance, err := s.bank.CalculateBankBalance(ctx, ba.BankAccountID)
	s.Require().NoError(err)
	s.True(balance.Equal(d("2196.00")))

	txns, err := s.uow.Repos().Bank.ListTransactions(ctx, ba.BankAccountID, nil, nil)
	s.Require().NoError(err)
	s.Require().Len(txns, 2)
	s.Equal("Client wire", txns[0].Description)
	s.True(txns[0].Amount.Equal(d("1200.50")))
	s.True(txns[0].Date.Equal(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))
	s.Require().NotNil(txns[0].JournalEntryID)
	s.True(txns[1].Amount.Equal(d("-4.50")))
}

func (s *ImportServiceTestSuite) TestImportStatement_CCChargesPositiveFlipsSign() {
	ctx := context.Background()
	cc, err := s.bank.CreateBankAccount(ctx, dto.CreateBankAccountRequest{
		Type:         domain.CreditCard,
		Institution:  "Amex",
		MaskedNumber: "x9001",
	}, testUserID)
	s.Require().NoError(err)

	_, err = s.bank.UpsertImportProfile(ctx, cc.BankAccountID, dto.UpsertImportProfileRequest{
		DateColumn:        0,
		DescriptionColumn: 1,
		AmountColumn:      2,
		DateFormat:        "01/02/2006",
		SignRule:          domain.SignCCChargesPositive,
	})
	s.Require().NoError(err)

	csv := "03/05/2026,AIRLINE TICKET,100.00\n03/10/2026,PAYMENT RECEIVED,-25.00\n"
	imported, err := s.importer.ImportStatement(ctx, cc.BankAccountID, strings.NewReader(csv),
		s.accounts[domain.CodeOwnerEquity].AccountID, testUserID)

	s.Require().NoError(err)
	s.Equal(2, imported)

	txns, err := s.uow.Repos().Bank.ListTransactions(ctx, cc.BankAccountID, nil, nil)
	s.Require().NoError(err)
	s.Require().Len(txns, 2)
	s.True(txns[0].Amount.Equal(d("-100.00")))
	s.True(txns[1].Amount.Equal(d("25.00")))
}

func (s *ImportServiceTestSuite) TestImportStatement_BadDateAborts() {
	ctx := context.Background()
	ba := s.checkingWithProfile("")

	csv := "03/05/2026,Client wire,500.00\n13/45/2026,Broken row,10.00\n"
	imported, err := s.importer.ImportStatement(ctx, ba.BankAccountID, strings.NewReader(csv),
		s.accounts[domain.CodeOwnerEquity].AccountID, testUserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Zero(imported)
}

func (s *ImportServiceTestSuite) TestImportStatement_BadAmountAborts() {
	ctx := context.Background()
	ba := s.checkingWithProfile("")

	csv := "03/05/2026,Client wire,abc\n"
	_, err := s.importer.ImportStatement(ctx, ba.BankAccountID, strings.NewReader(csv),
		s.accounts[domain.CodeOwnerEquity].AccountID, testUserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ImportServiceTestSuite) TestImportStatement_CreditCardProfileNeedsSignRule() {
	ctx := context.Background()
	cc, err := s.bank.CreateBankAccount(ctx, dto.CreateBankAccountRequest{
		Type:         domain.CreditCard,
		Institution:  "Amex",
		MaskedNumber: "x9001",
	}, testUserID)
	s.Require().NoError(err)

	// A profile persisted without a sign rule (legacy data) must not import.
	s.Require().NoError(s.uow.Repos().Bank.SaveImportProfile(ctx, domain.BankImportProfile{
		ProfileID:     "legacy",
		BankAccountID: cc.BankAccountID,
		DateColumn:    0, DescriptionColumn: 1, AmountColumn: 2,
		DateFormat: "01/02/2006",
	}))

	_, err = s.importer.ImportStatement(ctx, cc.BankAccountID,
		strings.NewReader("03/05/2026,CHARGE,10.00\n"),
		s.accounts[domain.CodeOwnerEquity].AccountID, testUserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidConfiguration)
}

func (s *ImportServiceTestSuite) TestImportStatement_MissingProfileRejected() {
	ctx := context.Background()
	ba, err := s.bank.CreateBankAccount(ctx, dto.CreateBankAccountRequest{
		Type:         domain.Checking,
		Institution:  "First National",
		MaskedNumber: "x1234",
	}, testUserID)
	s.Require().NoError(err)

	_, err = s.importer.ImportStatement(ctx, ba.BankAccountID,
		strings.NewReader("03/05/2026,Deposit,10.00\n"),
		s.accounts[domain.CodeOwnerEquity].AccountID, testUserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}
