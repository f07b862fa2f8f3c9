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

type BankingServiceTestSuite struct {
	suite.Suite
	uow      *memory.UnitOfWork
	bank     *services.BankingService
	billing  *services.BillingService
	accounts map[string]domain.Account
}

func (s *BankingServiceTestSuite) SetupTest() {
	s.uow = memory.NewUnitOfWork()
	s.bank = services.NewBankingService(s.uow)
	s.billing = services.NewBillingService(s.uow)
	s.accounts = seedChartOfAccounts(s.T(), s.uow)
}

func (s *BankingServiceTestSuite) createBankAccount(typ domain.BankAccountType, institution, masked string, opening decimal.Decimal) *domain.BankAccount {
	ba, err := s.bank.CreateBankAccount(context.Background(), dto.CreateBankAccountRequest{
		Type:           typ,
		Institution:    institution,
		MaskedNumber:   masked,
		OpeningBalance: opening,
	}, testUserID)
	s.Require().NoError(err)
	return ba
}

func (s *BankingServiceTestSuite) postTransaction(bankAccountID string, date time.Time, description string, amount decimal.Decimal, offsetAccountID string) *domain.BankTransaction {
	txn, err := s.bank.PostTransaction(context.Background(), bankAccountID, dto.PostBankTransactionRequest{
		Date:            date,
		Description:     description,
		Amount:          amount,
		OffsetAccountID: offsetAccountID,
	}, testUserID)
	s.Require().NoError(err)
	return txn
}

// saveExpenseAccount adds a GL expense account outside the seeded chart.
func (s *BankingServiceTestSuite) saveExpenseAccount(code, name string) domain.Account {
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        code,
		Name:        name,
		AccountType: domain.AccountTypeExpense,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(testUserID, time.Now()),
	}
	s.Require().NoError(s.uow.Repos().Accounts.SaveAccount(context.Background(), account))
	return account
}

func (s *BankingServiceTestSuite) TestCreateBankAccount_AllocatesCodesFromReservedRange() {
	ctx := context.Background()

	first := s.createBankAccount(domain.Checking, "First National", "x1234", d("1000"))
	gl, err := s.uow.Repos().Accounts.FindAccountByID(ctx, first.AccountID)
	s.Require().NoError(err)
	s.Equal("1110", gl.Code)
	s.Equal("First National (x1234)", gl.Name)
	s.Equal(domain.AccountTypeAsset, gl.AccountType)

	second := s.createBankAccount(domain.Savings, "First National", "x5678", decimal.Zero)
	gl, err = s.uow.Repos().Accounts.FindAccountByID(ctx, second.AccountID)
	s.Require().NoError(err)
	s.Equal("1111", gl.Code)
}

func (s *BankingServiceTestSuite) TestCreateBankAccount_PositiveAssetOpeningBalance() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", d("1000"))

	entry, err := s.uow.Repos().Journal.FindEntryBySource(ctx,
		domain.SourceRef{Kind: domain.SourceBankAccount, ID: ba.BankAccountID})
	s.Require().NoError(err)
	lines, err := s.uow.Repos().Journal.FindLinesByEntryID(ctx, entry.EntryID)
	s.Require().NoError(err)

	bankLine := lineFor(s.T(), lines, ba.AccountID)
	equityLine := lineFor(s.T(), lines, s.accounts[domain.CodeOwnerEquity].AccountID)
	s.True(bankLine.Debit.Equal(d("1000")))
	s.True(equityLine.Credit.Equal(d("1000")))

	balance, err := s.bank.CalculateBankBalance(ctx, ba.BankAccountID)
	s.Require().NoError(err)
	s.True(balance.Equal(d("1000")))
}

func (s *BankingServiceTestSuite) TestCreateBankAccount_NegativeAssetOpeningBalance() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", d("-200"))

	entry, err := s.uow.Repos().Journal.FindEntryBySource(ctx,
		domain.SourceRef{Kind: domain.SourceBankAccount, ID: ba.BankAccountID})
	s.Require().NoError(err)
	lines, err := s.uow.Repos().Journal.FindLinesByEntryID(ctx, entry.EntryID)
	s.Require().NoError(err)

	equityLine := lineFor(s.T(), lines, s.accounts[domain.CodeOwnerEquity].AccountID)
	bankLine := lineFor(s.T(), lines, ba.AccountID)
	s.True(equityLine.Debit.Equal(d("200")))
	s.True(bankLine.Credit.Equal(d("200")))
}

func (s *BankingServiceTestSuite) TestCreateBankAccount_CreditCardIsLiability() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.CreditCard, "Amex", "x9001", d("250"))

	gl, err := s.uow.Repos().Accounts.FindAccountByID(ctx, ba.AccountID)
	s.Require().NoError(err)
	s.Equal(domain.AccountTypeLiability, gl.AccountType)

	entry, err := s.uow.Repos().Journal.FindEntryBySource(ctx,
		domain.SourceRef{Kind: domain.SourceBankAccount, ID: ba.BankAccountID})
	s.Require().NoError(err)
	lines, err := s.uow.Repos().Journal.FindLinesByEntryID(ctx, entry.EntryID)
	s.Require().NoError(err)

	equityLine := lineFor(s.T(), lines, s.accounts[domain.CodeOwnerEquity].AccountID)
	cardLine := lineFor(s.T(), lines, ba.AccountID)
	s.True(equityLine.Debit.Equal(d("250")))
	s.True(cardLine.Credit.Equal(d("250")))
}

func (s *BankingServiceTestSuite) TestCreateBankAccount_NegativeCreditCardRejected() {
	_, err := s.bank.CreateBankAccount(context.Background(), dto.CreateBankAccountRequest{
		Type:           domain.CreditCard,
		Institution:    "Amex",
		MaskedNumber:   "x9001",
		OpeningBalance: d("-50"),
	}, testUserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BankingServiceTestSuite) TestPostTransaction_DepositAndWithdrawal() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", d("1000"))
	equity := s.accounts[domain.CodeOwnerEquity]

	deposit := s.postTransaction(ba.BankAccountID,
		time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), "Client wire", d("400"), equity.AccountID)
	s.Require().NotNil(deposit.JournalEntryID)

	lines, err := s.uow.Repos().Journal.FindLinesByEntryID(ctx, *deposit.JournalEntryID)
	s.Require().NoError(err)
	s.True(lineFor(s.T(), lines, ba.AccountID).Debit.Equal(d("400")))
	s.True(lineFor(s.T(), lines, equity.AccountID).Credit.Equal(d("400")))

	withdrawal := s.postTransaction(ba.BankAccountID,
		time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), "Office rent", d("-150"), equity.AccountID)
	lines, err = s.uow.Repos().Journal.FindLinesByEntryID(ctx, *withdrawal.JournalEntryID)
	s.Require().NoError(err)
	s.True(lineFor(s.T(), lines, equity.AccountID).Debit.Equal(d("150")))
	s.True(lineFor(s.T(), lines, ba.AccountID).Credit.Equal(d("150")))

	balance, err := s.bank.CalculateBankBalance(ctx, ba.BankAccountID)
	s.Require().NoError(err)
	s.True(balance.Equal(d("1250")))
}

func (s *BankingServiceTestSuite) TestRetagTransaction_RebuildsLinesOnSameEntry() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)
	equity := s.accounts[domain.CodeOwnerEquity]
	software := s.saveExpenseAccount("5100", "Software")

	txn := s.postTransaction(ba.BankAccountID,
		time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), "SaaS subscription", d("-29"), equity.AccountID)
	originalEntryID := *txn.JournalEntryID

	retagged, err := s.bank.RetagTransaction(ctx, txn.TransactionID, software.AccountID, testUserID)
	s.Require().NoError(err)
	s.Require().NotNil(retagged.JournalEntryID)
	s.Equal(originalEntryID, *retagged.JournalEntryID)
	s.Equal(software.AccountID, *retagged.OffsetAccountID)

	lines, err := s.uow.Repos().Journal.FindLinesByEntryID(ctx, originalEntryID)
	s.Require().NoError(err)
	s.Require().Len(lines, 2)
	s.True(lineFor(s.T(), lines, software.AccountID).Debit.Equal(d("29")))
	s.True(lineFor(s.T(), lines, ba.AccountID).Credit.Equal(d("29")))
}

func (s *BankingServiceTestSuite) TestMarkOwnerEquity_RetagsToEquity() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)
	software := s.saveExpenseAccount("5100", "Software")

	txn := s.postTransaction(ba.BankAccountID,
		time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), "Owner draw", d("-500"), software.AccountID)

	updated, err := s.bank.MarkOwnerEquity(ctx, txn.TransactionID, testUserID)
	s.Require().NoError(err)
	s.Equal(s.accounts[domain.CodeOwnerEquity].AccountID, *updated.OffsetAccountID)
}

func (s *BankingServiceTestSuite) TestLinkExistingPayment() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)
	equity := s.accounts[domain.CodeOwnerEquity]
	client := saveClient(s.T(), s.uow, "Acme Consulting")

	txnDate := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	txn := s.postTransaction(ba.BankAccountID, txnDate, "ACH ACME CONSULT", d("500"), equity.AccountID)

	payment := savePayment(s.T(), s.uow, client.ClientID, d("500"),
		time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC))

	linked, err := s.bank.LinkExistingPayment(ctx, txn.TransactionID, payment.PaymentID, testUserID)
	s.Require().NoError(err)
	s.Require().NotNil(linked.PaymentID)
	s.Equal(payment.PaymentID, *linked.PaymentID)

	// The statement date wins over the user-entered payment date.
	stored, err := s.uow.Repos().Billing.FindPaymentByID(ctx, payment.PaymentID)
	s.Require().NoError(err)
	s.True(stored.Date.Equal(txnDate))

	s.Require().NotNil(linked.JournalEntryID)
	lines, err := s.uow.Repos().Journal.FindLinesByEntryID(ctx, *linked.JournalEntryID)
	s.Require().NoError(err)
	s.True(lineFor(s.T(), lines, s.accounts[domain.CodeCash].AccountID).Debit.Equal(d("500")))
	s.True(lineFor(s.T(), lines, s.accounts[domain.CodeUnappliedPayments].AccountID).Credit.Equal(d("500")))

	// A matched transaction cannot be linked again.
	other := savePayment(s.T(), s.uow, client.ClientID, d("500"), txnDate)
	_, err = s.bank.LinkExistingPayment(ctx, txn.TransactionID, other.PaymentID, testUserID)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrAlreadyMatched)
}

func (s *BankingServiceTestSuite) TestLinkExistingPayment_AmountMismatchRejected() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)
	client := saveClient(s.T(), s.uow, "Acme Consulting")

	txn := s.postTransaction(ba.BankAccountID,
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), "ACH ACME CONSULT", d("500"),
		s.accounts[domain.CodeOwnerEquity].AccountID)
	payment := savePayment(s.T(), s.uow, client.ClientID, d("450"),
		time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC))

	_, err := s.bank.LinkExistingPayment(ctx, txn.TransactionID, payment.PaymentID, testUserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrAmountMismatch)
}

func (s *BankingServiceTestSuite) TestLinkExistingPayment_LinkSurvivesApplyPayment() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)
	client := saveClient(s.T(), s.uow, "Acme Consulting")
	invoice := saveIssuedInvoice(s.T(), s.uow, client.ClientID, "2026-001", d("500"),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	txn := s.postTransaction(ba.BankAccountID,
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), "ACH ACME CONSULT", d("500"),
		s.accounts[domain.CodeOwnerEquity].AccountID)
	payment := savePayment(s.T(), s.uow, client.ClientID, d("500"),
		time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC))

	linked, err := s.bank.LinkExistingPayment(ctx, txn.TransactionID, payment.PaymentID, testUserID)
	s.Require().NoError(err)
	s.Require().NotNil(linked.JournalEntryID)
	entryID := *linked.JournalEntryID

	// Applying the payment rebuilds the split but keeps the entry id, so the
	// transaction's journal reference stays valid.
	_, err = s.billing.ApplyPayment(ctx, payment.PaymentID, dto.ApplyPaymentRequest{
		Allocations: []dto.PaymentAllocation{{InvoiceID: invoice.InvoiceID, Amount: d("500")}},
	}, testUserID)
	s.Require().NoError(err)

	stored, err := s.bank.GetTransactionByID(ctx, txn.TransactionID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.JournalEntryID)
	s.Equal(entryID, *stored.JournalEntryID)

	_, err = s.uow.Repos().Journal.FindEntryByID(ctx, entryID)
	s.Require().NoError(err)
	lines, err := s.uow.Repos().Journal.FindLinesByEntryID(ctx, entryID)
	s.Require().NoError(err)
	s.Require().Len(lines, 2)
	s.True(lineFor(s.T(), lines, s.accounts[domain.CodeCash].AccountID).Debit.Equal(d("500")))
	s.True(lineFor(s.T(), lines, s.accounts[domain.CodeARApplied].AccountID).Credit.Equal(d("500")))
}

func (s *BankingServiceTestSuite) TestCreatePaymentFromTransaction() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)
	client := saveClient(s.T(), s.uow, "Acme Consulting")

	txn := s.postTransaction(ba.BankAccountID,
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), "Mystery deposit", d("850"),
		s.accounts[domain.CodeOwnerEquity].AccountID)

	payment, err := s.bank.CreatePaymentFromTransaction(ctx, txn.TransactionID, client.ClientID, domain.MethodACH, testUserID)
	s.Require().NoError(err)
	s.True(payment.Amount.Equal(d("850")))
	s.True(payment.UnappliedAmount.Equal(d("850")))
	s.Equal("Mystery deposit", payment.Memo)
	s.True(payment.Date.Equal(txn.Date))

	stored, err := s.bank.GetTransactionByID(ctx, txn.TransactionID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.PaymentID)
	s.Equal(payment.PaymentID, *stored.PaymentID)
}

func (s *BankingServiceTestSuite) TestCreatePaymentFromTransaction_WithdrawalRejected() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)
	client := saveClient(s.T(), s.uow, "Acme Consulting")

	txn := s.postTransaction(ba.BankAccountID,
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), "Debit card purchase", d("-40"),
		s.accounts[domain.CodeOwnerEquity].AccountID)

	_, err := s.bank.CreatePaymentFromTransaction(ctx, txn.TransactionID, client.ClientID, domain.MethodCard, testUserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BankingServiceTestSuite) TestLinkExpense_CreatesExpenseInCategory() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)
	software := s.saveExpenseAccount("5100", "Software")

	category, err := s.billing.CreateExpenseCategory(ctx, dto.CreateExpenseCategoryRequest{
		Name:      "Software",
		AccountID: &software.AccountID,
	}, testUserID)
	s.Require().NoError(err)

	txn := s.postTransaction(ba.BankAccountID,
		time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), "GITHUB.COM", d("-80"),
		s.accounts[domain.CodeOwnerEquity].AccountID)
	originalEntryID := *txn.JournalEntryID

	linked, err := s.bank.LinkExpense(ctx, txn.TransactionID, dto.LinkExpenseRequest{
		CategoryID: category.CategoryID,
	}, testUserID)
	s.Require().NoError(err)
	s.Require().NotNil(linked.ExpenseID)

	// The original posting is superseded, not kept alongside.
	_, err = s.uow.Repos().Journal.FindEntryByID(ctx, originalEntryID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.Require().NotNil(linked.JournalEntryID)
	entry, err := s.uow.Repos().Journal.FindEntryByID(ctx, *linked.JournalEntryID)
	s.Require().NoError(err)
	s.Equal("Expense settled: GITHUB.COM", entry.Description)
	lines, err := s.uow.Repos().Journal.FindLinesByEntryID(ctx, entry.EntryID)
	s.Require().NoError(err)
	s.True(lineFor(s.T(), lines, software.AccountID).Debit.Equal(d("80")))
	s.True(lineFor(s.T(), lines, ba.AccountID).Credit.Equal(d("80")))

	expense, err := s.uow.Repos().Billing.FindExpenseByID(ctx, *linked.ExpenseID)
	s.Require().NoError(err)
	s.True(expense.Amount.Equal(d("80")))
	s.Require().NotNil(expense.PaymentAccountID)
	s.Equal(ba.BankAccountID, *expense.PaymentAccountID)
}

func (s *BankingServiceTestSuite) TestLinkExpense_CategoryWithoutGLAccountRejected() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)

	category, err := s.billing.CreateExpenseCategory(ctx, dto.CreateExpenseCategoryRequest{
		Name: "Miscellaneous",
	}, testUserID)
	s.Require().NoError(err)

	txn := s.postTransaction(ba.BankAccountID,
		time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), "UNKNOWN VENDOR", d("-15"),
		s.accounts[domain.CodeOwnerEquity].AccountID)

	_, err = s.bank.LinkExpense(ctx, txn.TransactionID, dto.LinkExpenseRequest{
		CategoryID: category.CategoryID,
	}, testUserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrMissingGLAccount)
}

func (s *BankingServiceTestSuite) TestLinkExpense_TransferMatchedTransactionRejected() {
	ctx := context.Background()
	checking := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)
	savings := s.createBankAccount(domain.Savings, "First National", "x5678", decimal.Zero)
	equity := s.accounts[domain.CodeOwnerEquity]
	software := s.saveExpenseAccount("5100", "Software")

	category, err := s.billing.CreateExpenseCategory(ctx, dto.CreateExpenseCategoryRequest{
		Name:      "Software",
		AccountID: &software.AccountID,
	}, testUserID)
	s.Require().NoError(err)

	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	out := s.postTransaction(checking.BankAccountID, date, "Transfer to savings", d("-500"), equity.AccountID)
	in := s.postTransaction(savings.BankAccountID, date, "Transfer from checking", d("500"), equity.AccountID)

	matched, err := s.bank.MatchTransfer(ctx, out.TransactionID, in.TransactionID, testUserID)
	s.Require().NoError(err)

	_, err = s.bank.LinkExpense(ctx, out.TransactionID, dto.LinkExpenseRequest{
		CategoryID: category.CategoryID,
	}, testUserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrAlreadyMatched)

	// The shared transfer entry is untouched.
	_, err = s.uow.Repos().Journal.FindEntryByID(ctx, *matched.JournalEntryID)
	s.Require().NoError(err)
}

func (s *BankingServiceTestSuite) TestMatchTransfer() {
	ctx := context.Background()
	checking := s.createBankAccount(domain.Checking, "First National", "x1234", d("1000"))
	savings := s.createBankAccount(domain.Savings, "First National", "x5678", decimal.Zero)
	equity := s.accounts[domain.CodeOwnerEquity]

	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	out := s.postTransaction(checking.BankAccountID, date, "Transfer to savings", d("-500"), equity.AccountID)
	in := s.postTransaction(savings.BankAccountID, date, "Transfer from checking", d("500"), equity.AccountID)
	outOldEntry, inOldEntry := *out.JournalEntryID, *in.JournalEntryID

	matched, err := s.bank.MatchTransfer(ctx, out.TransactionID, in.TransactionID, testUserID)
	s.Require().NoError(err)
	s.Equal(out.TransactionID, matched.TransactionID)
	s.Require().NotNil(matched.TransferPairID)
	s.Equal(in.TransactionID, *matched.TransferPairID)

	// Both per-side entries are replaced by one shared entry.
	_, err = s.uow.Repos().Journal.FindEntryByID(ctx, outOldEntry)
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.uow.Repos().Journal.FindEntryByID(ctx, inOldEntry)
	s.ErrorIs(err, apperrors.ErrNotFound)

	inStored, err := s.bank.GetTransactionByID(ctx, in.TransactionID)
	s.Require().NoError(err)
	s.Require().NotNil(inStored.TransferPairID)
	s.Equal(out.TransactionID, *inStored.TransferPairID)
	s.Require().NotNil(inStored.JournalEntryID)
	s.Equal(*matched.JournalEntryID, *inStored.JournalEntryID)

	entry, err := s.uow.Repos().Journal.FindEntryByID(ctx, *matched.JournalEntryID)
	s.Require().NoError(err)
	s.Equal("Transfer from First National (x1234) to First National (x5678)", entry.Description)
	lines, err := s.uow.Repos().Journal.FindLinesByEntryID(ctx, entry.EntryID)
	s.Require().NoError(err)
	s.True(lineFor(s.T(), lines, savings.AccountID).Debit.Equal(d("500")))
	s.True(lineFor(s.T(), lines, checking.AccountID).Credit.Equal(d("500")))
}

func (s *BankingServiceTestSuite) TestMatchTransfer_SameAccountRejected() {
	ctx := context.Background()
	checking := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)
	equity := s.accounts[domain.CodeOwnerEquity]

	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	a := s.postTransaction(checking.BankAccountID, date, "Out", d("-500"), equity.AccountID)
	b := s.postTransaction(checking.BankAccountID, date, "In", d("500"), equity.AccountID)

	_, err := s.bank.MatchTransfer(ctx, a.TransactionID, b.TransactionID, testUserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrSameAccountTransfer)
}

func (s *BankingServiceTestSuite) TestMatchTransfer_AmountMismatchRejected() {
	ctx := context.Background()
	checking := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)
	savings := s.createBankAccount(domain.Savings, "First National", "x5678", decimal.Zero)
	equity := s.accounts[domain.CodeOwnerEquity]

	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	a := s.postTransaction(checking.BankAccountID, date, "Out", d("-500"), equity.AccountID)
	b := s.postTransaction(savings.BankAccountID, date, "In", d("450"), equity.AccountID)

	_, err := s.bank.MatchTransfer(ctx, a.TransactionID, b.TransactionID, testUserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrAmountMismatch)
}

func (s *BankingServiceTestSuite) TestRegister_RunningBalances() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", d("1000"))
	equity := s.accounts[domain.CodeOwnerEquity]

	s.postTransaction(ba.BankAccountID, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), "Deposit", d("400"), equity.AccountID)
	s.postTransaction(ba.BankAccountID, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), "Rent", d("-150"), equity.AccountID)

	register, err := s.bank.Register(ctx, ba.BankAccountID, nil, nil)
	s.Require().NoError(err)
	s.True(register.OpeningBalance.Equal(d("1000")))
	s.True(register.BalanceForward.Equal(d("1000")))
	s.Require().Len(register.Rows, 2)
	s.True(register.Rows[0].RunningBalance.Equal(d("1400")))
	s.True(register.Rows[1].RunningBalance.Equal(d("1250")))

	// A windowed register folds earlier activity into the balance forward.
	from := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	register, err = s.bank.Register(ctx, ba.BankAccountID, &from, nil)
	s.Require().NoError(err)
	s.True(register.BalanceForward.Equal(d("1400")))
	s.Require().Len(register.Rows, 1)
	s.True(register.Rows[0].RunningBalance.Equal(d("1250")))
}

func (s *BankingServiceTestSuite) TestListUnmatched_ExcludesMatchedTransactions() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)
	client := saveClient(s.T(), s.uow, "Acme Consulting")
	equity := s.accounts[domain.CodeOwnerEquity]

	matched := s.postTransaction(ba.BankAccountID,
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), "ACH deposit", d("500"), equity.AccountID)
	open := s.postTransaction(ba.BankAccountID,
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), "Unknown charge", d("-20"), equity.AccountID)

	_, err := s.bank.CreatePaymentFromTransaction(ctx, matched.TransactionID, client.ClientID, domain.MethodACH, testUserID)
	s.Require().NoError(err)

	unmatched, err := s.bank.ListUnmatched(ctx, ba.BankAccountID)
	s.Require().NoError(err)
	s.Require().Len(unmatched, 1)
	s.Equal(open.TransactionID, unmatched[0].TransactionID)
}

func (s *BankingServiceTestSuite) TestUpsertImportProfile_DefaultsAndReuse() {
	ctx := context.Background()
	ba := s.createBankAccount(domain.Checking, "First National", "x1234", decimal.Zero)

	profile, err := s.bank.UpsertImportProfile(ctx, ba.BankAccountID, dto.UpsertImportProfileRequest{
		DateColumn:        0,
		DescriptionColumn: 1,
		AmountColumn:      2,
		DateFormat:        "01/02/2006",
	})
	s.Require().NoError(err)
	s.Equal(domain.SignBankStandard, profile.SignRule)

	// A second upsert keeps the profile identity.
	updated, err := s.bank.UpsertImportProfile(ctx, ba.BankAccountID, dto.UpsertImportProfileRequest{
		DateColumn:        0,
		DescriptionColumn: 2,
		AmountColumn:      3,
		DateFormat:        "2006-01-02",
	})
	s.Require().NoError(err)
	s.Equal(profile.ProfileID, updated.ProfileID)
	s.Equal(3, updated.AmountColumn)
}

func (s *BankingServiceTestSuite) TestUpsertImportProfile_CreditCardNeedsSignRule() {
	ctx := context.Background()
	cc := s.createBankAccount(domain.CreditCard, "Amex", "x9001", decimal.Zero)

	_, err := s.bank.UpsertImportProfile(ctx, cc.BankAccountID, dto.UpsertImportProfileRequest{
		DateColumn:        0,
		DescriptionColumn: 1,
		AmountColumn:      2,
		DateFormat:        "01/02/2006",
	})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidConfiguration)
}

func TestBankingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BankingServiceTestSuite))
}
