package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	"github.com/fernbooks/bookkeeping_app/internal/core/services"
	"github.com/fernbooks/bookkeeping_app/internal/dto"
	"github.com/fernbooks/bookkeeping_app/internal/repositories/database/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	uow       *memory.UnitOfWork
	reporting *services.ReportingService
	billing   *services.BillingService
	bank      *services.BankingService
	accounts  map[string]domain.Account
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.uow = memory.NewUnitOfWork()
	s.reporting = services.NewReportingService(s.uow)
	s.billing = services.NewBillingService(s.uow)
	s.bank = services.NewBankingService(s.uow)
	s.accounts = seedChartOfAccounts(s.T(), s.uow)
}

// issueInvoiceFor drives a one-line invoice through draft and issue.
func (s *ReportingServiceTestSuite) issueInvoiceFor(clientID string, total decimal.Decimal, issueDate time.Time, dueDate *time.Time) *domain.Invoice {
	ctx := context.Background()
	draft, err := s.billing.CreateDraftInvoice(ctx, dto.CreateInvoiceRequest{
		ClientID:  clientID,
		IssueDate: issueDate,
		DueDate:   dueDate,
	}, testUserID)
	s.Require().NoError(err)

	_, err = s.billing.AddInvoiceLine(ctx, draft.InvoiceID, dto.AddInvoiceLineRequest{
		LineType:    domain.LineGeneral,
		Description: "Consulting services",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   total,
	}, testUserID)
	s.Require().NoError(err)

	issued, err := s.billing.IssueInvoice(ctx, draft.InvoiceID, testUserID)
	s.Require().NoError(err)
	return issued
}

func (s *ReportingServiceTestSuite) TestTrialBalance_DebitsEqualCredits() {
	ctx := context.Background()
	client := saveClient(s.T(), s.uow, "Acme Consulting")
	invoice := s.issueInvoiceFor(client.ClientID, d("1000"),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), nil)

	payment, err := s.billing.CreatePayment(ctx, dto.CreatePaymentRequest{
		ClientID: client.ClientID,
		Date:     time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		Amount:   d("600"),
		Method:   domain.MethodACH,
	}, testUserID)
	s.Require().NoError(err)
	_, err = s.billing.ApplyPayment(ctx, payment.PaymentID, dto.ApplyPaymentRequest{
		Allocations: []dto.PaymentAllocation{{InvoiceID: invoice.InvoiceID, Amount: d("600")}},
	}, testUserID)
	s.Require().NoError(err)

	rows, err := s.reporting.TrialBalance(ctx, nil, nil)
	s.Require().NoError(err)

	totalDebits, totalCredits := decimal.Zero, decimal.Zero
	byCode := make(map[string]domain.TrialBalanceRow, len(rows))
	for _, row := range rows {
		totalDebits = totalDebits.Add(row.DebitSum)
		totalCredits = totalCredits.Add(row.CreditSum)
		byCode[row.Code] = row
	}
	s.True(totalDebits.Equal(totalCredits))

	s.True(byCode[domain.CodeAccountsReceivable].DebitSum.Equal(d("1000")))
	s.True(byCode[domain.CodeConsultingRevenue].CreditSum.Equal(d("1000")))
	s.True(byCode[domain.CodeCash].DebitSum.Equal(d("600")))
	s.True(byCode[domain.CodeARApplied].CreditSum.Equal(d("600")))
	s.True(byCode[domain.CodeAccountsReceivable].Balance.Equal(d("1000")))
	s.True(byCode[domain.CodeConsultingRevenue].Balance.Equal(d("-1000")))
}

func (s *ReportingServiceTestSuite) TestTrialBalance_DateRangeFiltersByPostingDate() {
	ctx := context.Background()
	client := saveClient(s.T(), s.uow, "Acme Consulting")
	s.issueInvoiceFor(client.ClientID, d("1000"),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), nil)

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	rows, err := s.reporting.TrialBalance(ctx, &from, nil)
	s.Require().NoError(err)

	// Every account still appears, but the March posting falls outside the range.
	s.Len(rows, len(s.accounts))
	for _, row := range rows {
		s.True(row.DebitSum.IsZero(), "account %s", row.Code)
		s.True(row.CreditSum.IsZero(), "account %s", row.Code)
	}
}

func (s *ReportingServiceTestSuite) TestIncomeStatement_RevenueMinusExpenses() {
	ctx := context.Background()
	client := saveClient(s.T(), s.uow, "Acme Consulting")
	s.issueInvoiceFor(client.ClientID, d("1000"),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), nil)

	software := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "5100",
		Name:        "Software",
		AccountType: domain.AccountTypeExpense,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(testUserID, time.Now()),
	}
	s.Require().NoError(s.uow.Repos().Accounts.SaveAccount(ctx, software))

	ba, err := s.bank.CreateBankAccount(ctx, dto.CreateBankAccountRequest{
		Type:         domain.Checking,
		Institution:  "First National",
		MaskedNumber: "x1234",
	}, testUserID)
	s.Require().NoError(err)
	_, err = s.bank.PostTransaction(ctx, ba.BankAccountID, dto.PostBankTransactionRequest{
		Date:            time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		Description:     "GITHUB.COM",
		Amount:          d("-80"),
		OffsetAccountID: software.AccountID,
	}, testUserID)
	s.Require().NoError(err)

	statement, err := s.reporting.IncomeStatement(ctx, nil, nil)
	s.Require().NoError(err)
	s.True(statement.RevenueTotal.Equal(d("1000")))
	s.True(statement.ExpenseTotal.Equal(d("80")))
	s.True(statement.NetIncome.Equal(d("920")))

	// Only income and expense accounts appear on the statement.
	for _, row := range statement.Rows {
		s.Contains([]domain.AccountType{domain.AccountTypeIncome, domain.AccountTypeExpense}, row.Type)
	}
}

func (s *ReportingServiceTestSuite) TestClientBalanceSummary() {
	ctx := context.Background()
	client := saveClient(s.T(), s.uow, "Acme Consulting")
	invoice := s.issueInvoiceFor(client.ClientID, d("1000"),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), nil)

	payment, err := s.billing.CreatePayment(ctx, dto.CreatePaymentRequest{
		ClientID: client.ClientID,
		Date:     time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		Amount:   d("750"),
		Method:   domain.MethodACH,
	}, testUserID)
	s.Require().NoError(err)
	_, err = s.billing.ApplyPayment(ctx, payment.PaymentID, dto.ApplyPaymentRequest{
		Allocations: []dto.PaymentAllocation{{InvoiceID: invoice.InvoiceID, Amount: d("600")}},
	}, testUserID)
	s.Require().NoError(err)

	summary, err := s.reporting.ClientBalanceSummary(ctx)
	s.Require().NoError(err)
	s.Require().Len(summary, 1)

	row := summary[0]
	s.Equal("Acme Consulting", row.ClientName)
	s.True(row.TotalInvoiced.Equal(d("1000")))
	s.True(row.Applied.Equal(d("600")))
	s.True(row.Unapplied.Equal(d("150")))
	s.True(row.Outstanding.Equal(d("400")))
	s.True(row.NetAR.Equal(d("250")))
}

func (s *ReportingServiceTestSuite) TestARAging_BucketsByDaysPastDue() {
	ctx := context.Background()
	client := saveClient(s.T(), s.uow, "Acme Consulting")
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	due := func(daysAgo int) *time.Time {
		t := asOf.AddDate(0, 0, -daysAgo)
		return &t
	}
	issueDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	current := s.issueInvoiceFor(client.ClientID, d("100"), issueDate, due(10))
	bucket60 := s.issueInvoiceFor(client.ClientID, d("200"), issueDate, due(45))
	bucket90 := s.issueInvoiceFor(client.ClientID, d("300"), issueDate, due(75))
	over90 := s.issueInvoiceFor(client.ClientID, d("400"), issueDate, due(120))

	aging, err := s.reporting.ARAging(ctx, asOf)
	s.Require().NoError(err)

	s.Require().Len(aging.Current, 1)
	s.Equal(current.InvoiceID, aging.Current[0].InvoiceID)
	s.Equal(10, aging.Current[0].DaysPastDue)
	s.True(aging.Current[0].Outstanding.Equal(d("100")))

	s.Require().Len(aging.Days31To60, 1)
	s.Equal(bucket60.InvoiceID, aging.Days31To60[0].InvoiceID)

	s.Require().Len(aging.Days61To90, 1)
	s.Equal(bucket90.InvoiceID, aging.Days61To90[0].InvoiceID)

	s.Require().Len(aging.Over90, 1)
	s.Equal(over90.InvoiceID, aging.Over90[0].InvoiceID)
}

func (s *ReportingServiceTestSuite) TestARAging_PaidInvoicesExcluded() {
	ctx := context.Background()
	client := saveClient(s.T(), s.uow, "Acme Consulting")
	invoice := s.issueInvoiceFor(client.ClientID, d("100"),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), nil)

	payment, err := s.billing.CreatePayment(ctx, dto.CreatePaymentRequest{
		ClientID: client.ClientID,
		Date:     time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		Amount:   d("100"),
		Method:   domain.MethodACH,
	}, testUserID)
	s.Require().NoError(err)
	_, err = s.billing.ApplyPayment(ctx, payment.PaymentID, dto.ApplyPaymentRequest{
		Allocations: []dto.PaymentAllocation{{InvoiceID: invoice.InvoiceID, Amount: d("100")}},
	}, testUserID)
	s.Require().NoError(err)

	aging, err := s.reporting.ARAging(ctx, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Empty(aging.Current)
	s.Empty(aging.Days31To60)
	s.Empty(aging.Days61To90)
	s.Empty(aging.Over90)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
