package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	"github.com/fernbooks/bookkeeping_app/internal/core/services"
	"github.com/fernbooks/bookkeeping_app/internal/repositories/database/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type PostingServiceTestSuite struct {
	suite.Suite
	uow      *memory.UnitOfWork
	service  *services.PostingService
	accounts map[string]domain.Account
	client   domain.Client
}

func (s *PostingServiceTestSuite) SetupTest() {
	s.uow = memory.NewUnitOfWork()
	s.service = services.NewPostingService(s.uow)
	s.accounts = seedChartOfAccounts(s.T(), s.uow)
	s.client = saveClient(s.T(), s.uow, "Acme Consulting")
}

func (s *PostingServiceTestSuite) TestPostInvoice_CreatesBalancedEntry() {
	ctx := context.Background()
	issueDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	invoice := saveIssuedInvoice(s.T(), s.uow, s.client.ClientID, "2026-001", d("1200"), issueDate)

	entry, err := s.service.PostInvoice(ctx, invoice.InvoiceID, testUserID)

	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Equal("Invoice 2026-001", entry.Description)
	s.True(entry.PostedAt.Equal(issueDate))
	s.Require().Len(entry.Lines, 2)
	s.True(domain.LinesBalanced(entry.Lines))

	ar := lineFor(s.T(), entry.Lines, s.accounts[domain.CodeAccountsReceivable].AccountID)
	revenue := lineFor(s.T(), entry.Lines, s.accounts[domain.CodeConsultingRevenue].AccountID)
	s.True(ar.Debit.Equal(d("1200")))
	s.True(revenue.Credit.Equal(d("1200")))

	posted, err := s.service.IsInvoicePosted(ctx, invoice.InvoiceID)
	s.Require().NoError(err)
	s.True(posted)
}

func (s *PostingServiceTestSuite) TestPostInvoice_Idempotent() {
	ctx := context.Background()
	invoice := saveIssuedInvoice(s.T(), s.uow, s.client.ClientID, "2026-001", d("500"),
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))

	first, err := s.service.PostInvoice(ctx, invoice.InvoiceID, testUserID)
	s.Require().NoError(err)
	s.Require().NotNil(first)

	second, err := s.service.PostInvoice(ctx, invoice.InvoiceID, testUserID)
	s.Require().NoError(err)
	s.Nil(second)

	count, err := s.uow.Repos().Journal.CountEntriesBySource(ctx,
		domain.SourceRef{Kind: domain.SourceInvoice, ID: invoice.InvoiceID})
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *PostingServiceTestSuite) TestReverseInvoice_AppendsOffsettingEntry() {
	ctx := context.Background()
	invoice := saveIssuedInvoice(s.T(), s.uow, s.client.ClientID, "2026-002", d("750"),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

	_, err := s.service.PostInvoice(ctx, invoice.InvoiceID, testUserID)
	s.Require().NoError(err)

	reversal, err := s.service.ReverseInvoice(ctx, invoice.InvoiceID, testUserID)
	s.Require().NoError(err)
	s.Require().NotNil(reversal)
	s.Equal("Reversal of invoice 2026-002", reversal.Description)

	revenue := lineFor(s.T(), reversal.Lines, s.accounts[domain.CodeConsultingRevenue].AccountID)
	ar := lineFor(s.T(), reversal.Lines, s.accounts[domain.CodeAccountsReceivable].AccountID)
	s.True(revenue.Debit.Equal(d("750")))
	s.True(ar.Credit.Equal(d("750")))

	posted, err := s.service.IsInvoicePosted(ctx, invoice.InvoiceID)
	s.Require().NoError(err)
	s.False(posted)

	// Reposting appends a third entry; the reversal stays in the journal.
	reposted, err := s.service.PostInvoice(ctx, invoice.InvoiceID, testUserID)
	s.Require().NoError(err)
	s.Require().NotNil(reposted)

	count, err := s.uow.Repos().Journal.CountEntriesBySource(ctx,
		domain.SourceRef{Kind: domain.SourceInvoice, ID: invoice.InvoiceID})
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *PostingServiceTestSuite) TestReverseInvoice_NotPostedIsNoOp() {
	ctx := context.Background()
	invoice := saveIssuedInvoice(s.T(), s.uow, s.client.ClientID, "2026-003", d("100"),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	reversal, err := s.service.ReverseInvoice(ctx, invoice.InvoiceID, testUserID)
	s.Require().NoError(err)
	s.Nil(reversal)
}

func (s *PostingServiceTestSuite) TestPostPayment_FullyUnapplied() {
	ctx := context.Background()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	payment := savePayment(s.T(), s.uow, s.client.ClientID, d("400"), date)

	entry, err := s.service.PostPayment(ctx, payment.PaymentID, testUserID)

	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Equal("Payment received from Acme Consulting", entry.Description)
	s.True(entry.PostedAt.Equal(date))
	s.Require().Len(entry.Lines, 2)

	cash := lineFor(s.T(), entry.Lines, s.accounts[domain.CodeCash].AccountID)
	unapplied := lineFor(s.T(), entry.Lines, s.accounts[domain.CodeUnappliedPayments].AccountID)
	s.True(cash.Debit.Equal(d("400")))
	s.True(unapplied.Credit.Equal(d("400")))
}

func (s *PostingServiceTestSuite) TestPostPayment_SplitsAppliedAndUnapplied() {
	ctx := context.Background()
	payment := savePayment(s.T(), s.uow, s.client.ClientID, d("500"),
		time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC))

	app := domain.PaymentApplication{
		ApplicationID: uuid.NewString(),
		PaymentID:     payment.PaymentID,
		InvoiceID:     uuid.NewString(),
		Amount:        d("300"),
	}
	s.Require().NoError(s.uow.Repos().Billing.SavePaymentApplication(ctx, app))

	entry, err := s.service.PostPayment(ctx, payment.PaymentID, testUserID)

	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Require().Len(entry.Lines, 3)
	s.True(domain.LinesBalanced(entry.Lines))

	cash := lineFor(s.T(), entry.Lines, s.accounts[domain.CodeCash].AccountID)
	arApplied := lineFor(s.T(), entry.Lines, s.accounts[domain.CodeARApplied].AccountID)
	unapplied := lineFor(s.T(), entry.Lines, s.accounts[domain.CodeUnappliedPayments].AccountID)
	s.True(cash.Debit.Equal(d("500")))
	s.True(arApplied.Credit.Equal(d("300")))
	s.True(unapplied.Credit.Equal(d("200")))
}

func (s *PostingServiceTestSuite) TestPostPayment_Idempotent() {
	ctx := context.Background()
	payment := savePayment(s.T(), s.uow, s.client.ClientID, d("250"),
		time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC))

	first, err := s.service.PostPayment(ctx, payment.PaymentID, testUserID)
	s.Require().NoError(err)
	s.Require().NotNil(first)

	second, err := s.service.PostPayment(ctx, payment.PaymentID, testUserID)
	s.Require().NoError(err)
	s.Require().NotNil(second)
	s.Equal(first.EntryID, second.EntryID)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
