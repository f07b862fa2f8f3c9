package services

import (
	"context"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/fernbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// ReportingService builds the read-only financial reports from ledger and
// billing data. It never mutates anything.
type ReportingService struct {
	uow portsrepo.UnitOfWork
}

func NewReportingService(uow portsrepo.UnitOfWork) *ReportingService {
	return &ReportingService{uow: uow}
}

func (s *ReportingService) TrialBalance(ctx context.Context, from, to *time.Time) ([]domain.TrialBalanceRow, error) {
	rows, err := s.uow.Repos().Reporting.TrialBalanceData(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Balance = rows[i].DebitSum.Sub(rows[i].CreditSum)
	}
	return rows, nil
}

// IncomeStatement shows income balances negated so revenue reads positive.
func (s *ReportingService) IncomeStatement(ctx context.Context, from, to *time.Time) (*domain.IncomeStatement, error) {
	rows, err := s.uow.Repos().Reporting.TrialBalanceData(ctx, from, to)
	if err != nil {
		return nil, err
	}

	statement := &domain.IncomeStatement{
		RevenueTotal: decimal.Zero,
		ExpenseTotal: decimal.Zero,
	}
	for _, row := range rows {
		switch row.Type {
		case domain.AccountTypeIncome:
			amount := row.CreditSum.Sub(row.DebitSum)
			statement.Rows = append(statement.Rows, domain.IncomeStatementRow{
				AccountID: row.AccountID, Code: row.Code, Name: row.Name, Type: row.Type, Amount: amount,
			})
			statement.RevenueTotal = statement.RevenueTotal.Add(amount)
		case domain.AccountTypeExpense:
			amount := row.DebitSum.Sub(row.CreditSum)
			statement.Rows = append(statement.Rows, domain.IncomeStatementRow{
				AccountID: row.AccountID, Code: row.Code, Name: row.Name, Type: row.Type, Amount: amount,
			})
			statement.ExpenseTotal = statement.ExpenseTotal.Add(amount)
		}
	}
	statement.NetIncome = statement.RevenueTotal.Sub(statement.ExpenseTotal)
	return statement, nil
}

func (s *ReportingService) ClientBalanceSummary(ctx context.Context) ([]domain.ClientBalanceRow, error) {
	r := s.uow.Repos()
	clients, err := r.Billing.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	summary := make([]domain.ClientBalanceRow, 0, len(clients))
	for _, client := range clients {
		row := domain.ClientBalanceRow{
			ClientID:      client.ClientID,
			ClientName:    client.Name,
			TotalInvoiced: decimal.Zero,
			Applied:       decimal.Zero,
			Unapplied:     decimal.Zero,
			Outstanding:   decimal.Zero,
		}

		invoices, err := r.Billing.ListInvoicesByClient(ctx, client.ClientID)
		if err != nil {
			return nil, err
		}
		for _, invoice := range invoices {
			if invoice.Status != domain.InvoiceIssued && invoice.Status != domain.InvoicePaid {
				continue
			}
			applied, err := r.Billing.SumApplicationsForInvoice(ctx, invoice.InvoiceID)
			if err != nil {
				return nil, err
			}
			row.TotalInvoiced = row.TotalInvoiced.Add(invoice.Total)
			row.Applied = row.Applied.Add(applied)
			row.Outstanding = row.Outstanding.Add(invoice.OutstandingBalance(applied))
		}

		payments, err := r.Billing.ListPaymentsByClient(ctx, client.ClientID)
		if err != nil {
			return nil, err
		}
		for _, payment := range payments {
			row.Unapplied = row.Unapplied.Add(payment.UnappliedAmount)
		}

		row.NetAR = row.Outstanding.Sub(row.Unapplied)
		summary = append(summary, row)
	}
	return summary, nil
}

// ARAging buckets invoices that still carry an outstanding balance by days past
// due as of asOf. Invoices not yet due land in the current bucket.
func (s *ReportingService) ARAging(ctx context.Context, asOf time.Time) (*domain.ARAging, error) {
	r := s.uow.Repos()
	invoices, err := r.Billing.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}

	aging := &domain.ARAging{}
	for _, invoice := range invoices {
		if invoice.Status != domain.InvoiceIssued {
			continue
		}
		applied, err := r.Billing.SumApplicationsForInvoice(ctx, invoice.InvoiceID)
		if err != nil {
			return nil, err
		}
		outstanding := invoice.OutstandingBalance(applied)
		if !outstanding.IsPositive() {
			continue
		}

		days := int(asOf.Sub(invoice.DueDate).Hours() / 24)
		aged := domain.AgedInvoice{
			InvoiceID:   invoice.InvoiceID,
			Number:      invoice.Number,
			ClientID:    invoice.ClientID,
			DueDate:     invoice.DueDate,
			Outstanding: outstanding,
			DaysPastDue: days,
		}
		switch {
		case days <= 30:
			aging.Current = append(aging.Current, aged)
		case days <= 60:
			aging.Days31To60 = append(aging.Days31To60, aged)
		case days <= 90:
			aging.Days61To90 = append(aging.Days61To90, aged)
		default:
			aging.Over90 = append(aging.Over90, aged)
		}
	}
	return aging, nil
}
