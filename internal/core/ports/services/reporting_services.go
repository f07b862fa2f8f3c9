package services

import (
	"context"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
)

// ReportingSvc serves the read-only financial reports.
type ReportingSvc interface {
	// TrialBalance lists per-account debit/credit sums over the posting-date
	// range; the grand debit and credit totals are always equal.
	TrialBalance(ctx context.Context, from, to *time.Time) ([]domain.TrialBalanceRow, error)

	// IncomeStatement shows income and expense account activity for a period.
	IncomeStatement(ctx context.Context, from, to *time.Time) (*domain.IncomeStatement, error)

	// ClientBalanceSummary aggregates invoiced, applied, unapplied and
	// outstanding amounts per client.
	ClientBalanceSummary(ctx context.Context) ([]domain.ClientBalanceRow, error)

	// ARAging buckets open invoices by days past due as of asOf.
	ARAging(ctx context.Context, asOf time.Time) (*domain.ARAging, error)
}
