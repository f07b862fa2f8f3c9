package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/fernbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type PgxReportingRepository struct {
	db DBTX
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// TrialBalanceData aggregates debit/credit per account over the posting-date
// range. The LEFT JOIN keeps zero-activity accounts in the result.
func (r *PgxReportingRepository) TrialBalanceData(ctx context.Context, from, to *time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit), 0)  AS debit_sum,
		       COALESCE(SUM(l.credit), 0) AS credit_sum
		FROM accounts a
		LEFT JOIN journal_lines l ON l.account_id = a.account_id
		LEFT JOIN journal_entries e ON e.entry_id = l.entry_id
		    AND ($1::timestamptz IS NULL OR e.posted_at >= $1)
		    AND ($2::timestamptz IS NULL OR e.posted_at <= $2)
		WHERE e.entry_id IS NOT NULL OR l.line_id IS NULL
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance data: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountID, &row.Code, &row.Name, &row.Type, &row.DebitSum, &row.CreditSum); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *PgxReportingRepository) AccountActivity(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM journal_lines
		WHERE account_id = $1;
	`
	var debit, credit decimal.Decimal
	if err := r.db.QueryRow(ctx, query, accountID).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum activity for account %s: %w", accountID, err)
	}
	return debit, credit, nil
}
