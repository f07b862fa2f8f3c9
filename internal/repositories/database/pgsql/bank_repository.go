package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/apperrors"
	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/fernbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxBankRepository struct {
	db DBTX
}

var _ portsrepo.BankRepository = (*PgxBankRepository)(nil)

const bankAccountColumns = `bank_account_id, account_id, type, institution, masked_number, opening_balance, created_at`

func scanBankAccount(row pgx.Row) (*domain.BankAccount, error) {
	var b domain.BankAccount
	err := row.Scan(
		&b.BankAccountID,
		&b.AccountID,
		&b.Type,
		&b.Institution,
		&b.MaskedNumber,
		&b.OpeningBalance,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PgxBankRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (bank_account_id, account_id, type, institution, masked_number, opening_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query,
		account.BankAccountID,
		account.AccountID,
		account.Type,
		account.Institution,
		account.MaskedNumber,
		account.OpeningBalance,
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save bank account %s: %w", account.BankAccountID, err)
	}
	return nil
}

func (r *PgxBankRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`
	account, err := scanBankAccount(r.db.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}
	return account, nil
}

func (r *PgxBankRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts ORDER BY created_at;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		account, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

const transactionColumns = `transaction_id, bank_account_id, date, description, amount, journal_entry_id, offset_account_id, payment_id, expense_id, transfer_pair_id, created_at`

func scanTransaction(row pgx.Row) (*domain.BankTransaction, error) {
	var t domain.BankTransaction
	err := row.Scan(
		&t.TransactionID,
		&t.BankAccountID,
		&t.Date,
		&t.Description,
		&t.Amount,
		&t.JournalEntryID,
		&t.OffsetAccountID,
		&t.PaymentID,
		&t.ExpenseID,
		&t.TransferPairID,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PgxBankRepository) SaveTransaction(ctx context.Context, txn domain.BankTransaction) error {
	query := `
		INSERT INTO bank_transactions (transaction_id, bank_account_id, date, description, amount, journal_entry_id, offset_account_id, payment_id, expense_id, transfer_pair_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		txn.TransactionID,
		txn.BankAccountID,
		txn.Date,
		txn.Description,
		txn.Amount,
		txn.JournalEntryID,
		txn.OffsetAccountID,
		txn.PaymentID,
		txn.ExpenseID,
		txn.TransferPairID,
		txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save bank transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

func (r *PgxBankRepository) UpdateTransaction(ctx context.Context, txn domain.BankTransaction) error {
	query := `
		UPDATE bank_transactions
		SET date = $2, description = $3, amount = $4, journal_entry_id = $5, offset_account_id = $6, payment_id = $7, expense_id = $8, transfer_pair_id = $9
		WHERE transaction_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		txn.TransactionID,
		txn.Date,
		txn.Description,
		txn.Amount,
		txn.JournalEntryID,
		txn.OffsetAccountID,
		txn.PaymentID,
		txn.ExpenseID,
		txn.TransferPairID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank transaction %s: %w", txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBankRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM bank_transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.db.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find bank transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

func (r *PgxBankRepository) SumTransactionAmounts(ctx context.Context, bankAccountID string, before *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM bank_transactions
		WHERE bank_account_id = $1 AND ($2::timestamptz IS NULL OR date < $2);
	`
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, bankAccountID, before).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions for bank account %s: %w", bankAccountID, err)
	}
	return sum, nil
}

func (r *PgxBankRepository) ListTransactions(ctx context.Context, bankAccountID string, from, to *time.Time) ([]domain.BankTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM bank_transactions
		WHERE bank_account_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date, created_at;
	`
	rows, err := r.db.Query(ctx, query, bankAccountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for bank account %s: %w", bankAccountID, err)
	}
	defer rows.Close()

	var txns []domain.BankTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	return txns, rows.Err()
}

func (r *PgxBankRepository) FindImportProfile(ctx context.Context, bankAccountID string) (*domain.BankImportProfile, error) {
	query := `
		SELECT profile_id, bank_account_id, date_column, description_column, amount_column, date_format, sign_rule, skip_description_contains
		FROM bank_import_profiles
		WHERE bank_account_id = $1;
	`
	var p domain.BankImportProfile
	err := r.db.QueryRow(ctx, query, bankAccountID).Scan(
		&p.ProfileID,
		&p.BankAccountID,
		&p.DateColumn,
		&p.DescriptionColumn,
		&p.AmountColumn,
		&p.DateFormat,
		&p.SignRule,
		&p.SkipDescriptionContains,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find import profile for bank account %s: %w", bankAccountID, err)
	}
	return &p, nil
}

func (r *PgxBankRepository) SaveImportProfile(ctx context.Context, profile domain.BankImportProfile) error {
	query := `
		INSERT INTO bank_import_profiles (profile_id, bank_account_id, date_column, description_column, amount_column, date_format, sign_rule, skip_description_contains)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (bank_account_id) DO UPDATE
		SET date_column = EXCLUDED.date_column,
		    description_column = EXCLUDED.description_column,
		    amount_column = EXCLUDED.amount_column,
		    date_format = EXCLUDED.date_format,
		    sign_rule = EXCLUDED.sign_rule,
		    skip_description_contains = EXCLUDED.skip_description_contains;
	`
	_, err := r.db.Exec(ctx, query,
		profile.ProfileID,
		profile.BankAccountID,
		profile.DateColumn,
		profile.DescriptionColumn,
		profile.AmountColumn,
		profile.DateFormat,
		profile.SignRule,
		profile.SkipDescriptionContains,
	)
	if err != nil {
		return fmt.Errorf("failed to save import profile for bank account %s: %w", profile.BankAccountID, err)
	}
	return nil
}
