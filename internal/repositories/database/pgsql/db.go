package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/fernbooks/bookkeeping_app/internal/apperrors"
	portsrepo "github.com/fernbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the querying surface shared by *pgxpool.Pool and pgx.Tx, letting the
// same repository code run pooled or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func newRepositories(db DBTX) portsrepo.Repositories {
	return portsrepo.Repositories{
		Accounts:  &PgxAccountRepository{db: db},
		Journal:   &PgxJournalRepository{db: db},
		Bank:      &PgxBankRepository{db: db},
		Billing:   &PgxBillingRepository{db: db},
		Reporting: &PgxReportingRepository{db: db},
	}
}

// PgxUnitOfWork runs multi-repository operations on one pgx transaction.
type PgxUnitOfWork struct {
	pool *pgxpool.Pool
}

func NewPgxUnitOfWork(pool *pgxpool.Pool) *PgxUnitOfWork {
	return &PgxUnitOfWork{pool: pool}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

func (u *PgxUnitOfWork) Repos() portsrepo.Repositories {
	return newRepositories(u.pool)
}

func (u *PgxUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, r portsrepo.Repositories) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	defer func() {
		// Safe after commit: pgx turns that into ErrTxClosed, which we ignore.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, newRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a Postgres FK restrict error.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
