package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/apperrors"
	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/fernbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/fernbooks/bookkeeping_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService exposes the chart of accounts and raw journal queries.
type LedgerService struct {
	uow portsrepo.UnitOfWork
}

func NewLedgerService(uow portsrepo.UnitOfWork) *LedgerService {
	return &LedgerService{uow: uow}
}

func (s *LedgerService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.Type,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, time.Now()),
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		return r.Accounts.SaveAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *LedgerService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		account, err := r.Accounts.FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		account.IsActive = false
		account.LastUpdatedAt = time.Now()
		account.LastUpdatedBy = userID
		return r.Accounts.UpdateAccount(ctx, *account)
	})
}

// DeleteAccount removes an account that has never been posted to. The
// repository enforces restrict semantics against journal lines.
func (s *LedgerService) DeleteAccount(ctx context.Context, accountID string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		err := r.Accounts.DeleteAccount(ctx, accountID)
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewAppError(http.StatusConflict,
				"account has journal activity and cannot be deleted", err)
		}
		return err
	})
}

func (s *LedgerService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.uow.Repos().Accounts.FindAccountByID(ctx, accountID)
}

func (s *LedgerService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.uow.Repos().Accounts.FindAccountByCode(ctx, code)
}

func (s *LedgerService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.uow.Repos().Accounts.ListAccounts(ctx)
}

func (s *LedgerService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	r := s.uow.Repos()
	entry, err := r.Journal.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := r.Journal.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

func (s *LedgerService) ListJournalEntries(ctx context.Context, limit, offset int) ([]domain.JournalEntry, error) {
	r := s.uow.Repos()
	entries, err := r.Journal.ListEntries(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		lines, err := r.Journal.FindLinesByEntryID(ctx, entries[i].EntryID)
		if err != nil {
			return nil, err
		}
		entries[i].Lines = lines
	}
	return entries, nil
}

func (s *LedgerService) CalculateAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	r := s.uow.Repos()
	if _, err := r.Accounts.FindAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	debit, credit, err := r.Reporting.AccountActivity(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return debit.Sub(credit), nil
}
