package services

import (
	"context"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	"github.com/fernbooks/bookkeeping_app/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc defines read operations over the chart of accounts and journal.
type LedgerReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its chart-of-accounts code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves the full chart of accounts.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// GetJournalEntry retrieves one journal entry with its lines.
	GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a paginated list of journal entries with lines.
	ListJournalEntries(ctx context.Context, limit, offset int) ([]domain.JournalEntry, error)
}

// LedgerWriterSvc defines write operations for the chart of accounts.
type LedgerWriterSvc interface {
	// CreateAccount persists a new chart-of-accounts entry.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount marks an account inactive; its history stays intact.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error

	// DeleteAccount removes an account that has never been posted to.
	DeleteAccount(ctx context.Context, accountID string) error
}

// LedgerCalculatorSvc defines balance calculations over posted lines.
type LedgerCalculatorSvc interface {
	// CalculateAccountBalance returns the account's debit-minus-credit balance.
	CalculateAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
	LedgerCalculatorSvc
}
