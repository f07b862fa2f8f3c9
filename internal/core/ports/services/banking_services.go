package services

import (
	"context"
	"io"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	"github.com/fernbooks/bookkeeping_app/internal/dto"
	"github.com/shopspring/decimal"
)

// BankReaderSvc defines read operations over bank accounts and transactions.
type BankReaderSvc interface {
	// GetBankAccountByID retrieves one bank account.
	GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccounts retrieves all bank accounts.
	ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error)

	// GetTransactionByID retrieves one bank transaction.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error)

	// CalculateBankBalance returns openingBalance plus the sum of all
	// transaction amounts on the account.
	CalculateBankBalance(ctx context.Context, bankAccountID string) (decimal.Decimal, error)

	// Register returns the account's transactions over [from, to] with running
	// balances, seeded by the balance forward at the range start.
	Register(ctx context.Context, bankAccountID string, from, to *time.Time) (*domain.BankRegister, error)

	// ListUnmatched returns the account's transactions still awaiting
	// categorization against a payment, expense or transfer.
	ListUnmatched(ctx context.Context, bankAccountID string) ([]domain.BankTransaction, error)
}

// BankWriterSvc defines operations that create or recategorize bank activity.
type BankWriterSvc interface {
	// CreateBankAccount provisions the bank account, allocates its GL account
	// in the 1110-1199 range and posts the opening-balance entry when the
	// opening balance is nonzero.
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error)

	// PostTransaction records a signed-amount transaction and its two-line
	// journal entry against the offset account.
	PostTransaction(ctx context.Context, bankAccountID string, req dto.PostBankTransactionRequest, userID string) (*domain.BankTransaction, error)

	// RetagTransaction swaps the offset account on a posted transaction,
	// rebuilding the lines of the same journal entry.
	RetagTransaction(ctx context.Context, transactionID string, offsetAccountID string, userID string) (*domain.BankTransaction, error)

	// UpsertImportProfile saves the CSV import configuration for the account.
	UpsertImportProfile(ctx context.Context, bankAccountID string, req dto.UpsertImportProfileRequest) (*domain.BankImportProfile, error)
}

// BankMatcherSvc defines the reconciliation state machine: each operation moves
// an unmatched transaction into exactly one matched state.
type BankMatcherSvc interface {
	// LinkExistingPayment matches a deposit to a recorded client payment of
	// the exact same amount. The statement date is authoritative: the payment
	// date is overwritten with the transaction date before posting.
	LinkExistingPayment(ctx context.Context, transactionID string, paymentID string, userID string) (*domain.BankTransaction, error)

	// CreatePaymentFromTransaction records a fully-unapplied payment for the
	// deposit amount and links it in one step.
	CreatePaymentFromTransaction(ctx context.Context, transactionID string, clientID string, method domain.PaymentMethod, userID string) (*domain.Payment, error)

	// LinkExpense matches a withdrawal to an existing expense, or creates one
	// in the given category, replacing the transaction's entry with a posting
	// against the category's GL account.
	LinkExpense(ctx context.Context, transactionID string, req dto.LinkExpenseRequest, userID string) (*domain.BankTransaction, error)

	// MatchTransfer pairs two transactions of opposite sign and equal
	// magnitude on different accounts under a single journal entry.
	MatchTransfer(ctx context.Context, transactionID string, targetTransactionID string, userID string) (*domain.BankTransaction, error)

	// MarkOwnerEquity retags the transaction against owner's equity,
	// classifying it as a contribution or draw.
	MarkOwnerEquity(ctx context.Context, transactionID string, userID string) (*domain.BankTransaction, error)
}

// BankSvcFacade combines all banking service interfaces.
type BankSvcFacade interface {
	BankReaderSvc
	BankWriterSvc
	BankMatcherSvc
}

// StatementImportSvc ingests bank statement CSVs through an account's import profile.
type StatementImportSvc interface {
	// ImportStatement parses the CSV, normalizes amounts by the profile's sign
	// rule, skips non-data and filtered rows, and posts every accepted row
	// against the offset account. The whole file imports atomically.
	ImportStatement(ctx context.Context, bankAccountID string, csvData io.Reader, offsetAccountID string, userID string) (int, error)
}
