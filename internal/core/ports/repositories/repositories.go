package repositories

import (
	"context"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository persists the chart of accounts.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	UpdateAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// HighestCodeInRange returns the lexicographically greatest code in
	// [lo, hi], or nil when the range is empty. Callers are responsible for
	// interpreting the code numerically.
	HighestCodeInRange(ctx context.Context, lo, hi string) (*string, error)

	// DeleteAccount removes an account; it must fail with ErrConflict while any
	// journal line references the account (restrict semantics, never cascade).
	DeleteAccount(ctx context.Context, accountID string) error
}

// JournalRepository persists journal entries and their owned lines.
type JournalRepository interface {
	// SaveEntry inserts the entry together with its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ReplaceEntryLines deletes the entry's lines and inserts the given ones,
	// keeping the entry row (and its id) intact.
	ReplaceEntryLines(ctx context.Context, entryID string, lines []domain.JournalLine) error

	// DeleteEntry removes the entry; deletion cascades to its lines.
	DeleteEntry(ctx context.Context, entryID string) error

	CountEntriesBySource(ctx context.Context, source domain.SourceRef) (int, error)
	// FindEntryBySource returns the first entry for the source, or ErrNotFound.
	FindEntryBySource(ctx context.Context, source domain.SourceRef) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, limit, offset int) ([]domain.JournalEntry, error)
}

// BankRepository persists bank accounts, their transactions and import profiles.
type BankRepository interface {
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error)

	SaveTransaction(ctx context.Context, txn domain.BankTransaction) error
	UpdateTransaction(ctx context.Context, txn domain.BankTransaction) error
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error)

	// SumTransactionAmounts totals the signed amounts on the account; when before
	// is non-nil only transactions dated strictly earlier are included.
	SumTransactionAmounts(ctx context.Context, bankAccountID string, before *time.Time) (decimal.Decimal, error)

	// ListTransactions returns the account's transactions in [from, to]
	// (either bound optional, both inclusive), ordered by date then insertion.
	ListTransactions(ctx context.Context, bankAccountID string, from, to *time.Time) ([]domain.BankTransaction, error)

	FindImportProfile(ctx context.Context, bankAccountID string) (*domain.BankImportProfile, error)
	SaveImportProfile(ctx context.Context, profile domain.BankImportProfile) error
}

// BillingRepository persists clients, invoices, payments, expenses and time entries.
type BillingRepository interface {
	SaveClient(ctx context.Context, client domain.Client) error
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)

	SaveInvoice(ctx context.Context, invoice domain.Invoice) error
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	ListInvoicesByClient(ctx context.Context, clientID string) ([]domain.Invoice, error)
	// FindDraftInvoiceForClient returns the client's draft invoice, or ErrNotFound.
	FindDraftInvoiceForClient(ctx context.Context, clientID string) (*domain.Invoice, error)
	// LatestInvoiceNumberWithPrefix returns the greatest invoice number starting
	// with prefix, or nil when none exists.
	LatestInvoiceNumberWithPrefix(ctx context.Context, prefix string) (*string, error)

	SaveInvoiceLine(ctx context.Context, line domain.InvoiceLine) error
	DeleteInvoiceLine(ctx context.Context, lineID string) error
	FindInvoiceLinesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error)

	SavePayment(ctx context.Context, payment domain.Payment) error
	UpdatePayment(ctx context.Context, payment domain.Payment) error
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	ListPaymentsByClient(ctx context.Context, clientID string) ([]domain.Payment, error)

	SavePaymentApplication(ctx context.Context, app domain.PaymentApplication) error
	FindApplicationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentApplication, error)
	SumApplicationsForInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error)

	SaveExpense(ctx context.Context, expense domain.Expense) error
	UpdateExpense(ctx context.Context, expense domain.Expense) error
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	FindExpensesByIDs(ctx context.Context, expenseIDs []string) ([]domain.Expense, error)

	SaveExpenseCategory(ctx context.Context, category domain.ExpenseCategory) error
	FindExpenseCategoryByID(ctx context.Context, categoryID string) (*domain.ExpenseCategory, error)

	SaveTimeEntry(ctx context.Context, entry domain.TimeEntry) error
	UpdateTimeEntry(ctx context.Context, entry domain.TimeEntry) error
	FindTimeEntriesByIDs(ctx context.Context, timeEntryIDs []string) ([]domain.TimeEntry, error)

	// Reverse lookups from an invoice line to the item billed on it; ErrNotFound
	// when the line bills nothing of that kind.
	FindTimeEntryByInvoiceLineID(ctx context.Context, lineID string) (*domain.TimeEntry, error)
	FindExpenseByInvoiceLineID(ctx context.Context, lineID string) (*domain.Expense, error)
}

// ReportingRepository serves the ledger-aggregation queries behind reports.
type ReportingRepository interface {
	// TrialBalanceData sums journal-line debit/credit columns per account,
	// restricted to entries whose postedAt falls in [from, to] (either bound
	// optional). Accounts with no activity are included with zero sums.
	TrialBalanceData(ctx context.Context, from, to *time.Time) ([]domain.TrialBalanceRow, error)

	// AccountActivity sums the debit and credit columns of every line posted
	// against one account.
	AccountActivity(ctx context.Context, accountID string) (debitSum, creditSum decimal.Decimal, err error)
}

// Repositories bundles every repository the engine needs.
type Repositories struct {
	Accounts  AccountRepository
	Journal   JournalRepository
	Bank      BankRepository
	Billing   BillingRepository
	Reporting ReportingRepository
}

// UnitOfWork executes fn inside one atomic transaction: every repository write
// made through the passed Repositories commits or rolls back as a unit.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	// Repos returns repositories bound to the pool (no explicit transaction),
	// suitable for single-statement reads.
	Repos() Repositories
}
