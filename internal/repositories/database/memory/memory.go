// Package memory provides in-memory implementations of the repository ports.
// They back the service tests; writes are not transactional, so WithinTx is a
// plain passthrough.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/apperrors"
	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/fernbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store holds every collection behind one mutex.
type Store struct {
	mu sync.RWMutex

	accounts     map[string]domain.Account
	accountOrder []string

	entries    map[string]domain.JournalEntry
	entryOrder []string
	lines      map[string][]domain.JournalLine

	bankAccounts map[string]domain.BankAccount
	bankOrder    []string
	transactions map[string]domain.BankTransaction
	txnOrder     []string
	profiles     map[string]domain.BankImportProfile

	clients          map[string]domain.Client
	clientOrder      []string
	invoices         map[string]domain.Invoice
	invoiceOrder     []string
	invoiceLines     map[string]domain.InvoiceLine
	invoiceLineOrder []string
	payments         map[string]domain.Payment
	paymentOrder     []string
	applications     map[string]domain.PaymentApplication
	applicationOrder []string
	expenses         map[string]domain.Expense
	categories       map[string]domain.ExpenseCategory
	timeEntries      map[string]domain.TimeEntry
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		entries:      make(map[string]domain.JournalEntry),
		lines:        make(map[string][]domain.JournalLine),
		bankAccounts: make(map[string]domain.BankAccount),
		transactions: make(map[string]domain.BankTransaction),
		profiles:     make(map[string]domain.BankImportProfile),
		clients:      make(map[string]domain.Client),
		invoices:     make(map[string]domain.Invoice),
		invoiceLines: make(map[string]domain.InvoiceLine),
		payments:     make(map[string]domain.Payment),
		applications: make(map[string]domain.PaymentApplication),
		expenses:     make(map[string]domain.Expense),
		categories:   make(map[string]domain.ExpenseCategory),
		timeEntries:  make(map[string]domain.TimeEntry),
	}
}

// UnitOfWork over the in-memory store. WithinTx offers no rollback; a failing
// fn leaves earlier writes in place, which is acceptable for tests.
type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{store: NewStore()}
}

func (u *UnitOfWork) Repos() portsrepo.Repositories {
	return portsrepo.Repositories{
		Accounts:  &accountRepository{u.store},
		Journal:   &journalRepository{u.store},
		Bank:      &bankRepository{u.store},
		Billing:   &billingRepository{u.store},
		Reporting: &reportingRepository{u.store},
	}
}

func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, r portsrepo.Repositories) error) error {
	return fn(ctx, u.Repos())
}

// --- accounts ---

type accountRepository struct{ s *Store }

func (r *accountRepository) SaveAccount(_ context.Context, account domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accounts {
		if existing.Code == account.Code {
			return apperrors.ErrDuplicate
		}
	}
	r.s.accounts[account.AccountID] = account
	r.s.accountOrder = append(r.s.accountOrder, account.AccountID)
	return nil
}

func (r *accountRepository) UpdateAccount(_ context.Context, account domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[account.AccountID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.accounts[account.AccountID] = account
	return nil
}

func (r *accountRepository) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	account, ok := r.s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (r *accountRepository) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, account := range r.s.accounts {
		if account.Code == code {
			a := account
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *accountRepository) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	found := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if account, ok := r.s.accounts[id]; ok {
			found[id] = account
		}
	}
	return found, nil
}

func (r *accountRepository) ListAccounts(_ context.Context) ([]domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	accounts := make([]domain.Account, 0, len(r.s.accountOrder))
	for _, id := range r.s.accountOrder {
		if account, ok := r.s.accounts[id]; ok {
			accounts = append(accounts, account)
		}
	}
	sort.SliceStable(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (r *accountRepository) HighestCodeInRange(_ context.Context, lo, hi string) (*string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var highest *string
	for _, account := range r.s.accounts {
		if account.Code < lo || account.Code > hi {
			continue
		}
		if highest == nil || account.Code > *highest {
			code := account.Code
			highest = &code
		}
	}
	return highest, nil
}

func (r *accountRepository) DeleteAccount(_ context.Context, accountID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[accountID]; !ok {
		return apperrors.ErrNotFound
	}
	for _, entryLines := range r.s.lines {
		for _, line := range entryLines {
			if line.AccountID == accountID {
				return apperrors.ErrConflict
			}
		}
	}
	delete(r.s.accounts, accountID)
	return nil
}

// --- journal ---

type journalRepository struct{ s *Store }

func (r *journalRepository) SaveEntry(_ context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entries[entry.EntryID]; ok {
		return apperrors.ErrDuplicate
	}
	entry.Lines = nil
	r.s.entries[entry.EntryID] = entry
	r.s.entryOrder = append(r.s.entryOrder, entry.EntryID)
	r.s.lines[entry.EntryID] = append([]domain.JournalLine(nil), lines...)
	return nil
}

func (r *journalRepository) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	entry, ok := r.s.entries[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &entry, nil
}

func (r *journalRepository) FindLinesByEntryID(_ context.Context, entryID string) ([]domain.JournalLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]domain.JournalLine(nil), r.s.lines[entryID]...), nil
}

func (r *journalRepository) ReplaceEntryLines(_ context.Context, entryID string, lines []domain.JournalLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entries[entryID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.lines[entryID] = append([]domain.JournalLine(nil), lines...)
	return nil
}

func (r *journalRepository) DeleteEntry(_ context.Context, entryID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entries[entryID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.entries, entryID)
	delete(r.s.lines, entryID)
	return nil
}

func (r *journalRepository) CountEntriesBySource(_ context.Context, source domain.SourceRef) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, entry := range r.s.entries {
		if entry.Source != nil && *entry.Source == source {
			count++
		}
	}
	return count, nil
}

func (r *journalRepository) FindEntryBySource(_ context.Context, source domain.SourceRef) (*domain.JournalEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range r.s.entryOrder {
		entry, ok := r.s.entries[id]
		if ok && entry.Source != nil && *entry.Source == source {
			return &entry, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *journalRepository) ListEntries(_ context.Context, limit, offset int) ([]domain.JournalEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	entries := make([]domain.JournalEntry, 0, len(r.s.entryOrder))
	for _, id := range r.s.entryOrder {
		if entry, ok := r.s.entries[id]; ok {
			entries = append(entries, entry)
		}
	}
	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// --- bank ---

type bankRepository struct{ s *Store }

func (r *bankRepository) SaveBankAccount(_ context.Context, account domain.BankAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bankAccounts[account.BankAccountID] = account
	r.s.bankOrder = append(r.s.bankOrder, account.BankAccountID)
	return nil
}

func (r *bankRepository) FindBankAccountByID(_ context.Context, bankAccountID string) (*domain.BankAccount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	account, ok := r.s.bankAccounts[bankAccountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (r *bankRepository) ListBankAccounts(_ context.Context) ([]domain.BankAccount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	accounts := make([]domain.BankAccount, 0, len(r.s.bankOrder))
	for _, id := range r.s.bankOrder {
		if account, ok := r.s.bankAccounts[id]; ok {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (r *bankRepository) SaveTransaction(_ context.Context, txn domain.BankTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transactions[txn.TransactionID] = txn
	r.s.txnOrder = append(r.s.txnOrder, txn.TransactionID)
	return nil
}

func (r *bankRepository) UpdateTransaction(_ context.Context, txn domain.BankTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.transactions[txn.TransactionID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.transactions[txn.TransactionID] = txn
	return nil
}

func (r *bankRepository) FindTransactionByID(_ context.Context, transactionID string) (*domain.BankTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	txn, ok := r.s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (r *bankRepository) SumTransactionAmounts(_ context.Context, bankAccountID string, before *time.Time) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sum := decimal.Zero
	for _, txn := range r.s.transactions {
		if txn.BankAccountID != bankAccountID {
			continue
		}
		if before != nil && !txn.Date.Before(*before) {
			continue
		}
		sum = sum.Add(txn.Amount)
	}
	return sum, nil
}

func (r *bankRepository) ListTransactions(_ context.Context, bankAccountID string, from, to *time.Time) ([]domain.BankTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	txns := make([]domain.BankTransaction, 0)
	for _, id := range r.s.txnOrder {
		txn, ok := r.s.transactions[id]
		if !ok || txn.BankAccountID != bankAccountID {
			continue
		}
		if from != nil && txn.Date.Before(*from) {
			continue
		}
		if to != nil && txn.Date.After(*to) {
			continue
		}
		txns = append(txns, txn)
	}
	sort.SliceStable(txns, func(i, j int) bool { return txns[i].Date.Before(txns[j].Date) })
	return txns, nil
}

func (r *bankRepository) FindImportProfile(_ context.Context, bankAccountID string) (*domain.BankImportProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	profile, ok := r.s.profiles[bankAccountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &profile, nil
}

func (r *bankRepository) SaveImportProfile(_ context.Context, profile domain.BankImportProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.profiles[profile.BankAccountID] = profile
	return nil
}

// --- billing ---

type billingRepository struct{ s *Store }

func (r *billingRepository) SaveClient(_ context.Context, client domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.clients {
		if existing.Name == client.Name {
			return apperrors.ErrDuplicate
		}
	}
	r.s.clients[client.ClientID] = client
	r.s.clientOrder = append(r.s.clientOrder, client.ClientID)
	return nil
}

func (r *billingRepository) FindClientByID(_ context.Context, clientID string) (*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	client, ok := r.s.clients[clientID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &client, nil
}

func (r *billingRepository) ListClients(_ context.Context) ([]domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	clients := make([]domain.Client, 0, len(r.s.clientOrder))
	for _, id := range r.s.clientOrder {
		if client, ok := r.s.clients[id]; ok {
			clients = append(clients, client)
		}
	}
	return clients, nil
}

func (r *billingRepository) SaveInvoice(_ context.Context, invoice domain.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	invoice.Lines = nil
	r.s.invoices[invoice.InvoiceID] = invoice
	r.s.invoiceOrder = append(r.s.invoiceOrder, invoice.InvoiceID)
	return nil
}

func (r *billingRepository) UpdateInvoice(_ context.Context, invoice domain.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[invoice.InvoiceID]; !ok {
		return apperrors.ErrNotFound
	}
	invoice.Lines = nil
	r.s.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (r *billingRepository) FindInvoiceByID(_ context.Context, invoiceID string) (*domain.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	invoice, ok := r.s.invoices[invoiceID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &invoice, nil
}

func (r *billingRepository) ListInvoices(_ context.Context) ([]domain.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	invoices := make([]domain.Invoice, 0, len(r.s.invoiceOrder))
	for _, id := range r.s.invoiceOrder {
		if invoice, ok := r.s.invoices[id]; ok {
			invoices = append(invoices, invoice)
		}
	}
	return invoices, nil
}

func (r *billingRepository) ListInvoicesByClient(_ context.Context, clientID string) ([]domain.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	invoices := make([]domain.Invoice, 0)
	for _, id := range r.s.invoiceOrder {
		if invoice, ok := r.s.invoices[id]; ok && invoice.ClientID == clientID {
			invoices = append(invoices, invoice)
		}
	}
	return invoices, nil
}

func (r *billingRepository) FindDraftInvoiceForClient(_ context.Context, clientID string) (*domain.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range r.s.invoiceOrder {
		invoice, ok := r.s.invoices[id]
		if ok && invoice.ClientID == clientID && invoice.Status == domain.InvoiceDraft {
			return &invoice, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *billingRepository) LatestInvoiceNumberWithPrefix(_ context.Context, prefix string) (*string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var latest *string
	for _, invoice := range r.s.invoices {
		if invoice.Number == "" || !strings.HasPrefix(invoice.Number, prefix) {
			continue
		}
		if latest == nil || invoice.Number > *latest {
			number := invoice.Number
			latest = &number
		}
	}
	return latest, nil
}

func (r *billingRepository) SaveInvoiceLine(_ context.Context, line domain.InvoiceLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.invoiceLines[line.LineID] = line
	r.s.invoiceLineOrder = append(r.s.invoiceLineOrder, line.LineID)
	return nil
}

func (r *billingRepository) DeleteInvoiceLine(_ context.Context, lineID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoiceLines[lineID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.invoiceLines, lineID)
	return nil
}

func (r *billingRepository) FindInvoiceLinesByInvoiceID(_ context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	lines := make([]domain.InvoiceLine, 0)
	for _, id := range r.s.invoiceLineOrder {
		if line, ok := r.s.invoiceLines[id]; ok && line.InvoiceID == invoiceID {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (r *billingRepository) SavePayment(_ context.Context, payment domain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	payment.Applications = nil
	r.s.payments[payment.PaymentID] = payment
	r.s.paymentOrder = append(r.s.paymentOrder, payment.PaymentID)
	return nil
}

func (r *billingRepository) UpdatePayment(_ context.Context, payment domain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[payment.PaymentID]; !ok {
		return apperrors.ErrNotFound
	}
	payment.Applications = nil
	r.s.payments[payment.PaymentID] = payment
	return nil
}

func (r *billingRepository) FindPaymentByID(_ context.Context, paymentID string) (*domain.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	payment, ok := r.s.payments[paymentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &payment, nil
}

func (r *billingRepository) ListPayments(_ context.Context) ([]domain.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	payments := make([]domain.Payment, 0, len(r.s.paymentOrder))
	for _, id := range r.s.paymentOrder {
		if payment, ok := r.s.payments[id]; ok {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

func (r *billingRepository) ListPaymentsByClient(_ context.Context, clientID string) ([]domain.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	payments := make([]domain.Payment, 0)
	for _, id := range r.s.paymentOrder {
		if payment, ok := r.s.payments[id]; ok && payment.ClientID == clientID {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

func (r *billingRepository) SavePaymentApplication(_ context.Context, app domain.PaymentApplication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.applications[app.ApplicationID] = app
	r.s.applicationOrder = append(r.s.applicationOrder, app.ApplicationID)
	return nil
}

func (r *billingRepository) FindApplicationsByPaymentID(_ context.Context, paymentID string) ([]domain.PaymentApplication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	apps := make([]domain.PaymentApplication, 0)
	for _, id := range r.s.applicationOrder {
		if app, ok := r.s.applications[id]; ok && app.PaymentID == paymentID {
			apps = append(apps, app)
		}
	}
	return apps, nil
}

func (r *billingRepository) SumApplicationsForInvoice(_ context.Context, invoiceID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sum := decimal.Zero
	for _, app := range r.s.applications {
		if app.InvoiceID == invoiceID {
			sum = sum.Add(app.Amount)
		}
	}
	return sum, nil
}

func (r *billingRepository) SaveExpense(_ context.Context, expense domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.expenses[expense.ExpenseID] = expense
	return nil
}

func (r *billingRepository) UpdateExpense(_ context.Context, expense domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[expense.ExpenseID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.expenses[expense.ExpenseID] = expense
	return nil
}

func (r *billingRepository) FindExpenseByID(_ context.Context, expenseID string) (*domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	expense, ok := r.s.expenses[expenseID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &expense, nil
}

func (r *billingRepository) FindExpensesByIDs(_ context.Context, expenseIDs []string) ([]domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	expenses := make([]domain.Expense, 0, len(expenseIDs))
	for _, id := range expenseIDs {
		if expense, ok := r.s.expenses[id]; ok {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

func (r *billingRepository) SaveExpenseCategory(_ context.Context, category domain.ExpenseCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.categories[category.CategoryID] = category
	return nil
}

func (r *billingRepository) FindExpenseCategoryByID(_ context.Context, categoryID string) (*domain.ExpenseCategory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	category, ok := r.s.categories[categoryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &category, nil
}

func (r *billingRepository) SaveTimeEntry(_ context.Context, entry domain.TimeEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.timeEntries[entry.TimeEntryID] = entry
	return nil
}

func (r *billingRepository) UpdateTimeEntry(_ context.Context, entry domain.TimeEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.timeEntries[entry.TimeEntryID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.timeEntries[entry.TimeEntryID] = entry
	return nil
}

func (r *billingRepository) FindTimeEntriesByIDs(_ context.Context, timeEntryIDs []string) ([]domain.TimeEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	entries := make([]domain.TimeEntry, 0, len(timeEntryIDs))
	for _, id := range timeEntryIDs {
		if entry, ok := r.s.timeEntries[id]; ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (r *billingRepository) FindTimeEntryByInvoiceLineID(_ context.Context, lineID string) (*domain.TimeEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, entry := range r.s.timeEntries {
		if entry.InvoiceLineID != nil && *entry.InvoiceLineID == lineID {
			e := entry
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *billingRepository) FindExpenseByInvoiceLineID(_ context.Context, lineID string) (*domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, expense := range r.s.expenses {
		if expense.InvoiceLineID != nil && *expense.InvoiceLineID == lineID {
			e := expense
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// --- reporting ---

type reportingRepository struct{ s *Store }

func (r *reportingRepository) TrialBalanceData(_ context.Context, from, to *time.Time) ([]domain.TrialBalanceRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rowsByAccount := make(map[string]*domain.TrialBalanceRow, len(r.s.accounts))
	for _, account := range r.s.accounts {
		rowsByAccount[account.AccountID] = &domain.TrialBalanceRow{
			AccountID: account.AccountID,
			Code:      account.Code,
			Name:      account.Name,
			Type:      account.AccountType,
			DebitSum:  decimal.Zero,
			CreditSum: decimal.Zero,
		}
	}

	for entryID, entryLines := range r.s.lines {
		entry, ok := r.s.entries[entryID]
		if !ok {
			continue
		}
		if from != nil && entry.PostedAt.Before(*from) {
			continue
		}
		if to != nil && entry.PostedAt.After(*to) {
			continue
		}
		for _, line := range entryLines {
			row, ok := rowsByAccount[line.AccountID]
			if !ok {
				continue
			}
			row.DebitSum = row.DebitSum.Add(line.Debit)
			row.CreditSum = row.CreditSum.Add(line.Credit)
		}
	}

	rows := make([]domain.TrialBalanceRow, 0, len(rowsByAccount))
	for _, row := range rowsByAccount {
		rows = append(rows, *row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
	return rows, nil
}

func (r *reportingRepository) AccountActivity(_ context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	debit, credit := decimal.Zero, decimal.Zero
	for _, entryLines := range r.s.lines {
		for _, line := range entryLines {
			if line.AccountID == accountID {
				debit = debit.Add(line.Debit)
				credit = credit.Add(line.Credit)
			}
		}
	}
	return debit, credit, nil
}
