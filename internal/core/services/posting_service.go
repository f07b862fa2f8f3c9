package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/apperrors"
	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/fernbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/fernbooks/bookkeeping_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostingService turns invoices and payments into balanced journal entries.
type PostingService struct {
	uow portsrepo.UnitOfWork
}

func NewPostingService(uow portsrepo.UnitOfWork) *PostingService {
	return &PostingService{uow: uow}
}

// requireAccountByCode resolves a well-known chart-of-accounts code. A missing
// account means the ledger was never seeded and is a setup error, not user error.
func requireAccountByCode(ctx context.Context, r portsrepo.Repositories, code string) (*domain.Account, error) {
	account, err := r.Accounts.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(http.StatusInternalServerError,
				fmt.Sprintf("required account %s is missing from the chart of accounts", code), err)
		}
		return nil, err
	}
	return account, nil
}

// saveBalancedEntry checks the balance invariant before anything touches the journal.
func saveBalancedEntry(ctx context.Context, r portsrepo.Repositories, entry domain.JournalEntry, lines []domain.JournalLine) error {
	if !domain.LinesBalanced(lines) {
		return apperrors.NewAppError(http.StatusInternalServerError,
			fmt.Sprintf("entry %s debits and credits do not balance", entry.EntryID), apperrors.ErrUnbalancedEntry)
	}
	return r.Journal.SaveEntry(ctx, entry, lines)
}

func debitCreditPair(entryID string, debitAccountID, creditAccountID string, amount decimal.Decimal) []domain.JournalLine {
	return []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: debitAccountID, Debit: amount, Credit: decimal.Zero},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: creditAccountID, Debit: decimal.Zero, Credit: amount},
	}
}

// invoiceCurrentlyPosted infers posting state from entry-count parity: each post
// appends one entry and each reverse appends another, so an odd count means the
// invoice currently has effect on the ledger.
func invoiceCurrentlyPosted(ctx context.Context, r portsrepo.Repositories, invoiceID string) (bool, error) {
	count, err := r.Journal.CountEntriesBySource(ctx, domain.SourceRef{Kind: domain.SourceInvoice, ID: invoiceID})
	if err != nil {
		return false, err
	}
	return count%2 == 1, nil
}

// postInvoiceEntry creates the Dr AR / Cr Revenue entry for an issued invoice.
// Returns (nil, nil) when the invoice is already posted.
func postInvoiceEntry(ctx context.Context, r portsrepo.Repositories, invoice *domain.Invoice, userID string) (*domain.JournalEntry, error) {
	posted, err := invoiceCurrentlyPosted(ctx, r, invoice.InvoiceID)
	if err != nil {
		return nil, err
	}
	if posted {
		return nil, nil
	}

	ar, err := requireAccountByCode(ctx, r, domain.CodeAccountsReceivable)
	if err != nil {
		return nil, err
	}
	revenue, err := requireAccountByCode(ctx, r, domain.CodeConsultingRevenue)
	if err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		PostedAt:    invoice.IssueDate,
		PostedBy:    &userID,
		Description: fmt.Sprintf("Invoice %s", invoice.Number),
		Source:      &domain.SourceRef{Kind: domain.SourceInvoice, ID: invoice.InvoiceID},
		CreatedAt:   time.Now(),
	}
	entry.Lines = debitCreditPair(entry.EntryID, ar.AccountID, revenue.AccountID, invoice.Total)

	if err := saveBalancedEntry(ctx, r, entry, entry.Lines); err != nil {
		return nil, err
	}
	return &entry, nil
}

// reverseInvoiceEntry appends the offsetting Dr Revenue / Cr AR entry under the
// same source. Returns (nil, nil) when the invoice is not currently posted.
// Reversals append; they never delete the original entry.
func reverseInvoiceEntry(ctx context.Context, r portsrepo.Repositories, invoice *domain.Invoice, userID string) (*domain.JournalEntry, error) {
	posted, err := invoiceCurrentlyPosted(ctx, r, invoice.InvoiceID)
	if err != nil {
		return nil, err
	}
	if !posted {
		return nil, nil
	}

	ar, err := requireAccountByCode(ctx, r, domain.CodeAccountsReceivable)
	if err != nil {
		return nil, err
	}
	revenue, err := requireAccountByCode(ctx, r, domain.CodeConsultingRevenue)
	if err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		PostedAt:    time.Now(),
		PostedBy:    &userID,
		Description: fmt.Sprintf("Reversal of invoice %s", invoice.Number),
		Source:      &domain.SourceRef{Kind: domain.SourceInvoice, ID: invoice.InvoiceID},
		CreatedAt:   time.Now(),
	}
	entry.Lines = debitCreditPair(entry.EntryID, revenue.AccountID, ar.AccountID, invoice.Total)

	if err := saveBalancedEntry(ctx, r, entry, entry.Lines); err != nil {
		return nil, err
	}
	return &entry, nil
}

// paymentSplitLines builds the payment entry's lines from the payment's current
// applications: Dr Cash for the full amount, Cr AR-applied for the allocated
// portion, Cr unapplied-payments for the rest.
func paymentSplitLines(ctx context.Context, r portsrepo.Repositories, payment *domain.Payment, entryID string) ([]domain.JournalLine, error) {
	cash, err := requireAccountByCode(ctx, r, domain.CodeCash)
	if err != nil {
		return nil, err
	}
	arApplied, err := requireAccountByCode(ctx, r, domain.CodeARApplied)
	if err != nil {
		return nil, err
	}
	unappliedAcct, err := requireAccountByCode(ctx, r, domain.CodeUnappliedPayments)
	if err != nil {
		return nil, err
	}

	applications, err := r.Billing.FindApplicationsByPaymentID(ctx, payment.PaymentID)
	if err != nil {
		return nil, err
	}
	applied := decimal.Zero
	for _, app := range applications {
		applied = applied.Add(app.Amount)
	}
	unapplied := payment.Amount.Sub(applied)

	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: cash.AccountID, Debit: payment.Amount, Credit: decimal.Zero},
	}
	if applied.IsPositive() {
		lines = append(lines, domain.JournalLine{
			LineID: uuid.NewString(), EntryID: entryID, AccountID: arApplied.AccountID,
			Debit: decimal.Zero, Credit: applied,
		})
	}
	if unapplied.IsPositive() {
		lines = append(lines, domain.JournalLine{
			LineID: uuid.NewString(), EntryID: entryID, AccountID: unappliedAcct.AccountID,
			Debit: decimal.Zero, Credit: unapplied,
		})
	}
	return lines, nil
}

// postPaymentEntry creates the payment's applied/unapplied split entry.
// Idempotent: an existing entry for the payment is returned unchanged.
func postPaymentEntry(ctx context.Context, r portsrepo.Repositories, payment *domain.Payment, userID string) (*domain.JournalEntry, error) {
	source := domain.SourceRef{Kind: domain.SourcePayment, ID: payment.PaymentID}

	existing, err := r.Journal.FindEntryBySource(ctx, source)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	client, err := r.Billing.FindClientByID(ctx, payment.ClientID)
	if err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		PostedAt:    payment.Date,
		PostedBy:    &userID,
		Description: fmt.Sprintf("Payment received from %s", client.Name),
		Source:      &source,
		CreatedAt:   time.Now(),
	}
	entry.Lines, err = paymentSplitLines(ctx, r, payment, entry.EntryID)
	if err != nil {
		return nil, err
	}

	if err := saveBalancedEntry(ctx, r, entry, entry.Lines); err != nil {
		return nil, err
	}
	return &entry, nil
}

// repostPaymentEntry refreshes the applied/unapplied split after allocations
// change. The entry id stays stable so bank transactions pointing at the
// payment's entry keep their journal reference.
func repostPaymentEntry(ctx context.Context, r portsrepo.Repositories, payment *domain.Payment, userID string) (*domain.JournalEntry, error) {
	source := domain.SourceRef{Kind: domain.SourcePayment, ID: payment.PaymentID}

	existing, err := r.Journal.FindEntryBySource(ctx, source)
	if errors.Is(err, apperrors.ErrNotFound) {
		return postPaymentEntry(ctx, r, payment, userID)
	}
	if err != nil {
		return nil, err
	}

	lines, err := paymentSplitLines(ctx, r, payment, existing.EntryID)
	if err != nil {
		return nil, err
	}
	if !domain.LinesBalanced(lines) {
		return nil, apperrors.NewAppError(http.StatusInternalServerError,
			fmt.Sprintf("entry %s debits and credits do not balance", existing.EntryID), apperrors.ErrUnbalancedEntry)
	}
	if err := r.Journal.ReplaceEntryLines(ctx, existing.EntryID, lines); err != nil {
		return nil, err
	}
	existing.Lines = lines
	return existing, nil
}

func (s *PostingService) PostInvoice(ctx context.Context, invoiceID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var entry *domain.JournalEntry
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		invoice, err := r.Billing.FindInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		entry, err = postInvoiceEntry(ctx, r, invoice, userID)
		return err
	})
	if err != nil {
		logger.Error("Failed to post invoice", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, err
	}
	if entry == nil {
		logger.Info("Invoice already posted, skipping", slog.String("invoice_id", invoiceID))
		return nil, nil
	}
	logger.Info("Invoice posted", slog.String("invoice_id", invoiceID), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

func (s *PostingService) ReverseInvoice(ctx context.Context, invoiceID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var entry *domain.JournalEntry
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		invoice, err := r.Billing.FindInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		entry, err = reverseInvoiceEntry(ctx, r, invoice, userID)
		return err
	})
	if err != nil {
		logger.Error("Failed to reverse invoice", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, err
	}
	if entry == nil {
		logger.Info("Invoice not posted, nothing to reverse", slog.String("invoice_id", invoiceID))
		return nil, nil
	}
	logger.Info("Invoice reversed", slog.String("invoice_id", invoiceID), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

func (s *PostingService) PostPayment(ctx context.Context, paymentID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var entry *domain.JournalEntry
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		payment, err := r.Billing.FindPaymentByID(ctx, paymentID)
		if err != nil {
			return err
		}
		entry, err = postPaymentEntry(ctx, r, payment, userID)
		return err
	})
	if err != nil {
		logger.Error("Failed to post payment", slog.String("payment_id", paymentID), slog.String("error", err.Error()))
		return nil, err
	}
	return entry, nil
}

func (s *PostingService) IsInvoicePosted(ctx context.Context, invoiceID string) (bool, error) {
	return invoiceCurrentlyPosted(ctx, s.uow.Repos(), invoiceID)
}
