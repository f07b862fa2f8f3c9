package services

import (
	"context"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
)

// PostingSvc turns billing documents into balanced journal entries.
type PostingSvc interface {
	// PostInvoice debits accounts receivable and credits revenue for the
	// invoice total. No-op returning (nil, nil) when the invoice is already
	// posted.
	PostInvoice(ctx context.Context, invoiceID string, userID string) (*domain.JournalEntry, error)

	// ReverseInvoice appends an entry with the opposite lines under the same
	// source, returning the invoice to the unposted state. No-op returning
	// (nil, nil) when the invoice is not currently posted.
	ReverseInvoice(ctx context.Context, invoiceID string, userID string) (*domain.JournalEntry, error)

	// PostPayment debits cash for the full amount, crediting applied and
	// unapplied portions separately. Idempotent: an existing entry for the
	// payment is returned as-is.
	PostPayment(ctx context.Context, paymentID string, userID string) (*domain.JournalEntry, error)

	// IsInvoicePosted reports whether the invoice currently has effect on the ledger.
	IsInvoicePosted(ctx context.Context, invoiceID string) (bool, error)
}
