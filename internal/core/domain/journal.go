package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind tags the business document a journal entry originates from.
type SourceKind string

const (
	SourceInvoice         SourceKind = "INVOICE"
	SourcePayment         SourceKind = "PAYMENT"
	SourceBankTransaction SourceKind = "BANK_TRANSACTION"
	SourceBankAccount     SourceKind = "BANK_ACCOUNT"
	SourceExpense         SourceKind = "EXPENSE"
)

// SourceRef is the polymorphic (kind, id) pair pointing at the originating
// business document. Resolving it back to a concrete object is a lookup keyed
// by the kind.
type SourceRef struct {
	Kind SourceKind `json:"kind"`
	ID   string     `json:"id"`
}

// JournalEntry is one atomic, balanced accounting event. Its lines must sum to
// equal total debits and credits before it is committed.
type JournalEntry struct {
	EntryID     string     `json:"entryID"`            // Primary key (UUID)
	PostedAt    time.Time  `json:"postedAt"`           // Date the event occurred
	PostedBy    *string    `json:"postedBy,omitempty"` // Optional user reference, audit only
	Description string     `json:"description"`
	Source      *SourceRef `json:"source,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	// Lines are loaded separately and populated on demand.
	Lines []JournalLine `json:"lines,omitempty"`
}

// JournalLine is one debit or credit row within an entry, against one account.
// Exactly one of Debit/Credit is nonzero in normal postings; opening-balance
// postings may use either.
type JournalLine struct {
	LineID    string          `json:"lineID"`  // Primary key (UUID)
	EntryID   string          `json:"entryID"` // FK -> JournalEntry, cascade-deleted with it
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// LinesBalanced reports whether the lines sum to equal debits and credits.
func LinesBalanced(lines []JournalLine) bool {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits.Equal(credits)
}
