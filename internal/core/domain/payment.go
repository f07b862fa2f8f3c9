package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the client paid.
type PaymentMethod string

const (
	MethodCheck PaymentMethod = "check"
	MethodACH   PaymentMethod = "ach"
	MethodCash  PaymentMethod = "cash"
	MethodCard  PaymentMethod = "card"
	MethodOther PaymentMethod = "other"
)

// Payment is money received from a client. UnappliedAmount is the portion not yet
// allocated to invoices; sum(applications.amount) + unappliedAmount == amount is
// maintained by the allocation path. A payment may be linked to at most one
// bank transaction.
type Payment struct {
	PaymentID       string          `json:"paymentID"` // Primary key (UUID)
	ClientID        string          `json:"clientID"`
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	Method          PaymentMethod   `json:"method"`
	Memo            string          `json:"memo"`
	UnappliedAmount decimal.Decimal `json:"unappliedAmount"`
	AuditFields

	// Applications are loaded separately and populated on demand.
	Applications []PaymentApplication `json:"applications,omitempty"`
}

// PaymentApplication allocates part of a payment to one invoice.
type PaymentApplication struct {
	ApplicationID string          `json:"applicationID"` // Primary key (UUID)
	PaymentID     string          `json:"paymentID"`     // Owned, cascade-deleted with payment
	InvoiceID     string          `json:"invoiceID"`
	Amount        decimal.Decimal `json:"amount"`
}

// AppliedTotal sums the allocations already made from this payment.
func (p Payment) AppliedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, app := range p.Applications {
		total = total.Add(app.Amount)
	}
	return total
}
