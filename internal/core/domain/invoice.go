package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus state machine: Draft -> Issued -> Paid/Void, Issued -> Draft.
type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "DRAFT"
	InvoiceIssued InvoiceStatus = "ISSUED"
	InvoicePaid   InvoiceStatus = "PAID"
	InvoiceVoid   InvoiceStatus = "VOID"
)

// InvoiceLineType classifies what an invoice line bills for.
type InvoiceLineType string

const (
	LineTime       InvoiceLineType = "TIME"
	LineExpense    InvoiceLineType = "EXPENSE"
	LineAdjustment InvoiceLineType = "ADJUSTMENT"
	LineGeneral    InvoiceLineType = "GENERAL"
)

// Invoice. Totals are cached, server-recomputed aggregates of the lines; only one
// Draft invoice may exist per client at a time.
type Invoice struct {
	InvoiceID string        `json:"invoiceID"` // Primary key (UUID)
	ClientID  string        `json:"clientID"`
	Number    string        `json:"number"` // e.g. "2025-001", unique
	IssueDate time.Time     `json:"issueDate"`
	DueDate   time.Time     `json:"dueDate"`
	Status    InvoiceStatus `json:"status"`
	Notes     string        `json:"notes"`

	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
	AuditFields

	// Lines are loaded separately and populated on demand.
	Lines []InvoiceLine `json:"lines,omitempty"`
}

// OutstandingBalance is total minus what has been applied against the invoice.
func (i Invoice) OutstandingBalance(appliedTotal decimal.Decimal) decimal.Decimal {
	return i.Total.Sub(appliedTotal)
}

// InvoiceLine is one billed row; lineTotal = quantity * unitPrice, always recomputed
// server-side.
type InvoiceLine struct {
	LineID      string          `json:"lineID"` // Primary key (UUID)
	InvoiceID   string          `json:"invoiceID"`
	LineType    InvoiceLineType `json:"lineType"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}
