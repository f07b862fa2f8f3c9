package dto

import (
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateClientRequest registers a billing counterparty.
type CreateClientRequest struct {
	Name              string           `json:"name" binding:"required"`
	Email             string           `json:"email" binding:"omitempty,email"`
	Phone             string           `json:"phone"`
	BillingAddress    string           `json:"billingAddress"`
	DefaultHourlyRate *decimal.Decimal `json:"defaultHourlyRate"`
	PaymentTermsDays  int              `json:"paymentTermsDays" binding:"min=0"`
}

// CreateInvoiceRequest opens a draft invoice. DueDate defaults to issueDate plus
// the client's payment terms when omitted.
type CreateInvoiceRequest struct {
	ClientID  string     `json:"clientID" binding:"required"`
	IssueDate time.Time  `json:"issueDate" binding:"required"`
	DueDate   *time.Time `json:"dueDate"`
	Notes     string     `json:"notes"`
}

// AddInvoiceLineRequest appends a general or adjustment line to a draft invoice.
type AddInvoiceLineRequest struct {
	LineType    domain.InvoiceLineType `json:"lineType" binding:"required,oneof=TIME EXPENSE ADJUSTMENT GENERAL"`
	Description string                 `json:"description" binding:"required"`
	Quantity    decimal.Decimal        `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal        `json:"unitPrice" binding:"required"`
}

// AttachItemsRequest bills selected unbilled time entries and expenses onto a
// draft invoice.
type AttachItemsRequest struct {
	TimeEntryIDs []string `json:"timeEntryIDs"`
	ExpenseIDs   []string `json:"expenseIDs"`
}

// DetachLinesRequest removes lines from a draft invoice, unbilling any linked items.
type DetachLinesRequest struct {
	LineIDs []string `json:"lineIDs" binding:"required,min=1"`
}

// CreatePaymentRequest records money received from a client.
type CreatePaymentRequest struct {
	ClientID string               `json:"clientID" binding:"required"`
	Date     time.Time            `json:"date" binding:"required"`
	Amount   decimal.Decimal      `json:"amount" binding:"required"`
	Method   domain.PaymentMethod `json:"method" binding:"required,oneof=check ach cash card other"`
	Memo     string               `json:"memo"`
}

// PaymentAllocation applies part of a payment against one invoice.
type PaymentAllocation struct {
	InvoiceID string          `json:"invoiceID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// ApplyPaymentRequest allocates a payment across invoices.
type ApplyPaymentRequest struct {
	Allocations []PaymentAllocation `json:"allocations" binding:"required,min=1,dive"`
}

// CreateExpenseRequest records an expense, optionally billable to a client.
type CreateExpenseRequest struct {
	ClientID    *string         `json:"clientID"`
	CategoryID  string          `json:"categoryID" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	Billable    bool            `json:"billable"`
}

// CreateExpenseCategoryRequest adds an expense category, optionally pre-wired to
// its GL account.
type CreateExpenseCategoryRequest struct {
	Name              string  `json:"name" binding:"required"`
	AccountID         *string `json:"accountID"`
	BillableByDefault bool    `json:"billableByDefault"`
}

// CreateTimeEntryRequest records billable hours against a client.
type CreateTimeEntryRequest struct {
	ClientID    string           `json:"clientID" binding:"required"`
	WorkDate    time.Time        `json:"workDate" binding:"required"`
	Hours       decimal.Decimal  `json:"hours" binding:"required"`
	Description string           `json:"description" binding:"required"`
	BillingRate *decimal.Decimal `json:"billingRate"`
}
