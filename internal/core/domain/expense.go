package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillableStatus tracks whether a time entry or expense has been put on an invoice.
type BillableStatus string

const (
	Unbilled   BillableStatus = "UNBILLED"
	Billed     BillableStatus = "BILLED"
	WrittenOff BillableStatus = "WRITTEN_OFF"
)

// ExpenseCategory groups expenses (Lodging, Airfare, Software, ...). AccountID is
// the GL expense account postings settle against; it must be assigned before a
// bank transaction can be matched to an expense in the category.
type ExpenseCategory struct {
	CategoryID        string  `json:"categoryID"` // Primary key (UUID)
	Name              string  `json:"name"`       // Unique
	AccountID         *string `json:"accountID,omitempty"`
	BillableByDefault bool    `json:"billableByDefault"`
}

// Expense may be linked to at most one invoice line (billable) and at most one
// bank transaction. Once matched to a bank transaction its PaymentAccountID is set
// to that transaction's bank account.
type Expense struct {
	ExpenseID   string          `json:"expenseID"`          // Primary key (UUID)
	ClientID    *string         `json:"clientID,omitempty"` // Set only for billable client expenses
	CategoryID  string          `json:"categoryID"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Billable    bool            `json:"billable"`
	Status      BillableStatus  `json:"status"`

	InvoiceLineID    *string `json:"invoiceLineID,omitempty"`
	PaymentAccountID *string `json:"paymentAccountID,omitempty"` // BankAccount the expense settled from
	AuditFields
}

// TimeEntry is billable work recorded against a client.
type TimeEntry struct {
	TimeEntryID string          `json:"timeEntryID"` // Primary key (UUID)
	ClientID    string          `json:"clientID"`
	WorkDate    time.Time       `json:"workDate"`
	Hours       decimal.Decimal `json:"hours"`
	Description string          `json:"description"`
	BillingRate decimal.Decimal `json:"billingRate"` // Copied from the client at entry time
	Status      BillableStatus  `json:"status"`

	InvoiceLineID *string `json:"invoiceLineID,omitempty"`
	AuditFields
}
