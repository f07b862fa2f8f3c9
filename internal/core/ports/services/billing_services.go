package services

import (
	"context"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	"github.com/fernbooks/bookkeeping_app/internal/dto"
)

// ClientSvc manages billing counterparties.
type ClientSvc interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest, userID string) (*domain.Client, error)
	GetClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
}

// InvoiceSvc manages the invoice lifecycle: a client has at most one draft at a
// time; drafts accumulate lines, issuing assigns the number and posts to the
// ledger, voiding reverses and releases billed items.
type InvoiceSvc interface {
	CreateDraftInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error)
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	ListInvoicesByClient(ctx context.Context, clientID string) ([]domain.Invoice, error)

	// AddInvoiceLine appends a line to a draft invoice and recomputes totals.
	AddInvoiceLine(ctx context.Context, invoiceID string, req dto.AddInvoiceLineRequest, userID string) (*domain.Invoice, error)

	// AttachItems bills unbilled time entries and expenses onto a draft invoice.
	AttachItems(ctx context.Context, invoiceID string, req dto.AttachItemsRequest, userID string) (*domain.Invoice, error)

	// DetachLines removes draft lines, returning any linked items to unbilled.
	DetachLines(ctx context.Context, invoiceID string, req dto.DetachLinesRequest, userID string) (*domain.Invoice, error)

	// IssueInvoice assigns the next YYYY-NNN number, marks the invoice issued
	// and posts it to the ledger.
	IssueInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// VoidInvoice reverses the ledger posting and releases billed items back
	// to unbilled.
	VoidInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// ReturnInvoiceToDraft reverses the posting but keeps lines in place for editing.
	ReturnInvoiceToDraft(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)
}

// PaymentSvc records client payments and allocates them against invoices.
type PaymentSvc interface {
	// CreatePayment records a payment, fully unapplied, and posts it.
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, userID string) (*domain.Payment, error)

	// ApplyPayment allocates unapplied funds against the client's invoices,
	// reposting the payment and marking invoices paid when settled.
	ApplyPayment(ctx context.Context, paymentID string, req dto.ApplyPaymentRequest, userID string) (*domain.Payment, error)

	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	ListPaymentsByClient(ctx context.Context, clientID string) ([]domain.Payment, error)
}

// WorkItemSvc records billable raw material: time entries and expenses.
type WorkItemSvc interface {
	CreateTimeEntry(ctx context.Context, req dto.CreateTimeEntryRequest, userID string) (*domain.TimeEntry, error)
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, userID string) (*domain.Expense, error)
	CreateExpenseCategory(ctx context.Context, req dto.CreateExpenseCategoryRequest, userID string) (*domain.ExpenseCategory, error)
}

// BillingSvcFacade combines all billing service interfaces.
type BillingSvcFacade interface {
	ClientSvc
	InvoiceSvc
	PaymentSvc
	WorkItemSvc
}
