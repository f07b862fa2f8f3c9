package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/apperrors"
	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/fernbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/fernbooks/bookkeeping_app/internal/dto"
	"github.com/fernbooks/bookkeeping_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingService manages clients, the invoice lifecycle, payments and the
// billable items (time, expenses) they draw from. Ledger effects go through the
// posting helpers so billing and accounting stay in one transaction.
type BillingService struct {
	uow portsrepo.UnitOfWork
}

func NewBillingService(uow portsrepo.UnitOfWork) *BillingService {
	return &BillingService{uow: uow}
}

func (s *BillingService) CreateClient(ctx context.Context, req dto.CreateClientRequest, userID string) (*domain.Client, error) {
	client := domain.Client{
		ClientID:          uuid.NewString(),
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		BillingAddress:    req.BillingAddress,
		DefaultHourlyRate: req.DefaultHourlyRate,
		PaymentTermsDays:  req.PaymentTermsDays,
		IsActive:          true,
		AuditFields:       domain.NewAuditFields(userID, time.Now()),
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		return r.Billing.SaveClient(ctx, client)
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *BillingService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	return s.uow.Repos().Billing.FindClientByID(ctx, clientID)
}

func (s *BillingService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.uow.Repos().Billing.ListClients(ctx)
}

func (s *BillingService) CreateDraftInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	var created *domain.Invoice
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		client, err := r.Billing.FindClientByID(ctx, req.ClientID)
		if err != nil {
			return err
		}

		if _, err := r.Billing.FindDraftInvoiceForClient(ctx, req.ClientID); err == nil {
			return apperrors.NewAppError(http.StatusConflict,
				"client already has a draft invoice", apperrors.ErrDuplicate)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		dueDate := req.IssueDate.AddDate(0, 0, client.PaymentTermsDays)
		if req.DueDate != nil {
			dueDate = *req.DueDate
		}

		invoice := domain.Invoice{
			InvoiceID:   uuid.NewString(),
			ClientID:    req.ClientID,
			IssueDate:   req.IssueDate,
			DueDate:     dueDate,
			Status:      domain.InvoiceDraft,
			Notes:       req.Notes,
			Subtotal:    decimal.Zero,
			TaxAmount:   decimal.Zero,
			Total:       decimal.Zero,
			AuditFields: domain.NewAuditFields(userID, time.Now()),
		}
		if err := r.Billing.SaveInvoice(ctx, invoice); err != nil {
			return err
		}
		created = &invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *BillingService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	r := s.uow.Repos()
	invoice, err := r.Billing.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	lines, err := r.Billing.FindInvoiceLinesByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	invoice.Lines = lines
	return invoice, nil
}

func (s *BillingService) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.uow.Repos().Billing.ListInvoices(ctx)
}

func (s *BillingService) ListInvoicesByClient(ctx context.Context, clientID string) ([]domain.Invoice, error) {
	return s.uow.Repos().Billing.ListInvoicesByClient(ctx, clientID)
}

func requireDraft(invoice *domain.Invoice) error {
	if invoice.Status != domain.InvoiceDraft {
		return apperrors.NewAppError(http.StatusConflict,
			fmt.Sprintf("invoice %s is %s, only drafts can be edited", invoice.Number, invoice.Status),
			apperrors.ErrConflict)
	}
	return nil
}

// recomputeInvoiceTotals reloads the lines and rewrites the cached aggregates.
// Tax is not levied on services in this jurisdiction, so taxAmount stays zero.
func recomputeInvoiceTotals(ctx context.Context, r portsrepo.Repositories, invoice *domain.Invoice) error {
	lines, err := r.Billing.FindInvoiceLinesByInvoiceID(ctx, invoice.InvoiceID)
	if err != nil {
		return err
	}
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal)
	}
	invoice.Subtotal = subtotal
	invoice.TaxAmount = decimal.Zero
	invoice.Total = subtotal.Add(invoice.TaxAmount)
	invoice.Lines = lines
	return r.Billing.UpdateInvoice(ctx, *invoice)
}

func (s *BillingService) AddInvoiceLine(ctx context.Context, invoiceID string, req dto.AddInvoiceLineRequest, userID string) (*domain.Invoice, error) {
	var updated *domain.Invoice
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		invoice, err := r.Billing.FindInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := requireDraft(invoice); err != nil {
			return err
		}

		line := domain.InvoiceLine{
			LineID:      uuid.NewString(),
			InvoiceID:   invoiceID,
			LineType:    req.LineType,
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
			LineTotal:   req.Quantity.Mul(req.UnitPrice),
		}
		if err := r.Billing.SaveInvoiceLine(ctx, line); err != nil {
			return err
		}
		if err := recomputeInvoiceTotals(ctx, r, invoice); err != nil {
			return err
		}
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *BillingService) AttachItems(ctx context.Context, invoiceID string, req dto.AttachItemsRequest, userID string) (*domain.Invoice, error) {
	var updated *domain.Invoice
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		invoice, err := r.Billing.FindInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := requireDraft(invoice); err != nil {
			return err
		}

		timeEntries, err := r.Billing.FindTimeEntriesByIDs(ctx, req.TimeEntryIDs)
		if err != nil {
			return err
		}
		for _, te := range timeEntries {
			if te.Status != domain.Unbilled {
				return apperrors.NewAppError(http.StatusConflict,
					fmt.Sprintf("time entry %s is already billed", te.TimeEntryID), apperrors.ErrConflict)
			}
			if te.ClientID != invoice.ClientID {
				return apperrors.NewAppError(http.StatusConflict,
					"time entry belongs to a different client", apperrors.ErrConflict)
			}

			line := domain.InvoiceLine{
				LineID:      uuid.NewString(),
				InvoiceID:   invoiceID,
				LineType:    domain.LineTime,
				Description: fmt.Sprintf("%s %s", te.WorkDate.Format("2006-01-02"), te.Description),
				Quantity:    te.Hours,
				UnitPrice:   te.BillingRate,
				LineTotal:   te.Hours.Mul(te.BillingRate),
			}
			if err := r.Billing.SaveInvoiceLine(ctx, line); err != nil {
				return err
			}

			te.InvoiceLineID = &line.LineID
			te.Status = domain.Billed
			if err := r.Billing.UpdateTimeEntry(ctx, te); err != nil {
				return err
			}
		}

		expenses, err := r.Billing.FindExpensesByIDs(ctx, req.ExpenseIDs)
		if err != nil {
			return err
		}
		for _, ex := range expenses {
			if ex.Status != domain.Unbilled {
				return apperrors.NewAppError(http.StatusConflict,
					fmt.Sprintf("expense %s is already billed", ex.ExpenseID), apperrors.ErrConflict)
			}
			if !ex.Billable || ex.ClientID == nil || *ex.ClientID != invoice.ClientID {
				return apperrors.NewAppError(http.StatusConflict,
					"expense is not billable to this client", apperrors.ErrConflict)
			}

			line := domain.InvoiceLine{
				LineID:      uuid.NewString(),
				InvoiceID:   invoiceID,
				LineType:    domain.LineExpense,
				Description: fmt.Sprintf("%s %s", ex.Date.Format("2006-01-02"), ex.Description),
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   ex.Amount,
				LineTotal:   ex.Amount,
			}
			if err := r.Billing.SaveInvoiceLine(ctx, line); err != nil {
				return err
			}

			ex.InvoiceLineID = &line.LineID
			ex.Status = domain.Billed
			if err := r.Billing.UpdateExpense(ctx, ex); err != nil {
				return err
			}
		}

		if err := recomputeInvoiceTotals(ctx, r, invoice); err != nil {
			return err
		}
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// unbillLineItem returns whatever the line billed to the unbilled pool. When
// keepLink is true the item keeps pointing at its line (issued -> draft path).
func unbillLineItem(ctx context.Context, r portsrepo.Repositories, lineID string, keepLink bool) error {
	te, err := r.Billing.FindTimeEntryByInvoiceLineID(ctx, lineID)
	if err == nil {
		te.Status = domain.Unbilled
		if !keepLink {
			te.InvoiceLineID = nil
		}
		return r.Billing.UpdateTimeEntry(ctx, *te)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	ex, err := r.Billing.FindExpenseByInvoiceLineID(ctx, lineID)
	if err == nil {
		ex.Status = domain.Unbilled
		if !keepLink {
			ex.InvoiceLineID = nil
		}
		return r.Billing.UpdateExpense(ctx, *ex)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return nil
}

func (s *BillingService) DetachLines(ctx context.Context, invoiceID string, req dto.DetachLinesRequest, userID string) (*domain.Invoice, error) {
	var updated *domain.Invoice
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		invoice, err := r.Billing.FindInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := requireDraft(invoice); err != nil {
			return err
		}

		lines, err := r.Billing.FindInvoiceLinesByInvoiceID(ctx, invoiceID)
		if err != nil {
			return err
		}
		owned := make(map[string]bool, len(lines))
		for _, line := range lines {
			owned[line.LineID] = true
		}

		for _, lineID := range req.LineIDs {
			if !owned[lineID] {
				return apperrors.NewAppError(http.StatusBadRequest,
					"line does not belong to this invoice", apperrors.ErrValidation)
			}
			// Unlink first, then delete the line.
			if err := unbillLineItem(ctx, r, lineID, false); err != nil {
				return err
			}
			if err := r.Billing.DeleteInvoiceLine(ctx, lineID); err != nil {
				return err
			}
		}

		if err := recomputeInvoiceTotals(ctx, r, invoice); err != nil {
			return err
		}
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// nextInvoiceNumber allocates YYYY-NNN numbers per issue year. A malformed
// latest number restarts the year's sequence at 001.
func nextInvoiceNumber(ctx context.Context, r portsrepo.Repositories, year int) (string, error) {
	prefix := strconv.Itoa(year)
	latest, err := r.Billing.LatestInvoiceNumberWithPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	if latest == nil {
		return fmt.Sprintf("%d-001", year), nil
	}
	_, suffix, found := strings.Cut(*latest, "-")
	if !found {
		return fmt.Sprintf("%d-001", year), nil
	}
	seq, err := strconv.Atoi(suffix)
	if err != nil {
		return fmt.Sprintf("%d-001", year), nil
	}
	return fmt.Sprintf("%d-%03d", year, seq+1), nil
}

func (s *BillingService) IssueInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var issued *domain.Invoice
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		invoice, err := r.Billing.FindInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := requireDraft(invoice); err != nil {
			return err
		}
		if err := recomputeInvoiceTotals(ctx, r, invoice); err != nil {
			return err
		}
		if len(invoice.Lines) == 0 {
			return apperrors.NewAppError(http.StatusBadRequest,
				"cannot issue an invoice with no lines", apperrors.ErrValidation)
		}

		number, err := nextInvoiceNumber(ctx, r, invoice.IssueDate.Year())
		if err != nil {
			return err
		}

		invoice.Number = number
		invoice.Status = domain.InvoiceIssued
		invoice.LastUpdatedAt = time.Now()
		invoice.LastUpdatedBy = userID
		if err := r.Billing.UpdateInvoice(ctx, *invoice); err != nil {
			return err
		}

		if _, err := postInvoiceEntry(ctx, r, invoice, userID); err != nil {
			return err
		}
		issued = invoice
		return nil
	})
	if err != nil {
		logger.Error("Failed to issue invoice", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Invoice issued",
		slog.String("invoice_id", invoiceID), slog.String("number", issued.Number))
	return issued, nil
}

func (s *BillingService) VoidInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var voided *domain.Invoice
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		invoice, err := r.Billing.FindInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status != domain.InvoiceDraft && invoice.Status != domain.InvoiceIssued {
			return apperrors.NewAppError(http.StatusConflict,
				fmt.Sprintf("invoice %s is %s and cannot be voided", invoice.Number, invoice.Status),
				apperrors.ErrConflict)
		}

		if _, err := reverseInvoiceEntry(ctx, r, invoice, userID); err != nil {
			return err
		}

		// Items go back to the unbilled pool; the lines stay as history.
		lines, err := r.Billing.FindInvoiceLinesByInvoiceID(ctx, invoiceID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := unbillLineItem(ctx, r, line.LineID, false); err != nil {
				return err
			}
		}

		invoice.Status = domain.InvoiceVoid
		invoice.LastUpdatedAt = time.Now()
		invoice.LastUpdatedBy = userID
		if err := r.Billing.UpdateInvoice(ctx, *invoice); err != nil {
			return err
		}
		voided = invoice
		return nil
	})
	if err != nil {
		logger.Error("Failed to void invoice", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Invoice voided", slog.String("invoice_id", invoiceID))
	return voided, nil
}

func (s *BillingService) ReturnInvoiceToDraft(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var reopened *domain.Invoice
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		invoice, err := r.Billing.FindInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status != domain.InvoiceIssued {
			return apperrors.NewAppError(http.StatusConflict,
				"only issued invoices can return to draft", apperrors.ErrConflict)
		}

		if _, err := reverseInvoiceEntry(ctx, r, invoice, userID); err != nil {
			return err
		}

		// Items return to unbilled but keep pointing at their lines, so
		// re-issuing does not duplicate them.
		lines, err := r.Billing.FindInvoiceLinesByInvoiceID(ctx, invoiceID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := unbillLineItem(ctx, r, line.LineID, true); err != nil {
				return err
			}
		}

		invoice.Status = domain.InvoiceDraft
		invoice.LastUpdatedAt = time.Now()
		invoice.LastUpdatedBy = userID
		if err := r.Billing.UpdateInvoice(ctx, *invoice); err != nil {
			return err
		}
		reopened = invoice
		return nil
	})
	if err != nil {
		logger.Error("Failed to return invoice to draft", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Invoice returned to draft", slog.String("invoice_id", invoiceID))
	return reopened, nil
}

func (s *BillingService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, userID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var created *domain.Payment
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		if !req.Amount.IsPositive() {
			return apperrors.NewAppError(http.StatusBadRequest,
				"payment amount must be positive", apperrors.ErrValidation)
		}
		if _, err := r.Billing.FindClientByID(ctx, req.ClientID); err != nil {
			return err
		}

		payment := domain.Payment{
			PaymentID:       uuid.NewString(),
			ClientID:        req.ClientID,
			Date:            req.Date,
			Amount:          req.Amount,
			Method:          req.Method,
			Memo:            req.Memo,
			UnappliedAmount: req.Amount,
			AuditFields:     domain.NewAuditFields(userID, time.Now()),
		}
		if err := r.Billing.SavePayment(ctx, payment); err != nil {
			return err
		}
		if _, err := postPaymentEntry(ctx, r, &payment, userID); err != nil {
			return err
		}
		created = &payment
		return nil
	})
	if err != nil {
		logger.Error("Failed to create payment", slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Payment created", slog.String("payment_id", created.PaymentID))
	return created, nil
}

// ApplyPayment allocates unapplied funds against invoices and keeps the
// invariant sum(applications) + unapplied == amount inside the engine rather
// than trusting callers. The payment's entry is rebuilt to reflect the split.
func (s *BillingService) ApplyPayment(ctx context.Context, paymentID string, req dto.ApplyPaymentRequest, userID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var updated *domain.Payment
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		payment, err := r.Billing.FindPaymentByID(ctx, paymentID)
		if err != nil {
			return err
		}

		allocationTotal := decimal.Zero
		for _, alloc := range req.Allocations {
			allocationTotal = allocationTotal.Add(alloc.Amount)
		}
		if !allocationTotal.IsPositive() {
			return apperrors.NewAppError(http.StatusBadRequest,
				"allocation total must be positive", apperrors.ErrValidation)
		}
		if allocationTotal.GreaterThan(payment.UnappliedAmount) {
			return apperrors.NewAppError(http.StatusBadRequest,
				fmt.Sprintf("allocation total %s exceeds unapplied amount %s",
					allocationTotal.StringFixed(2), payment.UnappliedAmount.StringFixed(2)),
				apperrors.ErrValidation)
		}

		for _, alloc := range req.Allocations {
			if !alloc.Amount.IsPositive() {
				return apperrors.NewAppError(http.StatusBadRequest,
					"allocation amounts must be positive", apperrors.ErrValidation)
			}

			invoice, err := r.Billing.FindInvoiceByID(ctx, alloc.InvoiceID)
			if err != nil {
				return err
			}
			if invoice.ClientID != payment.ClientID {
				return apperrors.NewAppError(http.StatusConflict,
					"invoice belongs to a different client", apperrors.ErrConflict)
			}
			if invoice.Status != domain.InvoiceIssued {
				return apperrors.NewAppError(http.StatusConflict,
					fmt.Sprintf("invoice %s is %s, payments apply to issued invoices only",
						invoice.Number, invoice.Status),
					apperrors.ErrConflict)
			}

			applied, err := r.Billing.SumApplicationsForInvoice(ctx, alloc.InvoiceID)
			if err != nil {
				return err
			}
			outstanding := invoice.OutstandingBalance(applied)
			if alloc.Amount.GreaterThan(outstanding) {
				return apperrors.NewAppError(http.StatusBadRequest,
					fmt.Sprintf("allocation %s exceeds outstanding balance %s on invoice %s",
						alloc.Amount.StringFixed(2), outstanding.StringFixed(2), invoice.Number),
					apperrors.ErrValidation)
			}

			app := domain.PaymentApplication{
				ApplicationID: uuid.NewString(),
				PaymentID:     paymentID,
				InvoiceID:     alloc.InvoiceID,
				Amount:        alloc.Amount,
			}
			if err := r.Billing.SavePaymentApplication(ctx, app); err != nil {
				return err
			}

			if outstanding.Sub(alloc.Amount).LessThanOrEqual(decimal.Zero) {
				invoice.Status = domain.InvoicePaid
				invoice.LastUpdatedAt = time.Now()
				invoice.LastUpdatedBy = userID
				if err := r.Billing.UpdateInvoice(ctx, *invoice); err != nil {
					return err
				}
			}
		}

		payment.UnappliedAmount = payment.UnappliedAmount.Sub(allocationTotal)
		payment.LastUpdatedAt = time.Now()
		payment.LastUpdatedBy = userID
		if err := r.Billing.UpdatePayment(ctx, *payment); err != nil {
			return err
		}

		// Rebuild the payment's entry so the applied/unapplied split on the
		// ledger matches the allocations. The entry id stays stable so a bank
		// transaction linked to the payment keeps its journal reference.
		if _, err := repostPaymentEntry(ctx, r, payment, userID); err != nil {
			return err
		}

		applications, err := r.Billing.FindApplicationsByPaymentID(ctx, paymentID)
		if err != nil {
			return err
		}
		payment.Applications = applications
		updated = payment
		return nil
	})
	if err != nil {
		logger.Error("Failed to apply payment", slog.String("payment_id", paymentID), slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Payment applied",
		slog.String("payment_id", paymentID),
		slog.String("unapplied_remaining", updated.UnappliedAmount.StringFixed(2)))
	return updated, nil
}

func (s *BillingService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	r := s.uow.Repos()
	payment, err := r.Billing.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	applications, err := r.Billing.FindApplicationsByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	payment.Applications = applications
	return payment, nil
}

func (s *BillingService) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.uow.Repos().Billing.ListPayments(ctx)
}

func (s *BillingService) ListPaymentsByClient(ctx context.Context, clientID string) ([]domain.Payment, error) {
	return s.uow.Repos().Billing.ListPaymentsByClient(ctx, clientID)
}

func (s *BillingService) CreateTimeEntry(ctx context.Context, req dto.CreateTimeEntryRequest, userID string) (*domain.TimeEntry, error) {
	var created *domain.TimeEntry
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		client, err := r.Billing.FindClientByID(ctx, req.ClientID)
		if err != nil {
			return err
		}

		rate := req.BillingRate
		if rate == nil {
			rate = client.DefaultHourlyRate
		}
		if rate == nil {
			return apperrors.NewAppError(http.StatusBadRequest,
				"no billing rate given and client has no default rate", apperrors.ErrValidation)
		}

		entry := domain.TimeEntry{
			TimeEntryID: uuid.NewString(),
			ClientID:    req.ClientID,
			WorkDate:    req.WorkDate,
			Hours:       req.Hours,
			Description: req.Description,
			BillingRate: *rate,
			Status:      domain.Unbilled,
			AuditFields: domain.NewAuditFields(userID, time.Now()),
		}
		if err := r.Billing.SaveTimeEntry(ctx, entry); err != nil {
			return err
		}
		created = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *BillingService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, userID string) (*domain.Expense, error) {
	var created *domain.Expense
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		if _, err := r.Billing.FindExpenseCategoryByID(ctx, req.CategoryID); err != nil {
			return err
		}
		if req.ClientID != nil {
			if _, err := r.Billing.FindClientByID(ctx, *req.ClientID); err != nil {
				return err
			}
		}
		if req.Billable && req.ClientID == nil {
			return apperrors.NewAppError(http.StatusBadRequest,
				"billable expenses require a client", apperrors.ErrValidation)
		}

		expense := domain.Expense{
			ExpenseID:   uuid.NewString(),
			ClientID:    req.ClientID,
			CategoryID:  req.CategoryID,
			Date:        req.Date,
			Amount:      req.Amount,
			Description: req.Description,
			Billable:    req.Billable,
			Status:      domain.Unbilled,
			AuditFields: domain.NewAuditFields(userID, time.Now()),
		}
		if err := r.Billing.SaveExpense(ctx, expense); err != nil {
			return err
		}
		created = &expense
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *BillingService) CreateExpenseCategory(ctx context.Context, req dto.CreateExpenseCategoryRequest, userID string) (*domain.ExpenseCategory, error) {
	var created *domain.ExpenseCategory
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		if req.AccountID != nil {
			if _, err := r.Accounts.FindAccountByID(ctx, *req.AccountID); err != nil {
				return err
			}
		}
		category := domain.ExpenseCategory{
			CategoryID:        uuid.NewString(),
			Name:              req.Name,
			AccountID:         req.AccountID,
			BillableByDefault: req.BillableByDefault,
		}
		if err := r.Billing.SaveExpenseCategory(ctx, category); err != nil {
			return err
		}
		created = &category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
