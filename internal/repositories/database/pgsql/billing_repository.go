package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fernbooks/bookkeeping_app/internal/apperrors"
	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/fernbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxBillingRepository struct {
	db DBTX
}

var _ portsrepo.BillingRepository = (*PgxBillingRepository)(nil)

// --- clients ---

const clientColumns = `client_id, name, email, phone, billing_address, default_hourly_rate, payment_terms_days, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	err := row.Scan(
		&c.ClientID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.BillingAddress,
		&c.DefaultHourlyRate,
		&c.PaymentTermsDays,
		&c.IsActive,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PgxBillingRepository) SaveClient(ctx context.Context, client domain.Client) error {
	query := `
		INSERT INTO clients (client_id, name, email, phone, billing_address, default_hourly_rate, payment_terms_days, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		client.ClientID, client.Name, client.Email, client.Phone, client.BillingAddress,
		client.DefaultHourlyRate, client.PaymentTermsDays, client.IsActive,
		client.CreatedAt, client.CreatedBy, client.LastUpdatedAt, client.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: client %q already exists", apperrors.ErrDuplicate, client.Name)
		}
		return fmt.Errorf("failed to save client %s: %w", client.ClientID, err)
	}
	return nil
}

func (r *PgxBillingRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE client_id = $1;`
	client, err := scanClient(r.db.QueryRow(ctx, query, clientID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find client %s: %w", clientID, err)
	}
	return client, nil
}

func (r *PgxBillingRepository) ListClients(ctx context.Context) ([]domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *client)
	}
	return clients, rows.Err()
}

// --- invoices ---

const invoiceColumns = `invoice_id, client_id, number, issue_date, due_date, status, notes, subtotal, tax_amount, total, created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var i domain.Invoice
	err := row.Scan(
		&i.InvoiceID,
		&i.ClientID,
		&i.Number,
		&i.IssueDate,
		&i.DueDate,
		&i.Status,
		&i.Notes,
		&i.Subtotal,
		&i.TaxAmount,
		&i.Total,
		&i.CreatedAt,
		&i.CreatedBy,
		&i.LastUpdatedAt,
		&i.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (r *PgxBillingRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	query := `
		INSERT INTO invoices (invoice_id, client_id, number, issue_date, due_date, status, notes, subtotal, tax_amount, total, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.db.Exec(ctx, query,
		invoice.InvoiceID, invoice.ClientID, invoice.Number, invoice.IssueDate, invoice.DueDate,
		invoice.Status, invoice.Notes, invoice.Subtotal, invoice.TaxAmount, invoice.Total,
		invoice.CreatedAt, invoice.CreatedBy, invoice.LastUpdatedAt, invoice.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice number %q already exists", apperrors.ErrDuplicate, invoice.Number)
		}
		return fmt.Errorf("failed to save invoice %s: %w", invoice.InvoiceID, err)
	}
	return nil
}

func (r *PgxBillingRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	query := `
		UPDATE invoices
		SET number = $2, issue_date = $3, due_date = $4, status = $5, notes = $6, subtotal = $7, tax_amount = $8, total = $9, last_updated_at = $10, last_updated_by = $11
		WHERE invoice_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		invoice.InvoiceID, invoice.Number, invoice.IssueDate, invoice.DueDate, invoice.Status,
		invoice.Notes, invoice.Subtotal, invoice.TaxAmount, invoice.Total,
		invoice.LastUpdatedAt, invoice.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", invoice.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBillingRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

func (r *PgxBillingRepository) queryInvoices(ctx context.Context, query string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *invoice)
	}
	return invoices, rows.Err()
}

func (r *PgxBillingRepository) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return r.queryInvoices(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY issue_date, number;`)
}

func (r *PgxBillingRepository) ListInvoicesByClient(ctx context.Context, clientID string) ([]domain.Invoice, error) {
	return r.queryInvoices(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE client_id = $1 ORDER BY issue_date, number;`, clientID)
}

func (r *PgxBillingRepository) FindDraftInvoiceForClient(ctx context.Context, clientID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE client_id = $1 AND status = $2 LIMIT 1;`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, clientID, domain.InvoiceDraft))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find draft invoice for client %s: %w", clientID, err)
	}
	return invoice, nil
}

func (r *PgxBillingRepository) LatestInvoiceNumberWithPrefix(ctx context.Context, prefix string) (*string, error) {
	query := `
		SELECT number FROM invoices
		WHERE number LIKE $1 || '%'
		ORDER BY number DESC
		LIMIT 1;
	`
	var number string
	err := r.db.QueryRow(ctx, query, prefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest invoice number with prefix %s: %w", prefix, err)
	}
	return &number, nil
}

// --- invoice lines ---

func (r *PgxBillingRepository) SaveInvoiceLine(ctx context.Context, line domain.InvoiceLine) error {
	query := `
		INSERT INTO invoice_lines (line_id, invoice_id, line_type, description, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query,
		line.LineID, line.InvoiceID, line.LineType, line.Description,
		line.Quantity, line.UnitPrice, line.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("failed to save invoice line %s: %w", line.LineID, err)
	}
	return nil
}

func (r *PgxBillingRepository) DeleteInvoiceLine(ctx context.Context, lineID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoice_lines WHERE line_id = $1;`, lineID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice line %s: %w", lineID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBillingRepository) FindInvoiceLinesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	query := `
		SELECT line_id, invoice_id, line_type, description, quantity, unit_price, line_total
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY line_id;
	`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	var lines []domain.InvoiceLine
	for rows.Next() {
		var l domain.InvoiceLine
		if err := rows.Scan(&l.LineID, &l.InvoiceID, &l.LineType, &l.Description, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// --- payments ---

const paymentColumns = `payment_id, client_id, date, amount, method, memo, unapplied_amount, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.PaymentID,
		&p.ClientID,
		&p.Date,
		&p.Amount,
		&p.Method,
		&p.Memo,
		&p.UnappliedAmount,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PgxBillingRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	query := `
		INSERT INTO payments (payment_id, client_id, date, amount, method, memo, unapplied_amount, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		payment.PaymentID, payment.ClientID, payment.Date, payment.Amount, payment.Method,
		payment.Memo, payment.UnappliedAmount,
		payment.CreatedAt, payment.CreatedBy, payment.LastUpdatedAt, payment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment %s: %w", payment.PaymentID, err)
	}
	return nil
}

func (r *PgxBillingRepository) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	query := `
		UPDATE payments
		SET date = $2, amount = $3, method = $4, memo = $5, unapplied_amount = $6, last_updated_at = $7, last_updated_by = $8
		WHERE payment_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		payment.PaymentID, payment.Date, payment.Amount, payment.Method, payment.Memo,
		payment.UnappliedAmount, payment.LastUpdatedAt, payment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBillingRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	payment, err := scanPayment(r.db.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return payment, nil
}

func (r *PgxBillingRepository) queryPayments(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *payment)
	}
	return payments, rows.Err()
}

func (r *PgxBillingRepository) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return r.queryPayments(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY date, created_at;`)
}

func (r *PgxBillingRepository) ListPaymentsByClient(ctx context.Context, clientID string) ([]domain.Payment, error) {
	return r.queryPayments(ctx, `SELECT `+paymentColumns+` FROM payments WHERE client_id = $1 ORDER BY date, created_at;`, clientID)
}

func (r *PgxBillingRepository) SavePaymentApplication(ctx context.Context, app domain.PaymentApplication) error {
	query := `
		INSERT INTO payment_applications (application_id, payment_id, invoice_id, amount)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.db.Exec(ctx, query, app.ApplicationID, app.PaymentID, app.InvoiceID, app.Amount)
	if err != nil {
		return fmt.Errorf("failed to save payment application %s: %w", app.ApplicationID, err)
	}
	return nil
}

func (r *PgxBillingRepository) FindApplicationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentApplication, error) {
	query := `
		SELECT application_id, payment_id, invoice_id, amount
		FROM payment_applications
		WHERE payment_id = $1
		ORDER BY application_id;
	`
	rows, err := r.db.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications for payment %s: %w", paymentID, err)
	}
	defer rows.Close()

	var apps []domain.PaymentApplication
	for rows.Next() {
		var a domain.PaymentApplication
		if err := rows.Scan(&a.ApplicationID, &a.PaymentID, &a.InvoiceID, &a.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan payment application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *PgxBillingRepository) SumApplicationsForInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payment_applications WHERE invoice_id = $1;`
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, invoiceID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum applications for invoice %s: %w", invoiceID, err)
	}
	return sum, nil
}

// --- expenses ---

const expenseColumns = `expense_id, client_id, category_id, date, amount, description, billable, status, invoice_line_id, payment_account_id, created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	err := row.Scan(
		&e.ExpenseID,
		&e.ClientID,
		&e.CategoryID,
		&e.Date,
		&e.Amount,
		&e.Description,
		&e.Billable,
		&e.Status,
		&e.InvoiceLineID,
		&e.PaymentAccountID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *PgxBillingRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		INSERT INTO expenses (expense_id, client_id, category_id, date, amount, description, billable, status, invoice_line_id, payment_account_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.db.Exec(ctx, query,
		expense.ExpenseID, expense.ClientID, expense.CategoryID, expense.Date, expense.Amount,
		expense.Description, expense.Billable, expense.Status, expense.InvoiceLineID, expense.PaymentAccountID,
		expense.CreatedAt, expense.CreatedBy, expense.LastUpdatedAt, expense.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save expense %s: %w", expense.ExpenseID, err)
	}
	return nil
}

func (r *PgxBillingRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		UPDATE expenses
		SET client_id = $2, category_id = $3, date = $4, amount = $5, description = $6, billable = $7, status = $8, invoice_line_id = $9, payment_account_id = $10, last_updated_at = $11, last_updated_by = $12
		WHERE expense_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		expense.ExpenseID, expense.ClientID, expense.CategoryID, expense.Date, expense.Amount,
		expense.Description, expense.Billable, expense.Status, expense.InvoiceLineID, expense.PaymentAccountID,
		expense.LastUpdatedAt, expense.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", expense.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBillingRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	expense, err := scanExpense(r.db.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	return expense, nil
}

func (r *PgxBillingRepository) FindExpensesByIDs(ctx context.Context, expenseIDs []string) ([]domain.Expense, error) {
	if len(expenseIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = ANY($1);`
	rows, err := r.db.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by IDs: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	return expenses, rows.Err()
}

func (r *PgxBillingRepository) FindExpenseByInvoiceLineID(ctx context.Context, lineID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE invoice_line_id = $1;`
	expense, err := scanExpense(r.db.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find expense for invoice line %s: %w", lineID, err)
	}
	return expense, nil
}

func (r *PgxBillingRepository) SaveExpenseCategory(ctx context.Context, category domain.ExpenseCategory) error {
	query := `
		INSERT INTO expense_categories (category_id, name, account_id, billable_by_default)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.db.Exec(ctx, query, category.CategoryID, category.Name, category.AccountID, category.BillableByDefault)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: expense category %q already exists", apperrors.ErrDuplicate, category.Name)
		}
		return fmt.Errorf("failed to save expense category %s: %w", category.CategoryID, err)
	}
	return nil
}

func (r *PgxBillingRepository) FindExpenseCategoryByID(ctx context.Context, categoryID string) (*domain.ExpenseCategory, error) {
	query := `SELECT category_id, name, account_id, billable_by_default FROM expense_categories WHERE category_id = $1;`
	var c domain.ExpenseCategory
	err := r.db.QueryRow(ctx, query, categoryID).Scan(&c.CategoryID, &c.Name, &c.AccountID, &c.BillableByDefault)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense category %s: %w", categoryID, err)
	}
	return &c, nil
}

// --- time entries ---

const timeEntryColumns = `time_entry_id, client_id, work_date, hours, description, billing_rate, status, invoice_line_id, created_at, created_by, last_updated_at, last_updated_by`

func scanTimeEntry(row pgx.Row) (*domain.TimeEntry, error) {
	var t domain.TimeEntry
	err := row.Scan(
		&t.TimeEntryID,
		&t.ClientID,
		&t.WorkDate,
		&t.Hours,
		&t.Description,
		&t.BillingRate,
		&t.Status,
		&t.InvoiceLineID,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PgxBillingRepository) SaveTimeEntry(ctx context.Context, entry domain.TimeEntry) error {
	query := `
		INSERT INTO time_entries (time_entry_id, client_id, work_date, hours, description, billing_rate, status, invoice_line_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		entry.TimeEntryID, entry.ClientID, entry.WorkDate, entry.Hours, entry.Description,
		entry.BillingRate, entry.Status, entry.InvoiceLineID,
		entry.CreatedAt, entry.CreatedBy, entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save time entry %s: %w", entry.TimeEntryID, err)
	}
	return nil
}

func (r *PgxBillingRepository) UpdateTimeEntry(ctx context.Context, entry domain.TimeEntry) error {
	query := `
		UPDATE time_entries
		SET work_date = $2, hours = $3, description = $4, billing_rate = $5, status = $6, invoice_line_id = $7, last_updated_at = $8, last_updated_by = $9
		WHERE time_entry_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		entry.TimeEntryID, entry.WorkDate, entry.Hours, entry.Description, entry.BillingRate,
		entry.Status, entry.InvoiceLineID, entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update time entry %s: %w", entry.TimeEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBillingRepository) FindTimeEntriesByIDs(ctx context.Context, timeEntryIDs []string) ([]domain.TimeEntry, error) {
	if len(timeEntryIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE time_entry_id = ANY($1);`
	rows, err := r.db.Query(ctx, query, timeEntryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries by IDs: %w", err)
	}
	defer rows.Close()

	var entries []domain.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (r *PgxBillingRepository) FindTimeEntryByInvoiceLineID(ctx context.Context, lineID string) (*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE invoice_line_id = $1;`
	entry, err := scanTimeEntry(r.db.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find time entry for invoice line %s: %w", lineID, err)
	}
	return entry, nil
}
