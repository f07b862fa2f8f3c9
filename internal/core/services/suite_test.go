package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	"github.com/fernbooks/bookkeeping_app/internal/repositories/database/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testUserID = "8a9c2c54-1af1-4e0a-9a8b-0f6f2b3c4d5e"

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// seedChartOfAccounts inserts the accounts the posting engine requires, keyed by code.
func seedChartOfAccounts(t *testing.T, uow *memory.UnitOfWork) map[string]domain.Account {
	t.Helper()
	ctx := context.Background()

	specs := []struct {
		code string
		name string
		typ  domain.AccountType
	}{
		{domain.CodeCash, "Cash", domain.AccountTypeAsset},
		{domain.CodeAccountsReceivable, "Accounts Receivable", domain.AccountTypeAsset},
		{domain.CodeARApplied, "AR - Applied", domain.AccountTypeAsset},
		{domain.CodeUnappliedPayments, "Unapplied Client Payments", domain.AccountTypeLiability},
		{domain.CodeOwnerEquity, "Owner Equity", domain.AccountTypeEquity},
		{domain.CodeConsultingRevenue, "Consulting Revenue", domain.AccountTypeIncome},
	}

	accounts := make(map[string]domain.Account, len(specs))
	for _, spec := range specs {
		account := domain.Account{
			AccountID:   uuid.NewString(),
			Code:        spec.code,
			Name:        spec.name,
			AccountType: spec.typ,
			IsActive:    true,
			AuditFields: domain.NewAuditFields(testUserID, time.Now()),
		}
		require.NoError(t, uow.Repos().Accounts.SaveAccount(ctx, account))
		accounts[spec.code] = account
	}
	return accounts
}

func saveClient(t *testing.T, uow *memory.UnitOfWork, name string) domain.Client {
	t.Helper()
	client := domain.Client{
		ClientID:         uuid.NewString(),
		Name:             name,
		PaymentTermsDays: 30,
		IsActive:         true,
		AuditFields:      domain.NewAuditFields(testUserID, time.Now()),
	}
	require.NoError(t, uow.Repos().Billing.SaveClient(context.Background(), client))
	return client
}

func saveIssuedInvoice(t *testing.T, uow *memory.UnitOfWork, clientID, number string, total decimal.Decimal, issueDate time.Time) domain.Invoice {
	t.Helper()
	invoice := domain.Invoice{
		InvoiceID:   uuid.NewString(),
		ClientID:    clientID,
		Number:      number,
		IssueDate:   issueDate,
		DueDate:     issueDate.AddDate(0, 0, 30),
		Status:      domain.InvoiceIssued,
		Subtotal:    total,
		TaxAmount:   decimal.Zero,
		Total:       total,
		AuditFields: domain.NewAuditFields(testUserID, time.Now()),
	}
	require.NoError(t, uow.Repos().Billing.SaveInvoice(context.Background(), invoice))
	return invoice
}

func savePayment(t *testing.T, uow *memory.UnitOfWork, clientID string, amount decimal.Decimal, date time.Time) domain.Payment {
	t.Helper()
	payment := domain.Payment{
		PaymentID:       uuid.NewString(),
		ClientID:        clientID,
		Date:            date,
		Amount:          amount,
		Method:          domain.MethodACH,
		UnappliedAmount: amount,
		AuditFields:     domain.NewAuditFields(testUserID, time.Now()),
	}
	require.NoError(t, uow.Repos().Billing.SavePayment(context.Background(), payment))
	return payment
}

// lineFor finds the single line hitting accountID and fails the test if it is absent.
func lineFor(t *testing.T, lines []domain.JournalLine, accountID string) domain.JournalLine {
	t.Helper()
	for _, line := range lines {
		if line.AccountID == accountID {
			return line
		}
	}
	require.Failf(t, "missing journal line", "no line posted against account %s", accountID)
	return domain.JournalLine{}
}
