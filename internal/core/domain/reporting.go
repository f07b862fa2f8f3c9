package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's debit/credit totals over a posting-date range.
// Balance is debitSum - creditSum; grand totals of the debit and credit columns
// across all rows must be equal.
type TrialBalanceRow struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	DebitSum  decimal.Decimal `json:"debitSum"`
	CreditSum decimal.Decimal `json:"creditSum"`
	Balance   decimal.Decimal `json:"balance"`
}

// IncomeStatementRow displays income balances negated (creditSum - debitSum) so
// revenue reads positive; expense rows stay debitSum - creditSum.
type IncomeStatementRow struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
}

// IncomeStatement for a period.
type IncomeStatement struct {
	Rows         []IncomeStatementRow `json:"rows"`
	RevenueTotal decimal.Decimal      `json:"revenueTotal"`
	ExpenseTotal decimal.Decimal      `json:"expenseTotal"`
	NetIncome    decimal.Decimal      `json:"netIncome"`
}

// ClientBalanceRow summarizes one client's invoiced/applied/unapplied/outstanding
// position. NetAR = outstanding - unapplied.
type ClientBalanceRow struct {
	ClientID      string          `json:"clientID"`
	ClientName    string          `json:"clientName"`
	TotalInvoiced decimal.Decimal `json:"totalInvoiced"`
	Applied       decimal.Decimal `json:"applied"`
	Unapplied     decimal.Decimal `json:"unapplied"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	NetAR         decimal.Decimal `json:"netAR"`
}

// AgedInvoice is one open invoice placed in an AR aging bucket.
type AgedInvoice struct {
	InvoiceID   string          `json:"invoiceID"`
	Number      string          `json:"number"`
	ClientID    string          `json:"clientID"`
	DueDate     time.Time       `json:"dueDate"`
	Outstanding decimal.Decimal `json:"outstanding"`
	DaysPastDue int             `json:"daysPastDue"`
}

// ARAging buckets open invoices by days past due.
type ARAging struct {
	Current    []AgedInvoice `json:"bucket0To30"`
	Days31To60 []AgedInvoice `json:"bucket31To60"`
	Days61To90 []AgedInvoice `json:"bucket61To90"`
	Over90     []AgedInvoice `json:"bucket90Plus"`
}

// RegisterRow is one bank transaction with its running balance, for
// register-style display.
type RegisterRow struct {
	Transaction    BankTransaction `json:"transaction"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// BankRegister is the running-balance view of a bank account over a date range.
// BalanceForward is openingBalance plus all activity strictly before the range.
type BankRegister struct {
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	BalanceForward decimal.Decimal `json:"balanceForward"`
	Rows           []RegisterRow   `json:"rows"`
}
