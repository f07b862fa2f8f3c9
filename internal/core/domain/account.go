package domain

// AccountType defines the fundamental accounting type of a chart-of-accounts entry.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Well-known chart-of-accounts codes. The code encodes the type range
// ("1000"-"1999" assets, "2000"-"2999" liabilities, and so on).
const (
	CodeCash               = "1000"
	CodeAccountsReceivable = "1100"
	CodeARApplied          = "1200"
	CodeUnappliedPayments  = "2200"
	CodeOwnerEquity        = "3000"
	CodeConsultingRevenue  = "4000"

	// Bank accounts get auto-allocated codes in this reserved sub-range.
	BankAccountCodeFloor = "1110"
	BankAccountCodeCeil  = "1199"
)

// Account is one chart-of-accounts entry. Accounts are never hard-deleted once a
// journal line references them; deactivate instead.
type Account struct {
	AccountID   string      `json:"accountID"` // Primary key (UUID)
	Code        string      `json:"code"`      // Unique, sortable
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	IsActive    bool        `json:"isActive"`
	AuditFields
}
