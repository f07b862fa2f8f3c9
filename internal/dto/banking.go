package dto

import (
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest adds one chart-of-accounts entry.
type CreateAccountRequest struct {
	Code string             `json:"code" binding:"required"`
	Name string             `json:"name" binding:"required"`
	Type domain.AccountType `json:"type" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
}

// CreateBankAccountRequest creates the bank account, its GL account and the
// opening-balance entry in one shot.
type CreateBankAccountRequest struct {
	Type           domain.BankAccountType `json:"type" binding:"required,oneof=CHECKING SAVINGS CREDIT_CARD CASH"`
	Institution    string                 `json:"institution" binding:"required"`
	MaskedNumber   string                 `json:"maskedNumber" binding:"required"`
	OpeningBalance decimal.Decimal        `json:"openingBalance"`
}

// PostBankTransactionRequest records one manual bank transaction. Amount is
// signed: positive deposits, negative withdrawals.
type PostBankTransactionRequest struct {
	Date            time.Time       `json:"date" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	OffsetAccountID string          `json:"offsetAccountID" binding:"required"`
}

// RetagTransactionRequest recategorizes a posted transaction.
type RetagTransactionRequest struct {
	OffsetAccountID string `json:"offsetAccountID" binding:"required"`
}

// LinkExpenseRequest links a transaction to an existing expense, or creates a
// fresh one in the given category when ExpenseID is empty.
type LinkExpenseRequest struct {
	ExpenseID  string `json:"expenseID"`
	CategoryID string `json:"categoryID"`
}

// MatchTransferRequest pairs the transaction with its counterpart on another account.
type MatchTransferRequest struct {
	TargetTransactionID string `json:"targetTransactionID" binding:"required"`
}

// LinkPaymentRequest links a transaction to a pre-existing client payment.
type LinkPaymentRequest struct {
	PaymentID string `json:"paymentID" binding:"required"`
}

// UpsertImportProfileRequest configures CSV import for a bank account.
type UpsertImportProfileRequest struct {
	DateColumn              int             `json:"dateColumn" binding:"min=0"`
	DescriptionColumn       int             `json:"descriptionColumn" binding:"min=0"`
	AmountColumn            int             `json:"amountColumn" binding:"min=0"`
	DateFormat              string          `json:"dateFormat" binding:"required"`
	SignRule                domain.SignRule `json:"signRule" binding:"omitempty,oneof=BANK_STANDARD CC_CHARGES_POSITIVE CC_CHARGES_NEGATIVE"`
	SkipDescriptionContains string          `json:"skipDescriptionContains"`
}

// ImportResult reports how many statement rows were accepted.
type ImportResult struct {
	Imported int `json:"imported"`
}
