package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccountType is the real-world flavor of a bank account.
type BankAccountType string

const (
	Checking   BankAccountType = "CHECKING"
	Savings    BankAccountType = "SAVINGS"
	CreditCard BankAccountType = "CREDIT_CARD"
	Cash       BankAccountType = "CASH"
)

// BankAccount wraps exactly one GL account (Asset, or Liability for credit cards).
// OpeningBalance is the single persisted value not derivable from the ledger: the
// balance at system inception, fixed at creation time. The current balance is
// always openingBalance + sum of transaction amounts, never a stored field.
type BankAccount struct {
	BankAccountID  string          `json:"bankAccountID"` // Primary key (UUID)
	AccountID      string          `json:"accountID"`     // FK -> Account, one-to-one, restrict-delete
	Type           BankAccountType `json:"type"`
	Institution    string          `json:"institution"`
	MaskedNumber   string          `json:"maskedNumber"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// DisplayName mirrors how the account is labelled on statements and entries.
func (b BankAccount) DisplayName() string {
	return b.Institution + " (" + b.MaskedNumber + ")"
}

// BankTransaction is a deposit, withdrawal or charge against a BankAccount.
// Amount is signed: positive = funds in, negative = funds out (the canonical
// internal convention). Its journal entry is replaced whenever the transaction
// is retagged, matched to an expense, or matched as a transfer.
type BankTransaction struct {
	TransactionID string          `json:"transactionID"` // Primary key (UUID)
	BankAccountID string          `json:"bankAccountID"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`

	// JournalEntryID is a plain reference, not owned: transfers share one entry
	// between two transactions.
	JournalEntryID  *string `json:"journalEntryID,omitempty"`
	OffsetAccountID *string `json:"offsetAccountID,omitempty"`
	PaymentID       *string `json:"paymentID,omitempty"`
	ExpenseID       *string `json:"expenseID,omitempty"`
	TransferPairID  *string `json:"transferPairID,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// IsMatched reports whether the transaction is linked to a payment, expense, or
// transfer counterpart.
func (t BankTransaction) IsMatched() bool {
	return t.PaymentID != nil || t.ExpenseID != nil || t.TransferPairID != nil
}

// SignRule maps a bank's CSV sign convention onto the internal one.
type SignRule string

const (
	// SignBankStandard: CSV already matches internal convention (+ deposit, - withdrawal).
	SignBankStandard SignRule = "BANK_STANDARD"
	// SignCCChargesPositive: CSV shows + for a charge, - for a payment (Amex style).
	SignCCChargesPositive SignRule = "CC_CHARGES_POSITIVE"
	// SignCCChargesNegative: CSV shows - for a charge, + for a payment (Chase style).
	SignCCChargesNegative SignRule = "CC_CHARGES_NEGATIVE"
)

// BankImportProfile tells the importer how to read one bank's CSV statements.
type BankImportProfile struct {
	ProfileID     string `json:"profileID"`
	BankAccountID string `json:"bankAccountID"` // One profile per bank account

	// Zero-based column positions.
	DateColumn        int `json:"dateColumn"`
	DescriptionColumn int `json:"descriptionColumn"`
	AmountColumn      int `json:"amountColumn"`

	// Go reference-time layout, e.g. "01/02/2006".
	DateFormat string   `json:"dateFormat"`
	SignRule   SignRule `json:"signRule"`

	// If set, rows whose description contains this phrase (case-insensitive) are skipped.
	SkipDescriptionContains string `json:"skipDescriptionContains"`
}
