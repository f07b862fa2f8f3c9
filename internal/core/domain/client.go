package domain

import "github.com/shopspring/decimal"

// Client is a billing counterparty.
type Client struct {
	ClientID       string `json:"clientID"` // Primary key (UUID)
	Name           string `json:"name"`     // Unique
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	BillingAddress string `json:"billingAddress"`

	DefaultHourlyRate *decimal.Decimal `json:"defaultHourlyRate,omitempty"`
	PaymentTermsDays  int              `json:"paymentTermsDays"` // e.g. 30 = Net 30
	IsActive          bool             `json:"isActive"`
	AuditFields
}
