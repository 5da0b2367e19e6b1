package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

type Payment struct {
	ID                 string
	PaymentNumber      string
	InvoiceID          string
	PaymentMethodID    *string
	Amount             Money
	Status             PaymentStatus
	ExternalReference  string
	CreatedAt          time.Time
}

// PaymentMethod is a configuration entity mapping a payment code (CASH,
// GCASH, CARD, ...) to the asset account a capture against it debits —
// not a customer's saved instrument.
type PaymentMethod struct {
	ID                string
	Code              string
	DisplayName       string
	TargetAccountCode string
}
