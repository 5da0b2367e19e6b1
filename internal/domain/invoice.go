package domain

import "time"

type InvoiceStatus string

const (
	InvoiceDraft    InvoiceStatus = "DRAFT"
	InvoiceIssued   InvoiceStatus = "ISSUED"
	InvoicePaid     InvoiceStatus = "PAID"
	InvoiceOverdue  InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

type Invoice struct {
	ID            string
	InvoiceNumber string
	CustomerID    string
	RentalID      *string
	Subtotal      Money
	Tax           Money
	AmountPaid    Money
	Status        InvoiceStatus
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Total is subtotal+tax, derived rather than stored.
func (i *Invoice) Total() Money {
	return i.Subtotal + i.Tax
}

// Balance is total-paid, derived rather than stored.
func (i *Invoice) Balance() Money {
	return i.Total() - i.AmountPaid
}

// ApplyPayment records a capture against the invoice, moving it to PAID once
// the balance reaches zero. Overpayment is rejected.
func (i *Invoice) ApplyPayment(amount Money) error {
	if i.Status == InvoiceCancelled || i.Status == InvoicePaid {
		return InvalidState("cannot apply payment to invoice in " + string(i.Status) + " state")
	}
	if amount <= 0 {
		return ValidationError("amount", "payment amount must be positive")
	}
	if amount > i.Balance() {
		return ValidationError("amount", "payment amount exceeds invoice balance")
	}
	i.AmountPaid += amount
	if i.Balance() == 0 {
		i.Status = InvoicePaid
	}
	return nil
}
