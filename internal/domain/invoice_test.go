package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoice_Total_IsSubtotalPlusTax(t *testing.T) {
	inv := &Invoice{Subtotal: 900, Tax: 100}
	assert.Equal(t, Money(1000), inv.Total())
}

func TestInvoice_ApplyPayment_PartialThenFull(t *testing.T) {
	inv := &Invoice{Subtotal: 1000, Status: InvoiceIssued}

	require.NoError(t, inv.ApplyPayment(400))
	assert.Equal(t, Money(400), inv.AmountPaid)
	assert.Equal(t, Money(600), inv.Balance())
	assert.Equal(t, InvoiceIssued, inv.Status)

	require.NoError(t, inv.ApplyPayment(600))
	assert.Equal(t, Money(0), inv.Balance())
	assert.Equal(t, InvoicePaid, inv.Status)
}

func TestInvoice_ApplyPayment_RejectsOverpayment(t *testing.T) {
	inv := &Invoice{Subtotal: 1000, Status: InvoiceIssued}

	err := inv.ApplyPayment(1001)
	require.Error(t, err)
	derr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, derr.Code)
}

func TestInvoice_ApplyPayment_RejectsNonPositive(t *testing.T) {
	inv := &Invoice{Subtotal: 1000, Status: InvoiceIssued}

	assert.Error(t, inv.ApplyPayment(0))
	assert.Error(t, inv.ApplyPayment(-1))
}

func TestInvoice_ApplyPayment_RejectsTerminalStates(t *testing.T) {
	for _, status := range []InvoiceStatus{InvoicePaid, InvoiceCancelled} {
		inv := &Invoice{Subtotal: 1000, Status: status}
		err := inv.ApplyPayment(100)
		require.Error(t, err)
		derr, ok := AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, CodeInvalidState, derr.Code)
	}
}
