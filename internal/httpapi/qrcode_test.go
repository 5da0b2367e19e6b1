package httpapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"fleetledger/internal/domain"
)

func TestInvoicePaymentQR_ProducesDataURI(t *testing.T) {
	uri := invoicePaymentQR("INV-0001", domain.Money(5000))

	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	assert.Greater(t, len(uri), len("data:image/png;base64,"))
}
