package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintOf_DeterministicAndDistinct(t *testing.T) {
	a := fingerprintOf("POST", "/api/v1/invoices/inv-1/pay", []byte(`{"amount":100}`))
	b := fingerprintOf("POST", "/api/v1/invoices/inv-1/pay", []byte(`{"amount":100}`))
	assert.Equal(t, a, b, "identical method+path+body must fingerprint identically")

	differentBody := fingerprintOf("POST", "/api/v1/invoices/inv-1/pay", []byte(`{"amount":200}`))
	assert.NotEqual(t, a, differentBody)

	differentPath := fingerprintOf("POST", "/api/v1/invoices/inv-2/pay", []byte(`{"amount":100}`))
	assert.NotEqual(t, a, differentPath)

	differentMethod := fingerprintOf("PUT", "/api/v1/invoices/inv-1/pay", []byte(`{"amount":100}`))
	assert.NotEqual(t, a, differentMethod)
}
