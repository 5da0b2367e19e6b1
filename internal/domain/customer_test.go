package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCustomer_IsActive(t *testing.T) {
	assert.True(t, (&Customer{Status: CustomerActive}).IsActive())
	assert.False(t, (&Customer{Status: CustomerInactive}).IsActive())
	assert.False(t, (&Customer{Status: ""}).IsActive())
}

func TestCustomer_HasValidLicense(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, (&Customer{DriverLicenseExpiry: now.AddDate(1, 0, 0)}).HasValidLicense(now))
	assert.False(t, (&Customer{DriverLicenseExpiry: now.AddDate(-1, 0, 0)}).HasValidLicense(now))
	assert.False(t, (&Customer{}).HasValidLicense(now))
}
