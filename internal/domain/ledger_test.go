package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBalance_Balanced(t *testing.T) {
	err := ValidateBalance([]LedgerLine{
		{AccountID: "cash", Debit: 500},
		{AccountID: "revenue", Credit: 500},
	})
	require.NoError(t, err)
}

func TestValidateBalance_RejectsEmpty(t *testing.T) {
	err := ValidateBalance(nil)
	require.Error(t, err)
}

func TestValidateBalance_RejectsUnbalanced(t *testing.T) {
	err := ValidateBalance([]LedgerLine{
		{AccountID: "cash", Debit: 500},
		{AccountID: "revenue", Credit: 400},
	})
	require.Error(t, err)
	derr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, derr.Code)
}

func TestValidateBalance_RejectsMixedDebitCreditLine(t *testing.T) {
	err := ValidateBalance([]LedgerLine{
		{AccountID: "cash", Debit: 500, Credit: 100},
	})
	require.Error(t, err)
}

func TestValidateBalance_RejectsZeroLine(t *testing.T) {
	err := ValidateBalance([]LedgerLine{
		{AccountID: "cash", Debit: 0, Credit: 0},
	})
	require.Error(t, err)
}

func TestValidateBalance_RejectsNegativeAmounts(t *testing.T) {
	err := ValidateBalance([]LedgerLine{
		{AccountID: "cash", Debit: -100},
	})
	require.Error(t, err)
}

func TestAccountType_DisplaySign(t *testing.T) {
	assert.Equal(t, Money(1), AccountAsset.DisplaySign())
	assert.Equal(t, Money(1), AccountExpense.DisplaySign())
	assert.Equal(t, Money(-1), AccountLiability.DisplaySign())
	assert.Equal(t, Money(-1), AccountEquity.DisplaySign())
	assert.Equal(t, Money(-1), AccountRevenue.DisplaySign())
}
