package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney_Arithmetic(t *testing.T) {
	assert.Equal(t, Money(1500), Money(1000).Add(Money(500)))
	assert.Equal(t, Money(500), Money(1000).Sub(Money(500)))
	assert.Equal(t, Money(-1000), Money(1000).Negate())
}

func TestDailyRateFor(t *testing.T) {
	assert.Equal(t, Money(3000), DailyRateFor(Money(1000), 3))
	assert.Equal(t, Money(0), DailyRateFor(Money(1000), 0))
}
