package domain

// Money is a whole-unit Philippine peso amount. The source this system was
// distilled from mixed whole units and cents at different points in its
// history; this model prescribes integer whole units everywhere and never
// introduces a float or a decimal library for currency math.
type Money int64

const Currency = "PHP"

func (m Money) Add(other Money) Money {
	return m + other
}

func (m Money) Sub(other Money) Money {
	return m - other
}

func (m Money) Negate() Money {
	return -m
}

// DailyRateFor returns dailyRate × days, days computed by the caller as a
// ceiling of the duration in whole days.
func DailyRateFor(dailyRate Money, days int64) Money {
	return dailyRate * Money(days)
}
