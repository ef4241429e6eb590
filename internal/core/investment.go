package core

import "math"

// MonthsInvested returns how many whole calendar months have passed
// since the position was opened, never negative.
func (inv Investment) MonthsInvested(today Date) int {
	n := MonthsBetween(inv.StartDate, today)
	if n < 0 {
		return 0
	}
	return n
}

// CurrentProfit derives the accumulated profit from compound monthly
// growth: initial * ((1 + r/100)^months - 1), rounded half-up to cents.
func (inv Investment) CurrentProfit(today Date) Money {
	months := inv.MonthsInvested(today)
	growth := math.Pow(1+inv.MonthlyYieldPercent/100, float64(months)) - 1
	profit := float64(inv.InitialAmount.Cents) * growth
	return Money{Cents: int64(math.Round(profit))}
}

// ProjectedValue returns the position value after the given number of
// months at the configured yield.
func (inv Investment) ProjectedValue(months int) Money {
	v := float64(inv.InitialAmount.Cents) * math.Pow(1+inv.MonthlyYieldPercent/100, float64(months))
	return Money{Cents: int64(math.Round(v))}
}
