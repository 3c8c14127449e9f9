// Package projection computes time-value-of-money estimates for investments.
// All functions are pure. Money is passed and returned in cents; intermediate
// arithmetic is done in float64 and rounded to the nearest cent.
package projection

import "math"

// monthlyRate converts an annual percentage rate to a monthly decimal rate.
func monthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / 12
}

// LumpSumValue returns the value of a one-time investment of principal cents
// after the given number of months at the given annual rate, compounded
// monthly: principal * (1+r)^months.
//
// A zero rate returns the principal unchanged; callers treat that case as "no
// projection available" for display, but the result is still defined.
// months == 0 returns the principal. Negative months is a caller error and is
// not clamped here.
func LumpSumValue(principal int64, annualRatePercent float64, months int) int64 {
	r := monthlyRate(annualRatePercent)
	if r == 0 || months == 0 {
		return principal
	}
	return round(float64(principal) * math.Pow(1+r, float64(months)))
}

// RecurringValue returns the value of a fixed monthly contribution made at
// the start of each month (annuity-due) after the given number of months:
// C * (((1+r)^months - 1) / r) * (1+r). With a zero rate the contributions
// simply accumulate: C * months.
func RecurringValue(contribution int64, annualRatePercent float64, months int) int64 {
	if months <= 0 {
		return 0
	}
	r := monthlyRate(annualRatePercent)
	if r == 0 {
		return contribution * int64(months)
	}
	factor := ((math.Pow(1+r, float64(months)) - 1) / r) * (1 + r)
	return round(float64(contribution) * factor)
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
