package projection

import "time"

// MonthsBetween returns the whole-month span between start and end,
// inclusive of the starting month: a span from January to January of the same
// year is 1, not 0. Computed on calendar year and month only; days and times
// are ignored.
//
// When end precedes start the result is zero or negative; callers clamp with
// ClampMonths before projecting, since a negative exponent is not meaningful
// for a contribution schedule.
func MonthsBetween(start, end time.Time) int {
	return (end.Year()*12 + int(end.Month())) - (start.Year()*12 + int(start.Month())) + 1
}

// ClampMonths returns months, raised to min if it is below it.
func ClampMonths(months, min int) int {
	if months < min {
		return min
	}
	return months
}
