package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

const moneyScale = 2

var hundred = decimal.NewFromInt(100)

// Percent converts a percentage such as 5 into the fraction 0.05.
func Percent(rate decimal.Decimal) decimal.Decimal {
	return rate.Div(hundred)
}

// RoundMoney rounds half-up to cents. Amounts handled here are never
// negative, so the library's half-away-from-zero rounding is half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyScale)
}

// FixedInterestPerPeriod returns the flat interest charged every period:
// original principal times the per-period rate.
func FixedInterestPerPeriod(principal, ratePerPeriod decimal.Decimal) decimal.Decimal {
	return principal.Mul(Percent(ratePerPeriod))
}

// CalculatePeriodicPayment calculates the installment amount of a flat-interest loan
// Formula: Principal / Periods + Principal * Rate / 100
func CalculatePeriodicPayment(principal, ratePerPeriod decimal.Decimal, periods int) decimal.Decimal {
	principalPart := principal.Div(decimal.NewFromInt(int64(periods)))
	return RoundMoney(principalPart.Add(FixedInterestPerPeriod(principal, ratePerPeriod)))
}

// SplitPrincipal divides principal into periods equal parts rounded to cents.
// The last part absorbs the rounding remainder so the parts sum to principal.
func SplitPrincipal(principal decimal.Decimal, periods int) []decimal.Decimal {
	parts := make([]decimal.Decimal, periods)
	each := RoundMoney(principal.Div(decimal.NewFromInt(int64(periods))))
	allocated := decimal.Zero
	for i := 0; i < periods-1; i++ {
		parts[i] = each
		allocated = allocated.Add(each)
	}
	parts[periods-1] = principal.Sub(allocated)
	return parts
}

// CalculateDueDate returns the due date of installment n (1-based).
// Installment 1 is due one period after the start date.
func CalculateDueDate(startDate time.Time, frequency string, n int) time.Time {
	switch frequency {
	case "daily":
		return startDate.AddDate(0, 0, n)
	case "weekly":
		return startDate.AddDate(0, 0, 7*n)
	case "biweekly":
		return startDate.AddDate(0, 0, 14*n)
	default:
		return startDate.AddDate(0, n, 0)
	}
}

// DaysBetween counts calendar days from the date of from to the date of to,
// each read in its own location. It is negative when to is before from.
func DaysBetween(from, to time.Time) int {
	return int(CalendarDate(to).Sub(CalendarDate(from)) / (24 * time.Hour))
}

// CalendarDate returns t's year, month and day as midnight UTC. Dates stored
// this way compare and subtract without zone offsets or DST gaps.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
