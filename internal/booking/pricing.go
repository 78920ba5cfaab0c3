package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

const secondsPerDay = 24 * 60 * 60

// Nights is the calendar-day difference between check-in and check-out,
// floored at 1. Same-day and inverted ranges are charged one night.
func Nights(checkIn, checkOut time.Time) int64 {
	n := dayNumber(checkOut) - dayNumber(checkIn)
	if n < 1 {
		return 1
	}
	return n
}

// ComputeTotal prices a stay. rate must be non-negative.
func ComputeTotal(rate decimal.Decimal, checkIn, checkOut time.Time) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(Nights(checkIn, checkOut)))
}

func dayNumber(t time.Time) int64 {
	return DateOnly(t).Unix() / secondsPerDay
}
