// Package billing computes the storage bill for one item:
// days stored * rate per day * quantity.
package billing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidDateRange = errors.New("end date is before start date")

// DaysStored returns the calendar-day difference between two dates, counted
// exclusive of the start day: storage that starts and ends on the same day
// is zero days.
func DaysStored(start, end time.Time) int64 {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int64(endDay.Sub(startDay) / (24 * time.Hour))
}

// Compute returns the bill amount for a storage period. If end precedes
// start it returns zero and ErrInvalidDateRange; callers must not persist
// anything in that case. No rounding is applied.
func Compute(start, end time.Time, ratePerDay decimal.Decimal, quantity int64) (decimal.Decimal, error) {
	days := DaysStored(start, end)
	if days < 0 {
		return decimal.Zero, ErrInvalidDateRange
	}
	return decimal.NewFromInt(days).Mul(ratePerDay).Mul(decimal.NewFromInt(quantity)), nil
}
