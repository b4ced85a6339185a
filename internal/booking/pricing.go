package booking

import "github.com/shopspring/decimal"

var minutesPerHour = decimal.NewFromInt(60)

// Price returns duration × hourly rate rounded to two decimal places.  The
// rate is multiplied by the minute count before dividing so that
// fractional hours such as 20 minutes do not accumulate rounding error.
func Price(hourlyRate decimal.Decimal, slot Slot) decimal.Decimal {
	return hourlyRate.
		Mul(decimal.NewFromInt(int64(slot.Minutes()))).
		Div(minutesPerHour).
		Round(2)
}
