package payments

import "math"

// ToMinorUnits converts a currency amount to the processor's integer
// minor-unit convention (cents), rounding to the nearest unit.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
