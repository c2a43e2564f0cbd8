package booking

import (
	"math"
	"time"

	"hourgym/models"
)

// CalculatePrice computes the cost breakdown for renting a space at the
// given hourly rate over [start,end). Fractional hours are allowed. The
// owner payout is derived by subtraction so that
// subtotal == platformFee + ownerPayout holds exactly, with no rounding
// drift. Callers must pass end > start; a reversed interval is a caller
// bug and yields a meaningless negative result.
func CalculatePrice(hourlyRateCents int64, start, end time.Time, rules Rules) models.PricingResult {
	hours := end.Sub(start).Hours()
	subtotal := int64(math.Round(float64(hourlyRateCents) * hours))
	platformFee := int64(math.Round(float64(subtotal) * float64(rules.PlatformFeePercent) / 100))
	ownerPayout := subtotal - platformFee

	return models.PricingResult{
		Hours:       hours,
		Subtotal:    subtotal,
		PlatformFee: platformFee,
		Total:       subtotal,
		OwnerPayout: ownerPayout,
	}
}
