package booking

import (
	"time"

	"hourgym/models"
)

// CanCancelWithRefund reports whether a renter-initiated cancellation of a
// booking starting at startAt qualifies for a refund under the gym's
// policy tier. The boundary is inclusive: exactly cutoff hours before
// start is still eligible. Owner-initiated cancellations always refund in
// full and must bypass this check entirely; that rule lives with the
// caller. An unknown policy tier is never refund-eligible.
func CanCancelWithRefund(startAt, now time.Time, policy models.CancellationPolicy, rules Rules) bool {
	cutoff, ok := rules.CancellationCutoffs[policy]
	if !ok {
		return false
	}
	hoursUntilStart := startAt.Sub(now).Hours()
	return hoursUntilStart >= float64(cutoff)
}
