package booking

import (
	"time"

	"hourgym/config"
	"hourgym/models"
)

// Rules carries the marketplace booking policy: buffer, duration bounds,
// platform fee and cancellation cutoffs. It is built once at startup and
// threaded through every engine call so tests can vary policy without
// touching globals.
type Rules struct {
	BufferMinutes      int
	MinBookingHours    int
	MaxBookingHours    int
	PlatformFeePercent int
	// CancellationCutoffs maps a policy tier to the minimum hours before
	// start required for a renter-initiated refund.
	CancellationCutoffs map[models.CancellationPolicy]int
}

// DefaultRules returns the contract values: 30min buffer, 1-4h duration,
// 15% fee, cutoffs of 24h/48h/168h.
func DefaultRules() Rules {
	return Rules{
		BufferMinutes:      30,
		MinBookingHours:    1,
		MaxBookingHours:    4,
		PlatformFeePercent: 15,
		CancellationCutoffs: map[models.CancellationPolicy]int{
			models.PolicyFlexible: 24,
			models.PolicyModerate: 48,
			models.PolicyStrict:   168,
		},
	}
}

// RulesFromConfig builds Rules from the loaded application config.
func RulesFromConfig(cfg config.Config) Rules {
	return Rules{
		BufferMinutes:      cfg.BufferMinutes,
		MinBookingHours:    cfg.MinBookingHours,
		MaxBookingHours:    cfg.MaxBookingHours,
		PlatformFeePercent: cfg.PlatformFeePercent,
		CancellationCutoffs: map[models.CancellationPolicy]int{
			models.PolicyFlexible: cfg.CutoffFlexibleHours,
			models.PolicyModerate: cfg.CutoffModerateHours,
			models.PolicyStrict:   cfg.CutoffStrictHours,
		},
	}
}

// Buffer returns the mandatory idle time enforced around every confirmed
// booking.
func (r Rules) Buffer() time.Duration {
	return time.Duration(r.BufferMinutes) * time.Minute
}
